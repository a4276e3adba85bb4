// Package store persists a log of conversion runs: which document was
// converted, when, with what outcome. The conversion core never touches it;
// the server writes a record per request when persistence is enabled.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("conversion record not found")

// Record outcome values.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Issue is the persisted form of one conversion issue.
type Issue struct {
	Kind    string `json:"kind"`
	Concept string `json:"concept,omitempty"`
	Path    string `json:"path,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// ConversionRecord is one logged conversion run.
type ConversionRecord struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	DocumentID    string
	PatientID     string
	Status        string
	ResourceCount int
	IssueCount    int
	Issues        []Issue
}

// Store is the conversion log. Implementations must be safe for concurrent
// use.
type Store interface {
	Save(ctx context.Context, rec *ConversionRecord) error
	Get(ctx context.Context, id uuid.UUID) (*ConversionRecord, error)
	List(ctx context.Context, limit, offset int) ([]*ConversionRecord, int, error)
}

// Memory is an in-process Store for tests and single-node development runs.
type Memory struct {
	mu   sync.RWMutex
	recs map[uuid.UUID]*ConversionRecord
}

func NewMemory() *Memory {
	return &Memory{recs: make(map[uuid.UUID]*ConversionRecord)}
}

func (m *Memory) Save(_ context.Context, rec *ConversionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.recs[rec.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*ConversionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// List returns records newest first.
func (m *Memory) List(_ context.Context, limit, offset int) ([]*ConversionRecord, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*ConversionRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		cp := *rec
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

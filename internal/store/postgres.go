package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a pgx pool against databaseURL and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the conversions table.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

const recordColumns = `id, created_at, document_id, patient_id, status,
	resource_count, issue_count, issues`

func (s *pgStore) Save(ctx context.Context, rec *ConversionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	issues := rec.Issues
	if issues == nil {
		issues = []Issue{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversions (
			id, created_at, document_id, patient_id, status,
			resource_count, issue_count, issues
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.CreatedAt, rec.DocumentID, rec.PatientID, rec.Status,
		rec.ResourceCount, rec.IssueCount, issues,
	)
	return err
}

func (s *pgStore) Get(ctx context.Context, id uuid.UUID) (*ConversionRecord, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM conversions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *pgStore) List(ctx context.Context, limit, offset int) ([]*ConversionRecord, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conversions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM conversions
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*ConversionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func scanRecord(row pgx.Row) (*ConversionRecord, error) {
	var rec ConversionRecord
	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.DocumentID, &rec.PatientID, &rec.Status,
		&rec.ResourceCount, &rec.IssueCount, &rec.Issues,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

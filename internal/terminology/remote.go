package terminology

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
)

// Overlay layers remotely sourced OID→URI mappings over a base Mapper.
// Overlay entries win on conflict.
type Overlay struct {
	base    Mapper
	systems map[string]string
}

// SystemURI resolves against the overlay first, then the base mapper.
func (o *Overlay) SystemURI(oid string) (string, bool) {
	if uri, ok := o.systems[oid]; ok {
		return uri, true
	}
	return o.base.SystemURI(oid)
}

// conceptMapDocument is the wire format served by a terminology endpoint.
type conceptMapDocument struct {
	Systems map[string]string `json:"systems"`
}

// FetchOverlay downloads a concept-map document from url and returns an
// Overlay of base extended with its systems. The fetch is retried on
// transient failures and bounded by the context.
func FetchOverlay(ctx context.Context, base Mapper, url string) (*Overlay, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	client := retryClient.StandardClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("terminology: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("terminology: fetch concept map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("terminology: concept map endpoint returned %d", resp.StatusCode)
	}

	var doc conceptMapDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("terminology: decode concept map: %w", err)
	}

	return &Overlay{base: base, systems: doc.Systems}, nil
}

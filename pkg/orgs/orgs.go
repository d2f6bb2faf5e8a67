// Package orgs looks up organisations by slug from the organisations API
// so the exporter can populate organisation links.
package orgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Organisation is the subset of organisation data export needs.
type Organisation struct {
	ContentID    string `json:"content_id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Abbreviation string `json:"abbreviation"`
	WebURL       string `json:"web_url"`
}

// Config holds the organisations API connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Fetcher retrieves organisations, memoizing each slug for the life of
// the process. Organisation data changes rarely; export fan-out hits the
// same slug for every section of a manual.
type Fetcher struct {
	cfg    Config
	client *http.Client
	log    hclog.Logger

	mu    sync.Mutex
	cache map[string]*Organisation
}

// NewFetcher creates an organisation fetcher.
func NewFetcher(cfg Config, log hclog.Logger) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("organisations api base url required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.Named("orgs"),
		cache:  make(map[string]*Organisation),
	}, nil
}

// Fetch returns the organisation with the given slug.
func (f *Fetcher) Fetch(ctx context.Context, slug string) (*Organisation, error) {
	f.mu.Lock()
	if org, ok := f.cache[slug]; ok {
		f.mu.Unlock()
		return org, nil
	}
	f.mu.Unlock()

	url := fmt.Sprintf("%s/organisations/%s", f.cfg.BaseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching organisation %q: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching organisation %q: status %d", slug, resp.StatusCode)
	}

	var org Organisation
	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		return nil, fmt.Errorf("decoding organisation %q: %w", slug, err)
	}

	f.mu.Lock()
	f.cache[slug] = &org
	f.mu.Unlock()

	f.log.Debug("fetched organisation", "slug", slug, "content_id", org.ContentID)
	return &org, nil
}

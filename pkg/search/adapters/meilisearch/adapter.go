// Package meilisearch provides the hosted Meilisearch search adapter.
package meilisearch

import (
	"context"
	"fmt"

	meili "github.com/meilisearch/meilisearch-go"

	"github.com/alphagov-forge/manuals-publisher/pkg/search"
)

// Adapter implements search.Adapter for Meilisearch.
type Adapter struct {
	client meili.ServiceManager
	index  meili.IndexManager
}

// Config contains Meilisearch configuration.
type Config struct {
	Host      string
	APIKey    string
	IndexName string
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("meilisearch host required")
	}
	if c.IndexName == "" {
		return fmt.Errorf("meilisearch index name required")
	}
	return nil
}

// NewAdapter creates a new Meilisearch search adapter and verifies the
// backend is reachable.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := meili.New(cfg.Host, meili.WithAPIKey(cfg.APIKey))
	if !client.IsHealthy() {
		return nil, &search.Error{
			Op:  "NewAdapter",
			Err: search.ErrBackendUnavailable,
			Msg: fmt.Sprintf("meilisearch at %s", cfg.Host),
		}
	}

	return &Adapter{
		client: client,
		index:  client.Index(cfg.IndexName),
	}, nil
}

// Index adds or replaces a document.
func (a *Adapter) Index(ctx context.Context, doc search.Document) error {
	if doc.ObjectID == "" {
		return &search.Error{Op: "Index", Err: search.ErrInvalidDocument, Msg: "missing object id"}
	}
	if _, err := a.index.AddDocumentsWithContext(ctx, []search.Document{doc}, nil); err != nil {
		return &search.Error{Op: "Index", Err: search.ErrIndexingFailed, Msg: err.Error()}
	}
	return nil
}

// Delete removes a document.
func (a *Adapter) Delete(ctx context.Context, objectID string) error {
	if _, err := a.index.DeleteDocumentWithContext(ctx, objectID); err != nil {
		return &search.Error{Op: "Delete", Err: err}
	}
	return nil
}

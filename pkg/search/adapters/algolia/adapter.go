// Package algolia provides the hosted Algolia search adapter.
package algolia

import (
	"context"
	"fmt"

	algoliasearch "github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/alphagov-forge/manuals-publisher/pkg/search"
)

// Adapter implements search.Adapter for Algolia.
type Adapter struct {
	client *algoliasearch.Client
	index  *algoliasearch.Index
}

// Config contains Algolia configuration.
type Config struct {
	AppID        string
	WriteAPIKey  string
	SearchAPIKey string
	IndexName    string
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("algolia app id required")
	}
	if c.WriteAPIKey == "" {
		return fmt.Errorf("algolia write api key required")
	}
	if c.IndexName == "" {
		return fmt.Errorf("algolia index name required")
	}
	return nil
}

// NewAdapter creates a new Algolia search adapter.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := algoliasearch.NewClient(cfg.AppID, cfg.WriteAPIKey)
	return &Adapter{
		client: client,
		index:  client.InitIndex(cfg.IndexName),
	}, nil
}

// Index adds or replaces a document.
func (a *Adapter) Index(ctx context.Context, doc search.Document) error {
	if doc.ObjectID == "" {
		return &search.Error{Op: "Index", Err: search.ErrInvalidDocument, Msg: "missing object id"}
	}
	if _, err := a.index.SaveObject(doc); err != nil {
		return &search.Error{Op: "Index", Err: search.ErrIndexingFailed, Msg: err.Error()}
	}
	return nil
}

// Delete removes a document.
func (a *Adapter) Delete(ctx context.Context, objectID string) error {
	if _, err := a.index.DeleteObject(objectID); err != nil {
		return &search.Error{Op: "Delete", Err: err}
	}
	return nil
}

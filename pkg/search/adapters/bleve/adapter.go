// Package bleve provides an embedded full-text search adapter, used for
// local development and tests where no hosted search service exists.
package bleve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/alphagov-forge/manuals-publisher/pkg/search"
)

// Adapter implements search.Adapter over an embedded Bleve index.
type Adapter struct {
	index     bleve.Index
	indexPath string
}

// Config contains Bleve configuration.
type Config struct {
	IndexPath string // base path for the index directory
}

// NewAdapter creates a new Bleve search adapter.
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg.IndexPath == "" {
		return nil, fmt.Errorf("bleve index path required")
	}

	if err := os.MkdirAll(cfg.IndexPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	path := filepath.Join(cfg.IndexPath, "documents.bleve")
	idx, err := openOrCreateIndex(path, createDocumentMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to open documents index: %w", err)
	}

	return &Adapter{index: idx, indexPath: path}, nil
}

// openOrCreateIndex opens an existing Bleve index or creates a new one.
func openOrCreateIndex(path string, indexMapping mapping.IndexMapping) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return bleve.New(path, indexMapping)
	}
	return idx, err
}

// createDocumentMapping creates the index mapping for published documents.
func createDocumentMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	dateFieldMapping := bleve.NewDateTimeFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	docMapping.AddFieldMappingsAt("indexableContent", textFieldMapping)
	docMapping.AddFieldMappingsAt("documentType", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("link", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("publicTimestamp", dateFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Index adds or replaces a document.
func (a *Adapter) Index(ctx context.Context, doc search.Document) error {
	if doc.ObjectID == "" {
		return &search.Error{Op: "Index", Err: search.ErrInvalidDocument, Msg: "missing object id"}
	}
	if err := a.index.Index(doc.ObjectID, doc); err != nil {
		return &search.Error{Op: "Index", Err: search.ErrIndexingFailed, Msg: err.Error()}
	}
	return nil
}

// Delete removes a document. Deleting an unknown id is a no-op.
func (a *Adapter) Delete(ctx context.Context, objectID string) error {
	if err := a.index.Delete(objectID); err != nil {
		return &search.Error{Op: "Delete", Err: err}
	}
	return nil
}

// Close releases the underlying index.
func (a *Adapter) Close() error {
	return a.index.Close()
}

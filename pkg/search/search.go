// Package search defines the search-index adapter contract and the
// document shape the exporter pushes for published manuals and sections.
package search

import (
	"context"
	"time"
)

// Document is one search-index entry. Only published entities are ever
// indexed; drafts and archived editions never enter the index.
type Document struct {
	// ObjectID identifies the document in the index; the exporter uses
	// the entity's link path.
	ObjectID string `json:"objectID"`

	DocumentType     string    `json:"documentType"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Link             string    `json:"link"`
	IndexableContent string    `json:"indexableContent"`
	PublicTimestamp  time.Time `json:"publicTimestamp"`

	// Metadata carries document-type-specific fields passed through
	// opaquely.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Adapter indexes and removes documents in one search backend.
type Adapter interface {
	// Index adds or replaces the document.
	Index(ctx context.Context, doc Document) error

	// Delete removes the document with the given object id. Deleting a
	// document that is not indexed is not an error.
	Delete(ctx context.Context, objectID string) error
}

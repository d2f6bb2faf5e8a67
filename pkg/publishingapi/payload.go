package publishingapi

import "time"

// Update types understood by the publishing API. A forced republish
// marks the payload so downstream consumers reprocess unchanged content.
const (
	UpdateTypeMajor     = "major"
	UpdateTypeMinor     = "minor"
	UpdateTypeRepublish = "republish"
)

// BodyContent is one rendered representation of a document body.
type BodyContent struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Details carries the document body representations.
type Details struct {
	Body []BodyContent `json:"body"`
}

// Route is one URL the content is served from. The exact path is always
// "/" + slug.
type Route struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ContentPayload is the document representation pushed to the content
// endpoints.
type ContentPayload struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DocumentType    string    `json:"document_type"`
	SchemaName      string    `json:"schema_name,omitempty"`
	PublicUpdatedAt time.Time `json:"public_updated_at"`
	// LastEditedAt mirrors PublicUpdatedAt.
	LastEditedAt time.Time `json:"last_edited_at"`
	Details      Details   `json:"details"`
	Routes       []Route   `json:"routes"`
	UpdateType   string    `json:"update_type,omitempty"`
}

// Links is the cross-reference set patched before content is pushed.
type Links struct {
	Organisations []string `json:"organisations,omitempty"`
}

// UnpublishRequest withdraws content, redirecting its URL elsewhere.
type UnpublishRequest struct {
	Type            string `json:"type"`
	AlternativePath string `json:"alternative_path,omitempty"`
	DiscardDrafts   bool   `json:"discard_drafts"`
}

package exporter

import (
	"time"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
	"github.com/alphagov-forge/manuals-publisher/pkg/search"
)

const (
	manualDocumentType  = "manual"
	sectionDocumentType = "manual_section"
)

func manualUpdateType(action Action) string {
	if action == ActionRepublish {
		return publishingapi.UpdateTypeRepublish
	}
	return publishingapi.UpdateTypeMajor
}

func sectionUpdateType(edition *models.SectionEdition, action Action) string {
	if action == ActionRepublish {
		return publishingapi.UpdateTypeRepublish
	}
	if edition.MinorUpdate {
		return publishingapi.UpdateTypeMinor
	}
	return publishingapi.UpdateTypeMajor
}

// bodyRepresentations builds the content-type representations of a body.
// Rendering to markup happens downstream; both entries carry the source.
func bodyRepresentations(body string) []publishingapi.BodyContent {
	return []publishingapi.BodyContent{
		{ContentType: "text/govspeak", Content: body},
		{ContentType: "text/html", Content: body},
	}
}

func manualPayload(v *manual.ManualVersion, action Action) publishingapi.ContentPayload {
	publishedAt := v.UpdatedAt
	return publishingapi.ContentPayload{
		Title:           v.Title,
		Description:     v.Summary,
		DocumentType:    manualDocumentType,
		SchemaName:      manualDocumentType,
		PublicUpdatedAt: publishedAt,
		LastEditedAt:    publishedAt,
		Details: publishingapi.Details{
			Body: bodyRepresentations(v.Summary),
		},
		Routes: []publishingapi.Route{
			{Path: "/" + v.Slug, Type: "exact"},
		},
		UpdateType: manualUpdateType(action),
	}
}

func sectionPayload(edition *models.SectionEdition, action Action) publishingapi.ContentPayload {
	publishedAt := sectionTimestamp(edition)
	return publishingapi.ContentPayload{
		Title:           edition.Title,
		Description:     edition.Summary,
		DocumentType:    sectionDocumentType,
		SchemaName:      sectionDocumentType,
		PublicUpdatedAt: publishedAt,
		LastEditedAt:    publishedAt,
		Details: publishingapi.Details{
			Body: bodyRepresentations(edition.Body),
		},
		Routes: []publishingapi.Route{
			{Path: "/" + edition.Slug, Type: "exact"},
		},
		UpdateType: sectionUpdateType(edition, action),
	}
}

func sectionTimestamp(edition *models.SectionEdition) time.Time {
	if edition.PublicUpdatedAt != nil {
		return *edition.PublicUpdatedAt
	}
	return edition.UpdatedAt
}

func manualSearchDocument(v *manual.ManualVersion) search.Document {
	return search.Document{
		ObjectID:         "/" + v.Slug,
		DocumentType:     manualDocumentType,
		Title:            v.Title,
		Description:      v.Summary,
		Link:             "/" + v.Slug,
		IndexableContent: v.Summary,
		PublicTimestamp:  v.UpdatedAt,
	}
}

func sectionSearchDocument(edition *models.SectionEdition) search.Document {
	return search.Document{
		ObjectID:         "/" + edition.Slug,
		DocumentType:     sectionDocumentType,
		Title:            edition.Title,
		Description:      edition.Summary,
		Link:             "/" + edition.Slug,
		IndexableContent: edition.Body,
		PublicTimestamp:  sectionTimestamp(edition),
	}
}

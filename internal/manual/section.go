package manual

import (
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// Section is the aggregate for one section: its stable id plus the ordered
// list of its editions. Repository loads build it with the full history;
// store operations only ever write back the two most recent editions.
type Section struct {
	ID       string
	Editions []models.SectionEdition
}

// NewSection builds a section aggregate. Editions must be ordered by
// version_number ascending.
func NewSection(id string, editions []models.SectionEdition) *Section {
	return &Section{ID: id, Editions: editions}
}

// LatestEdition returns the highest-numbered edition, or nil when the
// section has none.
func (s *Section) LatestEdition() *models.SectionEdition {
	if len(s.Editions) == 0 {
		return nil
	}
	return &s.Editions[len(s.Editions)-1]
}

// EditionAtOrBefore returns the edition with the largest version_number
// less than or equal to v. The second return is false when no edition
// existed at that version.
func (s *Section) EditionAtOrBefore(v int) (*models.SectionEdition, bool) {
	for i := len(s.Editions) - 1; i >= 0; i-- {
		if s.Editions[i].VersionNumber <= v {
			return &s.Editions[i], true
		}
	}
	return nil, false
}

// Draft reports whether the section's latest edition is a draft.
func (s *Section) Draft() bool {
	e := s.LatestEdition()
	return e != nil && e.Draft()
}

// Published reports whether the section's latest edition is published.
func (s *Section) Published() bool {
	e := s.LatestEdition()
	return e != nil && e.Published()
}

// Archived reports whether the section's latest edition is archived.
func (s *Section) Archived() bool {
	e := s.LatestEdition()
	return e != nil && e.Archived()
}

// VersionNumber returns the current version number, zero when empty.
func (s *Section) VersionNumber() int {
	e := s.LatestEdition()
	if e == nil {
		return 0
	}
	return e.VersionNumber
}

// Slug returns the current slug, empty when the section has no editions.
func (s *Section) Slug() string {
	e := s.LatestEdition()
	if e == nil {
		return ""
	}
	return e.Slug
}

// Title returns the current title.
func (s *Section) Title() string {
	e := s.LatestEdition()
	if e == nil {
		return ""
	}
	return e.Title
}

// NeedsExporting reports whether the latest edition changed since its
// last successful export.
func (s *Section) NeedsExporting() bool {
	e := s.LatestEdition()
	return e != nil && e.NeedsExporting()
}

// NewDraft appends a new draft edition carrying over the previous
// edition's content, with version_number = previous max + 1. Attachments
// are cloned, never shared.
func (s *Section) NewDraft() *models.SectionEdition {
	prev := s.LatestEdition()
	next := models.SectionEdition{
		SectionID:     s.ID,
		VersionNumber: 1,
		State:         models.StateDraft,
	}
	if prev != nil {
		next.VersionNumber = prev.VersionNumber + 1
		next.Title = prev.Title
		next.Slug = prev.Slug
		next.Summary = prev.Summary
		next.Body = prev.Body
		next.Attachments = models.CloneAttachments(prev.Attachments)
	}
	s.Editions = append(s.Editions, next)
	return &s.Editions[len(s.Editions)-1]
}

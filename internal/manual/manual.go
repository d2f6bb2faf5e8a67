// Package manual holds the domain aggregates for manuals and sections and
// the resolution logic that decides which editions are currently visible.
package manual

import (
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// Manual is the aggregate for one manual: its durable record, that
// record's editions, and the section aggregates reachable through any
// edition's section id list. It is a transient view rebuilt on every
// repository load; association marshallers attach Sections and
// PublishTasks after the record itself is loaded.
type Manual struct {
	Record models.ManualRecord

	// Sections holds the aggregates for every section id referenced by
	// any edition, keyed for lookup and kept in first-seen order.
	Sections []*Section

	// PublishTasks is the read-only publish history attached by the
	// publish-task marshaller. Never written back through the repository.
	PublishTasks []models.ManualPublishTask

	sectionsByID map[string]*Section
}

// New builds a manual aggregate from its record.
func New(record models.ManualRecord) *Manual {
	return &Manual{Record: record}
}

// ID returns the stable manual id.
func (m *Manual) ID() string { return m.Record.ManualID }

// Slug returns the manual's slug.
func (m *Manual) Slug() string { return m.Record.Slug }

// OrganisationSlug returns the owning organisation's slug.
func (m *Manual) OrganisationSlug() string { return m.Record.OrganisationSlug }

// LatestEdition returns the highest-numbered manual edition, or nil.
func (m *Manual) LatestEdition() *models.ManualEdition {
	return m.Record.LatestEdition()
}

// Draft reports whether the manual's latest edition is a draft.
func (m *Manual) Draft() bool {
	e := m.LatestEdition()
	return e != nil && e.State == models.StateDraft
}

// Published reports whether the manual's latest edition is published.
func (m *Manual) Published() bool {
	e := m.LatestEdition()
	return e != nil && e.State == models.StatePublished
}

// Archived reports whether the manual's latest edition is archived.
func (m *Manual) Archived() bool {
	e := m.LatestEdition()
	return e != nil && e.State == models.StateArchived
}

// VersionNumber returns the current version number, zero when empty.
func (m *Manual) VersionNumber() int {
	e := m.LatestEdition()
	if e == nil {
		return 0
	}
	return e.VersionNumber
}

// AttachSections replaces the manual's section aggregates.
func (m *Manual) AttachSections(sections []*Section) {
	m.Sections = sections
	m.sectionsByID = make(map[string]*Section, len(sections))
	for _, s := range sections {
		m.sectionsByID[s.ID] = s
	}
}

// AttachPublishTasks replaces the manual's publish history.
func (m *Manual) AttachPublishTasks(tasks []models.ManualPublishTask) {
	m.PublishTasks = tasks
}

// Section returns the section aggregate with the given id, or nil.
func (m *Manual) Section(id string) *Section {
	if m.sectionsByID == nil {
		return nil
	}
	return m.sectionsByID[id]
}

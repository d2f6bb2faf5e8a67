package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// AssociationMarshaller loads and persists one kind of side-association of
// a manual. Marshallers are applied in order; each Load decorates the
// aggregate produced by the previous one.
type AssociationMarshaller interface {
	Load(m *manual.Manual, record *models.ManualRecord) (*manual.Manual, error)
	Dump(m *manual.Manual, record *models.ManualRecord) error
}

// SectionAssociationMarshaller attaches the section aggregates referenced
// by any of the manual's editions and writes their editions back on store.
type SectionAssociationMarshaller struct {
	sections *SectionRepository
}

// NewSectionAssociationMarshaller returns a marshaller backed by the given
// section repository.
func NewSectionAssociationMarshaller(sections *SectionRepository) *SectionAssociationMarshaller {
	return &SectionAssociationMarshaller{sections: sections}
}

// Load fetches every section id referenced by any edition. Section ids
// with no editions yet are skipped; they resolve as not-yet-existing.
func (sm *SectionAssociationMarshaller) Load(m *manual.Manual, record *models.ManualRecord) (*manual.Manual, error) {
	ids, err := record.AllSectionIDs()
	if err != nil {
		return nil, err
	}
	sections := make([]*manual.Section, 0, len(ids))
	for _, id := range ids {
		section, err := sm.sections.Load(id)
		if err != nil {
			return nil, fmt.Errorf("loading section association for manual %q: %w", record.ManualID, err)
		}
		if section == nil {
			continue
		}
		sections = append(sections, section)
	}
	m.AttachSections(sections)
	return m, nil
}

// Dump stores each attached section, applying the two-edition retention
// policy per section.
func (sm *SectionAssociationMarshaller) Dump(m *manual.Manual, record *models.ManualRecord) error {
	for _, section := range m.Sections {
		if _, err := sm.sections.Store(section); err != nil {
			return err
		}
	}
	return nil
}

// PublishTaskAssociationMarshaller attaches the manual's publish history.
type PublishTaskAssociationMarshaller struct {
	db *gorm.DB
}

// NewPublishTaskAssociationMarshaller returns a marshaller over db.
func NewPublishTaskAssociationMarshaller(db *gorm.DB) *PublishTaskAssociationMarshaller {
	return &PublishTaskAssociationMarshaller{db: db}
}

// Load attaches the manual's publish tasks, most recent first.
func (pm *PublishTaskAssociationMarshaller) Load(m *manual.Manual, record *models.ManualRecord) (*manual.Manual, error) {
	tasks, err := models.PublishTasksForManual(pm.db, record.ManualID)
	if err != nil {
		return nil, fmt.Errorf("loading publish tasks for manual %q: %w", record.ManualID, err)
	}
	m.AttachPublishTasks(tasks)
	return m, nil
}

// Dump is a no-op: publish tasks are derived history and read only
// through this path.
func (pm *PublishTaskAssociationMarshaller) Dump(m *manual.Manual, record *models.ManualRecord) error {
	return nil
}

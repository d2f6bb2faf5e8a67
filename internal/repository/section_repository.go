package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// SectionRepository loads section aggregates with their full edition
// history and writes back only the two most recent editions.
type SectionRepository struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewSectionRepository returns a section repository over db.
func NewSectionRepository(db *gorm.DB, log hclog.Logger) *SectionRepository {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &SectionRepository{db: db, log: log.Named("section-repository")}
}

// Fetch loads all editions for a section id, ordered by version number
// ascending, and builds the aggregate. A missing section id fails with the
// not-found marker.
func (r *SectionRepository) Fetch(sectionID string) (*manual.Section, error) {
	editions, err := models.AllSectionEditions(r.db, sectionID)
	if err != nil {
		return nil, fmt.Errorf("loading editions for section %q: %w", sectionID, err)
	}
	if len(editions) == 0 {
		return nil, notFound("section", sectionID)
	}
	return manual.NewSection(sectionID, editions), nil
}

// Load returns the aggregate, or nil when the section does not exist.
func (r *SectionRepository) Load(sectionID string) (*manual.Section, error) {
	section, err := r.Fetch(sectionID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return section, err
}

// Store validates and persists the two most recent editions of the
// aggregate. Saving two rather than one covers the case where the prior
// current edition was also mutated; older editions are never touched.
func (r *SectionRepository) Store(section *manual.Section) (*manual.Section, error) {
	start := len(section.Editions) - 2
	if start < 0 {
		start = 0
	}
	for i := start; i < len(section.Editions); i++ {
		edition := &section.Editions[i]
		if err := edition.Validate(); err != nil {
			return nil, fmt.Errorf("section %q edition %d: %w", section.ID, edition.VersionNumber, err)
		}
		if err := r.db.Save(edition).Error; err != nil {
			return nil, fmt.Errorf("saving section %q edition %d: %w", section.ID, edition.VersionNumber, err)
		}
	}
	r.log.Debug("stored section", "section_id", section.ID, "editions", len(section.Editions))
	return section, nil
}

// MarkExported stamps one edition's exported_at. The write bypasses the
// model hooks so updated_at keeps its pre-export value; a Save here would
// bump updated_at past the stamp and make every edition look stale again.
func (r *SectionRepository) MarkExported(sectionID string, versionNumber int, exportedAt time.Time) error {
	err := r.db.Model(&models.SectionEdition{}).
		Where("section_id = ? AND version_number = ?", sectionID, versionNumber).
		UpdateColumn("exported_at", exportedAt).Error
	if err != nil {
		return fmt.Errorf("marking section %q edition %d exported: %w", sectionID, versionNumber, err)
	}
	return nil
}

package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// SectionEdition is one immutable versioned snapshot of a section's content
// and lifecycle state. A section's history is the ordered list of its
// editions; a new draft is always a new edition with version_number =
// previous max + 1, never a mutation of a published edition.
type SectionEdition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// SectionID is stable across all versions of the same section.
	SectionID     string       `gorm:"type:varchar(255);not null;index:idx_section_editions_section_id;uniqueIndex:idx_section_editions_section_version,priority:1" json:"sectionId"`
	VersionNumber int          `gorm:"not null;default:1;uniqueIndex:idx_section_editions_section_version,priority:2" json:"versionNumber"`
	State         EditionState `gorm:"type:varchar(20);not null;default:'draft';index:idx_section_editions_state" json:"state"`

	Title   string `gorm:"type:varchar(500)" json:"title"`
	Slug    string `gorm:"type:varchar(500);index:idx_section_editions_slug" json:"slug"`
	Summary string `gorm:"type:text" json:"summary"`
	Body    string `gorm:"type:text" json:"body"`

	// Editorial metadata; not consulted by version resolution.
	ChangeNote  string `gorm:"type:text" json:"changeNote"`
	MinorUpdate bool   `gorm:"not null;default:false" json:"minorUpdate"`

	PublicUpdatedAt *time.Time `json:"publicUpdatedAt,omitempty"`

	// ExportedAt is the last successful push to the publishing API.
	// Compared against UpdatedAt to decide whether export is needed.
	ExportedAt *time.Time `json:"exportedAt,omitempty"`

	// Attachments are exclusively owned by this edition. Creating a new
	// edition clones them; they are never shared across editions.
	Attachments []Attachment `gorm:"foreignKey:SectionEditionID" json:"attachments,omitempty"`
}

// TableName specifies the table name.
func (SectionEdition) TableName() string {
	return "section_editions"
}

// BeforeCreate hook to apply state and version defaults.
func (se *SectionEdition) BeforeCreate(tx *gorm.DB) error {
	if se.State == "" {
		se.State = StateDraft
	}
	if se.VersionNumber == 0 {
		se.VersionNumber = 1
	}
	return nil
}

// Validate checks the fields an edition must carry before it may be saved.
func (se *SectionEdition) Validate() error {
	return validation.ValidateStruct(se,
		validation.Field(&se.SectionID, validation.Required),
		validation.Field(&se.Slug, validation.Required),
		validation.Field(&se.VersionNumber, validation.Min(1)),
	)
}

// Draft reports whether the edition is in the draft state.
func (se *SectionEdition) Draft() bool { return se.State == StateDraft }

// Published reports whether the edition is in the published state.
func (se *SectionEdition) Published() bool { return se.State == StatePublished }

// Archived reports whether the edition is in the archived state.
func (se *SectionEdition) Archived() bool { return se.State == StateArchived }

// Publish transitions a draft edition to published.
func (se *SectionEdition) Publish() error {
	next, err := se.State.transition(StatePublished)
	if err != nil {
		return err
	}
	se.State = next
	return nil
}

// Archive transitions the edition to archived. Archiving an already
// archived edition is a no-op.
func (se *SectionEdition) Archive() error {
	next, err := se.State.transition(StateArchived)
	if err != nil {
		return err
	}
	se.State = next
	return nil
}

// NeedsExporting reports whether the edition's content has changed since
// its last successful export.
func (se *SectionEdition) NeedsExporting() bool {
	if se.ExportedAt == nil {
		return true
	}
	return se.UpdatedAt.After(*se.ExportedAt)
}

// MarkExported records a successful export at t.
func (se *SectionEdition) MarkExported(t time.Time) {
	se.ExportedAt = &t
}

// AllSectionEditions returns every edition of a section ordered by
// version_number ascending.
func AllSectionEditions(db *gorm.DB, sectionID string) ([]SectionEdition, error) {
	var editions []SectionEdition
	err := db.Preload("Attachments").
		Where("section_id = ?", sectionID).
		Order("version_number ASC").
		Find(&editions).Error
	return editions, err
}

// LatestSectionEdition returns the highest-numbered edition of a section,
// or gorm.ErrRecordNotFound if the section has no editions.
func LatestSectionEdition(db *gorm.DB, sectionID string) (*SectionEdition, error) {
	var edition SectionEdition
	err := db.Where("section_id = ?", sectionID).
		Order("version_number DESC").
		First(&edition).Error
	if err != nil {
		return nil, err
	}
	return &edition, nil
}

// SectionEditionsWithSlugPrefix returns all editions whose slug starts with
// the given prefix, used by relocation tooling.
func SectionEditionsWithSlugPrefix(db *gorm.DB, prefix string) ([]SectionEdition, error) {
	var editions []SectionEdition
	err := db.Where("slug LIKE ?", prefix+"%").
		Order("section_id ASC, version_number ASC").
		Find(&editions).Error
	return editions, err
}

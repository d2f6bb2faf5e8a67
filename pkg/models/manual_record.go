package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ManualRecord is the durable source of truth for a manual's identity and
// its ordered list of editions. The richer Manual aggregate is a transient
// view rebuilt from this record on every load.
type ManualRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ManualID         string `gorm:"type:uuid;uniqueIndex;not null" json:"manualId"`
	Slug             string `gorm:"type:varchar(500);not null;index:idx_manual_records_slug" json:"slug"`
	OrganisationSlug string `gorm:"type:varchar(255);not null;index:idx_manual_records_organisation" json:"organisationSlug"`

	Editions []ManualEdition `gorm:"foreignKey:ManualRecordID" json:"editions,omitempty"`
}

// TableName specifies the table name.
func (ManualRecord) TableName() string {
	return "manual_records"
}

// BeforeCreate hook to ensure ManualID is set.
func (mr *ManualRecord) BeforeCreate(tx *gorm.DB) error {
	if mr.ManualID == "" {
		mr.ManualID = uuid.New().String()
	}
	return nil
}

// LatestEdition returns the highest-numbered edition, or nil when the
// record has none. Editions must already be loaded in ascending order.
func (mr *ManualRecord) LatestEdition() *ManualEdition {
	if len(mr.Editions) == 0 {
		return nil
	}
	return &mr.Editions[len(mr.Editions)-1]
}

// HasEverBeenPublished reports whether any edition left the draft state.
func (mr *ManualRecord) HasEverBeenPublished() bool {
	for i := range mr.Editions {
		if mr.Editions[i].State == StatePublished || mr.Editions[i].State == StateArchived {
			return true
		}
	}
	return false
}

// AllSectionIDs returns the union of section ids across every edition,
// in first-seen order.
func (mr *ManualRecord) AllSectionIDs() ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for i := range mr.Editions {
		editionIDs, err := mr.Editions[i].GetSectionIDs()
		if err != nil {
			return nil, err
		}
		for _, id := range editionIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// ManualEdition is one versioned snapshot of a manual. Instead of body
// content it records the ordered list of section ids belonging to that
// manual version.
type ManualEdition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ManualRecordID uint         `gorm:"not null;index:idx_manual_editions_record;uniqueIndex:idx_manual_editions_record_version,priority:1" json:"manualRecordId"`
	VersionNumber  int          `gorm:"not null;default:1;uniqueIndex:idx_manual_editions_record_version,priority:2" json:"versionNumber"`
	State          EditionState `gorm:"type:varchar(20);not null;default:'draft'" json:"state"`

	Title   string `gorm:"type:varchar(500)" json:"title"`
	Summary string `gorm:"type:text" json:"summary"`

	// SectionIDs is a JSON array of section ids in document order.
	SectionIDs JSON `gorm:"type:jsonb" json:"sectionIds"`

	ChangeNote string `gorm:"type:text" json:"changeNote"`
}

// TableName specifies the table name.
func (ManualEdition) TableName() string {
	return "manual_editions"
}

// BeforeCreate hook to apply state and version defaults.
func (me *ManualEdition) BeforeCreate(tx *gorm.DB) error {
	if me.State == "" {
		me.State = StateDraft
	}
	if me.VersionNumber == 0 {
		me.VersionNumber = 1
	}
	return nil
}

// GetSectionIDs decodes the edition's ordered section id list.
func (me *ManualEdition) GetSectionIDs() ([]string, error) {
	if len(me.SectionIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(me.SectionIDs, &ids); err != nil {
		return nil, fmt.Errorf("decoding section ids for manual edition %d: %w", me.ID, err)
	}
	return ids, nil
}

// SetSectionIDs encodes the ordered section id list.
func (me *ManualEdition) SetSectionIDs(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding section ids: %w", err)
	}
	me.SectionIDs = JSON(raw)
	return nil
}

// Publish transitions a draft edition to published.
func (me *ManualEdition) Publish() error {
	next, err := me.State.transition(StatePublished)
	if err != nil {
		return err
	}
	me.State = next
	return nil
}

// Archive transitions the edition to archived. Archiving an already
// archived edition is a no-op.
func (me *ManualEdition) Archive() error {
	next, err := me.State.transition(StateArchived)
	if err != nil {
		return err
	}
	me.State = next
	return nil
}

// ManualRecordByManualID returns the record with the given manual id,
// with its editions loaded in ascending version order.
func ManualRecordByManualID(db *gorm.DB, manualID string) (*ManualRecord, error) {
	var record ManualRecord
	err := db.Preload("Editions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Where("manual_id = ?", manualID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ManualRecordsBySlug returns every record with the given slug. Callers
// that require exactly one match must treat zero or multiple results as
// fatal rather than picking one.
func ManualRecordsBySlug(db *gorm.DB, slug string) ([]ManualRecord, error) {
	var records []ManualRecord
	err := db.Preload("Editions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Where("slug = ?", slug).Find(&records).Error
	return records, err
}

// AllManualRecords returns every manual record with editions loaded.
func AllManualRecords(db *gorm.DB) ([]ManualRecord, error) {
	var records []ManualRecord
	err := db.Preload("Editions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Order("slug ASC").Find(&records).Error
	return records, err
}

// ManualRecordsByOrganisation returns the records owned by one organisation.
func ManualRecordsByOrganisation(db *gorm.DB, organisationSlug string) ([]ManualRecord, error) {
	var records []ManualRecord
	err := db.Preload("Editions", func(db *gorm.DB) *gorm.DB {
		return db.Order("version_number ASC")
	}).Where("organisation_slug = ?", organisationSlug).Order("slug ASC").Find(&records).Error
	return records, err
}

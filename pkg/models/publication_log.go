package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PublicationLog is an append-only audit record of a change note published
// for a slug. Logs are created on publish, read by reporting and
// relocation tooling, and never mutated apart from relocation reslugs.
type PublicationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Slug          string    `gorm:"type:varchar(500);not null;index:idx_publication_logs_slug" json:"slug"`
	Title         string    `gorm:"type:varchar(500)" json:"title"`
	VersionNumber int       `gorm:"not null" json:"versionNumber"`
	ChangeNote    string    `gorm:"type:text" json:"changeNote"`
	PublishedAt   time.Time `gorm:"not null" json:"publishedAt"`
}

// TableName specifies the table name.
func (PublicationLog) TableName() string {
	return "publication_logs"
}

// BeforeCreate hook to default the publication timestamp.
func (pl *PublicationLog) BeforeCreate(tx *gorm.DB) error {
	if pl.PublishedAt.IsZero() {
		pl.PublishedAt = time.Now()
	}
	return nil
}

// AppendPublicationLog writes a new log entry.
func AppendPublicationLog(db *gorm.DB, log *PublicationLog) error {
	return db.Create(log).Error
}

// ChangeNotesForSlug returns every log entry whose slug is the given slug
// or nested beneath it, oldest first.
func ChangeNotesForSlug(db *gorm.DB, slug string) ([]PublicationLog, error) {
	var logs []PublicationLog
	err := db.Where("slug = ? OR slug LIKE ?", slug, slug+"/%").
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// DestroyPublicationLogs deletes every log entry for a slug and its
// nested section slugs. Only relocation tooling may do this.
func DestroyPublicationLogs(db *gorm.DB, slug string) error {
	return db.Where("slug = ? OR slug LIKE ?", slug, slug+"/%").
		Delete(&PublicationLog{}).Error
}

// ReslugPublicationLogs rewrites the slug prefix of every log entry under
// fromSlug to toSlug.
func ReslugPublicationLogs(db *gorm.DB, fromSlug, toSlug string) error {
	logs, err := ChangeNotesForSlug(db, fromSlug)
	if err != nil {
		return err
	}
	for i := range logs {
		logs[i].Slug = strings.Replace(logs[i].Slug, fromSlug, toSlug, 1)
		if err := db.Model(&logs[i]).Update("slug", logs[i].Slug).Error; err != nil {
			return err
		}
	}
	return nil
}

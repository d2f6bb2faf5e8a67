package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a file attached to one section edition. Attachments are
// owned by their edition; when a new edition is drafted they are cloned,
// keeping the same FileID so reporting can deduplicate across versions.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SectionEditionID uint `gorm:"not null;index:idx_attachments_section_edition" json:"sectionEditionId"`

	// FileID identifies the underlying stored file and survives cloning.
	FileID      string `gorm:"type:uuid;not null;index:idx_attachments_file_id" json:"fileId"`
	Filename    string `gorm:"type:varchar(500);not null" json:"filename"`
	ContentType string `gorm:"type:varchar(255)" json:"contentType"`
	FilePath    string `gorm:"type:varchar(1000)" json:"filePath"`
}

// TableName specifies the table name.
func (Attachment) TableName() string {
	return "attachments"
}

// BeforeCreate hook to ensure FileID is set.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.FileID == "" {
		a.FileID = uuid.New().String()
	}
	return nil
}

// Clone returns a copy of the attachment detached from any edition,
// ready to be attached to a newly drafted edition.
func (a Attachment) Clone() Attachment {
	return Attachment{
		FileID:      a.FileID,
		Filename:    a.Filename,
		ContentType: a.ContentType,
		FilePath:    a.FilePath,
	}
}

// CloneAttachments clones a whole edition's attachment list.
func CloneAttachments(attachments []Attachment) []Attachment {
	if len(attachments) == 0 {
		return nil
	}
	clones := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		clones = append(clones, a.Clone())
	}
	return clones
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// ManualPublishTask states.
const (
	PublishTaskQueued     = "queued"
	PublishTaskProcessing = "processing"
	PublishTaskFinished   = "finished"
	PublishTaskAborted    = "aborted"
)

// ManualPublishTask records one attempt to publish a manual version. Tasks
// are written by the publish path and are read-only everywhere else; the
// manual repository attaches them as a derived association and never
// writes them back.
type ManualPublishTask struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ManualID      string `gorm:"type:uuid;not null;index:idx_manual_publish_tasks_manual" json:"manualId"`
	VersionNumber int    `gorm:"not null" json:"versionNumber"`
	State         string `gorm:"type:varchar(20);not null;default:'queued'" json:"state"`
	Error         string `gorm:"type:text" json:"error,omitempty"`

	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// TableName specifies the table name.
func (ManualPublishTask) TableName() string {
	return "manual_publish_tasks"
}

// PublishTasksForManual returns the publish history of a manual, most
// recent first.
func PublishTasksForManual(db *gorm.DB, manualID string) ([]ManualPublishTask, error) {
	var tasks []ManualPublishTask
	err := db.Where("manual_id = ?", manualID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// Start marks the task as processing.
func (t *ManualPublishTask) Start(db *gorm.DB) error {
	now := time.Now()
	t.State = PublishTaskProcessing
	t.StartedAt = &now
	return db.Save(t).Error
}

// Finish marks the task as finished.
func (t *ManualPublishTask) Finish(db *gorm.DB) error {
	now := time.Now()
	t.State = PublishTaskFinished
	t.FinishedAt = &now
	return db.Save(t).Error
}

// Abort marks the task as aborted with the failure message.
func (t *ManualPublishTask) Abort(db *gorm.DB, cause error) error {
	now := time.Now()
	t.State = PublishTaskAborted
	t.FinishedAt = &now
	if cause != nil {
		t.Error = cause.Error()
	}
	return db.Save(t).Error
}

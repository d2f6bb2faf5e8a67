package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/alphagov-forge/manuals-publisher/internal/exporter"
	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// ErrNothingToPublish means the manual's latest edition is not a draft.
var ErrNothingToPublish = errors.New("manual has no draft edition to publish")

// ErrNeverPublished means a republish was requested for a manual that
// has never been published.
var ErrNeverPublished = errors.New("manual has never been published")

// ContentExporter pushes a manual to the publishing API and search
// index.
type ContentExporter interface {
	Export(ctx context.Context, m *manual.Manual, action exporter.Action) error
}

// PublishService transitions a manual's draft editions to published,
// appends publication log entries, and exports the result. Each run is
// recorded as a publish task so operators can see what happened to a
// stuck publish.
type PublishService struct {
	registry *repository.Registry
	exporter ContentExporter
	log      hclog.Logger
}

// NewPublishService creates a publish service.
func NewPublishService(registry *repository.Registry, contentExporter ContentExporter, log hclog.Logger) *PublishService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PublishService{
		registry: registry,
		exporter: contentExporter,
		log:      log.Named("publish"),
	}
}

// Publish publishes the manual's current draft edition and the draft
// editions of its sections, then exports. The stored state transition
// survives an export failure; re-running the export is safe because
// unchanged sections are skipped.
func (s *PublishService) Publish(ctx context.Context, manualID string) (*manual.Manual, error) {
	m, err := s.registry.ManualRepository().Fetch(manualID)
	if err != nil {
		return nil, err
	}
	if !m.Draft() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToPublish, manualID)
	}

	task, err := s.startTask(m)
	if err != nil {
		return nil, err
	}

	published, err := s.publish(ctx, m)
	if err != nil {
		s.abortTask(task, err)
		return nil, err
	}
	if err := task.Finish(s.registry.DB()); err != nil {
		return nil, err
	}
	return published, nil
}

// Republish re-exports the manual's current versions with the republish
// update type. No edition changes state and no publication log entries
// are written.
func (s *PublishService) Republish(ctx context.Context, manualID string) (*manual.Manual, error) {
	m, err := s.registry.ManualRepository().Fetch(manualID)
	if err != nil {
		return nil, err
	}
	if !m.Record.HasEverBeenPublished() {
		return nil, fmt.Errorf("%w: %s", ErrNeverPublished, manualID)
	}

	task, err := s.startTask(m)
	if err != nil {
		return nil, err
	}
	if err := s.exporter.Export(ctx, m, exporter.ActionRepublish); err != nil {
		s.abortTask(task, err)
		return nil, err
	}
	if err := task.Finish(s.registry.DB()); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PublishService) publish(ctx context.Context, m *manual.Manual) (*manual.Manual, error) {
	edition := m.LatestEdition()
	if err := edition.Publish(); err != nil {
		return nil, err
	}

	sectionIDs, err := edition.GetSectionIDs()
	if err != nil {
		return nil, err
	}
	for _, sectionID := range sectionIDs {
		section := m.Section(sectionID)
		if section == nil || !section.Draft() {
			continue
		}
		sectionEdition := section.LatestEdition()
		if err := sectionEdition.Publish(); err != nil {
			return nil, fmt.Errorf("publishing section %q: %w", sectionID, err)
		}
		if err := s.appendLog(sectionEdition); err != nil {
			return nil, err
		}
	}

	stored, err := s.registry.ManualRepository().Store(m)
	if err != nil {
		return nil, err
	}

	s.log.Info("publishing manual", "manual_id", m.ID(), "version", m.VersionNumber())
	if err := s.exporter.Export(ctx, stored, exporter.ActionUpdate); err != nil {
		return nil, err
	}
	return stored, nil
}

// appendLog records the section's change note. Minor updates and empty
// notes leave no trace in the publication log.
func (s *PublishService) appendLog(edition *models.SectionEdition) error {
	if edition.MinorUpdate || edition.ChangeNote == "" {
		return nil
	}
	return models.AppendPublicationLog(s.registry.DB(), &models.PublicationLog{
		Slug:          edition.Slug,
		Title:         edition.Title,
		VersionNumber: edition.VersionNumber,
		ChangeNote:    edition.ChangeNote,
	})
}

func (s *PublishService) startTask(m *manual.Manual) (*models.ManualPublishTask, error) {
	task := &models.ManualPublishTask{
		ManualID:      m.ID(),
		VersionNumber: m.VersionNumber(),
	}
	if err := s.registry.DB().Create(task).Error; err != nil {
		return nil, fmt.Errorf("recording publish task: %w", err)
	}
	if err := task.Start(s.registry.DB()); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *PublishService) abortTask(task *models.ManualPublishTask, cause error) {
	if err := task.Abort(s.registry.DB(), cause); err != nil {
		s.log.Error("failed to record aborted publish task", "task_id", task.ID, "error", err)
	}
}

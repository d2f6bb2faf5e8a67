package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alphagov-forge/manuals-publisher/internal/exporter"
	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

type exportCall struct {
	ManualID string
	Action   exporter.Action
}

type fakeExporter struct {
	calls []exportCall
	err   error
}

func (f *fakeExporter) Export(ctx context.Context, m *manual.Manual, action exporter.Action) error {
	f.calls = append(f.calls, exportCall{ManualID: m.ID(), Action: action})
	return f.err
}

func newTestRegistry(t *testing.T) *repository.Registry {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))
	return repository.NewRegistry(db, nil)
}

func seedDraftManual(t *testing.T, reg *repository.Registry, manualID string) {
	t.Helper()
	edition := models.ManualEdition{VersionNumber: 1, State: models.StateDraft, Title: "Manual"}
	require.NoError(t, edition.SetSectionIDs([]string{"s1", "s2"}))
	require.NoError(t, reg.DB().Create(&models.ManualRecord{
		ManualID:         manualID,
		Slug:             "guidance/test-manual",
		OrganisationSlug: "cabinet-office",
		Editions:         []models.ManualEdition{edition},
	}).Error)

	require.NoError(t, reg.DB().Create(&models.SectionEdition{
		SectionID: "s1", VersionNumber: 1, State: models.StateDraft,
		Slug: "guidance/test-manual/s1", Title: "First section",
		ChangeNote: "New section added",
	}).Error)
	require.NoError(t, reg.DB().Create(&models.SectionEdition{
		SectionID: "s2", VersionNumber: 1, State: models.StateDraft,
		Slug: "guidance/test-manual/s2", Title: "Second section",
		ChangeNote: "Typo fixes", MinorUpdate: true,
	}).Error)
}

func TestPublishTransitionsAndExports(t *testing.T) {
	reg := newTestRegistry(t)
	exp := &fakeExporter{}
	seedDraftManual(t, reg, "manual-1")

	svc := NewPublishService(reg, exp, nil)
	m, err := svc.Publish(context.Background(), "manual-1")
	require.NoError(t, err)

	assert.True(t, m.Published())
	for _, sectionID := range []string{"s1", "s2"} {
		section := m.Section(sectionID)
		require.NotNil(t, section)
		assert.True(t, section.Published(), "section %s", sectionID)
	}

	require.Len(t, exp.calls, 1)
	assert.Equal(t, exporter.ActionUpdate, exp.calls[0].Action)

	// Only the major update leaves a change note.
	logs, err := models.ChangeNotesForSlug(reg.DB(), "guidance/test-manual")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "guidance/test-manual/s1", logs[0].Slug)
	assert.Equal(t, "New section added", logs[0].ChangeNote)

	tasks, err := models.PublishTasksForManual(reg.DB(), "manual-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PublishTaskFinished, tasks[0].State)
}

func TestPublishRequiresDraft(t *testing.T) {
	reg := newTestRegistry(t)
	exp := &fakeExporter{}
	seedDraftManual(t, reg, "manual-1")

	svc := NewPublishService(reg, exp, nil)
	_, err := svc.Publish(context.Background(), "manual-1")
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), "manual-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingToPublish)
	assert.Len(t, exp.calls, 1, "second publish never reaches the exporter")
}

func TestPublishAbortsTaskOnExportFailure(t *testing.T) {
	reg := newTestRegistry(t)
	exp := &fakeExporter{err: errors.New("publishing api down")}
	seedDraftManual(t, reg, "manual-1")

	svc := NewPublishService(reg, exp, nil)
	_, err := svc.Publish(context.Background(), "manual-1")
	require.Error(t, err)

	tasks, err := models.PublishTasksForManual(reg.DB(), "manual-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PublishTaskAborted, tasks[0].State)
	assert.Contains(t, tasks[0].Error, "publishing api down")

	// The state transition is already stored; a later export retry
	// picks it up from there.
	m, err := NewShowService(reg).Manual("manual-1")
	require.NoError(t, err)
	assert.True(t, m.Published())
}

func TestRepublishRequiresPublishHistory(t *testing.T) {
	reg := newTestRegistry(t)
	exp := &fakeExporter{}
	seedDraftManual(t, reg, "manual-1")

	svc := NewPublishService(reg, exp, nil)
	_, err := svc.Republish(context.Background(), "manual-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNeverPublished)

	_, err = svc.Publish(context.Background(), "manual-1")
	require.NoError(t, err)

	_, err = svc.Republish(context.Background(), "manual-1")
	require.NoError(t, err)
	require.Len(t, exp.calls, 2)
	assert.Equal(t, exporter.ActionRepublish, exp.calls[1].Action)

	// Republish appends no change notes.
	logs, err := models.ChangeNotesForSlug(reg.DB(), "guidance/test-manual")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestShowSection(t *testing.T) {
	reg := newTestRegistry(t)
	seedDraftManual(t, reg, "manual-1")

	svc := NewShowService(reg)
	m, section, err := svc.Section("manual-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "manual-1", m.ID())
	assert.Equal(t, "s1", section.ID)
	assert.Equal(t, "First section", section.Title())

	_, _, err = svc.Section("manual-1", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListScopes(t *testing.T) {
	reg := newTestRegistry(t)
	seedDraftManual(t, reg, "manual-1")
	require.NoError(t, reg.DB().Create(&models.ManualRecord{
		ManualID:         "manual-2",
		Slug:             "guidance/other-manual",
		OrganisationSlug: "home-office",
	}).Error)

	svc := NewListService(reg)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ByOrganisation("home-office")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "manual-2", scoped[0].ID())

	summaries, err := svc.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, m := range summaries {
		assert.Empty(t, m.Sections, "associationless loads skip sections")
	}
}

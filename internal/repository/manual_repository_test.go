package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

func createManualFixture(t *testing.T, db *gorm.DB, slug, orgSlug string, sectionIDs []string) models.ManualRecord {
	t.Helper()

	record := models.ManualRecord{Slug: slug, OrganisationSlug: orgSlug}
	require.NoError(t, db.Create(&record).Error)

	edition := models.ManualEdition{ManualRecordID: record.ID, VersionNumber: 1, State: models.StateDraft}
	require.NoError(t, edition.SetSectionIDs(sectionIDs))
	require.NoError(t, db.Create(&edition).Error)

	for _, id := range sectionIDs {
		createSectionEdition(t, db, id, 1, models.StateDraft)
	}
	return record
}

func TestManualRepositoryFetchAttachesAssociations(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db, nil)

	record := createManualFixture(t, db, "guidance/alpha", "cabinet-office", []string{"12345", "67890"})
	require.NoError(t, db.Create(&models.ManualPublishTask{
		ManualID: record.ManualID, VersionNumber: 1, State: models.PublishTaskFinished,
	}).Error)

	m, err := reg.ManualRepository().Fetch(record.ManualID)
	require.NoError(t, err)

	assert.Equal(t, "guidance/alpha", m.Slug())
	require.Len(t, m.Sections, 2)
	assert.Equal(t, "12345", m.Sections[0].ID)
	assert.Equal(t, "67890", m.Sections[1].ID)
	require.Len(t, m.PublishTasks, 1)
	assert.Equal(t, models.PublishTaskFinished, m.PublishTasks[0].State)
}

func TestManualRepositoryFetchNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRegistry(db, nil).ManualRepository()

	_, err := repo.Fetch("1f0ac9e0-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	m, err := repo.LoadOne("1f0ac9e0-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestManualRepositoryScoping(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db, nil)

	createManualFixture(t, db, "guidance/alpha", "cabinet-office", []string{"11111"})
	beta := createManualFixture(t, db, "guidance/beta", "hm-treasury", []string{"22222"})

	all, err := reg.ManualRepository().Load()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := reg.OrganisationScopedManualRepository("hm-treasury").Load()
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "guidance/beta", scoped[0].Slug())

	// A scoped repository cannot fetch another organisation's manual.
	_, err = reg.OrganisationScopedManualRepository("cabinet-office").Fetch(beta.ManualID)
	assert.True(t, IsNotFound(err))
}

func TestAssociationlessManualRepository(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db, nil)

	record := createManualFixture(t, db, "guidance/alpha", "cabinet-office", []string{"12345"})

	m, err := reg.AssociationlessManualRepository().Fetch(record.ManualID)
	require.NoError(t, err)
	assert.Empty(t, m.Sections, "associationless load skips section attachment")
	assert.Empty(t, m.PublishTasks)
	require.NotNil(t, m.LatestEdition())
	assert.Equal(t, 1, m.LatestEdition().VersionNumber)
}

func TestManualRepositoryStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db, nil)
	repo := reg.ManualRepository()

	m := manual.New(models.ManualRecord{
		Slug:             "guidance/new-manual",
		OrganisationSlug: "cabinet-office",
	})
	edition := models.ManualEdition{VersionNumber: 1, State: models.StateDraft}
	require.NoError(t, edition.SetSectionIDs([]string{"s1"}))
	m.Record.Editions = append(m.Record.Editions, edition)
	m.AttachSections([]*manual.Section{
		manual.NewSection("s1", []models.SectionEdition{
			{SectionID: "s1", VersionNumber: 1, State: models.StateDraft, Slug: "guidance/new-manual/s1", Title: "S1"},
		}),
	})

	stored, err := repo.Store(m)
	require.NoError(t, err)
	assert.Same(t, m, stored)
	require.NotEmpty(t, m.Record.ManualID)

	loaded, err := repo.Fetch(m.Record.ManualID)
	require.NoError(t, err)
	assert.Equal(t, "guidance/new-manual", loaded.Slug())
	require.Len(t, loaded.Sections, 1)
	assert.Equal(t, "S1", loaded.Sections[0].Title())
}

func TestManualRepositoryStoreDoesNotWritePublishTasks(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(db, nil)
	repo := reg.ManualRepository()

	record := createManualFixture(t, db, "guidance/alpha", "cabinet-office", []string{"12345"})
	m, err := repo.Fetch(record.ManualID)
	require.NoError(t, err)

	// Mutating the attached history must not persist through Store.
	m.AttachPublishTasks([]models.ManualPublishTask{{ManualID: record.ManualID, VersionNumber: 9}})
	_, err = repo.Store(m)
	require.NoError(t, err)

	tasks, err := models.PublishTasksForManual(db, record.ManualID)
	require.NoError(t, err)
	assert.Empty(t, tasks, "publish-task marshaller dump is a no-op")
}

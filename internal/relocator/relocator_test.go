package relocator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alphagov-forge/manuals-publisher/pkg/models"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

type unpublishCall struct {
	ContentID string
	Req       publishingapi.UnpublishRequest
}

type fakePublishing struct {
	calls      []unpublishCall
	notFoundID string
}

func (f *fakePublishing) Unpublish(ctx context.Context, contentID string, req publishingapi.UnpublishRequest) error {
	f.calls = append(f.calls, unpublishCall{ContentID: contentID, Req: req})
	if contentID == f.notFoundID {
		return &publishingapi.Error{Op: "unpublish", ContentID: contentID, StatusCode: 404}
	}
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))
	return db
}

func seedManual(t *testing.T, db *gorm.DB, manualID, slug string, sectionIDs ...string) *models.ManualRecord {
	t.Helper()
	record := &models.ManualRecord{
		ManualID:         manualID,
		Slug:             slug,
		OrganisationSlug: "cabinet-office",
	}
	edition := models.ManualEdition{VersionNumber: 1, State: models.StatePublished, Title: "A manual"}
	require.NoError(t, edition.SetSectionIDs(sectionIDs))
	record.Editions = []models.ManualEdition{edition}
	require.NoError(t, db.Create(record).Error)

	for _, sectionID := range sectionIDs {
		require.NoError(t, db.Create(&models.SectionEdition{
			SectionID:     sectionID,
			VersionNumber: 1,
			State:         models.StatePublished,
			Slug:          slug + "/" + sectionID,
			Title:         "Section",
		}).Error)
	}
	require.NoError(t, models.AppendPublicationLog(db, &models.PublicationLog{
		Slug: slug + "/" + sectionIDs[0], Title: "Section", VersionNumber: 1, ChangeNote: "First",
	}))
	return record
}

func TestMoveReslugsAndRemoves(t *testing.T) {
	db := newTestDB(t)
	api := &fakePublishing{}

	seedManual(t, db, "old-manual-id", "guidance/final-home", "old-s1")
	seedManual(t, db, "new-manual-id", "guidance/temp-home", "new-s1")
	require.NoError(t, db.Create(&models.SectionEdition{
		SectionID:     "new-s1",
		VersionNumber: 2,
		State:         models.StateDraft,
		Slug:          "guidance/temp-home/new-s1",
		Title:         "Section",
	}).Error)

	r := New(db, api, nil)
	require.NoError(t, r.Move(context.Background(), "guidance/temp-home", "guidance/final-home"))

	// The displaced manual is gone along with its sections and logs.
	records, err := models.ManualRecordsBySlug(db, "guidance/final-home")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new-manual-id", records[0].ManualID)

	oldEditions, err := models.AllSectionEditions(db, "old-s1")
	require.NoError(t, err)
	assert.Empty(t, oldEditions)

	oldLogs, err := models.ChangeNotesForSlug(db, "guidance/final-home")
	require.NoError(t, err)
	require.Len(t, oldLogs, 1, "only the moved manual's reslugged log survives")
	assert.Equal(t, "guidance/final-home/new-s1", oldLogs[0].Slug)

	// Every edition of the moved manual's section carries the new slug,
	// historical versions included.
	editions, err := models.AllSectionEditions(db, "new-s1")
	require.NoError(t, err)
	require.Len(t, editions, 2)
	for _, edition := range editions {
		assert.Equal(t, "guidance/final-home/new-s1", edition.Slug, "version %d", edition.VersionNumber)
	}

	// Publishing side: removed section redirects to the manual page,
	// moved section to its new path, the manual to the new slug.
	require.Len(t, api.calls, 3)
	assert.Equal(t, "old-s1", api.calls[0].ContentID)
	assert.Equal(t, "/guidance/final-home", api.calls[0].Req.AlternativePath)
	assert.Equal(t, "redirect", api.calls[0].Req.Type)
	assert.True(t, api.calls[0].Req.DiscardDrafts)
	assert.Equal(t, "new-s1", api.calls[1].ContentID)
	assert.Equal(t, "/guidance/final-home/new-s1", api.calls[1].Req.AlternativePath)
	assert.Equal(t, "new-manual-id", api.calls[2].ContentID)
	assert.Equal(t, "/guidance/final-home", api.calls[2].Req.AlternativePath)
}

func TestMoveToleratesMissingRemoteContent(t *testing.T) {
	db := newTestDB(t)
	api := &fakePublishing{notFoundID: "old-s1"}

	seedManual(t, db, "old-manual-id", "guidance/final-home", "old-s1")
	seedManual(t, db, "new-manual-id", "guidance/temp-home", "new-s1")

	r := New(db, api, nil)
	require.NoError(t, r.Move(context.Background(), "guidance/temp-home", "guidance/final-home"))

	editions, err := models.AllSectionEditions(db, "old-s1")
	require.NoError(t, err)
	assert.Empty(t, editions, "local cleanup proceeds despite the remote 404")
}

func TestMoveRefusesAmbiguousSlugs(t *testing.T) {
	db := newTestDB(t)
	api := &fakePublishing{}
	r := New(db, api, nil)

	seedManual(t, db, "new-manual-id", "guidance/temp-home", "new-s1")

	// Destination slug matches nothing.
	err := r.Move(context.Background(), "guidance/temp-home", "guidance/nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no manual found")

	// Destination slug matches twice.
	seedManual(t, db, "dupe-a", "guidance/final-home", "dup-s1")
	seedManual(t, db, "dupe-b", "guidance/final-home", "dup-s2")
	err = r.Move(context.Background(), "guidance/temp-home", "guidance/final-home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one manual found")

	assert.Empty(t, api.calls, "aborted moves never touch the publishing API")
}

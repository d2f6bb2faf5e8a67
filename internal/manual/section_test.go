package manual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

func TestSectionEditionAtOrBefore(t *testing.T) {
	section := NewSection("abc", []models.SectionEdition{
		{SectionID: "abc", VersionNumber: 1, State: models.StatePublished},
		{SectionID: "abc", VersionNumber: 3, State: models.StatePublished},
		{SectionID: "abc", VersionNumber: 4, State: models.StateDraft},
	})

	edition, ok := section.EditionAtOrBefore(4)
	require.True(t, ok)
	assert.Equal(t, 4, edition.VersionNumber)

	edition, ok = section.EditionAtOrBefore(3)
	require.True(t, ok)
	assert.Equal(t, 3, edition.VersionNumber)

	// Gap in the history resolves to the nearest earlier edition.
	edition, ok = section.EditionAtOrBefore(2)
	require.True(t, ok)
	assert.Equal(t, 1, edition.VersionNumber)

	_, ok = section.EditionAtOrBefore(0)
	assert.False(t, ok)
}

func TestSectionStateQueries(t *testing.T) {
	empty := NewSection("abc", nil)
	assert.False(t, empty.Draft())
	assert.False(t, empty.Published())
	assert.Zero(t, empty.VersionNumber())
	assert.Empty(t, empty.Slug())

	section := NewSection("abc", []models.SectionEdition{
		{SectionID: "abc", VersionNumber: 1, State: models.StatePublished, Slug: "guidance/m/s", Title: "S"},
		{SectionID: "abc", VersionNumber: 2, State: models.StateDraft, Slug: "guidance/m/s", Title: "S v2"},
	})
	assert.True(t, section.Draft())
	assert.False(t, section.Published())
	assert.Equal(t, 2, section.VersionNumber())
	assert.Equal(t, "guidance/m/s", section.Slug())
	assert.Equal(t, "S v2", section.Title())
}

func TestSectionNewDraft(t *testing.T) {
	t.Run("first draft of a new section", func(t *testing.T) {
		section := NewSection("abc", nil)
		draft := section.NewDraft()
		assert.Equal(t, 1, draft.VersionNumber)
		assert.Equal(t, models.StateDraft, draft.State)
		assert.Equal(t, "abc", draft.SectionID)
	})

	t.Run("redraft carries content and clones attachments", func(t *testing.T) {
		section := NewSection("abc", []models.SectionEdition{{
			ID:            7,
			SectionID:     "abc",
			VersionNumber: 2,
			State:         models.StatePublished,
			Title:         "Oil rig safety",
			Slug:          "guidance/m/oil-rig-safety",
			Summary:       "How to stay safe",
			Body:          "Hold on tight",
			Attachments: []models.Attachment{
				{ID: 3, SectionEditionID: 7, FileID: "file-1", Filename: "safety.pdf"},
			},
		}})

		draft := section.NewDraft()
		assert.Equal(t, 3, draft.VersionNumber)
		assert.Equal(t, models.StateDraft, draft.State)
		assert.Equal(t, "Oil rig safety", draft.Title)
		assert.Equal(t, "Hold on tight", draft.Body)
		assert.Zero(t, draft.ID, "new edition must be a fresh row")

		require.Len(t, draft.Attachments, 1)
		clone := draft.Attachments[0]
		assert.Equal(t, "file-1", clone.FileID, "file id survives cloning")
		assert.Zero(t, clone.ID)
		assert.Zero(t, clone.SectionEditionID)

		assert.Len(t, section.Editions, 2)
	})
}

func TestSectionNeedsExporting(t *testing.T) {
	section := NewSection("abc", []models.SectionEdition{
		{SectionID: "abc", VersionNumber: 1, State: models.StatePublished},
	})
	assert.True(t, section.NeedsExporting(), "never-exported latest edition is stale")
}

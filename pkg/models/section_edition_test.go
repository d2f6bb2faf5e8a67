package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionEditionStateMachine(t *testing.T) {
	t.Run("publish moves a draft to published", func(t *testing.T) {
		edition := SectionEdition{SectionID: "abc", Slug: "guidance/m/s", State: StateDraft}
		require.NoError(t, edition.Publish())
		assert.Equal(t, StatePublished, edition.State)
	})

	t.Run("publish fails from published", func(t *testing.T) {
		edition := SectionEdition{State: StatePublished}
		err := edition.Publish()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatePublished, edition.State)
	})

	t.Run("publish fails from archived", func(t *testing.T) {
		edition := SectionEdition{State: StateArchived}
		assert.ErrorIs(t, edition.Publish(), ErrInvalidTransition)
	})

	t.Run("archive allowed from draft and published", func(t *testing.T) {
		draft := SectionEdition{State: StateDraft}
		require.NoError(t, draft.Archive())
		assert.Equal(t, StateArchived, draft.State)

		published := SectionEdition{State: StatePublished}
		require.NoError(t, published.Archive())
		assert.Equal(t, StateArchived, published.State)
	})

	t.Run("archive is idempotent", func(t *testing.T) {
		edition := SectionEdition{State: StateArchived, VersionNumber: 3}
		require.NoError(t, edition.Archive())
		assert.Equal(t, StateArchived, edition.State)
		assert.Equal(t, 3, edition.VersionNumber)
	})
}

func TestSectionEditionValidate(t *testing.T) {
	tests := []struct {
		name    string
		edition SectionEdition
		wantErr bool
	}{
		{
			name:    "valid",
			edition: SectionEdition{SectionID: "abc", Slug: "guidance/m/s", VersionNumber: 1},
			wantErr: false,
		},
		{
			name:    "missing section id",
			edition: SectionEdition{Slug: "guidance/m/s", VersionNumber: 1},
			wantErr: true,
		},
		{
			name:    "missing slug",
			edition: SectionEdition{SectionID: "abc", VersionNumber: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edition.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSectionEditionNeedsExporting(t *testing.T) {
	now := time.Now()

	t.Run("never exported", func(t *testing.T) {
		edition := SectionEdition{UpdatedAt: now}
		assert.True(t, edition.NeedsExporting())
	})

	t.Run("exported after last update", func(t *testing.T) {
		exported := now.Add(time.Minute)
		edition := SectionEdition{UpdatedAt: now, ExportedAt: &exported}
		assert.False(t, edition.NeedsExporting())
	})

	t.Run("updated after last export", func(t *testing.T) {
		exported := now.Add(-time.Minute)
		edition := SectionEdition{UpdatedAt: now, ExportedAt: &exported}
		assert.True(t, edition.NeedsExporting())
	})

	t.Run("mark exported clears staleness", func(t *testing.T) {
		edition := SectionEdition{UpdatedAt: now}
		edition.MarkExported(now.Add(time.Second))
		assert.False(t, edition.NeedsExporting())
	})
}

func TestEditionStateTransitionTable(t *testing.T) {
	assert.True(t, StateDraft.CanTransitionTo(StatePublished))
	assert.True(t, StateDraft.CanTransitionTo(StateArchived))
	assert.True(t, StatePublished.CanTransitionTo(StateArchived))
	assert.False(t, StatePublished.CanTransitionTo(StateDraft))
	assert.False(t, StateArchived.CanTransitionTo(StateDraft))
	assert.False(t, StateArchived.CanTransitionTo(StatePublished))
	assert.True(t, StateDraft.Valid())
	assert.False(t, EditionState("withdrawn-ish").Valid())
}

package manual

import (
	"fmt"
	"time"

	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// ManualVersion is a read-only view of a manual at one resolved version:
// manual-level fields plus the section editions visible at that version,
// in the manual edition's section id order.
type ManualVersion struct {
	ManualID         string
	Slug             string
	OrganisationSlug string
	State            models.EditionState
	VersionNumber    int
	Title            string
	Summary          string
	ChangeNote       string
	UpdatedAt        time.Time
	Sections         []SectionVersion
}

// SectionVersion is one section resolved at a manual version. The edition
// is the section's own nearest edition at or before the manual version; its
// state is independent of the manual slot it appears in.
type SectionVersion struct {
	SectionID string
	Edition   models.SectionEdition
}

// Versions holds the two resolution slots. A nil slot means no edition is
// currently visible in that role.
type Versions struct {
	Published *ManualVersion
	Draft     *ManualVersion
}

// CurrentVersions resolves which manual editions are currently visible as
// "published" and "draft" and, for each populated slot, which edition of
// each listed section is visible at that version.
//
// The manual's latest edition decides the draft slot: the slot is
// populated only when that edition is a draft. The published slot is the
// most recent edition in the published state. A withdrawn manual (its most
// recent non-draft edition is archived) surfaces nothing in either slot,
// even when a newer draft sits on top of the archived edition.
func (m *Manual) CurrentVersions() (Versions, error) {
	editions := m.Record.Editions
	if len(editions) == 0 {
		return Versions{}, nil
	}

	var draftEdition, publishedEdition *models.ManualEdition

	latest := &editions[len(editions)-1]
	if latest.State == models.StateDraft {
		draftEdition = latest
	}

	// Walk backwards to the most recent edition that left the draft state.
	// Archived means the manual was withdrawn: hide both slots.
	for i := len(editions) - 1; i >= 0; i-- {
		e := &editions[i]
		if e.State == models.StateDraft {
			continue
		}
		if e.State == models.StatePublished {
			publishedEdition = e
		} else {
			draftEdition = nil
		}
		break
	}

	var result Versions
	var err error
	if publishedEdition != nil {
		result.Published, err = m.resolveVersion(publishedEdition)
		if err != nil {
			return Versions{}, err
		}
	}
	if draftEdition != nil {
		result.Draft, err = m.resolveVersion(draftEdition)
		if err != nil {
			return Versions{}, err
		}
	}
	return result, nil
}

// resolveVersion builds the read-only view for one manual edition. Each
// listed section resolves to its edition with the largest version_number
// at or below the manual edition's version; sections with no edition at
// that point are omitted.
func (m *Manual) resolveVersion(edition *models.ManualEdition) (*ManualVersion, error) {
	sectionIDs, err := edition.GetSectionIDs()
	if err != nil {
		return nil, fmt.Errorf("resolving manual %s version %d: %w", m.ID(), edition.VersionNumber, err)
	}

	version := &ManualVersion{
		ManualID:         m.ID(),
		Slug:             m.Slug(),
		OrganisationSlug: m.OrganisationSlug(),
		State:            edition.State,
		VersionNumber:    edition.VersionNumber,
		Title:            edition.Title,
		Summary:          edition.Summary,
		ChangeNote:       edition.ChangeNote,
		UpdatedAt:        edition.UpdatedAt,
	}

	for _, id := range sectionIDs {
		section := m.Section(id)
		if section == nil {
			continue
		}
		resolved, ok := section.EditionAtOrBefore(edition.VersionNumber)
		if !ok {
			continue
		}
		version.Sections = append(version.Sections, SectionVersion{
			SectionID: id,
			Edition:   *resolved,
		})
	}

	return version, nil
}

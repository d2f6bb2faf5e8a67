// Package exporter pushes the resolved current state of a manual and its
// sections to the publishing API and the search index, in link-then-content
// order, skipping sections whose content is unchanged since the last export.
package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
	"github.com/alphagov-forge/manuals-publisher/pkg/orgs"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
	"github.com/alphagov-forge/manuals-publisher/pkg/search"
)

// Action selects normal update or forced republish behavior.
type Action string

const (
	// ActionUpdate exports only entities whose content changed since
	// their last export.
	ActionUpdate Action = "update"

	// ActionRepublish exports every entity regardless of staleness and
	// marks payloads with the republish update type.
	ActionRepublish Action = "republish"
)

// PublishingAPI is the slice of the publishing API the exporter calls.
type PublishingAPI interface {
	PutContent(ctx context.Context, contentID string, payload publishingapi.ContentPayload) error
	PutDraftContent(ctx context.Context, contentID string, payload publishingapi.ContentPayload) error
	PatchLinks(ctx context.Context, contentID string, links publishingapi.Links) error
	Unpublish(ctx context.Context, contentID string, req publishingapi.UnpublishRequest) error
}

// OrganisationFetcher resolves an organisation slug to its link data.
type OrganisationFetcher interface {
	Fetch(ctx context.Context, slug string) (*orgs.Organisation, error)
}

// SectionStore records an edition's export stamp. The write must leave
// the edition's content mutation time untouched, otherwise the stamp can
// never catch up with it.
type SectionStore interface {
	MarkExported(sectionID string, versionNumber int, exportedAt time.Time) error
}

// Exporter synchronizes a manual's resolved versions with the external
// publishing and search services. Failures propagate to the caller;
// retrying is the job of the surrounding worker, and per-entity
// idempotence via the exported_at stamp keeps retries cheap.
type Exporter struct {
	publishing PublishingAPI
	search     search.Adapter
	orgs       OrganisationFetcher
	sections   SectionStore
	log        hclog.Logger
	now        func() time.Time
}

// New creates an exporter.
func New(publishing PublishingAPI, searchAdapter search.Adapter, orgFetcher OrganisationFetcher, sections SectionStore, log hclog.Logger) *Exporter {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Exporter{
		publishing: publishing,
		search:     searchAdapter,
		orgs:       orgFetcher,
		sections:   sections,
		log:        log.Named("exporter"),
		now:        time.Now,
	}
}

// Export pushes the manual's resolved published and draft versions and
// those of its sections. Links always precede content for the same
// entity; only published entities reach the search index; archived
// entities are not pushed at all.
func (e *Exporter) Export(ctx context.Context, m *manual.Manual, action Action) error {
	versions, err := m.CurrentVersions()
	if err != nil {
		return err
	}
	if versions.Published == nil && versions.Draft == nil {
		e.log.Info("manual has no visible versions, skipping export", "manual_id", m.ID())
		return nil
	}

	org, err := e.orgs.Fetch(ctx, m.OrganisationSlug())
	if err != nil {
		return fmt.Errorf("fetching organisation for manual %s: %w", m.ID(), err)
	}
	links := publishingapi.Links{Organisations: []string{org.ContentID}}

	if err := e.publishing.PatchLinks(ctx, m.ID(), links); err != nil {
		return err
	}

	// Manual-level content is always re-sent; the staleness stamp only
	// covers sections.
	if v := versions.Published; v != nil {
		if err := e.publishing.PutContent(ctx, m.ID(), manualPayload(v, action)); err != nil {
			return err
		}
		if err := e.search.Index(ctx, manualSearchDocument(v)); err != nil {
			return err
		}
	}
	if v := versions.Draft; v != nil {
		if err := e.publishing.PutDraftContent(ctx, m.ID(), manualPayload(v, action)); err != nil {
			return err
		}
	}

	return e.exportSections(ctx, m, versions, links, action)
}

// exportSections walks the sections resolved in both slots, deduplicated
// by section and version, skipping those that do not need exporting.
func (e *Exporter) exportSections(ctx context.Context, m *manual.Manual, versions manual.Versions, links publishingapi.Links, action Action) error {
	type key struct {
		sectionID string
		version   int
	}
	seen := make(map[key]bool)

	for _, slot := range []*manual.ManualVersion{versions.Published, versions.Draft} {
		if slot == nil {
			continue
		}
		for _, sv := range slot.Sections {
			k := key{sv.SectionID, sv.Edition.VersionNumber}
			if seen[k] {
				continue
			}
			seen[k] = true

			edition := sv.Edition
			if edition.Archived() {
				continue
			}
			if !edition.NeedsExporting() && action != ActionRepublish {
				e.log.Debug("section unchanged since last export, skipping",
					"section_id", sv.SectionID, "version", edition.VersionNumber)
				continue
			}

			if err := e.exportSection(ctx, m, sv.SectionID, edition, links, action); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Exporter) exportSection(ctx context.Context, m *manual.Manual, sectionID string, edition models.SectionEdition, links publishingapi.Links, action Action) error {
	if err := e.publishing.PatchLinks(ctx, sectionID, links); err != nil {
		return err
	}

	payload := sectionPayload(&edition, action)
	switch edition.State {
	case models.StateDraft:
		if err := e.publishing.PutDraftContent(ctx, sectionID, payload); err != nil {
			return err
		}
	case models.StatePublished:
		if err := e.publishing.PutContent(ctx, sectionID, payload); err != nil {
			return err
		}
		if err := e.search.Index(ctx, sectionSearchDocument(&edition)); err != nil {
			return err
		}
	default:
		return nil
	}

	return e.markExported(m, sectionID, edition.VersionNumber)
}

// markExported stamps the exported edition in the live aggregate and in
// the store so a repeat export sees the section as up to date.
func (e *Exporter) markExported(m *manual.Manual, sectionID string, versionNumber int) error {
	exportedAt := e.now()
	if section := m.Section(sectionID); section != nil {
		for i := range section.Editions {
			if section.Editions[i].VersionNumber == versionNumber {
				section.Editions[i].MarkExported(exportedAt)
				break
			}
		}
	}
	if err := e.sections.MarkExported(sectionID, versionNumber, exportedAt); err != nil {
		return fmt.Errorf("recording export of section %q: %w", sectionID, err)
	}
	return nil
}

// Withdraw unpublishes the manual and its sections with redirects to
// redirectPath and removes their search-index entries. Draft content is
// discarded on the remote side.
func (e *Exporter) Withdraw(ctx context.Context, m *manual.Manual, redirectPath string) error {
	for _, section := range m.Sections {
		req := publishingapi.UnpublishRequest{
			Type:            "redirect",
			AlternativePath: redirectPath,
			DiscardDrafts:   true,
		}
		if err := e.publishing.Unpublish(ctx, section.ID, req); err != nil {
			return err
		}
		if err := e.search.Delete(ctx, "/"+section.Slug()); err != nil {
			return err
		}
	}

	req := publishingapi.UnpublishRequest{
		Type:            "redirect",
		AlternativePath: redirectPath,
		DiscardDrafts:   true,
	}
	if err := e.publishing.Unpublish(ctx, m.ID(), req); err != nil {
		return err
	}
	return e.search.Delete(ctx, "/"+m.Slug())
}

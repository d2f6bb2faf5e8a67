// Package relocator moves a manual from one slug to another. The manual
// currently occupying the destination slug is redirected and destroyed,
// then the moving manual and everything hanging off it is reslugged.
package relocator

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/pkg/models"
	"github.com/alphagov-forge/manuals-publisher/pkg/publishingapi"
)

// PublishingAPI is the slice of the publishing API relocation needs.
type PublishingAPI interface {
	Unpublish(ctx context.Context, contentID string, req publishingapi.UnpublishRequest) error
}

// Relocator performs slug moves. Both slugs must identify exactly one
// manual; anything else aborts before any mutation.
type Relocator struct {
	db         *gorm.DB
	publishing PublishingAPI
	log        hclog.Logger
}

// New creates a relocator.
func New(db *gorm.DB, publishing PublishingAPI, log hclog.Logger) *Relocator {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Relocator{db: db, publishing: publishing, log: log.Named("relocator")}
}

// Move relocates the manual at fromSlug to toSlug. The manual already
// living at toSlug is redirected to its own manual page and removed,
// then the moving manual, its sections and its publication logs are
// reslugged and the publishing API copies of the old paths redirected.
func (r *Relocator) Move(ctx context.Context, fromSlug, toSlug string) error {
	oldManual, err := r.fetchManual(toSlug)
	if err != nil {
		return err
	}
	newManual, err := r.fetchManual(fromSlug)
	if err != nil {
		return err
	}

	if err := r.redirectAndRemove(ctx, oldManual); err != nil {
		return err
	}
	return r.reslug(ctx, newManual, fromSlug, toSlug)
}

// fetchManual resolves a slug to exactly one manual record. Zero or more
// than one match is fatal: relocation must never guess.
func (r *Relocator) fetchManual(slug string) (*models.ManualRecord, error) {
	records, err := models.ManualRecordsBySlug(r.db, slug)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("no manual found for slug %q", slug)
	case 1:
		return &records[0], nil
	default:
		return nil, fmt.Errorf("more than one manual found for slug %q", slug)
	}
}

// redirectAndRemove redirects every section of the doomed manual to the
// manual's own page, then destroys its editions, publication logs and
// record.
func (r *Relocator) redirectAndRemove(ctx context.Context, old *models.ManualRecord) error {
	sectionIDs, err := old.AllSectionIDs()
	if err != nil {
		return err
	}

	for _, sectionID := range sectionIDs {
		edition, err := models.LatestSectionEdition(r.db, sectionID)
		if err != nil {
			return err
		}
		if edition != nil {
			r.log.Info("redirecting section of removed manual",
				"section_id", sectionID, "path", "/"+edition.Slug, "target", "/"+old.Slug)
			err := r.publishing.Unpublish(ctx, sectionID, publishingapi.UnpublishRequest{
				Type:            "redirect",
				AlternativePath: "/" + old.Slug,
				DiscardDrafts:   true,
			})
			if err != nil && !publishingapi.IsNotFound(err) {
				return err
			}
			if publishingapi.IsNotFound(err) {
				r.log.Warn("section not present in publishing API", "section_id", sectionID)
			}
		}

		if err := r.db.Where("section_id = ?", sectionID).Delete(&models.SectionEdition{}).Error; err != nil {
			return fmt.Errorf("destroying editions of section %q: %w", sectionID, err)
		}
	}

	r.log.Info("destroying publication logs", "slug", old.Slug)
	if err := models.DestroyPublicationLogs(r.db, old.Slug); err != nil {
		return err
	}

	r.log.Info("destroying manual", "manual_id", old.ManualID)
	if err := r.db.Where("manual_record_id = ?", old.ID).Delete(&models.ManualEdition{}).Error; err != nil {
		return fmt.Errorf("destroying editions of manual %q: %w", old.ManualID, err)
	}
	if err := r.db.Delete(old).Error; err != nil {
		return fmt.Errorf("destroying manual %q: %w", old.ManualID, err)
	}
	return nil
}

// reslug rewrites the slug of the moving manual, its section editions and
// its publication logs, then redirects the vacated paths.
func (r *Relocator) reslug(ctx context.Context, m *models.ManualRecord, fromSlug, toSlug string) error {
	sectionIDs, err := m.AllSectionIDs()
	if err != nil {
		return err
	}

	// Every edition nested under the old slug moves, current or not, so
	// historical versions keep resolving after the move.
	editions, err := models.SectionEditionsWithSlugPrefix(r.db, fromSlug+"/")
	if err != nil {
		return err
	}
	for i := range editions {
		newSlug := strings.Replace(editions[i].Slug, fromSlug, toSlug, 1)
		r.log.Info("reslugging section edition",
			"section_id", editions[i].SectionID, "from", editions[i].Slug, "to", newSlug)
		err := r.db.Model(&editions[i]).Update("slug", newSlug).Error
		if err != nil {
			return fmt.Errorf("reslugging section %q: %w", editions[i].SectionID, err)
		}
	}

	r.log.Info("reslugging manual", "from", m.Slug, "to", toSlug)
	if err := r.db.Model(m).Update("slug", toSlug).Error; err != nil {
		return fmt.Errorf("reslugging manual %q: %w", m.ManualID, err)
	}

	r.log.Info("reslugging publication logs", "from", fromSlug, "to", toSlug)
	if err := models.ReslugPublicationLogs(r.db, fromSlug, toSlug); err != nil {
		return err
	}

	// Retire the old paths on the publishing side: each section redirects
	// to its new path, the manual itself to the new manual page.
	for _, sectionID := range sectionIDs {
		edition, err := models.LatestSectionEdition(r.db, sectionID)
		if err != nil {
			return err
		}
		if edition == nil {
			continue
		}
		r.log.Info("redirecting section to its new path", "section_id", sectionID, "target", "/"+edition.Slug)
		err = r.publishing.Unpublish(ctx, sectionID, publishingapi.UnpublishRequest{
			Type:            "redirect",
			AlternativePath: "/" + edition.Slug,
			DiscardDrafts:   true,
		})
		if err != nil && !publishingapi.IsNotFound(err) {
			return err
		}
	}

	r.log.Info("redirecting manual to its new path", "manual_id", m.ManualID, "target", "/"+toSlug)
	err = r.publishing.Unpublish(ctx, m.ManualID, publishingapi.UnpublishRequest{
		Type:            "redirect",
		AlternativePath: "/" + toSlug,
		DiscardDrafts:   true,
	})
	if err != nil && !publishingapi.IsNotFound(err) {
		return err
	}
	return nil
}

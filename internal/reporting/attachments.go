// Package reporting builds aggregate reports over the publisher's data,
// currently counts of published attachments broken down by owning
// organisation and time period.
package reporting

import (
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// AttachmentCounts holds attachment counts for one organisation across
// the report's three windows: all time, since the report's start date,
// and within the trailing period.
type AttachmentCounts struct {
	Total        int
	SinceStart   int
	RecentPeriod int
}

// AttachmentReport counts published attachments with a given file
// extension per owning organisation. An attachment counts once per
// manual no matter how many editions carry it.
type AttachmentReport struct {
	db            *gorm.DB
	startDate     time.Time
	recentDays    int
	fileExtension string
	now           func() time.Time
}

// NewAttachmentReport creates a report over attachments whose filename
// ends in fileExtension (without the dot, e.g. "pdf").
func NewAttachmentReport(db *gorm.DB, startDate time.Time, recentDays int, fileExtension string) *AttachmentReport {
	return &AttachmentReport{
		db:            db,
		startDate:     startDate,
		recentDays:    recentDays,
		fileExtension: fileExtension,
		now:           time.Now,
	}
}

// CountsByOrganisation walks every manual that has ever been published
// and counts its matching attachments, keyed by the titleized
// organisation slug. Per-manual failures are accumulated; counts for the
// manuals that did succeed are still returned.
func (r *AttachmentReport) CountsByOrganisation() (map[string]*AttachmentCounts, error) {
	records, err := models.AllManualRecords(r.db)
	if err != nil {
		return nil, err
	}

	recentCutoff := r.now().AddDate(0, 0, -r.recentDays)
	counts := make(map[string]*AttachmentCounts)
	var errs *multierror.Error

	for i := range records {
		manual := &records[i]
		org := titleize(manual.OrganisationSlug)
		if counts[org] == nil {
			counts[org] = &AttachmentCounts{}
		}
		if !manual.HasEverBeenPublished() {
			continue
		}
		if err := r.countManual(manual, counts[org], recentCutoff); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return counts, errs.ErrorOrNil()
}

// countManual walks the manual's sections in version order and counts
// each matching attachment the first time its file id appears.
func (r *AttachmentReport) countManual(manual *models.ManualRecord, counts *AttachmentCounts, recentCutoff time.Time) error {
	sectionIDs, err := manual.AllSectionIDs()
	if err != nil {
		return err
	}

	seenFileIDs := make(map[string]bool)
	for _, sectionID := range sectionIDs {
		editions, err := models.AllSectionEditions(r.db, sectionID)
		if err != nil {
			return err
		}
		for i := range editions {
			edition := &editions[i]
			if edition.Draft() {
				continue
			}
			publishedAt := publicationInstant(edition)
			for _, attachment := range edition.Attachments {
				if seenFileIDs[attachment.FileID] {
					continue
				}
				if !r.extensionMatches(attachment.Filename) {
					continue
				}
				seenFileIDs[attachment.FileID] = true
				counts.Total++
				if !publishedAt.Before(r.startDate) {
					counts.SinceStart++
				}
				if !publishedAt.Before(recentCutoff) {
					counts.RecentPeriod++
				}
			}
		}
	}
	return nil
}

func (r *AttachmentReport) extensionMatches(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), "."+strings.ToLower(r.fileExtension))
}

// publicationInstant approximates when an edition went live: the export
// stamp when present, the last local update otherwise.
func publicationInstant(edition *models.SectionEdition) time.Time {
	if edition.ExportedAt != nil {
		return *edition.ExportedAt
	}
	return edition.UpdatedAt
}

// titleize turns an organisation slug into a display name, e.g.
// "cabinet-office" becomes "Cabinet Office".
func titleize(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

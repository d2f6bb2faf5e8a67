package repository

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/pkg/models"
)

// Scope filters which manual records a repository sees. The zero value
// matches every manual; setting a field narrows the collection. One
// repository shape covers "all", "by organisation" and "by slug" without
// a subclass per variant.
type Scope struct {
	OrganisationSlug string
	Slug             string
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.OrganisationSlug != "" {
		db = db.Where("organisation_slug = ?", s.OrganisationSlug)
	}
	if s.Slug != "" {
		db = db.Where("slug = ?", s.Slug)
	}
	return db
}

// ManualRepository loads and stores manual aggregates. It is constructed
// with an ordered list of association marshallers; an empty list gives the
// associationless variant that loads only manual-level data.
type ManualRepository struct {
	db          *gorm.DB
	log         hclog.Logger
	scope       Scope
	marshallers []AssociationMarshaller
}

// NewManualRepository returns a manual repository over db restricted to
// scope. Marshallers run in order on every load and store.
func NewManualRepository(db *gorm.DB, log hclog.Logger, scope Scope, marshallers ...AssociationMarshaller) *ManualRepository {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &ManualRepository{
		db:          db,
		log:         log.Named("manual-repository"),
		scope:       scope,
		marshallers: marshallers,
	}
}

// Load returns every manual in the repository's scope as a fully
// decorated aggregate.
func (r *ManualRepository) Load() ([]*manual.Manual, error) {
	var records []models.ManualRecord
	err := r.scope.apply(r.db).
		Preload("Editions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number ASC")
		}).
		Order("slug ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading manual records: %w", err)
	}

	manuals := make([]*manual.Manual, 0, len(records))
	for i := range records {
		m, err := r.build(&records[i])
		if err != nil {
			return nil, err
		}
		manuals = append(manuals, m)
	}
	return manuals, nil
}

// LoadOne returns the manual with the given manual id, or nil when it is
// not in scope.
func (r *ManualRepository) LoadOne(manualID string) (*manual.Manual, error) {
	m, err := r.Fetch(manualID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return m, err
}

// Fetch returns the manual with the given manual id, failing with the
// not-found marker when absent.
func (r *ManualRepository) Fetch(manualID string) (*manual.Manual, error) {
	var record models.ManualRecord
	err := r.scope.apply(r.db).
		Preload("Editions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number ASC")
		}).
		Where("manual_id = ?", manualID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("manual", manualID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading manual %q: %w", manualID, err)
	}
	return r.build(&record)
}

// Store persists the record, its editions, and each marshaller's
// association, returning the same aggregate for chaining.
func (r *ManualRepository) Store(m *manual.Manual) (*manual.Manual, error) {
	if err := r.db.Save(&m.Record).Error; err != nil {
		return nil, fmt.Errorf("saving manual record %q: %w", m.Record.ManualID, err)
	}
	for i := range m.Record.Editions {
		edition := &m.Record.Editions[i]
		if edition.ManualRecordID == 0 {
			edition.ManualRecordID = m.Record.ID
		}
		if err := r.db.Save(edition).Error; err != nil {
			return nil, fmt.Errorf("saving manual %q edition %d: %w", m.Record.ManualID, edition.VersionNumber, err)
		}
	}
	for _, am := range r.marshallers {
		if err := am.Dump(m, &m.Record); err != nil {
			return nil, err
		}
	}
	r.log.Debug("stored manual", "manual_id", m.Record.ManualID, "editions", len(m.Record.Editions))
	return m, nil
}

// build composes the aggregate: the bare manual first, then each
// marshaller's decoration in order.
func (r *ManualRepository) build(record *models.ManualRecord) (*manual.Manual, error) {
	m := manual.New(*record)
	var err error
	for _, am := range r.marshallers {
		m, err = am.Load(m, record)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

package repository

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"
)

// Registry wires the repository variants used across the application so
// that callers do not assemble marshaller lists by hand.
type Registry struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewRegistry returns a registry over db.
func NewRegistry(db *gorm.DB, log hclog.Logger) *Registry {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Registry{db: db, log: log}
}

// SectionRepository returns the section repository.
func (reg *Registry) SectionRepository() *SectionRepository {
	return NewSectionRepository(reg.db, reg.log)
}

// ManualRepository returns the fully associated repository over all
// manuals.
func (reg *Registry) ManualRepository() *ManualRepository {
	return reg.ScopedManualRepository(Scope{})
}

// OrganisationScopedManualRepository returns the fully associated
// repository restricted to one organisation's manuals.
func (reg *Registry) OrganisationScopedManualRepository(organisationSlug string) *ManualRepository {
	return reg.ScopedManualRepository(Scope{OrganisationSlug: organisationSlug})
}

// ScopedManualRepository returns a fully associated repository over an
// arbitrary scope.
func (reg *Registry) ScopedManualRepository(scope Scope) *ManualRepository {
	return NewManualRepository(reg.db, reg.log, scope,
		NewSectionAssociationMarshaller(reg.SectionRepository()),
		NewPublishTaskAssociationMarshaller(reg.db),
	)
}

// AssociationlessManualRepository returns a repository that loads only
// manual-level data, for listing views that never touch sections.
func (reg *Registry) AssociationlessManualRepository() *ManualRepository {
	return NewManualRepository(reg.db, reg.log, Scope{})
}

// AssociationlessOrganisationScopedManualRepository is the
// associationless variant restricted to one organisation.
func (reg *Registry) AssociationlessOrganisationScopedManualRepository(organisationSlug string) *ManualRepository {
	return NewManualRepository(reg.db, reg.log, Scope{OrganisationSlug: organisationSlug})
}

// DB exposes the underlying handle for tooling that reads models
// directly (reporting, relocation).
func (reg *Registry) DB() *gorm.DB {
	return reg.db
}

package services

import (
	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
)

// ListService loads manual collections for listing views.
type ListService struct {
	registry *repository.Registry
}

// NewListService creates a list service over the registry.
func NewListService(registry *repository.Registry) *ListService {
	return &ListService{registry: registry}
}

// All returns every manual with its sections and publish tasks attached.
func (s *ListService) All() ([]*manual.Manual, error) {
	return s.registry.ManualRepository().Load()
}

// ByOrganisation returns one organisation's manuals, fully associated.
func (s *ListService) ByOrganisation(organisationSlug string) ([]*manual.Manual, error) {
	return s.registry.OrganisationScopedManualRepository(organisationSlug).Load()
}

// Summaries returns every manual without loading sections or publish
// tasks. Listing views that only render manual-level fields use this to
// avoid walking each manual's section history.
func (s *ListService) Summaries() ([]*manual.Manual, error) {
	return s.registry.AssociationlessManualRepository().Load()
}

// SummariesByOrganisation is the associationless variant of
// ByOrganisation.
func (s *ListService) SummariesByOrganisation(organisationSlug string) ([]*manual.Manual, error) {
	return s.registry.AssociationlessOrganisationScopedManualRepository(organisationSlug).Load()
}

// Package services holds the thin orchestration layer between callers
// (CLI commands, future HTTP handlers) and the repositories, exporter
// and audit log.
package services

import (
	"fmt"

	"github.com/alphagov-forge/manuals-publisher/internal/manual"
	"github.com/alphagov-forge/manuals-publisher/internal/repository"
)

// ShowService looks up a manual, optionally narrowed to one of its
// sections.
type ShowService struct {
	registry *repository.Registry
}

// NewShowService creates a show service over the registry.
func NewShowService(registry *repository.Registry) *ShowService {
	return &ShowService{registry: registry}
}

// Manual returns the fully associated manual aggregate.
func (s *ShowService) Manual(manualID string) (*manual.Manual, error) {
	return s.registry.ManualRepository().Fetch(manualID)
}

// Section returns a manual together with one of its sections. The
// section must belong to the manual; a section id from some other
// manual is a not-found, not a fallback lookup.
func (s *ShowService) Section(manualID, sectionID string) (*manual.Manual, *manual.Section, error) {
	m, err := s.Manual(manualID)
	if err != nil {
		return nil, nil, err
	}
	section := m.Section(sectionID)
	if section == nil {
		return nil, nil, fmt.Errorf("%w: section %q in manual %q", repository.ErrNotFound, sectionID, manualID)
	}
	return m, section, nil
}

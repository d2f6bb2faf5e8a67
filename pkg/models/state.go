package models

import (
	"errors"
	"fmt"
)

// EditionState is the lifecycle state of a manual or section edition.
type EditionState string

const (
	StateDraft     EditionState = "draft"
	StatePublished EditionState = "published"
	StateArchived  EditionState = "archived"
)

// ErrInvalidTransition is returned when an edition is asked to move to a
// state its current state does not allow.
var ErrInvalidTransition = errors.New("invalid edition state transition")

// stateTransitions is the allowed from-state -> to-states table. Editions
// never move backwards; a new draft is a new edition, not a transition.
var stateTransitions = map[EditionState][]EditionState{
	StateDraft:     {StatePublished, StateArchived},
	StatePublished: {StateArchived},
	StateArchived:  {},
}

// Valid reports whether s is a known edition state.
func (s EditionState) Valid() bool {
	_, ok := stateTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s EditionState) CanTransitionTo(next EditionState) bool {
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// transition validates and returns the next state. Archiving an already
// archived edition is a no-op rather than an error.
func (s EditionState) transition(next EditionState) (EditionState, error) {
	if s == StateArchived && next == StateArchived {
		return s, nil
	}
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

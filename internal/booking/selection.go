// Package booking holds the client-side state of a booking form: the user's
// current selection and the debounced availability loader feeding it.
package booking

import (
	"sync"
	"time"

	"venuehub/internal/timeslot"
)

// Selection is the (date, start time, duration) tuple chosen in the booking
// form. Start, when set, is a label that was present in the most recent
// availability fetch for Date, except for a prefilled start carried over
// from an existing booking, which may have gone stale.
type Selection struct {
	SpaceID       int64
	Date          time.Time
	Start         timeslot.Label
	DurationHours int
}

// SelectionState owns a Selection together with the auto-adjustment flags.
// The flags are explicit fields rather than ambient mutable state: once the
// user pins a duration by hand, automatic clamping stays off for the life of
// this state, and a clamp fires at most once per distinct availability fetch.
type SelectionState struct {
	mu             sync.Mutex
	sel            Selection
	durationPinned bool
	adjustedFetch  uint64
}

// NewSelectionState returns a fresh form state with the given defaults.
func NewSelectionState(sel Selection) *SelectionState {
	return &SelectionState{sel: sel}
}

// Snapshot returns a copy of the current selection.
func (s *SelectionState) Snapshot() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetSpace selects a venue space and clears the dependent fields.
func (s *SelectionState) SetSpace(spaceID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.SpaceID = spaceID
	s.sel.Start = ""
}

// SetDate selects a calendar date and clears the chosen start time.
func (s *SelectionState) SetDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Date = date
	s.sel.Start = ""
}

// SetStart selects a start time label.
func (s *SelectionState) SetStart(start timeslot.Label) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.Start = start
}

// SetDuration changes the duration without pinning it, e.g. when the form is
// prefilled from an existing booking.
func (s *SelectionState) SetDuration(hours int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.DurationHours = hours
}

// PinDuration records an explicit duration choice by the user. From this
// point on ApplyAvailability never overrides the selection.
func (s *SelectionState) PinDuration(hours int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel.DurationHours = hours
	s.durationPinned = true
}

// DurationPinned reports whether the user has pinned the duration.
func (s *SelectionState) DurationPinned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationPinned
}

// ApplyAvailability clamps the selected duration down to maxFeasible after a
// fresh availability fetch. It reports the resulting duration and whether the
// selection changed. The clamp is skipped when the user has pinned the
// duration, when this fetch already adjusted once, or when nothing is
// feasible at all (maxFeasible < 1); the form then shows an explicit
// unavailable state instead of a silently shrunken duration.
func (s *SelectionState) ApplyAvailability(fetchID uint64, maxFeasible int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.durationPinned {
		return s.sel.DurationHours, false
	}
	if fetchID != 0 && fetchID == s.adjustedFetch {
		return s.sel.DurationHours, false
	}
	if maxFeasible < 1 || s.sel.DurationHours <= maxFeasible {
		return s.sel.DurationHours, false
	}

	s.sel.DurationHours = maxFeasible
	s.adjustedFetch = fetchID
	return s.sel.DurationHours, true
}

// Package selection implements the two-click check-in/check-out picking
// protocol for a stay.
package selection

import (
	"time"

	"staybook/internal/models"
)

// State represents the progress of a stay selection.
type State string

const (
	StateEmpty         State = "empty"
	StateCheckInChosen State = "check_in_chosen"
	StateRangeComplete State = "range_complete"
)

// StaySelection is the in-progress user choice of a date range. It enforces
// ordering only; occupancy and bounds are gated by the caller before a click
// reaches Pick. Invalid inputs are no-ops, never errors.
type StaySelection struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// State derives the current protocol state from which dates are set. Value
// receiver so snapshots of the selection can be queried directly.
func (s StaySelection) State() State {
	switch {
	case s.CheckIn.IsZero():
		return StateEmpty
	case s.CheckOut.IsZero():
		return StateCheckInChosen
	default:
		return StateRangeComplete
	}
}

// Pick applies one clicked date to the selection and returns the new state.
//
// From Empty or RangeComplete any click starts a fresh selection with the
// clicked date as check-in. From CheckInChosen a click before the current
// check-in corrects the check-in; a click on or after it completes the range.
// A zero-night range (check-out equal to check-in) is accepted here and left
// for range validation to reject.
func (s *StaySelection) Pick(d time.Time) State {
	d = models.DateOnly(d)
	switch s.State() {
	case StateCheckInChosen:
		if d.Before(s.CheckIn) {
			s.CheckIn = d
		} else {
			s.CheckOut = d
		}
	default:
		s.CheckIn = d
		s.CheckOut = time.Time{}
	}
	return s.State()
}

// Clear resets the selection from any state. Safe to call when already empty.
func (s *StaySelection) Clear() {
	s.CheckIn = time.Time{}
	s.CheckOut = time.Time{}
}

// Nights returns the stay length, or 0 if the range is incomplete.
func (s StaySelection) Nights() int {
	if s.State() != StateRangeComplete {
		return 0
	}
	return models.DaysBetween(s.CheckIn, s.CheckOut)
}

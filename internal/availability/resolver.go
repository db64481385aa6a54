// Package availability classifies calendar dates and validates candidate
// stay ranges against a property's existing booking intervals.
package availability

import (
	"time"

	"staybook/internal/models"
)

// Status is the derived availability of a single date.
type Status string

const (
	// StatusAvailable means no stored interval covers the date.
	StatusAvailable Status = "available"
	// StatusSoftHeld means only pending intervals cover the date. Pending
	// requests block nothing here; callers may render them differently.
	StatusSoftHeld Status = "soft_held"
	// StatusUnavailable means a confirmed or blocked interval covers the date.
	StatusUnavailable Status = "unavailable"
)

// IsOccupied reports whether date falls inside [CheckIn, CheckOut) of any
// interval whose status blocks. The checkout date is never itself occupied,
// so a new stay may begin the day an old one ends. Overlapping stored
// intervals of mixed statuses are fine; occupancy is the OR over blocking ones.
func IsOccupied(date time.Time, intervals []models.BookingInterval) bool {
	for i := range intervals {
		if intervals[i].Blocks() && intervals[i].ContainsDate(date) {
			return true
		}
	}
	return false
}

// RangeIsValid reports whether [checkIn, checkOut) is a bookable stay: the
// range is strictly ordered and every night in it is unoccupied. Every date
// is checked, not just endpoints, since a candidate range can wholly contain
// a blocked sub-interval.
func RangeIsValid(checkIn, checkOut time.Time, intervals []models.BookingInterval) bool {
	in := models.DateOnly(checkIn)
	out := models.DateOnly(checkOut)
	if !in.Before(out) {
		return false
	}
	for d := in; d.Before(out); d = d.AddDate(0, 0, 1) {
		if IsOccupied(d, intervals) {
			return false
		}
	}
	return true
}

// WithinBounds checks an optional booking window. A zero minDate or maxDate
// leaves that side open-ended; both bounds are inclusive.
func WithinBounds(date, minDate, maxDate time.Time) bool {
	d := models.DateOnly(date)
	if !minDate.IsZero() && d.Before(models.DateOnly(minDate)) {
		return false
	}
	if !maxDate.IsZero() && d.After(models.DateOnly(maxDate)) {
		return false
	}
	return true
}

// Classify derives the availability status of a single date. Unavailable wins
// over soft-held when intervals of different statuses overlap.
func Classify(date time.Time, intervals []models.BookingInterval) Status {
	if IsOccupied(date, intervals) {
		return StatusUnavailable
	}
	for i := range intervals {
		if intervals[i].Status == models.StatusPending && intervals[i].ContainsDate(date) {
			return StatusSoftHeld
		}
	}
	return StatusAvailable
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Interval statuses as stored by the booking store.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusBlocked   = "blocked"
)

// BookingInterval represents one occupied or blocked span on a property's
// calendar. Uses half-open [CheckIn, CheckOut) semantics: the checkout date
// itself is not occupied, so back-to-back bookings can touch.
type BookingInterval struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Status   string    `json:"status"` // confirmed, pending, blocked
}

// Validate rejects zero-night or inverted intervals and unknown statuses.
func (iv *BookingInterval) Validate() error {
	if !iv.CheckIn.Before(iv.CheckOut) {
		return fmt.Errorf("interval check_in %s must be before check_out %s",
			iv.CheckIn.Format(DateFormat), iv.CheckOut.Format(DateFormat))
	}
	switch iv.Status {
	case StatusConfirmed, StatusPending, StatusBlocked:
		return nil
	default:
		return fmt.Errorf("unknown interval status %q", iv.Status)
	}
}

// Blocks reports whether the interval makes its dates unavailable.
// Pending requests are not yet a commitment and do not block.
func (iv *BookingInterval) Blocks() bool {
	return iv.Status == StatusConfirmed || iv.Status == StatusBlocked
}

// ContainsDate checks half-open membership: CheckIn inclusive, CheckOut exclusive.
func (iv *BookingInterval) ContainsDate(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(iv.CheckIn)) && d.Before(DateOnly(iv.CheckOut))
}

// Nights returns the number of occupied nights.
func (iv *BookingInterval) Nights() int {
	return DaysBetween(iv.CheckIn, iv.CheckOut)
}

type intervalJSON struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

// MarshalJSON emits dates as YYYY-MM-DD strings.
func (iv BookingInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalJSON{
		CheckIn:  iv.CheckIn.Format(DateFormat),
		CheckOut: iv.CheckOut.Format(DateFormat),
		Status:   iv.Status,
	})
}

// UnmarshalJSON parses YYYY-MM-DD date strings.
func (iv *BookingInterval) UnmarshalJSON(data []byte) error {
	var raw intervalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	checkIn, err := time.Parse(DateFormat, raw.CheckIn)
	if err != nil {
		return fmt.Errorf("invalid check_in %q: %w", raw.CheckIn, err)
	}
	checkOut, err := time.Parse(DateFormat, raw.CheckOut)
	if err != nil {
		return fmt.Errorf("invalid check_out %q: %w", raw.CheckOut, err)
	}
	iv.CheckIn = checkIn
	iv.CheckOut = checkOut
	iv.Status = raw.Status
	return nil
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference end - start.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staybook/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(in, out time.Time) models.BookingInterval {
	return models.BookingInterval{CheckIn: in, CheckOut: out, Status: models.StatusConfirmed}
}

func pending(in, out time.Time) models.BookingInterval {
	return models.BookingInterval{CheckIn: in, CheckOut: out, Status: models.StatusPending}
}

func blocked(in, out time.Time) models.BookingInterval {
	return models.BookingInterval{CheckIn: in, CheckOut: out, Status: models.StatusBlocked}
}

func TestIsOccupied(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }

	tests := []struct {
		name      string
		date      time.Time
		intervals []models.BookingInterval
		occupied  bool
	}{
		{
			name:      "empty interval list - everything available",
			date:      jan(10),
			intervals: nil,
			occupied:  false,
		},
		{
			name:      "check-in date of confirmed interval is occupied",
			date:      jan(1),
			intervals: []models.BookingInterval{confirmed(jan(1), jan(5))},
			occupied:  true,
		},
		{
			name:      "checkout date is never occupied",
			date:      jan(5),
			intervals: []models.BookingInterval{confirmed(jan(1), jan(5))},
			occupied:  false,
		},
		{
			name:      "blocked interval occupies",
			date:      jan(3),
			intervals: []models.BookingInterval{blocked(jan(1), jan(5))},
			occupied:  true,
		},
		{
			name:      "pending interval does not occupy",
			date:      jan(2),
			intervals: []models.BookingInterval{pending(jan(1), jan(5))},
			occupied:  false,
		},
		{
			name: "pending over confirmed still occupies",
			date: jan(3),
			intervals: []models.BookingInterval{
				pending(jan(1), jan(10)),
				confirmed(jan(2), jan(4)),
			},
			occupied: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.occupied, IsOccupied(tt.date, tt.intervals))
		})
	}
}

func TestRangeIsValid(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }
	booked := []models.BookingInterval{confirmed(jan(1), jan(5))}

	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		intervals []models.BookingInterval
		valid     bool
	}{
		{"back-to-back after existing booking", jan(5), jan(8), booked, true},
		{"overlap is rejected", jan(3), jan(10), booked, false},
		{"range ending at existing check-in", day(2025, 12, 28), jan(1), booked, true},
		{"zero-night range is invalid", jan(10), jan(10), booked, false},
		{"inverted range is invalid", jan(12), jan(10), booked, false},
		{"empty calendar - any ordered range valid", jan(10), jan(20), nil, true},
		{
			name:      "range wholly containing a blocked sub-interval",
			checkIn:   jan(10),
			checkOut:  jan(20),
			intervals: []models.BookingInterval{blocked(jan(13), jan(14))},
			valid:     false,
		},
		{
			name:      "range over pending only is valid",
			checkIn:   jan(1),
			checkOut:  jan(5),
			intervals: []models.BookingInterval{pending(jan(1), jan(5))},
			valid:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, RangeIsValid(tt.checkIn, tt.checkOut, tt.intervals))
		})
	}
}

func TestRangeIsValid_Idempotent(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }
	intervals := []models.BookingInterval{confirmed(jan(1), jan(5)), pending(jan(8), jan(12))}

	first := RangeIsValid(jan(5), jan(8), intervals)
	second := RangeIsValid(jan(5), jan(8), intervals)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestWithinBounds(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }

	tests := []struct {
		name     string
		date     time.Time
		min, max time.Time
		within   bool
	}{
		{"open on both sides", jan(10), time.Time{}, time.Time{}, true},
		{"before min", jan(1), jan(5), time.Time{}, false},
		{"on min", jan(5), jan(5), time.Time{}, true},
		{"after max", jan(20), time.Time{}, jan(15), false},
		{"on max", jan(15), time.Time{}, jan(15), true},
		{"inside both bounds", jan(10), jan(5), jan(15), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.within, WithinBounds(tt.date, tt.min, tt.max))
		})
	}
}

func TestClassify(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }
	intervals := []models.BookingInterval{
		confirmed(jan(1), jan(5)),
		pending(jan(4), jan(10)),
	}

	assert.Equal(t, StatusUnavailable, Classify(jan(2), intervals))
	// Confirmed wins over overlapping pending
	assert.Equal(t, StatusUnavailable, Classify(jan(4), intervals))
	assert.Equal(t, StatusSoftHeld, Classify(jan(7), intervals))
	assert.Equal(t, StatusAvailable, Classify(jan(15), intervals))
}

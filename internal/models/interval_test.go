package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingInterval_Validate(t *testing.T) {
	tests := []struct {
		name     string
		interval BookingInterval
		wantErr  bool
	}{
		{
			name:     "valid confirmed interval",
			interval: BookingInterval{CheckIn: day(2026, 1, 1), CheckOut: day(2026, 1, 5), Status: StatusConfirmed},
			wantErr:  false,
		},
		{
			name:     "zero-night interval rejected",
			interval: BookingInterval{CheckIn: day(2026, 1, 5), CheckOut: day(2026, 1, 5), Status: StatusConfirmed},
			wantErr:  true,
		},
		{
			name:     "inverted interval rejected",
			interval: BookingInterval{CheckIn: day(2026, 1, 10), CheckOut: day(2026, 1, 5), Status: StatusBlocked},
			wantErr:  true,
		},
		{
			name:     "unknown status rejected",
			interval: BookingInterval{CheckIn: day(2026, 1, 1), CheckOut: day(2026, 1, 5), Status: "maybe"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.interval.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingInterval_Blocks(t *testing.T) {
	assert.True(t, (&BookingInterval{Status: StatusConfirmed}).Blocks())
	assert.True(t, (&BookingInterval{Status: StatusBlocked}).Blocks())
	assert.False(t, (&BookingInterval{Status: StatusPending}).Blocks())
}

func TestBookingInterval_ContainsDate(t *testing.T) {
	iv := BookingInterval{CheckIn: day(2026, 1, 15), CheckOut: day(2026, 1, 20), Status: StatusConfirmed}

	tests := []struct {
		name     string
		date     time.Time
		contains bool
	}{
		{"check-in date is occupied", day(2026, 1, 15), true},
		{"middle date is occupied", day(2026, 1, 17), true},
		{"last night is occupied", day(2026, 1, 19), true},
		{"checkout date is not occupied", day(2026, 1, 20), false},
		{"day before is not occupied", day(2026, 1, 14), false},
		{"timestamp on occupied day counts", time.Date(2026, 1, 17, 18, 30, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.contains, iv.ContainsDate(tt.date))
		})
	}
}

func TestBookingInterval_JSON(t *testing.T) {
	raw := `{"check_in":"2026-01-15","check_out":"2026-01-20","status":"pending"}`

	var iv BookingInterval
	require.NoError(t, json.Unmarshal([]byte(raw), &iv))
	assert.Equal(t, day(2026, 1, 15), iv.CheckIn)
	assert.Equal(t, day(2026, 1, 20), iv.CheckOut)
	assert.Equal(t, StatusPending, iv.Status)

	out, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestBookingInterval_JSONInvalidDate(t *testing.T) {
	var iv BookingInterval
	err := json.Unmarshal([]byte(`{"check_in":"Jan 15","check_out":"2026-01-20","status":"confirmed"}`), &iv)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 5, DaysBetween(day(2026, 1, 15), day(2026, 1, 20)))
	assert.Equal(t, 0, DaysBetween(day(2026, 1, 15), day(2026, 1, 15)))
	assert.Equal(t, -3, DaysBetween(day(2026, 1, 15), day(2026, 1, 12)))
	// Time-of-day is ignored
	assert.Equal(t, 1, DaysBetween(
		time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 16, 1, 0, 0, 0, time.UTC),
	))
}

func TestBookingRequest_Validate(t *testing.T) {
	valid := BookingRequest{PropertyID: "p1", CheckInDate: "2026-01-15", CheckOutDate: "2026-01-20", NumberOfGuests: 2}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.PropertyID = ""
	assert.Error(t, missing.Validate())

	noGuests := valid
	noGuests.NumberOfGuests = 0
	assert.Error(t, noGuests.Validate())
}

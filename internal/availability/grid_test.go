package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/models"
)

func TestDateGrid(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }
	intervals := []models.BookingInterval{
		confirmed(jan(3), jan(5)),
		pending(jan(6), jan(8)),
	}

	hints, err := DateGrid(jan(1), jan(9), intervals, Bounds{})
	require.NoError(t, err)
	require.Len(t, hints, 9)

	byDate := make(map[string]DateHint, len(hints))
	for _, h := range hints {
		byDate[h.Date] = h
	}

	assert.Equal(t, StatusAvailable, byDate["2026-01-01"].Status)
	assert.True(t, byDate["2026-01-01"].Selectable)

	assert.Equal(t, StatusUnavailable, byDate["2026-01-03"].Status)
	assert.False(t, byDate["2026-01-03"].Selectable)

	// Checkout day of the confirmed interval is free again
	assert.Equal(t, StatusAvailable, byDate["2026-01-05"].Status)

	// Soft-held renders distinctly and is not directly selectable
	assert.Equal(t, StatusSoftHeld, byDate["2026-01-07"].Status)
	assert.False(t, byDate["2026-01-07"].Selectable)
}

func TestDateGrid_Bounds(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }

	hints, err := DateGrid(jan(1), jan(5), nil, Bounds{Min: jan(3)})
	require.NoError(t, err)

	byDate := make(map[string]DateHint, len(hints))
	for _, h := range hints {
		byDate[h.Date] = h
	}
	assert.False(t, byDate["2026-01-02"].Selectable)
	assert.True(t, byDate["2026-01-03"].Selectable)
	// Out-of-bounds but unbooked dates still classify as available
	assert.Equal(t, StatusAvailable, byDate["2026-01-02"].Status)
}

func TestDateGrid_Errors(t *testing.T) {
	jan := func(d int) time.Time { return day(2026, time.January, d) }

	_, err := DateGrid(jan(10), jan(5), nil, Bounds{})
	assert.Error(t, err)

	_, err = DateGrid(jan(1), jan(1).AddDate(0, 0, MaxGridDays+1), nil, Bounds{})
	assert.Error(t, err)

	hints, err := DateGrid(jan(1), jan(1), nil, Bounds{})
	assert.NoError(t, err)
	assert.Len(t, hints, 1)
}

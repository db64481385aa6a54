package availability

import (
	"fmt"
	"time"

	"staybook/internal/models"
)

// MaxGridDays caps the size of a requested date grid.
const MaxGridDays = 90

// DateHint is the render hint for one calendar cell. Selectable folds in both
// occupancy and the booking window, so a rendering layer only needs to read it.
type DateHint struct {
	Date       string `json:"date"` // YYYY-MM-DD
	Status     Status `json:"status"`
	Selectable bool   `json:"selectable"`
}

// Bounds is an optional booking window. Zero values leave a side open.
type Bounds struct {
	Min time.Time
	Max time.Time
}

// DateGrid builds per-date render hints for [from, to] inclusive.
// The grid is what a calendar UI queries per cell instead of holding
// selection logic itself.
func DateGrid(from, to time.Time, intervals []models.BookingInterval, bounds Bounds) ([]DateHint, error) {
	start := models.DateOnly(from)
	end := models.DateOnly(to)
	if start.After(end) {
		return nil, fmt.Errorf("grid start %s is after end %s",
			start.Format(models.DateFormat), end.Format(models.DateFormat))
	}
	if models.DaysBetween(start, end) > MaxGridDays {
		return nil, fmt.Errorf("date range exceeds maximum of %d days", MaxGridDays)
	}

	hints := make([]DateHint, 0, models.DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// Soft-held dates stay out of direct selection even though the
		// range predicates do not treat pending intervals as occupied.
		status := Classify(d, intervals)
		hints = append(hints, DateHint{
			Date:       d.Format(models.DateFormat),
			Status:     status,
			Selectable: status == StatusAvailable && WithinBounds(d, bounds.Min, bounds.Max),
		})
	}
	return hints, nil
}

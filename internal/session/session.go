// Package session orchestrates one user's booking flow for one property:
// calendar hints, the pick protocol, quoting, and handoff to the store.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"staybook/internal/availability"
	"staybook/internal/bookingapi"
	"staybook/internal/events"
	"staybook/internal/models"
	"staybook/internal/pricing"
	"staybook/internal/selection"
)

// Submitter hands a finalized booking request to the external store.
type Submitter interface {
	SubmitBooking(ctx context.Context, req models.BookingRequest) (*bookingapi.SubmitResult, error)
}

// BookingSession ties the availability resolver, the selection state machine
// and the pricing calculator together for a single user and property. A
// mutex guards the mutable selection and intervals, since HTTP handlers can
// hit the same session concurrently; concurrent bookings for the same
// property are the store's problem at submission time, not ours.
type BookingSession struct {
	ID         string
	PropertyID string

	mu        sync.Mutex
	intervals []models.BookingInterval
	bounds    availability.Bounds
	pricing   models.PropertyPricing
	selection selection.StaySelection

	bus    *events.Bus
	logger *zerolog.Logger
}

// New creates a session over a fetched interval set and pricing constants.
func New(id, propertyID string, intervals []models.BookingInterval, p models.PropertyPricing, bounds availability.Bounds, bus *events.Bus, logger *zerolog.Logger) *BookingSession {
	return &BookingSession{
		ID:         id,
		PropertyID: propertyID,
		intervals:  intervals,
		bounds:     bounds,
		pricing:    p,
		bus:        bus,
		logger:     logger,
	}
}

// Selection returns a snapshot of the selection state for rendering.
func (bs *BookingSession) Selection() selection.StaySelection {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.selection
}

// Refresh replaces the interval set, e.g. after the store rejected a
// submission and the calendar was refetched. The selection is kept; if it
// became invalid the next quote or submit attempt reports that.
func (bs *BookingSession) Refresh(intervals []models.BookingInterval) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.intervals = intervals
}

// Grid returns per-date render hints for a calendar window.
func (bs *BookingSession) Grid(from, to string) ([]availability.DateHint, error) {
	start, err := parseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(to)
	if err != nil {
		return nil, err
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return availability.DateGrid(start, end, bs.intervals, bs.bounds)
}

// HandlePick applies one clicked date. Unavailable or out-of-bounds dates are
// dropped here so the state machine only ever sees valid candidates; accepted
// reports whether the click changed anything.
func (bs *BookingSession) HandlePick(date string) (state selection.State, accepted bool, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	d, err := parseDate(date)
	if err != nil {
		return bs.selection.State(), false, err
	}
	if !availability.WithinBounds(d, bs.bounds.Min, bs.bounds.Max) {
		return bs.selection.State(), false, nil
	}
	if availability.Classify(d, bs.intervals) != availability.StatusAvailable {
		return bs.selection.State(), false, nil
	}

	state = bs.selection.Pick(d)
	if state == selection.StateRangeComplete {
		bs.bus.Publish(events.Event{
			Type:       events.TypeSelectionCompleted,
			SessionID:  bs.ID,
			PropertyID: bs.PropertyID,
			CheckIn:    bs.selection.CheckIn.Format(models.DateFormat),
			CheckOut:   bs.selection.CheckOut.Format(models.DateFormat),
		})
	}
	return state, true, nil
}

// Clear resets the selection.
func (bs *BookingSession) Clear() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.selection.Clear()
}

// RangeValid reports whether the current selection is a bookable range.
func (bs *BookingSession) RangeValid() bool {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.rangeValid()
}

// rangeValid assumes bs.mu is held.
func (bs *BookingSession) rangeValid() bool {
	if bs.selection.State() != selection.StateRangeComplete {
		return false
	}
	return availability.RangeIsValid(bs.selection.CheckIn, bs.selection.CheckOut, bs.intervals)
}

// Quote computes the itemized price for the current selection. No quote is
// produced for an incomplete or invalid range.
func (bs *BookingSession) Quote() (*pricing.Quote, bool) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.quote()
}

// quote assumes bs.mu is held.
func (bs *BookingSession) quote() (*pricing.Quote, bool) {
	if !bs.rangeValid() {
		return nil, false
	}
	return pricing.Compute(
		bs.selection.CheckIn, bs.selection.CheckOut,
		bs.pricing.PricePerNight,
		pricing.FeesFromPricing(bs.pricing),
	)
}

// BuildRequest assembles the handoff payload for the current selection.
func (bs *BookingSession) BuildRequest(guests int, specialRequests string) (*models.BookingRequest, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return bs.buildRequest(guests, specialRequests)
}

// buildRequest assumes bs.mu is held.
func (bs *BookingSession) buildRequest(guests int, specialRequests string) (*models.BookingRequest, error) {
	if !bs.rangeValid() {
		return nil, fmt.Errorf("selection is not a valid bookable range")
	}
	if guests < 1 {
		return nil, fmt.Errorf("at least one guest is required")
	}
	if bs.pricing.MaxGuests > 0 && guests > bs.pricing.MaxGuests {
		return nil, fmt.Errorf("property sleeps at most %d guests", bs.pricing.MaxGuests)
	}
	return &models.BookingRequest{
		PropertyID:      bs.PropertyID,
		CheckInDate:     bs.selection.CheckIn.Format(models.DateFormat),
		CheckOutDate:    bs.selection.CheckOut.Format(models.DateFormat),
		NumberOfGuests:  guests,
		SpecialRequests: specialRequests,
	}, nil
}

// Submit hands the selection to the store. On rejection (for example another
// booking claimed the range first) the selection stays re-editable so the
// user can pick new dates without restarting the flow. The session lock is
// held across the store call so a concurrent pick cannot change the range
// between validation and handoff.
func (bs *BookingSession) Submit(ctx context.Context, client Submitter, guests int, specialRequests string) (*bookingapi.SubmitResult, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	req, err := bs.buildRequest(guests, specialRequests)
	if err != nil {
		return nil, err
	}

	result, err := client.SubmitBooking(ctx, *req)
	if err != nil {
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	event := events.Event{
		SessionID:  bs.ID,
		PropertyID: bs.PropertyID,
		CheckIn:    req.CheckInDate,
		CheckOut:   req.CheckOutDate,
		Guests:     req.NumberOfGuests,
	}
	if result.Accepted {
		event.Type = events.TypeBookingSubmitted
		event.Detail = result.BookingID
	} else {
		event.Type = events.TypeBookingRejected
		event.Detail = result.Error
		bs.logger.Info().
			Str("session_id", bs.ID).
			Str("property_id", bs.PropertyID).
			Str("reason", result.Error).
			Msg("booking rejected by store; selection kept editable")
	}
	bs.bus.Publish(event)
	return result, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", s)
	}
	return t, nil
}

package api

import (
	"net/http"
	"time"

	"staybook/internal/availability"
	"staybook/internal/metrics"
	"staybook/internal/models"
	"staybook/internal/pricing"
)

// AvailabilityRequest is the request body for POST /api/properties/availability.
type AvailabilityRequest struct {
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"` // Format: YYYY-MM-DD
	EndDate    string `json:"end_date"`   // Format: YYYY-MM-DD
}

// AvailabilityResponse is the per-date grid for a calendar window.
type AvailabilityResponse struct {
	PropertyID string                  `json:"property_id"`
	Dates      []availability.DateHint `json:"dates"`
	Period     struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleAvailability returns render hints for a property's calendar window.
// POST /api/properties/availability
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if !requirePost(w, r) {
		return
	}

	var req AvailabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID == "" || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "property_id, start_date and end_date are required")
		return
	}
	start, err := time.Parse(models.DateFormat, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date format; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(models.DateFormat, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date format; expected YYYY-MM-DD")
		return
	}

	intervals, err := s.client.FetchIntervals(r.Context(), req.PropertyID)
	if err != nil {
		s.logger.Error().Err(err).Str("property_id", req.PropertyID).Msg("fetch intervals failed")
		writeError(w, http.StatusBadGateway, "booking store unavailable")
		return
	}
	if s.snaps != nil {
		if err := s.snaps.SaveSnapshot(r.Context(), req.PropertyID, intervals); err != nil {
			s.logger.Warn().Err(err).Str("property_id", req.PropertyID).Msg("snapshot save failed")
		}
	}

	hints, err := availability.DateGrid(start, end, intervals, s.bounds())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := AvailabilityResponse{PropertyID: req.PropertyID, Dates: hints}
	resp.Period.Start = req.StartDate
	resp.Period.End = req.EndDate
	writeJSON(w, http.StatusOK, resp)
}

// QuoteRequest is the request body for POST /api/quote.
type QuoteRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`  // Format: YYYY-MM-DD
	CheckOut   string `json:"check_out"` // Format: YYYY-MM-DD
}

// QuoteResponse wraps an itemized quote.
type QuoteResponse struct {
	PropertyID string         `json:"property_id"`
	Quote      *pricing.Quote `json:"quote"`
}

// handleQuote prices a candidate stay against live pricing and availability.
// POST /api/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("quote")
	if !requirePost(w, r) {
		return
	}

	var req QuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID == "" || req.CheckIn == "" || req.CheckOut == "" {
		writeError(w, http.StatusBadRequest, "property_id, check_in and check_out are required")
		return
	}
	checkIn, err := time.Parse(models.DateFormat, req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_in format; expected YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(models.DateFormat, req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check_out format; expected YYYY-MM-DD")
		return
	}

	intervals, err := s.client.FetchIntervals(r.Context(), req.PropertyID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "booking store unavailable")
		return
	}
	valid := availability.RangeIsValid(checkIn, checkOut, intervals)
	metrics.IncRangeCheck(valid)
	if !valid {
		writeError(w, http.StatusConflict, "requested range is not bookable")
		return
	}

	props, err := s.client.FetchPricing(r.Context(), req.PropertyID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "booking store unavailable")
		return
	}

	quote, ok := pricing.Compute(checkIn, checkOut, props.PricePerNight, pricing.FeesFromPricing(*props))
	if !ok {
		writeError(w, http.StatusBadRequest, "stay must be at least one night")
		return
	}
	metrics.IncQuoteComputed()
	writeJSON(w, http.StatusOK, QuoteResponse{PropertyID: req.PropertyID, Quote: quote})
}

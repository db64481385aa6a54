package api

import (
	"net/http"

	"github.com/google/uuid"

	"staybook/internal/metrics"
	"staybook/internal/models"
	"staybook/internal/pricing"
	"staybook/internal/selection"
	"staybook/internal/session"
)

// SessionStateResponse reports the selection protocol state of a session.
type SessionStateResponse struct {
	SessionID  string          `json:"session_id"`
	PropertyID string          `json:"property_id"`
	State      selection.State `json:"state"`
	CheckIn    string          `json:"check_in,omitempty"`
	CheckOut   string          `json:"check_out,omitempty"`
	RangeValid bool            `json:"range_valid"`
	Quote      *pricing.Quote  `json:"quote,omitempty"`
}

func (s *Server) sessionState(bs *session.BookingSession) SessionStateResponse {
	sel := bs.Selection()
	resp := SessionStateResponse{
		SessionID:  bs.ID,
		PropertyID: bs.PropertyID,
		State:      sel.State(),
		RangeValid: bs.RangeValid(),
	}
	if !sel.CheckIn.IsZero() {
		resp.CheckIn = sel.CheckIn.Format(models.DateFormat)
	}
	if !sel.CheckOut.IsZero() {
		resp.CheckOut = sel.CheckOut.Format(models.DateFormat)
	}
	if quote, ok := bs.Quote(); ok {
		resp.Quote = quote
	}
	return resp
}

func (s *Server) lookupSession(w http.ResponseWriter, id string) *session.BookingSession {
	if id == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return nil
	}
	bs := s.sessions.Get(id)
	if bs == nil {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return nil
	}
	return bs
}

// CreateSessionRequest starts a selection session for a property.
type CreateSessionRequest struct {
	PropertyID string `json:"property_id"`
}

// handleSessionCreate fetches the property calendar and pricing and opens a
// fresh selection session over them.
// POST /api/sessions/create
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_create")
	if !requirePost(w, r) {
		return
	}

	var req CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PropertyID == "" {
		writeError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	intervals, err := s.client.FetchIntervals(r.Context(), req.PropertyID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "booking store unavailable")
		return
	}
	props, err := s.client.FetchPricing(r.Context(), req.PropertyID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "booking store unavailable")
		return
	}
	if s.snaps != nil {
		if err := s.snaps.SaveSnapshot(r.Context(), req.PropertyID, intervals); err != nil {
			s.logger.Warn().Err(err).Str("property_id", req.PropertyID).Msg("snapshot save failed")
		}
	}

	bs := session.New(uuid.New().String(), req.PropertyID, intervals, *props, s.bounds(), s.bus, s.logger)
	s.sessions.Put(bs)
	writeJSON(w, http.StatusCreated, s.sessionState(bs))
}

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// handleSessionState returns the current selection state.
// POST /api/sessions/state
func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_state")
	if !requirePost(w, r) {
		return
	}
	var req SessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bs := s.lookupSession(w, req.SessionID)
	if bs == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.sessionState(bs))
}

// PickRequest applies one clicked date to a session.
type PickRequest struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"` // Format: YYYY-MM-DD
}

// PickResponse reports whether the click was accepted and the new state.
type PickResponse struct {
	Accepted bool                 `json:"accepted"`
	Session  SessionStateResponse `json:"session"`
}

// handleSessionPick runs one step of the two-click selection protocol.
// POST /api/sessions/pick
func (s *Server) handleSessionPick(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_pick")
	if !requirePost(w, r) {
		return
	}
	var req PickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bs := s.lookupSession(w, req.SessionID)
	if bs == nil {
		return
	}

	state, accepted, err := bs.HandlePick(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if state == selection.StateRangeComplete && accepted {
		metrics.IncSelectionCompleted()
	}
	writeJSON(w, http.StatusOK, PickResponse{Accepted: accepted, Session: s.sessionState(bs)})
}

// handleSessionClear resets a session's selection.
// POST /api/sessions/clear
func (s *Server) handleSessionClear(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_clear")
	if !requirePost(w, r) {
		return
	}
	var req SessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bs := s.lookupSession(w, req.SessionID)
	if bs == nil {
		return
	}
	bs.Clear()
	writeJSON(w, http.StatusOK, s.sessionState(bs))
}

// SubmitRequest finalizes a session's selection as a booking request.
type SubmitRequest struct {
	SessionID       string `json:"session_id"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// SubmitResponse reports the store's decision. On rejection the session
// stays open so the user can pick new dates.
type SubmitResponse struct {
	Accepted  bool                 `json:"accepted"`
	BookingID string               `json:"booking_id,omitempty"`
	Error     string               `json:"error,omitempty"`
	Session   SessionStateResponse `json:"session"`
}

// handleSessionSubmit hands the finalized selection to the booking store.
// POST /api/sessions/submit
func (s *Server) handleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_submit")
	if !requirePost(w, r) {
		return
	}
	var req SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bs := s.lookupSession(w, req.SessionID)
	if bs == nil {
		return
	}

	result, err := bs.Submit(r.Context(), s.client, req.NumberOfGuests, req.SpecialRequests)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := SubmitResponse{
		Accepted:  result.Accepted,
		BookingID: result.BookingID,
		Error:     result.Error,
	}
	if result.Accepted {
		metrics.IncSubmission("accepted")
		// The reservation is the store's now; the local session is done.
		s.sessions.Delete(bs.ID)
	} else {
		metrics.IncSubmission("rejected")
		// Refresh the calendar so the next render shows the winning booking.
		if intervals, ferr := s.client.FetchIntervals(r.Context(), bs.PropertyID); ferr == nil {
			bs.Refresh(intervals)
		}
	}
	resp.Session = s.sessionState(bs)
	writeJSON(w, http.StatusOK, resp)
}

// Package api exposes the availability, quoting and selection core over a
// small JSON HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"staybook/internal/availability"
	"staybook/internal/bookingapi"
	"staybook/internal/events"
	"staybook/internal/models"
	"staybook/internal/session"
)

// StoreClient is the slice of the booking store client the server needs.
type StoreClient interface {
	FetchIntervals(ctx context.Context, propertyID string) ([]models.BookingInterval, error)
	FetchPricing(ctx context.Context, propertyID string) (*models.PropertyPricing, error)
	SubmitBooking(ctx context.Context, req models.BookingRequest) (*bookingapi.SubmitResult, error)
}

// SnapshotStore persists fetched calendars locally.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, propertyID string, intervals []models.BookingInterval) error
}

// Server handles the HTTP API.
type Server struct {
	client   StoreClient
	sessions *session.Manager
	snaps    SnapshotStore
	bus      *events.Bus
	bounds   func() availability.Bounds
	logger   *zerolog.Logger
}

// NewServer constructs the API server. bounds is evaluated per request so the
// booking window tracks the current date.
func NewServer(client StoreClient, sessions *session.Manager, snaps SnapshotStore, bus *events.Bus, bounds func() availability.Bounds, logger *zerolog.Logger) *Server {
	return &Server{
		client:   client,
		sessions: sessions,
		snaps:    snaps,
		bus:      bus,
		bounds:   bounds,
		logger:   logger,
	}
}

// Routes returns the HTTP handler for the API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/properties/availability", s.handleAvailability)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/sessions/create", s.handleSessionCreate)
	mux.HandleFunc("/api/sessions/state", s.handleSessionState)
	mux.HandleFunc("/api/sessions/pick", s.handleSessionPick)
	mux.HandleFunc("/api/sessions/clear", s.handleSessionClear)
	mux.HandleFunc("/api/sessions/submit", s.handleSessionSubmit)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return false
	}
	return true
}

package handler

import (
	"net/http"
	"time"
)

// CreateRideRequestBody is the body of POST /ride-requests.
type CreateRideRequestBody struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

// CreateRideRequest handles POST /ride-requests.
func (s *Server) CreateRideRequest(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	var body CreateRideRequestBody
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	if body.ExpiresAt == nil {
		s.respondError(w, r, missingField("expires_at"))
		return
	}

	created, err := s.rides.Create(r.Context(), who, *body.ExpiresAt)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetRideRequest handles GET /ride-requests/{id}.
func (s *Server) GetRideRequest(w http.ResponseWriter, r *http.Request) {
	serveGet(s, w, r, s.rides.GetByID)
}

// AcceptRideRequest handles POST /ride-requests/{id}/accept.
// The caller becomes the request's driver.
func (s *Server) AcceptRideRequest(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.rides.Accept)
}

// ConfirmRideRequest handles POST /ride-requests/{id}/confirm.
func (s *Server) ConfirmRideRequest(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.rides.Confirm)
}

// CancelRideRequest handles POST /ride-requests/{id}/cancel.
func (s *Server) CancelRideRequest(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.rides.Cancel)
}

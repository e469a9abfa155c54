package handler

import (
	"net/http"
	"time"
)

// CreateTripRequestBody is the body of POST /trip-requests.
type CreateTripRequestBody struct {
	TimeWindowStart *time.Time `json:"time_window_start"`
	TimeWindowEnd   *time.Time `json:"time_window_end"`
}

// CreateTripRequest handles POST /trip-requests.
func (s *Server) CreateTripRequest(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	var body CreateTripRequestBody
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	switch {
	case body.TimeWindowStart == nil:
		s.respondError(w, r, missingField("time_window_start"))
		return
	case body.TimeWindowEnd == nil:
		s.respondError(w, r, missingField("time_window_end"))
		return
	}

	created, err := s.tripRequests.Create(r.Context(), who, *body.TimeWindowStart, *body.TimeWindowEnd)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTripRequest handles GET /trip-requests/{id}.
func (s *Server) GetTripRequest(w http.ResponseWriter, r *http.Request) {
	serveGet(s, w, r, s.tripRequests.GetByID)
}

// MatchTripRequest handles POST /trip-requests/{id}/match.
func (s *Server) MatchTripRequest(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.tripRequests.Match)
}

// CancelTripRequest handles POST /trip-requests/{id}/cancel.
func (s *Server) CancelTripRequest(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.tripRequests.Cancel)
}

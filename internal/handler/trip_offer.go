package handler

import "net/http"

// CreateTripOfferBody is the body of POST /trip-offers.
type CreateTripOfferBody struct {
	Seats *int `json:"seats"`
}

// CreateTripOffer handles POST /trip-offers. The caller is the driver.
func (s *Server) CreateTripOffer(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	var body CreateTripOfferBody
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	if body.Seats == nil {
		s.respondError(w, r, missingField("seats"))
		return
	}

	created, err := s.tripOffers.Create(r.Context(), who, *body.Seats)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTripOffer handles GET /trip-offers/{id}.
func (s *Server) GetTripOffer(w http.ResponseWriter, r *http.Request) {
	serveGet(s, w, r, s.tripOffers.GetByID)
}

// AcceptTripOffer handles POST /trip-offers/{id}/accept.
func (s *Server) AcceptTripOffer(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.tripOffers.Accept)
}

// CancelTripOffer handles POST /trip-offers/{id}/cancel.
func (s *Server) CancelTripOffer(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.tripOffers.Cancel)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripRequestStatus is the status column of trip_requests.
type TripRequestStatus string

const (
	TripRequestStatusOpen      TripRequestStatus = "OPEN"
	TripRequestStatusMatched   TripRequestStatus = "MATCHED"
	TripRequestStatusExpired   TripRequestStatus = "EXPIRED"
	TripRequestStatusCancelled TripRequestStatus = "CANCELLED"
)

// TripRequestLifecycle is the status graph for trip requests.
// An OPEN request whose time window has ended is expired by the sweeper.
var TripRequestLifecycle = NewLifecycle("trip_requests",
	TripRequestStatusOpen, TripRequestStatusExpired,
	[]TripRequestStatus{TripRequestStatusOpen},
	map[TripRequestStatus][]TripRequestStatus{
		TripRequestStatusOpen: {TripRequestStatusMatched, TripRequestStatusExpired, TripRequestStatusCancelled},
	},
)

// TripRequest is a passenger looking for a seat inside a time window.
type TripRequest struct {
	ID              uuid.UUID         `json:"id"`
	RequesterID     uuid.UUID         `json:"requester_id"`
	MatchedBy       *uuid.UUID        `json:"matched_by,omitempty"`
	Status          TripRequestStatus `json:"status"`
	TimeWindowStart time.Time         `json:"time_window_start"`
	TimeWindowEnd   time.Time         `json:"time_window_end"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

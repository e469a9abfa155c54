package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripOfferStatus is the status column of trip_offers.
type TripOfferStatus string

const (
	TripOfferStatusOffered   TripOfferStatus = "OFFERED"
	TripOfferStatusAccepted  TripOfferStatus = "ACCEPTED"
	TripOfferStatusExpired   TripOfferStatus = "EXPIRED"
	TripOfferStatusCancelled TripOfferStatus = "CANCELLED"
)

// DefaultOfferMaxAge is how long an offer may stay OFFERED before the
// sweeper expires it.
const DefaultOfferMaxAge = 24 * time.Hour

// MaxOfferSeats caps the seats a single offer may advertise.
const MaxOfferSeats = 8

// TripOfferLifecycle is the status graph for trip offers.
var TripOfferLifecycle = NewLifecycle("trip_offers",
	TripOfferStatusOffered, TripOfferStatusExpired,
	[]TripOfferStatus{TripOfferStatusOffered},
	map[TripOfferStatus][]TripOfferStatus{
		TripOfferStatusOffered: {TripOfferStatusAccepted, TripOfferStatusExpired, TripOfferStatusCancelled},
	},
)

// TripOffer is a driver's offer of seats. Offers age out rather than
// carrying an explicit deadline.
type TripOffer struct {
	ID          uuid.UUID       `json:"id"`
	DriverID    uuid.UUID       `json:"driver_id"`
	PassengerID *uuid.UUID      `json:"passenger_id,omitempty"`
	Status      TripOfferStatus `json:"status"`
	Seats       int             `json:"seats"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

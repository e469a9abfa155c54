package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies what a notification is about.
type NotificationKind string

const (
	NotificationRideAccepted  NotificationKind = "ride_accepted"
	NotificationRideConfirmed NotificationKind = "ride_confirmed"
	NotificationRideCancelled NotificationKind = "ride_cancelled"
	NotificationRideExpired   NotificationKind = "ride_expired"
	NotificationTripMatched   NotificationKind = "trip_matched"
	NotificationTripExpired   NotificationKind = "trip_expired"
	NotificationOfferAccepted NotificationKind = "offer_accepted"
	NotificationOfferExpired  NotificationKind = "offer_expired"
)

// Notification is a per-user inbox record. Read only ever goes false → true.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	OwnerID   uuid.UUID        `json:"owner_id"`
	Kind      NotificationKind `json:"kind"`
	EntityID  *uuid.UUID       `json:"entity_id,omitempty"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

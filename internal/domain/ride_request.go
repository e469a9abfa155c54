// Package domain contains the core data types for the rideshare backend.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RideStatus is the status column of ride_requests.
type RideStatus string

const (
	RideStatusPending          RideStatus = "PENDING"
	RideStatusAcceptedByDriver RideStatus = "ACCEPTED_BY_DRIVER"
	RideStatusConfirmed        RideStatus = "CONFIRMED"
	RideStatusExpired          RideStatus = "EXPIRED"
	RideStatusCancelled        RideStatus = "CANCELLED"
)

// RideLifecycle is the status graph for ride requests.
// A request still PENDING or ACCEPTED_BY_DRIVER once expires_at has passed is
// expired by the sweeper.
var RideLifecycle = NewLifecycle("ride_requests",
	RideStatusPending, RideStatusExpired,
	[]RideStatus{RideStatusPending, RideStatusAcceptedByDriver},
	map[RideStatus][]RideStatus{
		RideStatusPending:          {RideStatusAcceptedByDriver, RideStatusExpired, RideStatusCancelled},
		RideStatusAcceptedByDriver: {RideStatusConfirmed, RideStatusExpired, RideStatusCancelled},
	},
)

// RideRequest is a passenger's request for a ride. It is never deleted;
// it ends in one of the terminal statuses instead.
type RideRequest struct {
	ID          uuid.UUID  `json:"id"`
	RequesterID uuid.UUID  `json:"requester_id"`
	DriverID    *uuid.UUID `json:"driver_id,omitempty"` // set when a driver accepts
	Status      RideStatus `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

package domain

import "time"

// Sweep family names. They double as table names and as keys of the
// details object in the sweep response.
const (
	FamilyRideRequests = "ride_requests"
	FamilyTripRequests = "trip_requests"
	FamilyTripOffers   = "trip_offers"
)

// SweepResult is the outcome of one sweep run across all entity families.
type SweepResult struct {
	// Now is the single wall-clock instant every family was judged against.
	Now time.Time
	// Expired maps family name to rows moved into EXPIRED. A failed family
	// is absent.
	Expired map[string]int64
	// Failures maps family name to the error that stopped that family.
	Failures map[string]error
}

// Total returns the number of rows expired across every family.
func (r SweepResult) Total() int64 {
	var n int64
	for _, c := range r.Expired {
		n += c
	}
	return n
}

// OK reports whether every family swept without error.
func (r SweepResult) OK() bool {
	return len(r.Failures) == 0
}

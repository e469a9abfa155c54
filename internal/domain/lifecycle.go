package domain

import "fmt"

// Lifecycle describes the allowed status graph of one entity family.
// S is the family's status type (RideStatus, TripRequestStatus, ...).
//
// A status with no outgoing edges is terminal. Statuses only move forward
// along the graph; there are no self-loops and no edges back.
type Lifecycle[S ~string] struct {
	// Family is the table-style name used in logs, metrics and errors.
	Family string
	// Initial is the status every new entity is created in.
	Initial S
	// Expired is the terminal status the sweeper moves stale entities into.
	Expired S
	// Sweepable lists the non-terminal statuses the sweeper selects on.
	Sweepable []S

	edges map[S][]S
}

// NewLifecycle builds a Lifecycle from an adjacency list of allowed edges.
func NewLifecycle[S ~string](family string, initial, expired S, sweepable []S, edges map[S][]S) Lifecycle[S] {
	return Lifecycle[S]{
		Family:    family,
		Initial:   initial,
		Sweepable: sweepable,
		Expired:   expired,
		edges:     edges,
	}
}

// CanTransition reports whether from → to is an edge of the graph.
func (l Lifecycle[S]) CanTransition(from, to S) bool {
	for _, next := range l.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves status s.
func (l Lifecycle[S]) IsTerminal(s S) bool {
	return len(l.edges[s]) == 0
}

// Known reports whether s appears anywhere in the graph. Repos use it to
// reject rows whose status column holds a value the graph does not know.
func (l Lifecycle[S]) Known(s S) bool {
	if _, ok := l.edges[s]; ok {
		return true
	}
	for _, tos := range l.edges {
		for _, to := range tos {
			if to == s {
				return true
			}
		}
	}
	return false
}

// Check returns nil when from → to is allowed, or an error wrapping
// ErrIllegalTransition that names the family and both statuses.
func (l Lifecycle[S]) Check(from, to S) error {
	if l.CanTransition(from, to) {
		return nil
	}
	if l.IsTerminal(from) {
		return fmt.Errorf("%w: %s is in terminal status %s", ErrIllegalTransition, l.Family, from)
	}
	return fmt.Errorf("%w: %s cannot move from %s to %s", ErrIllegalTransition, l.Family, from, to)
}

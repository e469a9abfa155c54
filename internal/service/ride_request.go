package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/observability"
	"github.com/pkordes/rideshare/backend/internal/repo"
)

// RideRequestService implements the ride request lifecycle.
type RideRequestService struct {
	repo repo.RideRequestRepo
	lifecycleDeps
}

// NewRideRequestService constructs a RideRequestService. notifier, metrics
// and log may be nil.
func NewRideRequestService(r repo.RideRequestRepo, notifier Notifier, metrics *observability.Metrics, log *slog.Logger) *RideRequestService {
	return &RideRequestService{repo: r, lifecycleDeps: newLifecycleDeps(notifier, metrics, log)}
}

// Create opens a new PENDING ride request for actor.
// Returns domain.ErrValidation if expiresAt is not in the future.
func (s *RideRequestService) Create(ctx context.Context, actor uuid.UUID, expiresAt time.Time) (domain.RideRequest, error) {
	const op = "service.RideRequestService.Create"
	if expiresAt.IsZero() {
		return domain.RideRequest{}, validation(op, "expires_at is required")
	}
	if !expiresAt.After(time.Now()) {
		return domain.RideRequest{}, validation(op, "expires_at must be in the future")
	}

	created, err := s.repo.Create(ctx, domain.RideRequest{RequesterID: actor, ExpiresAt: expiresAt})
	if err != nil {
		return domain.RideRequest{}, wrap(op, err)
	}
	return created, nil
}

// GetByID returns a single ride request.
// Returns domain.ErrNotFound if it does not exist.
func (s *RideRequestService) GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.RideRequest{}, wrap("service.RideRequestService.GetByID", err)
	}
	return result, nil
}

// Accept records actor as the driver and moves PENDING → ACCEPTED_BY_DRIVER.
// A requester cannot accept their own request, and a request whose
// expires_at has passed cannot be accepted (domain.ErrIllegalTransition).
func (s *RideRequestService) Accept(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.RideRequest, domain.RideStatus]{
		op:        "service.RideRequestService.Accept",
		lifecycle: domain.RideLifecycle,
		to:        domain.RideStatusAcceptedByDriver,
		status:    rideStatus,
		overdue: func(r domain.RideRequest) bool {
			return !r.ExpiresAt.After(time.Now())
		},
		authorize: func(r domain.RideRequest) error {
			if r.RequesterID == actor {
				return unauthorized("requester cannot accept their own ride request")
			}
			return nil
		},
		counterparty: &actor,
	})
	s.observe(domain.FamilyRideRequests, string(domain.RideStatusAcceptedByDriver), err)
	if err != nil {
		return domain.RideRequest{}, err
	}

	s.notify(ctx, rideNotification(updated.RequesterID, updated.ID,
		domain.NotificationRideAccepted, "A driver accepted your ride request. Confirm it before it expires."))
	return updated, nil
}

// Confirm moves ACCEPTED_BY_DRIVER → CONFIRMED. Only the requester may confirm.
// If the sweeper expired the request first, this fails with
// domain.ErrIllegalTransition (already expired when read) or
// domain.ErrPreconditionFailed (expired between read and write).
func (s *RideRequestService) Confirm(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.RideRequest, domain.RideStatus]{
		op:        "service.RideRequestService.Confirm",
		lifecycle: domain.RideLifecycle,
		to:        domain.RideStatusConfirmed,
		status:    rideStatus,
		authorize: func(r domain.RideRequest) error {
			if r.RequesterID != actor {
				return unauthorized("only the requester can confirm a ride request")
			}
			return nil
		},
	})
	s.observe(domain.FamilyRideRequests, string(domain.RideStatusConfirmed), err)
	if err != nil {
		return domain.RideRequest{}, err
	}

	if updated.DriverID != nil {
		s.notify(ctx, rideNotification(*updated.DriverID, updated.ID,
			domain.NotificationRideConfirmed, "The passenger confirmed the ride."))
	}
	return updated, nil
}

// Cancel moves a PENDING or ACCEPTED_BY_DRIVER request to CANCELLED.
// The requester or the assigned driver may cancel; the other party is notified.
func (s *RideRequestService) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.RideRequest, domain.RideStatus]{
		op:        "service.RideRequestService.Cancel",
		lifecycle: domain.RideLifecycle,
		to:        domain.RideStatusCancelled,
		status:    rideStatus,
		authorize: func(r domain.RideRequest) error {
			if r.RequesterID == actor || (r.DriverID != nil && *r.DriverID == actor) {
				return nil
			}
			return unauthorized("only the requester or the assigned driver can cancel")
		},
	})
	s.observe(domain.FamilyRideRequests, string(domain.RideStatusCancelled), err)
	if err != nil {
		return domain.RideRequest{}, err
	}

	switch {
	case actor == updated.RequesterID && updated.DriverID != nil:
		s.notify(ctx, rideNotification(*updated.DriverID, updated.ID,
			domain.NotificationRideCancelled, "The passenger cancelled the ride request."))
	case actor != updated.RequesterID:
		s.notify(ctx, rideNotification(updated.RequesterID, updated.ID,
			domain.NotificationRideCancelled, "The driver cancelled your ride request."))
	}
	return updated, nil
}

func rideStatus(r domain.RideRequest) domain.RideStatus { return r.Status }

func rideNotification(owner, entity uuid.UUID, kind domain.NotificationKind, msg string) domain.Notification {
	return domain.Notification{OwnerID: owner, Kind: kind, EntityID: &entity, Message: msg}
}

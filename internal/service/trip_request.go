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

// TripRequestService implements the trip request lifecycle.
type TripRequestService struct {
	repo repo.TripRequestRepo
	lifecycleDeps
}

// NewTripRequestService constructs a TripRequestService.
func NewTripRequestService(r repo.TripRequestRepo, notifier Notifier, metrics *observability.Metrics, log *slog.Logger) *TripRequestService {
	return &TripRequestService{repo: r, lifecycleDeps: newLifecycleDeps(notifier, metrics, log)}
}

// Create opens an OPEN trip request for actor over [start, end].
func (s *TripRequestService) Create(ctx context.Context, actor uuid.UUID, start, end time.Time) (domain.TripRequest, error) {
	const op = "service.TripRequestService.Create"
	if start.IsZero() || end.IsZero() {
		return domain.TripRequest{}, validation(op, "time_window_start and time_window_end are required")
	}
	if !end.After(start) {
		return domain.TripRequest{}, validation(op, "time_window_end must be after time_window_start")
	}
	if !end.After(time.Now()) {
		return domain.TripRequest{}, validation(op, "time_window_end must be in the future")
	}

	created, err := s.repo.Create(ctx, domain.TripRequest{
		RequesterID:     actor,
		TimeWindowStart: start,
		TimeWindowEnd:   end,
	})
	if err != nil {
		return domain.TripRequest{}, wrap(op, err)
	}
	return created, nil
}

// GetByID returns a single trip request.
func (s *TripRequestService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripRequest{}, wrap("service.TripRequestService.GetByID", err)
	}
	return result, nil
}

// Match moves OPEN → MATCHED and records actor as the matching user.
func (s *TripRequestService) Match(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.TripRequest, domain.TripRequestStatus]{
		op:        "service.TripRequestService.Match",
		lifecycle: domain.TripRequestLifecycle,
		to:        domain.TripRequestStatusMatched,
		status:    func(r domain.TripRequest) domain.TripRequestStatus { return r.Status },
		authorize: func(r domain.TripRequest) error {
			if r.RequesterID == actor {
				return unauthorized("requester cannot match their own trip request")
			}
			return nil
		},
		counterparty: &actor,
	})
	s.observe(domain.FamilyTripRequests, string(domain.TripRequestStatusMatched), err)
	if err != nil {
		return domain.TripRequest{}, err
	}

	s.notify(ctx, domain.Notification{
		OwnerID:  updated.RequesterID,
		Kind:     domain.NotificationTripMatched,
		EntityID: &updated.ID,
		Message:  "Your trip request was matched with a driver.",
	})
	return updated, nil
}

// Cancel moves OPEN → CANCELLED. Only the requester may cancel.
func (s *TripRequestService) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.TripRequest, domain.TripRequestStatus]{
		op:        "service.TripRequestService.Cancel",
		lifecycle: domain.TripRequestLifecycle,
		to:        domain.TripRequestStatusCancelled,
		status:    func(r domain.TripRequest) domain.TripRequestStatus { return r.Status },
		authorize: func(r domain.TripRequest) error {
			if r.RequesterID != actor {
				return unauthorized("only the requester can cancel a trip request")
			}
			return nil
		},
	})
	s.observe(domain.FamilyTripRequests, string(domain.TripRequestStatusCancelled), err)
	if err != nil {
		return domain.TripRequest{}, err
	}
	return updated, nil
}

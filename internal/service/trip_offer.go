package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/observability"
	"github.com/pkordes/rideshare/backend/internal/repo"
)

// TripOfferService implements the trip offer lifecycle.
type TripOfferService struct {
	repo repo.TripOfferRepo
	lifecycleDeps
}

// NewTripOfferService constructs a TripOfferService.
func NewTripOfferService(r repo.TripOfferRepo, notifier Notifier, metrics *observability.Metrics, log *slog.Logger) *TripOfferService {
	return &TripOfferService{repo: r, lifecycleDeps: newLifecycleDeps(notifier, metrics, log)}
}

// Create publishes an OFFERED trip offer with actor as the driver.
func (s *TripOfferService) Create(ctx context.Context, actor uuid.UUID, seats int) (domain.TripOffer, error) {
	const op = "service.TripOfferService.Create"
	if seats < 1 || seats > domain.MaxOfferSeats {
		return domain.TripOffer{}, validation(op, fmt.Sprintf("seats must be between 1 and %d", domain.MaxOfferSeats))
	}

	created, err := s.repo.Create(ctx, domain.TripOffer{DriverID: actor, Seats: seats})
	if err != nil {
		return domain.TripOffer{}, wrap(op, err)
	}
	return created, nil
}

// GetByID returns a single trip offer.
func (s *TripOfferService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripOffer{}, wrap("service.TripOfferService.GetByID", err)
	}
	return result, nil
}

// Accept moves OFFERED → ACCEPTED with actor as the passenger.
// Drivers cannot accept their own offers.
func (s *TripOfferService) Accept(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.TripOffer, domain.TripOfferStatus]{
		op:        "service.TripOfferService.Accept",
		lifecycle: domain.TripOfferLifecycle,
		to:        domain.TripOfferStatusAccepted,
		status:    func(o domain.TripOffer) domain.TripOfferStatus { return o.Status },
		authorize: func(o domain.TripOffer) error {
			if o.DriverID == actor {
				return unauthorized("driver cannot accept their own trip offer")
			}
			return nil
		},
		counterparty: &actor,
	})
	s.observe(domain.FamilyTripOffers, string(domain.TripOfferStatusAccepted), err)
	if err != nil {
		return domain.TripOffer{}, err
	}

	s.notify(ctx, domain.Notification{
		OwnerID:  updated.DriverID,
		Kind:     domain.NotificationOfferAccepted,
		EntityID: &updated.ID,
		Message:  "A passenger accepted your trip offer.",
	})
	return updated, nil
}

// Cancel withdraws an OFFERED offer. Only its driver may cancel.
func (s *TripOfferService) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error) {
	updated, err := applyTransition(ctx, s.repo, id, transition[domain.TripOffer, domain.TripOfferStatus]{
		op:        "service.TripOfferService.Cancel",
		lifecycle: domain.TripOfferLifecycle,
		to:        domain.TripOfferStatusCancelled,
		status:    func(o domain.TripOffer) domain.TripOfferStatus { return o.Status },
		authorize: func(o domain.TripOffer) error {
			if o.DriverID != actor {
				return unauthorized("only the driver can cancel a trip offer")
			}
			return nil
		},
	})
	s.observe(domain.FamilyTripOffers, string(domain.TripOfferStatusCancelled), err)
	if err != nil {
		return domain.TripOffer{}, err
	}
	return updated, nil
}

// Package handler implements the HTTP handlers for the rideshare API.
// All handlers are methods on Server, grouped by entity family into
// ride_request.go, trip_request.go, trip_offer.go, notification.go and
// sweep.go. Routes wires them onto a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// RideRequestServicer defines the ride request operations the handlers use.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without a database or service layer.
type RideRequestServicer interface {
	Create(ctx context.Context, actor uuid.UUID, expiresAt time.Time) (domain.RideRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error)
	Accept(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
	Confirm(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
	Cancel(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
}

// TripRequestServicer defines the trip request operations the handlers use.
type TripRequestServicer interface {
	Create(ctx context.Context, actor uuid.UUID, start, end time.Time) (domain.TripRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error)
	Match(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error)
	Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error)
}

// TripOfferServicer defines the trip offer operations the handlers use.
type TripOfferServicer interface {
	Create(ctx context.Context, actor uuid.UUID, seats int) (domain.TripOffer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error)
	Accept(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error)
	Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error)
}

// NotificationServicer defines the inbox operations the handlers use.
type NotificationServicer interface {
	MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error)
	MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error)
	ListPaged(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error)
	UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error)
}

// Sweeper runs one expiry sweep across every entity family.
type Sweeper interface {
	Sweep(ctx context.Context) domain.SweepResult
}

// Services bundles the dependencies of Server. Nil fields are allowed in
// tests that only exercise other routes.
type Services struct {
	RideRequests  RideRequestServicer
	TripRequests  TripRequestServicer
	TripOffers    TripOfferServicer
	Notifications NotificationServicer
	Sweeper       Sweeper
}

// Server holds the dependencies shared by every handler.
type Server struct {
	rides         RideRequestServicer
	tripRequests  TripRequestServicer
	tripOffers    TripOfferServicer
	notifications NotificationServicer
	sweeper       Sweeper
	log           *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		rides:         svc.RideRequests,
		tripRequests:  svc.TripRequests,
		tripOffers:    svc.TripOffers,
		notifications: svc.Notifications,
		sweeper:       svc.Sweeper,
		log:           log,
	}
}

// Routes registers every endpoint on r.
//
// authenticate guards the user-facing routes and must place the actor in the
// request context (see middleware.NewAuthenticator). requireServiceKey guards
// the sweep trigger.
func (s *Server) Routes(r chi.Router, authenticate, requireServiceKey func(http.Handler) http.Handler) {
	r.Get("/healthz", s.GetHealth)

	// OPTIONS must answer 200 without credentials; browser preflights are
	// handled earlier by the CORS middleware.
	r.Options("/sweep", s.SweepOptions)
	r.With(requireServiceKey).Post("/sweep", s.TriggerSweep)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/ride-requests", func(r chi.Router) {
			r.Post("/", s.CreateRideRequest)
			r.Get("/{id}", s.GetRideRequest)
			r.Post("/{id}/accept", s.AcceptRideRequest)
			r.Post("/{id}/confirm", s.ConfirmRideRequest)
			r.Post("/{id}/cancel", s.CancelRideRequest)
		})

		r.Route("/trip-requests", func(r chi.Router) {
			r.Post("/", s.CreateTripRequest)
			r.Get("/{id}", s.GetTripRequest)
			r.Post("/{id}/match", s.MatchTripRequest)
			r.Post("/{id}/cancel", s.CancelTripRequest)
		})

		r.Route("/trip-offers", func(r chi.Router) {
			r.Post("/", s.CreateTripOffer)
			r.Get("/{id}", s.GetTripOffer)
			r.Post("/{id}/accept", s.AcceptTripOffer)
			r.Post("/{id}/cancel", s.CancelTripOffer)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.ListNotifications)
			r.Get("/unread-count", s.UnreadNotificationCount)
			r.Post("/read-all", s.MarkAllNotificationsRead)
			r.Post("/{id}/read", s.MarkNotificationRead)
		})
	})
}

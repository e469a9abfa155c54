package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// TripOfferRepo defines the persistence operations for trip offers.
type TripOfferRepo interface {
	Expirer

	// Create inserts a new trip offer and returns the persisted record.
	Create(ctx context.Context, o domain.TripOffer) (domain.TripOffer, error)

	// GetByID retrieves a single trip offer by primary key.
	// Returns domain.ErrNotFound if no row with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error)

	// UpdateStatus applies c only if the row's status still equals c.From and
	// returns the number of rows affected.
	UpdateStatus(ctx context.Context, c StatusChange[domain.TripOfferStatus]) (int64, error)
}

type pgTripOfferRepo struct {
	db db
}

// NewTripOfferRepo constructs a TripOfferRepo backed by the provided db connection.
func NewTripOfferRepo(db db) TripOfferRepo {
	return &pgTripOfferRepo{db: db}
}

const tripOfferColumns = `id, driver_id, passenger_id, status, seats, created_at, updated_at`

func (r *pgTripOfferRepo) Create(ctx context.Context, o domain.TripOffer) (domain.TripOffer, error) {
	const q = `
		INSERT INTO trip_offers (driver_id, status, seats)
		VALUES (@driver_id, @status, @seats)
		RETURNING ` + tripOfferColumns

	args := pgx.NamedArgs{
		"driver_id": o.DriverID,
		"status":    string(domain.TripOfferLifecycle.Initial),
		"seats":     o.Seats,
	}

	result, err := scanTripOffer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripOffer{}, fmt.Errorf("repo.TripOfferRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error) {
	const q = `SELECT ` + tripOfferColumns + ` FROM trip_offers WHERE id = @id`

	result, err := scanTripOffer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripOffer{}, fmt.Errorf("repo.TripOfferRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripOfferRepo) UpdateStatus(ctx context.Context, c StatusChange[domain.TripOfferStatus]) (int64, error) {
	const q = `
		UPDATE trip_offers
		SET status       = @to,
		    passenger_id = COALESCE(@passenger_id, passenger_id),
		    updated_at   = now()
		WHERE id = @id
		  AND status = @from`

	args := pgx.NamedArgs{
		"id":           c.ID,
		"from":         string(c.From),
		"to":           string(c.To),
		"passenger_id": c.Counterparty,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.TripOfferRepo.UpdateStatus: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireDue expires OFFERED offers created before deadline. The caller
// computes deadline as now minus the maximum offer age.
func (r *pgTripOfferRepo) ExpireDue(ctx context.Context, deadline, now time.Time) (int64, error) {
	const q = `
		WITH expired AS (
			UPDATE trip_offers
			SET status = @expired, updated_at = @now
			WHERE status = ANY(@sweepable)
			  AND created_at < @deadline
			RETURNING id, driver_id
		), notified AS (
			INSERT INTO notifications (owner_id, kind, entity_id, message, created_at)
			SELECT driver_id, @kind, id, @message, @now
			FROM expired
		)
		SELECT count(*) FROM expired`

	args := pgx.NamedArgs{
		"expired":   string(domain.TripOfferLifecycle.Expired),
		"sweepable": statusNames(domain.TripOfferLifecycle.Sweepable),
		"deadline":  deadline,
		"now":       now,
		"kind":      string(domain.NotificationOfferExpired),
		"message":   "Your trip offer expired without being accepted.",
	}

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TripOfferRepo.ExpireDue: %w", err)
	}
	return n, nil
}

func scanTripOffer(s scanner) (domain.TripOffer, error) {
	var (
		o           domain.TripOffer
		id          pgtype.UUID
		driverID    pgtype.UUID
		passengerID pgtype.UUID
		status      string
	)

	err := s.Scan(&id, &driverID, &passengerID, &status, &o.Seats, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripOffer{}, domain.ErrNotFound
		}
		return domain.TripOffer{}, err
	}

	o.ID = uuid.UUID(id.Bytes)
	o.DriverID = uuid.UUID(driverID.Bytes)
	o.PassengerID = uuidPtr(passengerID)
	if o.Status, err = parseStatus(domain.TripOfferLifecycle, status); err != nil {
		return domain.TripOffer{}, err
	}
	return o, nil
}

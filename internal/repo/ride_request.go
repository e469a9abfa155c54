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

// RideRequestRepo defines the persistence operations for ride requests.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type RideRequestRepo interface {
	Expirer

	// Create inserts a new ride request and returns the persisted record
	// (with DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, r domain.RideRequest) (domain.RideRequest, error)

	// GetByID retrieves a single ride request by primary key.
	// Returns domain.ErrNotFound if no row with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error)

	// UpdateStatus applies c only if the row's status still equals c.From.
	// It returns the number of rows affected: 0 means the row is missing or
	// its status moved on since it was read.
	UpdateStatus(ctx context.Context, c StatusChange[domain.RideStatus]) (int64, error)
}

// pgRideRequestRepo is the Postgres implementation of RideRequestRepo.
type pgRideRequestRepo struct {
	db db
}

// NewRideRequestRepo constructs a RideRequestRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRideRequestRepo(db db) RideRequestRepo {
	return &pgRideRequestRepo{db: db}
}

const rideRequestColumns = `id, requester_id, driver_id, status, expires_at, created_at, updated_at`

// Create inserts a new ride request row in its initial status.
func (r *pgRideRequestRepo) Create(ctx context.Context, req domain.RideRequest) (domain.RideRequest, error) {
	const q = `
		INSERT INTO ride_requests (requester_id, status, expires_at)
		VALUES (@requester_id, @status, @expires_at)
		RETURNING ` + rideRequestColumns

	args := pgx.NamedArgs{
		"requester_id": req.RequesterID,
		"status":       string(domain.RideLifecycle.Initial),
		"expires_at":   req.ExpiresAt,
	}

	result, err := scanRideRequest(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("repo.RideRequestRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a ride request by primary key.
func (r *pgRideRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error) {
	const q = `SELECT ` + rideRequestColumns + ` FROM ride_requests WHERE id = @id`

	result, err := scanRideRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.RideRequest{}, fmt.Errorf("repo.RideRequestRepo.GetByID: %w", err)
	}
	return result, nil
}

// UpdateStatus is the conditional write behind every user-driven transition.
func (r *pgRideRequestRepo) UpdateStatus(ctx context.Context, c StatusChange[domain.RideStatus]) (int64, error) {
	const q = `
		UPDATE ride_requests
		SET status     = @to,
		    driver_id  = COALESCE(@driver_id, driver_id),
		    updated_at = now()
		WHERE id = @id
		  AND status = @from`

	args := pgx.NamedArgs{
		"id":        c.ID,
		"from":      string(c.From),
		"to":        string(c.To),
		"driver_id": c.Counterparty, // nil keeps the current driver
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.RideRequestRepo.UpdateStatus: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireDue expires unconfirmed ride requests (PENDING or ACCEPTED_BY_DRIVER)
// whose expires_at is before deadline, and in the same statement queues a
// ride_expired notification for each requester.
func (r *pgRideRequestRepo) ExpireDue(ctx context.Context, deadline, now time.Time) (int64, error) {
	const q = `
		WITH expired AS (
			UPDATE ride_requests
			SET status = @expired, updated_at = @now
			WHERE status = ANY(@sweepable)
			  AND expires_at < @deadline
			RETURNING id, requester_id
		), notified AS (
			INSERT INTO notifications (owner_id, kind, entity_id, message, created_at)
			SELECT requester_id, @kind, id, @message, @now
			FROM expired
		)
		SELECT count(*) FROM expired`

	args := pgx.NamedArgs{
		"expired":   string(domain.RideLifecycle.Expired),
		"sweepable": statusNames(domain.RideLifecycle.Sweepable),
		"deadline":  deadline,
		"now":       now,
		"kind":      string(domain.NotificationRideExpired),
		"message":   "Your ride request expired before it was confirmed.",
	}

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.RideRequestRepo.ExpireDue: %w", err)
	}
	return n, nil
}

// scanRideRequest maps a single database row into a domain.RideRequest.
func scanRideRequest(s scanner) (domain.RideRequest, error) {
	var (
		rr          domain.RideRequest
		id          pgtype.UUID
		requesterID pgtype.UUID
		driverID    pgtype.UUID
		status      string
	)

	err := s.Scan(&id, &requesterID, &driverID, &status, &rr.ExpiresAt, &rr.CreatedAt, &rr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RideRequest{}, domain.ErrNotFound
		}
		return domain.RideRequest{}, err
	}

	rr.ID = uuid.UUID(id.Bytes)
	rr.RequesterID = uuid.UUID(requesterID.Bytes)
	rr.DriverID = uuidPtr(driverID)
	if rr.Status, err = parseStatus(domain.RideLifecycle, status); err != nil {
		return domain.RideRequest{}, err
	}
	return rr, nil
}

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

// TripRequestRepo defines the persistence operations for trip requests.
type TripRequestRepo interface {
	Expirer

	// Create inserts a new trip request and returns the persisted record.
	Create(ctx context.Context, r domain.TripRequest) (domain.TripRequest, error)

	// GetByID retrieves a single trip request by primary key.
	// Returns domain.ErrNotFound if no row with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error)

	// UpdateStatus applies c only if the row's status still equals c.From and
	// returns the number of rows affected.
	UpdateStatus(ctx context.Context, c StatusChange[domain.TripRequestStatus]) (int64, error)
}

type pgTripRequestRepo struct {
	db db
}

// NewTripRequestRepo constructs a TripRequestRepo backed by the provided db connection.
func NewTripRequestRepo(db db) TripRequestRepo {
	return &pgTripRequestRepo{db: db}
}

const tripRequestColumns = `id, requester_id, matched_by, status, time_window_start, time_window_end, created_at, updated_at`

func (r *pgTripRequestRepo) Create(ctx context.Context, req domain.TripRequest) (domain.TripRequest, error) {
	const q = `
		INSERT INTO trip_requests (requester_id, status, time_window_start, time_window_end)
		VALUES (@requester_id, @status, @time_window_start, @time_window_end)
		RETURNING ` + tripRequestColumns

	args := pgx.NamedArgs{
		"requester_id":      req.RequesterID,
		"status":            string(domain.TripRequestLifecycle.Initial),
		"time_window_start": req.TimeWindowStart,
		"time_window_end":   req.TimeWindowEnd,
	}

	result, err := scanTripRequest(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("repo.TripRequestRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error) {
	const q = `SELECT ` + tripRequestColumns + ` FROM trip_requests WHERE id = @id`

	result, err := scanTripRequest(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("repo.TripRequestRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRequestRepo) UpdateStatus(ctx context.Context, c StatusChange[domain.TripRequestStatus]) (int64, error) {
	const q = `
		UPDATE trip_requests
		SET status     = @to,
		    matched_by = COALESCE(@matched_by, matched_by),
		    updated_at = now()
		WHERE id = @id
		  AND status = @from`

	args := pgx.NamedArgs{
		"id":         c.ID,
		"from":       string(c.From),
		"to":         string(c.To),
		"matched_by": c.Counterparty,
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRequestRepo.UpdateStatus: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ExpireDue expires OPEN trip requests whose time window ended before deadline.
func (r *pgTripRequestRepo) ExpireDue(ctx context.Context, deadline, now time.Time) (int64, error) {
	const q = `
		WITH expired AS (
			UPDATE trip_requests
			SET status = @expired, updated_at = @now
			WHERE status = ANY(@sweepable)
			  AND time_window_end < @deadline
			RETURNING id, requester_id
		), notified AS (
			INSERT INTO notifications (owner_id, kind, entity_id, message, created_at)
			SELECT requester_id, @kind, id, @message, @now
			FROM expired
		)
		SELECT count(*) FROM expired`

	args := pgx.NamedArgs{
		"expired":   string(domain.TripRequestLifecycle.Expired),
		"sweepable": statusNames(domain.TripRequestLifecycle.Sweepable),
		"deadline":  deadline,
		"now":       now,
		"kind":      string(domain.NotificationTripExpired),
		"message":   "Your trip request expired without a match.",
	}

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TripRequestRepo.ExpireDue: %w", err)
	}
	return n, nil
}

func scanTripRequest(s scanner) (domain.TripRequest, error) {
	var (
		tr          domain.TripRequest
		id          pgtype.UUID
		requesterID pgtype.UUID
		matchedBy   pgtype.UUID
		status      string
	)

	err := s.Scan(&id, &requesterID, &matchedBy, &status,
		&tr.TimeWindowStart, &tr.TimeWindowEnd, &tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripRequest{}, domain.ErrNotFound
		}
		return domain.TripRequest{}, err
	}

	tr.ID = uuid.UUID(id.Bytes)
	tr.RequesterID = uuid.UUID(requesterID.Bytes)
	tr.MatchedBy = uuidPtr(matchedBy)
	if tr.Status, err = parseStatus(domain.TripRequestLifecycle, status); err != nil {
		return domain.TripRequest{}, err
	}
	return tr, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// NotificationRepo defines the persistence operations for notifications.
// All reads and writes other than Create and GetByID are scoped by owner.
type NotificationRepo interface {
	// Create inserts a new unread notification.
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// GetByID retrieves a notification regardless of owner, so the service can
	// tell "missing" apart from "someone else's".
	GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error)

	// MarkRead flips read to true for one unread notification of ownerID.
	// Returns rows affected: 0 when already read, foreign, or missing.
	MarkRead(ctx context.Context, id, ownerID uuid.UUID) (int64, error)

	// MarkAllRead flips every unread notification of ownerID and returns how
	// many changed.
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// ListByOwnerPaged returns one page of ownerID's notifications, newest
	// first, and the owner's total count.
	ListByOwnerPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error)

	// CountUnread returns how many of ownerID's notifications are unread.
	CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `id, owner_id, kind, entity_id, message, read, read_at, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (owner_id, kind, entity_id, message)
		VALUES (@owner_id, @kind, @entity_id, @message)
		RETURNING ` + notificationColumns

	args := pgx.NamedArgs{
		"owner_id":  n.OwnerID,
		"kind":      string(n.Kind),
		"entity_id": n.EntityID,
		"message":   n.Message,
	}

	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	const q = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = @id`

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	const q = `
		UPDATE notifications
		SET read = true, read_at = now()
		WHERE id = @id
		  AND owner_id = @owner_id
		  AND NOT read`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.MarkRead: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgNotificationRepo) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	const q = `
		UPDATE notifications
		SET read = true, read_at = now()
		WHERE owner_id = @owner_id
		  AND NOT read`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.MarkAllRead: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgNotificationRepo) ListByOwnerPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	const countQ = `SELECT count(*) FROM notifications WHERE owner_id = @owner_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner_id": ownerID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByOwnerPaged: count: %w", err)
	}

	const q = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"owner_id": ownerID,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByOwnerPaged: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByOwnerPaged: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.NotificationRepo.ListByOwnerPaged: rows: %w", err)
	}

	return out, total, nil
}

func (r *pgNotificationRepo) CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	const q = `SELECT count(*) FROM notifications WHERE owner_id = @owner_id AND NOT read`

	var n int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.NotificationRepo.CountUnread: %w", err)
	}
	return n, nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n        domain.Notification
		id       pgtype.UUID
		ownerID  pgtype.UUID
		entityID pgtype.UUID
		kind     string
		readAt   pgtype.Timestamptz
	)

	err := s.Scan(&id, &ownerID, &kind, &entityID, &n.Message, &n.Read, &readAt, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, domain.ErrNotFound
		}
		return domain.Notification{}, err
	}

	n.ID = uuid.UUID(id.Bytes)
	n.OwnerID = uuid.UUID(ownerID.Bytes)
	n.EntityID = uuidPtr(entityID)
	n.Kind = domain.NotificationKind(kind)
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}

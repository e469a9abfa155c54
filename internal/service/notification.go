package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/repo"
)

// NotificationService implements the per-user notification inbox.
// It also satisfies Notifier for the lifecycle services.
type NotificationService struct {
	repo repo.NotificationRepo
}

// NewNotificationService constructs a NotificationService backed by r.
func NewNotificationService(r repo.NotificationRepo) *NotificationService {
	return &NotificationService{repo: r}
}

// Notify stores a new unread notification.
func (s *NotificationService) Notify(ctx context.Context, n domain.Notification) error {
	if _, err := s.repo.Create(ctx, n); err != nil {
		return wrap("service.NotificationService.Notify", err)
	}
	return nil
}

// MarkRead marks notification id read on behalf of actor.
//
// Marking an already-read notification is a successful no-op. Returns
// domain.ErrNotFound when it does not exist and domain.ErrUnauthorized when it
// belongs to someone else. There is no way to mark a notification unread.
func (s *NotificationService) MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error) {
	const op = "service.NotificationService.MarkRead"

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, wrap(op, err)
	}
	if n.OwnerID != actor {
		return domain.Notification{}, wrap(op, unauthorized("notification belongs to another user"))
	}
	if n.Read {
		return n, nil
	}

	if _, err := s.repo.MarkRead(ctx, id, actor); err != nil {
		return domain.Notification{}, wrap(op, err)
	}
	// Zero rows affected here only means a concurrent request marked it
	// first; either way the record is now read.
	n, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Notification{}, wrap(op, err)
	}
	return n, nil
}

// MarkAllRead marks every unread notification of actor read and returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, actor)
	if err != nil {
		return 0, wrap("service.NotificationService.MarkAllRead", err)
	}
	return n, nil
}

// ListPaged returns one page of actor's notifications, newest first, and the
// total count. Always returns a non-nil slice so callers can safely range
// over it.
func (s *NotificationService) ListPaged(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	list, total, err := s.repo.ListByOwnerPaged(ctx, actor, p)
	if err != nil {
		return nil, 0, wrap("service.NotificationService.ListPaged", err)
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return list, total, nil
}

// UnreadCount returns how many of actor's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error) {
	n, err := s.repo.CountUnread(ctx, actor)
	if err != nil {
		return 0, wrap("service.NotificationService.UnreadCount", err)
	}
	return n, nil
}

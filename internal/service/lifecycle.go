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

// Notifier delivers a notification to a user. Lifecycle services treat
// delivery as best effort: a failure is logged and never fails the
// transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// statusRepo is the slice of a family repo that a transition needs.
type statusRepo[E any, S ~string] interface {
	GetByID(ctx context.Context, id uuid.UUID) (E, error)
	UpdateStatus(ctx context.Context, c repo.StatusChange[S]) (int64, error)
}

// transition describes one user-driven status change.
type transition[E any, S ~string] struct {
	op        string
	lifecycle domain.Lifecycle[S]
	to        S
	status    func(E) S
	// overdue reports whether the entity is past the deadline after which
	// only the sweeper may move it. Nil means the transition has no deadline.
	overdue func(E) bool
	// authorize returns domain.ErrUnauthorized when the actor may not act.
	authorize func(E) error
	// counterparty is recorded on the row on success (nil leaves it as is).
	counterparty *uuid.UUID
}

// applyTransition runs the read → check → conditional write contract:
//
//  1. read the current row (domain.ErrNotFound if missing),
//  2. check the edge is in the lifecycle graph and, for deadline-bound
//     transitions, that the deadline has not passed (domain.ErrIllegalTransition),
//  3. check the actor's rights (domain.ErrUnauthorized),
//  4. write conditioned on the status read in step 1; zero rows affected
//     means another actor got there first (domain.ErrPreconditionFailed).
//
// It does not retry: after a lost race the caller must re-read.
func applyTransition[E any, S ~string](ctx context.Context, r statusRepo[E, S], id uuid.UUID, t transition[E, S]) (E, error) {
	var zero E

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return zero, wrap(t.op, err)
	}

	from := t.status(current)
	if err := t.lifecycle.Check(from, t.to); err != nil {
		return zero, wrap(t.op, err)
	}
	if t.overdue != nil && t.overdue(current) {
		return zero, fmt.Errorf("%s: %w: %s %s is past its deadline and awaits expiry",
			t.op, domain.ErrIllegalTransition, t.lifecycle.Family, id)
	}

	if t.authorize != nil {
		if err := t.authorize(current); err != nil {
			return zero, wrap(t.op, err)
		}
	}

	n, err := r.UpdateStatus(ctx, repo.StatusChange[S]{
		ID:           id,
		From:         from,
		To:           t.to,
		Counterparty: t.counterparty,
	})
	if err != nil {
		return zero, wrap(t.op, err)
	}
	if n == 0 {
		return zero, fmt.Errorf("%s: %w: %s %s is no longer %s",
			t.op, domain.ErrPreconditionFailed, t.lifecycle.Family, id, from)
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return zero, wrap(t.op, err)
	}
	return updated, nil
}

// lifecycleDeps are shared by the three family services.
type lifecycleDeps struct {
	notifier Notifier
	metrics  *observability.Metrics
	log      *slog.Logger
}

func newLifecycleDeps(n Notifier, m *observability.Metrics, log *slog.Logger) lifecycleDeps {
	if log == nil {
		log = slog.Default()
	}
	return lifecycleDeps{notifier: n, metrics: m, log: log}
}

// notify sends n if a notifier is configured, logging any failure.
func (d lifecycleDeps) notify(ctx context.Context, n domain.Notification) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		d.log.WarnContext(ctx, "notification not delivered",
			"kind", n.Kind,
			"owner_id", n.OwnerID,
			"error", err,
		)
	}
}

// observe records a transition attempt in metrics.
func (d lifecycleDeps) observe(family, to string, err error) {
	d.metrics.ObserveTransition(family, to, outcome(err))
}

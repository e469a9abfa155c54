// Package repo contains all database access logic for the rideshare backend.
// Each entity family has its own file with an interface and a Postgres
// implementation. No business logic lives here, only SQL and type mapping.
//
// Every status change is a conditional UPDATE (WHERE status = @from) and
// reports rows affected; callers branch on zero vs. nonzero.
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatusChange describes one conditional status update.
// The row is only written if its status still equals From.
type StatusChange[S ~string] struct {
	ID   uuid.UUID
	From S
	To   S
	// Counterparty, when non-nil, is recorded on the row (the accepting
	// driver, the matching user, the accepting passenger). Nil leaves the
	// column unchanged.
	Counterparty *uuid.UUID
}

// Expirer is implemented by every entity family the sweeper handles.
//
// ExpireDue moves every row that is in one of the family's sweepable statuses and
// whose deadline column is before deadline into EXPIRED, stamping
// updated_at = now. It is a single statement, so the selection and the
// write cannot be separated by a concurrent change.
type Expirer interface {
	ExpireDue(ctx context.Context, deadline, now time.Time) (int64, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// uuidPtr converts a nullable UUID column into *uuid.UUID.
func uuidPtr(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

// statusNames converts statuses to the text[] bound to "status = ANY(...)".
func statusNames[S ~string](ss []S) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

// parseStatus maps a status column value onto l's status type. A value the
// lifecycle graph does not know is an error rather than a silently
// stuck entity.
func parseStatus[S ~string](l domain.Lifecycle[S], raw string) (S, error) {
	s := S(raw)
	if !l.Known(s) {
		return s, fmt.Errorf("unknown %s status %q", l.Family, raw)
	}
	return s, nil
}

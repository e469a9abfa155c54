package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. expires_at in the past, empty time window).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrBadRequest is returned at the HTTP boundary when a payload is malformed
// (not JSON, wrong shape, unknown fields). It is raised before any side effect.
// Handlers should map this to HTTP 400.
var ErrBadRequest = errors.New("bad request")

// ErrIllegalTransition is returned when the requested status change is not an
// edge of the entity's lifecycle graph, including every attempt to leave a
// terminal status. Handlers should map this to HTTP 409.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrPreconditionFailed is returned when a conditional update matched zero
// rows: the status changed between the read and the write, so another actor
// (a user or the sweeper) won the race. Callers must re-read before retrying.
// Handlers should map this to HTTP 409.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrUnauthorized is returned when the acting user has no rights over the
// entity (e.g. marking another user's notification read).
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrTransient tags database or network failures that are not a property of
// the request itself. The original error stays in the chain.
// Handlers should map this to HTTP 503.
var ErrTransient = errors.New("transient backend error")

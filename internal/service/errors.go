// Package service contains the business logic for the rideshare backend.
// Services validate inputs, enforce the lifecycle rules, and orchestrate repo
// calls. No SQL lives here: services depend on repo interfaces, not
// implementations.
package service

import (
	"errors"
	"fmt"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// classified are the sentinels callers branch on. Anything else coming up
// from a repo is a backend failure.
var classified = []error{
	domain.ErrNotFound,
	domain.ErrValidation,
	domain.ErrBadRequest,
	domain.ErrIllegalTransition,
	domain.ErrPreconditionFailed,
	domain.ErrUnauthorized,
	domain.ErrTransient,
}

// wrap prefixes err with op. Unclassified errors are additionally tagged
// with domain.ErrTransient; the original stays reachable via errors.Is/As.
func wrap(op string, err error) error {
	for _, sentinel := range classified {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransient, err)
}

// validation builds a domain.ErrValidation with a human-readable reason.
func validation(op, reason string) error {
	return fmt.Errorf("%s: %w: %s", op, domain.ErrValidation, reason)
}

// unauthorized builds a domain.ErrUnauthorized with a human-readable reason.
func unauthorized(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrUnauthorized, reason)
}

// outcome maps an error to the short code used in metrics and logs.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, domain.ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// serveGet binds the path ID, loads the entity and writes it as 200.
func serveGet[E any](s *Server, w http.ResponseWriter, r *http.Request, get func(ctx context.Context, id uuid.UUID) (E, error)) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	e, err := get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// serveTransition runs a user-driven status change and writes the updated
// entity as 200. Transition actions take no body.
func serveTransition[E any](s *Server, w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actor, id uuid.UUID) (E, error)) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	e, err := apply(r.Context(), who, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

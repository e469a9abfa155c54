package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/middleware"
)

// errUnauthenticated is returned when a user route runs without an actor in
// the context, which only happens if the auth middleware is missing.
var errUnauthenticated = errors.New("no authenticated user")

// actor returns the authenticated user, writing a 401 when there is none.
func actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", errUnauthenticated.Error())
	}
	return id, ok
}

// pathID binds the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id: %v", domain.ErrBadRequest, err)
	}
	return id, nil
}

// pageParams binds the optional ?page= and ?limit= query parameters.
func pageParams(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("%w: invalid page: %v", domain.ErrBadRequest, err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PaginationParams{}, fmt.Errorf("%w: invalid limit: %v", domain.ErrBadRequest, err)
	}
	return domain.NewPaginationParams(page, limit), nil
}

// decodeBody strictly decodes a JSON object into dst. Unknown fields,
// trailing data and an empty body are all rejected as domain.ErrBadRequest.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrBadRequest)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if tooLarge(err) {
			return errPayloadTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", domain.ErrBadRequest)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: body must contain a single JSON object", domain.ErrBadRequest)
	}
	return nil
}

// decodeOptionalObject accepts an empty body or a JSON object with any
// fields, and rejects everything else.
func decodeOptionalObject(r *http.Request) error {
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		if tooLarge(err) {
			return errPayloadTooLarge
		}
		return fmt.Errorf("%w: read body: %v", domain.ErrBadRequest, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]json.RawMessage
	if raw[0] != '{' || json.Unmarshal(raw, &obj) != nil {
		return fmt.Errorf("%w: body must be a JSON object", domain.ErrBadRequest)
	}
	return nil
}

// tooLarge reports whether err comes from an http.MaxBytesReader limit.
func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func missingField(name string) error {
	return fmt.Errorf("%w: %s is required", domain.ErrBadRequest, name)
}

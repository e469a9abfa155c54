package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// ErrorResponse is the envelope of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errPayloadTooLarge is returned when reading a body hits the
// middleware.NewMaxBodySizeHandler limit.
var errPayloadTooLarge = errors.New("request body too large")

// errorMapping ties a domain sentinel to its HTTP status and error code.
// Order matters: the first sentinel found in the chain wins.
var errorMapping = []struct {
	sentinel error
	status   int
	code     string
}{
	{errPayloadTooLarge, http.StatusRequestEntityTooLarge, "payload_too_large"},
	{domain.ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrIllegalTransition, http.StatusConflict, "illegal_transition"},
	{domain.ErrPreconditionFailed, http.StatusConflict, "precondition_failed"},
	{domain.ErrUnauthorized, http.StatusForbidden, "forbidden"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{domain.ErrTransient, http.StatusServiceUnavailable, "backend_unavailable"},
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondError maps err onto the error envelope. Backend failures are
// logged with the full chain but only a generic message is returned.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			s.log.ErrorContext(r.Context(), "backend error", "path", r.URL.Path, "error", err)
			writeError(w, m.status, m.code, "backend temporarily unavailable, retry later")
			return
		}
		writeError(w, m.status, m.code, unwrapMessage(err, m.sentinel))
		return
	}

	s.log.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// unwrapMessage extracts the human-readable part that follows the sentinel
// in a wrapped error.
// e.g. "service.RideRequestService.Create: validation error: expires_at must be in the future"
// → "expires_at must be in the future"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

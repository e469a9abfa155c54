package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// SweepDetails holds the per-family expired counts.
type SweepDetails struct {
	RideRequests int64 `json:"ride_requests"`
	TripRequests int64 `json:"trip_requests"`
	TripOffers   int64 `json:"trip_offers"`
}

// SweepResponse is the body of a POST /sweep that reached at least one
// family. Failures is present only when some family failed.
type SweepResponse struct {
	Success      bool              `json:"success"`
	ExpiredCount int64             `json:"expired_count"`
	Details      SweepDetails      `json:"details"`
	Failures     map[string]string `json:"failures,omitempty"`
}

// SweepFailure is the body of a POST /sweep where every family failed.
type SweepFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SweepOptions handles OPTIONS /sweep with an empty 200.
func (s *Server) SweepOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// TriggerSweep handles POST /sweep. The body is optional; when present it
// must be a JSON object, and it is validated before anything is expired.
//
// A partial failure still answers 200 with success=false so the caller sees
// which families did expire; only a run where every family failed is a 500.
func (s *Server) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	if err := decodeOptionalObject(r); err != nil {
		s.respondError(w, r, err)
		return
	}

	res := s.sweeper.Sweep(r.Context())

	if len(res.Expired) == 0 && !res.OK() {
		writeJSON(w, http.StatusInternalServerError, SweepFailure{
			Success: false,
			Error:   joinFailures(res.Failures),
		})
		return
	}

	resp := SweepResponse{
		Success:      res.OK(),
		ExpiredCount: res.Total(),
		Details: SweepDetails{
			RideRequests: res.Expired[domain.FamilyRideRequests],
			TripRequests: res.Expired[domain.FamilyTripRequests],
			TripOffers:   res.Expired[domain.FamilyTripOffers],
		},
	}
	if !res.OK() {
		resp.Failures = make(map[string]string, len(res.Failures))
		for family, err := range res.Failures {
			resp.Failures[family] = failureMessage(err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// joinFailures renders every family failure in a stable order.
func joinFailures(failures map[string]error) string {
	families := make([]string, 0, len(failures))
	for f := range failures {
		families = append(families, f)
	}
	sort.Strings(families)

	parts := make([]string, len(families))
	for i, f := range families {
		parts[i] = f + ": " + failureMessage(failures[f])
	}
	return strings.Join(parts, "; ")
}

// failureMessage hides backend detail behind the transient sentinel text.
func failureMessage(err error) string {
	if errors.Is(err, domain.ErrTransient) {
		return domain.ErrTransient.Error()
	}
	return err.Error()
}

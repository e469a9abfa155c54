package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/handler"
	"github.com/pkordes/rideshare/backend/internal/middleware"
)

// ---- mocks -----------------------------------------------------------------
// Each mock is a struct of function fields. Set only the ones a test needs.

type mockRideRequestServicer struct {
	create  func(ctx context.Context, actor uuid.UUID, expiresAt time.Time) (domain.RideRequest, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.RideRequest, error)
	accept  func(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
	confirm func(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
	cancel  func(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error)
}

func (m *mockRideRequestServicer) Create(ctx context.Context, actor uuid.UUID, expiresAt time.Time) (domain.RideRequest, error) {
	return m.create(ctx, actor, expiresAt)
}
func (m *mockRideRequestServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockRideRequestServicer) Accept(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	return m.accept(ctx, actor, id)
}
func (m *mockRideRequestServicer) Confirm(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	return m.confirm(ctx, actor, id)
}
func (m *mockRideRequestServicer) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.RideRequest, error) {
	return m.cancel(ctx, actor, id)
}

type mockTripRequestServicer struct {
	create  func(ctx context.Context, actor uuid.UUID, start, end time.Time) (domain.TripRequest, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripRequest, error)
	match   func(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error)
	cancel  func(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error)
}

func (m *mockTripRequestServicer) Create(ctx context.Context, actor uuid.UUID, start, end time.Time) (domain.TripRequest, error) {
	return m.create(ctx, actor, start, end)
}
func (m *mockTripRequestServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRequestServicer) Match(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error) {
	return m.match(ctx, actor, id)
}
func (m *mockTripRequestServicer) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripRequest, error) {
	return m.cancel(ctx, actor, id)
}

type mockTripOfferServicer struct {
	create  func(ctx context.Context, actor uuid.UUID, seats int) (domain.TripOffer, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripOffer, error)
	accept  func(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error)
	cancel  func(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error)
}

func (m *mockTripOfferServicer) Create(ctx context.Context, actor uuid.UUID, seats int) (domain.TripOffer, error) {
	return m.create(ctx, actor, seats)
}
func (m *mockTripOfferServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripOfferServicer) Accept(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error) {
	return m.accept(ctx, actor, id)
}
func (m *mockTripOfferServicer) Cancel(ctx context.Context, actor, id uuid.UUID) (domain.TripOffer, error) {
	return m.cancel(ctx, actor, id)
}

type mockNotificationServicer struct {
	markRead    func(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error)
	markAllRead func(ctx context.Context, actor uuid.UUID) (int64, error)
	listPaged   func(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error)
	unreadCount func(ctx context.Context, actor uuid.UUID) (int64, error)
}

func (m *mockNotificationServicer) MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, actor, id)
}
func (m *mockNotificationServicer) MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error) {
	return m.markAllRead(ctx, actor)
}
func (m *mockNotificationServicer) ListPaged(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	return m.listPaged(ctx, actor, p)
}
func (m *mockNotificationServicer) UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error) {
	return m.unreadCount(ctx, actor)
}

type mockSweeper struct {
	sweep func(ctx context.Context) domain.SweepResult
	calls int
}

func (m *mockSweeper) Sweep(ctx context.Context) domain.SweepResult {
	m.calls++
	return m.sweep(ctx)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.RideRequestServicer  = (*mockRideRequestServicer)(nil)
	_ handler.TripRequestServicer  = (*mockTripRequestServicer)(nil)
	_ handler.TripOfferServicer    = (*mockTripOfferServicer)(nil)
	_ handler.NotificationServicer = (*mockNotificationServicer)(nil)
	_ handler.Sweeper              = (*mockSweeper)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testServiceKey = "test-service-key"

// testActor is the user every authenticated test request acts as.
var testActor = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// fakeAuth stands in for the JWT middleware: requests carrying any bearer
// token act as testActor, others get 401 from the handler's actor check.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			r = r.WithContext(middleware.WithActor(r.Context(), testActor))
		}
		next.ServeHTTP(w, r)
	})
}

// newRouter wires a Server with the given services the way main.go does,
// with fake user auth and the real service-key guard.
func newRouter(svc handler.Services) http.Handler {
	r := chi.NewRouter()
	srv := handler.NewServer(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv.Routes(r, fakeAuth, middleware.NewServiceKeyGuard(testServiceKey))
	return r
}

// do sends an authenticated request through h and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer user-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorCode decodes the error envelope and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/repo"
)

// mockRideRequestRepo is a hand-written test double for repo.RideRequestRepo.
// Each method is a function field; set only the ones your test needs.
type mockRideRequestRepo struct {
	create       func(ctx context.Context, r domain.RideRequest) (domain.RideRequest, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.RideRequest, error)
	updateStatus func(ctx context.Context, c repo.StatusChange[domain.RideStatus]) (int64, error)
	expireDue    func(ctx context.Context, deadline, now time.Time) (int64, error)
}

func (m *mockRideRequestRepo) Create(ctx context.Context, r domain.RideRequest) (domain.RideRequest, error) {
	return m.create(ctx, r)
}
func (m *mockRideRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.RideRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockRideRequestRepo) UpdateStatus(ctx context.Context, c repo.StatusChange[domain.RideStatus]) (int64, error) {
	return m.updateStatus(ctx, c)
}
func (m *mockRideRequestRepo) ExpireDue(ctx context.Context, deadline, now time.Time) (int64, error) {
	return m.expireDue(ctx, deadline, now)
}

// compile-time check: mockRideRequestRepo must satisfy repo.RideRequestRepo.
var _ repo.RideRequestRepo = (*mockRideRequestRepo)(nil)

type mockTripRequestRepo struct {
	create       func(ctx context.Context, r domain.TripRequest) (domain.TripRequest, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.TripRequest, error)
	updateStatus func(ctx context.Context, c repo.StatusChange[domain.TripRequestStatus]) (int64, error)
}

func (m *mockTripRequestRepo) Create(ctx context.Context, r domain.TripRequest) (domain.TripRequest, error) {
	return m.create(ctx, r)
}
func (m *mockTripRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripRequest, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRequestRepo) UpdateStatus(ctx context.Context, c repo.StatusChange[domain.TripRequestStatus]) (int64, error) {
	return m.updateStatus(ctx, c)
}
func (m *mockTripRequestRepo) ExpireDue(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

var _ repo.TripRequestRepo = (*mockTripRequestRepo)(nil)

type mockTripOfferRepo struct {
	create       func(ctx context.Context, o domain.TripOffer) (domain.TripOffer, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.TripOffer, error)
	updateStatus func(ctx context.Context, c repo.StatusChange[domain.TripOfferStatus]) (int64, error)
}

func (m *mockTripOfferRepo) Create(ctx context.Context, o domain.TripOffer) (domain.TripOffer, error) {
	return m.create(ctx, o)
}
func (m *mockTripOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripOffer, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripOfferRepo) UpdateStatus(ctx context.Context, c repo.StatusChange[domain.TripOfferStatus]) (int64, error) {
	return m.updateStatus(ctx, c)
}
func (m *mockTripOfferRepo) ExpireDue(context.Context, time.Time, time.Time) (int64, error) {
	return 0, nil
}

var _ repo.TripOfferRepo = (*mockTripOfferRepo)(nil)

type mockNotificationRepo struct {
	create           func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Notification, error)
	markRead         func(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
	markAllRead      func(ctx context.Context, ownerID uuid.UUID) (int64, error)
	listByOwnerPaged func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error)
	countUnread      func(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return m.getByID(ctx, id)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	return m.markRead(ctx, id, ownerID)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return m.markAllRead(ctx, ownerID)
}
func (m *mockNotificationRepo) ListByOwnerPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	return m.listByOwnerPaged(ctx, ownerID, p)
}
func (m *mockNotificationRepo) CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return m.countUnread(ctx, ownerID)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

// recordingNotifier captures every notification sent, optionally failing.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, note domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	return n.err
}

// statefulRideRepo is a ride repo over a single in-memory row whose
// UpdateStatus honours the WHERE status = @from condition.
type statefulRideRepo struct {
	mockRideRequestRepo
	row     domain.RideRequest
	updates int
}

func newStatefulRideRepo(row domain.RideRequest) *statefulRideRepo {
	s := &statefulRideRepo{row: row}
	s.getByID = func(_ context.Context, id uuid.UUID) (domain.RideRequest, error) {
		if id != s.row.ID {
			return domain.RideRequest{}, domain.ErrNotFound
		}
		return s.row, nil
	}
	s.updateStatus = func(_ context.Context, c repo.StatusChange[domain.RideStatus]) (int64, error) {
		s.updates++
		if c.ID != s.row.ID || c.From != s.row.Status {
			return 0, nil
		}
		s.row.Status = c.To
		if c.Counterparty != nil {
			d := *c.Counterparty
			s.row.DriverID = &d
		}
		return 1, nil
	}
	return s
}

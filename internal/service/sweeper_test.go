package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/observability"
	"github.com/pkordes/rideshare/backend/internal/service"
)

// fakeRow is one in-memory entity: its status and the value of the family's
// deadline column (expires_at, time_window_end or created_at).
type fakeRow struct {
	status   string
	deadline time.Time
}

// fakeTable is an in-memory repo.Expirer that applies the same predicate
// as the SQL: status = sweepable AND deadline column < deadline.
type fakeTable struct {
	sweepable string
	rows      []*fakeRow
	calls     []expireCall
	err       error
}

type expireCall struct {
	deadline time.Time
	now      time.Time
}

func (f *fakeTable) ExpireDue(_ context.Context, deadline, now time.Time) (int64, error) {
	f.calls = append(f.calls, expireCall{deadline: deadline, now: now})
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, r := range f.rows {
		if r.status == f.sweepable && r.deadline.Before(deadline) {
			r.status = "EXPIRED"
			n++
		}
	}
	return n, nil
}

var sweepNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

type sweepFixture struct {
	rides, trips, offers *fakeTable
}

// newSweepFixture builds the three scenario rows: an accepted ride an hour
// past expires_at, an open trip request whose window ends in an hour, and an
// offer created 25 hours ago.
func newSweepFixture() sweepFixture {
	return sweepFixture{
		rides: &fakeTable{sweepable: "ACCEPTED_BY_DRIVER", rows: []*fakeRow{
			{status: "ACCEPTED_BY_DRIVER", deadline: sweepNow.Add(-time.Hour)},
		}},
		trips: &fakeTable{sweepable: "OPEN", rows: []*fakeRow{
			{status: "OPEN", deadline: sweepNow.Add(time.Hour)},
		}},
		offers: &fakeTable{sweepable: "OFFERED", rows: []*fakeRow{
			{status: "OFFERED", deadline: sweepNow.Add(-25 * time.Hour)},
		}},
	}
}

func (f sweepFixture) sweeper(cfg service.SweeperConfig) *service.Sweeper {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return sweepNow }
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	}
	return service.NewSweeper(f.rides, f.trips, f.offers, cfg)
}

func TestSweeper_Scenarios(t *testing.T) {
	f := newSweepFixture()

	result := f.sweeper(service.SweeperConfig{}).Sweep(context.Background())

	require.True(t, result.OK())
	assert.EqualValues(t, 1, result.Expired[domain.FamilyRideRequests])
	assert.EqualValues(t, 0, result.Expired[domain.FamilyTripRequests])
	assert.EqualValues(t, 1, result.Expired[domain.FamilyTripOffers])
	assert.EqualValues(t, 2, result.Total())

	assert.Equal(t, "EXPIRED", f.rides.rows[0].status)
	assert.Equal(t, "OPEN", f.trips.rows[0].status, "window has not ended yet")
	assert.Equal(t, "EXPIRED", f.offers.rows[0].status)
}

func TestSweeper_Idempotent(t *testing.T) {
	f := newSweepFixture()
	s := f.sweeper(service.SweeperConfig{})

	first := s.Sweep(context.Background())
	second := s.Sweep(context.Background())

	assert.EqualValues(t, 2, first.Total())
	assert.EqualValues(t, 0, second.Total())
	assert.True(t, second.OK())
}

// TestSweeper_SingleNow verifies the clock is read once per run and that every
// family receives the same now; offers get now minus the max age as deadline.
func TestSweeper_SingleNow(t *testing.T) {
	f := newSweepFixture()
	ticks := 0
	clock := func() time.Time {
		ticks++
		return sweepNow.Add(time.Duration(ticks) * time.Minute)
	}

	result := f.sweeper(service.SweeperConfig{Now: clock}).Sweep(context.Background())

	require.Equal(t, 1, ticks)
	want := sweepNow.Add(time.Minute)
	assert.Equal(t, want, result.Now)

	for _, tbl := range []*fakeTable{f.rides, f.trips, f.offers} {
		require.Len(t, tbl.calls, 1)
		assert.Equal(t, want, tbl.calls[0].now)
	}
	assert.Equal(t, want, f.rides.calls[0].deadline)
	assert.Equal(t, want, f.trips.calls[0].deadline)
	assert.Equal(t, want.Add(-domain.DefaultOfferMaxAge), f.offers.calls[0].deadline)
}

func TestSweeper_CustomOfferMaxAge(t *testing.T) {
	f := newSweepFixture()

	f.sweeper(service.SweeperConfig{OfferMaxAge: 48 * time.Hour}).Sweep(context.Background())

	assert.Equal(t, sweepNow.Add(-48*time.Hour), f.offers.calls[0].deadline)
	assert.Equal(t, "OFFERED", f.offers.rows[0].status, "25h old offer survives a 48h limit")
}

// TestSweeper_PartialFailure checks that one failing family is reported and
// does not stop the others.
func TestSweeper_PartialFailure(t *testing.T) {
	f := newSweepFixture()
	dbErr := errors.New("canceling statement due to statement timeout")
	f.trips.err = dbErr
	var logs bytes.Buffer
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	result := f.sweeper(service.SweeperConfig{
		Logger:  slog.New(slog.NewJSONHandler(&logs, nil)),
		Metrics: metrics,
	}).Sweep(context.Background())

	assert.False(t, result.OK())
	require.Contains(t, result.Failures, domain.FamilyTripRequests)
	assert.ErrorIs(t, result.Failures[domain.FamilyTripRequests], dbErr)
	assert.ErrorIs(t, result.Failures[domain.FamilyTripRequests], domain.ErrTransient)
	assert.NotContains(t, result.Expired, domain.FamilyTripRequests)

	// Siblings after the failing family still ran.
	assert.EqualValues(t, 1, result.Expired[domain.FamilyRideRequests])
	assert.EqualValues(t, 1, result.Expired[domain.FamilyTripOffers])
	assert.Len(t, f.offers.calls, 1)

	assert.Contains(t, logs.String(), "sweep family failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SweepFailures.WithLabelValues(domain.FamilyTripRequests)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SweepExpired.WithLabelValues(domain.FamilyTripOffers)))
}

func TestSweeper_AllFail(t *testing.T) {
	f := newSweepFixture()
	boom := errors.New("connection refused")
	f.rides.err, f.trips.err, f.offers.err = boom, boom, boom

	result := f.sweeper(service.SweeperConfig{}).Sweep(context.Background())

	assert.Len(t, result.Failures, 3)
	assert.Empty(t, result.Expired)
	assert.Zero(t, result.Total())
}

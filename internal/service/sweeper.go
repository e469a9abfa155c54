package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/rideshare/backend/internal/domain"
	"github.com/pkordes/rideshare/backend/internal/observability"
	"github.com/pkordes/rideshare/backend/internal/repo"
)

// SweeperConfig carries the Sweeper's optional dependencies.
type SweeperConfig struct {
	// OfferMaxAge is how long an offer may stay OFFERED.
	// Defaults to domain.DefaultOfferMaxAge.
	OfferMaxAge time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// sweepFamily binds one entity family to its deadline rule.
type sweepFamily struct {
	name    string
	expirer repo.Expirer
	// deadline maps the run's now to the cutoff for the family's deadline column.
	deadline func(now time.Time) time.Time
}

// Sweeper expires stale ride requests, trip requests and trip offers.
//
// It keeps no state between runs and has no in-process concurrency; it is
// safe to run concurrently with itself and with user-driven transitions
// because every write is conditioned on the sweepable status.
type Sweeper struct {
	families []sweepFamily
	now      func() time.Time
	log      *slog.Logger
	metrics  *observability.Metrics
}

// NewSweeper constructs a Sweeper over the three family repos.
func NewSweeper(rides, tripRequests, tripOffers repo.Expirer, cfg SweeperConfig) *Sweeper {
	if cfg.OfferMaxAge <= 0 {
		cfg.OfferMaxAge = domain.DefaultOfferMaxAge
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	sameInstant := func(now time.Time) time.Time { return now }
	maxAge := cfg.OfferMaxAge

	return &Sweeper{
		families: []sweepFamily{
			{name: domain.FamilyRideRequests, expirer: rides, deadline: sameInstant},
			{name: domain.FamilyTripRequests, expirer: tripRequests, deadline: sameInstant},
			{name: domain.FamilyTripOffers, expirer: tripOffers, deadline: func(now time.Time) time.Time {
				return now.Add(-maxAge)
			}},
		},
		now:     cfg.Now,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Sweep runs one expiry pass over every family.
//
// The wall-clock instant is captured once and every family is judged against
// it. A family that fails is logged and recorded in the result's Failures;
// the remaining families are still swept. Sweep itself never returns an
// error: inspect SweepResult.OK.
func (s *Sweeper) Sweep(ctx context.Context) domain.SweepResult {
	now := s.now().UTC()
	started := time.Now()

	result := domain.SweepResult{
		Now:      now,
		Expired:  make(map[string]int64, len(s.families)),
		Failures: make(map[string]error),
	}

	for _, f := range s.families {
		n, err := f.expirer.ExpireDue(ctx, f.deadline(now), now)
		s.metrics.ObserveSweepFamily(f.name, n, err)
		if err != nil {
			result.Failures[f.name] = wrap("service.Sweeper.Sweep: "+f.name, err)
			s.log.ErrorContext(ctx, "sweep family failed", "family", f.name, "error", err)
			continue
		}
		result.Expired[f.name] = n
		s.log.InfoContext(ctx, "sweep family done", "family", f.name, "expired", n)
	}

	s.metrics.ObserveSweep(time.Since(started))
	s.log.InfoContext(ctx, "sweep finished",
		"now", now,
		"expired_count", result.Total(),
		"failed_families", len(result.Failures),
	)
	return result
}

// Package main runs a single expiry sweep and exits. It is meant to be
// invoked by an external scheduler (cron, Kubernetes CronJob) as an
// alternative to calling POST /sweep.
//
// The JSON result is written to stdout. The exit status is 1 when
// configuration or the database is unusable, or when any family failed.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/rideshare/backend/internal/config"
	"github.com/pkordes/rideshare/backend/internal/repo"
	"github.com/pkordes/rideshare/backend/internal/service"
)

// result mirrors the body of POST /sweep.
type result struct {
	Success      bool              `json:"success"`
	Now          time.Time         `json:"now"`
	ExpiredCount int64             `json:"expired_count"`
	Details      map[string]int64  `json:"details"`
	Failures     map[string]string `json:"failures,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 1
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	// Logs go to stderr so stdout carries only the JSON result.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		return 1
	}

	sweeper := service.NewSweeper(
		repo.NewRideRequestRepo(pool),
		repo.NewTripRequestRepo(pool),
		repo.NewTripOfferRepo(pool),
		service.SweeperConfig{OfferMaxAge: cfg.OfferMaxAge, Logger: logger},
	)
	res := sweeper.Sweep(ctx)

	out := result{
		Success:      res.OK(),
		Now:          res.Now,
		ExpiredCount: res.Total(),
		Details:      res.Expired,
	}
	if !res.OK() {
		out.Failures = make(map[string]string, len(res.Failures))
		for family, err := range res.Failures {
			out.Failures[family] = err.Error()
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("failed to write result", "error", err)
		return 1
	}

	if !res.OK() {
		return 1
	}
	return 0
}

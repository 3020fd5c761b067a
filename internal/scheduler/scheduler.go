// Package scheduler drives the sync on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one unit of scheduled work. Errors are logged, not fatal: a failed
// sync is retried implicitly on the next tick.
type Job func(ctx context.Context) error

// Scheduler runs a Job immediately and then once per interval. The job runs
// to completion on the scheduler's own goroutine before the next tick is
// consumed, so runs never overlap.
type Scheduler struct {
	interval time.Duration
	logger   zerolog.Logger
}

// New creates a Scheduler.
func New(interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}
}

// Run blocks until ctx is cancelled, returning ctx.Err().
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.invoke(ctx, job)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.invoke(ctx, job)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, job Job) {
	started := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("scheduled sync failed")
		return
	}
	s.logger.Debug().Dur("elapsed", time.Since(started)).Msg("scheduled sync finished")
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"video_feed/internal/domain"
)

// Runner defines the interface for one feed generation.
type Runner interface {
	Run(ctx context.Context) (*domain.RunStats, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. Every run gets its own deadline of timeout.
func NewScheduler(runner Runner, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// RunOnce performs a single run and returns its error.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.RunStats, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.runner.Run(runCtx)
}

// Start runs immediately and then on every tick until ctx is done. Failed
// runs are logged and do not stop the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *Scheduler) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("feed generation failed", "error", err)
	}
}

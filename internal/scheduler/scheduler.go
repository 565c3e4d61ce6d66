package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobdigest/internal/digest"
)

// Runner executes one digest run.
type Runner interface {
	Run(ctx context.Context) (digest.RunSummary, error)
}

// Scheduler owns the daemon loop: one run immediately, then one per interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the digest at the given interval.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. A failed run is logged and the next one still
// happens on schedule. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	summary, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("digest run failed", "error", err, "elapsed", time.Since(start))
		return
	}
	s.logger.Info("digest run complete",
		"jobs", summary.Jobs,
		"collected", summary.Collected,
		"failed_companies", summary.FailedCompanies,
		"to", summary.Recipient,
		"elapsed", time.Since(start),
	)
}

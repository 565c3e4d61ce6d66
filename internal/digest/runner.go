package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobdigest/internal/aggregator"
	"github.com/amishk599/jobdigest/internal/ai"
	"github.com/amishk599/jobdigest/internal/model"
)

// Collector gathers raw jobs across companies.
type Collector interface {
	Collect(ctx context.Context, companies []string) aggregator.Result
}

// RunnerConfig is the per-run input that does not change between runs.
type RunnerConfig struct {
	Companies  []string
	MaxResults int
	Recipient  string
}

// RunSummary describes one completed run.
type RunSummary struct {
	Subject         string
	Recipient       string
	Jobs            int // jobs in the delivered digest
	Collected       int // jobs gathered before dedup
	FailedCompanies int
}

// Gathered holds the jobs before and after dedup.
type Gathered struct {
	Collected aggregator.Result
	Jobs      []model.Job
}

// Runner owns one digest run: gather → dedupe → enrich → render → send.
type Runner struct {
	cfg       RunnerConfig
	collector Collector
	outreach  ai.OutreachGenerator
	notifier  model.Notifier
	archive   model.DigestArchive
	now       func() time.Time
	logger    *slog.Logger
}

// NewRunner creates a runner wired with all its dependencies. archive may be
// nil.
func NewRunner(
	cfg RunnerConfig,
	collector Collector,
	outreach ai.OutreachGenerator,
	notifier model.Notifier,
	archive model.DigestArchive,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		cfg:       cfg,
		collector: collector,
		outreach:  outreach,
		notifier:  notifier,
		archive:   archive,
		now:       time.Now,
		logger:    logger,
	}
}

// Gather collects across all companies, then dedupes and caps the result.
func (r *Runner) Gather(ctx context.Context) Gathered {
	res := r.collector.Collect(ctx, r.cfg.Companies)
	jobs := aggregator.Dedupe(res.Jobs, r.cfg.MaxResults)
	r.logger.Info("deduplicated jobs", "collected", len(res.Jobs), "kept", len(jobs), "cap", r.cfg.MaxResults)
	return Gathered{Collected: res, Jobs: jobs}
}

// Run executes one full pass and delivers the digest. Delivery errors are
// returned; archive errors are only logged.
func (r *Runner) Run(ctx context.Context) (RunSummary, error) {
	g := r.Gather(ctx)

	jobs, _ := ai.Enrich(ctx, r.outreach, g.Jobs, r.logger)

	d, err := Render(jobs, r.now())
	if err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		Subject:         d.Subject,
		Recipient:       r.cfg.Recipient,
		Jobs:            len(jobs),
		Collected:       len(g.Collected.Jobs),
		FailedCompanies: len(g.Collected.Failed()),
	}

	if err := r.notifier.Notify(ctx, d); err != nil {
		return summary, fmt.Errorf("deliver digest: %w", err)
	}
	r.logger.Info("digest delivered", "subject", d.Subject, "jobs", len(jobs))

	if r.archive != nil {
		if err := r.archive.Record(d, r.cfg.Recipient); err != nil {
			r.logger.Warn("failed to archive digest", "error", err)
		}
	}

	return summary, nil
}

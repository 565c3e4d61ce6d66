package aggregator

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobdigest/internal/model"
)

// Pauser sleeps between successive company searches.
type Pauser interface {
	Pause(ctx context.Context) error
}

// CompanyResult is the outcome of searching one company. Exactly one of
// Jobs or Err is meaningful.
type CompanyResult struct {
	Company string
	Jobs    []model.Job
	Err     error
}

// Result is everything gathered in one Collect pass.
type Result struct {
	Jobs      []model.Job     // accumulated in company order, may exceed the cap
	Companies []CompanyResult // one entry per company actually searched
}

// Failed returns the companies whose search failed.
func (r Result) Failed() []CompanyResult {
	var failed []CompanyResult
	for _, c := range r.Companies {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Aggregator runs one search per company, in order, until enough jobs have
// been gathered: search, accumulate, pause, check the cap.
type Aggregator struct {
	fetcher         model.JobFetcher
	pauser          Pauser
	maxResults      int
	perCompanyLimit int
	logger          *slog.Logger
}

// NewAggregator creates an aggregator. maxResults is the global cap that
// triggers the early stop; perCompanyLimit trims each company's batch and
// is ignored when <= 0.
func NewAggregator(
	fetcher model.JobFetcher,
	pauser Pauser,
	maxResults int,
	perCompanyLimit int,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		fetcher:         fetcher,
		pauser:          pauser,
		maxResults:      maxResults,
		perCompanyLimit: perCompanyLimit,
		logger:          logger,
	}
}

// Collect searches companies sequentially. A failing company is logged and
// contributes nothing; it never aborts the pass. Collection stops as soon
// as the accumulator holds at least maxResults jobs, so the final batch may
// overshoot the cap. Use Dedupe to enforce it.
func (a *Aggregator) Collect(ctx context.Context, companies []string) Result {
	var res Result

	for i, company := range companies {
		if ctx.Err() != nil {
			a.logger.Warn("collection cancelled", "remaining", len(companies)-i, "error", ctx.Err())
			break
		}

		cr := a.fetchCompany(ctx, company)
		res.Companies = append(res.Companies, cr)

		if cr.Err != nil {
			a.logger.Warn("company query failed", "company", company, "error", cr.Err)
		} else {
			res.Jobs = append(res.Jobs, cr.Jobs...)
			a.logger.Debug("company query done", "company", company, "jobs", len(cr.Jobs), "total", len(res.Jobs))
		}

		if len(res.Jobs) >= a.maxResults {
			a.logger.Debug("result cap reached", "cap", a.maxResults, "total", len(res.Jobs))
			break
		}

		if i < len(companies)-1 {
			if err := a.pauser.Pause(ctx); err != nil {
				a.logger.Warn("collection cancelled", "remaining", len(companies)-i-1, "error", err)
				break
			}
		}
	}

	a.logger.Info("collected jobs",
		"companies", len(res.Companies),
		"failed", len(res.Failed()),
		"jobs", len(res.Jobs),
	)
	return res
}

func (a *Aggregator) fetchCompany(ctx context.Context, company string) CompanyResult {
	jobs, err := a.fetcher.FetchJobs(ctx, company)
	if err != nil {
		return CompanyResult{Company: company, Err: err}
	}
	if a.perCompanyLimit > 0 && len(jobs) > a.perCompanyLimit {
		jobs = jobs[:a.perCompanyLimit]
	}
	return CompanyResult{Company: company, Jobs: jobs}
}

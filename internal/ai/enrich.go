package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobdigest/internal/model"
)

// OutreachResult is the outcome of drafting one message.
type OutreachResult struct {
	Message string
	Err     error
}

// FailurePlaceholder is the outreach text stored when generation fails.
func FailurePlaceholder(err error) string {
	return fmt.Sprintf("(Generate later) Error using OpenAI API: %v", err)
}

// Enrich sets Outreach on every job. A failed generation stores
// FailurePlaceholder for that job and moves on to the next one. The returned
// slice is a copy; results line up index-for-index with jobs.
func Enrich(ctx context.Context, gen OutreachGenerator, jobs []model.Job, logger *slog.Logger) ([]model.Job, []OutreachResult) {
	out := make([]model.Job, len(jobs))
	results := make([]OutreachResult, len(jobs))

	for i, job := range jobs {
		msg, err := gen.Generate(ctx, job)
		results[i] = OutreachResult{Message: msg, Err: err}

		if err != nil {
			logger.Warn("outreach generation failed", "company", job.Company, "title", job.Title, "error", err)
			job.Outreach = FailurePlaceholder(err)
		} else {
			job.Outreach = msg
		}
		out[i] = job
	}

	return out, results
}

package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the digest to the given logger instead of sending it.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs the digest via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the subject and one line per job. It never fails.
func (n *LogNotifier) Notify(_ context.Context, d model.Digest) error {
	n.logger.Info("digest", "subject", d.Subject, "jobs", len(d.Jobs))
	for i, j := range d.Jobs {
		n.logger.Info("digest job",
			"n", i+1,
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"via", j.Via,
			"apply", j.ApplyLink,
		)
		n.logger.Debug("digest outreach", "n", i+1, "message", j.Outreach)
	}
	return nil
}

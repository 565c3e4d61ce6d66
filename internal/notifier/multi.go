package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure MultiNotifier implements model.Notifier.
var _ model.Notifier = (*MultiNotifier)(nil)

// MultiNotifier delivers to a primary notifier and then to any number of
// best-effort secondaries. Only the primary's error is returned.
type MultiNotifier struct {
	primary     model.Notifier
	secondaries []model.Notifier
	logger      *slog.Logger
}

// NewMultiNotifier wraps primary. With no secondaries callers can use
// primary directly.
func NewMultiNotifier(logger *slog.Logger, primary model.Notifier, secondaries ...model.Notifier) *MultiNotifier {
	return &MultiNotifier{primary: primary, secondaries: secondaries, logger: logger}
}

// Notify sends to the primary first. Secondaries are skipped when the
// primary fails.
func (m *MultiNotifier) Notify(ctx context.Context, d model.Digest) error {
	if err := m.primary.Notify(ctx, d); err != nil {
		return err
	}
	for _, s := range m.secondaries {
		if err := s.Notify(ctx, d); err != nil {
			m.logger.Warn("secondary notification failed", "error", err)
		}
	}
	return nil
}

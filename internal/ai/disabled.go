package ai

import (
	"context"

	"github.com/amishk599/jobdigest/internal/model"
)

// DisabledPlaceholder is the outreach text used when no LLM credential is set.
const DisabledPlaceholder = "(Set OPENAI_API_KEY to auto-generate outreach messaging.)"

// DisabledOutreachGenerator is used when no LLM credential is configured.
// It never makes network calls.
type DisabledOutreachGenerator struct{}

// NewDisabledOutreachGenerator returns a DisabledOutreachGenerator.
func NewDisabledOutreachGenerator() *DisabledOutreachGenerator {
	return &DisabledOutreachGenerator{}
}

// Enabled reports false.
func (d *DisabledOutreachGenerator) Enabled() bool { return false }

// Generate returns DisabledPlaceholder.
func (d *DisabledOutreachGenerator) Generate(_ context.Context, _ model.Job) (string, error) {
	return DisabledPlaceholder, nil
}

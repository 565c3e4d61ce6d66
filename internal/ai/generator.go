package ai

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/amishk599/jobdigest/internal/model"
)

// snippetRunes is how much of the job description goes into the prompt.
const snippetRunes = 240

// OutreachGenerator drafts a recruiter message for a job. Which variant is
// used is decided once at startup from configuration.
type OutreachGenerator interface {
	Generate(ctx context.Context, job model.Job) (string, error)
	Enabled() bool
}

// LLMOutreachGenerator drafts messages with an LLM.
type LLMOutreachGenerator struct {
	provider LLMProvider
	tmpl     *template.Template
}

// NewLLMOutreachGenerator creates a generator that renders tmpl for each job
// and sends it to provider.
func NewLLMOutreachGenerator(provider LLMProvider, tmpl *template.Template) *LLMOutreachGenerator {
	return &LLMOutreachGenerator{
		provider: provider,
		tmpl:     tmpl,
	}
}

// Enabled reports true.
func (g *LLMOutreachGenerator) Enabled() bool { return true }

// Generate makes one completion request for job.
func (g *LLMOutreachGenerator) Generate(ctx context.Context, job model.Job) (string, error) {
	prompt, err := g.renderPrompt(job)
	if err != nil {
		return "", err
	}

	msg, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return msg, nil
}

type promptData struct {
	Title   string
	Company string
	Snippet string
}

func (g *LLMOutreachGenerator) renderPrompt(job model.Job) (string, error) {
	data := promptData{
		Title:   job.Title,
		Company: job.Company,
		Snippet: truncateRunes(job.Description, snippetRunes),
	}
	if data.Title == "" {
		data.Title = "Software Engineer"
	}
	if data.Company == "" {
		data.Company = "the company"
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

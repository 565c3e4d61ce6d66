package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// Slack rejects messages with more than 50 blocks.
const maxSlackBlocks = 50

// Header blocks are plain_text limited to 150 characters.
const maxSlackHeader = 150

// SlackNotifier posts a digest summary to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts one summary message per digest.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify posts the whole digest as a single Block Kit message. A 429 is
// reported as an error like any other non-200 status.
func (s *SlackNotifier) Notify(ctx context.Context, d model.Digest) error {
	body, err := json.Marshal(buildPayload(d))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack digest sent", "jobs", len(d.Jobs))
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func buildPayload(d model.Digest) slackPayload {
	header := d.Subject
	if r := []rune(header); len(r) > maxSlackHeader {
		header = string(r[:maxSlackHeader])
	}

	blocks := []slackBlock{{
		Type: "header",
		Text: &slackText{Type: "plain_text", Text: header},
	}}

	if len(d.Jobs) == 0 {
		blocks = append(blocks, noteBlock("No fresh roles found today."))
		return slackPayload{Text: d.Subject, Blocks: blocks}
	}

	// Each job takes two blocks; keep one slot for the overflow note.
	fit := (maxSlackBlocks - len(blocks) - 1) / 2
	shown := d.Jobs
	if len(shown) > fit {
		shown = shown[:fit]
	}

	for i, j := range shown {
		blocks = append(blocks, jobSection(i+1, j))
		if j.ApplyLink != "" {
			blocks = append(blocks, slackBlock{
				Type: "actions",
				Elements: []slackElement{{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply"},
					URL:   j.ApplyLink,
					Style: "primary",
				}},
			})
		} else {
			blocks = append(blocks, slackBlock{Type: "divider"})
		}
	}

	if rest := len(d.Jobs) - len(shown); rest > 0 {
		blocks = append(blocks, noteBlock(fmt.Sprintf("…and %d more in the email digest.", rest)))
	}

	return slackPayload{Text: d.Subject, Blocks: blocks}
}

func jobSection(n int, j model.Job) slackBlock {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%d. %s*\n%s", n, j.Title, j.Company)
	if j.Location != "" {
		sb.WriteString(" — " + j.Location)
	}
	if j.Via != "" {
		sb.WriteString("  _" + j.Via + "_")
	}
	return slackBlock{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: sb.String()},
	}
}

func noteBlock(text string) slackBlock {
	return slackBlock{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: "_" + text + "_"},
	}
}

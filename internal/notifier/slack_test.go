package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amishk599/jobdigest/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleJob(title, company string) model.Job {
	return model.Job{
		Title:     title,
		Company:   company,
		Location:  "Remote, US",
		Via:       "via LinkedIn",
		ApplyLink: "https://example.com/apply",
	}
}

func sampleDigest(jobs ...model.Job) model.Digest {
	return model.Digest{
		Subject: fmt.Sprintf("[Daily SDE Digest] %d roles — 2026-10-15 09:00 IST", len(jobs)),
		HTML:    "<html></html>",
		Jobs:    jobs,
	}
}

func captureServer(t *testing.T, status int) (*httptest.Server, *[]byte, *atomic.Int32) {
	t.Helper()
	var body []byte
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &body, &calls
}

func decodePayload(t *testing.T, body []byte) slackPayload {
	t.Helper()
	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return payload
}

func TestSlackNotifier_EmptyDigest(t *testing.T) {
	srv, body, calls := captureServer(t, http.StatusOK)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(context.Background(), sampleDigest()); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	payload := decodePayload(t, *body)
	if len(payload.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(payload.Blocks))
	}
	if !strings.Contains(payload.Blocks[1].Text.Text, "No fresh roles found today") {
		t.Errorf("empty note = %q", payload.Blocks[1].Text.Text)
	}
}

func TestSlackNotifier_SingleMessagePerDigest(t *testing.T) {
	srv, body, calls := captureServer(t, http.StatusOK)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	d := sampleDigest(sampleJob("Backend Engineer", "Stripe"), sampleJob("SWE", "Uber"))
	if err := n.Notify(context.Background(), d); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}

	payload := decodePayload(t, *body)
	if payload.Text != d.Subject {
		t.Errorf("fallback text = %q, want subject", payload.Text)
	}
	if payload.Blocks[0].Type != "header" || payload.Blocks[0].Text.Text != d.Subject {
		t.Errorf("header block = %+v", payload.Blocks[0])
	}
	if got := payload.Blocks[1].Text.Text; got != "*1. Backend Engineer*\nStripe — Remote, US  _via LinkedIn_" {
		t.Errorf("job section = %q", got)
	}
	action := payload.Blocks[2]
	if action.Type != "actions" || action.Elements[0].URL != "https://example.com/apply" {
		t.Errorf("action block = %+v", action)
	}
	if action.Elements[0].Style != "primary" {
		t.Errorf("button style = %q, want primary", action.Elements[0].Style)
	}
	if len(payload.Blocks) != 5 {
		t.Errorf("expected 5 blocks, got %d", len(payload.Blocks))
	}
}

func TestSlackNotifier_MissingLinkUsesDivider(t *testing.T) {
	srv, body, _ := captureServer(t, http.StatusOK)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	job := sampleJob("SRE", "Meta")
	job.ApplyLink = ""
	if err := n.Notify(context.Background(), sampleDigest(job)); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	payload := decodePayload(t, *body)
	if payload.Blocks[2].Type != "divider" {
		t.Errorf("block[2] type = %q, want divider", payload.Blocks[2].Type)
	}
}

func TestSlackNotifier_BlockLimit(t *testing.T) {
	srv, body, _ := captureServer(t, http.StatusOK)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	jobs := make([]model.Job, 30)
	for i := range jobs {
		jobs[i] = sampleJob(fmt.Sprintf("Engineer %d", i), "Acme")
	}
	if err := n.Notify(context.Background(), sampleDigest(jobs...)); err != nil {
		t.Fatalf("Notify() = %v", err)
	}

	payload := decodePayload(t, *body)
	if len(payload.Blocks) > maxSlackBlocks {
		t.Fatalf("blocks = %d, exceeds %d", len(payload.Blocks), maxSlackBlocks)
	}
	last := payload.Blocks[len(payload.Blocks)-1]
	if !strings.Contains(last.Text.Text, "and 6 more") {
		t.Errorf("overflow note = %q, want 6 more", last.Text.Text)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv, _, _ := captureServer(t, http.StatusInternalServerError)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(context.Background(), sampleDigest(sampleJob("A", "X"))); err == nil {
		t.Error("expected error on 500, got nil")
	}
}

func TestSlackNotifier_RateLimitedIsNotRetried(t *testing.T) {
	srv, _, calls := captureServer(t, http.StatusTooManyRequests)
	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())

	if err := n.Notify(context.Background(), sampleDigest(sampleJob("A", "X"))); err == nil {
		t.Error("expected error on 429, got nil")
	}
	if c := calls.Load(); c != 1 {
		t.Errorf("expected 1 HTTP call, got %d", c)
	}
}

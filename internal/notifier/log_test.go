package notifier

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/jobdigest/internal/model"
)

func TestLogNotifier_Notify_emptyDigest(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify(context.Background(), model.Digest{Subject: "[Daily SDE Digest] 0 roles"}); err != nil {
		t.Errorf("Notify() = %v, want nil", err)
	}
	if !strings.Contains(buf.String(), "jobs=0") {
		t.Errorf("log output missing job count:\n%s", buf.String())
	}
}

func TestLogNotifier_Notify_oneLinePerJob(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	d := model.Digest{
		Subject: "s",
		Jobs: []model.Job{
			{Company: "Stripe", Title: "Backend Engineer", ApplyLink: "https://example.com/1"},
			{Company: "Uber", Title: "SWE"},
		},
	}
	if err := n.Notify(context.Background(), d); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}
	if got := strings.Count(buf.String(), `msg="digest job"`); got != 2 {
		t.Errorf("job lines = %d, want 2:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "apply=https://example.com/1") {
		t.Errorf("missing apply link:\n%s", buf.String())
	}
}

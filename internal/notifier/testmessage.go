package notifier

import (
	"context"
	"time"

	"github.com/amishk599/jobdigest/internal/digest"
	"github.com/amishk599/jobdigest/internal/model"
)

// TestJob is the single row sent by SendTestMessage.
var TestJob = model.Job{
	Title:       "Test Notification: Integration Verified",
	Company:     "jobdigest",
	Location:    "Everywhere",
	Via:         "via jobdigest",
	Description: "If you can read this, delivery is configured correctly.",
	ApplyLink:   "https://serpapi.com/google-jobs-api",
	Outreach:    "No outreach needed.",
}

// SendTestMessage renders a one-row digest and delivers it through n.
func SendTestMessage(ctx context.Context, n model.Notifier) error {
	d, err := digest.Render([]model.Job{TestJob}, time.Now())
	if err != nil {
		return err
	}
	return n.Notify(ctx, d)
}

package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Pacer inserts a fixed politeness delay between successive calls to an
// external API. It does not react to server rate-limit signals.
type Pacer struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer returns a Pacer that pauses for delay on every Pause call.
// A zero or negative delay makes Pause return immediately.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay, sleep: sleepContext}
}

// Delay returns the configured pause length.
func (p *Pacer) Delay() time.Duration {
	return p.delay
}

// Pause blocks for the configured delay. Returns an error if ctx is
// cancelled first.
func (p *Pacer) Pause(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, p.delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("politeness pause: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

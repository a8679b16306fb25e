// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"
)

// Pacer enforces a minimum interval between successive calls. Probe loops
// inside a single provider are strictly sequential and self-throttle with
// a Pacer rather than sleeping inline, so tests can inject a fake sleep.
//
// The first Wait returns immediately; each subsequent Wait sleeps for the
// configured interval. The zero interval disables pacing.
type Pacer struct {
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	started  bool
}

// NewPacer returns a Pacer with the given minimum interval between calls.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval, sleep: sleepCtx}
}

// NewPacerWithSleep returns a Pacer that uses the supplied sleep function.
// Tests pass a no-op recorder to avoid wall-clock delays.
func NewPacerWithSleep(interval time.Duration, sleep func(ctx context.Context, d time.Duration) error) *Pacer {
	return &Pacer{interval: interval, sleep: sleep}
}

// Wait blocks until the minimum interval since the previous call has
// elapsed. It returns ctx.Err() if the context is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return nil
	}
	if p.interval <= 0 {
		return nil
	}
	return p.sleep(ctx, p.interval)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

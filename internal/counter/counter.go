// Package counter computes and publishes the elapsed sober time shown on the
// dashboard: a days/hours/minutes/seconds breakdown recomputed every second.
package counter

import (
	"context"
	"sync"
	"time"
)

// Elapsed is the broken-down duration since the sobriety start.
type Elapsed struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Since computes the elapsed breakdown between startedAt and now. A start in
// the future clamps to zero rather than counting down.
func Since(startedAt, now time.Time) Elapsed {
	ms := now.Sub(startedAt).Milliseconds()
	if ms < 0 {
		ms = 0
	}

	days := ms / (1000 * 60 * 60 * 24)
	ms -= days * (1000 * 60 * 60 * 24)
	hours := ms / (1000 * 60 * 60)
	ms -= hours * (1000 * 60 * 60)
	minutes := ms / (1000 * 60)
	ms -= minutes * (1000 * 60)
	seconds := ms / 1000

	return Elapsed{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: int(seconds),
	}
}

// TotalSeconds returns the elapsed time as a single number, for monotonicity
// comparisons.
func (e Elapsed) TotalSeconds() int64 {
	return int64(e.Days)*86400 + int64(e.Hours)*3600 + int64(e.Minutes)*60 + int64(e.Seconds)
}

// TickFunc receives each recomputed elapsed value.
type TickFunc func(Elapsed)

// ResetFunc moves the sobriety start to a new instant, typically by calling
// the period service or the API. It returns the new start.
type ResetFunc func(ctx context.Context) (time.Time, error)

// Counter publishes the elapsed time once a second and guards resets behind
// a two-step confirmation.
type Counter struct {
	mu           sync.Mutex
	startedAt    time.Time
	resetPending bool
	reset        ResetFunc
	onTick       TickFunc
}

// New creates a counter anchored at startedAt. The reset function may be nil
// if resets are driven elsewhere.
func New(startedAt time.Time, onTick TickFunc, reset ResetFunc) *Counter {
	return &Counter{startedAt: startedAt, onTick: onTick, reset: reset}
}

// StartedAt returns the current anchor.
func (c *Counter) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// SetStartedAt re-anchors the counter, e.g. after a server refresh.
func (c *Counter) SetStartedAt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedAt = t
}

// Elapsed returns the breakdown as of now.
func (c *Counter) Elapsed() Elapsed {
	return Since(c.StartedAt(), time.Now())
}

// Run publishes a tick immediately and then once per second until the
// context is canceled. Cancellation stops the loop without a final tick.
func (c *Counter) Run(ctx context.Context) {
	if c.onTick != nil {
		c.onTick(c.Elapsed())
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.onTick != nil {
				c.onTick(c.Elapsed())
			}
		}
	}
}

// RequestReset arms the confirmation step. Nothing changes until
// ConfirmReset.
func (c *Counter) RequestReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetPending = true
}

// ResetPending reports whether a reset awaits confirmation.
func (c *Counter) ResetPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetPending
}

// CancelReset disarms a pending reset, leaving the counter untouched.
func (c *Counter) CancelReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetPending = false
}

// ConfirmReset executes an armed reset through the ResetFunc and re-anchors
// the counter at the returned instant. Without a prior RequestReset it is a
// no-op, so a stray confirm can never wipe the streak.
func (c *Counter) ConfirmReset(ctx context.Context) error {
	c.mu.Lock()
	if !c.resetPending {
		c.mu.Unlock()
		return nil
	}
	reset := c.reset
	c.mu.Unlock()

	newStart := time.Now()
	if reset != nil {
		var err error
		newStart, err = reset(ctx)
		if err != nil {
			// The pending flag stays armed so the user can retry.
			return err
		}
	}

	c.mu.Lock()
	c.startedAt = newStart
	c.resetPending = false
	c.mu.Unlock()
	return nil
}

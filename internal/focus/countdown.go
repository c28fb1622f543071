package focus

import (
	"fmt"
	"time"
)

// DefaultDuration is the length of one focus session.
const DefaultDuration = 25 * time.Minute

// Countdown tracks the remaining time of a focus session in whole seconds.
type Countdown struct {
	total     time.Duration
	remaining time.Duration
}

// NewCountdown constructs a countdown. Non-positive durations fall back to DefaultDuration.
func NewCountdown(d time.Duration) Countdown {
	if d <= 0 {
		d = DefaultDuration
	}
	d = d.Truncate(time.Second)
	if d == 0 {
		d = time.Second
	}
	return Countdown{total: d, remaining: d}
}

// Tick removes one second and reports whether the countdown just reached zero.
func (c *Countdown) Tick() bool {
	if c.remaining <= 0 {
		return false
	}
	c.remaining -= time.Second
	return c.remaining <= 0
}

// Done reports whether no time remains.
func (c Countdown) Done() bool {
	return c.remaining <= 0
}

// Remaining returns the time left.
func (c Countdown) Remaining() time.Duration {
	return c.remaining
}

// Total returns the configured session length.
func (c Countdown) Total() time.Duration {
	return c.total
}

// Reset restarts the countdown from its total.
func (c *Countdown) Reset() {
	c.remaining = c.total
}

// Format renders the remaining time as m:ss.
func (c Countdown) Format() string {
	return FormatRemaining(c.remaining)
}

// FormatRemaining renders d as m:ss, clamping negative values to zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

package core

import "time"

// Timer is a delta-driven countdown. It does not read the wall clock itself:
// callers feed it elapsed time through Update, which keeps simulation code
// testable and frame-rate independent.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
}

// NewTimer creates a timer that becomes ready after d.
func NewTimer(d time.Duration) Timer {
	return Timer{duration: d}
}

// NewReadyTimer creates a timer that is already expired.
func NewReadyTimer(d time.Duration) Timer {
	return Timer{duration: d, elapsed: d}
}

// Update advances the timer by delta. Elapsed time saturates at the duration.
func (t *Timer) Update(delta time.Duration) {
	t.elapsed += delta
	if t.elapsed > t.duration {
		t.elapsed = t.duration
	}
}

// Ready reports whether the timer has expired.
func (t *Timer) Ready() bool {
	return t.elapsed >= t.duration
}

// Reset restarts the countdown.
func (t *Timer) Reset() {
	t.elapsed = 0
}

// SetDuration changes the period without touching elapsed time.
func (t *Timer) SetDuration(d time.Duration) {
	t.duration = d
	if t.elapsed > d {
		t.elapsed = d
	}
}

// Duration returns the timer period.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Progress returns elapsed/duration in [0, 1].
func (t *Timer) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}

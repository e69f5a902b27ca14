package services

import (
	"time"

	"golang.org/x/time/rate"
)

// ProgressInterval is the default spacing of throttled progress logs.
const ProgressInterval = 250 * time.Millisecond

// throttle limits how often high-frequency progress events are logged.
// It uses a token bucket so the first event and occasional bursts pass.
type throttle struct {
	limiter *rate.Limiter
}

// newThrottle allows one event per interval with a burst of burst events.
func newThrottle(interval time.Duration, burst int) *throttle {
	return &throttle{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// Allow reports whether an event may be emitted now.
func (t *throttle) Allow() bool {
	return t.limiter.Allow()
}

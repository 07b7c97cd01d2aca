// Package sunsync keeps the configured sunrise and sunset in step with the weather
// provider, once per calendar day.
package sunsync

import (
	"time"

	"github.com/julianstephens/envsync/internal/constants"
)

// Retry is a scheduled retry: an attempt counter, the next fire time and an
// exponentially growing delay. It is advanced by the caller's loop.
type Retry struct {
	Attempt     int
	NextAt      time.Time
	Delay       time.Duration
	Backoff     int
	MaxAttempts int
}

// NewRetry returns a task whose first attempt is due at now.
func NewRetry(now time.Time) *Retry {
	return &Retry{
		NextAt:      now,
		Delay:       constants.SunSyncInitialDelay,
		Backoff:     constants.SunSyncBackoff,
		MaxAttempts: constants.SunSyncMaxAttempts,
	}
}

// Due reports whether another attempt may run at now.
func (r *Retry) Due(now time.Time) bool {
	return !r.Exhausted() && !now.Before(r.NextAt)
}

// Fail records a failed attempt and schedules the next one.
func (r *Retry) Fail(now time.Time) {
	r.Attempt++
	r.NextAt = now.Add(r.Delay)
	r.Delay *= time.Duration(r.Backoff)
}

// Exhausted reports whether every attempt has been used.
func (r *Retry) Exhausted() bool {
	return r.Attempt >= r.MaxAttempts
}

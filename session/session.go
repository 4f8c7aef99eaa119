// Package session holds the per-process session identifier and computes
// engagement time between successive tracked events.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker owns the session id (constant for its lifetime, never persisted)
// and a moving engagement baseline. Consecutive events report the gap since
// the prior event, not total session age.
type Tracker struct {
	id  string
	now func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New creates a Tracker with a fresh session id. now is injectable for
// tests; pass nil for time.Now.
func New(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		id:   uuid.NewString(),
		now:  now,
		last: now(),
	}
}

// ID returns the session identifier.
func (t *Tracker) ID() string { return t.id }

// ConsumeEngagementTime returns the elapsed time since the previous call
// (or since tracker creation for the first call) and resets the baseline.
// Call exactly once per outgoing event, in send order; the read-modify-write
// is serialized so concurrent callers never double-count or skip a gap.
func (t *Tracker) ConsumeEngagementTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	elapsed := now.Sub(t.last)
	if elapsed < 0 {
		elapsed = 0
	}
	t.last = now
	return elapsed
}

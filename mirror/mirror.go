// Package mirror forwards tracked events best-effort to a UI-hosted
// tracking surface for dual-delivery and visual debugging.
package mirror

import (
	"log"
	"sync"

	"telemetry/models"
)

// Call carries the semantic arguments of the originating tracking call. Only
// the fields relevant to Kind are populated.
type Call struct {
	Kind        models.Kind
	Category    string
	Action      string
	Label       string
	Value       *int64
	Description string
	Fatal       bool
	Path        string
	Title       string
}

// Surface is a UI-hosted tracking target, registered by the host
// application when a window gains focus. A surface whose backing window has
// been torn down reports Alive() == false and is not called.
type Surface interface {
	Alive() bool
	Track(call Call) error
}

// Channel forwards calls to the currently registered surface. Forwarding is
// one-way and fire-and-forget: a failure here never reaches the caller.
type Channel struct {
	debug bool

	mu      sync.RWMutex
	surface Surface
}

// NewChannel creates a Channel. debug enables trace logging of discarded
// forwarding failures.
func NewChannel(debug bool) *Channel {
	return &Channel{debug: debug}
}

// SetSurface registers the focused surface. Pass nil to clear.
func (c *Channel) SetSurface(s Surface) {
	c.mu.Lock()
	c.surface = s
	c.mu.Unlock()
}

// Forward delivers the call to the registered surface. Never returns or
// raises an error: a missing surface, dead surface, Track error, or panic is
// absorbed.
func (c *Channel) Forward(call Call) {
	defer func() {
		if r := recover(); r != nil && c.debug {
			log.Printf("mirror: surface panicked: %v", r)
		}
	}()

	c.mu.RLock()
	s := c.surface
	c.mu.RUnlock()

	if s == nil || !s.Alive() {
		return
	}
	if err := s.Track(call); err != nil && c.debug {
		log.Printf("mirror: forward %s: %v", call.Kind, err)
	}
}

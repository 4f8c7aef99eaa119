package mirror

import (
	"errors"
	"testing"

	"telemetry/models"
)

type stubSurface struct {
	alive bool
	err   error
	panic bool
	calls []Call
}

func (s *stubSurface) Alive() bool { return s.alive }

func (s *stubSurface) Track(call Call) error {
	if s.panic {
		panic("surface gone")
	}
	s.calls = append(s.calls, call)
	return s.err
}

func TestForwardNoSurface(t *testing.T) {
	c := NewChannel(false)
	// Must not panic or block with nothing registered.
	c.Forward(Call{Kind: models.KindEvent, Category: "UI", Action: "Click"})
}

func TestForwardToLiveSurface(t *testing.T) {
	s := &stubSurface{alive: true}
	c := NewChannel(false)
	c.SetSurface(s)

	call := Call{Kind: models.KindPageView, Path: "/docs", Title: "Docs"}
	c.Forward(call)

	if len(s.calls) != 1 {
		t.Fatalf("surface saw %d calls, want 1", len(s.calls))
	}
	if s.calls[0] != call {
		t.Errorf("forwarded call = %+v, want %+v", s.calls[0], call)
	}
}

func TestForwardSkipsDeadSurface(t *testing.T) {
	s := &stubSurface{alive: false}
	c := NewChannel(false)
	c.SetSurface(s)

	c.Forward(Call{Kind: models.KindEvent})
	if len(s.calls) != 0 {
		t.Errorf("dead surface saw %d calls, want 0", len(s.calls))
	}
}

func TestForwardSwallowsErrors(t *testing.T) {
	s := &stubSurface{alive: true, err: errors.New("ipc closed")}
	c := NewChannel(true)
	c.SetSurface(s)

	c.Forward(Call{Kind: models.KindException, Description: "boom"})
	if len(s.calls) != 1 {
		t.Errorf("erroring surface saw %d calls, want 1", len(s.calls))
	}
}

func TestForwardSwallowsPanics(t *testing.T) {
	s := &stubSurface{alive: true, panic: true}
	c := NewChannel(false)
	c.SetSurface(s)

	c.Forward(Call{Kind: models.KindEvent})
	// Reaching here without a panic is the assertion.
}

func TestClearSurface(t *testing.T) {
	s := &stubSurface{alive: true}
	c := NewChannel(false)
	c.SetSurface(s)
	c.SetSurface(nil)

	c.Forward(Call{Kind: models.KindEvent})
	if len(s.calls) != 0 {
		t.Errorf("cleared surface saw %d calls, want 0", len(s.calls))
	}
}

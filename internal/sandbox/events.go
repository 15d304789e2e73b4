package sandbox

import (
	"fmt"

	"github.com/minekent/skillsengine/internal/host"
)

// Event is one recorded effect.
type Event struct {
	Op     string
	Target string
	Detail string
}

func (e Event) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Target, e.Detail)
}

func (w *World) record(op, target, format string, args ...any) {
	w.events = append(w.events, Event{Op: op, Target: target, Detail: fmt.Sprintf(format, args...)})
}

// Events returns every effect recorded since the last Drain.
func (w *World) Events() []Event {
	out := make([]Event, len(w.events))
	copy(out, w.events)
	return out
}

// Drain returns the recorded effects and forgets them.
func (w *World) Drain() []Event {
	out := w.events
	w.events = nil
	return out
}

func formatLocation(l host.Location) string {
	return fmt.Sprintf("%s(%.1f, %.1f, %.1f)", l.World, l.X, l.Y, l.Z)
}

// Package antispam throttles how fast a console session may issue commands.
package antispam

import (
	"sync"
	"time"
)

// Config holds command flood settings.
type Config struct {
	Enabled     bool          // Whether throttling is enabled
	MaxCommands int           // Max commands allowed in the time window
	TimeWindow  time.Duration // Sliding window the limit applies to
}

// DefaultConfig returns sensible defaults for an operator console.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxCommands: 20,
		TimeWindow:  10 * time.Second,
	}
}

// ConfigFromYAML creates a Config from YAML-loaded values.
// Non-positive values keep the defaults.
func ConfigFromYAML(enabled bool, maxCommands, timeWindowSeconds int) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if maxCommands > 0 {
		cfg.MaxCommands = maxCommands
	}
	if timeWindowSeconds > 0 {
		cfg.TimeWindow = time.Duration(timeWindowSeconds) * time.Second
	}
	return cfg
}

// Tracker tracks the command rate of one session.
// A nil Tracker allows everything.
type Tracker struct {
	mu       sync.Mutex
	config   Config
	now      func() time.Time
	commands []time.Time // accepted commands inside the window, oldest first
}

// NewTracker creates a tracker with the given config.
func NewTracker(config Config) *Tracker {
	return newTracker(config, time.Now)
}

func newTracker(config Config, now func() time.Time) *Tracker {
	return &Tracker{
		config:   config,
		now:      now,
		commands: make([]time.Time, 0, max(config.MaxCommands, 0)),
	}
}

// CheckResult contains the result of a flood check.
type CheckResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int // How long to wait before trying again (if not allowed)
}

// Check records a command and reports whether it may run.
// Refused commands do not count against the window.
func (t *Tracker) Check() CheckResult {
	if t == nil || !t.config.Enabled {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.expire(now)

	if len(t.commands) >= t.config.MaxCommands {
		waitUntil := t.commands[0].Add(t.config.TimeWindow)
		return CheckResult{
			Allowed:     false,
			Reason:      "You're sending commands too quickly.",
			WaitSeconds: int(waitUntil.Sub(now).Seconds()) + 1,
		}
	}

	t.commands = append(t.commands, now)
	return CheckResult{Allowed: true}
}

// expire drops commands that left the window.
func (t *Tracker) expire(now time.Time) {
	cutoff := now.Add(-t.config.TimeWindow)
	kept := t.commands[:0]
	for _, at := range t.commands {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	t.commands = kept
}

// Reset clears all tracking data.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands = t.commands[:0]
}

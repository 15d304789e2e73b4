// Package playerdata keeps per-player runtime state for the skill engine.
// Nothing here is persisted; it resets when the process restarts.
package playerdata

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minekent/skillsengine/internal/skill"
)

// SkillData holds one player's cooldown expiries, keyed by lowercase skill id.
type SkillData struct {
	mu            sync.Mutex
	cooldownUntil map[string]time.Time
}

func newSkillData() *SkillData {
	return &SkillData{cooldownUntil: make(map[string]time.Time)}
}

// CooldownUntil returns the expiry for a skill. The zero time means no cooldown was ever committed.
func (d *SkillData) CooldownUntil(skillID string) time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cooldownUntil[skill.Key(skillID)]
}

// SetCooldownUntil records the expiry for a skill.
func (d *SkillData) SetCooldownUntil(skillID string, until time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cooldownUntil[skill.Key(skillID)] = until
}

// Remaining returns how long the skill stays on cooldown at now, or zero if it is ready.
func (d *SkillData) Remaining(skillID string, now time.Time) time.Duration {
	until := d.CooldownUntil(skillID)
	if !until.After(now) {
		return 0
	}
	return until.Sub(now)
}

// Cooldowns returns a copy of every recorded expiry, including lapsed ones.
func (d *SkillData) Cooldowns() map[string]time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]time.Time, len(d.cooldownUntil))
	for k, v := range d.cooldownUntil {
		out[k] = v
	}
	return out
}

// Store maps player ids to their SkillData. Entries are created on first access
// and are never evicted.
type Store struct {
	mu   sync.Mutex
	data map[uuid.UUID]*SkillData
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[uuid.UUID]*SkillData)}
}

// Get returns the data for a player, creating it if needed.
func (s *Store) Get(playerID uuid.UUID) *SkillData {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.data[playerID]
	if !ok {
		d = newSkillData()
		s.data[playerID] = d
	}
	return d
}

// Len returns the number of players with data.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

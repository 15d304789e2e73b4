// Package skill holds the immutable skill model produced by the content loader.
package skill

import (
	"math"
	"strings"
	"time"
)

// TriggerSpec describes what starts a cast.
type TriggerSpec struct {
	Kind   TriggerKind
	Params Params
}

// Command returns the lowercased command text of a COMMAND trigger, without a leading slash.
func (t TriggerSpec) Command() string {
	cmd := strings.ToLower(strings.TrimSpace(t.Params.String("command", "")))
	return strings.TrimPrefix(cmd, "/")
}

// Material returns the optional item filter of a click trigger.
func (t TriggerSpec) Material() string {
	return strings.TrimSpace(t.Params.String("material", ""))
}

// TargetSpec describes how targets are resolved.
type TargetSpec struct {
	Kind   TargetKind
	Params Params
}

// ConditionSpec is one guard predicate.
type ConditionSpec struct {
	Kind   ConditionKind
	Params Params
}

// ActionSpec is one effect step.
type ActionSpec struct {
	Kind   ActionKind
	Params Params
}

// Skill is one ability definition. Skills are never mutated after loading;
// a reload replaces them wholesale.
type Skill struct {
	ID       string
	Name     string
	Category string

	Trigger    TriggerSpec
	Target     TargetSpec
	Conditions []ConditionSpec
	Actions    []ActionSpec

	// CooldownMillis is the recast delay. Zero or negative disables the cooldown.
	CooldownMillis int64
	Cost           Params
	DenyMessage    string
}

// Key returns the case-insensitive lookup key of the skill.
func (s *Skill) Key() string {
	return Key(s.ID)
}

// Cooldown returns the cooldown as a duration, capped at the longest
// representable time.Duration.
func (s *Skill) Cooldown() time.Duration {
	if s.CooldownMillis > int64(math.MaxInt64/time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(s.CooldownMillis) * time.Millisecond
}

// Key normalizes a skill id for lookups.
func Key(id string) string {
	return strings.ToLower(id)
}

package engine

import (
	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
)

// CastRequest carries what the triggering event already knows.
type CastRequest struct {
	// Target is preferred over a line-of-sight lookup by TARGET skills.
	Target host.Entity
	// Location seeds the cast's target location.
	Location *host.Location
	// Triggering is the entity that caused the event (the hit or damaging entity).
	Triggering host.Entity
	// Source names what started the cast, for the journal ("command", "console", a trigger kind).
	Source string
}

// CastContext is the mutable state of one cast while targets are resolved and actions run.
type CastContext struct {
	Skill  *skill.Skill
	Caster host.Player

	Target         host.Entity
	TargetLocation *host.Location
	Targets        []host.Entity
	Triggering     host.Entity
}

func newCastContext(s *skill.Skill, caster host.Player, req *CastRequest) *CastContext {
	ctx := &CastContext{Skill: s, Caster: caster}
	if req != nil {
		ctx.Target = req.Target
		ctx.TargetLocation = req.Location
		ctx.Triggering = req.Triggering
	}
	return ctx
}

func (c *CastContext) setTargetLocation(loc host.Location) {
	c.TargetLocation = &loc
}

package engine

import (
	"math"
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
)

const (
	defaultTargetRange = 4.5
	defaultAreaRadius  = 3.0
)

// TargetResolver fills a CastContext with the entities actions apply to.
type TargetResolver struct {
	world host.World
}

// NewTargetResolver creates a resolver that queries world.
func NewTargetResolver(world host.World) *TargetResolver {
	return &TargetResolver{world: world}
}

// Resolve sets the target entity, target location and target list of ctx.
//
//	SELF    the caster
//	TARGET  the pre-supplied target, else the living entity in line of sight within range
//	AREA    every living entity in the cube of half-size radius around the caster or
//	        the pre-supplied target; an empty list is valid
func (r *TargetResolver) Resolve(ctx *CastContext) Result {
	spec := ctx.Skill.Target
	caster := ctx.Caster

	switch spec.Kind {
	case skill.TargetSelf:
		ctx.Target = caster
		ctx.setTargetLocation(caster.Location())
		ctx.Targets = []host.Entity{caster}
		return Success()

	case skill.TargetSingle:
		if ctx.Target != nil {
			ctx.setTargetLocation(ctx.Target.Location())
			ctx.Targets = []host.Entity{ctx.Target}
			return Success()
		}

		rng := positiveOr(spec.Params.Float("range", defaultTargetRange), defaultTargetRange)
		e, ok := r.world.LineOfSightTarget(caster, int(math.Ceil(rng)))
		if !ok || e == nil || !e.Living() {
			return Fail(ReasonNoTarget)
		}
		ctx.Target = e
		ctx.setTargetLocation(e.Location())
		ctx.Targets = []host.Entity{e}
		return Success()

	case skill.TargetArea:
		radius := positiveOr(spec.Params.Float("radius", defaultAreaRadius), defaultAreaRadius)
		base := caster.Location()
		if strings.EqualFold(spec.Params.String("center", "CASTER"), "TARGET") && ctx.Target != nil {
			base = ctx.Target.Location()
		}

		targets := []host.Entity{}
		for _, e := range r.world.NearbyEntities(base, radius, radius, radius) {
			if e.Living() {
				targets = append(targets, e)
			}
		}
		ctx.setTargetLocation(base)
		ctx.Targets = targets
		return Success()

	default:
		return Fail(ReasonUnknownTarget)
	}
}

func positiveOr(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// Package trigger turns game events into skill casts using the trigger index
// of the published catalog.
package trigger

import (
	"strings"

	"github.com/minekent/skillsengine/internal/engine"
	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/skill"
)

// Caster runs a cast. *engine.Service implements it.
type Caster interface {
	Cast(caster host.Player, skillID string, req *engine.CastRequest) engine.Result
}

// Cast is the outcome of one skill started by an event.
type Cast struct {
	SkillID string
	Result  engine.Result
}

// Dispatcher matches events against the trigger index and casts every matching skill.
type Dispatcher struct {
	catalog *registry.Catalog
	caster  Caster
	vocab   host.Vocabulary
}

// NewDispatcher creates a dispatcher. vocab resolves click-trigger material filters;
// a nil vocab compares names case-insensitively.
func NewDispatcher(catalog *registry.Catalog, caster Caster, vocab host.Vocabulary) *Dispatcher {
	return &Dispatcher{catalog: catalog, caster: caster, vocab: vocab}
}

func (d *Dispatcher) index() *registry.TriggerIndex {
	return d.catalog.Current().Index
}

// OnCommand handles a chat command such as "/fireball now". The first word,
// without its slash and lowercased, selects the skills. consumed reports
// whether any skill claimed the command, in which case the host should not
// run it itself.
func (d *Dispatcher) OnCommand(p host.Player, message string) (casts []Cast, consumed bool) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(message), "/"))
	if len(fields) == 0 {
		return nil, false
	}
	base := strings.ToLower(fields[0])

	skills := d.index().ForCommand(base)
	if len(skills) == 0 {
		return nil, false
	}

	loc := p.Location()
	for _, s := range skills {
		casts = append(casts, d.cast(p, s, &engine.CastRequest{
			Location: &loc,
			Source:   string(skill.TriggerCommand),
		}))
	}
	return casts, true
}

// OnInteract handles a left or right click. Skills with a trigger material
// only fire while that item is in the main hand.
func (d *Dispatcher) OnInteract(p host.Player, right bool) []Cast {
	kind := skill.TriggerLeftClick
	if right {
		kind = skill.TriggerRightClick
	}

	skills := d.index().ForKind(kind)
	logger.Debug("Dispatching click", "player", p.Name(), "trigger", kind, "skills", len(skills))

	held := p.Inventory().MainHand()
	var casts []Cast
	for _, s := range skills {
		if raw := s.Trigger.Material(); raw != "" && !d.holding(held, raw) {
			continue
		}
		loc := p.Location()
		casts = append(casts, d.cast(p, s, &engine.CastRequest{
			Location: &loc,
			Source:   string(kind),
		}))
	}
	return casts
}

// OnHit handles attacker hitting victim. A living victim becomes the initial target.
func (d *Dispatcher) OnHit(attacker host.Player, victim host.Entity) []Cast {
	req := &engine.CastRequest{Triggering: victim, Source: string(skill.TriggerOnHit)}
	if victim != nil && victim.Living() {
		req.Target = victim
	}

	var casts []Cast
	for _, s := range d.index().ForKind(skill.TriggerOnHit) {
		casts = append(casts, d.cast(attacker, s, req))
	}
	return casts
}

// OnDamage handles victim taking damage. damager may be nil for environmental
// damage; a living damager becomes both the initial target and the triggering entity.
func (d *Dispatcher) OnDamage(victim host.Player, damager host.Entity) []Cast {
	req := &engine.CastRequest{Source: string(skill.TriggerOnDamage)}
	if damager != nil && damager.Living() {
		req.Target = damager
		req.Triggering = damager
	}

	var casts []Cast
	for _, s := range d.index().ForKind(skill.TriggerOnDamage) {
		casts = append(casts, d.cast(victim, s, req))
	}
	return casts
}

func (d *Dispatcher) cast(p host.Player, s *skill.Skill, req *engine.CastRequest) Cast {
	res := d.caster.Cast(p, s.ID, req)
	logger.Debug("Triggered cast", "player", p.Name(), "skill", s.ID, "source", req.Source, "result", res.String())
	return Cast{SkillID: s.ID, Result: res}
}

// holding reports whether the main-hand stack is the named item. Names the
// vocabulary does not know never match.
func (d *Dispatcher) holding(held host.ItemStack, name string) bool {
	want := strings.ToUpper(name)
	if d.vocab != nil {
		var ok bool
		if want, ok = d.vocab.MatchItem(name); !ok {
			return false
		}
	}
	return held.Amount > 0 && strings.EqualFold(held.Item, want)
}

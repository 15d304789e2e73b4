package content

import (
	"fmt"
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
)

// ValidationResult lists the problems found in one skill.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the skill may be loaded. Warnings never block loading.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

type validation struct {
	ValidationResult
	vocab host.Vocabulary
}

func (v *validation) errorf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *validation) warnf(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v *validation) itemOK(name string) bool {
	if v.vocab == nil {
		return true
	}
	_, ok := v.vocab.MatchItem(name)
	return ok
}

func (v *validation) known(check func(host.Vocabulary, string) bool, name string) bool {
	return v.vocab == nil || check(v.vocab, name)
}

// Validate checks a skill without touching anything else. Names of items,
// statuses, particles, sounds and entity types are resolved against vocab;
// a nil vocab accepts every name.
func Validate(s *skill.Skill, vocab host.Vocabulary) ValidationResult {
	v := &validation{vocab: vocab}

	if strings.TrimSpace(s.ID) == "" {
		v.errorf("id: missing")
	}

	v.validateTrigger(s.Trigger)
	v.validateTarget(s.Target)

	for i, c := range s.Conditions {
		v.validateCondition(i, c)
	}
	for i, a := range s.Actions {
		v.validateAction(i, a)
	}

	if mat := strings.TrimSpace(s.Cost.String("material", "")); mat != "" && !v.itemOK(mat) {
		v.errorf("cost.material: bad_material=%s", mat)
	}

	if s.CooldownMillis < 0 {
		v.warnf("cooldown: negative")
	}

	return v.ValidationResult
}

func (v *validation) validateTrigger(t skill.TriggerSpec) {
	switch {
	case t.Kind == "":
		v.errorf("trigger.type: missing")
	case !t.Kind.Known():
		v.errorf("trigger.type: unknown=%s", t.Kind)
	case t.Kind == skill.TriggerCommand:
		if t.Command() == "" {
			v.errorf("trigger.command: missing")
		}
	case t.Kind.IsClick():
		if mat := t.Material(); mat != "" && !v.itemOK(mat) {
			v.errorf("trigger.material: bad_material=%s", mat)
		}
	}
}

func (v *validation) validateTarget(t skill.TargetSpec) {
	switch {
	case t.Kind == "":
		v.errorf("target.type: missing")
	case !t.Kind.Known():
		v.errorf("target.type: unknown=%s", t.Kind)
	case t.Kind == skill.TargetSingle:
		if t.Params.Float("range", -1) <= 0 {
			v.warnf("target.range: not set or <=0 (default will be used)")
		}
	case t.Kind == skill.TargetArea:
		if t.Params.Float("radius", -1) <= 0 {
			v.warnf("target.radius: not set or <=0 (default will be used)")
		}
	}
}

func (v *validation) validateCondition(i int, c skill.ConditionSpec) {
	p := c.Params
	switch c.Kind {
	case "":
		v.warnf("conditions[%d].type: blank", i)
	case skill.ConditionCooldownReady:
		v.warnf("conditions[%d]: COOLDOWN_READY is deprecated (cooldown is checked automatically)", i)
	case skill.ConditionHasPermission:
		if strings.TrimSpace(p.String("permission", "")) == "" {
			v.errorf("conditions[%d].permission: missing", i)
		}
	case skill.ConditionLevelAtLeast:
		if p.Int("min", p.Int("level", -1)) < 0 {
			v.errorf("conditions[%d].min: missing", i)
		}
	case skill.ConditionHasItem:
		mat := strings.TrimSpace(p.String("material", ""))
		if mat == "" {
			v.errorf("conditions[%d].material: missing", i)
		} else if !v.itemOK(mat) {
			v.errorf("conditions[%d].material: bad_material=%s", i, mat)
		}
	case skill.ConditionWorldAllowed:
		// allowed/denied lists are optional
	default:
		v.errorf("conditions[%d].type: unknown=%s", i, c.Kind)
	}
}

func (v *validation) validateAction(i int, a skill.ActionSpec) {
	p := a.Params
	switch a.Kind {
	case "":
		v.warnf("actions[%d].type: blank", i)

	case skill.ActionPotion:
		effect := strings.TrimSpace(p.String("effect", ""))
		if effect == "" {
			v.errorf("actions[%d].effect: missing", i)
		} else if !v.known(host.Vocabulary.HasStatus, effect) {
			v.errorf("actions[%d].effect: bad_effect=%s", i, effect)
		}

	case skill.ActionParticles:
		if particle := strings.TrimSpace(p.String("particle", "")); particle != "" && !v.known(host.Vocabulary.HasParticle, particle) {
			v.errorf("actions[%d].particle: bad_particle=%s", i, particle)
		}

	case skill.ActionSound:
		if sound := strings.TrimSpace(p.String("sound", "")); sound != "" && !v.known(host.Vocabulary.HasSound, sound) {
			v.errorf("actions[%d].sound: bad_sound=%s", i, sound)
		}
		if cat := strings.TrimSpace(p.String("category", "")); cat != "" && !v.known(host.Vocabulary.HasSoundCategory, cat) {
			v.errorf("actions[%d].category: bad_category=%s", i, cat)
		}

	case skill.ActionCommand:
		if strings.TrimSpace(p.String("command", "")) == "" {
			v.errorf("actions[%d].command: missing", i)
		}

	case skill.ActionTeleport:
		if strings.TrimSpace(p.String("to", "CENTER")) == "" {
			v.warnf("actions[%d].to: blank", i)
		}

	case skill.ActionGiveItem, skill.ActionTakeItem:
		mat := strings.TrimSpace(p.String("material", ""))
		if mat == "" {
			v.errorf("actions[%d].material: missing", i)
		} else if !v.itemOK(mat) {
			v.errorf("actions[%d].material: bad_material=%s", i, mat)
		}

	case skill.ActionSpawnEntity:
		ent := strings.TrimSpace(p.String("entity", ""))
		if ent == "" {
			v.errorf("actions[%d].entity: missing", i)
		} else if !v.known(host.Vocabulary.HasEntityType, ent) {
			v.errorf("actions[%d].entity: bad_entity=%s", i, ent)
		}

	case skill.ActionDamage, skill.ActionHeal, skill.ActionDash,
		skill.ActionMessage, skill.ActionActionBar, skill.ActionTitle,
		skill.ActionKnockback, skill.ActionPull, skill.ActionSetFire, skill.ActionExplosion:
		// every parameter is optional

	default:
		v.errorf("actions[%d].type: unknown=%s", i, a.Kind)
	}
}

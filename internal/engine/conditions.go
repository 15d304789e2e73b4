package engine

import (
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
)

// LevelProvider reports the level LEVEL_AT_LEAST compares against.
type LevelProvider interface {
	Level(p host.Player) int
}

// LevelProviderFunc adapts a function to LevelProvider.
type LevelProviderFunc func(p host.Player) int

func (f LevelProviderFunc) Level(p host.Player) int { return f(p) }

// ExperienceLevel uses the player's experience level.
var ExperienceLevel = LevelProviderFunc(func(p host.Player) int { return p.Level() })

// ConditionEvaluator checks a skill's guard predicates.
type ConditionEvaluator struct {
	vocab  host.Vocabulary
	levels LevelProvider
}

// NewConditionEvaluator creates an evaluator. A nil levels uses ExperienceLevel.
func NewConditionEvaluator(vocab host.Vocabulary, levels LevelProvider) *ConditionEvaluator {
	if levels == nil {
		levels = ExperienceLevel
	}
	return &ConditionEvaluator{vocab: vocab, levels: levels}
}

// CheckAll evaluates the conditions in order and returns the first failure.
func (e *ConditionEvaluator) CheckAll(caster host.Player, s *skill.Skill) Result {
	for _, c := range s.Conditions {
		var res Result
		switch c.Kind {
		case "", skill.ConditionCooldownReady:
			continue
		case skill.ConditionHasPermission:
			res = e.checkPermission(caster, c.Params)
		case skill.ConditionLevelAtLeast:
			res = e.checkLevel(caster, c.Params)
		case skill.ConditionHasItem:
			res = e.checkHasItem(caster, c.Params)
		case skill.ConditionWorldAllowed:
			res = e.checkWorld(caster, c.Params)
		default:
			res = FailDetail(ReasonUnknownCondition, string(c.Kind))
		}
		if !res.OK {
			return res
		}
	}
	return Success()
}

func (e *ConditionEvaluator) checkPermission(caster host.Player, p skill.Params) Result {
	perm := strings.TrimSpace(p.String("permission", ""))
	if perm == "" {
		return Success()
	}
	if !caster.HasPermission(perm) {
		return Fail(ReasonNoPermission)
	}
	return Success()
}

func (e *ConditionEvaluator) checkLevel(caster host.Player, p skill.Params) Result {
	threshold := p.Int("min", p.Int("level", 0))
	lvl := e.levels.Level(caster)
	if lvl < threshold {
		return LowLevel(lvl, threshold)
	}
	return Success()
}

func (e *ConditionEvaluator) checkHasItem(caster host.Player, p skill.Params) Result {
	raw := strings.TrimSpace(p.String("material", ""))
	if raw == "" {
		return FailDetail(reasonHasItem, "material_missing")
	}
	item, ok := matchItem(e.vocab, raw)
	if !ok {
		return FailDetail(reasonHasItem, "bad_material:"+raw)
	}

	amount := max(1, p.Int("amount", 1))
	inv := caster.Inventory()

	switch strings.ToUpper(p.String("where", "INVENTORY")) {
	case "HAND", "MAIN_HAND":
		held := inv.MainHand()
		if !strings.EqualFold(held.Item, item) || held.Amount < amount {
			return Fail(ReasonMissingItem)
		}
	default:
		if inv.Count(item) < amount {
			return Fail(ReasonMissingItem)
		}
	}
	return Success()
}

func (e *ConditionEvaluator) checkWorld(caster host.Player, p skill.Params) Result {
	world := caster.Location().World

	if allowed, _ := p.Strings("allowed"); len(allowed) > 0 && !containsFold(allowed, world) {
		return Fail(ReasonWorldNotAllowed)
	}
	if denied, _ := p.Strings("denied"); len(denied) > 0 && containsFold(denied, world) {
		return Fail(ReasonWorldDenied)
	}
	return Success()
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// matchItem resolves an item name through the vocabulary. Without one, names
// are upper-cased and trusted.
func matchItem(vocab host.Vocabulary, name string) (string, bool) {
	if vocab == nil {
		n := strings.ToUpper(strings.TrimSpace(name))
		return n, n != ""
	}
	return vocab.MatchItem(name)
}

package engine

import (
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
)

// CostApplier checks and deducts a skill's resource cost.
type CostApplier struct {
	vocab host.Vocabulary
}

// NewCostApplier creates a cost applier.
func NewCostApplier(vocab host.Vocabulary) *CostApplier {
	return &CostApplier{vocab: vocab}
}

// Apply checks every sub-cost first and deducts only when all of them can be
// paid; a failed check leaves the player untouched. An empty cost always succeeds.
//
// Supported keys: xpLevels, and material with amount.
func (c *CostApplier) Apply(caster host.Player, cost skill.Params) Result {
	if len(cost) == 0 {
		return Success()
	}

	xpLevels := cost.Int("xpLevels", 0)
	if xpLevels > 0 && caster.Level() < xpLevels {
		return Fail(ReasonCostXPLevels)
	}

	var item string
	amount := max(0, cost.Int("amount", 0))
	if raw := strings.TrimSpace(cost.String("material", "")); raw != "" {
		// An unknown material imposes no cost; validation reports it at load time.
		item, _ = matchItem(c.vocab, raw)
	}
	payItem := item != "" && amount > 0
	if payItem && caster.Inventory().Count(item) < amount {
		return Fail(ReasonCostItem)
	}

	if xpLevels > 0 {
		caster.SetLevel(caster.Level() - xpLevels)
	}
	if payItem {
		caster.Inventory().Remove(item, amount)
	}

	return Success()
}

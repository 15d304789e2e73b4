package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
	"github.com/minekent/skillsengine/internal/vocab"
)

func TestConditionEvaluator(t *testing.T) {
	tests := []struct {
		name       string
		conditions []skill.ConditionSpec
		want       string
	}{
		{"no conditions", nil, "OK"},
		{"empty kind is skipped", []skill.ConditionSpec{{}}, "OK"},
		{"cooldown ready is a no-op", []skill.ConditionSpec{cond(skill.ConditionCooldownReady, skill.Params{})}, "OK"},

		{"permission held", []skill.ConditionSpec{cond(skill.ConditionHasPermission, skill.Params{"permission": "skills.basic"})}, "OK"},
		{"permission missing", []skill.ConditionSpec{cond(skill.ConditionHasPermission, skill.Params{"permission": "skills.admin"})}, "NO_PERMISSION"},
		{"blank permission passes", []skill.ConditionSpec{cond(skill.ConditionHasPermission, skill.Params{"permission": "  "})}, "OK"},

		{"level reached", []skill.ConditionSpec{cond(skill.ConditionLevelAtLeast, skill.Params{"min": 10})}, "OK"},
		{"level short", []skill.ConditionSpec{cond(skill.ConditionLevelAtLeast, skill.Params{"min": 11})}, "LOW_LEVEL:10<11"},
		{"level synonym", []skill.ConditionSpec{cond(skill.ConditionLevelAtLeast, skill.Params{"level": 11})}, "LOW_LEVEL:10<11"},
		{"min wins over level", []skill.ConditionSpec{cond(skill.ConditionLevelAtLeast, skill.Params{"min": 5, "level": 50})}, "OK"},

		{"inventory count enough", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "diamond", "amount": 3})}, "OK"},
		{"inventory count short", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "DIAMOND", "amount": 4})}, "MISSING_ITEM"},
		{"amount defaults to one", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "blaze_rod"})}, "OK"},
		{"held item in hand", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "BLAZE_ROD", "where": "hand", "amount": 2})}, "OK"},
		{"held item in main hand", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "BLAZE_ROD", "where": "MAIN_HAND"})}, "OK"},
		{"hand stack too small", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "BLAZE_ROD", "where": "HAND", "amount": 3})}, "MISSING_ITEM"},
		{"item carried but not held", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "DIAMOND", "where": "HAND"})}, "MISSING_ITEM"},
		{"unknown material", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "NOT_AN_ITEM"})}, "HAS_ITEM:bad_material:NOT_AN_ITEM"},
		{"material missing", []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{})}, "HAS_ITEM:material_missing"},

		{"world allowed ignores case", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"allowed": []any{"WORLD"}})}, "OK"},
		{"world not in allowed list", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"allowed": []any{"world_nether"}})}, "WORLD_NOT_ALLOWED"},
		{"world denied ignores case", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"denied": []any{"World"}})}, "WORLD_DENIED"},
		{"other world denied", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"denied": []any{"world_nether"}})}, "OK"},
		{"empty lists impose nothing", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"allowed": []any{}, "denied": []any{}})}, "OK"},
		{"allowed checked before denied", []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"allowed": []any{"world_nether"}, "denied": []any{"world"}})}, "WORLD_NOT_ALLOWED"},

		{"unknown kind", []skill.ConditionSpec{cond("FLYING", skill.Params{})}, "UNKNOWN_CONDITION:FLYING"},
		{
			"first failure wins",
			[]skill.ConditionSpec{
				cond(skill.ConditionHasPermission, skill.Params{"permission": "skills.basic"}),
				cond(skill.ConditionHasItem, skill.Params{"material": "DIAMOND", "amount": 9}),
				cond(skill.ConditionLevelAtLeast, skill.Params{"min": 99}),
			},
			"MISSING_ITEM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			e := NewConditionEvaluator(vocab.Default(), nil)
			sk := newSkill("guarded", skill.TargetSelf)
			sk.Conditions = tt.conditions

			assert.Equal(t, tt.want, e.CheckAll(f.steve, sk).String())
		})
	}
}

func TestConditionEvaluatorWithoutVocabulary(t *testing.T) {
	f := newFixture(t)
	e := NewConditionEvaluator(nil, nil)
	sk := newSkill("guarded", skill.TargetSelf)
	sk.Conditions = []skill.ConditionSpec{cond(skill.ConditionHasItem, skill.Params{"material": "diamond"})}

	assert.True(t, e.CheckAll(f.steve, sk).OK)
}

func TestConditionEvaluatorLevelProvider(t *testing.T) {
	f := newFixture(t)
	e := NewConditionEvaluator(vocab.Default(), LevelProviderFunc(func(host.Player) int { return 42 }))
	sk := newSkill("guarded", skill.TargetSelf)
	sk.Conditions = []skill.ConditionSpec{cond(skill.ConditionLevelAtLeast, skill.Params{"min": 40})}

	assert.True(t, e.CheckAll(f.steve, sk).OK)
}

func TestCastWorldConditionFollowsTeleport(t *testing.T) {
	f := newFixture(t)
	sk := newSkill("nether_only", skill.TargetSelf)
	sk.Conditions = []skill.ConditionSpec{cond(skill.ConditionWorldAllowed, skill.Params{"allowed": []any{"WORLD_NETHER"}})}
	f.publish(sk)

	assert.Equal(t, "WORLD_NOT_ALLOWED", f.cast("nether_only").String())

	require.NoError(t, f.world.Teleport(f.steve, host.Location{World: "World_Nether", Y: 64}))
	assert.True(t, f.cast("nether_only").OK)
}

func TestCastUnknownTarget(t *testing.T) {
	f := newFixture(t)
	sk := newSkill("aimless", "CONE", act(skill.ActionMessage, skill.Params{"text": "never"}))
	sk.CooldownMillis = 1000
	f.publish(sk)

	res := f.cast("aimless")
	assert.Equal(t, ReasonUnknownTarget, res.Reason)
	assert.Equal(t, "UNKNOWN_TARGET", res.String())
	assert.True(t, f.players.Get(f.steve.ID()).CooldownUntil("aimless").IsZero())
	assert.NotContains(t, texts(f.steve.Inbox()), "never")
}

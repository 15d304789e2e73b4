package skill

import "strings"

// TriggerKind identifies the game event that starts a cast.
type TriggerKind string

const (
	TriggerCommand    TriggerKind = "COMMAND"
	TriggerRightClick TriggerKind = "RIGHT_CLICK"
	TriggerLeftClick  TriggerKind = "LEFT_CLICK"
	TriggerOnHit      TriggerKind = "ON_HIT"
	TriggerOnDamage   TriggerKind = "ON_DAMAGE"
)

// TriggerKinds lists every trigger kind in declaration order.
var TriggerKinds = []TriggerKind{TriggerCommand, TriggerRightClick, TriggerLeftClick, TriggerOnHit, TriggerOnDamage}

// Known reports whether k is one of the trigger kinds.
func (k TriggerKind) Known() bool {
	for _, t := range TriggerKinds {
		if t == k {
			return true
		}
	}
	return false
}

// IsClick reports whether k is an interaction trigger.
func (k TriggerKind) IsClick() bool {
	return k == TriggerRightClick || k == TriggerLeftClick
}

// TargetKind identifies the targeting topology of a skill.
type TargetKind string

const (
	TargetSelf   TargetKind = "SELF"
	TargetSingle TargetKind = "TARGET"
	TargetArea   TargetKind = "AREA"
)

// TargetKinds lists every target kind.
var TargetKinds = []TargetKind{TargetSelf, TargetSingle, TargetArea}

func (k TargetKind) Known() bool {
	for _, t := range TargetKinds {
		if t == k {
			return true
		}
	}
	return false
}

// ConditionKind identifies a guard predicate.
type ConditionKind string

const (
	ConditionHasPermission ConditionKind = "HAS_PERMISSION"
	ConditionLevelAtLeast  ConditionKind = "LEVEL_AT_LEAST"
	ConditionHasItem       ConditionKind = "HAS_ITEM"
	ConditionWorldAllowed  ConditionKind = "WORLD_ALLOWED"

	// ConditionCooldownReady is accepted but ignored: cooldowns are always enforced by the pipeline.
	ConditionCooldownReady ConditionKind = "COOLDOWN_READY"
)

// ConditionKinds lists every condition kind.
var ConditionKinds = []ConditionKind{
	ConditionHasPermission,
	ConditionLevelAtLeast,
	ConditionHasItem,
	ConditionWorldAllowed,
	ConditionCooldownReady,
}

func (k ConditionKind) Known() bool {
	for _, c := range ConditionKinds {
		if c == k {
			return true
		}
	}
	return false
}

// ActionKind identifies an effect step.
type ActionKind string

const (
	ActionDamage      ActionKind = "DAMAGE"
	ActionHeal        ActionKind = "HEAL"
	ActionPotion      ActionKind = "POTION"
	ActionDash        ActionKind = "DASH"
	ActionParticles   ActionKind = "PARTICLES"
	ActionSound       ActionKind = "SOUND"
	ActionMessage     ActionKind = "MESSAGE"
	ActionActionBar   ActionKind = "ACTIONBAR"
	ActionTitle       ActionKind = "TITLE"
	ActionCommand     ActionKind = "COMMAND"
	ActionTeleport    ActionKind = "TELEPORT"
	ActionKnockback   ActionKind = "KNOCKBACK"
	ActionPull        ActionKind = "PULL"
	ActionSetFire     ActionKind = "SET_FIRE"
	ActionExplosion   ActionKind = "EXPLOSION"
	ActionGiveItem    ActionKind = "GIVE_ITEM"
	ActionTakeItem    ActionKind = "TAKE_ITEM"
	ActionSpawnEntity ActionKind = "SPAWN_ENTITY"
)

// ActionKinds lists every action kind.
var ActionKinds = []ActionKind{
	ActionDamage, ActionHeal, ActionPotion, ActionDash, ActionParticles, ActionSound,
	ActionMessage, ActionActionBar, ActionTitle, ActionCommand, ActionTeleport,
	ActionKnockback, ActionPull, ActionSetFire, ActionExplosion,
	ActionGiveItem, ActionTakeItem, ActionSpawnEntity,
}

func (k ActionKind) Known() bool {
	for _, a := range ActionKinds {
		if a == k {
			return true
		}
	}
	return false
}

// normalizeKind upper-cases and trims a raw kind tag.
func normalizeKind(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// StringToTriggerKind converts a raw tag to a TriggerKind. Unknown tags are kept as-is (upper-cased).
func StringToTriggerKind(raw string) TriggerKind {
	return TriggerKind(normalizeKind(raw))
}

// StringToTargetKind converts a raw tag to a TargetKind. Unknown tags are kept as-is (upper-cased).
func StringToTargetKind(raw string) TargetKind {
	return TargetKind(normalizeKind(raw))
}

// StringToConditionKind converts a raw tag to a ConditionKind. A blank tag yields "".
func StringToConditionKind(raw string) ConditionKind {
	return ConditionKind(normalizeKind(raw))
}

// StringToActionKind converts a raw tag to an ActionKind. A blank tag yields "".
func StringToActionKind(raw string) ActionKind {
	return ActionKind(normalizeKind(raw))
}

// Package host defines the game-side collaborators the skill engine calls into.
//
// Nothing in this package performs game logic. A host (a game server, or the
// in-memory sandbox) implements these interfaces and the engine interprets
// skill configuration into calls against them. Every effect is fallible,
// side-effecting and non-transactional.
package host

import (
	"github.com/google/uuid"
)

// Entity is anything in the world an action can address.
type Entity interface {
	ID() uuid.UUID
	Name() string
	Location() Location
	// Living reports whether the entity can be damaged, healed or receive statuses.
	Living() bool
}

// ItemStack is an item kind with a count.
type ItemStack struct {
	Item   string
	Amount int
}

// Inventory is the read/deduct view of a player's items used by conditions and costs.
type Inventory interface {
	// Count returns how many of the item kind are held across all slots.
	Count(item string) int
	// MainHand returns the stack in the main-hand slot (zero value when empty).
	MainHand() ItemStack
	// Remove takes up to amount of the item kind from any slot and returns how many were removed.
	Remove(item string, amount int) int
}

// Player is a caster.
type Player interface {
	Entity
	HasPermission(node string) bool
	// Level is the experience level used for costs.
	Level() int
	SetLevel(level int)
	Inventory() Inventory
	// Facing is the unit look direction.
	Facing() Vector
	Velocity() Vector
}

// World answers the spatial queries target resolution needs.
type World interface {
	// LineOfSightTarget returns the entity under the player's reticle within maxDistance blocks.
	LineOfSightTarget(p Player, maxDistance int) (Entity, bool)
	// NearbyEntities returns entities inside the axis-aligned box of half-extents
	// (dx, dy, dz) around center, in discovery order.
	NearbyEntities(center Location, dx, dy, dz float64) []Entity
	WorldExists(name string) bool
	MaxHealth(e Entity) float64
}

// Effects is the capability set the action executor delegates to.
type Effects interface {
	Damage(target Entity, amount float64, source Entity) error
	// Heal raises health by amount without exceeding limit.
	Heal(target Entity, amount, limit float64) error
	ApplyStatus(target Entity, status Status) error
	EmitParticle(at Location, particle Particle) error
	// EmitSound plays to listeners, or to everyone nearby when listeners is nil.
	EmitSound(at Location, listeners []Player, sound Sound) error
	ApplyVelocity(target Entity, velocity Vector) error
	// SetOnFire keeps the longer of the current and the requested burn.
	SetOnFire(target Entity, ticks int) error
	CreateExplosion(at Location, explosion Explosion) error
	GiveItem(target Player, item string, amount int) error
	TakeItem(target Player, item string, amount int) error
	SpawnEntity(at Location, kind string, count int) error
	// DispatchCommand runs a host command as the player, or as the console when as is nil.
	DispatchCommand(as Player, command string) error
	Teleport(target Entity, to Location) error
	SendText(target Entity, msg Message) error
}

// Host bundles the world queries and the effects.
type Host interface {
	World
	Effects
}

// Vocabulary resolves enumerated names against what the host knows about.
type Vocabulary interface {
	// MatchItem returns the canonical item kind for a case-insensitive name.
	MatchItem(name string) (string, bool)
	HasStatus(name string) bool
	HasParticle(name string) bool
	HasSound(name string) bool
	HasSoundCategory(name string) bool
	HasEntityType(name string) bool
}

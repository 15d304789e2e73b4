package sandbox

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/minekent/skillsengine/internal/host"
)

// Creature is a non-player entity. Players embed one.
type Creature struct {
	id        uuid.UUID
	name      string
	kind      string
	loc       host.Location
	living    bool
	health    float64
	maxHealth float64
	fireTicks int
	velocity  host.Vector
	statuses  []host.Status
}

func (c *Creature) ID() uuid.UUID           { return c.id }
func (c *Creature) Name() string            { return c.name }
func (c *Creature) Kind() string            { return c.kind }
func (c *Creature) Location() host.Location { return c.loc }
func (c *Creature) Living() bool            { return c.living }
func (c *Creature) Health() float64         { return c.health }
func (c *Creature) MaxHealth() float64      { return c.maxHealth }
func (c *Creature) FireTicks() int          { return c.fireTicks }
func (c *Creature) Velocity() host.Vector   { return c.velocity }

// Statuses returns the status effects applied so far.
func (c *Creature) Statuses() []host.Status {
	out := make([]host.Status, len(c.statuses))
	copy(out, c.statuses)
	return out
}

// Player is a caster with permissions, a level and an inventory.
type Player struct {
	*Creature
	level       int
	permissions []string
	inventory   *Inventory
	inbox       []host.Message
}

func (p *Player) Level() int                { return p.level }
func (p *Player) SetLevel(level int)        { p.level = level }
func (p *Player) Inventory() host.Inventory { return p.inventory }

// Items returns the concrete inventory.
func (p *Player) Items() *Inventory { return p.inventory }

// HasPermission matches exact nodes, "*" and trailing wildcards such as "skills.*".
func (p *Player) HasPermission(node string) bool {
	node = strings.ToLower(node)
	for _, granted := range p.permissions {
		granted = strings.ToLower(granted)
		switch {
		case granted == "*", granted == node:
			return true
		case strings.HasSuffix(granted, ".*") && strings.HasPrefix(node, strings.TrimSuffix(granted, "*")):
			return true
		}
	}
	return false
}

// Grant adds a permission node.
func (p *Player) Grant(node string) {
	p.permissions = append(p.permissions, node)
}

// Facing is the unit look vector derived from yaw and pitch (degrees, Minecraft convention).
func (p *Player) Facing() host.Vector {
	yaw := p.loc.Yaw * math.Pi / 180
	pitch := p.loc.Pitch * math.Pi / 180
	return host.Vector{
		X: -math.Sin(yaw) * math.Cos(pitch),
		Y: -math.Sin(pitch),
		Z: math.Cos(yaw) * math.Cos(pitch),
	}
}

// Inbox returns every message the player received.
func (p *Player) Inbox() []host.Message {
	out := make([]host.Message, len(p.inbox))
	copy(out, p.inbox)
	return out
}

// Inventory is a list of slots; slot 0 is the main hand.
type Inventory struct {
	slots []host.ItemStack
}

// NewInventory creates an inventory holding stacks, the first one in the main hand.
func NewInventory(stacks ...host.ItemStack) *Inventory {
	inv := &Inventory{}
	for _, s := range stacks {
		inv.slots = append(inv.slots, host.ItemStack{Item: strings.ToUpper(s.Item), Amount: s.Amount})
	}
	return inv
}

func (inv *Inventory) Count(item string) int {
	total := 0
	for _, s := range inv.slots {
		if strings.EqualFold(s.Item, item) {
			total += s.Amount
		}
	}
	return total
}

func (inv *Inventory) MainHand() host.ItemStack {
	if len(inv.slots) == 0 {
		return host.ItemStack{}
	}
	return inv.slots[0]
}

func (inv *Inventory) Remove(item string, amount int) int {
	removed := 0
	for i := range inv.slots {
		if removed == amount {
			break
		}
		s := &inv.slots[i]
		if !strings.EqualFold(s.Item, item) {
			continue
		}
		take := min(s.Amount, amount-removed)
		s.Amount -= take
		removed += take
		if s.Amount == 0 {
			*s = host.ItemStack{}
		}
	}
	return removed
}

// Add stacks items onto a matching slot, else the first empty slot, else a new slot.
func (inv *Inventory) Add(item string, amount int) {
	item = strings.ToUpper(item)
	empty := -1
	for i := range inv.slots {
		if inv.slots[i].Item == item {
			inv.slots[i].Amount += amount
			return
		}
		if empty < 0 && inv.slots[i].Amount == 0 {
			empty = i
		}
	}
	if empty >= 0 {
		inv.slots[empty] = host.ItemStack{Item: item, Amount: amount}
		return
	}
	inv.slots = append(inv.slots, host.ItemStack{Item: item, Amount: amount})
}

// Slots returns a copy of every slot.
func (inv *Inventory) Slots() []host.ItemStack {
	out := make([]host.ItemStack, len(inv.slots))
	copy(out, inv.slots)
	return out
}

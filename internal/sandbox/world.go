// Package sandbox is an in-memory host for exercising skills without a game server.
//
// A World holds players and creatures positioned in named worlds, answers the
// spatial queries target resolution needs and records every effect as an Event.
// It is not safe for concurrent use; the operator console serializes access.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/minekent/skillsengine/internal/host"
)

// hitRadius is how far from the look ray an entity may stand and still be under the reticle.
const hitRadius = 0.8

var errUnknownEntity = errors.New("entity is not part of the sandbox")

var (
	_ host.Host   = (*World)(nil)
	_ host.Player = (*Player)(nil)
)

// World is the sandbox host.
type World struct {
	worlds   map[string]string
	order    []host.Entity
	byID     map[uuid.UUID]host.Entity
	players  map[string]*Player
	events   []Event
	failures map[string]error
	spawned  int
}

// NewWorld creates an empty sandbox containing the named worlds. World names
// are matched case-insensitively; the first spelling seen is kept.
func NewWorld(worlds ...string) *World {
	w := &World{
		worlds:   make(map[string]string),
		byID:     make(map[uuid.UUID]host.Entity),
		players:  make(map[string]*Player),
		failures: make(map[string]error),
	}
	for _, name := range worlds {
		w.addWorld(name)
	}
	return w
}

func (w *World) addWorld(name string) string {
	key := strings.ToLower(name)
	if canonical, ok := w.worlds[key]; ok {
		return canonical
	}
	w.worlds[key] = name
	return name
}

// canonicalWorld returns the declared spelling of a world name.
func (w *World) canonicalWorld(name string) (string, bool) {
	canonical, ok := w.worlds[strings.ToLower(name)]
	return canonical, ok
}

// PlayerSpec describes a player to add to the sandbox.
type PlayerSpec struct {
	Name        string     `yaml:"name"`
	ID          string     `yaml:"id"`
	Position    Position   `yaml:",inline"`
	Level       int        `yaml:"level"`
	Health      float64    `yaml:"health"`
	MaxHealth   float64    `yaml:"max_health"`
	Permissions []string   `yaml:"permissions"`
	Inventory   []ItemSpec `yaml:"inventory"`
}

// EntitySpec describes a creature to add to the sandbox.
type EntitySpec struct {
	Name      string   `yaml:"name"`
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Position  Position `yaml:",inline"`
	Health    float64  `yaml:"health"`
	MaxHealth float64  `yaml:"max_health"`
	Living    *bool    `yaml:"living"`
}

// ItemSpec is one inventory slot in YAML form.
type ItemSpec struct {
	Item   string `yaml:"item"`
	Amount int    `yaml:"amount"`
}

// Position places an entity.
type Position struct {
	World string  `yaml:"world"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
}

func (p Position) location() host.Location {
	world := p.World
	if world == "" {
		world = "world"
	}
	return host.Location{World: world, X: p.X, Y: p.Y, Z: p.Z, Yaw: p.Yaw, Pitch: p.Pitch}
}

// Definition is the YAML layout of a sandbox file.
type Definition struct {
	Worlds   []string     `yaml:"worlds"`
	Players  []PlayerSpec `yaml:"players"`
	Entities []EntitySpec `yaml:"entities"`
}

// LoadFromYAML builds a sandbox from a definition file.
func LoadFromYAML(filename string) (*World, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read sandbox file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse sandbox YAML: %w", err)
	}
	return FromDefinition(def)
}

// FromDefinition builds a sandbox from a parsed definition.
func FromDefinition(def Definition) (*World, error) {
	w := NewWorld(def.Worlds...)
	for _, spec := range def.Players {
		if _, err := w.AddPlayer(spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range def.Entities {
		if _, err := w.AddEntity(spec); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// entityID parses an explicit id or derives a stable one from the name.
func entityID(raw, name string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid id for %s: %w", name, err)
		}
		return id, nil
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("sandbox:"+strings.ToLower(name))), nil
}

func (w *World) newCreature(rawID, name, kind string, pos Position, health, maxHealth float64, living bool) (*Creature, error) {
	if name == "" {
		return nil, errors.New("entity name is required")
	}
	id, err := entityID(rawID, name)
	if err != nil {
		return nil, err
	}
	if _, exists := w.byID[id]; exists {
		return nil, fmt.Errorf("duplicate entity %s", name)
	}
	if maxHealth <= 0 {
		maxHealth = 20
	}
	if health <= 0 || health > maxHealth {
		health = maxHealth
	}
	loc := pos.location()
	loc.World = w.addWorld(loc.World)
	return &Creature{
		id:        id,
		name:      name,
		kind:      strings.ToUpper(kind),
		loc:       loc,
		living:    living,
		health:    health,
		maxHealth: maxHealth,
	}, nil
}

// AddPlayer places a player in the sandbox.
func (w *World) AddPlayer(spec PlayerSpec) (*Player, error) {
	if _, exists := w.players[strings.ToLower(spec.Name)]; exists {
		return nil, fmt.Errorf("duplicate player %s", spec.Name)
	}
	c, err := w.newCreature(spec.ID, spec.Name, "PLAYER", spec.Position, spec.Health, spec.MaxHealth, true)
	if err != nil {
		return nil, err
	}
	stacks := make([]host.ItemStack, 0, len(spec.Inventory))
	for _, it := range spec.Inventory {
		stacks = append(stacks, host.ItemStack{Item: it.Item, Amount: it.Amount})
	}
	p := &Player{
		Creature:    c,
		level:       spec.Level,
		permissions: append([]string(nil), spec.Permissions...),
		inventory:   NewInventory(stacks...),
	}
	w.players[strings.ToLower(p.name)] = p
	w.add(p)
	return p, nil
}

// AddEntity places a creature in the sandbox. Creatures are living unless stated otherwise.
func (w *World) AddEntity(spec EntitySpec) (*Creature, error) {
	living := spec.Living == nil || *spec.Living
	c, err := w.newCreature(spec.ID, spec.Name, spec.Type, spec.Position, spec.Health, spec.MaxHealth, living)
	if err != nil {
		return nil, err
	}
	w.add(c)
	return c, nil
}

func (w *World) add(e host.Entity) {
	w.order = append(w.order, e)
	w.byID[e.ID()] = e
}

// Player looks up a player by name, case-insensitively.
func (w *World) Player(name string) (*Player, bool) {
	p, ok := w.players[strings.ToLower(name)]
	return p, ok
}

// Players returns every player in the order they were added.
func (w *World) Players() []*Player {
	var out []*Player
	for _, e := range w.order {
		if p, ok := e.(*Player); ok {
			out = append(out, p)
		}
	}
	return out
}

// Entity looks up any entity by name, case-insensitively.
func (w *World) Entity(name string) (host.Entity, bool) {
	for _, e := range w.order {
		if strings.EqualFold(e.Name(), name) {
			return e, true
		}
	}
	return nil, false
}

// Entities returns every entity in the order they were added.
func (w *World) Entities() []host.Entity {
	out := make([]host.Entity, len(w.order))
	copy(out, w.order)
	return out
}

// FailOn makes every later call of the named effect (for example "damage") return err.
// A nil err clears the failure.
func (w *World) FailOn(op string, err error) {
	if err == nil {
		delete(w.failures, op)
		return
	}
	w.failures[op] = err
}

func creatureOf(e host.Entity) (*Creature, error) {
	switch v := e.(type) {
	case *Creature:
		return v, nil
	case *Player:
		return v.Creature, nil
	default:
		return nil, errUnknownEntity
	}
}

// LineOfSightTarget returns the nearest entity whose position lies within hitRadius of the player's look ray.
func (w *World) LineOfSightTarget(p host.Player, maxDistance int) (host.Entity, bool) {
	origin := p.Location()
	dir := p.Facing().Normalize()
	if dir.LengthSquared() == 0 {
		return nil, false
	}

	var best host.Entity
	bestAlong := 0.0
	for _, e := range w.order {
		if e.ID() == p.ID() {
			continue
		}
		loc := e.Location()
		if loc.World != origin.World {
			continue
		}
		rel := loc.Vector().Sub(origin.Vector())
		along := rel.X*dir.X + rel.Y*dir.Y + rel.Z*dir.Z
		if along <= 0 || along > float64(maxDistance) {
			continue
		}
		off := rel.Sub(dir.Scale(along))
		if off.Length() > hitRadius {
			continue
		}
		if best == nil || along < bestAlong {
			best, bestAlong = e, along
		}
	}
	return best, best != nil
}

func (w *World) NearbyEntities(center host.Location, dx, dy, dz float64) []host.Entity {
	var out []host.Entity
	for _, e := range w.order {
		if center.Within(e.Location(), dx, dy, dz) {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) WorldExists(name string) bool {
	_, ok := w.canonicalWorld(name)
	return ok
}

func (w *World) MaxHealth(e host.Entity) float64 {
	c, err := creatureOf(e)
	if err != nil {
		return 0
	}
	return c.maxHealth
}

package sandbox

import (
	"fmt"
	"strings"

	"github.com/minekent/skillsengine/internal/host"
)

func (w *World) fail(op string) error {
	if err, ok := w.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (w *World) Damage(target host.Entity, amount float64, source host.Entity) error {
	if err := w.fail("damage"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	c.health = max(0, c.health-amount)
	from := "unknown"
	if source != nil {
		from = source.Name()
	}
	w.record("damage", c.name, "%.1f from %s (health %.1f)", amount, from, c.health)
	return nil
}

func (w *World) Heal(target host.Entity, amount, limit float64) error {
	if err := w.fail("heal"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	if c.health < limit {
		c.health = min(limit, c.health+amount)
	}
	w.record("heal", c.name, "%.1f (health %.1f)", amount, c.health)
	return nil
}

func (w *World) ApplyStatus(target host.Entity, status host.Status) error {
	if err := w.fail("status"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	c.statuses = append(c.statuses, status)
	w.record("status", c.name, "%s %d ticks amplifier %d", status.Kind, status.DurationTicks, status.Amplifier)
	return nil
}

func (w *World) EmitParticle(at host.Location, particle host.Particle) error {
	if err := w.fail("particle"); err != nil {
		return err
	}
	w.record("particle", formatLocation(at), "%s x%d", particle.Kind, particle.Count)
	return nil
}

func (w *World) EmitSound(at host.Location, listeners []host.Player, sound host.Sound) error {
	if err := w.fail("sound"); err != nil {
		return err
	}
	audience := "everyone"
	if listeners != nil {
		names := make([]string, 0, len(listeners))
		for _, p := range listeners {
			names = append(names, p.Name())
		}
		audience = strings.Join(names, ",")
	}
	w.record("sound", formatLocation(at), "%s to %s", sound.Kind, audience)
	return nil
}

func (w *World) ApplyVelocity(target host.Entity, velocity host.Vector) error {
	if err := w.fail("velocity"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	c.velocity = velocity
	w.record("velocity", c.name, "(%.2f, %.2f, %.2f)", velocity.X, velocity.Y, velocity.Z)
	return nil
}

func (w *World) SetOnFire(target host.Entity, ticks int) error {
	if err := w.fail("fire"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	c.fireTicks = max(c.fireTicks, ticks)
	w.record("fire", c.name, "%d ticks", c.fireTicks)
	return nil
}

func (w *World) CreateExplosion(at host.Location, explosion host.Explosion) error {
	if err := w.fail("explosion"); err != nil {
		return err
	}
	w.record("explosion", formatLocation(at), "power %.1f fire=%t break=%t", explosion.Power, explosion.SetFire, explosion.BreakBlocks)
	return nil
}

func (w *World) GiveItem(target host.Player, item string, amount int) error {
	if err := w.fail("give"); err != nil {
		return err
	}
	p, ok := w.byID[target.ID()].(*Player)
	if !ok {
		return errUnknownEntity
	}
	p.inventory.Add(item, amount)
	w.record("give", p.name, "%d %s", amount, item)
	return nil
}

func (w *World) TakeItem(target host.Player, item string, amount int) error {
	if err := w.fail("take"); err != nil {
		return err
	}
	p, ok := w.byID[target.ID()].(*Player)
	if !ok {
		return errUnknownEntity
	}
	removed := p.inventory.Remove(item, amount)
	w.record("take", p.name, "%d %s", removed, item)
	return nil
}

func (w *World) SpawnEntity(at host.Location, kind string, count int) error {
	if err := w.fail("spawn"); err != nil {
		return err
	}
	world, ok := w.canonicalWorld(at.World)
	if !ok {
		return fmt.Errorf("world %q does not exist", at.World)
	}
	at.World = world
	for i := 0; i < count; i++ {
		w.spawned++
		name := fmt.Sprintf("%s#%d", strings.ToLower(kind), w.spawned)
		pos := Position{World: at.World, X: at.X, Y: at.Y, Z: at.Z}
		c, err := w.newCreature("", name, kind, pos, 0, 0, true)
		if err != nil {
			return err
		}
		w.add(c)
	}
	w.record("spawn", formatLocation(at), "%d %s", count, kind)
	return nil
}

func (w *World) DispatchCommand(as host.Player, command string) error {
	if err := w.fail("command"); err != nil {
		return err
	}
	sender := "console"
	if as != nil {
		sender = as.Name()
	}
	w.record("command", sender, "/%s", strings.TrimPrefix(command, "/"))
	return nil
}

func (w *World) Teleport(target host.Entity, to host.Location) error {
	if err := w.fail("teleport"); err != nil {
		return err
	}
	c, err := creatureOf(target)
	if err != nil {
		return err
	}
	world, ok := w.canonicalWorld(to.World)
	if !ok {
		return fmt.Errorf("world %q does not exist", to.World)
	}
	to.World = world
	c.loc = to
	w.record("teleport", c.name, "%s", formatLocation(to))
	return nil
}

func (w *World) SendText(target host.Entity, msg host.Message) error {
	if err := w.fail("text"); err != nil {
		return err
	}
	if p, ok := target.(*Player); ok {
		p.inbox = append(p.inbox, msg)
	}
	w.record("text", target.Name(), "[%s] %s", msg.Channel, msg.Text)
	return nil
}

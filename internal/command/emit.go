package command

import (
	"fmt"
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/trigger"
)

const emitUsage = `Usage:
  emit command <player> <message...>
  emit click <player> [left|right]
  emit hit <player> <entity>
  emit damage <player> [entity]`

// emitKinds are the event kinds accepted by emit, in completion order.
var emitKinds = []string{"command", "click", "hit", "damage"}

// executeEmit feeds a simulated game event through the trigger dispatcher.
func (h *Handler) executeEmit(c *Command) string {
	if err := c.RequireArgs(2, emitUsage); err != nil {
		return err.Error()
	}
	if h.deps.World == nil {
		return "No sandbox world is loaded."
	}

	p, msg := h.findPlayer(c, 1)
	if p == nil {
		return msg
	}

	h.drainEvents(nil)

	var casts []trigger.Cast
	switch strings.ToLower(c.Args[0]) {
	case "command", "cmd":
		if err := c.RequireArgs(3, "Usage: emit command <player> <message...>"); err != nil {
			return err.Error()
		}
		message := strings.Join(c.Args[2:], " ")
		var consumed bool
		casts, consumed = h.dispatcher.OnCommand(p, message)
		if !consumed {
			return "No skill is bound to " + message + "; the command passes through."
		}

	case "click":
		right := true
		if len(c.Args) > 2 {
			switch strings.ToLower(c.Args[2]) {
			case "left":
				right = false
			case "right":
			default:
				return "Usage: emit click <player> [left|right]"
			}
		}
		casts = h.dispatcher.OnInteract(p, right)

	case "hit":
		if err := c.RequireArgs(3, "Usage: emit hit <player> <entity>"); err != nil {
			return err.Error()
		}
		victim, ok := h.deps.World.Entity(c.Args[2])
		if !ok {
			return "Entity not found: " + c.Args[2]
		}
		casts = h.dispatcher.OnHit(p, victim)

	case "damage":
		var damager host.Entity
		if len(c.Args) > 2 {
			e, ok := h.deps.World.Entity(c.Args[2])
			if !ok {
				return "Entity not found: " + c.Args[2]
			}
			damager = e
		}
		casts = h.dispatcher.OnDamage(p, damager)

	default:
		return emitUsage
	}

	return h.formatCasts(casts)
}

func (h *Handler) formatCasts(casts []trigger.Cast) string {
	var b strings.Builder
	if len(casts) == 0 {
		b.WriteString("No skills triggered.")
	} else {
		fmt.Fprintf(&b, "Triggered %d skill(s):", len(casts))
		for _, cast := range casts {
			b.WriteString("\n  Cast " + cast.SkillID + ": " + formatResult(cast.Result))
		}
	}
	h.drainEvents(&b)
	return b.String()
}

package command

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minekent/skillsengine/internal/engine"
	"github.com/minekent/skillsengine/internal/journal"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/skill"
)

func (h *Handler) executeReload(c *Command) string {
	report := h.deps.Loader.Reload(h.deps.SkillsDir)

	var b strings.Builder
	fmt.Fprintf(&b, "SkillsEngine: loaded %d skill(s), skipped %d", report.Loaded, report.Skipped)
	for _, w := range report.Warnings {
		b.WriteString("\n - warning: " + w)
	}
	for _, e := range report.Errors {
		b.WriteString("\n - error: " + e)
	}

	if h.deps.Messages != nil {
		if err := h.deps.Messages.Reload(); err != nil {
			logger.Warning("Failed to reload messages", "error", err)
			b.WriteString("\n - warning: messages: " + err.Error())
		}
	}

	if h.deps.Journal != nil {
		_, err := h.deps.Journal.RecordReload(journal.ReloadEntry{
			At:       time.Now(),
			Dir:      h.deps.SkillsDir,
			Loaded:   report.Loaded,
			Skipped:  report.Skipped,
			Warnings: len(report.Warnings),
			Errors:   len(report.Errors),
			Took:     report.Took,
		})
		if err != nil {
			logger.Warning("Failed to journal reload", "error", err)
		}
	}

	return b.String()
}

func (h *Handler) executeCast(c *Command) string {
	if err := c.RequireArgs(1, "Usage: cast <skillId> [player]"); err != nil {
		return err.Error()
	}
	skillID := c.Args[0]

	p, msg := h.findPlayer(c, 1)
	if p == nil {
		return msg
	}

	h.drainEvents(nil)
	res := h.deps.Engine.Cast(p, skillID, &engine.CastRequest{Source: "console"})

	var b strings.Builder
	b.WriteString("Cast " + skillID + ": " + formatResult(res))
	h.drainEvents(&b)
	return b.String()
}

func formatResult(res engine.Result) string {
	if res.OK {
		return "OK"
	}
	return "FAIL: " + res.String()
}

func (h *Handler) executeSkills(c *Command) string {
	snap := h.deps.Catalog.Current()
	all := snap.Registry.All()
	if len(all) == 0 {
		return "No skills loaded."
	}

	filter := ""
	if len(c.Args) > 0 {
		filter = strings.ToLower(c.Args[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Skills (generation %d):", snap.Generation)
	shown := 0
	for _, id := range snap.Registry.IDs() {
		s, _ := snap.Registry.Get(id)
		if filter != "" && !strings.HasPrefix(s.Key(), filter) && !strings.EqualFold(s.Category, filter) {
			continue
		}
		b.WriteString("\n  " + describeSkill(s))
		shown++
	}
	if shown == 0 {
		return "No skills match '" + c.Args[0] + "'."
	}
	return b.String()
}

// describeSkill renders one line such as
// "fireball (Fireball) [combat] COMMAND /fireball -> TARGET, cooldown 8s".
func describeSkill(s *skill.Skill) string {
	var b strings.Builder
	b.WriteString(s.ID)
	if s.Name != "" && s.Name != s.ID {
		b.WriteString(" (" + s.Name + ")")
	}
	if s.Category != "" {
		b.WriteString(" [" + s.Category + "]")
	}
	b.WriteString(" " + string(s.Trigger.Kind))
	switch {
	case s.Trigger.Kind == skill.TriggerCommand:
		b.WriteString(" /" + s.Trigger.Command())
	case s.Trigger.Material() != "":
		b.WriteString(" holding " + s.Trigger.Material())
	}
	b.WriteString(" -> " + string(s.Target.Kind))
	if s.CooldownMillis > 0 {
		b.WriteString(", cooldown " + s.Cooldown().String())
	}
	return b.String()
}

func (h *Handler) executePlayers(c *Command) string {
	if h.deps.World == nil || len(h.deps.World.Players()) == 0 {
		return "No players."
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString("Players:")
	for _, p := range h.deps.World.Players() {
		loc := p.Location()
		fmt.Fprintf(&b, "\n  %s level %d, health %.1f/%.1f, %s(%.1f, %.1f, %.1f)",
			p.Name(), p.Level(), p.Health(), p.MaxHealth(), loc.World, loc.X, loc.Y, loc.Z)
		if cds := h.activeCooldowns(p.ID(), now); cds != "" {
			b.WriteString(", cooldowns: " + cds)
		}
	}
	return b.String()
}

// activeCooldowns renders the unexpired cooldowns of a player as
// "id 5s", sorted by skill id.
func (h *Handler) activeCooldowns(id uuid.UUID, now time.Time) string {
	if h.deps.Players == nil {
		return ""
	}
	var active []string
	for skillID, until := range h.deps.Players.Get(id).Cooldowns() {
		if until.After(now) {
			left := engine.Cooldown(until.Sub(now)).RemainingSeconds()
			active = append(active, fmt.Sprintf("%s %ds", skillID, left))
		}
	}
	sort.Strings(active)
	return strings.Join(active, " ")
}

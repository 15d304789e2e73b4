package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minekent/skillsengine/internal/journal"
	"github.com/minekent/skillsengine/internal/logger"
)

const defaultHistoryLimit = 10

func (h *Handler) executeHistory(c *Command) string {
	if h.deps.Journal == nil {
		return "Journal is disabled."
	}

	if len(c.Args) > 0 && strings.EqualFold(c.Args[0], "reloads") {
		return h.reloadHistory(c.Args[1:])
	}

	limit := defaultHistoryLimit
	skillID := ""
	for _, arg := range c.Args {
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 {
				return "Usage: history [skillId] [count]"
			}
			limit = n
			continue
		}
		skillID = arg
	}

	var (
		entries []journal.CastEntry
		err     error
	)
	if skillID != "" {
		entries, err = h.deps.Journal.CastsForSkill(skillID, limit)
	} else {
		entries, err = h.deps.Journal.RecentCasts(limit)
	}
	if err != nil {
		logger.Error("Failed to read journal", "error", err)
		return "Failed to read journal: " + err.Error()
	}
	if len(entries) == 0 {
		return "No casts recorded."
	}

	var b strings.Builder
	b.WriteString("Recent casts:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n  #%d %s %s cast %s via %s: %s",
			e.ID, e.At.Format("2006-01-02 15:04:05"), e.Player, e.SkillID, e.Source, e.Result)
	}
	return b.String()
}

func (h *Handler) reloadHistory(args []string) string {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || len(args) > 1 {
			return "Usage: history reloads [count]"
		}
		limit = n
	}

	entries, err := h.deps.Journal.RecentReloads(limit)
	if err != nil {
		logger.Error("Failed to read journal", "error", err)
		return "Failed to read journal: " + err.Error()
	}
	if len(entries) == 0 {
		return "No reloads recorded."
	}

	var b strings.Builder
	b.WriteString("Recent reloads:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n  #%d %s %s: loaded %d, skipped %d, %d warning(s) in %v",
			e.ID, e.At.Format("2006-01-02 15:04:05"), e.Dir, e.Loaded, e.Skipped, e.Warnings, e.Took)
	}
	return b.String()
}

func (h *Handler) executeDebug(c *Command) string {
	if len(c.Args) == 0 {
		if logger.DebugEnabled() {
			return "Debug logging is on."
		}
		return "Debug logging is off."
	}

	switch strings.ToLower(c.Args[0]) {
	case "on", "true", "1":
		logger.SetDebug(true)
		logger.Always("Debug logging enabled")
		return "Debug logging enabled."
	case "off", "false", "0":
		logger.SetDebug(false)
		logger.Always("Debug logging disabled")
		return "Debug logging disabled."
	default:
		return "Usage: debug [on|off]"
	}
}

func (h *Handler) executeHelp(c *Command) string {
	if len(c.Args) > 0 {
		if text, ok := helpTopics[strings.ToLower(c.Args[0])]; ok {
			return text
		}
		return "No help for '" + c.Args[0] + "'."
	}

	return `SkillsEngine commands:
  reload                        - Reload skill definitions and messages
  cast <skillId> [player]       - Cast a skill as a player
  skills [prefix|category]      - List loaded skills
  players                       - List sandbox players
  emit <kind> <player> ...      - Feed a game event to the trigger dispatcher
  history [skillId] [count]     - Show journaled casts
  history reloads [count]       - Show journaled reloads
  debug [on|off]                - Toggle cast tracing
  complete <words...>           - Suggest completions for a command line
  help [command]                - Show help
  quit                          - Close the console`
}

var helpTopics = map[string]string{
	"reload": `RELOAD
Re-reads every .yml/.yaml file in the skills directory and publishes the
result. Files that fail to parse or validate are skipped and reported.`,

	"cast": `CAST <skillId> [player]
Runs the full cast pipeline for the player: cooldown, conditions, cost,
targets and actions. Prints "Cast <id>: OK" or "Cast <id>: FAIL: <reason>"
followed by the effects the sandbox recorded.`,

	"emit": emitUsage + `

The event is matched against the trigger index exactly like a game event:
COMMAND, LEFT_CLICK/RIGHT_CLICK, ON_HIT or ON_DAMAGE skills fire.`,

	"history": `HISTORY [skillId] [count]
Shows the most recent cast attempts from the journal, newest first.

HISTORY RELOADS [count]
Shows the most recent reload summaries from the journal, newest first.`,

	"complete": `COMPLETE <words...>
Suggests sub-commands, skill ids, command words and player names for the last word.
End the line with a space to complete the next word.`,
}

// Package command implements the operator commands of the skills daemon.
package command

import (
	"errors"
	"strings"
	"sync"

	"github.com/minekent/skillsengine/internal/content"
	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/journal"
	"github.com/minekent/skillsengine/internal/playerdata"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/sandbox"
	"github.com/minekent/skillsengine/internal/trigger"
)

// Reloader re-reads a file-backed resource. *text.Messages implements it.
type Reloader interface {
	Reload() error
}

// Journal is the part of the cast journal the commands use. *journal.Journal implements it.
type Journal interface {
	RecordReload(e journal.ReloadEntry) (int64, error)
	RecentCasts(limit int) ([]journal.CastEntry, error)
	CastsForSkill(skillID string, limit int) ([]journal.CastEntry, error)
	RecentReloads(limit int) ([]journal.ReloadEntry, error)
}

// Deps are the collaborators of a Handler. Messages, Journal and Players are optional.
type Deps struct {
	SkillsDir string
	Loader    *content.Loader
	Catalog   *registry.Catalog
	Engine    trigger.Caster
	Vocab     host.Vocabulary
	World     *sandbox.World
	Messages  Reloader
	Journal   Journal

	// Players is the engine's cooldown store, listed by the players command.
	Players *playerdata.Store

	// DefaultPlayer is used by cast when no player is named.
	DefaultPlayer string
}

// Handler executes operator commands.
//
// Every command runs under one lock, so casts, reloads and sandbox access
// from concurrent console sessions are serialized.
type Handler struct {
	mu         sync.Mutex
	deps       Deps
	dispatcher *trigger.Dispatcher
}

// NewHandler creates a handler around d.
func NewHandler(d Deps) *Handler {
	return &Handler{
		deps:       d,
		dispatcher: trigger.NewDispatcher(d.Catalog, d.Engine, d.Vocab),
	}
}

// Command is one parsed operator input line.
type Command struct {
	Name string
	Args []string

	// trailing is set when the line ended in whitespace, so completion
	// should start a new word.
	trailing bool
}

// RequireArgs returns usage as an error when fewer than min arguments were given.
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// IsQuit reports whether the command ends the console session.
func (c *Command) IsQuit() bool {
	return c.Name == "quit" || c.Name == "exit"
}

// ParseCommand splits input into a lowercased command name and its arguments.
// A leading slash and an "se" prefix, as typed in game, are accepted.
func ParseCommand(input string) *Command {
	input = strings.TrimPrefix(strings.TrimLeft(input, " \t"), "/")
	parts := strings.Fields(input)
	if len(parts) > 0 && strings.EqualFold(parts[0], "se") {
		parts = parts[1:]
	}
	trailing := len(input) > 0 && strings.ContainsAny(input[len(input)-1:], " \t")

	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}, trailing: trailing}
	}

	return &Command{
		Name:     strings.ToLower(parts[0]),
		Args:     parts[1:],
		trailing: trailing,
	}
}

// Execute runs one input line and returns the text to show the operator.
func (h *Handler) Execute(input string) string {
	return h.Run(ParseCommand(input))
}

// Run executes a parsed command.
func (h *Handler) Run(c *Command) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch c.Name {
	case "":
		return ""
	case "help", "?":
		return h.executeHelp(c)
	case "reload":
		return h.executeReload(c)
	case "cast":
		return h.executeCast(c)
	case "skills", "list":
		return h.executeSkills(c)
	case "players":
		return h.executePlayers(c)
	case "complete":
		return h.executeComplete(c)
	case "emit":
		return h.executeEmit(c)
	case "history":
		return h.executeHistory(c)
	case "debug":
		return h.executeDebug(c)
	case "quit", "exit":
		return "Goodbye."
	default:
		return "Unknown subcommand: " + c.Name + ". Type 'help' for available commands."
	}
}

// findPlayer resolves the player argument at index i, falling back to the
// default player when the argument is absent.
func (h *Handler) findPlayer(c *Command, i int) (*sandbox.Player, string) {
	name := h.deps.DefaultPlayer
	if len(c.Args) > i {
		name = c.Args[i]
	}
	if name == "" {
		return nil, "Console must specify player: cast <skillId> <player>"
	}
	if h.deps.World == nil {
		return nil, "Player not found: " + name
	}
	p, ok := h.deps.World.Player(name)
	if !ok {
		return nil, "Player not found: " + name
	}
	return p, ""
}

// drainEvents renders what the sandbox recorded since the last drain.
// A nil builder discards the events.
func (h *Handler) drainEvents(b *strings.Builder) {
	if h.deps.World == nil {
		return
	}
	events := h.deps.World.Drain()
	if b == nil {
		return
	}
	for _, ev := range events {
		b.WriteString("\n  > ")
		b.WriteString(ev.String())
	}
}

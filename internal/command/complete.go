package command

import (
	"sort"
	"strings"
)

// subcommands are offered for the first word, in this order.
var subcommands = []string{"reload", "cast", "skills", "players", "emit", "history", "debug", "complete", "help", "quit"}

// executeComplete suggests values for the last word of the remaining input.
// "complete cast fi" suggests skill ids starting with "fi".
func (h *Handler) executeComplete(c *Command) string {
	suggestions := h.complete(c.Args, c.trailing)
	if len(suggestions) == 0 {
		return "(no suggestions)"
	}
	return strings.Join(suggestions, " ")
}

// complete returns the candidates for the last of args. When newWord is set
// the input ended in whitespace and an empty word is completed after args.
func (h *Handler) complete(args []string, newWord bool) []string {
	if newWord || len(args) == 0 {
		args = append(append([]string(nil), args...), "")
	}
	last := args[len(args)-1]

	if len(args) == 1 {
		return filterPrefix(subcommands, last)
	}

	sub := strings.ToLower(args[0])
	switch {
	case sub == "cast" && len(args) == 2:
		return filterPrefix(h.skillIDs(), last)
	case sub == "cast" && len(args) == 3:
		return filterPrefix(h.playerNames(), last)
	case sub == "skills" && len(args) == 2:
		return filterPrefix(h.skillIDs(), last)
	case sub == "history" && len(args) == 2:
		return filterPrefix(append([]string{"reloads"}, h.skillIDs()...), last)
	case sub == "help" && len(args) == 2:
		return filterPrefix(subcommands, last)
	case sub == "debug" && len(args) == 2:
		return filterPrefix([]string{"on", "off"}, last)
	case sub == "emit" && len(args) == 2:
		return filterPrefix(emitKinds, last)
	case sub == "emit" && len(args) == 3:
		return filterPrefix(h.playerNames(), last)
	case sub == "emit" && len(args) == 4:
		switch strings.ToLower(args[1]) {
		case "command", "cmd":
			return filterPrefix(h.commandWords(), "/"+strings.TrimPrefix(last, "/"))
		case "click":
			return filterPrefix([]string{"left", "right"}, last)
		case "hit", "damage":
			return filterPrefix(h.entityNames(), last)
		}
	}
	return nil
}

func (h *Handler) skillIDs() []string {
	return h.deps.Catalog.Current().Registry.IDs()
}

// commandWords returns the bound command words with a leading slash, sorted.
func (h *Handler) commandWords() []string {
	cmds := h.deps.Catalog.Current().Index.Commands()
	sort.Strings(cmds)
	for i, cmd := range cmds {
		cmds[i] = "/" + cmd
	}
	return cmds
}

func (h *Handler) playerNames() []string {
	if h.deps.World == nil {
		return nil
	}
	var names []string
	for _, p := range h.deps.World.Players() {
		names = append(names, p.Name())
	}
	return names
}

func (h *Handler) entityNames() []string {
	if h.deps.World == nil {
		return nil
	}
	var names []string
	for _, e := range h.deps.World.Entities() {
		names = append(names, e.Name())
	}
	return names
}

// filterPrefix keeps the values starting with prefix, ignoring case.
func filterPrefix(values []string, prefix string) []string {
	p := strings.ToLower(prefix)
	var out []string
	for _, v := range values {
		if v != "" && strings.HasPrefix(strings.ToLower(v), p) {
			out = append(out, v)
		}
	}
	return out
}

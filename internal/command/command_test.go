package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minekent/skillsengine/internal/content"
	"github.com/minekent/skillsengine/internal/engine"
	"github.com/minekent/skillsengine/internal/journal"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/playerdata"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/sandbox"
	"github.com/minekent/skillsengine/internal/vocab"
)

const (
	healSkill = `
id: heal
name: Heal
type: support
trigger: {type: COMMAND, command: heal}
target: {type: SELF}
cooldown: 5s
actions:
  - {type: HEAL, amount: 4}
  - {type: MESSAGE, text: Healed}
`
	smiteSkill = `
id: smite
trigger: {type: COMMAND, command: smite}
target: {type: TARGET, range: 10}
actions:
  - {type: DAMAGE, amount: 4}
`
	zapSkill = `
id: zap
trigger: {type: RIGHT_CLICK, material: BLAZE_ROD}
actions:
  - {type: MESSAGE, text: zap}
`
	thornsSkill = `
id: thorns
trigger: {type: ON_DAMAGE}
target: {type: TARGET}
actions:
  - {type: DAMAGE, amount: 2}
`
)

type fakeMessages struct {
	reloads int
	err     error
}

func (m *fakeMessages) Reload() error {
	m.reloads++
	return m.err
}

type env struct {
	dir     string
	world   *sandbox.World
	steve   *sandbox.Player
	catalog *registry.Catalog
	handler *Handler
}

func writeSkill(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

// newEnv loads the given skill files and wires a handler around a sandbox
// with Steve facing a zombie three blocks away.
func newEnv(t *testing.T, files map[string]string, mutate func(*Deps)) *env {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		writeSkill(t, dir, name, body)
	}

	w := sandbox.NewWorld("world")
	steve, err := w.AddPlayer(sandbox.PlayerSpec{
		Name:      "Steve",
		Position:  sandbox.Position{World: "world", Y: 64},
		Level:     5,
		Health:    10,
		Inventory: []sandbox.ItemSpec{{Item: "BLAZE_ROD", Amount: 1}},
	})
	require.NoError(t, err)
	_, err = w.AddPlayer(sandbox.PlayerSpec{Name: "Alex", Position: sandbox.Position{World: "world", X: 30, Y: 64}})
	require.NoError(t, err)
	_, err = w.AddEntity(sandbox.EntitySpec{Name: "zombie", Type: "ZOMBIE", Position: sandbox.Position{World: "world", Y: 64, Z: 3}})
	require.NoError(t, err)

	v := vocab.Default()
	catalog := registry.NewCatalog()
	loader := content.NewLoader(catalog, v)
	loader.Reload(dir)

	deps := Deps{
		SkillsDir: dir,
		Loader:    loader,
		Catalog:   catalog,
		Vocab:     v,
		World:     w,
		Players:   playerdata.NewStore(),
	}
	if mutate != nil {
		mutate(&deps)
	}
	if deps.Engine == nil {
		deps.Engine = engine.NewService(catalog, deps.Players, w, v)
	}

	return &env{dir: dir, world: w, steve: steve, catalog: catalog, handler: NewHandler(deps)}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		args     []string
		trailing bool
	}{
		{"", "", []string{}, false},
		{"   ", "", []string{}, false},
		{"RELOAD", "reload", []string{}, false},
		{"cast Fireball Steve", "cast", []string{"Fireball", "Steve"}, false},
		{"/se cast fireball", "cast", []string{"fireball"}, false},
		{"complete cast ", "complete", []string{"cast"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := ParseCommand(tt.input)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.args, c.Args)
			assert.Equal(t, tt.trailing, c.trailing)
		})
	}

	assert.True(t, ParseCommand("quit").IsQuit())
	assert.True(t, ParseCommand("EXIT").IsQuit())
	assert.False(t, ParseCommand("cast quit").IsQuit())
}

func TestRequireArgs(t *testing.T) {
	c := ParseCommand("cast")
	err := c.RequireArgs(1, "Usage: cast <skillId> [player]")
	require.Error(t, err)
	assert.Equal(t, "Usage: cast <skillId> [player]", err.Error())
	assert.NoError(t, ParseCommand("cast heal").RequireArgs(1, "usage"))
}

func TestReloadReport(t *testing.T) {
	msgs := &fakeMessages{}
	e := newEnv(t, map[string]string{"heal.yml": healSkill}, func(d *Deps) { d.Messages = msgs })

	writeSkill(t, e.dir, "smite.yml", smiteSkill)
	writeSkill(t, e.dir, "zz_broken.yml", "id: [unclosed")

	out := e.handler.Execute("reload")
	lines := strings.Split(out, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "SkillsEngine: loaded 2 skill(s), skipped 1", lines[0])
	found := false
	for _, l := range lines[1:] {
		if strings.HasPrefix(l, " - error: zz_broken.yml") {
			found = true
		}
	}
	assert.True(t, found, out)
	assert.Equal(t, 1, msgs.reloads)

	_, ok := e.catalog.Current().Registry.Get("smite")
	assert.True(t, ok)
}

func TestReloadReportsMessageFailure(t *testing.T) {
	msgs := &fakeMessages{err: errors.New("bad yaml")}
	e := newEnv(t, map[string]string{"heal.yml": healSkill}, func(d *Deps) { d.Messages = msgs })

	out := e.handler.Execute("reload")
	assert.Contains(t, out, "loaded 1 skill(s), skipped 0")
	assert.Contains(t, out, " - warning: messages: bad yaml")
}

func TestCast(t *testing.T) {
	e := newEnv(t, map[string]string{"heal.yml": healSkill, "smite.yml": smiteSkill}, nil)

	t.Run("usage", func(t *testing.T) {
		assert.Equal(t, "Usage: cast <skillId> [player]", e.handler.Execute("cast"))
	})

	t.Run("console needs a player", func(t *testing.T) {
		assert.Equal(t, "Console must specify player: cast <skillId> <player>", e.handler.Execute("cast heal"))
	})

	t.Run("unknown player", func(t *testing.T) {
		assert.Equal(t, "Player not found: Herobrine", e.handler.Execute("cast heal Herobrine"))
	})

	t.Run("success shows effects", func(t *testing.T) {
		out := e.handler.Execute("cast heal steve")
		assert.True(t, strings.HasPrefix(out, "Cast heal: OK"), out)
		assert.Contains(t, out, "> heal Steve")
		assert.Contains(t, out, "> text Steve: [chat] Healed")
		assert.Equal(t, 14.0, e.steve.Health())
	})

	t.Run("cooldown", func(t *testing.T) {
		out := e.handler.Execute("cast heal Steve")
		assert.True(t, strings.HasPrefix(out, "Cast heal: FAIL: COOLDOWN:5s"), out)
	})

	t.Run("target", func(t *testing.T) {
		out := e.handler.Execute("cast smite Steve")
		assert.True(t, strings.HasPrefix(out, "Cast smite: OK"), out)
		assert.Contains(t, out, "> damage zombie: 4.0 from Steve (health 16.0)")
	})

	t.Run("no target", func(t *testing.T) {
		out := e.handler.Execute("cast smite Alex")
		assert.True(t, strings.HasPrefix(out, "Cast smite: FAIL: NO_TARGET"), out)
	})

	t.Run("unknown skill", func(t *testing.T) {
		assert.Equal(t, "Cast nope: FAIL: UNKNOWN_SKILL", e.handler.Execute("cast nope Steve"))
	})
}

func TestCastDefaultPlayer(t *testing.T) {
	e := newEnv(t, map[string]string{"heal.yml": healSkill}, func(d *Deps) { d.DefaultPlayer = "Steve" })

	out := e.handler.Execute("cast HEAL")
	assert.True(t, strings.HasPrefix(out, "Cast HEAL: OK"), out)
}

func TestSkillsAndPlayers(t *testing.T) {
	e := newEnv(t, map[string]string{"heal.yml": healSkill, "smite.yml": smiteSkill, "zap.yml": zapSkill}, nil)

	out := e.handler.Execute("skills")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  heal (Heal) [support] COMMAND /heal -> SELF, cooldown 5s", lines[1])
	assert.Equal(t, "  smite [DEFAULT] COMMAND /smite -> TARGET", lines[2])
	assert.Equal(t, "  zap [DEFAULT] RIGHT_CLICK holding BLAZE_ROD -> SELF", lines[3])

	assert.Contains(t, e.handler.Execute("skills support"), "heal (Heal)")
	assert.Equal(t, "No skills match 'x'.", e.handler.Execute("skills x"))

	out = e.handler.Execute("players")
	assert.Contains(t, out, "Steve level 5, health 10.0/20.0, world(0.0, 64.0, 0.0)")
	assert.Contains(t, out, "Alex level 0")
	assert.NotContains(t, out, "cooldowns")
}

func TestPlayersListsActiveCooldowns(t *testing.T) {
	e := newEnv(t, map[string]string{"heal.yml": healSkill, "smite.yml": smiteSkill}, nil)

	require.True(t, strings.HasPrefix(e.handler.Execute("cast heal Steve"), "Cast heal: OK"))
	require.True(t, strings.HasPrefix(e.handler.Execute("cast smite Steve"), "Cast smite: OK"))

	lines := strings.Split(e.handler.Execute("players"), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^  Steve level 5, .*, cooldowns: heal [45]s$`, lines[1])
	assert.NotContains(t, lines[2], "cooldowns")

	data := e.handler.deps.Players.Get(e.steve.ID())
	data.SetCooldownUntil("heal", time.Now().Add(-time.Second))
	data.SetCooldownUntil("blink", time.Now().Add(90*time.Second))
	lines = strings.Split(e.handler.Execute("players"), "\n")
	assert.Regexp(t, `, cooldowns: blink (89|90)s$`, lines[1])
}

func TestComplete(t *testing.T) {
	e := newEnv(t, map[string]string{"heal.yml": healSkill, "smite.yml": smiteSkill}, nil)

	tests := []struct {
		input string
		want  string
	}{
		{"complete re", "reload"},
		{"complete C", "cast complete"},
		{"complete cast ", "heal smite"},
		{"complete cast S", "smite"},
		{"complete cast heal st", "Steve"},
		{"complete cast heal ", "Steve Alex"},
		{"complete emit c", "command click"},
		{"complete emit hit Steve z", "zombie"},
		{"complete emit click Steve ", "left right"},
		{"complete emit command Steve ", "/heal /smite"},
		{"complete emit command Steve /SM", "/smite"},
		{"complete emit command Steve he", "/heal"},
		{"complete history ", "reloads heal smite"},
		{"complete history r", "reloads"},
		{"complete debug o", "on off"},
		{"complete reload x", "(no suggestions)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, e.handler.Execute(tt.input))
		})
	}

	assert.Equal(t, strings.Join(subcommands, " "), e.handler.Execute("complete"))
}

func TestEmit(t *testing.T) {
	e := newEnv(t, map[string]string{"smite.yml": smiteSkill, "zap.yml": zapSkill, "thorns.yml": thornsSkill}, nil)

	t.Run("usage", func(t *testing.T) {
		assert.Equal(t, emitUsage, e.handler.Execute("emit"))
		assert.Equal(t, emitUsage, e.handler.Execute("emit jump Steve"))
	})

	t.Run("command consumed", func(t *testing.T) {
		out := e.handler.Execute("emit command Steve /SMITE now")
		assert.True(t, strings.HasPrefix(out, "Triggered 1 skill(s):\n  Cast smite: OK"), out)
		assert.Contains(t, out, "> damage zombie")
	})

	t.Run("command passes through", func(t *testing.T) {
		assert.Equal(t, "No skill is bound to /spawn; the command passes through.",
			e.handler.Execute("emit command Steve /spawn"))
	})

	t.Run("click with material", func(t *testing.T) {
		out := e.handler.Execute("emit click Steve")
		assert.True(t, strings.HasPrefix(out, "Triggered 1 skill(s):\n  Cast zap: OK"), out)
		assert.Equal(t, "No skills triggered.", e.handler.Execute("emit click Steve left"))
		assert.Equal(t, "No skills triggered.", e.handler.Execute("emit click Alex right"))
	})

	t.Run("damage by living entity", func(t *testing.T) {
		out := e.handler.Execute("emit damage Alex zombie")
		assert.True(t, strings.HasPrefix(out, "Triggered 1 skill(s):\n  Cast thorns: OK"), out)
		assert.Contains(t, out, "> damage zombie: 2.0 from Alex")
	})

	t.Run("environmental damage", func(t *testing.T) {
		out := e.handler.Execute("emit damage Alex")
		assert.True(t, strings.HasPrefix(out, "Triggered 1 skill(s):\n  Cast thorns: FAIL: NO_TARGET"), out)
	})

	t.Run("unknown entity", func(t *testing.T) {
		assert.Equal(t, "Entity not found: ghast", e.handler.Execute("emit hit Steve ghast"))
	})
}

func TestHistoryWithJournal(t *testing.T) {
	j, err := journal.Open(context.Background(), journal.DefaultConfig(filepath.Join(t.TempDir(), "journal.db")))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	e := newEnv(t, map[string]string{"heal.yml": healSkill, "smite.yml": smiteSkill}, func(d *Deps) {
		d.Journal = j
		d.Engine = engine.NewService(d.Catalog, d.Players, d.World, d.Vocab, engine.WithRecorder(j))
	})

	assert.Equal(t, "No casts recorded.", e.handler.Execute("history"))

	e.handler.Execute("cast heal Steve")
	e.handler.Execute("cast heal Steve")
	e.handler.Execute("cast smite Steve")

	out := e.handler.Execute("history")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Recent casts:", lines[0])
	assert.Contains(t, lines[1], "Steve cast smite via console: OK")
	assert.Contains(t, lines[2], "Steve cast heal via console: COOLDOWN:5s")

	out = e.handler.Execute("history HEAL 1")
	lines = strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "cast heal via console: COOLDOWN:5s")

	assert.Equal(t, "Usage: history [skillId] [count]", e.handler.Execute("history 0"))

	assert.Equal(t, "No reloads recorded.", e.handler.Execute("history reloads"))

	e.handler.Execute("reload")
	writeSkill(t, e.dir, "broken.yml", "id: [")
	e.handler.Execute("reload")

	reloads, err := j.RecentReloads(5)
	require.NoError(t, err)
	require.Len(t, reloads, 2)
	assert.Equal(t, 2, reloads[1].Loaded)
	assert.Equal(t, e.dir, reloads[1].Dir)

	out = e.handler.Execute("history RELOADS")
	lines = strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Recent reloads:", lines[0])
	assert.Contains(t, lines[1], e.dir+": loaded 2, skipped 1")
	assert.Contains(t, lines[2], e.dir+": loaded 2, skipped 0")

	lines = strings.Split(e.handler.Execute("history reloads 1"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Usage: history reloads [count]", e.handler.Execute("history reloads 0"))
	assert.Equal(t, "Usage: history reloads [count]", e.handler.Execute("history reloads many"))
}

func TestHistoryWithoutJournal(t *testing.T) {
	e := newEnv(t, nil, nil)
	assert.Equal(t, "Journal is disabled.", e.handler.Execute("history"))
}

func TestDebugToggle(t *testing.T) {
	e := newEnv(t, nil, nil)
	t.Cleanup(func() { logger.SetDebug(false) })

	assert.Equal(t, "Debug logging enabled.", e.handler.Execute("debug on"))
	assert.True(t, logger.DebugEnabled())
	assert.Equal(t, "Debug logging is on.", e.handler.Execute("debug"))
	assert.Equal(t, "Debug logging disabled.", e.handler.Execute("debug OFF"))
	assert.False(t, logger.DebugEnabled())
	assert.Equal(t, "Usage: debug [on|off]", e.handler.Execute("debug maybe"))
}

func TestHelpAndUnknown(t *testing.T) {
	e := newEnv(t, nil, nil)

	assert.Contains(t, e.handler.Execute("help"), "cast <skillId> [player]")
	assert.Contains(t, e.handler.Execute("help cast"), "Cast <id>: FAIL: <reason>")
	assert.Equal(t, "No help for 'dance'.", e.handler.Execute("help dance"))
	assert.Equal(t, "Unknown subcommand: dance. Type 'help' for available commands.", e.handler.Execute("dance"))
	assert.Equal(t, "Goodbye.", e.handler.Execute("quit"))
	assert.Equal(t, "", e.handler.Execute("   "))
}

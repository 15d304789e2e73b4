package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/playerdata"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/sandbox"
	"github.com/minekent/skillsengine/internal/skill"
	"github.com/minekent/skillsengine/internal/vocab"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type memRecorder struct {
	records []CastRecord
}

func (r *memRecorder) RecordCast(rec CastRecord) {
	r.records = append(r.records, rec)
}

// fixture is a sandbox with Steve at the origin looking at a zombie three blocks away.
type fixture struct {
	world   *sandbox.World
	steve   *sandbox.Player
	zombie  *sandbox.Creature
	players *playerdata.Store
	catalog *registry.Catalog
	clock   *fakeClock
	rec     *memRecorder
	svc     *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	w := sandbox.NewWorld("world", "world_nether")
	steve, err := w.AddPlayer(sandbox.PlayerSpec{
		Name:        "Steve",
		Position:    sandbox.Position{World: "world", Y: 64},
		Level:       10,
		Permissions: []string{"skills.basic"},
		Inventory: []sandbox.ItemSpec{
			{Item: "BLAZE_ROD", Amount: 2},
			{Item: "DIAMOND", Amount: 3},
		},
	})
	require.NoError(t, err)

	zombie, err := w.AddEntity(sandbox.EntitySpec{
		Name:     "zombie",
		Type:     "ZOMBIE",
		Position: sandbox.Position{World: "world", Y: 64, Z: 3},
	})
	require.NoError(t, err)

	f := &fixture{
		world:   w,
		steve:   steve,
		zombie:  zombie,
		players: playerdata.NewStore(),
		catalog: registry.NewCatalog(),
		clock:   &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		rec:     &memRecorder{},
	}
	all := append([]Option{WithClock(f.clock.Now), WithRecorder(f.rec)}, opts...)
	f.svc = NewService(f.catalog, f.players, w, vocab.Default(), all...)
	return f
}

func (f *fixture) publish(skills ...*skill.Skill) {
	reg := registry.New()
	for _, s := range skills {
		reg.Register(s)
	}
	f.catalog.Publish(reg)
}

func (f *fixture) cast(id string) Result {
	return f.svc.Cast(f.steve, id, nil)
}

// lastText returns the text of the newest message in Steve's inbox.
func (f *fixture) lastText(t *testing.T) string {
	t.Helper()
	inbox := f.steve.Inbox()
	require.NotEmpty(t, inbox, "expected a message")
	return inbox[len(inbox)-1].Text
}

func sandboxCow() sandbox.EntitySpec {
	return sandbox.EntitySpec{
		Name:      "cow",
		Type:      "COW",
		Position:  sandbox.Position{World: "world", X: 20, Y: 64},
		MaxHealth: 10,
	}
}

func sandboxStand() sandbox.EntitySpec {
	living := false
	return sandbox.EntitySpec{
		Name:     "stand",
		Type:     "ARMOR_STAND",
		Position: sandbox.Position{World: "world", X: 50, Y: 64, Z: 50},
		Living:   &living,
	}
}

func newSkill(id string, target skill.TargetKind, actions ...skill.ActionSpec) *skill.Skill {
	return &skill.Skill{
		ID:      id,
		Name:    id,
		Trigger: skill.TriggerSpec{Kind: skill.TriggerCommand, Params: skill.Params{"command": id}},
		Target:  skill.TargetSpec{Kind: target, Params: skill.Params{}},
		Actions: actions,
	}
}

func act(kind skill.ActionKind, params skill.Params) skill.ActionSpec {
	return skill.ActionSpec{Kind: kind, Params: params}
}

func cond(kind skill.ConditionKind, params skill.Params) skill.ConditionSpec {
	return skill.ConditionSpec{Kind: kind, Params: params}
}

func texts(messages []host.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Text)
	}
	return out
}

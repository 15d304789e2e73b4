package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/sandbox"
	"github.com/minekent/skillsengine/internal/skill"
	"github.com/minekent/skillsengine/internal/vocab"
)

// spyHost captures the structured arguments the sandbox only logs as text.
type spyHost struct {
	*sandbox.World
	particles []host.Particle
	listeners [][]host.Player
}

func (s *spyHost) EmitParticle(at host.Location, particle host.Particle) error {
	s.particles = append(s.particles, particle)
	return s.World.EmitParticle(at, particle)
}

func (s *spyHost) EmitSound(at host.Location, listeners []host.Player, sound host.Sound) error {
	s.listeners = append(s.listeners, listeners)
	return s.World.EmitSound(at, listeners, sound)
}

func newExecutor(t *testing.T) (*fixture, *spyHost, *ActionExecutor) {
	t.Helper()
	f := newFixture(t)
	spy := &spyHost{World: f.world}
	return f, spy, NewActionExecutor(spy, vocab.Default())
}

// run executes actions with the zombie as the single target.
func (f *fixture) run(e *ActionExecutor, actions ...skill.ActionSpec) Result {
	sk := newSkill("test", skill.TargetSingle, actions...)
	loc := f.zombie.Location()
	ctx := &CastContext{
		Skill:          sk,
		Caster:         f.steve,
		Target:         f.zombie,
		TargetLocation: &loc,
		Targets:        []host.Entity{f.zombie},
	}
	return e.ExecuteAll(ctx)
}

func TestActionDamageAndHeal(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionDamage, skill.Params{"amount": 8})).OK)
	assert.Equal(t, 12.0, f.zombie.Health())

	require.True(t, f.run(e, act(skill.ActionHeal, skill.Params{"amount": 5})).OK)
	assert.Equal(t, 17.0, f.zombie.Health())

	require.True(t, f.run(e, act(skill.ActionHeal, skill.Params{"amount": 10})).OK)
	assert.Equal(t, 20.0, f.zombie.Health(), "healing stops at max health")

	require.True(t, f.run(e, act(skill.ActionDamage, skill.Params{})).OK)
	assert.Equal(t, 19.0, f.zombie.Health(), "default amount is 1")
}

func TestActionPotion(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionPotion, skill.Params{"effect": "speed", "duration": 3, "amplifier": 1})).OK)
	statuses := f.zombie.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, host.Status{Kind: "SPEED", DurationTicks: 60, Amplifier: 1, Particles: true, Icon: true}, statuses[0])

	assert.Equal(t, "POTION:bad_effect:FLYING", f.run(e, act(skill.ActionPotion, skill.Params{"effect": "FLYING"})).String())
	assert.Equal(t, "POTION:missing_effect", f.run(e, act(skill.ActionPotion, skill.Params{})).String())
}

func TestActionParticleColors(t *testing.T) {
	tests := []struct {
		name  string
		color any
		want  host.Color
	}{
		{"hex", "#00ff80", host.Color{G: 255, B: 128}},
		{"rgb list clamps", "10, 300, -5", host.Color{R: 10, G: 255}},
		{"packed integer", 65280, host.Color{G: 255}},
		{"garbage falls back to red", "purple", host.Color{R: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, spy, e := newExecutor(t)
			res := f.run(e, act(skill.ActionParticles, skill.Params{"particle": "dust", "color": tt.color, "size": 2}))
			require.True(t, res.OK)
			require.Len(t, spy.particles, 1)
			require.NotNil(t, spy.particles[0].Dust)
			assert.Equal(t, tt.want, spy.particles[0].Dust.From)
			assert.Equal(t, 2.0, spy.particles[0].Dust.Size)
		})
	}
}

func TestActionParticlesSkipsEmptyBursts(t *testing.T) {
	f, spy, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionParticles, skill.Params{"particle": "FLAME", "count": 0})).OK)
	require.True(t, f.run(e, act(skill.ActionParticles, skill.Params{})).OK)
	assert.Empty(t, spy.particles)

	assert.Equal(t, "PARTICLES:bad_particle:SPARKLES", f.run(e, act(skill.ActionParticles, skill.Params{"particle": "SPARKLES"})).String())
}

func TestActionSoundAudience(t *testing.T) {
	f, spy, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionSound, skill.Params{"sound": "ENTITY_BLAZE_SHOOT", "mode": "caster"})).OK)
	require.True(t, f.run(e, act(skill.ActionSound, skill.Params{"sound": "ENTITY_BLAZE_SHOOT"})).OK)
	// The only target is a zombie, so nobody would hear a TARGETS sound.
	require.True(t, f.run(e, act(skill.ActionSound, skill.Params{"sound": "ENTITY_BLAZE_SHOOT", "mode": "TARGETS"})).OK)

	require.Len(t, spy.listeners, 2)
	require.Len(t, spy.listeners[0], 1)
	assert.Equal(t, "Steve", spy.listeners[0][0].Name())
	assert.Nil(t, spy.listeners[1])

	assert.Equal(t, "SOUND:bad_mode:NEARBY", f.run(e, act(skill.ActionSound, skill.Params{"sound": "ENTITY_BLAZE_SHOOT", "mode": "nearby"})).String())
	assert.Equal(t, "SOUND:bad_category:LOUD", f.run(e, act(skill.ActionSound, skill.Params{"sound": "ENTITY_BLAZE_SHOOT", "category": "LOUD"})).String())
}

func TestActionMessageChannels(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e,
		act(skill.ActionMessage, skill.Params{"text": "&aHit {target}!"}),
		act(skill.ActionMessage, skill.Params{"message": "bar", "mode": "actionbar"}),
		act(skill.ActionActionBar, skill.Params{"text": "{skill} ready"}),
		act(skill.ActionTitle, skill.Params{"title": "Boom", "subtitle": "by {player}"}),
		act(skill.ActionMessage, skill.Params{"text": "   "}),
	).OK)

	inbox := f.steve.Inbox()
	require.Len(t, inbox, 4)
	assert.Equal(t, host.Message{Channel: host.ChannelChat, Text: "§aHit zombie!"}, inbox[0])
	assert.Equal(t, host.ChannelActionBar, inbox[1].Channel)
	assert.Equal(t, "test ready", inbox[2].Text)
	assert.Equal(t, host.Message{Channel: host.ChannelTitle, Text: "Boom", Subtitle: "by Steve", FadeIn: 10, Stay: 40, FadeOut: 10}, inbox[3])

	assert.Equal(t, "MESSAGE:bad_mode:WHISPER", f.run(e, act(skill.ActionMessage, skill.Params{"text": "x", "mode": "whisper"})).String())
}

func TestActionCommand(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionCommand, skill.Params{"command": "/say {player} hits {target}", "executor": "player"})).OK)
	require.True(t, f.run(e, act(skill.ActionCommand, skill.Params{"command": "time set day"})).OK)

	events := f.world.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, sandbox.Event{Op: "command", Target: "Steve", Detail: "/say Steve hits zombie"}, events[0])
	assert.Equal(t, "console", events[1].Target)

	assert.Equal(t, "COMMAND:missing_command", f.run(e, act(skill.ActionCommand, skill.Params{})).String())
	assert.Equal(t, "COMMAND:bad_executor:OP", f.run(e, act(skill.ActionCommand, skill.Params{"command": "x", "executor": "op"})).String())
}

func TestActionTeleport(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionTeleport, skill.Params{"to": "target"})).OK)
	assert.Equal(t, 3.0, f.steve.Location().Z)

	require.True(t, f.run(e, act(skill.ActionTeleport, skill.Params{"to": "LOCATION", "world": "world_nether", "x": 8, "y": 70})).OK)
	loc := f.steve.Location()
	assert.Equal(t, "world_nether", loc.World)
	assert.Equal(t, 8.0, loc.X)
	assert.Equal(t, 70.0, loc.Y)
	assert.Equal(t, 3.0, loc.Z, "missing coordinates keep the caster's")

	require.True(t, f.run(e, act(skill.ActionTeleport, skill.Params{"to": "LOCATION", "world": "World_Nether", "x": 1})).OK)
	assert.Equal(t, "world_nether", f.steve.Location().World)

	assert.Equal(t, "TELEPORT:bad_to:HOME", f.run(e, act(skill.ActionTeleport, skill.Params{"to": "home"})).String())
}

func TestActionKnockbackAndPull(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionKnockback, skill.Params{"strength": 2})).OK)
	v := f.zombie.Velocity()
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 0.35, v.Y, 1e-9)
	assert.InDelta(t, 2, v.Z, 1e-9)

	require.True(t, f.run(e, act(skill.ActionPull, skill.Params{"power": 1.5, "y": 0})).OK)
	v = f.zombie.Velocity()
	assert.InDelta(t, 0, v.Y, 1e-9)
	assert.InDelta(t, -1.5, v.Z, 1e-9)
}

func TestActionDashKeepsVerticalVelocity(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionDash, skill.Params{"power": 2})).OK)
	v := f.steve.Velocity()
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 0, v.Y, 1e-9)
	assert.InDelta(t, 2, v.Z, 1e-9)
}

func TestActionFireAndExplosion(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionSetFire, skill.Params{"seconds": 4})).OK)
	require.True(t, f.run(e, act(skill.ActionSetFire, skill.Params{"ticks": 20})).OK)
	assert.Equal(t, 80, f.zombie.FireTicks(), "a shorter burn does not shorten the current one")

	require.True(t, f.run(e, act(skill.ActionExplosion, skill.Params{"power": 3, "at": "caster"})).OK)
	events := f.world.Drain()
	last := events[len(events)-1]
	assert.Equal(t, "explosion", last.Op)
	assert.Equal(t, "world(0.0, 64.0, 0.0)", last.Target)
}

func TestActionItems(t *testing.T) {
	f, _, e := newExecutor(t)

	require.True(t, f.run(e, act(skill.ActionGiveItem, skill.Params{"material": "diamond", "amount": 2})).OK)
	assert.Equal(t, 5, f.steve.Items().Count("DIAMOND"))

	require.True(t, f.run(e, act(skill.ActionTakeItem, skill.Params{"material": "BLAZE_ROD", "amount": 5})).OK)
	assert.Equal(t, 0, f.steve.Items().Count("BLAZE_ROD"))

	assert.Equal(t, "GIVE_ITEM:bad_material:unobtainium", f.run(e, act(skill.ActionGiveItem, skill.Params{"material": "unobtainium"})).String())
	assert.Equal(t, "TAKE_ITEM:missing_material", f.run(e, act(skill.ActionTakeItem, skill.Params{})).String())
}

func TestActionSpawnEntity(t *testing.T) {
	f, _, e := newExecutor(t)
	before := len(f.world.Entities())

	require.True(t, f.run(e, act(skill.ActionSpawnEntity, skill.Params{"entity": "zombie", "count": 2})).OK)
	assert.Len(t, f.world.Entities(), before+2)

	assert.Equal(t, "SPAWN_ENTITY:bad_entity:DRAGONFLY", f.run(e, act(skill.ActionSpawnEntity, skill.Params{"entity": "DRAGONFLY"})).String())
}

func TestUnknownActionStopsExecution(t *testing.T) {
	f, _, e := newExecutor(t)

	res := f.run(e,
		act(skill.ActionKind("FLY"), skill.Params{}),
		act(skill.ActionDamage, skill.Params{"amount": 5}),
	)

	assert.Equal(t, "UNKNOWN_ACTION:FLY", res.String())
	assert.Equal(t, 20.0, f.zombie.Health())
}

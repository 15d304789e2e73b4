package engine

import (
	"strconv"
	"strings"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/skill"
	"github.com/minekent/skillsengine/internal/text"
)

const defaultMaxHealth = 20.0

// ActionExecutor runs a skill's actions against the host.
type ActionExecutor struct {
	host  host.Host
	vocab host.Vocabulary
}

// NewActionExecutor creates an executor delegating effects to h.
func NewActionExecutor(h host.Host, vocab host.Vocabulary) *ActionExecutor {
	return &ActionExecutor{host: h, vocab: vocab}
}

type actionHandler func(e *ActionExecutor, ctx *CastContext, p skill.Params) Result

var actionHandlers = map[skill.ActionKind]actionHandler{
	skill.ActionDamage:      (*ActionExecutor).damage,
	skill.ActionHeal:        (*ActionExecutor).heal,
	skill.ActionPotion:      (*ActionExecutor).potion,
	skill.ActionDash:        (*ActionExecutor).dash,
	skill.ActionParticles:   (*ActionExecutor).particles,
	skill.ActionSound:       (*ActionExecutor).sound,
	skill.ActionMessage:     (*ActionExecutor).message,
	skill.ActionActionBar:   (*ActionExecutor).actionBar,
	skill.ActionTitle:       (*ActionExecutor).title,
	skill.ActionCommand:     (*ActionExecutor).command,
	skill.ActionTeleport:    (*ActionExecutor).teleport,
	skill.ActionKnockback:   (*ActionExecutor).knockback,
	skill.ActionPull:        (*ActionExecutor).pull,
	skill.ActionSetFire:     (*ActionExecutor).setFire,
	skill.ActionExplosion:   (*ActionExecutor).explosion,
	skill.ActionGiveItem:    (*ActionExecutor).giveItem,
	skill.ActionTakeItem:    (*ActionExecutor).takeItem,
	skill.ActionSpawnEntity: (*ActionExecutor).spawnEntity,
}

// ExecuteAll runs the actions in order and stops at the first failure.
// Effects of earlier actions are not undone.
func (e *ActionExecutor) ExecuteAll(ctx *CastContext) Result {
	for _, a := range ctx.Skill.Actions {
		if a.Kind == "" {
			continue
		}
		handler, ok := actionHandlers[a.Kind]
		if !ok {
			return FailDetail(ReasonUnknownAction, string(a.Kind))
		}
		if res := handler(e, ctx, a.Params); !res.OK {
			return res
		}
	}
	return Success()
}

func (e *ActionExecutor) damage(ctx *CastContext, p skill.Params) Result {
	amount := p.Float("amount", 1.0)
	for _, t := range ctx.Targets {
		if err := e.host.Damage(t, amount, ctx.Caster); err != nil {
			return actionError(skill.ActionDamage, err)
		}
	}
	return Success()
}

func (e *ActionExecutor) heal(ctx *CastContext, p skill.Params) Result {
	amount := p.Float("amount", 1.0)
	for _, t := range ctx.Targets {
		limit := e.host.MaxHealth(t)
		if limit <= 0 {
			limit = defaultMaxHealth
		}
		if err := e.host.Heal(t, amount, limit); err != nil {
			return actionError(skill.ActionHeal, err)
		}
	}
	return Success()
}

func (e *ActionExecutor) potion(ctx *CastContext, p skill.Params) Result {
	raw := strings.TrimSpace(p.String("effect", ""))
	if raw == "" {
		return actionFailure(skill.ActionPotion, "missing_effect")
	}
	if e.vocab != nil && !e.vocab.HasStatus(raw) {
		return actionFailure(skill.ActionPotion, "bad_effect:"+raw)
	}

	status := host.Status{
		Kind:          strings.ToUpper(raw),
		DurationTicks: p.Int("durationTicks", 20*p.Int("duration", 5)),
		Amplifier:     max(0, p.Int("amplifier", 0)),
		Ambient:       p.Bool("ambient", false),
		Particles:     p.Bool("particles", true),
		Icon:          p.Bool("icon", true),
	}
	for _, t := range ctx.Targets {
		if err := e.host.ApplyStatus(t, status); err != nil {
			return actionError(skill.ActionPotion, err)
		}
	}
	return Success()
}

func (e *ActionExecutor) dash(ctx *CastContext, p skill.Params) Result {
	power := p.Float("power", 1.2)
	dir := ctx.Caster.Facing().Normalize().Scale(power)
	if p.Bool("keepY", true) {
		dir.Y = ctx.Caster.Velocity().Y
	}
	if err := e.host.ApplyVelocity(ctx.Caster, dir); err != nil {
		return actionError(skill.ActionDash, err)
	}
	return Success()
}

func (e *ActionExecutor) particles(ctx *CastContext, p skill.Params) Result {
	raw := strings.TrimSpace(p.String("particle", ""))
	if raw == "" {
		return Success()
	}
	if e.vocab != nil && !e.vocab.HasParticle(raw) {
		return actionFailure(skill.ActionParticles, "bad_particle:"+raw)
	}

	kind := strings.ToUpper(raw)
	offset := p.Float("offset", 0.2)
	particle := host.Particle{
		Kind:  kind,
		Count: max(0, p.Int("count", 10)),
		Offset: host.Vector{
			X: p.Float("offsetX", offset),
			Y: p.Float("offsetY", offset),
			Z: p.Float("offsetZ", offset),
		},
		Speed: p.Float("speed", 0),
		Force: p.Bool("show_all_players", false),
	}

	switch kind {
	case "DUST":
		particle.Dust = &host.Dust{
			From: parseColor(p, "color", host.Color{R: 255}),
			Size: p.Float("size", 1.0),
		}
	case "DUST_COLOR_TRANSITION":
		particle.Dust = &host.Dust{
			From:       parseColor(p, "color", host.Color{R: 255}),
			To:         parseColor(p, "toColor", host.Color{R: 255, G: 255, B: 255}),
			Size:       p.Float("size", 1.0),
			Transition: true,
		}
	}

	if particle.Count == 0 {
		return Success()
	}
	if err := e.host.EmitParticle(resolveLocation(ctx, p), particle); err != nil {
		return actionError(skill.ActionParticles, err)
	}
	return Success()
}

func (e *ActionExecutor) sound(ctx *CastContext, p skill.Params) Result {
	raw := strings.TrimSpace(p.String("sound", ""))
	if raw == "" {
		return Success()
	}
	if e.vocab != nil && !e.vocab.HasSound(raw) {
		return actionFailure(skill.ActionSound, "bad_sound:"+raw)
	}

	snd := host.Sound{
		Kind:   strings.ToUpper(raw),
		Volume: p.Float("volume", 1.0),
		Pitch:  p.Float("pitch", 1.0),
	}
	if cat := strings.TrimSpace(p.String("category", "")); cat != "" {
		if e.vocab != nil && !e.vocab.HasSoundCategory(cat) {
			return actionFailure(skill.ActionSound, "bad_category:"+cat)
		}
		snd.Category = strings.ToUpper(cat)
	}

	var listeners []host.Player
	mode := strings.ToUpper(p.String("mode", "WORLD"))
	switch mode {
	case "CASTER":
		listeners = []host.Player{ctx.Caster}
	case "TARGETS":
		for _, t := range ctx.Targets {
			if pl, ok := t.(host.Player); ok {
				listeners = append(listeners, pl)
			}
		}
		if len(listeners) == 0 {
			return Success()
		}
	case "WORLD":
		// nil listeners: everyone nearby hears it
	default:
		return actionFailure(skill.ActionSound, "bad_mode:"+mode)
	}

	if err := e.host.EmitSound(resolveLocation(ctx, p), listeners, snd); err != nil {
		return actionError(skill.ActionSound, err)
	}
	return Success()
}

func (e *ActionExecutor) message(ctx *CastContext, p skill.Params) Result {
	raw := p.String("text", p.String("message", ""))
	if strings.TrimSpace(raw) == "" {
		return Success()
	}

	msg := host.Message{Text: formatText(ctx, raw)}
	mode := strings.ToUpper(p.String("mode", "CHAT"))
	switch mode {
	case "CHAT":
		msg.Channel = host.ChannelChat
	case "ACTIONBAR":
		msg.Channel = host.ChannelActionBar
	case "TITLE":
		msg.Channel = host.ChannelTitle
		msg.FadeIn, msg.Stay, msg.FadeOut = 10, 40, 10
	default:
		return actionFailure(skill.ActionMessage, "bad_mode:"+mode)
	}

	if err := e.host.SendText(ctx.Caster, msg); err != nil {
		return actionError(skill.ActionMessage, err)
	}
	return Success()
}

func (e *ActionExecutor) actionBar(ctx *CastContext, p skill.Params) Result {
	raw := p.String("text", p.String("message", ""))
	if strings.TrimSpace(raw) == "" {
		return Success()
	}
	msg := host.Message{Channel: host.ChannelActionBar, Text: formatText(ctx, raw)}
	if err := e.host.SendText(ctx.Caster, msg); err != nil {
		return actionError(skill.ActionActionBar, err)
	}
	return Success()
}

func (e *ActionExecutor) title(ctx *CastContext, p skill.Params) Result {
	title := p.String("title", p.String("text", ""))
	subtitle := p.String("subtitle", "")
	if strings.TrimSpace(title) == "" && strings.TrimSpace(subtitle) == "" {
		return Success()
	}

	msg := host.Message{
		Channel:  host.ChannelTitle,
		Text:     formatText(ctx, title),
		Subtitle: formatText(ctx, subtitle),
		FadeIn:   max(0, p.Int("fadeIn", 10)),
		Stay:     max(0, p.Int("stay", 40)),
		FadeOut:  max(0, p.Int("fadeOut", 10)),
	}
	if err := e.host.SendText(ctx.Caster, msg); err != nil {
		return actionError(skill.ActionTitle, err)
	}
	return Success()
}

func (e *ActionExecutor) command(ctx *CastContext, p skill.Params) Result {
	raw := p.String("command", "")
	if strings.TrimSpace(raw) == "" {
		return actionFailure(skill.ActionCommand, "missing_command")
	}

	var as host.Player
	executor := strings.ToUpper(p.String("executor", "CONSOLE"))
	switch executor {
	case "CONSOLE":
	case "PLAYER":
		as = ctx.Caster
	default:
		return actionFailure(skill.ActionCommand, "bad_executor:"+executor)
	}

	cmd := strings.TrimPrefix(formatText(ctx, raw), "/")
	if err := e.host.DispatchCommand(as, cmd); err != nil {
		return actionFailure(skill.ActionCommand, "dispatch_failed")
	}
	return Success()
}

func (e *ActionExecutor) teleport(ctx *CastContext, p skill.Params) Result {
	casterLoc := ctx.Caster.Location()

	var dest host.Location
	to := strings.ToUpper(p.String("to", "CENTER"))
	switch to {
	case "CASTER":
		dest = casterLoc
	case "TARGET":
		if ctx.Target == nil {
			return actionFailure(skill.ActionTeleport, "no_target")
		}
		dest = ctx.Target.Location()
	case "CENTER":
		dest = casterLoc
		if ctx.TargetLocation != nil {
			dest = *ctx.TargetLocation
		}
	case "LOCATION":
		world := strings.TrimSpace(p.String("world", ""))
		if world == "" {
			world = casterLoc.World
		} else if !e.host.WorldExists(world) {
			return actionFailure(skill.ActionTeleport, "bad_world:"+world)
		}
		dest = host.Location{
			World: world,
			X:     p.Float("x", casterLoc.X),
			Y:     p.Float("y", casterLoc.Y),
			Z:     p.Float("z", casterLoc.Z),
			Yaw:   p.Float("yaw", casterLoc.Yaw),
			Pitch: p.Float("pitch", casterLoc.Pitch),
		}
	default:
		return actionFailure(skill.ActionTeleport, "bad_to:"+to)
	}

	if err := e.host.Teleport(ctx.Caster, dest); err != nil {
		return actionFailure(skill.ActionTeleport, "failed")
	}
	return Success()
}

func (e *ActionExecutor) knockback(ctx *CastContext, p skill.Params) Result {
	return e.push(ctx, p, skill.ActionKnockback, false)
}

func (e *ActionExecutor) pull(ctx *CastContext, p skill.Params) Result {
	return e.push(ctx, p, skill.ActionPull, true)
}

// push moves every target away from the caster, or towards it when toward is set.
// Targets standing on the caster are left alone.
func (e *ActionExecutor) push(ctx *CastContext, p skill.Params, kind skill.ActionKind, toward bool) Result {
	strength := p.Float("strength", p.Float("power", 1.0))
	lift := p.Float("y", 0.35)
	origin := ctx.Caster.Location().Vector()

	for _, t := range ctx.Targets {
		if t == nil {
			continue
		}
		dir := t.Location().Vector().Sub(origin)
		if toward {
			dir = origin.Sub(t.Location().Vector())
		}
		if dir.LengthSquared() < 0.0001 {
			continue
		}
		v := dir.Normalize().Scale(strength)
		v.Y = lift
		if err := e.host.ApplyVelocity(t, v); err != nil {
			return actionError(kind, err)
		}
	}
	return Success()
}

func (e *ActionExecutor) setFire(ctx *CastContext, p skill.Params) Result {
	ticks := max(0, p.Int("ticks", 20*p.Int("seconds", 3)))
	for _, t := range ctx.Targets {
		if err := e.host.SetOnFire(t, ticks); err != nil {
			return actionError(skill.ActionSetFire, err)
		}
	}
	return Success()
}

func (e *ActionExecutor) explosion(ctx *CastContext, p skill.Params) Result {
	ex := host.Explosion{
		Power:       p.Float("power", 2.0),
		SetFire:     p.Bool("setFire", false),
		BreakBlocks: p.Bool("breakBlocks", false),
		Source:      ctx.Caster,
	}
	if !p.Bool("damageEntities", true) {
		ex.Power = 0
		ex.Source = nil
	}
	if err := e.host.CreateExplosion(resolveLocation(ctx, p), ex); err != nil {
		return actionError(skill.ActionExplosion, err)
	}
	return Success()
}

func (e *ActionExecutor) giveItem(ctx *CastContext, p skill.Params) Result {
	item, amount, res := e.itemParams(skill.ActionGiveItem, p)
	if !res.OK {
		return res
	}
	if err := e.host.GiveItem(ctx.Caster, item, amount); err != nil {
		return actionError(skill.ActionGiveItem, err)
	}
	return Success()
}

func (e *ActionExecutor) takeItem(ctx *CastContext, p skill.Params) Result {
	item, amount, res := e.itemParams(skill.ActionTakeItem, p)
	if !res.OK {
		return res
	}
	if err := e.host.TakeItem(ctx.Caster, item, amount); err != nil {
		return actionError(skill.ActionTakeItem, err)
	}
	return Success()
}

func (e *ActionExecutor) itemParams(kind skill.ActionKind, p skill.Params) (string, int, Result) {
	raw := strings.TrimSpace(p.String("material", ""))
	if raw == "" {
		return "", 0, actionFailure(kind, "missing_material")
	}
	item, ok := matchItem(e.vocab, raw)
	if !ok {
		return "", 0, actionFailure(kind, "bad_material:"+raw)
	}
	return item, max(1, p.Int("amount", 1)), Success()
}

func (e *ActionExecutor) spawnEntity(ctx *CastContext, p skill.Params) Result {
	raw := strings.TrimSpace(p.String("entity", ""))
	if raw == "" {
		return actionFailure(skill.ActionSpawnEntity, "missing_entity")
	}
	if e.vocab != nil && !e.vocab.HasEntityType(raw) {
		return actionFailure(skill.ActionSpawnEntity, "bad_entity:"+raw)
	}

	count := max(1, p.Int("count", 1))
	if err := e.host.SpawnEntity(resolveLocation(ctx, p), strings.ToUpper(raw), count); err != nil {
		return actionError(skill.ActionSpawnEntity, err)
	}
	return Success()
}

// resolveLocation picks where a positional effect happens. "at" may name
// CASTER, TARGET or CENTER; otherwise the target location wins over the caster.
func resolveLocation(ctx *CastContext, p skill.Params) host.Location {
	switch strings.ToUpper(strings.TrimSpace(p.String("at", ""))) {
	case "CASTER":
		return ctx.Caster.Location()
	case "TARGET":
		if ctx.Target != nil {
			return ctx.Target.Location()
		}
	case "CENTER":
		if ctx.TargetLocation != nil {
			return *ctx.TargetLocation
		}
	}
	if ctx.TargetLocation != nil {
		return *ctx.TargetLocation
	}
	return ctx.Caster.Location()
}

// parseColor accepts "#rrggbb", "r,g,b" (each clamped to 0..255) or a packed integer.
func parseColor(p skill.Params, key string, def host.Color) host.Color {
	if !p.Has(key) {
		return def
	}
	s := strings.TrimSpace(p.String(key, ""))

	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return packedColor(hex, 16, def)
	}

	if parts := strings.Split(s, ","); len(parts) >= 3 {
		var rgb [3]uint8
		for i := range rgb {
			n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil {
				return def
			}
			rgb[i] = uint8(min(255, max(0, n)))
		}
		return host.Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	}

	return packedColor(s, 10, def)
}

func packedColor(s string, base int, def host.Color) host.Color {
	rgb, err := strconv.ParseInt(s, base, 64)
	if err != nil || rgb < 0 || rgb > 0xFFFFFF {
		return def
	}
	return host.Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb)}
}

// formatText substitutes {player}, {skill} and, when a target is known, {target},
// then translates colour codes.
func formatText(ctx *CastContext, raw string) string {
	vars := map[string]string{}
	if ctx.Target != nil {
		vars["target"] = ctx.Target.Name()
	}
	return text.Apply(raw, ctx.Caster.Name(), ctx.Skill.ID, vars)
}

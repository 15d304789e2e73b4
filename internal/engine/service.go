// Package engine runs skill casts: the cooldown gate, conditions, cost,
// targeting and actions, in that order.
package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/minekent/skillsengine/internal/host"
	"github.com/minekent/skillsengine/internal/logger"
	"github.com/minekent/skillsengine/internal/playerdata"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/skill"
	"github.com/minekent/skillsengine/internal/text"
)

// Messages looks up deny-message templates by key.
type Messages interface {
	Template(key string) string
}

// CastRecord describes one cast attempt.
type CastRecord struct {
	At       time.Time
	PlayerID uuid.UUID
	Player   string
	SkillID  string
	Source   string
	Result   Result
}

// Recorder receives every cast attempt, successful or not.
type Recorder interface {
	RecordCast(rec CastRecord)
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for cooldowns.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMessages sets the deny-message templates.
func WithMessages(m Messages) Option {
	return func(s *Service) {
		s.messages = m
	}
}

// WithRecorder reports every cast attempt to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLevelProvider changes where LEVEL_AT_LEAST reads levels from.
func WithLevelProvider(lp LevelProvider) Option {
	return func(s *Service) {
		s.levels = lp
	}
}

// Service casts skills from the published catalog.
//
// Calls must be serialized by the caller: the cooldown gate reads state that
// the commit at the end of a cast writes, and host effects are not safe to
// interleave.
type Service struct {
	catalog *registry.Catalog
	players *playerdata.Store
	host    host.Host

	conditions *ConditionEvaluator
	costs      *CostApplier
	targets    *TargetResolver
	actions    *ActionExecutor

	levels   LevelProvider
	messages Messages
	recorder Recorder
	now      func() time.Time
}

// NewService wires the pipeline stages around h.
func NewService(catalog *registry.Catalog, players *playerdata.Store, h host.Host, vocab host.Vocabulary, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		players: players,
		host:    h,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.conditions = NewConditionEvaluator(vocab, s.levels)
	s.costs = NewCostApplier(vocab)
	s.targets = NewTargetResolver(h)
	s.actions = NewActionExecutor(h, vocab)
	return s
}

// Cast runs skillID for caster. req may be nil.
//
// Gates run in a fixed order: lookup, cooldown, conditions, cost, targets,
// actions. The first failing gate ends the cast and, unless the skill is
// unknown, sends the caster a deny message. The cooldown starts only after
// every action succeeded. A failing action does not undo earlier actions or
// refund the cost.
func (s *Service) Cast(caster host.Player, skillID string, req *CastRequest) Result {
	sk, ok := s.catalog.Current().Registry.Get(skillID)
	if !ok {
		res := Fail(ReasonUnknownSkill)
		s.record(caster, skillID, req, res)
		return res
	}

	res := s.run(caster, sk, req)
	if !res.OK {
		s.sendDeny(caster, sk, res)
	}
	s.record(caster, sk.ID, req, res)
	return res
}

func (s *Service) run(caster host.Player, sk *skill.Skill, req *CastRequest) Result {
	logger.Debug("Cast requested",
		"player", caster.Name(),
		"skill", sk.ID,
		"trigger", sk.Trigger.Kind,
		"target", sk.Target.Kind)

	data := s.players.Get(caster.ID())

	if sk.CooldownMillis > 0 {
		if left := data.Remaining(sk.ID, s.now()); left > 0 {
			res := Cooldown(left)
			logger.Debug("Cast denied by cooldown", "skill", sk.ID, "reason", res.String())
			return res
		}
	}

	if res := s.conditions.CheckAll(caster, sk); !res.OK {
		logger.Debug("Cast denied by condition", "skill", sk.ID, "reason", res.String())
		return res
	}

	if res := s.costs.Apply(caster, sk.Cost); !res.OK {
		logger.Debug("Cast denied by cost", "skill", sk.ID, "reason", res.String())
		return res
	}

	ctx := newCastContext(sk, caster, req)

	if res := s.targets.Resolve(ctx); !res.OK {
		logger.Debug("Cast denied by targeting", "skill", sk.ID, "reason", res.String())
		return res
	}

	if res := s.actions.ExecuteAll(ctx); !res.OK {
		logger.Debug("Cast failed in actions", "skill", sk.ID, "reason", res.String())
		return res
	}

	if sk.CooldownMillis > 0 {
		data.SetCooldownUntil(sk.ID, s.now().Add(sk.Cooldown()))
	}

	logger.Debug("Cast succeeded", "skill", sk.ID, "targets", len(ctx.Targets))
	return Success()
}

// sendDeny tells the caster why the cast failed. The skill's own deny message
// wins over the template configured for the reason, which wins over the
// built-in fallback.
func (s *Service) sendDeny(caster host.Player, sk *skill.Skill, res Result) {
	template := sk.DenyMessage
	if strings.TrimSpace(template) == "" && s.messages != nil {
		template = s.messages.Template(denyMessageKey(res.Reason))
	}
	if strings.TrimSpace(template) == "" {
		template = text.DefaultDenyTemplate
	}

	msg := text.Apply(template, caster.Name(), sk.ID, res.Vars())
	if err := s.host.SendText(caster, host.Message{Channel: host.ChannelChat, Text: msg}); err != nil {
		logger.Warning("Failed to send deny message", "player", caster.Name(), "skill", sk.ID, "error", err)
	}
}

func (s *Service) record(caster host.Player, skillID string, req *CastRequest, res Result) {
	if s.recorder == nil {
		return
	}
	source := "api"
	if req != nil && req.Source != "" {
		source = req.Source
	}
	s.recorder.RecordCast(CastRecord{
		At:       s.now(),
		PlayerID: caster.ID(),
		Player:   caster.Name(),
		SkillID:  skillID,
		Source:   source,
		Result:   res,
	})
}

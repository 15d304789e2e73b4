package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/minekent/skillsengine/internal/skill"
)

// Reason is the machine-readable code of a failed cast.
type Reason string

const (
	ReasonUnknownSkill     Reason = "UNKNOWN_SKILL"
	ReasonCooldown         Reason = "COOLDOWN"
	ReasonNoPermission     Reason = "NO_PERMISSION"
	ReasonLowLevel         Reason = "LOW_LEVEL"
	ReasonMissingItem      Reason = "MISSING_ITEM"
	ReasonWorldNotAllowed  Reason = "WORLD_NOT_ALLOWED"
	ReasonWorldDenied      Reason = "WORLD_DENIED"
	ReasonUnknownCondition Reason = "UNKNOWN_CONDITION"
	ReasonCostXPLevels     Reason = "COST_XP_LEVELS"
	ReasonCostItem         Reason = "COST_ITEM"
	ReasonNoTarget         Reason = "NO_TARGET"
	ReasonUnknownTarget    Reason = "UNKNOWN_TARGET"
	ReasonUnknownAction    Reason = "UNKNOWN_ACTION"
)

// Reasons produced by a misconfigured condition carry the condition kind as code.
const reasonHasItem = Reason(skill.ConditionHasItem)

// Threshold is the payload of LOW_LEVEL.
type Threshold struct {
	Actual int
	Min    int
}

// Payload is the structured detail of a failure. At most one field is set.
type Payload struct {
	Remaining time.Duration // COOLDOWN
	Threshold *Threshold    // LOW_LEVEL
	Detail    string        // everything else
}

// Result is the outcome of a cast or of one pipeline stage.
type Result struct {
	OK      bool
	Reason  Reason
	Payload Payload
}

// Success is the passing result.
func Success() Result {
	return Result{OK: true}
}

// Fail returns a failure without payload.
func Fail(reason Reason) Result {
	return Result{Reason: reason}
}

// FailDetail returns a failure carrying free-form detail.
func FailDetail(reason Reason, detail string) Result {
	return Result{Reason: reason, Payload: Payload{Detail: detail}}
}

// Cooldown returns a COOLDOWN failure.
func Cooldown(remaining time.Duration) Result {
	return Result{Reason: ReasonCooldown, Payload: Payload{Remaining: remaining}}
}

// LowLevel returns a LOW_LEVEL failure.
func LowLevel(actual, min int) Result {
	return Result{Reason: ReasonLowLevel, Payload: Payload{Threshold: &Threshold{Actual: actual, Min: min}}}
}

// actionFailure returns a failure coded by the action kind, such as "TELEPORT:no_target".
func actionFailure(kind skill.ActionKind, detail string) Result {
	return FailDetail(Reason(kind), detail)
}

func actionError(kind skill.ActionKind, err error) Result {
	return actionFailure(kind, "failed:"+err.Error())
}

// RemainingSeconds rounds the cooldown remainder up to whole seconds.
func (r Result) RemainingSeconds() int64 {
	secs := int64(r.Payload.Remaining / time.Second)
	if r.Payload.Remaining%time.Second > 0 {
		secs++
	}
	return secs
}

// PayloadString renders the payload, or "" when there is none.
func (r Result) PayloadString() string {
	switch {
	case r.Payload.Remaining > 0:
		return strconv.FormatInt(r.RemainingSeconds(), 10) + "s"
	case r.Payload.Threshold != nil:
		return fmt.Sprintf("%d<%d", r.Payload.Threshold.Actual, r.Payload.Threshold.Min)
	default:
		return r.Payload.Detail
	}
}

// String renders the wire form: "OK", "CODE" or "CODE:payload".
func (r Result) String() string {
	if r.OK {
		return "OK"
	}
	if p := r.PayloadString(); p != "" {
		return string(r.Reason) + ":" + p
	}
	return string(r.Reason)
}

// Vars returns the placeholders a deny message may use: reason, code, and
// payload when present, plus seconds for COOLDOWN.
func (r Result) Vars() map[string]string {
	if r.OK {
		return map[string]string{}
	}
	vars := map[string]string{
		"reason": r.String(),
		"code":   string(r.Reason),
	}
	if p := r.PayloadString(); p != "" {
		vars["payload"] = p
	}
	if r.Reason == ReasonCooldown {
		vars["seconds"] = strconv.FormatInt(r.RemainingSeconds(), 10)
	}
	return vars
}

// denyMessageKey maps a reason to its template key.
func denyMessageKey(reason Reason) string {
	switch reason {
	case ReasonCooldown:
		return "cooldown"
	case ReasonNoPermission:
		return "no_permission"
	case ReasonLowLevel:
		return "low_level"
	case ReasonMissingItem:
		return "missing_item"
	case ReasonCostXPLevels:
		return "cost_xp_levels"
	case ReasonCostItem:
		return "cost_item"
	case ReasonNoTarget:
		return "no_target"
	case ReasonWorldNotAllowed:
		return "world_not_allowed"
	case ReasonWorldDenied:
		return "world_denied"
	default:
		return "default"
	}
}

package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultString(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Success(), "OK"},
		{Fail(ReasonNoPermission), "NO_PERMISSION"},
		{Cooldown(2500 * time.Millisecond), "COOLDOWN:3s"},
		{Cooldown(time.Millisecond), "COOLDOWN:1s"},
		{Cooldown(time.Duration(math.MaxInt64)), "COOLDOWN:9223372037s"},
		{LowLevel(3, 7), "LOW_LEVEL:3<7"},
		{FailDetail(ReasonUnknownCondition, "FLYING"), "UNKNOWN_CONDITION:FLYING"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.res.String())
	}
}

func TestResultVars(t *testing.T) {
	assert.Equal(t, map[string]string{
		"reason":  "COOLDOWN:4s",
		"code":    "COOLDOWN",
		"payload": "4s",
		"seconds": "4",
	}, Cooldown(4*time.Second).Vars())

	assert.Equal(t, map[string]string{
		"reason": "NO_TARGET",
		"code":   "NO_TARGET",
	}, Fail(ReasonNoTarget).Vars())

	assert.Empty(t, Success().Vars())
}

func TestDenyMessageKey(t *testing.T) {
	assert.Equal(t, "cooldown", denyMessageKey(ReasonCooldown))
	assert.Equal(t, "cost_item", denyMessageKey(ReasonCostItem))
	assert.Equal(t, "default", denyMessageKey(ReasonUnknownAction))
	assert.Equal(t, "default", denyMessageKey(Reason("TELEPORT")))
}

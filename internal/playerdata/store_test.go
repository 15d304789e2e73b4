package playerdata

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStoreCreatesLazily(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	assert.Equal(t, 0, store.Len())
	first := store.Get(id)
	assert.Same(t, first, store.Get(id))
	assert.Equal(t, 1, store.Len())

	store.Get(uuid.New())
	assert.Equal(t, 2, store.Len())
	assert.Same(t, first, store.Get(id))
}

func TestCooldownKeysIgnoreCase(t *testing.T) {
	data := NewStore().Get(uuid.New())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, data.CooldownUntil("fireball").IsZero())

	data.SetCooldownUntil("FireBall", now.Add(5*time.Second))

	assert.Equal(t, now.Add(5*time.Second), data.CooldownUntil("fireball"))
	assert.Equal(t, 5*time.Second, data.Remaining("FIREBALL", now))
	assert.Equal(t, time.Duration(0), data.Remaining("fireball", now.Add(5*time.Second)))
	assert.Len(t, data.Cooldowns(), 1)
}

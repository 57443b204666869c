package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowHonorsBurstPerKey(t *testing.T) {
	rl := PerMinute(2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = rl.Allow("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(31 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok, "a token refills after half a minute")
}

func TestEvictDropsIdleKeys(t *testing.T) {
	rl := PerMinute(5)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(3 * time.Hour)
	rl.Allow("fresh")

	rl.evict(2 * time.Hour)
	assert.Equal(t, 1, rl.Size())
}

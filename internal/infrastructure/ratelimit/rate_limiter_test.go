package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(3)
	now := time.Now()

	for i := 0; i < 3; i++ {
		ok, _ := rl.allowAt("guest:g1", ActionPostComment, now)
		assert.True(t, ok, "attempt %d", i)
	}

	ok, wait := rl.allowAt("guest:g1", ActionPostComment, now)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, 20*time.Second)

	ok, _ = rl.allowAt("guest:g1", ActionPostComment, now.Add(20*time.Second))
	assert.True(t, ok)
}

func TestAllowIsPerActorAndAction(t *testing.T) {
	rl := NewRateLimiter(1)
	now := time.Now()

	ok, _ := rl.allowAt("user:a", ActionSendMessage, now)
	assert.True(t, ok)
	ok, _ = rl.allowAt("user:a", ActionSendMessage, now)
	assert.False(t, ok)

	ok, _ = rl.allowAt("user:b", ActionSendMessage, now)
	assert.True(t, ok)
	ok, _ = rl.allowAt("user:a", ActionPostComment, now)
	assert.True(t, ok)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginThrottle_Disabled(t *testing.T) {
	var th *LoginThrottle = NewLoginThrottle(0, 5)
	assert.Nil(t, th)
	for i := 0; i < 100; i++ {
		assert.True(t, th.Allow("k"))
	}
}

func TestLoginThrottle_RefillsOverTime(t *testing.T) {
	th := NewLoginThrottle(60, 1) // one per second
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return now }

	assert.True(t, th.Allow("k"))
	assert.False(t, th.Allow("k"))

	now = now.Add(time.Second)
	assert.True(t, th.Allow("k"))
}

func TestLoginThrottle_SweepsIdleKeys(t *testing.T) {
	th := NewLoginThrottle(60, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	th.now = func() time.Time { return now }

	th.Allow("stale")
	now = now.Add(throttleIdleTTL + time.Second)
	for i := 0; i < throttleSweepEvery; i++ {
		th.Allow("fresh")
	}
	_, ok := th.limiters["stale"]
	assert.False(t, ok)
}

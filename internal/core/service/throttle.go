package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	throttleIdleTTL    = 10 * time.Minute
	throttleSweepEvery = 256
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginThrottle is a per-key token bucket limiting login attempts. A nil
// *LoginThrottle allows everything.
type LoginThrottle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*keyedLimiter
	calls    int
	now      func() time.Time
}

// NewLoginThrottle allows perMinute sustained attempts per key with the given
// burst. It returns nil (no throttling) when perMinute is not positive.
func NewLoginThrottle(perMinute float64, burst int) *LoginThrottle {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginThrottle{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		limiters: make(map[string]*keyedLimiter),
		now:      time.Now,
	}
}

// Allow consumes one attempt for key.
func (t *LoginThrottle) Allow(key string) bool {
	if t == nil {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.calls++
	if t.calls%throttleSweepEvery == 0 {
		for k, kl := range t.limiters {
			if now.Sub(kl.lastSeen) > throttleIdleTTL {
				delete(t.limiters, k)
			}
		}
	}

	kl, ok := t.limiters[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[key] = kl
	}
	kl.lastSeen = now
	return kl.limiter.AllowN(now, 1)
}

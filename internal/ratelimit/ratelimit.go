// Package ratelimit provides a keyed token-bucket rate limiter. Each key
// (typically a client IP) gets its own independent bucket; entries that go
// idle are evicted so the map does not grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// idleTTL is how long an entry may go unused before it is evictable.
	// An idle bucket refills to full burst well within this window, so
	// dropping it loses no throttling state.
	idleTTL = 15 * time.Minute

	// sweepThreshold is the map size above which inserts trigger an
	// eviction sweep. Below it the map is too small to be worth scanning.
	sweepThreshold = 64
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether a request for the given key should proceed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// getLimiter returns the limiter for a key, creating one if needed and
// sweeping idle entries when the map has grown past the threshold.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()

	krl.mu.Lock()
	defer krl.mu.Unlock()

	if e, ok := krl.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	if len(krl.entries) >= sweepThreshold {
		krl.evictIdle(now)
	}

	e := &entry{
		limiter:  rate.NewLimiter(krl.limit, krl.burst),
		lastSeen: now,
	}
	krl.entries[key] = e
	return e.limiter
}

// evictIdle drops entries not seen within idleTTL. Caller holds the lock.
func (krl *KeyedRateLimiter) evictIdle(now time.Time) {
	for key, e := range krl.entries {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(krl.entries, key)
		}
	}
}

// Len reports the number of tracked keys.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

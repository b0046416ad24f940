package proxy

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	minIdleTTL = 10 * time.Minute
	sweepEvery = time.Minute
)

// Limiter hands out one token bucket per key. Buckets left idle long enough
// to have refilled are dropped.
type Limiter struct {
	mu        sync.Mutex
	every     time.Duration
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	buckets   map[string]*bucket
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter returns nil when perMin is not positive, which disables limiting.
func NewLimiter(perMin, burst int) *Limiter {
	if perMin <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(perMin)
	idle := every * time.Duration(burst)
	if idle < minIdleTTL {
		idle = minIdleTTL
	}
	return &Limiter{
		every:   every,
		burst:   burst,
		idleTTL: idle,
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	l.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.idleTTL {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

// Len reports how many buckets are held.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

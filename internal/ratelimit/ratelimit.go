// Package ratelimit enforces a per-domain minimum inter-request interval,
// per spec §5: "a per-domain minimum inter-request interval (default
// 1000ms, overridable per template)". The map is process-local, matching
// §5's note that effective throttling loosens with worker-process count.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const DefaultIntervalMs = 1000

// Limiter maintains one token-bucket limiter per domain, each permitting
// one request per configured interval with a burst of 1.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	defaultN time.Duration
}

func NewLimiter(defaultIntervalMs int) *Limiter {
	if defaultIntervalMs <= 0 {
		defaultIntervalMs = DefaultIntervalMs
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		defaultN: time.Duration(defaultIntervalMs) * time.Millisecond,
	}
}

// Wait blocks until domain's next request is permitted. intervalMs, when
// positive, overrides the default (a template's RateLimitMs).
func (l *Limiter) Wait(ctx context.Context, domain string, intervalMs int) error {
	interval := l.defaultN
	if intervalMs > 0 {
		interval = time.Duration(intervalMs) * time.Millisecond
	}
	return l.limiterFor(domain, interval).Wait(ctx)
}

func (l *Limiter) limiterFor(domain string, interval time.Duration) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := domainKey(domain, interval)
	if lim, ok := l.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	l.limiters[key] = lim
	return lim
}

func domainKey(domain string, interval time.Duration) string {
	return domain + "|" + interval.String()
}

// Package ratelimit bounds per-client request rates with in-memory sliding
// windows. Single process only; a multi-instance deployment would need a
// shared store (redis) instead.
package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter keeps one counter per identifier. The check-and-increment sequence
// holds the mutex for its whole duration so two concurrent requests from the
// same identifier cannot both slip under the budget.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	sweep   time.Duration
}

// Option конфигурирует Limiter.
type Option func(*Limiter)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSweepInterval overrides how often the janitor removes expired entries.
func WithSweepInterval(d time.Duration) Option {
	return func(l *Limiter) { l.sweep = d }
}

func New(opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		sweep:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Deny describes a rejected check: HTTP status, JSON body and advisory headers,
// ready to be written by any transport.
type Deny struct {
	Status     int
	RetryAfter int
	Headers    map[string]string
}

// Body renders the 429 response payload.
func (d *Deny) Body() map[string]any {
	return map[string]any{
		"error":      "Too many requests. Please try again later.",
		"retryAfter": d.RetryAfter,
	}
}

// Check consumes one request from identifier's budget. Returns nil when the
// request is allowed. maxRequests and window are supplied per call site so
// distinct endpoints can run distinct budgets over the same limiter.
func (l *Limiter) Check(identifier string, maxRequests int, window time.Duration) *Deny {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.resetAt) {
		// new window
		l.entries[identifier] = &entry{count: 1, resetAt: now.Add(window)}
		return nil
	}

	if e.count >= maxRequests {
		retryAfter := int(math.Ceil(e.resetAt.Sub(now).Seconds()))
		return &Deny{
			Status:     http.StatusTooManyRequests,
			RetryAfter: retryAfter,
			Headers: map[string]string{
				"Retry-After":           strconv.Itoa(retryAfter),
				"X-RateLimit-Limit":     strconv.Itoa(maxRequests),
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     e.resetAt.UTC().Format(time.RFC3339),
			},
		}
	}

	e.count++
	return nil
}

// Sweep drops entries whose window has passed. Allow/deny decisions stay
// correct without it; this only bounds memory growth.
func (l *Limiter) Sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, k)
		}
	}
}

// Len возвращает число живых записей (для тестов и отладки).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// StartJanitor запускает периодическую очистку. Останавливается по контексту.
func (l *Limiter) StartJanitor(ctx context.Context) {
	if l.sweep <= 0 {
		return
	}
	t := time.NewTicker(l.sweep)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

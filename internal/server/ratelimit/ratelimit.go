// Package ratelimit provides per-client, per-route token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// bucket refills continuously at rate tokens per second up to capacity.
type bucket struct {
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: float64(capacity), rate: rate, tokens: float64(capacity), last: now}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// take consumes one token if available.
func (b *bucket) take(now time.Time) bool {
	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// untilFull returns how long the bucket needs to refill completely.
func (b *bucket) untilFull() time.Duration {
	missing := b.capacity - b.tokens
	if missing <= 0 || b.rate <= 0 {
		return 0
	}
	return time.Duration(missing / b.rate * float64(time.Second))
}

// untilNext returns how long until one token is available.
func (b *bucket) untilNext() time.Duration {
	if b.tokens >= 1 || b.rate <= 0 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// defaultKey names the bucket shared by every request without a matching rule.
const defaultKey = "default"

type entry struct {
	bucket   *bucket
	lastSeen time.Time
}

// Limiter manages one bucket per client, method and path.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a limiter. A nil config enables a lenient default.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			IdleTTL:         time.Hour,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether the client may make this request now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Allowlist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Denylist[clientID] {
		return false, Info{Allowed: false}
	}

	// Buckets are keyed by client and route, not by raw path.
	rule := l.config.Match(method, path)
	key := clientID + " " + defaultKey
	if rule == nil {
		rule = &Rule{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	} else {
		key = clientID + " " + rule.Method + " " + rule.Pattern
	}
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{Allowed: true}
	}

	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{bucket: newBucket(capacity, float64(rule.Limit)/rule.Window.Seconds(), now)}
		l.entries[key] = e
	}
	e.lastSeen = now

	allowed := e.bucket.take(now)
	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: int(e.bucket.tokens),
		ResetTime: now.Add(e.bucket.untilFull()),
	}
	if !allowed {
		info.RetryAfter = e.bucket.untilNext()
	}
	return allowed, info
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// evictIdle drops buckets that have not been used within IdleTTL.
func (l *Limiter) evictIdle() {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

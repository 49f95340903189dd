package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

// Config holds the request budget shared by every bucket.
type Config struct {
	Capacity int           // Tokens per period
	Period   time.Duration // Interval between full refills
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity: 10,
		Period:   1 * time.Minute,
	}
}

// bucket is one client's budget. Mutated only under its own mutex.
type bucket struct {
	mu          sync.Mutex
	tokens      int
	windowStart time.Time
}

// Limiter hands out tokens from per-client buckets.
type Limiter struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex // guards the buckets map only
	buckets map[string]*bucket

	now func() time.Time // injectable clock for tests
}

// New creates a limiter with no buckets; each client's bucket is created
// full on that client's first Allow call.
func New(cfg Config, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Capacity < 1 {
		cfg = DefaultConfig()
	}
	return &Limiter{
		cfg:     cfg,
		logger:  logger,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token from the key's bucket, reporting whether the
// request fits the budget. A full period elapsed since the bucket's window
// started refills it to capacity.
func (l *Limiter) Allow(key string) bool {
	b := l.bucketFor(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(b.windowStart); elapsed >= l.cfg.Period {
		// Interval refill: reset to full, align the window to the refill
		// boundary so budgets stay period-shaped rather than sliding.
		periods := elapsed / l.cfg.Period
		b.windowStart = b.windowStart.Add(periods * l.cfg.Period)
		b.tokens = l.cfg.Capacity
	}

	if b.tokens <= 0 {
		l.logger.Debug("request over budget",
			"key", key,
			"capacity", l.cfg.Capacity,
			"period", l.cfg.Period,
		)
		return false
	}
	b.tokens--
	return true
}

// Capacity returns the configured tokens per period.
func (l *Limiter) Capacity() int { return l.cfg.Capacity }

// Period returns the configured refill interval.
func (l *Limiter) Period() time.Duration { return l.cfg.Period }

func (l *Limiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:      l.cfg.Capacity,
			windowStart: l.now(),
		}
		l.buckets[key] = b
		l.logger.Debug("created rate limit bucket", "key", key)
	}
	return b
}

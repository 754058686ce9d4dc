// Multi-dimensional sliding-window rate limiting for forum traffic.
//
// Each configured identifier (an IP, actor, or tenant) owns an independent
// bucket; within a bucket, each dimension (requests, events, bytes) keeps a
// time-ordered list of (timestamp, cost) entries inside the trailing window.
// Buckets live in a sharded concurrent map so unrelated identifiers never
// contend on a shared lock.
package ratelimit

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// What an identifier refers to.
type IdentifierType string

const (
	TypeIP     IdentifierType = "ip"
	TypeActor  IdentifierType = "actor"
	TypeTenant IdentifierType = "tenant"
)

// Axis being limited. Requests and events are counted per entry; bytes are
// summed by cost.
type Dimension string

const (
	DimRequests Dimension = "requests"
	DimEvents   Dimension = "events"
	DimBytes    Dimension = "bytes"
)

// Outcome of a single allow check.
type Decision struct {
	Allowed bool `json:"allowed"`
	// capacity left in the window after this call; -1 means unlimited
	Remaining int64 `json:"remaining"`
	// when the oldest in-window entry expires and capacity frees up
	ResetAt time.Time `json:"reset_at"`
	// how long to wait before retrying; zero when allowed
	RetryAfter time.Duration `json:"retry_after"`
}

type entry struct {
	ts   time.Time
	cost int64
}

type bucket struct {
	mu      sync.Mutex
	entries map[Dimension][]entry
}

// Sliding-window limiter over configured identifiers. Identifiers without a
// configuration are unlimited; see SetConfig.
type Limiter struct {
	configs *xsync.MapOf[string, Config]
	buckets *xsync.MapOf[string, *bucket]
	now     func() time.Time
}

func NewLimiter() *Limiter {
	return &Limiter{
		configs: xsync.NewMapOf[string, Config](),
		buckets: xsync.NewMapOf[string, *bucket](),
		now:     time.Now,
	}
}

// Registers (or replaces) the limit configuration for an identifier.
func (l *Limiter) SetConfig(identifier string, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	l.configs.Store(identifier, cfg)
	return nil
}

// Drops the bucket state for an identifier, freeing its full window.
func (l *Limiter) Reset(identifier string, typ IdentifierType) {
	l.buckets.Delete(bucketKey(identifier, typ))
}

// Checks whether spending cost on the given dimension fits within the
// identifier's window, recording it if so. Entries older than the window are
// pruned before every capacity check. Unconfigured identifiers are always
// allowed (documented limitation: limits are opt-in per identifier).
func (l *Limiter) Allow(identifier string, typ IdentifierType, dim Dimension, cost int64) Decision {
	cfg, ok := l.configs.Load(identifier)
	if !ok {
		return Decision{Allowed: true, Remaining: -1}
	}
	limit := cfg.limitFor(dim)
	if limit <= 0 {
		return Decision{Allowed: true, Remaining: -1}
	}
	if cost <= 0 {
		cost = 1
	}

	b, _ := l.buckets.LoadOrCompute(bucketKey(identifier, typ), func() *bucket {
		return &bucket{entries: make(map[Dimension][]entry)}
	})

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-cfg.Window)

	entries := b.entries[dim]
	pruned := entries[:0]
	for _, e := range entries {
		if e.ts.After(windowStart) {
			pruned = append(pruned, e)
		}
	}

	var current int64
	for _, e := range pruned {
		if dim == DimBytes {
			current += e.cost
		} else {
			current++
		}
	}

	use := int64(1)
	if dim == DimBytes {
		use = cost
	}

	if current+use > limit {
		b.entries[dim] = pruned
		resetAt := now.Add(cfg.Window)
		if len(pruned) > 0 {
			resetAt = pruned[0].ts.Add(cfg.Window)
		}
		retryAfter := resetAt.Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		rejectedCount.WithLabelValues(string(typ), string(dim)).Inc()
		return Decision{
			Allowed:    false,
			Remaining:  max64(limit-current, 0),
			ResetAt:    resetAt,
			RetryAfter: retryAfter,
		}
	}

	b.entries[dim] = append(pruned, entry{ts: now, cost: cost})
	allowedCount.WithLabelValues(string(typ), string(dim)).Inc()

	resetAt := b.entries[dim][0].ts.Add(cfg.Window)
	return Decision{
		Allowed:   true,
		Remaining: limit - current - use,
		ResetAt:   resetAt,
	}
}

func bucketKey(identifier string, typ IdentifierType) string {
	return string(typ) + "/" + identifier
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

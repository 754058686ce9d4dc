package audit

import (
	"sync"
	"time"
)

const DefaultCapacity = 10_000

// One immutable record of a moderation or administrative decision.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type QueryFilters struct {
	// exact action name; empty matches all
	Action string
	// only entries at or after this time; zero matches all
	Since time.Time
	// max entries returned; <= 0 uses no limit
	Limit int
}

// Bounded, append-only, in-memory decision log. When the log grows past its
// capacity, the oldest capacity/2 entries are dropped in a single pass, so
// eviction cost amortizes across many appends. A single RWMutex makes
// append/evict atomic with respect to readers: a query sees either the pre-
// or post-eviction state, never a partial one.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Appends an entry, stamping it with the current time if unset.
func (l *Log) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if len(l.entries) > l.capacity {
		evict := l.capacity / 2
		kept := len(l.entries) - evict
		remaining := make([]Entry, kept)
		copy(remaining, l.entries[evict:])
		l.entries = remaining
		evictionCount.Add(float64(evict))
	}
	entryCount.Inc()
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Returns the most recent entries matching the filters, newest first.
func (l *Log) Query(f QueryFilters) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

package reputation

import (
	"context"
	"time"
)

// Per-actor moderation standing. Records are owned by the store; callers
// always receive copies and mutate only through the store's update methods.
type Reputation struct {
	ActorID         string     `json:"actor_id"`
	SpamScore       float64    `json:"spam_score"`
	ViolationCount  int        `json:"violation_count"`
	TrustScore      float64    `json:"trust_score"`
	LastViolationAt *time.Time `json:"last_violation_at,omitempty"`
}

// trust assigned to actors never seen before
const initialTrust = 0.5

// Storage for per-actor reputation state. Implementations must synchronize
// per actor, so that updates for unrelated actors never contend, and must be
// safe for many concurrent callers.
//
// All methods take a context: the backing store may be external (eg, redis)
// and lookups are treated as potentially-blocking everywhere, never as a
// free in-memory read on some code paths only.
type Store interface {
	// Fetches the actor's reputation, creating a default record on first
	// reference.
	GetReputation(ctx context.Context, actorID string) (*Reputation, error)
	// Records the outcome of a moderation decision: increments the violation
	// count by count (which may be zero) and blends spamSignal in [0,1] in to
	// the spam score. Trust decreases monotonically with violations.
	RecordViolations(ctx context.Context, actorID string, count int, spamSignal float64) (*Reputation, error)
	// Clears the actor's record back to the first-reference default. This is
	// the only operation which decreases the violation count.
	ResetReputation(ctx context.Context, actorID string) error
}

func newReputation(actorID string) *Reputation {
	return &Reputation{
		ActorID:    actorID,
		TrustScore: initialTrust,
	}
}

// Exponential blend of the previous spam score and a new signal. Monotonic:
// a signal above the current score always raises it.
func blendSpamScore(old, signal float64) float64 {
	score := old*0.7 + clamp01(signal)*0.3
	return clamp01(score)
}

// Each violation multiplies trust by a constant decay factor.
func decayTrust(old float64, violations int) float64 {
	score := old
	for i := 0; i < violations; i++ {
		score *= 0.9
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

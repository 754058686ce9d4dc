package reputation

import (
	"context"
	"math"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// In-process reputation store backed by a sharded concurrent map; updates for
// a given actor are atomic, unrelated actors never contend.
type MemStore struct {
	// Optional half-life for spam score decay. When set, the spam score
	// reported by GetReputation decays exponentially with time since the last
	// violation (and trust recovers symmetrically). The violation count never
	// decays; see ResetReputation. Zero disables decay.
	DecayHalfLife time.Duration

	records *xsync.MapOf[string, *Reputation]
	now     func() time.Time
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		records: xsync.NewMapOf[string, *Reputation](),
		now:     time.Now,
	}
}

func (s *MemStore) GetReputation(ctx context.Context, actorID string) (*Reputation, error) {
	rec, _ := s.records.LoadOrCompute(actorID, func() *Reputation {
		return newReputation(actorID)
	})
	out := *rec
	s.applyDecay(&out)
	return &out, nil
}

func (s *MemStore) RecordViolations(ctx context.Context, actorID string, count int, spamSignal float64) (*Reputation, error) {
	now := s.now().UTC()
	rec, _ := s.records.Compute(actorID, func(old *Reputation, loaded bool) (*Reputation, bool) {
		if !loaded {
			old = newReputation(actorID)
		}
		next := *old
		next.SpamScore = blendSpamScore(next.SpamScore, spamSignal)
		if count > 0 {
			next.ViolationCount += count
			next.TrustScore = decayTrust(next.TrustScore, count)
			next.LastViolationAt = &now
		}
		return &next, false
	})
	out := *rec
	return &out, nil
}

func (s *MemStore) ResetReputation(ctx context.Context, actorID string) error {
	s.records.Store(actorID, newReputation(actorID))
	return nil
}

// Decay is applied on read rather than persisted, so the stored record keeps
// the raw post-violation values and decay is a pure function of elapsed time.
func (s *MemStore) applyDecay(rep *Reputation) {
	if s.DecayHalfLife <= 0 || rep.LastViolationAt == nil {
		return
	}
	elapsed := s.now().UTC().Sub(*rep.LastViolationAt)
	if elapsed <= 0 {
		return
	}
	factor := math.Pow(0.5, elapsed.Seconds()/s.DecayHalfLife.Seconds())
	rep.SpamScore = clamp01(rep.SpamScore * factor)
	rep.TrustScore = clamp01(initialTrust - (initialTrust-rep.TrustScore)*factor)
}

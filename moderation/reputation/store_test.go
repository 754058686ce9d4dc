package reputation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreFirstReference(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	rep, err := s.GetReputation(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal("actor-1", rep.ActorID)
	assert.Equal(0.0, rep.SpamScore)
	assert.Equal(0, rep.ViolationCount)
	assert.Equal(initialTrust, rep.TrustScore)
	assert.Nil(rep.LastViolationAt)
}

func TestMemStoreRecordViolations(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	rep, err := s.RecordViolations(ctx, "actor-1", 2, 0.9)
	require.NoError(t, err)
	assert.Equal(2, rep.ViolationCount)
	assert.InDelta(0.27, rep.SpamScore, 0.0001)
	assert.Less(rep.TrustScore, initialTrust)
	require.NotNil(t, rep.LastViolationAt)

	// violation count is monotonic, spam score blends upward under repeated signals
	prev := rep
	for i := 0; i < 10; i++ {
		rep, err = s.RecordViolations(ctx, "actor-1", 1, 0.9)
		require.NoError(t, err)
		assert.Equal(prev.ViolationCount+1, rep.ViolationCount)
		assert.GreaterOrEqual(rep.SpamScore, prev.SpamScore)
		assert.LessOrEqual(rep.TrustScore, prev.TrustScore)
		prev = rep
	}
	assert.LessOrEqual(rep.SpamScore, 1.0)
	assert.GreaterOrEqual(rep.TrustScore, 0.0)
}

func TestMemStoreZeroCountUpdate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	// a clean-event update blends the spam signal but records no violation
	rep, err := s.RecordViolations(ctx, "actor-1", 0, 0.4)
	require.NoError(t, err)
	assert.Equal(0, rep.ViolationCount)
	assert.InDelta(0.12, rep.SpamScore, 0.0001)
	assert.Nil(rep.LastViolationAt)
	assert.Equal(initialTrust, rep.TrustScore)
}

func TestMemStoreReset(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_, err := s.RecordViolations(ctx, "actor-1", 5, 1.0)
	require.NoError(t, err)
	require.NoError(t, s.ResetReputation(ctx, "actor-1"))

	rep, err := s.GetReputation(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal(0, rep.ViolationCount)
	assert.Equal(0.0, rep.SpamScore)
	assert.Equal(initialTrust, rep.TrustScore)
}

func TestMemStoreConcurrentUpdates(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordViolations(ctx, "actor-1", 1, 0.5)
			assert.NoError(err)
		}()
	}
	wg.Wait()

	rep, err := s.GetReputation(ctx, "actor-1")
	require.NoError(t, err)
	assert.Equal(100, rep.ViolationCount)
}

func TestMemStoreDecay(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewMemStore()
	s.DecayHalfLife = time.Hour

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	_, err := s.RecordViolations(ctx, "actor-1", 1, 1.0)
	require.NoError(t, err)

	// one half-life later the spam score has halved; count stays put
	s.now = func() time.Time { return base.Add(time.Hour) }
	rep, err := s.GetReputation(ctx, "actor-1")
	require.NoError(t, err)
	assert.InDelta(0.15, rep.SpamScore, 0.0001)
	assert.Equal(1, rep.ViolationCount)

	fresh, err := s.RecordViolations(ctx, "actor-1", 0, 0.0)
	require.NoError(t, err)
	assert.Equal(1, fresh.ViolationCount)
}

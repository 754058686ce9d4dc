package reputation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreBasics(t *testing.T) {
	t.Skip("live test, need redis running locally")
	assert := assert.New(t)
	ctx := context.Background()

	s, err := NewRedisStore("redis://localhost:6379/0")
	require.NoError(t, err)

	require.NoError(t, s.ResetReputation(ctx, "test-actor"))

	rep, err := s.GetReputation(ctx, "test-actor")
	require.NoError(t, err)
	assert.Equal(0, rep.ViolationCount)
	assert.Equal(initialTrust, rep.TrustScore)

	rep, err = s.RecordViolations(ctx, "test-actor", 2, 0.9)
	require.NoError(t, err)
	assert.Equal(2, rep.ViolationCount)
	assert.InDelta(0.27, rep.SpamScore, 0.0001)

	rep, err = s.GetReputation(ctx, "test-actor")
	require.NoError(t, err)
	assert.Equal(2, rep.ViolationCount)
	require.NotNil(t, rep.LastViolationAt)

	require.NoError(t, s.ResetReputation(ctx, "test-actor"))
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-social/arbor/moderation/audit"
	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/rules"
)

func cleanEvent() *event.ContentEvent {
	return &event.ContentEvent{
		ID:        "evt-clean",
		ActorID:   "actor-clean",
		Kind:      event.KindPost,
		Content:   "an unremarkable post about birds",
		CreatedAt: 1700000000,
	}
}

func TestEngineBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	eval, err := eng.Evaluate(ctx, cleanEvent())
	require.NoError(t, err)
	require.NotNil(t, eval.ScanResult)
	require.NotNil(t, eval.SpamVerdict)
	require.NotNil(t, eval.ComplianceVerdict)
	assert.True(eval.ScanResult.Safe)
	assert.False(eval.SpamVerdict.IsSpam)
	assert.True(eval.ComplianceVerdict.Compliant)
	assert.Empty(eval.Actions)

	// every decision lands in the audit log
	assert.Equal(1, eng.Audit.Len())
	entries := eng.Audit.Query(audit.QueryFilters{})
	require.Len(t, entries, 1)
	assert.Equal("evaluate", entries[0].Action)
}

func TestEngineProducesActions(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	evt := &event.ContentEvent{
		ID:        "evt-hate",
		ActorID:   "actor-bad",
		Kind:      event.KindPost,
		Content:   "calling for ethnic cleansing, demanding ethnic cleansing now",
		CreatedAt: 1700000000,
	}
	eval, err := eng.Evaluate(ctx, evt)
	require.NoError(t, err)
	require.NotNil(t, eval.ScanResult)
	assert.False(eval.ScanResult.Safe)
	require.NotEmpty(t, eval.Actions)
	assert.Equal(rules.ActionBlock, eval.Actions[0].Type)

	// reputation picked up the violation
	rep, err := eng.Reputation.GetReputation(ctx, "actor-bad")
	require.NoError(t, err)
	assert.Equal(1, rep.ViolationCount)

	// per-action audit entries
	blocks := eng.Audit.Query(audit.QueryFilters{Action: "block"})
	assert.NotEmpty(blocks)
}

func TestEngineEscalatesRepeatOffenders(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()

	_, err := eng.Reputation.RecordViolations(ctx, "actor-repeat", 4, 0.5)
	require.NoError(t, err)

	evt := &event.ContentEvent{
		ID:        "evt-hate",
		ActorID:   "actor-repeat",
		Kind:      event.KindPost,
		Content:   "calling for ethnic cleansing",
		CreatedAt: 1700000000,
	}
	eval, err := eng.Evaluate(ctx, evt)
	require.NoError(t, err)
	require.NotEmpty(t, eval.Actions)

	base := rules.DefaultRules().ContentRule("content-001").Duration
	assert.Equal(2*base, eval.Actions[0].Duration)
	assert.Contains(eval.Actions[0].Reason, "repeat violation")
}

func TestEngineCheckerGates(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := EngineTestFixture()
	eng.Config.EnableContentScanning = false
	eng.Config.EnableSpamDetection = false
	eng.Config.EnableCompliance = false
	eng.Config.EnableAutomatedModeration = false

	eval, err := eng.Evaluate(ctx, cleanEvent())
	require.NoError(t, err)
	assert.Nil(eval.ScanResult)
	assert.Nil(eval.SpamVerdict)
	assert.Nil(eval.ComplianceVerdict)
	assert.Empty(eval.Actions)
}

func TestEngineFailOpen(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	// a nil scanner panics inside the checker; fail-open yields a permissive verdict
	eng := EngineTestFixture()
	eng.Scanner = nil

	eval, err := eng.Evaluate(ctx, cleanEvent())
	require.NoError(t, err)
	require.NotNil(t, eval.ScanResult)
	assert.True(eval.ScanResult.Safe)
	assert.Equal(0.0, eval.ScanResult.RiskScore)
}

func TestEngineFailClosed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng := EngineTestFixture()
	eng.Scanner = nil
	eng.Config.FailClosed = true

	eval, err := eng.Evaluate(ctx, cleanEvent())
	require.NoError(t, err)
	require.NotNil(t, eval.ScanResult)
	assert.False(eval.ScanResult.Safe)
	assert.Equal(1.0, eval.ScanResult.RiskScore)
}

func TestEngineMalformedEvent(t *testing.T) {
	assert := assert.New(t)
	eng := EngineTestFixture()

	_, err := eng.Evaluate(context.Background(), nil)
	assert.ErrorIs(err, ErrMalformedEvent)

	_, err = eng.Evaluate(context.Background(), &event.ContentEvent{ID: "no-actor"})
	assert.ErrorIs(err, ErrMalformedEvent)
}

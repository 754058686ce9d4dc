package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/rules"
)

func testEvent(content string) *event.ContentEvent {
	return &event.ContentEvent{
		ID:        "evt-1",
		ActorID:   "actor-1",
		Kind:      event.KindPost,
		Content:   content,
		CreatedAt: 1700000000,
	}
}

func TestScanCleanContent(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	res, err := s.Scan(testEvent("a perfectly reasonable post about gardening"), false)
	require.NoError(t, err)
	assert.True(res.Safe)
	assert.Equal(0.0, res.RiskScore)
	assert.Empty(res.Violations)
}

func TestScanRiskScoreBounds(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	contents := []string{
		"",
		"hello world",
		"BUY NOW!!! CLICK HERE!!! FREE MONEY!!!",
		"ethnic cleansing ethnic cleansing ethnic cleansing ethnic cleansing",
		"kill yourself kys go die buy now click here free money seed phrase",
	}
	for _, c := range contents {
		res, err := s.Scan(testEvent(c), false)
		require.NoError(t, err)
		assert.GreaterOrEqual(res.RiskScore, 0.0)
		assert.LessOrEqual(res.RiskScore, 1.0)
	}
}

func TestScanSeverityWeighting(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	// critical rule matched twice: 0.9 * min(2/3, 1) = 0.6
	res, err := s.Scan(testEvent("ethnic cleansing now, ethnic cleansing forever"), false)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(rules.ViolationHateSpeech, res.Violations[0].Type)
	assert.Equal(2, res.Violations[0].MatchCount)
	assert.InDelta(0.6, res.RiskScore, 0.0001)
	assert.False(res.Safe)
}

func TestScanSpamKeywords(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	evt := testEvent("BUY NOW!!! CLICK HERE!!! FREE MONEY!!!")

	// medium rule matched three times: 0.3 * min(3/3, 1) = 0.3
	res, err := s.Scan(evt, false)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(rules.ViolationSpamKeywords, res.Violations[0].Type)
	assert.Equal(3, res.Violations[0].MatchCount)
	assert.InDelta(0.3, res.RiskScore, 0.0001)
	assert.True(res.Safe)

	// strict mode lowers the threshold to 0.2
	strict, err := s.Scan(evt, true)
	require.NoError(t, err)
	assert.False(strict.Safe)
}

func TestScanExcessiveTagging(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	evt := testEvent("a post wearing far too many hats")
	for i := 0; i < 21; i++ {
		evt.Tags = append(evt.Tags, []string{"t", "tag"})
	}

	res, err := s.Scan(evt, false)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(rules.ViolationExcessiveTagging, res.Violations[0].Type)
	assert.Equal(rules.SeverityMedium, res.Violations[0].Severity)
	assert.Equal(21, res.Violations[0].MatchCount)
	assert.InDelta(0.3, res.RiskScore, 0.0001)
}

func TestScanIdempotent(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())
	evt := testEvent("kill yourself and also buy now")

	first, err := s.Scan(evt, false)
	require.NoError(t, err)
	second, err := s.Scan(evt, false)
	require.NoError(t, err)

	assert.Equal(first.Safe, second.Safe)
	assert.Equal(first.RiskScore, second.RiskScore)
	assert.Equal(first.Violations, second.Violations)
}

func TestScanMalformedEvent(t *testing.T) {
	assert := assert.New(t)
	s := New(rules.DefaultRules())

	_, err := s.Scan(nil, false)
	assert.ErrorIs(err, ErrMalformedEvent)

	_, err = s.Scan(&event.ContentEvent{ID: "evt-1"}, false)
	assert.ErrorIs(err, ErrMalformedEvent)
}

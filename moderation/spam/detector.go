package spam

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/reputation"
)

var ErrMalformedEvent = errors.New("malformed content event")

const (
	// score above this means spam
	DefaultThreshold = 0.5

	// trailing window for the frequency filter and the duplicate-content check
	recentWindow = time.Hour

	// posts per trailing hour before the frequency filter fires
	maxPostsPerHour = 10

	// cache sizes for per-actor last content and the recent-events window
	lastContentCacheSize = 10_000
	recentEventsSize     = 4_096
)

// One filter's contribution to the verdict.
type Reason struct {
	Filter string  `json:"filter"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

type Verdict struct {
	IsSpam    bool     `json:"is_spam"`
	Score     float64  `json:"score"`
	Reasons   []Reason `json:"reasons,omitempty"`
	Threshold float64  `json:"threshold"`
}

type recentPost struct {
	eventID string
	actorID string
	kind    int
	content string
	created time.Time
}

// Ensemble spam detector: each filter contributes an additive risk score, the
// capped sum is compared against the threshold. Holds per-actor posting
// history and content caches; safe for concurrent use (histories live in a
// sharded concurrent map, caches are internally locked).
type Detector struct {
	Logger    *slog.Logger
	Threshold float64

	reputation  reputation.Store
	histories   *xsync.MapOf[string, *postHistory]
	lastContent *expirable.LRU[string, string]
	recent      *expirable.LRU[string, recentPost]
	now         func() time.Time
}

func NewDetector(rep reputation.Store, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		Logger:      logger,
		Threshold:   DefaultThreshold,
		reputation:  rep,
		histories:   xsync.NewMapOf[string, *postHistory](),
		lastContent: expirable.NewLRU[string, string](lastContentCacheSize, nil, recentWindow),
		recent:      expirable.NewLRU[string, recentPost](recentEventsSize, nil, recentWindow),
		now:         time.Now,
	}
}

// Runs all filters against the event and combines their scores. Filter scores
// are additive risk contributions (not averaged); the total is capped at 1.0.
func (d *Detector) Check(ctx context.Context, evt *event.ContentEvent) (*Verdict, error) {
	if evt == nil || evt.ActorID == "" {
		return nil, ErrMalformedEvent
	}

	var reasons []Reason

	if r := d.checkFrequency(evt); r != nil {
		reasons = append(reasons, *r)
	}
	if r := d.checkSimilarity(evt); r != nil {
		reasons = append(reasons, *r)
	}
	reasons = append(reasons, d.checkBehavioral(evt)...)
	if r := d.checkReputation(ctx, evt); r != nil {
		reasons = append(reasons, *r)
	}
	if r := d.checkDuplicateContent(evt); r != nil {
		reasons = append(reasons, *r)
	}

	var score float64
	for _, r := range reasons {
		score += r.Score
	}
	if score > 1.0 {
		score = 1.0
	}

	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	verdict := &Verdict{
		IsSpam:    score > threshold,
		Score:     score,
		Reasons:   reasons,
		Threshold: threshold,
	}
	if verdict.IsSpam {
		spamDetectedCount.Inc()
		d.Logger.Debug("spam detected", "actor", evt.ActorID, "score", score, "reasons", len(reasons))
	}
	return verdict, nil
}

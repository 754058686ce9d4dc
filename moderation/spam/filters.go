package spam

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/keyword"
)

const (
	scoreFrequency  = 0.8
	scoreSimilarity = 0.7

	scoreAllCaps       = 0.3
	scorePunctuation   = 0.2
	scoreCharRun       = 0.3
	maxPunctuation     = 5
	minCapsLength      = 20
	identicalRunLength = 5

	similarityCutoff = 0.9
	duplicateCutoff  = 0.8

	// spam score above this makes actor reputation itself a signal
	reputationCutoff = 0.7
	reputationWeight = 0.3
)

// per-actor post timestamps within the trailing hour
type postHistory struct {
	mu    sync.Mutex
	times []time.Time
}

// Flags actors posting faster than maxPostsPerHour. Timestamps come from the
// events themselves, so replayed history scores the same as live traffic.
func (d *Detector) checkFrequency(evt *event.ContentEvent) *Reason {
	hist, _ := d.histories.LoadOrCompute(evt.ActorID, func() *postHistory {
		return &postHistory{}
	})

	hist.mu.Lock()
	defer hist.mu.Unlock()

	cutoff := evt.CreatedTime().Add(-recentWindow)
	kept := hist.times[:0]
	for _, t := range hist.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	hist.times = append(kept, evt.CreatedTime())

	if len(hist.times) > maxPostsPerHour {
		return &Reason{
			Filter: "frequency",
			Reason: "excessive posting frequency",
			Score:  scoreFrequency,
		}
	}
	return nil
}

// Compares against the actor's most recent post. The cached content is
// replaced with the current event regardless of the outcome.
func (d *Detector) checkSimilarity(evt *event.ContentEvent) *Reason {
	prev, ok := d.lastContent.Get(evt.ActorID)
	d.lastContent.Add(evt.ActorID, evt.Content)
	if !ok {
		return nil
	}
	sim := keyword.Jaccard(prev, evt.Content)
	if sim > similarityCutoff {
		return &Reason{
			Filter: "similarity",
			Reason: fmt.Sprintf("near-duplicate of previous post (similarity %.2f)", sim),
			Score:  scoreSimilarity,
		}
	}
	return nil
}

// Stateless heuristics over the content itself.
func (d *Detector) checkBehavioral(evt *event.ContentEvent) []Reason {
	var reasons []Reason
	content := evt.Content

	if len(content) > minCapsLength && content == strings.ToUpper(content) && content != strings.ToLower(content) {
		reasons = append(reasons, Reason{
			Filter: "behavioral",
			Reason: "all-uppercase content",
			Score:  scoreAllCaps,
		})
	}

	punct := 0
	for _, r := range content {
		if r == '!' || r == '?' || r == '.' {
			punct++
		}
	}
	if punct > maxPunctuation {
		reasons = append(reasons, Reason{
			Filter: "behavioral",
			Reason: "excessive punctuation",
			Score:  scorePunctuation,
		})
	}

	if hasIdenticalRun(content, identicalRunLength) {
		reasons = append(reasons, Reason{
			Filter: "behavioral",
			Reason: "repeated character run",
			Score:  scoreCharRun,
		})
	}
	return reasons
}

// Actors with an established spam record contribute their own score. Fails
// open: a reputation backend error just skips this filter.
func (d *Detector) checkReputation(ctx context.Context, evt *event.ContentEvent) *Reason {
	if d.reputation == nil {
		return nil
	}
	rep, err := d.reputation.GetReputation(ctx, evt.ActorID)
	if err != nil {
		d.Logger.Warn("reputation lookup failed, skipping filter", "actor", evt.ActorID, "err", err)
		return nil
	}
	if rep.SpamScore > reputationCutoff {
		return &Reason{
			Filter: "reputation",
			Reason: "actor has an established spam record",
			Score:  rep.SpamScore * reputationWeight,
		}
	}
	return nil
}

// Compares against all recent events of the same kind (trailing hour) and
// contributes the maximum similarity observed above the cutoff.
func (d *Detector) checkDuplicateContent(evt *event.ContentEvent) *Reason {
	cutoff := d.now().Add(-recentWindow)
	var maxSim float64
	for _, rp := range d.recent.Values() {
		if rp.eventID == evt.ID || rp.kind != evt.Kind || rp.created.Before(cutoff) {
			continue
		}
		if sim := keyword.Jaccard(rp.content, evt.Content); sim > maxSim {
			maxSim = sim
		}
	}
	d.recent.Add(evt.ID, recentPost{
		eventID: evt.ID,
		actorID: evt.ActorID,
		kind:    evt.Kind,
		content: evt.Content,
		created: d.now(),
	})

	if maxSim > duplicateCutoff {
		return &Reason{
			Filter: "duplicate",
			Reason: fmt.Sprintf("duplicates recent content (similarity %.2f)", maxSim),
			Score:  maxSim,
		}
	}
	return nil
}

func hasIdenticalRun(s string, n int) bool {
	var last rune
	run := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			run = 0
			last = 0
			continue
		}
		if r == last {
			run++
			if run >= n {
				return true
			}
		} else {
			last = r
			run = 1
		}
	}
	return false
}

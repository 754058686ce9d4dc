package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arbor-social/arbor/moderation/compliance"
	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/reputation"
	"github.com/arbor-social/arbor/moderation/rules"
	"github.com/arbor-social/arbor/moderation/scanner"
	"github.com/arbor-social/arbor/moderation/spam"
)

// actors with strictly more prior violations than this get escalated actions
const escalationThreshold = 3

// how long a spam verdict rate-limits the actor
const spamRateLimitDuration = time.Hour

// A decided enforcement action. Target is the actor for account-level actions
// (block, shadow_ban, rate_limit) and the event for content-level ones
// (content_delete, content_hide). Zero Duration means not time-bounded.
type ModerationAction struct {
	Type      rules.ActionType `json:"type"`
	Target    string           `json:"target"`
	Reason    string           `json:"reason"`
	Duration  time.Duration    `json:"duration,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Maps merged checker verdicts to enforcement actions, escalating based on
// the actor's violation history. Stateless: reputation state is passed in and
// updated by the caller, never read here.
type DecisionEngine struct {
	Logger *slog.Logger
	Rules  *rules.RuleSet
}

// Produces zero or more independent actions for the event. Nil verdicts (from
// disabled checkers) simply contribute nothing.
func (d *DecisionEngine) Decide(evt *event.ContentEvent, scanRes *scanner.ScanResult, spamVerdict *spam.Verdict, complianceVerdict *compliance.Verdict, rep *reputation.Reputation) []ModerationAction {
	now := time.Now().UTC()
	escalate := rep != nil && rep.ViolationCount > escalationThreshold

	var actions []ModerationAction

	if scanRes != nil {
		for _, v := range scanRes.Violations {
			actionType := rules.ActionReport
			var duration time.Duration
			if rule := d.Rules.ContentRule(v.RuleID); rule != nil && rule.Action != "" {
				actionType = rule.Action
				duration = rule.Duration
			}
			reason := fmt.Sprintf("%s: %s", v.Type, v.Description)
			if escalate {
				duration *= 2
				reason = fmt.Sprintf("%s (repeat violation: %d prior violations)", reason, rep.ViolationCount)
			}
			actions = append(actions, ModerationAction{
				Type:      actionType,
				Target:    actionTarget(actionType, evt),
				Reason:    reason,
				Duration:  duration,
				CreatedAt: now,
			})
		}
	}

	if spamVerdict != nil && spamVerdict.IsSpam {
		duration := spamRateLimitDuration
		reason := fmt.Sprintf("spam detected (score %.2f)", spamVerdict.Score)
		if escalate {
			duration *= 2
			reason = fmt.Sprintf("%s (repeat violation: %d prior violations)", reason, rep.ViolationCount)
		}
		actions = append(actions, ModerationAction{
			Type:      rules.ActionRateLimit,
			Target:    evt.ActorID,
			Reason:    reason,
			Duration:  duration,
			CreatedAt: now,
		})
	}

	if complianceVerdict != nil {
		for _, v := range complianceVerdict.Violations {
			actions = append(actions, ModerationAction{
				Type:      rules.ActionReport,
				Target:    actionTarget(rules.ActionReport, evt),
				Reason:    fmt.Sprintf("compliance violation (%s): %s", v.Rule, v.Requirement),
				CreatedAt: now,
			})
		}
	}

	if len(actions) > 0 && d.Logger != nil {
		d.Logger.Info("moderation actions decided",
			"actor", evt.ActorID, "event", evt.ID, "count", len(actions), "escalated", escalate)
	}
	return actions
}

func actionTarget(t rules.ActionType, evt *event.ContentEvent) string {
	switch t {
	case rules.ActionContentDelete, rules.ActionContentHide, rules.ActionReport:
		return evt.ID
	default:
		return evt.ActorID
	}
}

package rules

import (
	"regexp"
	"time"
)

// Violation severity levels, in increasing order.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Risk contribution weight for the severity level, used by the content
// scanner when combining rule matches in to an overall risk score.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityLow:
		return 0.1
	case SeverityMedium:
		return 0.3
	case SeverityHigh:
		return 0.6
	case SeverityCritical:
		return 0.9
	default:
		return 0.0
	}
}

// Enforcement action categories which rules can declare as their default
// outcome, and which the decision engine produces.
type ActionType string

const (
	ActionBlock         ActionType = "block"
	ActionShadowBan     ActionType = "shadow_ban"
	ActionContentDelete ActionType = "content_delete"
	ActionContentHide   ActionType = "content_hide"
	ActionRateLimit     ActionType = "rate_limit"
	ActionReport        ActionType = "report"
)

// A single content-filter rule: a pattern matched against event content, with
// a severity and the default enforcement action for a match.
type ContentRule struct {
	ID          string
	Type        string
	Pattern     *regexp.Regexp
	Severity    Severity
	Description string
	// default enforcement outcome when the rule matches; zero Duration means
	// the action is not time-bounded
	Action   ActionType
	Duration time.Duration
}

// A regulatory compliance rule: one or more patterns, optionally restricted
// to specific event kinds. Matches make the event non-compliant.
type ComplianceRule struct {
	Name        string
	Severity    Severity
	Patterns    []*regexp.Regexp
	Kinds       []int
	Description string
	Requirement string
}

func (r *ComplianceRule) AppliesToKind(kind int) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, k := range r.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Immutable collection of moderation rules. Construct once (DefaultRules,
// optionally extended via LoadFromFileJSON) and share read-only between all
// checkers; never mutate after the engine starts.
type RuleSet struct {
	Content    []ContentRule
	Compliance []ComplianceRule
}

// Finds a content rule by ID. Returns nil if not present.
func (rs *RuleSet) ContentRule(id string) *ContentRule {
	for i := range rs.Content {
		if rs.Content[i].ID == id {
			return &rs.Content[i]
		}
	}
	return nil
}

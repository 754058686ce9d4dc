package compliance

import (
	"errors"

	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/rules"
)

var ErrMalformedEvent = errors.New("malformed content event")

// A single regulatory rule violation.
type RuleViolation struct {
	Rule        string         `json:"rule"`
	Severity    rules.Severity `json:"severity"`
	Description string         `json:"description"`
	Requirement string         `json:"requirement"`
}

type Verdict struct {
	Compliant  bool            `json:"compliant"`
	Violations []RuleViolation `json:"violations,omitempty"`
}

// Evaluates events against regulatory rules (PII exposure, KYC/AML on payment
// kinds, age-restricted subject matter). Stateless and safe for concurrent
// use; rules are applied independently of each other.
type Checker struct {
	rules *rules.RuleSet
}

func New(rs *rules.RuleSet) *Checker {
	return &Checker{rules: rs}
}

func (c *Checker) Check(evt *event.ContentEvent) (*Verdict, error) {
	if evt == nil || evt.ActorID == "" {
		return nil, ErrMalformedEvent
	}

	var violations []RuleViolation
	for _, rule := range c.rules.Compliance {
		if !rule.AppliesToKind(evt.Kind) {
			continue
		}
		for _, pat := range rule.Patterns {
			if pat.MatchString(evt.Content) {
				violations = append(violations, RuleViolation{
					Rule:        rule.Name,
					Severity:    rule.Severity,
					Description: rule.Description,
					Requirement: rule.Requirement,
				})
				break
			}
		}
	}

	return &Verdict{
		Compliant:  len(violations) == 0,
		Violations: violations,
	}, nil
}

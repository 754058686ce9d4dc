package scanner

import (
	"errors"
	"math"
	"time"

	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/rules"
)

var ErrMalformedEvent = errors.New("malformed content event")

// Risk thresholds for the "safe" verdict. Strict mode is used by deployments
// which would rather over-flag than under-flag.
const (
	ThresholdDefault = 0.5
	ThresholdStrict  = 0.2
)

// events carrying more tags than this get flagged
const maxTags = 20

const maxEvidence = 3

// A single content rule match against an event.
type Violation struct {
	RuleID      string         `json:"rule_id"`
	Type        string         `json:"type"`
	Severity    rules.Severity `json:"severity"`
	MatchCount  int            `json:"match_count"`
	Evidence    []string       `json:"evidence,omitempty"`
	Description string         `json:"description"`
}

type ScanResult struct {
	Safe       bool        `json:"safe"`
	RiskScore  float64     `json:"risk_score"`
	Violations []Violation `json:"violations,omitempty"`
	ScannedAt  time.Time   `json:"scanned_at"`
}

// Evaluates events against the content-filter rules of a rule set. Stateless:
// a Scanner holds only the read-only rule set and is safe for concurrent use.
type Scanner struct {
	rules *rules.RuleSet
}

func New(rs *rules.RuleSet) *Scanner {
	return &Scanner{rules: rs}
}

// Runs every content rule against the event. Each rule contributes
// weight(severity) * min(matchCount/3, 1) to the risk score, which is capped
// at 1.0. Deterministic for a given (event, rule set, strict) triple.
func (s *Scanner) Scan(evt *event.ContentEvent, strict bool) (*ScanResult, error) {
	if evt == nil || evt.ActorID == "" {
		return nil, ErrMalformedEvent
	}

	var violations []Violation
	var risk float64

	for _, rule := range s.rules.Content {
		matches := rule.Pattern.FindAllString(evt.Content, -1)
		if len(matches) == 0 {
			continue
		}
		evidence := matches
		if len(evidence) > maxEvidence {
			evidence = evidence[:maxEvidence]
		}
		violations = append(violations, Violation{
			RuleID:      rule.ID,
			Type:        rule.Type,
			Severity:    rule.Severity,
			MatchCount:  len(matches),
			Evidence:    evidence,
			Description: rule.Description,
		})
		risk += rule.Severity.Weight() * math.Min(float64(len(matches))/3.0, 1.0)
	}

	if len(evt.Tags) > maxTags {
		violations = append(violations, Violation{
			RuleID:      "scanner-tagging",
			Type:        rules.ViolationExcessiveTagging,
			Severity:    rules.SeverityMedium,
			MatchCount:  len(evt.Tags),
			Description: "event carries an excessive number of tags",
		})
		risk += rules.SeverityMedium.Weight()
	}

	if risk > 1.0 {
		risk = 1.0
	}

	threshold := ThresholdDefault
	if strict {
		threshold = ThresholdStrict
	}

	return &ScanResult{
		Safe:       risk < threshold,
		RiskScore:  risk,
		Violations: violations,
		ScannedAt:  time.Now().UTC(),
	}, nil
}

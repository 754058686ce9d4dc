package rules

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"
)

type contentRuleJSON struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Pattern     string `json:"pattern"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Action      string `json:"action"`
	DurationSec int64  `json:"duration_sec"`
}

type complianceRuleJSON struct {
	Name        string   `json:"name"`
	Severity    string   `json:"severity"`
	Patterns    []string `json:"patterns"`
	Kinds       []int    `json:"kinds"`
	Description string   `json:"description"`
	Requirement string   `json:"requirement"`
}

type ruleFileJSON struct {
	Content    []contentRuleJSON    `json:"content"`
	Compliance []complianceRuleJSON `json:"compliance"`
}

// Merges rule definitions from a JSON config file in to the rule set.
// Patterns are compiled eagerly so a bad config fails at startup, not at scan
// time.
func (rs *RuleSet) LoadFromFileJSON(p string) error {

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var file ruleFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return err
	}

	for _, cr := range file.Content {
		pat, err := regexp.Compile(cr.Pattern)
		if err != nil {
			return fmt.Errorf("compiling pattern for rule %s: %w", cr.ID, err)
		}
		rs.Content = append(rs.Content, ContentRule{
			ID:          cr.ID,
			Type:        cr.Type,
			Pattern:     pat,
			Severity:    Severity(cr.Severity),
			Description: cr.Description,
			Action:      ActionType(cr.Action),
			Duration:    time.Duration(cr.DurationSec) * time.Second,
		})
	}

	for _, cr := range file.Compliance {
		var pats []*regexp.Regexp
		for _, p := range cr.Patterns {
			pat, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("compiling pattern for compliance rule %s: %w", cr.Name, err)
			}
			pats = append(pats, pat)
		}
		rs.Compliance = append(rs.Compliance, ComplianceRule{
			Name:        cr.Name,
			Severity:    Severity(cr.Severity),
			Patterns:    pats,
			Kinds:       cr.Kinds,
			Description: cr.Description,
			Requirement: cr.Requirement,
		})
	}
	return nil
}

package rules

import (
	"regexp"
	"time"

	"github.com/arbor-social/arbor/moderation/event"
)

// Violation type names produced by the default rules. The scanner also
// synthesizes ViolationExcessiveTagging, which has no content rule.
const (
	ViolationHateSpeech       = "hate_speech"
	ViolationSpamKeywords     = "spam_keywords"
	ViolationInappropriate    = "inappropriate_content"
	ViolationHarassment       = "harassment"
	ViolationScam             = "scam"
	ViolationExcessiveTagging = "excessive_tagging"
)

// Compliance rule names.
const (
	ComplianceGDPR   = "gdpr"
	ComplianceKYCAML = "kyc_aml"
	ComplianceAge    = "age_verification"
)

// The built-in rule set. Callers get a fresh copy each time and may extend it
// before handing it to the engine.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Content: []ContentRule{
			{
				ID:          "content-001",
				Type:        ViolationHateSpeech,
				Pattern:     regexp.MustCompile(`(?i)(kill all \w+ people|gas the \w+|subhuman (scum|filth)|ethnic cleansing)`),
				Severity:    SeverityCritical,
				Description: "hate speech targeting a protected group",
				Action:      ActionBlock,
				Duration:    30 * 24 * time.Hour,
			},
			{
				ID:          "content-002",
				Type:        ViolationSpamKeywords,
				Pattern:     regexp.MustCompile(`(?i)(buy now|click here|free money|limited time offer|act now|work from home|100% free|double your)`),
				Severity:    SeverityMedium,
				Description: "promotional spam keywords",
				Action:      ActionShadowBan,
				Duration:    7 * 24 * time.Hour,
			},
			{
				ID:          "content-003",
				Type:        ViolationInappropriate,
				Pattern:     regexp.MustCompile(`(?i)(revenge porn|non-?consensual (nude|imagery)|gore video)`),
				Severity:    SeverityHigh,
				Description: "inappropriate content",
				Action:      ActionContentDelete,
			},
			{
				ID:          "content-004",
				Type:        ViolationHarassment,
				Pattern:     regexp.MustCompile(`(?i)(kill yourself|\bkys\b|go die|nobody loves you|i know where you live)`),
				Severity:    SeverityHigh,
				Description: "targeted harassment",
				Action:      ActionBlock,
				Duration:    14 * 24 * time.Hour,
			},
			{
				ID:          "content-005",
				Type:        ViolationScam,
				Pattern:     regexp.MustCompile(`(?i)(seed phrase|wallet verification|claim your prize|send \w+ crypto)`),
				Severity:    SeverityMedium,
				Description: "likely scam or phishing",
				Action:      ActionReport,
			},
		},
		Compliance: []ComplianceRule{
			{
				Name:     ComplianceGDPR,
				Severity: SeverityHigh,
				Patterns: []*regexp.Regexp{
					// credit-card-like digit runs
					regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
					// SSN-like
					regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
					// email addresses
					regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
				},
				Description: "personally identifiable information exposed in public content",
				Requirement: "PII must not be published in public forum content (GDPR Art. 5)",
			},
			{
				Name:     ComplianceKYCAML,
				Severity: SeverityCritical,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`\b\d{4,}\b`),
				},
				Kinds:       []int{event.KindPaymentRequest, event.KindPaymentReceipt},
				Description: "large-value transaction without identity verification",
				Requirement: "identity verification required for payment events (KYC/AML)",
			},
			{
				Name:     ComplianceAge,
				Severity: SeverityMedium,
				Patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)\b(alcohol|whiskey|vodka|gambling|casino|betting|tobacco|cigarettes?|vaping)\b`),
				},
				Description: "age-restricted subject matter",
				Requirement: "age verification required for restricted content categories",
			},
		},
	}
}

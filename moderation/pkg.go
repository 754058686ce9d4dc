package moderation

import (
	"github.com/arbor-social/arbor/moderation/audit"
	"github.com/arbor-social/arbor/moderation/compliance"
	"github.com/arbor-social/arbor/moderation/engine"
	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/reputation"
	"github.com/arbor-social/arbor/moderation/rules"
	"github.com/arbor-social/arbor/moderation/scanner"
	"github.com/arbor-social/arbor/moderation/spam"
)

type Engine = engine.Engine
type Config = engine.Config
type Evaluation = engine.Evaluation
type ModerationAction = engine.ModerationAction
type DecisionEngine = engine.DecisionEngine
type Executor = engine.Executor

type ContentEvent = event.ContentEvent
type RuleSet = rules.RuleSet
type ScanResult = scanner.ScanResult
type SpamVerdict = spam.Verdict
type ComplianceVerdict = compliance.Verdict
type Reputation = reputation.Reputation
type ReputationStore = reputation.Store

type AuditLog = audit.Log
type AuditEntry = audit.Entry
type AuditQueryFilters = audit.QueryFilters
type ComplianceReport = audit.ComplianceReport

var (
	DefaultRules  = rules.DefaultRules
	DefaultConfig = engine.DefaultConfig
	NewEngine     = engine.New

	ActionBlock         = rules.ActionBlock
	ActionShadowBan     = rules.ActionShadowBan
	ActionContentDelete = rules.ActionContentDelete
	ActionContentHide   = rules.ActionContentHide
	ActionRateLimit     = rules.ActionRateLimit
	ActionReport        = rules.ActionReport
)

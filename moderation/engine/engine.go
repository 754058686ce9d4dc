package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arbor-social/arbor/moderation/audit"
	"github.com/arbor-social/arbor/moderation/compliance"
	"github.com/arbor-social/arbor/moderation/event"
	"github.com/arbor-social/arbor/moderation/reputation"
	"github.com/arbor-social/arbor/moderation/rules"
	"github.com/arbor-social/arbor/moderation/scanner"
	"github.com/arbor-social/arbor/moderation/spam"
)

// Evaluation behavior knobs. Each Enable flag gates whether its checker runs
// at all; a disabled checker contributes a nil verdict.
type Config struct {
	// lowers the scanner risk threshold from 0.5 to 0.2
	StrictMode            bool
	EnableContentScanning bool
	EnableSpamDetection   bool
	EnableCompliance      bool
	// gates the decision engine; verdicts are still produced when off
	EnableAutomatedModeration bool
	// invert the fail-open posture: checker failures reject instead of permit
	FailClosed bool
	// spam score above this is spam; zero uses the detector default (0.5)
	SpamThreshold float64
	// per-evaluation deadline; zero means no deadline
	EvalTimeout time.Duration
	// audit log size bound; zero uses the default (10k)
	AuditCapacity int
}

func DefaultConfig() Config {
	return Config{
		EnableContentScanning:     true,
		EnableSpamDetection:       true,
		EnableCompliance:          true,
		EnableAutomatedModeration: true,
		SpamThreshold:             spam.DefaultThreshold,
	}
}

// Combined output of one evaluation. Verdicts from disabled or skipped
// checkers are nil.
type Evaluation struct {
	ScanResult        *scanner.ScanResult `json:"scan_result,omitempty"`
	SpamVerdict       *spam.Verdict       `json:"spam_verdict,omitempty"`
	ComplianceVerdict *compliance.Verdict `json:"compliance_verdict,omitempty"`
	Actions           []ModerationAction  `json:"actions,omitempty"`
}

// Runtime for evaluating content events: runs the enabled checkers, merges
// their verdicts, decides enforcement actions, updates actor reputation, and
// records every decision in the audit log.
//
// All state is injected; construct one Engine per process (or several
// independent ones, eg in tests) and share it between goroutines.
type Engine struct {
	Logger     *slog.Logger
	Config     Config
	Scanner    *scanner.Scanner
	Spam       *spam.Detector
	Compliance *compliance.Checker
	Reputation reputation.Store
	Decisions  *DecisionEngine
	Audit      *audit.Log
	// optional; nil means decided actions are returned but not dispatched
	Executor Executor
}

// Wires up an engine from a rule set and reputation backend with the default
// component implementations. Callers may replace any field before first use.
func New(cfg Config, ruleSet *rules.RuleSet, rep reputation.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	detector := spam.NewDetector(rep, logger)
	if cfg.SpamThreshold > 0 {
		detector.Threshold = cfg.SpamThreshold
	}
	return &Engine{
		Logger:     logger,
		Config:     cfg,
		Scanner:    scanner.New(ruleSet),
		Spam:       detector,
		Compliance: compliance.New(ruleSet),
		Reputation: rep,
		Decisions:  &DecisionEngine{Logger: logger, Rules: ruleSet},
		Audit:      audit.NewLog(cfg.AuditCapacity),
	}
}

// The single moderation entry point: evaluates one event through all enabled
// checkers and the decision engine.
//
// Checker failures (errors or panics) never fail the evaluation: the failing
// checker's verdict falls back to the permissive value (or the rejecting one
// under FailClosed) and processing continues with the rest. The returned
// error is non-nil only for unusable input.
func (eng *Engine) Evaluate(ctx context.Context, evt *event.ContentEvent) (*Evaluation, error) {
	if evt == nil || evt.ActorID == "" {
		return nil, ErrMalformedEvent
	}
	start := time.Now()
	if eng.Config.EvalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eng.Config.EvalTimeout)
		defer cancel()
	}

	eval := &Evaluation{}

	if eng.Config.EnableContentScanning {
		sr, err := eng.runScan(evt)
		if err != nil {
			eng.Logger.Error("checker failed", "checker", "scanner", "event", evt.ID, "err", err)
			checkerErrorCount.WithLabelValues("scanner").Inc()
			sr = eng.fallbackScan()
		}
		eval.ScanResult = sr
	}

	if eng.Config.EnableSpamDetection {
		sv, err := eng.runSpamCheck(ctx, evt)
		if err != nil {
			eng.Logger.Error("checker failed", "checker", "spam", "event", evt.ID, "err", err)
			checkerErrorCount.WithLabelValues("spam").Inc()
			sv = eng.fallbackSpam()
		}
		eval.SpamVerdict = sv
	}

	if eng.Config.EnableCompliance {
		cv, err := eng.runComplianceCheck(ctx, evt)
		if err != nil {
			eng.Logger.Error("checker failed", "checker", "compliance", "event", evt.ID, "err", err)
			checkerErrorCount.WithLabelValues("compliance").Inc()
			cv = eng.fallbackCompliance()
		}
		eval.ComplianceVerdict = cv
	}

	// single reputation read drives both escalation and the update below
	var rep *reputation.Reputation
	if eng.Reputation != nil {
		var err error
		rep, err = eng.Reputation.GetReputation(ctx, evt.ActorID)
		if err != nil {
			eng.Logger.Warn("reputation lookup failed", "actor", evt.ActorID, "err", err)
			rep = nil
		}
	}

	if eng.Config.EnableAutomatedModeration {
		eval.Actions = eng.Decisions.Decide(evt, eval.ScanResult, eval.SpamVerdict, eval.ComplianceVerdict, rep)
		for _, a := range eval.Actions {
			actionProducedCount.WithLabelValues(string(a.Type)).Inc()
		}
	}

	eng.updateReputation(ctx, evt, eval)
	eng.appendAudit(evt, eval)
	eng.dispatchActions(ctx, eval.Actions)

	eventProcessDuration.Observe(time.Since(start).Seconds())
	eventProcessCount.Inc()
	return eval, nil
}

func (eng *Engine) runScan(evt *event.ContentEvent) (sr *scanner.ScanResult, err error) {
	// recover panics from rule execution, similar to an HTTP server
	defer func() {
		if r := recover(); r != nil {
			sr = nil
			err = fmt.Errorf("%w: panic: %v", ErrScanFailure, r)
		}
	}()
	sr, serr := eng.Scanner.Scan(evt, eng.Config.StrictMode)
	if serr != nil {
		return nil, fmt.Errorf("%w: %v", ErrScanFailure, serr)
	}
	return sr, nil
}

func (eng *Engine) runSpamCheck(ctx context.Context, evt *event.ContentEvent) (sv *spam.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			sv = nil
			err = fmt.Errorf("%w: panic: %v", ErrSpamDetection, r)
		}
	}()
	sv, serr := eng.Spam.Check(ctx, evt)
	if serr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpamDetection, serr)
	}
	return sv, nil
}

func (eng *Engine) runComplianceCheck(ctx context.Context, evt *event.ContentEvent) (cv *compliance.Verdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			cv = nil
			err = fmt.Errorf("%w: panic: %v", ErrComplianceCheck, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComplianceCheck, err)
	}
	cv, cerr := eng.Compliance.Check(evt)
	if cerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrComplianceCheck, cerr)
	}
	return cv, nil
}

func (eng *Engine) fallbackScan() *scanner.ScanResult {
	if eng.Config.FailClosed {
		return &scanner.ScanResult{Safe: false, RiskScore: 1.0, ScannedAt: time.Now().UTC()}
	}
	return &scanner.ScanResult{Safe: true, ScannedAt: time.Now().UTC()}
}

func (eng *Engine) fallbackSpam() *spam.Verdict {
	threshold := eng.Config.SpamThreshold
	if threshold <= 0 {
		threshold = spam.DefaultThreshold
	}
	if eng.Config.FailClosed {
		return &spam.Verdict{IsSpam: true, Score: 1.0, Threshold: threshold}
	}
	return &spam.Verdict{Threshold: threshold}
}

func (eng *Engine) fallbackCompliance() *compliance.Verdict {
	if eng.Config.FailClosed {
		return &compliance.Verdict{Compliant: false}
	}
	return &compliance.Verdict{Compliant: true}
}

// Violation count from the merged verdicts feeds the reputation update; the
// spam score is blended in as the new spam signal.
func (eng *Engine) updateReputation(ctx context.Context, evt *event.ContentEvent, eval *Evaluation) {
	if eng.Reputation == nil {
		return
	}
	violations := 0
	if eval.ScanResult != nil {
		violations += len(eval.ScanResult.Violations)
	}
	if eval.ComplianceVerdict != nil {
		violations += len(eval.ComplianceVerdict.Violations)
	}
	var spamSignal float64
	if eval.SpamVerdict != nil {
		spamSignal = eval.SpamVerdict.Score
	}
	if violations == 0 && eval.SpamVerdict == nil {
		return
	}
	if _, err := eng.Reputation.RecordViolations(ctx, evt.ActorID, violations, spamSignal); err != nil {
		eng.Logger.Warn("reputation update failed", "actor", evt.ActorID, "err", err)
	}
}

// Records the decision. Write failures are swallowed (logged) and never block
// the decision path.
func (eng *Engine) appendAudit(evt *event.ContentEvent, eval *Evaluation) {
	if eng.Audit == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("audit append failed", "event", evt.ID, "err", fmt.Errorf("%w: panic: %v", ErrAuditWrite, r))
		}
	}()

	payload := map[string]any{"event_id": evt.ID}
	if eval.ScanResult != nil {
		payload["risk_score"] = eval.ScanResult.RiskScore
	}
	if eval.SpamVerdict != nil {
		payload["spam_score"] = eval.SpamVerdict.Score
	}

	if len(eval.Actions) == 0 {
		eng.Audit.Append(audit.Entry{Action: "evaluate", Actor: evt.ActorID, Payload: payload})
		return
	}
	for _, a := range eval.Actions {
		p := map[string]any{"event_id": evt.ID, "target": a.Target, "reason": a.Reason}
		if a.Duration > 0 {
			p["duration_sec"] = int64(a.Duration.Seconds())
		}
		eng.Audit.Append(audit.Entry{Action: string(a.Type), Actor: evt.ActorID, Payload: p})
	}
}

// Fire-and-forget dispatch: external effects never block evaluation of the
// next event.
func (eng *Engine) dispatchActions(ctx context.Context, actions []ModerationAction) {
	if eng.Executor == nil || len(actions) == 0 {
		return
	}
	dispatched := make([]ModerationAction, len(actions))
	copy(dispatched, actions)
	go func() {
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		for _, a := range dispatched {
			if err := eng.Executor.Execute(dctx, a); err != nil {
				eng.Logger.Error("action dispatch failed", "type", a.Type, "target", a.Target, "err", err)
				dispatchErrorCount.Inc()
			}
		}
	}()
}

// Content moderation engine for the Arbor decentralized forum.
//
// This package (`github.com/arbor-social/arbor/moderation`) contains a set of
// stateless classifiers (content rule scanner, spam heuristic ensemble,
// compliance rules) feeding a stateful decision engine which escalates
// enforcement actions based on actor history, plus an append-only audit trail
// used for compliance reporting. Evaluation is fail-open: a failing checker
// contributes a permissive verdict rather than rejecting the event. The
// companion `ratelimit` package provides the multi-dimensional sliding-window
// rate limiter consulted per request outside the scan pipeline.
//
// See `cmd/arbormod` for a daemon built on this package.
package moderation

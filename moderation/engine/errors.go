package engine

import "errors"

// Checker failure taxonomy. These are logged, not surfaced: evaluation is
// fail-open by default (a failed checker contributes its permissive verdict),
// or fail-closed when Config.FailClosed is set.
var (
	ErrMalformedEvent  = errors.New("malformed content event")
	ErrScanFailure     = errors.New("content scan failed")
	ErrSpamDetection   = errors.New("spam detection failed")
	ErrComplianceCheck = errors.New("compliance check failed")
	ErrAuditWrite      = errors.New("audit write failed")
)

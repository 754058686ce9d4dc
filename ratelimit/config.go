package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownStrategy = errors.New("unknown rate limit strategy")
	ErrBadThreshold    = errors.New("invalid rate limit threshold")
	ErrBadWindow       = errors.New("invalid rate limit window")
)

// Limiting strategy names accepted in configuration. Only sliding_window is
// implemented; the other names are recognized so configs can declare intent,
// but validation rejects them until an implementation exists.
type Strategy string

const (
	StrategySlidingWindow Strategy = "sliding_window"
	StrategyTokenBucket   Strategy = "token_bucket"
	StrategyFixedWindow   Strategy = "fixed_window"
)

// Per-identifier limit configuration. A zero max for a dimension leaves that
// dimension unlimited.
type Config struct {
	Type        IdentifierType `json:"type"`
	Window      time.Duration  `json:"window"`
	MaxRequests int64          `json:"max_requests"`
	MaxEvents   int64          `json:"max_events"`
	MaxBytes    int64          `json:"max_bytes"`
	Strategy    Strategy       `json:"strategy"`
}

func (c Config) validate() error {
	switch c.Strategy {
	case StrategySlidingWindow, "":
		// default
	case StrategyTokenBucket, StrategyFixedWindow:
		return fmt.Errorf("%w: %s not implemented", ErrUnknownStrategy, c.Strategy)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, c.Strategy)
	}
	if c.Window <= 0 {
		return ErrBadWindow
	}
	if c.MaxRequests < 0 || c.MaxEvents < 0 || c.MaxBytes < 0 {
		return ErrBadThreshold
	}
	return nil
}

func (c Config) limitFor(dim Dimension) int64 {
	switch dim {
	case DimRequests:
		return c.MaxRequests
	case DimEvents:
		return c.MaxEvents
	case DimBytes:
		return c.MaxBytes
	default:
		return 0
	}
}

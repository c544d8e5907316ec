// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import (
	"errors"
	"time"
)

// Phase names a stage of a watch cycle.
type Phase string

const (
	PhaseAd      Phase = "ad"
	PhaseContent Phase = "content"
)

// Outcome is the resolved result of one phase.
// Completed and Skipped are mutually exclusive. Reward is the base amount
// before any multiplier is applied.
type Outcome struct {
	Completed   bool
	Skipped     bool
	Bypassed    bool
	Interrupted bool
	WatchTime   time.Duration
	Reward      int

	// Err is ErrMediaMissing or ErrLaunchFailed when no pipeline ran.
	Err error
}

// Bypass is the outcome of an ad phase that was never played.
func Bypass() Outcome {
	return Outcome{Skipped: true, Bypassed: true}
}

// Result labels the outcome for logs and metrics.
func (o Outcome) Result() string {
	switch {
	case errors.Is(o.Err, ErrMediaMissing):
		return "missing"
	case o.Err != nil:
		return "launch_failed"
	case o.Bypassed:
		return "bypassed"
	case o.Skipped:
		return "skipped"
	case o.Completed:
		return "completed"
	case o.Interrupted:
		return "interrupted"
	default:
		return "failed"
	}
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import "time"

// Progress is emitted on every loop tick.
type Progress struct {
	Phase   Phase
	Elapsed time.Duration
	// Total is the probed duration, or the phase default when unknown.
	Total time.Duration
	Gate  GateState
	// UnlockIn is the countdown to the skip option, zero when not applicable.
	UnlockIn time.Duration
}

// Observer receives loop notifications. Implementations must not block.
type Observer interface {
	OnProgress(Progress)
	OnSkipAvailable(Phase)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) OnProgress(Progress)   {}
func (NopObserver) OnSkipAvailable(Phase) {}

// SkipInput reports whether a skip request arrived since the last poll.
// Poll must never block.
type SkipInput interface {
	Poll() bool
}

// NoSkip never requests a skip.
type NoSkip struct{}

func (NoSkip) Poll() bool { return false }

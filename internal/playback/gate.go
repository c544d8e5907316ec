// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import "time"

// GateState is the skip gate position of an ad.
type GateState int

const (
	GateLocked GateState = iota
	GateUnlockable
	GateSkipped
	// GateCompleted means the ad ended on its own. Whether it earns the full
	// reward still depends on the pipeline's success classification.
	GateCompleted
)

func (s GateState) String() string {
	switch s {
	case GateLocked:
		return "locked"
	case GateUnlockable:
		return "unlockable"
	case GateSkipped:
		return "skipped"
	case GateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Gate decides when an ad may be skipped. It has no clock of its own; the
// caller feeds it elapsed time on each tick.
type Gate struct {
	state     GateState
	delay     time.Duration
	skippable bool
}

// NewGate returns a gate for an ad of the given duration. Ads with unknown
// duration or a duration not exceeding delay stay locked forever.
func NewGate(duration, delay time.Duration) *Gate {
	return &Gate{
		state:     GateLocked,
		delay:     delay,
		skippable: duration > 0 && duration > delay,
	}
}

// State returns the current position.
func (g *Gate) State() GateState { return g.state }

// Skippable reports whether the gate can ever unlock.
func (g *Gate) Skippable() bool { return g.skippable }

// Terminal reports whether the gate has resolved.
func (g *Gate) Terminal() bool {
	return g.state == GateSkipped || g.state == GateCompleted
}

// Remaining is the time left until unlock, zero once unlocked or never skippable.
func (g *Gate) Remaining(elapsed time.Duration) time.Duration {
	if g.state != GateLocked || !g.skippable || elapsed >= g.delay {
		return 0
	}
	return g.delay - elapsed
}

// Observe advances Locked to Unlockable once elapsed reaches the delay.
// It returns true exactly once, on the transition.
func (g *Gate) Observe(elapsed time.Duration) bool {
	if g.state != GateLocked || !g.skippable || elapsed < g.delay {
		return false
	}
	g.state = GateUnlockable
	return true
}

// Skip resolves an unlockable gate as skipped.
func (g *Gate) Skip() bool {
	if g.state != GateUnlockable {
		return false
	}
	g.state = GateSkipped
	return true
}

// Complete resolves a non-terminal gate as completed.
func (g *Gate) Complete() bool {
	if g.Terminal() {
		return false
	}
	g.state = GateCompleted
	return true
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package benefit maps ledger benefit snapshots to playback behavior.
package benefit

import "time"

// Type identifies a redeemable benefit.
type Type string

const (
	None           Type = "none"
	SkipAds        Type = "skip_ads"
	AdFreeHour     Type = "ad_free_hour"
	PremiumContent Type = "premium_content"
	VIPDay         Type = "vip_day"
)

// State is a benefit snapshot as reported by the ledger. It is never mutated
// locally; refresh it by querying again.
type State struct {
	Type             Type   `json:"type"`
	Name             string `json:"name,omitempty"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// Active reports whether the snapshot carries a benefit.
func (s State) Active() bool {
	return s.Type != "" && s.Type != None
}

// Remaining returns the time left on the benefit.
func (s State) Remaining() time.Duration {
	if s.RemainingSeconds <= 0 {
		return 0
	}
	return time.Duration(s.RemainingSeconds) * time.Second
}

// Flags are the behavior switches derived from a State.
type Flags struct {
	SkipAds          bool    `json:"skip_ads"`
	HasPremium       bool    `json:"has_premium"`
	RewardMultiplier float64 `json:"reward_multiplier"`
}

// Default is the behavior without any benefit.
var Default = Flags{RewardMultiplier: 1.0}

// FlagsFor derives behavior flags. Unknown types behave like no benefit.
func FlagsFor(s State) Flags {
	switch s.Type {
	case SkipAds, AdFreeHour:
		return Flags{SkipAds: true, RewardMultiplier: 1.0}
	case PremiumContent:
		return Flags{HasPremium: true, RewardMultiplier: 1.0}
	case VIPDay:
		return Flags{SkipAds: true, HasPremium: true, RewardMultiplier: 2.0}
	default:
		return Default
	}
}

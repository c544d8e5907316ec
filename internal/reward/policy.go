// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package reward computes credited amounts and keeps the local shadow of
// everything submitted to the ledger.
package reward

import (
	"math"
	"time"

	"github.com/ManuGH/rewardtv/internal/playback"
)

// Reasons reported to the ledger.
const (
	ReasonAd      = "Ad viewing"
	ReasonContent = "Content viewing"
)

// Policy holds the base amounts and partial-credit thresholds.
type Policy struct {
	AdFull          int
	AdSkip          int
	ContentComplete int
	PartialMin      time.Duration
	PartialUnit     time.Duration
	PartialMax      int
}

// DefaultPolicy matches the stock reward table.
func DefaultPolicy() Policy {
	return Policy{
		AdFull:          5,
		AdSkip:          0,
		ContentComplete: 10,
		PartialMin:      30 * time.Second,
		PartialUnit:     60 * time.Second,
		PartialMax:      5,
	}
}

// Credit applies the multiplier: floor(base * multiplier).
// Multipliers below 1 are treated as 1.
func Credit(base int, multiplier float64) int {
	if base <= 0 {
		return 0
	}
	if multiplier < 1 || math.IsNaN(multiplier) {
		multiplier = 1
	}
	return int(math.Floor(float64(base) * multiplier))
}

// Partial is the capped step function min(max, floor(watch/unit)+1) for
// watch >= min, zero below.
func (p Policy) Partial(watch time.Duration) int {
	if watch < p.PartialMin || p.PartialUnit <= 0 {
		return 0
	}
	steps := int(watch/p.PartialUnit) + 1
	if steps > p.PartialMax {
		return p.PartialMax
	}
	return steps
}

// Content returns the base reward for a content outcome.
func (p Policy) Content(o playback.Outcome) int {
	if o.Err != nil {
		return 0
	}
	if o.Completed {
		return p.ContentComplete
	}
	return p.Partial(o.WatchTime)
}

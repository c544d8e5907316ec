// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ledger

import "github.com/ManuGH/rewardtv/internal/benefit"

// Redemption is a catalog entry that can be bought with tokens.
type Redemption struct {
	Type        benefit.Type `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Cost        int          `json:"cost"`
	// DurationSeconds is nil for benefits that do not expire by time.
	DurationSeconds *int `json:"duration"`
}

// RedeemResult is the ledger's confirmation of a redemption.
type RedeemResult struct {
	Benefit   string       `json:"benefit"`
	Type      benefit.Type `json:"type"`
	Cost      int          `json:"cost"`
	ExpiresAt *int64       `json:"expires_at"`
	Mode      string       `json:"mode"`
}

// Simulated reports whether the ledger only tracked the redemption locally.
func (r RedeemResult) Simulated() bool { return r.Mode == "simulation" }

// Bonus is the binge bonus state of a viewing session.
type Bonus struct {
	Amount        int    `json:"bonus"`
	Message       string `json:"message"`
	VideosWatched int    `json:"videos_watched"`
}

// RatingResult is the ledger's answer to a rating.
type RatingResult struct {
	Accepted bool
	Reward   int `json:"reward"`
}

// Badge is an achievement, owned or still available.
type Badge struct {
	Type        string `json:"type,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement *int   `json:"requirement,omitempty"`
	Owned       bool   `json:"owned"`
	NFTSerial   *int64 `json:"nft_serial,omitempty"`
	HashscanURL string `json:"hashscan_url,omitempty"`
}

// BadgeSet is the badge overview of an account.
type BadgeSet struct {
	OwnedCount int     `json:"owned_count"`
	Total      int     `json:"total_badges"`
	Owned      []Badge `json:"owned_badges"`
	Available  []Badge `json:"available_badges"`
	NFTTokenID string  `json:"nft_token_id"`
}

// NewBadge is a badge awarded by an achievements check.
type NewBadge struct {
	Name         string `json:"badge"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	NFTSerial    *int64 `json:"nft_serial,omitempty"`
	NewlyAwarded bool   `json:"newly_awarded"`
}

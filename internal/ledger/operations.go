// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ManuGH/rewardtv/internal/benefit"
)

// SubmitReward credits amount to accountID. It is never retried.
func (c *Client) SubmitReward(ctx context.Context, accountID string, amount int, reason string) error {
	return c.do(ctx, call{
		op:      "submit_reward",
		method:  http.MethodPost,
		path:    "/reward",
		account: accountID,
		body: map[string]any{
			"account_id": accountID,
			"amount":     amount,
			"reason":     reason,
		},
	}, nil)
}

type benefitResponse struct {
	HasBenefits bool `json:"has_benefits"`
	Benefit     *struct {
		Type             benefit.Type `json:"type"`
		Name             string       `json:"name"`
		RemainingSeconds *int         `json:"remaining_seconds"`
	} `json:"benefit"`
}

// GetBenefit returns the active benefit of accountID, or benefit.None.
func (c *Client) GetBenefit(ctx context.Context, accountID string) (benefit.State, error) {
	var resp benefitResponse
	err := c.do(ctx, call{
		op:      "get_benefit",
		method:  http.MethodGet,
		path:    "/benefits",
		account: accountID,
		query:   url.Values{"account_id": {accountID}},
	}, &resp)
	if err != nil {
		return benefit.State{Type: benefit.None}, err
	}
	if !resp.HasBenefits || resp.Benefit == nil || resp.Benefit.Type == "" {
		return benefit.State{Type: benefit.None}, nil
	}
	st := benefit.State{Type: resp.Benefit.Type, Name: resp.Benefit.Name}
	if resp.Benefit.RemainingSeconds != nil {
		st.RemainingSeconds = *resp.Benefit.RemainingSeconds
	}
	return st, nil
}

// GetRedemptions lists the benefits that can be redeemed.
func (c *Client) GetRedemptions(ctx context.Context) ([]Redemption, error) {
	var resp struct {
		Redemptions []Redemption `json:"redemptions"`
	}
	if err := c.do(ctx, call{op: "get_redemptions", method: http.MethodGet, path: "/redemptions"}, &resp); err != nil {
		return nil, err
	}
	return resp.Redemptions, nil
}

// Redeem exchanges tokens for a benefit.
func (c *Client) Redeem(ctx context.Context, accountID string, benefitType benefit.Type) (RedeemResult, error) {
	var res RedeemResult
	err := c.do(ctx, call{
		op:      "redeem",
		method:  http.MethodPost,
		path:    "/redeem",
		account: accountID,
		body: map[string]any{
			"account_id":   accountID,
			"benefit_type": benefitType,
		},
	}, &res)
	return res, err
}

// StartSession opens a viewing session and returns its ID.
func (c *Client) StartSession(ctx context.Context, accountID string) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	err := c.do(ctx, call{
		op:      "start_session",
		method:  http.MethodPost,
		path:    "/session/start",
		account: accountID,
		body:    map[string]any{"account_id": accountID},
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", &Error{Sentinel: ErrBadResponse, Op: "start_session", Err: errors.New("empty session_id")}
	}
	return resp.SessionID, nil
}

// TrackVideo records a watched video in sessionID and returns the server
// side count.
func (c *Client) TrackVideo(ctx context.Context, sessionID, contentID string) (int, error) {
	if sessionID == "" {
		return 0, &Error{Sentinel: ErrNoSession, Op: "track_video"}
	}
	var resp struct {
		VideosWatched int `json:"videos_watched"`
	}
	err := c.do(ctx, call{
		op:     "track_video",
		method: http.MethodPost,
		path:   "/session/video",
		body: map[string]any{
			"session_id": sessionID,
			"content_id": contentID,
		},
	}, &resp)
	return resp.VideosWatched, err
}

// GetBonus asks the ledger for the session bonus. A zero amount is not an
// error; Message then carries the tip to show.
func (c *Client) GetBonus(ctx context.Context, sessionID, accountID string) (Bonus, error) {
	if sessionID == "" {
		return Bonus{}, &Error{Sentinel: ErrNoSession, Op: "get_bonus"}
	}
	var b Bonus
	err := c.do(ctx, call{
		op:      "get_bonus",
		method:  http.MethodGet,
		path:    "/session/bonus",
		account: accountID,
		query:   url.Values{"session_id": {sessionID}, "account_id": {accountID}},
	}, &b)
	return b, err
}

// SubmitRating sends a 1..5 rating for contentID.
func (c *Client) SubmitRating(ctx context.Context, accountID, contentID string, rating int, sessionID string) (RatingResult, error) {
	var res RatingResult
	err := c.do(ctx, call{
		op:      "submit_rating",
		method:  http.MethodPost,
		path:    "/rate",
		account: accountID,
		body: map[string]any{
			"account_id": accountID,
			"content_id": contentID,
			"rating":     rating,
			"session_id": sessionID,
		},
	}, &res)
	if err != nil {
		return RatingResult{}, err
	}
	res.Accepted = true
	return res, nil
}

// GetBadges returns owned and available badges.
func (c *Client) GetBadges(ctx context.Context, accountID string) (BadgeSet, error) {
	var set BadgeSet
	err := c.do(ctx, call{
		op:      "get_badges",
		method:  http.MethodGet,
		path:    "/badges",
		account: accountID,
		query:   url.Values{"account_id": {accountID}},
	}, &set)
	return set, err
}

// CheckAchievements awards any badges the account now qualifies for.
func (c *Client) CheckAchievements(ctx context.Context, accountID string) ([]NewBadge, error) {
	var resp struct {
		NewBadges []NewBadge `json:"new_badges"`
	}
	err := c.do(ctx, call{
		op:      "check_achievements",
		method:  http.MethodPost,
		path:    "/achievements/check",
		account: accountID,
		body:    map[string]any{"account_id": accountID},
	}, &resp)
	return resp.NewBadges, err
}

// ErrNoMirror is returned by GetBalance when no mirror node is configured.
var ErrNoMirror = errors.New("ledger: mirror node not configured")

// GetBalance reads the token balance of accountID from the mirror node.
func (c *Client) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if c.mirrorURL == "" || c.tokenID == "" {
		return 0, ErrNoMirror
	}
	var resp struct {
		Balance struct {
			Tokens []struct {
				TokenID string          `json:"token_id"`
				Balance json.RawMessage `json:"balance"`
			} `json:"tokens"`
		} `json:"balance"`
	}
	err := c.do(ctx, call{
		op:      "get_balance",
		method:  http.MethodGet,
		base:    c.mirrorURL,
		path:    "/accounts/" + url.PathEscape(accountID),
		account: accountID,
		breaker: c.mirrorBreaker,
	}, &resp)
	if err != nil {
		return 0, err
	}
	for _, tok := range resp.Balance.Tokens {
		if tok.TokenID != c.tokenID {
			continue
		}
		n, perr := strconv.ParseInt(strings.Trim(string(tok.Balance), `"`), 10, 64)
		if perr != nil {
			return 0, &Error{Sentinel: ErrBadResponse, Op: "get_balance", Err: perr}
		}
		return n, nil
	}
	return 0, nil
}

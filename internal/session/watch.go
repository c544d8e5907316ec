// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuGH/rewardtv/internal/benefit"
	"github.com/ManuGH/rewardtv/internal/ledger"
	"github.com/ManuGH/rewardtv/internal/library"
	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/reward"
)

// Summary is the result of one watch cycle. Credited amounts include the
// multiplier in effect when they were booked.
type Summary struct {
	ContentID string `json:"content_id"`
	Premium   bool   `json:"premium"`

	Ad         *playback.Outcome `json:"ad,omitempty"`
	AdCredited int               `json:"ad_credited"`

	Content         playback.Outcome `json:"content"`
	ContentCredited int              `json:"content_credited"`

	Rated        bool   `json:"rated"`
	RatingReward int    `json:"rating_reward"`
	Bonus        int    `json:"bonus"`
	BonusMessage string `json:"bonus_message,omitempty"`

	VideosWatched int               `json:"videos_watched"`
	NewBadges     []ledger.NewBadge `json:"new_badges,omitempty"`
	Multiplier    float64           `json:"multiplier"`
	FinishedAt    time.Time         `json:"finished_at"`
}

// Earned is the session earnings of the cycle.
func (s Summary) Earned() int {
	return s.AdCredited + s.ContentCredited + s.RatingReward + s.Bonus
}

// Select applies the premium gate to item.
func (s *Session) Select(item library.Item) error {
	if item.Premium && !s.Flags().HasPremium {
		return fmt.Errorf("%w: %s", ErrPremiumLocked, item.ID)
	}
	return nil
}

// Watch runs one cycle for item: ad (unless bypassed), content, rating,
// bonus and achievements. Interrupts end only the running phase; the cycle
// still credits what was earned. Only ErrPremiumLocked is returned.
func (s *Session) Watch(ctx context.Context, item library.Item) (Summary, error) {
	logger := log.WithComponentFromContext(ctx, "session")
	s.RefreshBenefits(ctx)
	if err := s.Select(item); err != nil {
		logger.Info().
			Str(log.FieldEvent, "content.locked").
			Str(log.FieldContentID, item.ID).
			Msg("premium content refused")
		return Summary{}, err
	}

	sum := Summary{ContentID: item.ID, Premium: item.Premium}

	if s.cfg.AdPath != "" {
		var ad playback.Outcome
		if item.Premium {
			ad = playback.Bypass()
			s.finishPhase(ctx, nil, playback.PhaseAd, ad)
		} else {
			ad = s.RunAdPhase(ctx, s.probe(ctx, s.cfg.AdPath), s.Flags())
		}
		sum.Ad = &ad
		sum.AdCredited = s.credit(ctx, ad.Reward, reward.ReasonAd)
	}

	if ctx.Err() != nil {
		// Shutting down: the content phase is never entered.
		sum.Content = playback.Outcome{Interrupted: true}
	} else {
		s.trackVideo(ctx, item.ID)
		sum.Content = s.RunContentPhase(ctx, s.probe(ctx, item.Path), s.Flags())
		sum.ContentCredited = s.credit(ctx, sum.Content.Reward, reward.ReasonContent)
	}
	sum.VideosWatched = s.VideosWatched()

	if ctx.Err() == nil && s.rateable(sum.Content) {
		sum.Rated, sum.RatingReward = s.rate(ctx, item.ID)
	}

	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()
	sum.Bonus, sum.BonusMessage = s.bonus(lctx)
	sum.NewBadges = s.achievements(lctx)
	sum.Multiplier = s.Flags().RewardMultiplier
	sum.FinishedAt = s.deps.Clock.Now()

	s.mu.Lock()
	last := sum
	s.last = &last
	s.mu.Unlock()

	logger.Info().
		Str(log.FieldEvent, "cycle.finished").
		Str(log.FieldContentID, item.ID).
		Int(log.FieldAmount, sum.Earned()).
		Int("videos_watched", sum.VideosWatched).
		Msg("watch cycle finished")
	return sum, nil
}

func (s *Session) probe(ctx context.Context, path string) media.Asset {
	if s.deps.Prober == nil {
		return media.Asset{Path: path}
	}
	return media.Probe(ctx, s.deps.Prober, path)
}

// credit books base with the multiplier of the current flags.
func (s *Session) credit(ctx context.Context, base int, reason string) int {
	if base <= 0 || s.deps.Bookkeeper == nil {
		return 0
	}
	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()
	ev := s.deps.Bookkeeper.Credit(lctx, base, s.Flags().RewardMultiplier, reason)
	return ev.Amount
}

func (s *Session) trackVideo(ctx context.Context, contentID string) {
	id := s.ID()
	if id == "" {
		return
	}
	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()
	if _, err := s.deps.Ledger.TrackVideo(lctx, id, contentID); err != nil {
		logger := log.WithComponentFromContext(ctx, "session")
		logger.Warn().Err(err).
			Str(log.FieldEvent, "session.track_failed").
			Str(log.FieldContentID, contentID).
			Msg("video not tracked")
	}
}

func (s *Session) rateable(out playback.Outcome) bool {
	return out.Err == nil && (out.Completed || out.WatchTime > s.cfg.RatingMinWatch)
}

func (s *Session) rate(ctx context.Context, contentID string) (bool, int) {
	if s.deps.Rater == nil {
		return false, 0
	}
	rating, ok := s.deps.Rater.AskRating(ctx, contentID)
	if !ok || rating < 1 || rating > 5 {
		return false, 0
	}
	lctx, cancel := s.ledgerContext(ctx)
	defer cancel()
	res, err := s.deps.Ledger.SubmitRating(lctx, s.cfg.AccountID, contentID, rating, s.ID())
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "session")
		logger.Warn().Err(err).Str(log.FieldEvent, "rating.failed").Msg("rating not submitted")
		return false, 0
	}
	return res.Accepted, res.Reward
}

func (s *Session) bonus(ctx context.Context) (int, string) {
	id := s.ID()
	if id == "" {
		return 0, ""
	}
	b, err := s.deps.Ledger.GetBonus(ctx, id, s.cfg.AccountID)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "session")
		logger.Warn().Err(err).Str(log.FieldEvent, "bonus.failed").Msg("bonus check failed")
		return 0, ""
	}
	return b.Amount, b.Message
}

func (s *Session) achievements(ctx context.Context) []ledger.NewBadge {
	badges, err := s.deps.Ledger.CheckAchievements(ctx, s.cfg.AccountID)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "session")
		logger.Warn().Err(err).Str(log.FieldEvent, "achievements.failed").Msg("achievement check failed")
		return nil
	}
	return badges
}

// Redeem buys a benefit and refreshes the snapshot, so the new multiplier
// applies to credits booked afterwards only.
func (s *Session) Redeem(ctx context.Context, t benefit.Type) (ledger.RedeemResult, benefit.Flags, error) {
	res, err := s.deps.Ledger.Redeem(ctx, s.cfg.AccountID, t)
	if err != nil {
		return res, s.Flags(), err
	}
	logger := log.WithComponentFromContext(ctx, "session")
	logger.Info().
		Str(log.FieldEvent, "benefit.redeemed").
		Str(log.FieldBenefit, string(t)).
		Int("cost", res.Cost).
		Bool("simulated", res.Simulated()).
		Msg("benefit redeemed")
	return res, s.RefreshBenefits(ctx), nil
}

// Balance reads the on-chain balance. When the mirror is unavailable it
// falls back to the local shadow total and reports estimated=true.
func (s *Session) Balance(ctx context.Context) (balance int64, estimated bool) {
	b, err := s.deps.Ledger.GetBalance(ctx, s.cfg.AccountID)
	if err == nil {
		return b, false
	}
	logger := log.WithComponentFromContext(ctx, "session")
	logger.Debug().Err(err).Str(log.FieldEvent, "balance.estimated").Msg("using local total as balance")
	if s.deps.Bookkeeper == nil {
		return 0, true
	}
	return s.deps.Bookkeeper.Total(), true
}

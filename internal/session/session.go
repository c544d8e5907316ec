// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package session sequences watch cycles: optional ad, content, rating,
// bonus and summary. It owns the per-session counters and the current
// benefit snapshot and credits rewards through a reward.Bookkeeper.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/rewardtv/internal/benefit"
	"github.com/ManuGH/rewardtv/internal/ledger"
	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/reward"
)

// ErrPremiumLocked is returned when premium content is selected without
// premium access. No phase is entered.
var ErrPremiumLocked = errors.New("session: premium content requires premium access")

// Ledger is the subset of the ledger client a session uses.
type Ledger interface {
	reward.Submitter
	GetBenefit(ctx context.Context, accountID string) (benefit.State, error)
	StartSession(ctx context.Context, accountID string) (string, error)
	TrackVideo(ctx context.Context, sessionID, contentID string) (int, error)
	GetBonus(ctx context.Context, sessionID, accountID string) (ledger.Bonus, error)
	SubmitRating(ctx context.Context, accountID, contentID string, rating int, sessionID string) (ledger.RatingResult, error)
	CheckAchievements(ctx context.Context, accountID string) ([]ledger.NewBadge, error)
	Redeem(ctx context.Context, accountID string, benefitType benefit.Type) (ledger.RedeemResult, error)
	GetBalance(ctx context.Context, accountID string) (int64, error)
}

// Rater asks the viewer for a 1..5 rating. ok=false means the viewer declined.
type Rater interface {
	AskRating(ctx context.Context, contentID string) (rating int, ok bool)
}

// Config is the immutable session configuration.
type Config struct {
	AccountID string
	// AdPath is played before regular content. Empty disables ads.
	AdPath    string
	Mode      media.SinkMode
	StopGrace time.Duration

	Ad      playback.GateConfig
	Content playback.LoopConfig
	Policy  reward.Policy

	// RatingMinWatch is the watch time above which an incomplete view may be rated.
	RatingMinWatch time.Duration
	// LedgerTimeout bounds the ledger calls made after the caller's context
	// was cancelled, so credits earned before the interrupt still go out.
	LedgerTimeout time.Duration
}

// Deps are the collaborators of a Session.
type Deps struct {
	Ledger     Ledger
	Prober     media.Prober
	Bookkeeper *reward.Bookkeeper
	Skip       playback.SkipInput
	Observer   playback.Observer
	Rater      Rater
	Clock      playback.Clock

	// NewPlayer creates the player of one phase. Required unless Launcher is set.
	NewPlayer func() playback.Player
	Launcher  playback.Launcher
}

const defaultLedgerTimeout = 10 * time.Second

// Session is one viewing session. Watch cycles must not run concurrently;
// Snapshot and Interrupt are safe from any goroutine.
type Session struct {
	cfg  Config
	deps Deps

	videosWatched atomic.Int64

	mu          sync.Mutex
	id          string
	state       benefit.State
	flags       benefit.Flags
	phase       playback.Phase
	progress    playback.Progress
	last        *Summary
	cancelPhase context.CancelFunc
}

// New creates a Session. Missing optional collaborators get inert defaults.
func New(cfg Config, deps Deps) *Session {
	if cfg.LedgerTimeout <= 0 {
		cfg.LedgerTimeout = defaultLedgerTimeout
	}
	if deps.Skip == nil {
		deps.Skip = playback.NoSkip{}
	}
	if deps.Observer == nil {
		deps.Observer = playback.NopObserver{}
	}
	if deps.Clock == nil {
		deps.Clock = playback.RealClock
	}
	if deps.NewPlayer == nil {
		launcher, opts := deps.Launcher, playback.ProcessOptions{Mode: cfg.Mode, StopGrace: cfg.StopGrace, Clock: deps.Clock}
		deps.NewPlayer = func() playback.Player { return playback.NewProcess(launcher, opts) }
	}
	return &Session{cfg: cfg, deps: deps, state: benefit.State{Type: benefit.None}, flags: benefit.Default}
}

// Open starts the ledger session and loads the benefit snapshot. Ledger
// failures are logged; the session works without a ledger session id.
func (s *Session) Open(ctx context.Context) error {
	logger := log.WithComponentFromContext(ctx, "session")
	id, err := s.deps.Ledger.StartSession(ctx, s.cfg.AccountID)
	if err != nil {
		logger.Warn().Err(err).
			Str(log.FieldEvent, "session.start_failed").
			Msg("viewing session not started; bonus tracking disabled")
	} else {
		s.mu.Lock()
		s.id = id
		s.mu.Unlock()
		logger.Info().
			Str(log.FieldEvent, "session.started").
			Str(log.FieldSessionID, id).
			Str(log.FieldAccountID, s.cfg.AccountID).
			Msg("viewing session started")
	}
	s.RefreshBenefits(ctx)
	return ctx.Err()
}

// ID returns the ledger session id, empty if none was obtained.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// RefreshBenefits re-reads the benefit state. A failed read degrades to no
// benefit.
func (s *Session) RefreshBenefits(ctx context.Context) benefit.Flags {
	st, err := s.deps.Ledger.GetBenefit(ctx, s.cfg.AccountID)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "session")
		logger.Warn().Err(err).
			Str(log.FieldEvent, "benefit.unavailable").
			Msg("benefit lookup failed, assuming none")
		st = benefit.State{Type: benefit.None}
	}
	flags := benefit.FlagsFor(st)

	s.mu.Lock()
	s.state = st
	s.flags = flags
	s.mu.Unlock()
	return flags
}

// Flags returns the current behavior flags.
func (s *Session) Flags() benefit.Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// Benefit returns the current benefit snapshot.
func (s *Session) Benefit() benefit.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// VideosWatched counts content phases entered in this session.
func (s *Session) VideosWatched() int { return int(s.videosWatched.Load()) }

// Interrupt stops the running phase as if the viewer pressed stop. It
// reports whether a phase was running.
func (s *Session) Interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelPhase == nil {
		return false
	}
	s.cancelPhase()
	return true
}

func (s *Session) beginPhase(ctx context.Context, phase playback.Phase) (context.Context, func()) {
	pctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancelPhase = cancel
	s.phase = phase
	s.progress = playback.Progress{Phase: phase}
	s.mu.Unlock()
	return pctx, func() {
		s.mu.Lock()
		s.cancelPhase = nil
		s.phase = ""
		s.mu.Unlock()
		cancel()
	}
}

// OnProgress records the latest progress and forwards it.
func (s *Session) OnProgress(p playback.Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
	s.deps.Observer.OnProgress(p)
}

// OnSkipAvailable forwards the unlock event.
func (s *Session) OnSkipAvailable(phase playback.Phase) {
	s.deps.Observer.OnSkipAvailable(phase)
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	AccountID     string             `json:"account_id"`
	SessionID     string             `json:"session_id,omitempty"`
	Benefit       benefit.State      `json:"benefit"`
	Flags         benefit.Flags      `json:"flags"`
	VideosWatched int                `json:"videos_watched"`
	LocalTotal    int64              `json:"local_total"`
	Phase         playback.Phase     `json:"phase,omitempty"`
	Progress      *playback.Progress `json:"progress,omitempty"`
	LastSummary   *Summary           `json:"last_summary,omitempty"`
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		AccountID:     s.cfg.AccountID,
		SessionID:     s.id,
		Benefit:       s.state,
		Flags:         s.flags,
		VideosWatched: s.VideosWatched(),
		Phase:         s.phase,
		LastSummary:   s.last,
	}
	if s.deps.Bookkeeper != nil {
		snap.LocalTotal = s.deps.Bookkeeper.Total()
	}
	if s.phase != "" {
		p := s.progress
		snap.Progress = &p
	}
	return snap
}

// ledgerContext keeps ledger calls alive after ctx was cancelled, bounded by
// LedgerTimeout.
func (s *Session) ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.cfg.LedgerTimeout)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import (
	"context"
	"time"

	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/metrics"
)

// LoopConfig holds the timing shared by both phase loops.
type LoopConfig struct {
	Tick time.Duration
	// CompletionWait bounds the safety-net wait after the loop saw the pipeline exit.
	CompletionWait time.Duration
	// DefaultTotal is shown as progress total when the duration is unknown.
	DefaultTotal time.Duration
}

// GateConfig configures the ad phase.
type GateConfig struct {
	LoopConfig
	SkipDelay  time.Duration
	FullReward int
	SkipReward int
}

const maxCompletionWait = 5 * time.Second

func (c LoopConfig) normalize(defaultTick, defaultTotal time.Duration) LoopConfig {
	if c.Tick <= 0 {
		c.Tick = defaultTick
	}
	if c.CompletionWait <= 0 || c.CompletionWait > maxCompletionWait {
		c.CompletionWait = maxCompletionWait
	}
	if c.DefaultTotal <= 0 {
		c.DefaultTotal = defaultTotal
	}
	return c
}

func (c LoopConfig) total(a media.Asset) time.Duration {
	if a.DurationKnown() {
		return a.Duration
	}
	return c.DefaultTotal
}

// Option customises a phase loop.
type Option func(*loopDeps)

type loopDeps struct {
	clock    Clock
	observer Observer
}

// WithClock injects the loop clock.
func WithClock(c Clock) Option { return func(d *loopDeps) { d.clock = c } }

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option { return func(d *loopDeps) { d.observer = o } }

func buildDeps(opts []Option) loopDeps {
	d := loopDeps{clock: RealClock, observer: NopObserver{}}
	for _, o := range opts {
		o(&d)
	}
	return d
}

// SkipGate drives an ad through a Player with a timer-gated skip option.
type SkipGate struct {
	cfg GateConfig
	loopDeps
}

// NewSkipGate builds an ad loop. Tick defaults to 100ms, default total to 30s.
func NewSkipGate(cfg GateConfig, opts ...Option) *SkipGate {
	cfg.LoopConfig = cfg.LoopConfig.normalize(100*time.Millisecond, 30*time.Second)
	return &SkipGate{cfg: cfg, loopDeps: buildDeps(opts)}
}

// Run plays asset and resolves it as skipped, completed or neither.
// Cancelling ctx is an explicit stop: the outcome is interrupted with the
// elapsed time preserved and no reward.
func (s *SkipGate) Run(ctx context.Context, p Player, asset media.Asset, input SkipInput) Outcome {
	logger := log.WithComponentFromContext(ctx, "skipgate")
	var out Outcome

	if err := p.Start(ctx, asset); err != nil {
		out.Err = err
		return out
	}

	gate := NewGate(asset.Duration, s.cfg.SkipDelay)
	total := s.cfg.total(asset)
	ticker := s.clock.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for p.IsRunning() {
		elapsed := p.Elapsed()

		unlocked := gate.Observe(elapsed)
		s.observer.OnProgress(Progress{
			Phase:    PhaseAd,
			Elapsed:  elapsed,
			Total:    total,
			Gate:     gate.State(),
			UnlockIn: gate.Remaining(elapsed),
		})
		if unlocked {
			metrics.IncSkipAvailable()
			logger.Info().
				Str(log.FieldEvent, "gate.unlocked").
				Dur(log.FieldElapsed, elapsed).
				Msg("skip available")
			s.observer.OnSkipAvailable(PhaseAd)
		}

		if gate.State() == GateUnlockable && input.Poll() {
			gate.Skip()
			p.Stop()
			logger.Info().
				Str(log.FieldEvent, "gate.skipped").
				Dur(log.FieldWatchTime, elapsed).
				Msg("ad skipped")
			out.Skipped = true
			out.WatchTime = elapsed
			out.Reward = s.cfg.SkipReward
			return out
		}

		select {
		case <-ctx.Done():
			out.WatchTime = p.Elapsed()
			p.Stop()
			out.Interrupted = true
			logger.Info().
				Str(log.FieldEvent, "gate.interrupted").
				Dur(log.FieldWatchTime, out.WatchTime).
				Msg("ad interrupted")
			return out
		case <-ticker.C():
		}
	}

	gate.Complete()
	p.WaitForCompletion(s.cfg.CompletionWait)
	out.WatchTime = p.PlaybackDuration()
	if p.Successful() {
		out.Completed = true
		out.Reward = s.cfg.FullReward
	}
	logger.Info().
		Str(log.FieldEvent, "gate.completed").
		Bool("successful", out.Completed).
		Dur(log.FieldWatchTime, out.WatchTime).
		Msg("ad finished")
	return out
}

// ContentLoop drives content playback. Content has no skip option.
type ContentLoop struct {
	cfg LoopConfig
	loopDeps
}

// NewContentLoop builds a content loop. Tick defaults to 300ms, default total to 60s.
func NewContentLoop(cfg LoopConfig, opts ...Option) *ContentLoop {
	return &ContentLoop{cfg: cfg.normalize(300*time.Millisecond, 60*time.Second), loopDeps: buildDeps(opts)}
}

// Run plays asset until it exits or ctx is cancelled. The outcome carries no
// reward; partial credit is the caller's policy.
func (c *ContentLoop) Run(ctx context.Context, p Player, asset media.Asset) Outcome {
	logger := log.WithComponentFromContext(ctx, "content")
	var out Outcome

	if err := p.Start(ctx, asset); err != nil {
		out.Err = err
		return out
	}

	total := c.cfg.total(asset)
	ticker := c.clock.NewTicker(c.cfg.Tick)
	defer ticker.Stop()

	for p.IsRunning() {
		c.observer.OnProgress(Progress{Phase: PhaseContent, Elapsed: p.Elapsed(), Total: total})

		select {
		case <-ctx.Done():
			out.WatchTime = p.Elapsed()
			p.Stop()
			out.Interrupted = true
			logger.Info().
				Str(log.FieldEvent, "content.interrupted").
				Dur(log.FieldWatchTime, out.WatchTime).
				Msg("content stopped")
			return out
		case <-ticker.C():
		}
	}

	p.WaitForCompletion(c.cfg.CompletionWait)
	out.WatchTime = p.PlaybackDuration()
	out.Completed = p.Successful()
	logger.Info().
		Str(log.FieldEvent, "content.finished").
		Bool("successful", out.Completed).
		Dur(log.FieldWatchTime, out.WatchTime).
		Msg("content finished")
	return out
}

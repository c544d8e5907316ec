// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import (
	"context"
	"testing"
	"time"

	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGateConfig = GateConfig{
	SkipDelay:  5 * time.Second,
	FullReward: 5,
	SkipReward: 0,
}

func (h *loopHarness) runAd(ctx context.Context, asset media.Asset, input SkipInput) {
	gate := NewSkipGate(testGateConfig, WithClock(h.clock), WithObserver(h.obs))
	go func() { h.result <- gate.Run(ctx, h.player, asset, input) }()
}

func (h *loopHarness) runContent(ctx context.Context, asset media.Asset) {
	loop := NewContentLoop(LoopConfig{}, WithClock(h.clock), WithObserver(h.obs))
	go func() { h.result <- loop.Run(ctx, h.player, asset) }()
}

func TestSkipGate_ShortAdNeverSkippable(t *testing.T) {
	h := newHarness()
	input := &latchInput{}
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4", Duration: 3 * time.Second}, input)

	first := h.nextProgress(t)
	assert.Equal(t, GateLocked, first.Gate)
	assert.Equal(t, 3*time.Second, first.Total)

	for i := 0; i < 3; i++ {
		input.press()
		p := h.advance(t, time.Second)
		assert.Equal(t, GateLocked, p.Gate)
		assert.Zero(t, p.UnlockIn)
	}

	h.player.finish(true)
	h.tick(t)
	out := h.outcome(t)

	assert.Equal(t, Outcome{Completed: true, WatchTime: 3 * time.Second, Reward: 5}, out)
	assert.Empty(t, h.obs.unlocks())
	assert.Zero(t, input.pollCount(), "input is never polled while locked")
	assert.Zero(t, h.player.stopCount())
}

func TestSkipGate_SkipAfterUnlock(t *testing.T) {
	h := newHarness()
	input := &latchInput{}
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4", Duration: 20 * time.Second}, input)

	p := h.nextProgress(t)
	assert.Equal(t, 5*time.Second, p.UnlockIn)

	for i := 0; i < 4; i++ {
		p = h.advance(t, time.Second)
		assert.Equal(t, GateLocked, p.Gate)
	}
	p = h.advance(t, time.Second)
	assert.Equal(t, GateUnlockable, p.Gate)

	h.advance(t, time.Second) // t=6, no press
	input.press()
	h.clock.Advance(time.Second) // t=7
	h.tick(t)
	h.nextProgress(t)
	out := h.outcome(t)

	assert.Equal(t, Outcome{Skipped: true, WatchTime: 7 * time.Second, Reward: 0}, out)
	assert.Equal(t, []time.Duration{5 * time.Second}, h.obs.unlocks())
	assert.Equal(t, 1, h.player.stopCount())
	assert.Equal(t, "skipped", out.Result())
}

func TestSkipGate_EarlyPressConsumedAtUnlock(t *testing.T) {
	h := newHarness()
	input := &latchInput{}
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4", Duration: 20 * time.Second}, input)
	h.nextProgress(t)

	h.advance(t, 2*time.Second)
	input.press()
	h.advance(t, 2*time.Second) // t=4, still locked
	h.clock.Advance(time.Second)
	h.tick(t)
	h.nextProgress(t)
	out := h.outcome(t)

	assert.True(t, out.Skipped)
	assert.Equal(t, 5*time.Second, out.WatchTime)
}

func TestSkipGate_UnknownDurationStaysLocked(t *testing.T) {
	h := newHarness()
	input := &latchInput{}
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4"}, input)

	p := h.nextProgress(t)
	assert.Equal(t, 30*time.Second, p.Total, "default progress total")

	input.press()
	p = h.advance(t, 10*time.Second)
	assert.Equal(t, GateLocked, p.Gate)

	h.player.finish(true)
	h.tick(t)
	out := h.outcome(t)
	assert.True(t, out.Completed)
	assert.Empty(t, h.obs.unlocks())
}

func TestSkipGate_UnsuccessfulFinish(t *testing.T) {
	h := newHarness()
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4", Duration: 20 * time.Second}, NoSkip{})
	h.nextProgress(t)
	h.advance(t, 8*time.Second)

	h.player.finish(false)
	h.tick(t)
	out := h.outcome(t)

	assert.False(t, out.Completed)
	assert.False(t, out.Skipped)
	assert.Zero(t, out.Reward)
	assert.Equal(t, 8*time.Second, out.WatchTime)
	assert.Equal(t, "failed", out.Result())
}

func TestSkipGate_InterruptPreservesElapsed(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	h.runAd(ctx, media.Asset{Path: "ad.mp4", Duration: 20 * time.Second}, NoSkip{})
	h.nextProgress(t)
	h.advance(t, 4*time.Second)

	cancel()
	out := h.outcome(t)

	assert.Equal(t, Outcome{Interrupted: true, WatchTime: 4 * time.Second}, out)
	assert.Equal(t, 1, h.player.stopCount())
}

func TestSkipGate_StartFailure(t *testing.T) {
	h := newHarness()
	h.player.startErr = ErrLaunchFailed
	h.runAd(context.Background(), media.Asset{Path: "ad.mp4"}, NoSkip{})

	out := h.outcome(t)
	require.ErrorIs(t, out.Err, ErrLaunchFailed)
	assert.Zero(t, out.Reward)
	assert.Equal(t, "launch_failed", out.Result())
}

func TestContentLoop_CompletesNaturally(t *testing.T) {
	h := newHarness()
	h.runContent(context.Background(), media.Asset{Path: "movie.mp4", Duration: 40 * time.Second})

	p := h.nextProgress(t)
	assert.Equal(t, PhaseContent, p.Phase)
	for i := 0; i < 4; i++ {
		h.advance(t, 10*time.Second)
	}
	h.player.finish(true)
	h.tick(t)
	out := h.outcome(t)

	assert.Equal(t, Outcome{Completed: true, WatchTime: 40 * time.Second}, out)
}

func TestContentLoop_InterruptAt45s(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	h.runContent(ctx, media.Asset{Path: "movie.mp4"})

	p := h.nextProgress(t)
	assert.Equal(t, 60*time.Second, p.Total)
	h.advance(t, 45*time.Second)

	cancel()
	out := h.outcome(t)
	assert.Equal(t, Outcome{Interrupted: true, WatchTime: 45 * time.Second}, out)
	assert.Equal(t, "interrupted", out.Result())
}

func TestContentLoop_MissingMedia(t *testing.T) {
	h := newHarness()
	h.player.startErr = ErrMediaMissing
	h.runContent(context.Background(), media.Asset{Path: "gone.mp4"})

	out := h.outcome(t)
	assert.ErrorIs(t, out.Err, ErrMediaMissing)
	assert.Equal(t, "missing", out.Result())
}

func TestBypass(t *testing.T) {
	out := Bypass()
	assert.True(t, out.Skipped)
	assert.False(t, out.Completed)
	assert.Zero(t, out.Reward)
	assert.Zero(t, out.WatchTime)
	assert.Equal(t, "bypassed", out.Result())
}

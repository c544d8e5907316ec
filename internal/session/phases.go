// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package session

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/rewardtv/internal/benefit"
	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/metrics"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/telemetry"
)

// RunAdPhase plays the ad through the skip gate. With flags.SkipAds the ad is
// bypassed without launching anything. The outcome reward is the base amount.
func (s *Session) RunAdPhase(ctx context.Context, asset media.Asset, flags benefit.Flags) playback.Outcome {
	if flags.SkipAds {
		out := playback.Bypass()
		s.finishPhase(ctx, nil, playback.PhaseAd, out)
		return out
	}

	pctx, end := s.beginPhase(ctx, playback.PhaseAd)
	defer end()
	pctx, span := s.startSpan(pctx, playback.PhaseAd, asset)

	gate := playback.NewSkipGate(s.cfg.Ad, playback.WithClock(s.deps.Clock), playback.WithObserver(s))
	out := gate.Run(pctx, s.deps.NewPlayer(), asset, s.deps.Skip)
	s.finishPhase(pctx, span, playback.PhaseAd, out)
	return out
}

// RunContentPhase plays content without a skip option and resolves the base
// reward: the completion reward, or partial credit for an incomplete view.
// Each call counts as one watched video, whatever its outcome.
func (s *Session) RunContentPhase(ctx context.Context, asset media.Asset, flags benefit.Flags) playback.Outcome {
	s.videosWatched.Add(1)

	pctx, end := s.beginPhase(ctx, playback.PhaseContent)
	defer end()
	pctx, span := s.startSpan(pctx, playback.PhaseContent, asset)
	span.SetAttributes(telemetry.BenefitAttributes(flags.SkipAds, flags.HasPremium, flags.RewardMultiplier)...)

	loop := playback.NewContentLoop(s.cfg.Content, playback.WithClock(s.deps.Clock), playback.WithObserver(s))
	out := loop.Run(pctx, s.deps.NewPlayer(), asset)
	out.Reward = s.cfg.Policy.Content(out)
	s.finishPhase(pctx, span, playback.PhaseContent, out)
	return out
}

func (s *Session) startSpan(ctx context.Context, phase playback.Phase, asset media.Asset) (context.Context, trace.Span) {
	tracer := telemetry.Tracer("rewardtv.session")
	ctx, span := tracer.Start(ctx, "rewardtv.session."+string(phase)+"_phase")
	span.SetAttributes(telemetry.AssetAttributes(asset.Path, asset.Duration)...)
	return ctx, span
}

func (s *Session) finishPhase(ctx context.Context, span trace.Span, phase playback.Phase, out playback.Outcome) {
	result := out.Result()
	metrics.RecordPhase(string(phase), result, out.WatchTime.Seconds())

	logger := log.WithComponentFromContext(ctx, "session")
	ev := logger.Info()
	if out.Err != nil {
		ev = logger.Warn().Err(out.Err)
	}
	ev.Str(log.FieldEvent, "phase.finished").
		Str(log.FieldPhase, string(phase)).
		Str(log.FieldStatus, result).
		Dur(log.FieldWatchTime, out.WatchTime).
		Int(log.FieldBaseAmount, out.Reward).
		Msg("phase finished")

	if span == nil {
		return
	}
	span.SetAttributes(telemetry.PhaseAttributes(string(phase), result, out.WatchTime.Milliseconds(), out.Reward)...)
	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
	}
	span.End()
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the rewardtv configuration from defaults, a strict
// YAML file and REWARDTV_* environment overrides.
package config

import (
	"strings"
	"time"

	"github.com/ManuGH/rewardtv/internal/validate"
)

// Tick bounds of the cooperative phase loops.
const (
	MinTick = 100 * time.Millisecond
	MaxTick = 300 * time.Millisecond
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.NotEmpty("account.id", cfg.Account.ID)

	v.URL("ledger.baseUrl", cfg.Ledger.BaseURL, []string{"http", "https"})
	if strings.TrimSpace(cfg.Ledger.MirrorURL) != "" {
		v.URL("ledger.mirrorUrl", cfg.Ledger.MirrorURL, []string{"http", "https"})
	}
	v.Range("ledger.maxRetries", cfg.Ledger.MaxRetries, 0, 10)
	v.DurationRange("ledger.timeout", cfg.Ledger.Timeout, 100*time.Millisecond, 2*time.Minute)
	v.FloatRange("ledger.rateLimit", cfg.Ledger.RateLimit, 0.1, 1000)

	v.OneOf("media.backend", cfg.Media.Backend, []string{"gstreamer", "ffmpeg"})
	v.Range("media.outputLines", cfg.Media.OutputLines, 1, 10000)

	v.Path("playback.adPath", cfg.Playback.AdPath)
	v.DurationRange("playback.skipDelay", cfg.Playback.SkipDelay, 0, 5*time.Minute)
	v.DurationRange("playback.stopGrace", cfg.Playback.StopGrace, 100*time.Millisecond, 30*time.Second)
	v.DurationRange("playback.adTick", cfg.Playback.AdTick, MinTick, MaxTick)
	v.DurationRange("playback.contentTick", cfg.Playback.ContentTick, MinTick, MaxTick)
	v.DurationRange("playback.completionWait", cfg.Playback.CompletionWait, 0, 5*time.Second)

	v.NonNegative("rewards.adFull", cfg.Rewards.AdFull)
	v.NonNegative("rewards.adSkip", cfg.Rewards.AdSkip)
	v.NonNegative("rewards.contentComplete", cfg.Rewards.ContentComplete)
	v.NonNegative("rewards.partialMax", cfg.Rewards.PartialMax)
	if cfg.Rewards.PartialUnit <= 0 {
		v.AddError("rewards.partialUnit", "must be positive", cfg.Rewards.PartialUnit)
	}

	v.Path("library.dir", cfg.Library.Dir)

	if cfg.Journal.Enabled {
		v.Path("journal.path", cfg.Journal.Path)
	}
	if cfg.Server.Enabled {
		v.ListenAddr("server.listen", cfg.Server.Listen)
		v.Range("server.rateLimit", cfg.Server.RateLimit, 1, 100000)
	}
	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	if _, err := validate.ParseLogLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
		v.AddError("logging.level", "must be one of debug, info, warn, error", cfg.Logging.Level)
	}

	return v.Err()
}

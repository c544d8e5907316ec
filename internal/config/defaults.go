// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"slices"
	"time"
)

// DefaultDisplayEnv points the display sink at the Westeros compositor.
var DefaultDisplayEnv = []string{
	"LD_PRELOAD=/usr/lib/libwesteros_gl.so.0",
	"WESTEROS_SINK_USE_ESSRMGR=1",
	"WESTEROS_SINK_USE_FREERUN=1",
	"WESTEROS_GL_USE_GENERIC_AVSYNC=1",
	"WESTEROS_GL_USE_REFRESH_LOCK=1",
	"WESTEROS_DRM_CARD=/dev/dri/card1",
	"WESTEROS_GL_GRAPHICS_MAX_SIZE=1920x1080",
	"WESTEROS_GL_USE_BEST_MODE=1",
	"PLAYERSINKBIN_USE_WESTEROSSINK=1",
	"AAMP_ENABLE_WESTEROS_SINK=1",
	"XDG_RUNTIME_DIR=/tmp",
	"WAYLAND_DISPLAY=westeros-0",
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Ledger: LedgerConfig{
			BaseURL:          "http://localhost:5000",
			Timeout:          10 * time.Second,
			MaxRetries:       2,
			RateLimit:        10,
			RateLimitBurst:   20,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
			MirrorURL:        "https://testnet.mirrornode.hedera.com/api/v1",
		},
		Media: MediaConfig{
			Backend:      "gstreamer",
			DisplayEnv:   slices.Clone(DefaultDisplayEnv),
			ProbeTimeout: 10 * time.Second,
			OutputLines:  200,
		},
		Playback: PlaybackConfig{
			AdPath:              "/opt/ad.mp4",
			SkipDelay:           5 * time.Second,
			StopGrace:           3 * time.Second,
			AdTick:              100 * time.Millisecond,
			ContentTick:         300 * time.Millisecond,
			CompletionWait:      5 * time.Second,
			AdDefaultTotal:      30 * time.Second,
			ContentDefaultTotal: 60 * time.Second,
		},
		Rewards: RewardsConfig{
			AdFull:          5,
			AdSkip:          0,
			ContentComplete: 10,
			PartialMin:      30 * time.Second,
			PartialUnit:     60 * time.Second,
			PartialMax:      5,
			RatingMinWatch:  30 * time.Second,
		},
		Library: LibraryConfig{
			Dir:        "/opt",
			PremiumDir: "/opt/premium",
			Extensions: []string{".mp4"},
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "/var/lib/rewardtv/journal.db",
		},
		Server: ServerConfig{
			Listen:    "127.0.0.1:8089",
			RateLimit: 120,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

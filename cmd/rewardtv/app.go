// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/ManuGH/rewardtv/internal/config"
	"github.com/ManuGH/rewardtv/internal/health"
	"github.com/ManuGH/rewardtv/internal/ledger"
	"github.com/ManuGH/rewardtv/internal/library"
	xglog "github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/reward"
	"github.com/ManuGH/rewardtv/internal/session"
	"github.com/ManuGH/rewardtv/internal/version"
)

// libraryScanMaxAge marks the library check degraded when no scan succeeded for that long.
const libraryScanMaxAge = 24 * time.Hour

func newLedgerClient(cfg config.AppConfig) *ledger.Client {
	return ledger.NewClient(cfg.Ledger.BaseURL, ledger.Options{
		Timeout:          cfg.Ledger.Timeout,
		MaxRetries:       cfg.Ledger.MaxRetries,
		RateLimit:        rate.Limit(cfg.Ledger.RateLimit),
		RateLimitBurst:   cfg.Ledger.RateLimitBurst,
		UserAgent:        "rewardtv/" + version.Version,
		BreakerThreshold: cfg.Ledger.BreakerThreshold,
		BreakerReset:     cfg.Ledger.BreakerReset,
		MirrorURL:        cfg.Ledger.MirrorURL,
		TokenID:          cfg.Ledger.TokenID,
	})
}

func newMediaTool(cfg config.AppConfig) (media.Tool, error) {
	return media.New(media.Options{
		Backend:      cfg.Media.Backend,
		DisplayEnv:   cfg.Media.DisplayEnv,
		ProbeTimeout: cfg.Media.ProbeTimeout,
		OutputLines:  cfg.Media.OutputLines,
		LaunchBin:    cfg.Media.LaunchBin,
		PlayerBin:    cfg.Media.PlayerBin,
		ProbeBin:     cfg.Media.ProbeBin,
	})
}

func libraryConfig(cfg config.AppConfig) library.Config {
	return library.Config{
		Dir:        cfg.Library.Dir,
		PremiumDir: cfg.Library.PremiumDir,
		AdPath:     cfg.Playback.AdPath,
		Extensions: cfg.Library.Extensions,
	}
}

func sinkMode(cfg config.AppConfig) media.SinkMode {
	if cfg.Playback.Headless {
		return media.SinkHeadless
	}
	return media.SinkDisplay
}

// sessionConfig maps the loaded configuration onto the session engine.
func sessionConfig(cfg config.AppConfig) session.Config {
	return session.Config{
		AccountID: cfg.Account.ID,
		AdPath:    cfg.Playback.AdPath,
		Mode:      sinkMode(cfg),
		StopGrace: cfg.Playback.StopGrace,
		Ad: playback.GateConfig{
			LoopConfig: playback.LoopConfig{
				Tick:           cfg.Playback.AdTick,
				CompletionWait: cfg.Playback.CompletionWait,
				DefaultTotal:   cfg.Playback.AdDefaultTotal,
			},
			SkipDelay:  cfg.Playback.SkipDelay,
			FullReward: cfg.Rewards.AdFull,
			SkipReward: cfg.Rewards.AdSkip,
		},
		Content: playback.LoopConfig{
			Tick:           cfg.Playback.ContentTick,
			CompletionWait: cfg.Playback.CompletionWait,
			DefaultTotal:   cfg.Playback.ContentDefaultTotal,
		},
		Policy: reward.Policy{
			AdFull:          cfg.Rewards.AdFull,
			AdSkip:          cfg.Rewards.AdSkip,
			ContentComplete: cfg.Rewards.ContentComplete,
			PartialMin:      cfg.Rewards.PartialMin,
			PartialUnit:     cfg.Rewards.PartialUnit,
			PartialMax:      cfg.Rewards.PartialMax,
		},
		RatingMinWatch: cfg.Rewards.RatingMinWatch,
		LedgerTimeout:  cfg.Ledger.Timeout,
	}
}

// openJournal opens the reward journal when enabled. A journal that cannot
// be opened is logged and skipped; credits are then only kept in memory.
func openJournal(ctx context.Context, cfg config.AppConfig) *reward.Journal {
	if !cfg.Journal.Enabled {
		return nil
	}
	logger := xglog.WithComponentFromContext(ctx, "cli")
	if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o750); err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "journal.unavailable").Msg("cannot create journal directory")
		return nil
	}
	j, err := reward.OpenJournal(ctx, cfg.Journal.Path)
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "journal.unavailable").Msg("reward journal disabled")
		return nil
	}
	return j
}

func requireJournal(ctx context.Context, cfg config.AppConfig) (*reward.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, fmt.Errorf("the reward journal is disabled (journal.enabled)")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Journal.Path), 0o750); err != nil {
		return nil, err
	}
	return reward.OpenJournal(ctx, cfg.Journal.Path)
}

// healthManager registers the checks served on /healthz and /readyz.
func healthManager(cfg config.AppConfig, client *ledger.Client, lib *library.Service) *health.Manager {
	m := health.NewManager(version.Version)
	m.RegisterChecker(health.NewFileChecker("ad_asset", cfg.Playback.AdPath))
	m.RegisterChecker(health.NewCheckFunc("ledger", func(context.Context) health.CheckResult {
		switch st := client.BreakerState(); st {
		case ledger.StateClosed:
			return health.CheckResult{Status: health.StatusHealthy, Message: "circuit " + st.String()}
		default:
			// Credits are still kept locally while the ledger is away.
			return health.CheckResult{Status: health.StatusDegraded, Message: "circuit " + st.String()}
		}
	}))
	m.RegisterChecker(health.NewLastRunChecker("library_scan", libraryScanMaxAge, func() (time.Time, string) {
		last := lib.LastScan()
		if last.Errors > 0 {
			return last.Finished, fmt.Sprintf("%d entries unreadable", last.Errors)
		}
		return last.Finished, ""
	}))
	return m
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/rewardtv/internal/api"
	"github.com/ManuGH/rewardtv/internal/input"
	"github.com/ManuGH/rewardtv/internal/library"
	xglog "github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/reward"
	"github.com/ManuGH/rewardtv/internal/session"
	"github.com/ManuGH/rewardtv/internal/telemetry"
	"github.com/ManuGH/rewardtv/internal/version"
)

func runWatch(ctx context.Context, env *cliEnv, args []string) int {
	fs := flag.NewFlagSet("rewardtv watch", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	item := fs.String("item", "", "play this content id once and exit")
	headless := fs.Bool("headless", env.cfg.Playback.Headless, "decode without a display sink")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := env.cfg
	cfg.Playback.Headless = *headless
	logger := xglog.WithComponentFromContext(ctx, "cli")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "rewardtv",
		ServiceVersion: version.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.init_failed").Msg("tracing disabled")
	} else {
		defer func() {
			if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Debug().Err(err).Msg("telemetry shutdown")
			}
		}()
	}

	tool, err := newMediaTool(cfg)
	if err != nil {
		fmt.Fprintf(env.stderr, "Media backend error: %v\n", err)
		return 1
	}
	client := newLedgerClient(cfg)

	lib := library.NewService(libraryConfig(cfg))
	if _, err := lib.Refresh(ctx); err != nil {
		fmt.Fprintf(env.stderr, "Library error: %v\n", err)
		return 1
	}

	journal := openJournal(ctx, cfg)
	var store reward.Store
	if journal != nil {
		defer func() { _ = journal.Close() }()
		store = journal
	}
	books := reward.NewBookkeeper(cfg.Account.ID, client, store)

	console := input.NewConsole(env.stdin)
	sess := session.New(sessionConfig(cfg), session.Deps{
		Ledger:     client,
		Prober:     tool,
		Bookkeeper: books,
		Skip:       console,
		Observer:   &terminalObserver{out: env.stdout},
		Rater:      consoleRater{console: console, out: env.stdout, timeout: ratingTimeout},
		Launcher:   playback.ToolLauncher(tool),
	})
	ctx = xglog.ContextWithSessionID(ctx, cfg.Account.ID)
	if err := sess.Open(ctx); err != nil {
		return 1
	}
	if id := sess.ID(); id != "" {
		ctx = xglog.ContextWithSessionID(ctx, id)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	// Ctrl-C stops the running phase; with nothing playing it quits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	defer signal.Stop(sigCh)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-sigCh:
				if !sess.Interrupt() {
					cancel()
					return nil
				}
			}
		}
	})

	if cfg.Server.Enabled {
		tracing := ""
		if cfg.Telemetry.Enabled {
			tracing = "rewardtv-status"
		}
		srv := api.New(api.Config{Listen: cfg.Server.Listen, RateLimit: cfg.Server.RateLimit, TracingService: tracing}, api.Deps{
			Session: sess,
			Catalog: lib,
			Journal: journalSource(journal),
			Health:  healthManager(cfg, client, lib),
		})
		g.Go(func() error { return srv.Run(gctx) })
	}

	if cfg.Library.Watch {
		g.Go(func() error {
			err := lib.Watch(gctx, 0, func(cat library.Catalog) {
				logger.Info().Str(xglog.FieldEvent, "library.changed").Int("items", cat.Len()).Msg("library updated")
			})
			if err != nil {
				logger.Warn().Err(err).Str(xglog.FieldEvent, "library.watch_failed").Msg("library watching disabled")
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		if *item != "" {
			return watchOnce(gctx, env, sess, lib, *item)
		}
		return menuLoop(gctx, env, sess, lib, console)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// journalSource avoids handing a typed nil to the server.
func journalSource(j *reward.Journal) api.JournalSource {
	if j == nil {
		return nil
	}
	return j
}

func findItem(cat library.Catalog, id string) (library.Item, bool) {
	for _, it := range cat.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return library.Item{}, false
}

func watchOnce(ctx context.Context, env *cliEnv, sess *session.Session, lib *library.Service, id string) error {
	it, ok := findItem(lib.Catalog(), id)
	if !ok {
		return fmt.Errorf("no content %q in the library", id)
	}
	return playItem(ctx, env, sess, it)
}

func playItem(ctx context.Context, env *cliEnv, sess *session.Session, it library.Item) error {
	sum, err := sess.Watch(ctx, it)
	if errors.Is(err, session.ErrPremiumLocked) {
		fmt.Fprintf(env.stdout, "%s requires Premium Content access. Redeem it with `rewardtv redeem premium_content`.\n", it.ID)
		return nil
	}
	if err != nil {
		return err
	}
	balance, estimated := sess.Balance(context.WithoutCancel(ctx))
	printSummary(env.stdout, sum, balance, estimated)
	return nil
}

// menuLoop lists the library and plays the chosen item until the viewer
// quits, stdin ends or ctx is cancelled.
func menuLoop(ctx context.Context, env *cliEnv, sess *session.Session, lib *library.Service, console *input.Console) error {
	for {
		cat := lib.Catalog()
		fmt.Fprintln(env.stdout)
		fmt.Fprintf(env.stdout, "Benefit: %s\n", describeBenefit(sess.Benefit()))
		printCatalog(env.stdout, cat, sess.Flags().HasPremium)
		fmt.Fprint(env.stdout, "Select a number, [r]efresh or [q]uit: ")

		line, err := console.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, input.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch choice := strings.ToLower(strings.TrimSpace(line)); choice {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "r":
			if _, err := lib.Refresh(ctx); err != nil {
				fmt.Fprintf(env.stdout, "Refresh failed: %v\n", err)
			}
			sess.RefreshBenefits(ctx)
		default:
			n, err := strconv.Atoi(choice)
			if err != nil {
				fmt.Fprintf(env.stdout, "Unknown choice %q\n", choice)
				continue
			}
			it, err := cat.Select(n)
			if err != nil {
				fmt.Fprintf(env.stdout, "No item %d\n", n)
				continue
			}
			if err := playItem(ctx, env, sess, it); err != nil {
				return err
			}
		}
	}
}

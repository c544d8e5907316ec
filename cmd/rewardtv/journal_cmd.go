// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/ManuGH/rewardtv/internal/persistence/sqlite"
	"github.com/ManuGH/rewardtv/internal/reward"
)

func runJournal(ctx context.Context, env *cliEnv, args []string) int {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	if sub == "verify" {
		return journalVerify(ctx, env, args)
	}

	j, err := requireJournal(ctx, env.cfg)
	if err != nil {
		fmt.Fprintf(env.stderr, "Journal error: %v\n", err)
		return 1
	}
	defer func() { _ = j.Close() }()

	switch sub {
	case "list":
		return journalList(ctx, env, j, args)
	case "totals":
		return journalTotals(ctx, env, j)
	case "reconcile":
		return journalReconcile(ctx, env, j)
	default:
		fmt.Fprintln(env.stderr, "Usage: rewardtv journal [list [-n N] | totals | reconcile | verify [-full]]")
		return 2
	}
}

func journalList(ctx context.Context, env *cliEnv, j *reward.Journal, args []string) int {
	fs := flag.NewFlagSet("rewardtv journal list", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	n := fs.Int("n", 20, "number of entries")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	events, err := j.Recent(ctx, *n)
	if err != nil {
		fmt.Fprintf(env.stderr, "Journal error: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tAMOUNT\tBASE\tMULT\tREASON\tSYNCED")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%d\t%d\tx%.1f\t%s\t%t\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Amount, e.Base, e.Multiplier, e.Reason, e.Synced)
	}
	_ = tw.Flush()
	return 0
}

func journalTotals(ctx context.Context, env *cliEnv, j *reward.Journal) int {
	t, err := j.Totals(ctx)
	if err != nil {
		fmt.Fprintf(env.stderr, "Journal error: %v\n", err)
		return 1
	}
	fmt.Fprintf(env.stdout, "Credited: %d in %d events\nUnsynced: %d\n", t.Credited, t.Events, t.Unsynced)
	return 0
}

// journalReconcile resubmits unsynced credits. It is operator-initiated
// because a lost acknowledgement makes the resubmission a double credit.
func journalReconcile(ctx context.Context, env *cliEnv, j *reward.Journal) int {
	books := reward.NewBookkeeper(env.cfg.Account.ID, newLedgerClient(env.cfg), j)
	res, err := books.Reconcile(ctx)
	if err != nil {
		fmt.Fprintf(env.stderr, "Reconcile error: %v\n", err)
		return 1
	}
	fmt.Fprintf(env.stdout, "Attempted %d, synced %d (%d tokens), failed %d\n", res.Attempted, res.Synced, res.Amount, res.Failed)
	if res.Failed > 0 {
		return 1
	}
	return 0
}

func journalVerify(ctx context.Context, env *cliEnv, args []string) int {
	fs := flag.NewFlagSet("rewardtv journal verify", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	full := fs.Bool("full", false, "run a full integrity check instead of a quick one")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	mode := "quick"
	if *full {
		mode = "full"
	}
	problems, err := sqlite.VerifyIntegrity(ctx, env.cfg.Journal.Path, mode)
	if err != nil {
		fmt.Fprintf(env.stderr, "Verify error: %v\n", err)
		return 1
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(env.stdout, p)
		}
		return 1
	}
	fmt.Fprintf(env.stdout, "%s: ok (%s check)\n", env.cfg.Journal.Path, mode)
	return 0
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ManuGH/rewardtv/internal/benefit"
	"github.com/ManuGH/rewardtv/internal/library"
	"github.com/ManuGH/rewardtv/internal/session"
)

func describeBenefit(st benefit.State) string {
	if st.Type == benefit.None || st.Type == "" {
		return "none"
	}
	name := st.Name
	if name == "" {
		name = string(st.Type)
	}
	if st.RemainingSeconds > 0 {
		return fmt.Sprintf("%s (%s left)", name, (time.Duration(st.RemainingSeconds) * time.Second).String())
	}
	return name
}

func runLibrary(ctx context.Context, env *cliEnv, _ []string) int {
	cat, res, err := library.Scan(ctx, libraryConfig(env.cfg))
	if err != nil {
		fmt.Fprintf(env.stderr, "Library error: %v\n", err)
		return 1
	}
	printCatalog(env.stdout, cat, true)
	fmt.Fprintf(env.stdout, "\n%d items (%d regular, %d premium), %d skipped\n",
		cat.Len(), len(cat.Regular), len(cat.Premium), res.Skipped)
	return 0
}

func runBenefits(ctx context.Context, env *cliEnv, _ []string) int {
	st, err := newLedgerClient(env.cfg).GetBenefit(ctx, env.cfg.Account.ID)
	if err != nil {
		fmt.Fprintf(env.stderr, "Ledger error: %v\n", err)
		return 1
	}
	flags := benefit.FlagsFor(st)
	fmt.Fprintf(env.stdout, "Active benefit: %s\n", describeBenefit(st))
	fmt.Fprintf(env.stdout, "Skip ads: %t  Premium: %t  Multiplier: x%.1f\n", flags.SkipAds, flags.HasPremium, flags.RewardMultiplier)
	return 0
}

func runRedemptions(ctx context.Context, env *cliEnv, _ []string) int {
	list, err := newLedgerClient(env.cfg).GetRedemptions(ctx)
	if err != nil {
		fmt.Fprintf(env.stderr, "Ledger error: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tCOST\tDURATION\tDESCRIPTION")
	for _, r := range list {
		dur := "-"
		if r.DurationSeconds != nil {
			dur = (time.Duration(*r.DurationSeconds) * time.Second).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Type, r.Name, r.Cost, dur, r.Description)
	}
	_ = tw.Flush()
	return 0
}

func runRedeem(ctx context.Context, env *cliEnv, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(env.stderr, "Usage: rewardtv redeem <skip_ads|ad_free_hour|premium_content|vip_day>")
		return 2
	}
	t := benefit.Type(strings.TrimSpace(args[0]))
	switch t {
	case benefit.SkipAds, benefit.AdFreeHour, benefit.PremiumContent, benefit.VIPDay:
	default:
		fmt.Fprintf(env.stderr, "Unknown benefit type %q\n", args[0])
		return 2
	}

	client := newLedgerClient(env.cfg)
	sess := session.New(sessionConfig(env.cfg), session.Deps{Ledger: client})
	res, flags, err := sess.Redeem(ctx, t)
	if err != nil {
		fmt.Fprintf(env.stderr, "Redemption failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(env.stdout, "Redeemed %s for %d tokens", res.Benefit, res.Cost)
	if res.Simulated() {
		fmt.Fprint(env.stdout, " (simulated)")
	}
	fmt.Fprintln(env.stdout)
	fmt.Fprintf(env.stdout, "Now: %s, multiplier x%.1f\n", describeBenefit(sess.Benefit()), flags.RewardMultiplier)
	return 0
}

func runBadges(ctx context.Context, env *cliEnv, _ []string) int {
	set, err := newLedgerClient(env.cfg).GetBadges(ctx, env.cfg.Account.ID)
	if err != nil {
		fmt.Fprintf(env.stderr, "Ledger error: %v\n", err)
		return 1
	}
	fmt.Fprintf(env.stdout, "Badges: %d of %d\n", set.OwnedCount, set.Total)
	for _, b := range set.Owned {
		fmt.Fprintf(env.stdout, "  [x] %s %s - %s\n", b.Icon, b.Name, b.Description)
	}
	for _, b := range set.Available {
		fmt.Fprintf(env.stdout, "  [ ] %s %s - %s\n", b.Icon, b.Name, b.Description)
	}
	return 0
}

func runBalance(ctx context.Context, env *cliEnv, _ []string) int {
	var local int64
	if j := openJournal(ctx, env.cfg); j != nil {
		if t, err := j.Totals(ctx); err == nil {
			local = t.Credited
		}
		_ = j.Close()
	}

	bal, err := newLedgerClient(env.cfg).GetBalance(ctx, env.cfg.Account.ID)
	if err != nil {
		fmt.Fprintf(env.stdout, "Balance: ~%d (estimated from the local journal, ledger unavailable: %v)\n", local, err)
		return 0
	}
	fmt.Fprintf(env.stdout, "Balance: %d\n", bal)
	return 0
}

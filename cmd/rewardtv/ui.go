// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/rewardtv/internal/input"
	"github.com/ManuGH/rewardtv/internal/library"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/session"
)

const (
	progressWidth = 30
	ratingTimeout = 30 * time.Second
)

// terminalObserver redraws a single progress line per tick.
type terminalObserver struct {
	mu  sync.Mutex
	out io.Writer
}

func (o *terminalObserver) OnProgress(p playback.Progress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "\r%s", renderProgress(p, progressWidth))
}

func (o *terminalObserver) OnSkipAvailable(playback.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "\n>> Skip available: type %q and press Enter\n", input.SkipCommand)
}

func renderProgress(p playback.Progress, width int) string {
	label := "CONTENT"
	if p.Phase == playback.PhaseAd {
		label = "AD"
	}
	filled := 0
	if p.Total > 0 {
		filled = int(float64(width) * float64(p.Elapsed) / float64(p.Total))
	}
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)

	line := fmt.Sprintf("[%s] %s %s / %s", label, bar, clock(p.Elapsed), clock(p.Total))
	switch {
	case p.Phase != playback.PhaseAd:
	case p.Gate == playback.GateLocked && p.UnlockIn > 0:
		line += fmt.Sprintf("  skip in %ds", int(p.UnlockIn.Round(time.Second).Seconds()))
	case p.Gate == playback.GateUnlockable:
		line += "  [s] skip"
	}
	return line
}

func clock(d time.Duration) string {
	s := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// consoleRater prompts on the terminal and reads the answer from the console.
type consoleRater struct {
	console *input.Console
	out     io.Writer
	timeout time.Duration
}

func (r consoleRater) AskRating(ctx context.Context, contentID string) (int, bool) {
	r.console.Drain()
	fmt.Fprintf(r.out, "\nRate %s (1-5, Enter to skip): ", contentID)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	line, err := r.console.ReadLine(ctx)
	if err != nil {
		fmt.Fprintln(r.out)
		return 0, false
	}
	return parseRating(line)
}

func parseRating(line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

func printCatalog(w io.Writer, cat library.Catalog, hasPremium bool) {
	items := cat.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "No content found.")
		return
	}
	for i, it := range items {
		tag := ""
		if it.Premium {
			tag = "  [premium]"
			if !hasPremium {
				tag = "  [premium, locked]"
			}
		}
		fmt.Fprintf(w, "%3d) %s%s\n", i+1, it.ID, tag)
	}
}

func printSummary(w io.Writer, sum session.Summary, balance int64, estimated bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "===== Session summary =====")
	if sum.Ad != nil {
		fmt.Fprintf(w, "Ad:       %-11s %s  +%d\n", sum.Ad.Result(), clock(sum.Ad.WatchTime), sum.AdCredited)
	}
	fmt.Fprintf(w, "Content:  %-11s %s  +%d\n", sum.Content.Result(), clock(sum.Content.WatchTime), sum.ContentCredited)
	if sum.Rated {
		fmt.Fprintf(w, "Rating:   +%d\n", sum.RatingReward)
	}
	if sum.Bonus > 0 {
		fmt.Fprintf(w, "Bonus:    +%d\n", sum.Bonus)
	}
	if sum.Multiplier > 1 {
		fmt.Fprintf(w, "Multiplier: x%.1f\n", sum.Multiplier)
	}
	fmt.Fprintf(w, "Earned:   %d\n", sum.Earned())
	fmt.Fprintf(w, "Videos watched this session: %d\n", sum.VideosWatched)
	for _, b := range sum.NewBadges {
		fmt.Fprintf(w, "New badge: %s %s\n", b.Icon, b.Name)
	}
	if estimated {
		fmt.Fprintf(w, "Balance:  ~%d (estimated, ledger unavailable)\n", balance)
	} else {
		fmt.Fprintf(w, "Balance:  %d\n", balance)
	}
	if sum.BonusMessage != "" {
		fmt.Fprintf(w, "Tip: %s\n", sum.BonusMessage)
	}
}

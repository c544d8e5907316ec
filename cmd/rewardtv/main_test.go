// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/rewardtv/internal/benefit"
	"github.com/ManuGH/rewardtv/internal/config"
	"github.com/ManuGH/rewardtv/internal/ledger"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/ManuGH/rewardtv/internal/reward"
	"github.com/ManuGH/rewardtv/internal/session"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersionAndUsage(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "rewardtv ")

	code, out, _ = runCLI(t, "help")
	assert.Equal(t, 0, code)
	for _, c := range commands {
		assert.Contains(t, out, c.name)
	}

	code, _, errOut := runCLI(t, "--config", writeConfig(t, "account:\n  id: 0.0.7\n"), "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Unknown command: frobnicate")
}

func TestMissingAccountFailsFast(t *testing.T) {
	code, _, errOut := runCLI(t, "--config", writeConfig(t, "logging:\n  level: info\n"), "library")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Configuration error")
}

func TestConfigInitWritesLoadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")

	code, _, errOut := runCLI(t, "config", "init", "-f", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--account is required")

	code, out, _ := runCLI(t, "config", "init", "-f", path, "--account", "0.0.42")
	require.Equal(t, 0, code)
	assert.Contains(t, out, path)

	cfg, err := config.LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.42", cfg.Account.ID)

	code, _, errOut = runCLI(t, "config", "init", "-f", path, "--account", "0.0.43")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--force")

	code, out, _ = runCLI(t, "config", "validate", "-f", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "is valid")

	code, out, _ = runCLI(t, "config", "dump", "-f", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "0.0.42")
}

func TestLibraryCommand(t *testing.T) {
	dir := t.TempDir()
	premium := filepath.Join(dir, "premium")
	require.NoError(t, os.MkdirAll(premium, 0o750))
	for _, p := range []string{filepath.Join(dir, "b.mp4"), filepath.Join(dir, "a.mp4"), filepath.Join(dir, "ad.mp4"), filepath.Join(premium, "gold.mp4")} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	path := writeConfig(t, "account:\n  id: 0.0.7\nplayback:\n  adPath: "+filepath.Join(dir, "ad.mp4")+
		"\nlibrary:\n  dir: "+dir+"\n  premiumDir: "+premium+"\njournal:\n  enabled: false\n")

	code, out, errOut := runCLI(t, "--config", path, "library")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "  1) a.mp4\n")
	assert.Contains(t, out, "  2) b.mp4\n")
	assert.Contains(t, out, "  3) gold.mp4  [premium]\n")
	assert.NotContains(t, out, "ad.mp4")
}

func TestBenefitsAndRedeemAgainstLedger(t *testing.T) {
	var redeemed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/benefits":
			if len(redeemed) == 0 {
				_, _ = w.Write([]byte(`{"success":true,"has_benefits":false}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"has_benefits":true,"benefit":{"type":"vip_day","name":"VIP Day","remaining_seconds":3600}}`))
		case "/redeem":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			redeemed = append(redeemed, body["benefit_type"])
			_, _ = w.Write([]byte(`{"success":true,"benefit":"VIP Day","type":"vip_day","cost":400,"mode":"simulation"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	path := writeConfig(t, "account:\n  id: 0.0.7\nledger:\n  baseUrl: "+srv.URL+"\n  maxRetries: 0\njournal:\n  enabled: false\n")

	code, out, errOut := runCLI(t, "--config", path, "benefits")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Active benefit: none")

	code, _, _ = runCLI(t, "--config", path, "redeem", "gold_star")
	assert.Equal(t, 2, code)
	assert.Empty(t, redeemed)

	code, out, errOut = runCLI(t, "--config", path, "redeem", "vip_day")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, []string{"vip_day"}, redeemed)
	assert.Contains(t, out, "Redeemed VIP Day for 400 tokens (simulated)")
	assert.Contains(t, out, "multiplier x2.0")
}

func TestSessionConfigFromDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Account.ID = "0.0.7"
	cfg.Playback.Headless = true

	got := sessionConfig(cfg)
	want := session.Config{
		AccountID: "0.0.7",
		AdPath:    "/opt/ad.mp4",
		Mode:      media.SinkHeadless,
		StopGrace: 3 * time.Second,
		Ad: playback.GateConfig{
			LoopConfig: playback.LoopConfig{Tick: 100 * time.Millisecond, CompletionWait: 5 * time.Second, DefaultTotal: 30 * time.Second},
			SkipDelay:  5 * time.Second,
			FullReward: 5,
			SkipReward: 0,
		},
		Content:        playback.LoopConfig{Tick: 300 * time.Millisecond, CompletionWait: 5 * time.Second, DefaultTotal: 60 * time.Second},
		Policy:         sessionConfig(cfg).Policy,
		RatingMinWatch: 30 * time.Second,
		LedgerTimeout:  cfg.Ledger.Timeout,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10, got.Policy.ContentComplete)
	assert.Equal(t, 5, got.Policy.PartialMax)
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		p    playback.Progress
		want string
	}{
		{
			name: "locked ad",
			p:    playback.Progress{Phase: playback.PhaseAd, Elapsed: 2 * time.Second, Total: 20 * time.Second, Gate: playback.GateLocked, UnlockIn: 3 * time.Second},
			want: "[AD] #--------- 00:02 / 00:20  skip in 3s",
		},
		{
			name: "unlocked ad",
			p:    playback.Progress{Phase: playback.PhaseAd, Elapsed: 10 * time.Second, Total: 20 * time.Second, Gate: playback.GateUnlockable},
			want: "[AD] #####----- 00:10 / 00:20  [s] skip",
		},
		{
			name: "content past estimate",
			p:    playback.Progress{Phase: playback.PhaseContent, Elapsed: 90 * time.Second, Total: time.Minute},
			want: "[CONTENT] ########## 01:30 / 01:00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderProgress(tt.p, 10))
		})
	}
}

func TestParseRating(t *testing.T) {
	for in, want := range map[string]int{"1": 1, " 5\n": 5, "0": 0, "6": 0, "": 0, "good": 0} {
		got, ok := parseRating(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, want > 0, ok, in)
	}
}

func TestPrintSummary(t *testing.T) {
	ad := playback.Outcome{Skipped: true, WatchTime: 7 * time.Second}
	sum := session.Summary{
		ContentID:       "movie.mp4",
		Ad:              &ad,
		Content:         playback.Outcome{Completed: true, WatchTime: 2 * time.Minute, Reward: 10},
		ContentCredited: 20,
		Rated:           true,
		RatingReward:    2,
		Bonus:           5,
		BonusMessage:    "Keep watching!",
		VideosWatched:   3,
		NewBadges:       []ledger.NewBadge{{Name: "Binge Watcher", Icon: "*"}},
		Multiplier:      2,
	}

	var buf bytes.Buffer
	printSummary(&buf, sum, 120, true)
	out := buf.String()
	assert.Contains(t, out, "Ad:       skipped     00:07  +0")
	assert.Contains(t, out, "Content:  completed   02:00  +20")
	assert.Contains(t, out, "Rating:   +2")
	assert.Contains(t, out, "Bonus:    +5")
	assert.Contains(t, out, "Earned:   27")
	assert.Contains(t, out, "Multiplier: x2.0")
	assert.Contains(t, out, "New badge: * Binge Watcher")
	assert.Contains(t, out, "~120 (estimated")
	assert.Contains(t, out, "Tip: Keep watching!")
}

func TestDescribeBenefit(t *testing.T) {
	assert.Equal(t, "none", describeBenefit(benefit.State{Type: benefit.None}))
	assert.Equal(t, "VIP Day (1h0m0s left)", describeBenefit(benefit.State{Type: benefit.VIPDay, Name: "VIP Day", RemainingSeconds: 3600}))
	assert.Equal(t, "premium_content", describeBenefit(benefit.State{Type: benefit.PremiumContent}))
}

type downLedger struct{}

func (downLedger) SubmitReward(context.Context, string, int, string) error {
	return &ledger.Error{Sentinel: ledger.ErrUnreachable, Op: "submit_reward"}
}

func TestJournalCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()
	j, err := reward.OpenJournal(ctx, dbPath)
	require.NoError(t, err)
	books := reward.NewBookkeeper("0.0.7", downLedger{}, j)
	books.Credit(ctx, 5, 1, reward.ReasonAd)
	books.Credit(ctx, 10, 2, reward.ReasonContent)
	require.NoError(t, j.Close())

	path := writeConfig(t, "account:\n  id: 0.0.7\nledger:\n  baseUrl: http://127.0.0.1:1\n  maxRetries: 0\njournal:\n  enabled: true\n  path: "+dbPath+"\n")

	code, out, errOut := runCLI(t, "--config", path, "journal", "totals")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Credited: 25 in 2 events")
	assert.Contains(t, out, "Unsynced: 25")

	code, out, _ = runCLI(t, "--config", path, "journal", "list", "-n", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, 2, strings.Count(out, "\n"), out)

	code, out, _ = runCLI(t, "--config", path, "journal", "verify")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "ok (quick check)")

	code, out, _ = runCLI(t, "--config", path, "journal", "reconcile")
	assert.Equal(t, 1, code, "the ledger is unreachable")
	assert.Contains(t, out, "Attempted 2, synced 0")

	code, _, _ = runCLI(t, "--config", path, "journal", "rewind")
	assert.Equal(t, 2, code)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/rewardtv/internal/validate"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithAccountFromEnv(t *testing.T) {
	t.Setenv("REWARDTV_ACCOUNT_ID", "0.0.5864245")

	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	want := Default()
	want.Account.ID = "0.0.5864245"
	want.Version = "v1.2.3"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
account:
  id: "0.0.1"
ledger:
  baseUrl: http://ledger.local:5000
  timeout: 4s
playback:
  skipDelay: 8s
  adTick: 150ms
rewards:
  adFull: 7
library:
  extensions: [".mp4", ".mkv"]
`)
	t.Setenv("REWARDTV_LEDGER_URL", "https://ledger.example")
	t.Setenv("REWARDTV_CONTENT_TICK", "200ms")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.1", cfg.Account.ID)
	assert.Equal(t, "https://ledger.example", cfg.Ledger.BaseURL, "env wins over file")
	assert.Equal(t, 4*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, 8*time.Second, cfg.Playback.SkipDelay)
	assert.Equal(t, 150*time.Millisecond, cfg.Playback.AdTick)
	assert.Equal(t, 200*time.Millisecond, cfg.Playback.ContentTick)
	assert.Equal(t, 7, cfg.Rewards.AdFull)
	assert.Equal(t, 10, cfg.Rewards.ContentComplete, "untouched keys keep defaults")
	assert.Equal(t, []string{".mp4", ".mkv"}, cfg.Library.Extensions)
	assert.Contains(t, l.ConsumedEnvKeys, "REWARDTV_LEDGER_URL")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "account:\n  id: a\n  wallet: b\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "account:\n  id: a\n---\naccount:\n  id: b\n")

	_, err := NewLoader(path, "").Load()
	assert.ErrorContains(t, err, "multiple documents")
}

func TestLoadRejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := NewLoader(path, "").Load()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("REWARDTV_ACCOUNT_ID", "0.0.9")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Playback, cfg.Playback)
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeConfig(t, `
account:
  id: "0.0.1"
media:
  backend: vlc
playback:
  adTick: 50ms
`)
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)

	var verr validate.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := []string{}
	for _, e := range verr.Errors() {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"media.backend", "playback.adTick"}, fields)
}

func TestValidateRequiresAccount(t *testing.T) {
	err := Validate(Default())
	assert.ErrorContains(t, err, "account.id")
}

func TestValidateOptionalSections(t *testing.T) {
	cfg := Default()
	cfg.Account.ID = "0.0.1"
	cfg.Server.Listen = "nope"
	cfg.Telemetry.Exporter = "zipkin"
	require.NoError(t, Validate(cfg), "disabled sections are not validated")

	cfg.Server.Enabled = true
	cfg.Telemetry.Enabled = true
	err := Validate(cfg)
	assert.ErrorContains(t, err, "server.listen")
	assert.ErrorContains(t, err, "telemetry.exporter")
}

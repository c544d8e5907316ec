// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REWARDTV_"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // keys read during the last Load
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load loads configuration with precedence: ENV > File > Defaults,
// then validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Default()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields cause an error wrapping ErrUnknownConfigField.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) key(name string) string {
	k := EnvPrefix + name
	l.ConsumedEnvKeys[k] = struct{}{}
	return k
}

func (l *Loader) mergeEnv(cfg *AppConfig) {
	cfg.Account.ID = ParseString(l.key("ACCOUNT_ID"), cfg.Account.ID)

	cfg.Ledger.BaseURL = ParseString(l.key("LEDGER_URL"), cfg.Ledger.BaseURL)
	cfg.Ledger.Timeout = ParseDuration(l.key("LEDGER_TIMEOUT"), cfg.Ledger.Timeout)
	cfg.Ledger.MaxRetries = ParseInt(l.key("LEDGER_MAX_RETRIES"), cfg.Ledger.MaxRetries)
	cfg.Ledger.RateLimit = ParseFloat(l.key("LEDGER_RATE_LIMIT"), cfg.Ledger.RateLimit)
	cfg.Ledger.RateLimitBurst = ParseInt(l.key("LEDGER_RATE_BURST"), cfg.Ledger.RateLimitBurst)
	cfg.Ledger.BreakerThreshold = ParseInt(l.key("LEDGER_BREAKER_THRESHOLD"), cfg.Ledger.BreakerThreshold)
	cfg.Ledger.BreakerReset = ParseDuration(l.key("LEDGER_BREAKER_RESET"), cfg.Ledger.BreakerReset)
	cfg.Ledger.MirrorURL = ParseString(l.key("MIRROR_URL"), cfg.Ledger.MirrorURL)
	cfg.Ledger.TokenID = ParseString(l.key("TOKEN_ID"), cfg.Ledger.TokenID)

	cfg.Media.Backend = ParseString(l.key("MEDIA_BACKEND"), cfg.Media.Backend)
	cfg.Media.DisplayEnv = ParseList(l.key("MEDIA_DISPLAY_ENV"), cfg.Media.DisplayEnv)
	cfg.Media.ProbeTimeout = ParseDuration(l.key("MEDIA_PROBE_TIMEOUT"), cfg.Media.ProbeTimeout)
	cfg.Media.LaunchBin = ParseString(l.key("MEDIA_LAUNCH_BIN"), cfg.Media.LaunchBin)
	cfg.Media.PlayerBin = ParseString(l.key("MEDIA_PLAYER_BIN"), cfg.Media.PlayerBin)
	cfg.Media.ProbeBin = ParseString(l.key("MEDIA_PROBE_BIN"), cfg.Media.ProbeBin)

	cfg.Playback.AdPath = ParseString(l.key("AD_PATH"), cfg.Playback.AdPath)
	cfg.Playback.Headless = ParseBool(l.key("HEADLESS"), cfg.Playback.Headless)
	cfg.Playback.SkipDelay = ParseDuration(l.key("SKIP_DELAY"), cfg.Playback.SkipDelay)
	cfg.Playback.StopGrace = ParseDuration(l.key("STOP_GRACE"), cfg.Playback.StopGrace)
	cfg.Playback.AdTick = ParseDuration(l.key("AD_TICK"), cfg.Playback.AdTick)
	cfg.Playback.ContentTick = ParseDuration(l.key("CONTENT_TICK"), cfg.Playback.ContentTick)

	cfg.Library.Dir = ParseString(l.key("LIBRARY_DIR"), cfg.Library.Dir)
	cfg.Library.PremiumDir = ParseString(l.key("PREMIUM_DIR"), cfg.Library.PremiumDir)
	cfg.Library.Watch = ParseBool(l.key("LIBRARY_WATCH"), cfg.Library.Watch)

	cfg.Journal.Enabled = ParseBool(l.key("JOURNAL_ENABLED"), cfg.Journal.Enabled)
	cfg.Journal.Path = ParseString(l.key("JOURNAL_PATH"), cfg.Journal.Path)

	cfg.Server.Enabled = ParseBool(l.key("SERVER_ENABLED"), cfg.Server.Enabled)
	cfg.Server.Listen = ParseString(l.key("SERVER_LISTEN"), cfg.Server.Listen)
	cfg.Server.RateLimit = ParseInt(l.key("SERVER_RATE_LIMIT"), cfg.Server.RateLimit)

	cfg.Telemetry.Enabled = ParseBool(l.key("TELEMETRY_ENABLED"), cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(l.key("TELEMETRY_EXPORTER"), cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(l.key("TELEMETRY_ENDPOINT"), cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(l.key("TELEMETRY_SAMPLING_RATE"), cfg.Telemetry.SamplingRate)

	cfg.Logging.Level = ParseString(l.key("LOG_LEVEL"), cfg.Logging.Level)
}

// LoadFileConfig loads a YAML config file over the defaults without env
// overrides or validation.
func LoadFileConfig(path string) (AppConfig, error) {
	cfg := Default()
	err := NewLoader(path, "").loadFile(path, &cfg)
	return cfg, err
}

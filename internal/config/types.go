// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// AppConfig is the immutable runtime configuration. It is built once by the
// Loader and passed by value to the components at construction.
type AppConfig struct {
	Version string `yaml:"-"`

	Account   AccountConfig   `yaml:"account"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Media     MediaConfig     `yaml:"media"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Library   LibraryConfig   `yaml:"library"`
	Journal   JournalConfig   `yaml:"journal"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AccountConfig identifies the viewer.
type AccountConfig struct {
	ID string `yaml:"id"`
}

// LedgerConfig configures the reward ledger client.
type LedgerConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"maxRetries"`
	RateLimit        float64       `yaml:"rateLimit"`
	RateLimitBurst   int           `yaml:"rateLimitBurst"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
	MirrorURL        string        `yaml:"mirrorUrl"`
	TokenID          string        `yaml:"tokenId"`
}

// MediaConfig selects the decode backend.
type MediaConfig struct {
	Backend      string        `yaml:"backend"`
	DisplayEnv   []string      `yaml:"displayEnv"`
	ProbeTimeout time.Duration `yaml:"probeTimeout"`
	OutputLines  int           `yaml:"outputLines"`
	LaunchBin    string        `yaml:"launchBin"`
	PlayerBin    string        `yaml:"playerBin"`
	ProbeBin     string        `yaml:"probeBin"`
}

// PlaybackConfig tunes the phase loops.
type PlaybackConfig struct {
	AdPath              string        `yaml:"adPath"`
	Headless            bool          `yaml:"headless"`
	SkipDelay           time.Duration `yaml:"skipDelay"`
	StopGrace           time.Duration `yaml:"stopGrace"`
	AdTick              time.Duration `yaml:"adTick"`
	ContentTick         time.Duration `yaml:"contentTick"`
	CompletionWait      time.Duration `yaml:"completionWait"`
	AdDefaultTotal      time.Duration `yaml:"adDefaultTotal"`
	ContentDefaultTotal time.Duration `yaml:"contentDefaultTotal"`
}

// RewardsConfig is the reward table.
type RewardsConfig struct {
	AdFull          int           `yaml:"adFull"`
	AdSkip          int           `yaml:"adSkip"`
	ContentComplete int           `yaml:"contentComplete"`
	PartialMin      time.Duration `yaml:"partialMin"`
	PartialUnit     time.Duration `yaml:"partialUnit"`
	PartialMax      int           `yaml:"partialMax"`
	RatingMinWatch  time.Duration `yaml:"ratingMinWatch"`
}

// LibraryConfig locates the content files.
type LibraryConfig struct {
	Dir        string   `yaml:"dir"`
	PremiumDir string   `yaml:"premiumDir"`
	Extensions []string `yaml:"extensions"`
	Watch      bool     `yaml:"watch"`
}

// JournalConfig configures the local reward journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	RateLimit int    `yaml:"rateLimit"` // requests per minute per client
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package media wraps the external decode tools used to probe and play assets.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/rewardtv/internal/log"
)

// ErrProbeFailed indicates the duration of an asset could not be determined.
var ErrProbeFailed = errors.New("media: duration probe failed")

// ErrUnknownBackend is returned by New for an unsupported backend name.
var ErrUnknownBackend = errors.New("media: unknown backend")

// Asset is a probed media file. Duration is zero when unknown.
type Asset struct {
	Path     string
	Duration time.Duration
}

// DurationKnown reports whether the probe produced a usable duration.
func (a Asset) DurationKnown() bool { return a.Duration > 0 }

// SinkMode selects where the decoded stream is rendered.
type SinkMode string

const (
	SinkDisplay  SinkMode = "display"
	SinkHeadless SinkMode = "headless"
)

// Prober reads asset durations.
type Prober interface {
	// ProbeDuration returns the asset duration or an error wrapping ErrProbeFailed.
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

// Tool is an external media toolchain able to probe and play files.
type Tool interface {
	Prober
	// Launch starts a decode pipeline for path. The returned handle owns cmd.Wait.
	Launch(ctx context.Context, path string, mode SinkMode) (*Handle, error)
}

// Options configures the toolchain returned by New.
type Options struct {
	Backend      string // gstreamer|ffmpeg
	DisplayEnv   []string
	ProbeTimeout time.Duration
	OutputLines  int

	// Binary overrides; empty means the backend default looked up in PATH.
	LaunchBin string
	PlayerBin string
	ProbeBin  string
}

const defaultProbeTimeout = 10 * time.Second

// New returns the toolchain named by opts.Backend.
func New(opts Options) (Tool, error) {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	switch opts.Backend {
	case "", "gstreamer":
		return newGStreamer(opts), nil
	case "ffmpeg":
		return newFFmpeg(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Probe builds an Asset for path. A failed probe degrades to an unknown duration.
func Probe(ctx context.Context, p Prober, path string) Asset {
	d, err := p.ProbeDuration(ctx, path)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "media")
		logger.Debug().
			Err(err).
			Str(log.FieldEvent, "probe.failed").
			Str(log.FieldPath, path).
			Msg("duration unknown")
		return Asset{Path: path}
	}
	return Asset{Path: path, Duration: d}
}

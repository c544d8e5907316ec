// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package playback supervises decode pipelines and resolves watch phases.
package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/media"
	"github.com/ManuGH/rewardtv/internal/metrics"
	"github.com/rs/zerolog"
)

var (
	// ErrMediaMissing is returned by Start when the asset path does not exist.
	ErrMediaMissing = errors.New("playback: media file missing")
	// ErrLaunchFailed is returned by Start when the pipeline could not be spawned.
	ErrLaunchFailed = errors.New("playback: pipeline launch failed")
	// ErrBusy is returned by Start while a previous pipeline is still running.
	ErrBusy = errors.New("playback: pipeline already running")
)

// Pipeline is a running decode pipeline.
type Pipeline interface {
	Done() <-chan struct{}
	ExitCode() int
	SignaledEOS() bool
	Terminate(grace time.Duration) error
}

// Launcher spawns pipelines.
type Launcher interface {
	Launch(ctx context.Context, path string, mode media.SinkMode) (Pipeline, error)
}

// ToolLauncher adapts a media.Tool to Launcher.
func ToolLauncher(tool media.Tool) Launcher {
	return toolLauncher{tool: tool}
}

type toolLauncher struct {
	tool media.Tool
}

func (l toolLauncher) Launch(ctx context.Context, path string, mode media.SinkMode) (Pipeline, error) {
	h, err := l.tool.Launch(ctx, path, mode)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Player is the control surface the phase loops drive. *Process implements it.
type Player interface {
	Start(ctx context.Context, asset media.Asset) error
	Stop()
	IsRunning() bool
	Elapsed() time.Duration
	WaitForCompletion(timeout time.Duration) bool
	Successful() bool
	PlaybackDuration() time.Duration
}

// ProcessOptions configures a Process.
type ProcessOptions struct {
	Mode      media.SinkMode
	StopGrace time.Duration
	Clock     Clock
}

const defaultStopGrace = 3 * time.Second

// Process supervises one pipeline at a time. A background goroutine waits for
// the pipeline and classifies the exit; the stop flag is always set before any
// termination request so an explicit stop is never reported as success.
type Process struct {
	launcher Launcher
	mode     media.SinkMode
	grace    time.Duration
	clock    Clock

	mu        sync.Mutex
	pipeline  Pipeline
	path      string
	startedAt time.Time
	duration  time.Duration
	done      chan struct{}

	running    atomic.Bool
	stopped    atomic.Bool
	successful atomic.Bool
}

// NewProcess creates a Process that launches pipelines through l.
func NewProcess(l Launcher, opts ProcessOptions) *Process {
	if opts.StopGrace <= 0 {
		opts.StopGrace = defaultStopGrace
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Mode == "" {
		opts.Mode = media.SinkHeadless
	}
	return &Process{launcher: l, mode: opts.Mode, grace: opts.StopGrace, clock: opts.Clock}
}

// Start launches asset and returns immediately.
func (p *Process) Start(ctx context.Context, asset media.Asset) error {
	logger := log.WithComponentFromContext(ctx, "playback")

	if _, err := os.Stat(asset.Path); err != nil {
		metrics.IncLaunchFailure("missing")
		return fmt.Errorf("%w: %s", ErrMediaMissing, asset.Path)
	}
	if p.running.Load() {
		return ErrBusy
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.successful.Store(false)
	p.stopped.Store(false)
	p.path = asset.Path
	p.duration = 0
	p.startedAt = p.clock.Now()
	p.done = make(chan struct{})

	// The pipeline outlives a cancelled caller context; Stop is the only way to end it early.
	pl, err := p.launcher.Launch(context.WithoutCancel(ctx), asset.Path, p.mode)
	if err != nil {
		close(p.done)
		p.pipeline = nil
		metrics.IncLaunchFailure("launch")
		logger.Error().Err(err).
			Str(log.FieldEvent, "playback.launch_failed").
			Str(log.FieldPath, asset.Path).
			Msg("failed to launch pipeline")
		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	p.pipeline = pl
	p.running.Store(true)
	logger.Info().
		Str(log.FieldEvent, "playback.started").
		Str(log.FieldPath, asset.Path).
		Str(log.FieldSinkMode, string(p.mode)).
		Msg("playback started")

	go p.supervise(logger, pl, p.startedAt, p.done)
	return nil
}

func (p *Process) supervise(logger zerolog.Logger, pl Pipeline, startedAt time.Time, done chan struct{}) {
	<-pl.Done()

	stopped := p.stopped.Load()
	if !stopped {
		p.mu.Lock()
		p.duration = p.clock.Now().Sub(startedAt)
		p.mu.Unlock()
	}

	// Explicit stop wins over whatever the pipeline reported.
	ok := !stopped && (pl.SignaledEOS() || pl.ExitCode() == 0)
	p.successful.Store(ok)
	p.running.Store(false)

	logger.Info().
		Str(log.FieldEvent, "playback.finished").
		Bool("successful", ok).
		Bool("stopped", stopped).
		Int(log.FieldExitCode, pl.ExitCode()).
		Msg("playback finished")

	close(done)
}

// Stop ends the current pipeline. Safe to call when nothing is running.
func (p *Process) Stop() {
	p.stopped.Store(true)

	if !p.running.Load() {
		return
	}

	p.mu.Lock()
	pl := p.pipeline
	p.duration = p.clock.Now().Sub(p.startedAt)
	p.mu.Unlock()

	logger := log.WithComponent("playback")
	logger.Info().
		Str(log.FieldEvent, "playback.stopping").
		Dur(log.FieldElapsed, p.PlaybackDuration()).
		Msg("stopping playback")
	if err := pl.Terminate(p.grace); err != nil {
		logger.Warn().Err(err).
			Str(log.FieldEvent, "playback.stop_failed").
			Msg("pipeline did not exit after kill")
	}
}

// IsRunning reports whether the pipeline is alive.
func (p *Process) IsRunning() bool { return p.running.Load() }

// Elapsed is the wall-clock time since Start.
func (p *Process) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.startedAt.IsZero() {
		return 0
	}
	return p.clock.Now().Sub(p.startedAt)
}

// WaitForCompletion blocks up to timeout for the supervisor to finish and
// reports whether it did.
func (p *Process) WaitForCompletion(timeout time.Duration) bool {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	case <-p.clock.After(timeout):
		return false
	}
}

// Successful reports the completion classification of the last pipeline.
func (p *Process) Successful() bool { return p.successful.Load() }

// PlaybackDuration is the time from Start to natural exit or Stop.
func (p *Process) PlaybackDuration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

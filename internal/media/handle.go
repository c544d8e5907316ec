// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/metrics"
	"github.com/ManuGH/rewardtv/internal/procgroup"
	"github.com/rs/zerolog"
)

// Handle supervises one running pipeline. Its goroutine owns cmd.Wait;
// ExitCode and WaitErr are valid once Done is closed.
type Handle struct {
	cmd       *exec.Cmd
	output    *OutputLog
	eosMarker string
	done      chan struct{}

	exitCode int
	waitErr  error
}

// launchPlan is the fully resolved command a backend wants to run.
type launchPlan struct {
	bin       string
	args      []string
	env       []string
	eosMarker string
	lines     int
}

// start launches plan in its own process group. Cancelling ctx kills the group.
func start(ctx context.Context, plan launchPlan) (*Handle, error) {
	cmd := exec.CommandContext(ctx, plan.bin, plan.args...)
	procgroup.Set(cmd)
	cmd.Cancel = func() error { return procgroup.Kill(cmd) }
	if len(plan.env) > 0 {
		cmd.Env = append(os.Environ(), plan.env...)
	}

	h := &Handle{
		cmd:       cmd,
		output:    NewOutputLog(plan.lines),
		eosMarker: plan.eosMarker,
		done:      make(chan struct{}),
		exitCode:  -1,
	}
	cmd.Stdout = h.output
	cmd.Stderr = h.output

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", plan.bin, err)
	}
	metrics.IncActivePipelines()

	logger := log.WithComponentFromContext(ctx, "media")
	logger.Debug().
		Str(log.FieldEvent, "pipeline.started").
		Int(log.FieldPID, cmd.Process.Pid).
		Strs("args", plan.args).
		Msg("decode pipeline started")

	go h.wait(logger)
	return h, nil
}

func (h *Handle) wait(logger zerolog.Logger) {
	defer close(h.done)
	defer metrics.DecActivePipelines()

	err := h.cmd.Wait()
	h.waitErr = err
	if h.cmd.ProcessState != nil {
		h.exitCode = h.cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		logger.Warn().Err(err).Str(log.FieldEvent, "pipeline.wait_failed").Msg("pipeline wait failed")
	}
	logger.Debug().
		Str(log.FieldEvent, "pipeline.exited").
		Int(log.FieldPID, h.cmd.Process.Pid).
		Int(log.FieldExitCode, h.exitCode).
		Msg("decode pipeline exited")
}

// Done is closed when the pipeline process has been reaped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// ExitCode is the exit status, or -1 if the process was killed by a signal.
func (h *Handle) ExitCode() int {
	<-h.done
	return h.exitCode
}

// WaitErr is the error returned by cmd.Wait.
func (h *Handle) WaitErr() error {
	<-h.done
	return h.waitErr
}

// Output exposes the captured combined stdout/stderr.
func (h *Handle) Output() *OutputLog { return h.output }

// SignaledEOS reports whether the pipeline printed its end-of-stream marker.
func (h *Handle) SignaledEOS() bool { return h.output.Contains(h.eosMarker) }

// PID of the pipeline leader.
func (h *Handle) PID() int { return h.cmd.Process.Pid }

// Terminate stops the pipeline group: SIGTERM, grace, SIGKILL.
func (h *Handle) Terminate(grace time.Duration) error {
	_, err := procgroup.Terminate(h.cmd, h.done, grace)
	return err
}

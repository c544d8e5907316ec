// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package procgroup manages the lifecycle of decode pipelines spawned as process groups.
package procgroup

import (
	"errors"
	"os/exec"
	"time"

	"github.com/ManuGH/rewardtv/internal/metrics"
)

// ErrKillFailed is returned when a pipeline survives SIGKILL for longer than the reap timeout.
var ErrKillFailed = errors.New("procgroup: kill operation failed")

// reapTimeout bounds the wait after SIGKILL so Terminate can never hang the caller.
const reapTimeout = 2 * time.Second

// Set configures the command to start in a new process group.
// Mandatory for Terminate to reach children (gst-launch spawns helper processes).
func Set(cmd *exec.Cmd) {
	set(cmd)
}

// Kill sends SIGKILL to the process group of cmd without waiting.
// Suitable as exec.Cmd.Cancel.
func Kill(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	err := kill(cmd)
	metrics.IncPipelineSignal("SIGKILL", signalResult(err))
	if errors.Is(err, errGone) {
		return nil
	}
	return err
}

// Terminate stops the process group of cmd: SIGTERM, wait up to grace for exited
// to close, then SIGKILL. exited must be closed by whoever owns cmd.Wait.
// forced reports whether SIGKILL was required.
func Terminate(cmd *exec.Cmd, exited <-chan struct{}, grace time.Duration) (forced bool, err error) {
	if cmd == nil || cmd.Process == nil {
		return false, nil
	}

	metrics.IncPipelineSignal("SIGTERM", signalResult(terminate(cmd)))

	select {
	case <-exited:
		return false, nil
	case <-time.After(grace):
	}

	metrics.IncPipelineSignal("SIGKILL", signalResult(kill(cmd)))

	select {
	case <-exited:
		return true, nil
	case <-time.After(reapTimeout):
		return true, ErrKillFailed
	}
}

func signalResult(err error) string {
	switch {
	case err == nil:
		return "sent"
	case errors.Is(err, errGone):
		return "gone"
	default:
		return "error"
	}
}

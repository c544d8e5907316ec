// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build windows

package procgroup

import (
	"errors"
	"os"
	"os/exec"
)

var errGone = os.ErrProcessDone

func set(cmd *exec.Cmd) {}

// Windows has no SIGTERM equivalent for console children; the grace period
// simply elapses and kill follows.
func terminate(cmd *exec.Cmd) error { return nil }

func kill(cmd *exec.Cmd) error {
	if err := cmd.Process.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return errGone
		}
		return err
	}
	return nil
}

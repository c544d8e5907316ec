// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build linux

package media

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shPlan(script string) launchPlan {
	return launchPlan{bin: "sh", args: []string{"-c", script}, eosMarker: GStreamerEOS}
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not exit")
	}
}

func TestHandle_CapturesEOSAndExitCode(t *testing.T) {
	h, err := start(context.Background(), shPlan(`echo "Got EOS from element"; exit 3`))
	require.NoError(t, err)
	waitDone(t, h)

	assert.True(t, h.SignaledEOS())
	assert.Equal(t, 3, h.ExitCode())
}

func TestHandle_StderrCaptured(t *testing.T) {
	h, err := start(context.Background(), shPlan(`echo oops 1>&2`))
	require.NoError(t, err)
	waitDone(t, h)

	assert.Equal(t, []string{"oops"}, h.Output().Lines())
	assert.Equal(t, 0, h.ExitCode())
	assert.False(t, h.SignaledEOS())
}

func TestHandle_Terminate(t *testing.T) {
	h, err := start(context.Background(), shPlan(`sleep 30`))
	require.NoError(t, err)

	require.NoError(t, h.Terminate(time.Second))
	waitDone(t, h)
	assert.Equal(t, -1, h.ExitCode())
}

func TestHandle_ContextCancelKillsGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h, err := start(ctx, shPlan(`sleep 30 & sleep 30`))
	require.NoError(t, err)

	cancel()
	waitDone(t, h)
}

func TestStart_MissingBinary(t *testing.T) {
	_, err := start(context.Background(), launchPlan{bin: "/nonexistent/gst-launch"})
	assert.Error(t, err)
}

func TestHandle_EnvApplied(t *testing.T) {
	plan := shPlan(`echo "$WAYLAND_DISPLAY"`)
	plan.env = []string{"WAYLAND_DISPLAY=westeros-0"}
	h, err := start(context.Background(), plan)
	require.NoError(t, err)
	waitDone(t, h)

	assert.Equal(t, []string{"westeros-0"}, h.Output().Lines())
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGate_NeverUnlocksShortAds(t *testing.T) {
	delay := 5 * time.Second
	for _, d := range []time.Duration{0, time.Second, 3 * time.Second, delay} {
		g := NewGate(d, delay)
		for e := time.Duration(0); e <= time.Minute; e += 100 * time.Millisecond {
			assert.False(t, g.Observe(e), "duration %v elapsed %v", d, e)
		}
		assert.Equal(t, GateLocked, g.State())
		assert.False(t, g.Skip())
	}
}

func TestGate_UnlocksExactlyOnce(t *testing.T) {
	g := NewGate(20*time.Second, 5*time.Second)

	fired := 0
	firstAt := time.Duration(-1)
	for e := time.Duration(0); e <= 20*time.Second; e += 300 * time.Millisecond {
		if g.Observe(e) {
			fired++
			if firstAt < 0 {
				firstAt = e
			}
		}
	}
	assert.Equal(t, 1, fired)
	assert.Equal(t, 5100*time.Millisecond, firstAt, "first tick at or past the delay")
	assert.Equal(t, GateUnlockable, g.State())
}

func TestGate_TerminalStatesAreFinal(t *testing.T) {
	g := NewGate(20*time.Second, 5*time.Second)
	assert.False(t, g.Skip(), "cannot skip while locked")

	g.Observe(5 * time.Second)
	assert.True(t, g.Skip())
	assert.True(t, g.Terminal())
	assert.False(t, g.Complete())
	assert.False(t, g.Skip())
	assert.Equal(t, GateSkipped, g.State())

	g = NewGate(20*time.Second, 5*time.Second)
	assert.True(t, g.Complete())
	assert.False(t, g.Observe(10*time.Second))
	assert.False(t, g.Skip())
	assert.Equal(t, GateCompleted, g.State())
}

func TestGate_Remaining(t *testing.T) {
	g := NewGate(20*time.Second, 5*time.Second)
	assert.Equal(t, 3*time.Second, g.Remaining(2*time.Second))
	g.Observe(5 * time.Second)
	assert.Zero(t, g.Remaining(6*time.Second))

	assert.Zero(t, NewGate(0, 5*time.Second).Remaining(time.Second))
}

func TestGateState_String(t *testing.T) {
	assert.Equal(t, "locked", GateLocked.String())
	assert.Equal(t, "unlockable", GateUnlockable.String())
	assert.Equal(t, "skipped", GateSkipped.String())
	assert.Equal(t, "completed", GateCompleted.String())
}

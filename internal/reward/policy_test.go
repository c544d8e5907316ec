// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package reward

import (
	"testing"
	"time"

	"github.com/ManuGH/rewardtv/internal/playback"
	"github.com/stretchr/testify/assert"
)

func TestCredit(t *testing.T) {
	assert.Equal(t, 20, Credit(10, 2.0))
	assert.Equal(t, 10, Credit(10, 1.0))
	assert.Equal(t, 7, Credit(5, 1.5), "floor(7.5)")
	assert.Equal(t, 5, Credit(5, 0.5), "multiplier never below 1")
	assert.Zero(t, Credit(0, 2.0))
	assert.Zero(t, Credit(-3, 2.0))
}

func TestPartial(t *testing.T) {
	p := DefaultPolicy()

	assert.Zero(t, p.Partial(0))
	assert.Zero(t, p.Partial(29*time.Second+999*time.Millisecond))
	assert.Equal(t, 1, p.Partial(30*time.Second))
	assert.Equal(t, 1, p.Partial(45*time.Second))
	assert.Equal(t, 2, p.Partial(60*time.Second))
	assert.Equal(t, 5, p.Partial(4*time.Minute))
	assert.Equal(t, 5, p.Partial(2*time.Hour), "capped")
}

func TestPartial_NonDecreasing(t *testing.T) {
	p := DefaultPolicy()
	prev := 0
	for w := time.Duration(0); w <= 10*time.Minute; w += 500 * time.Millisecond {
		got := p.Partial(w)
		assert.GreaterOrEqual(t, got, prev, "watch %v", w)
		assert.LessOrEqual(t, got, p.PartialMax)
		prev = got
	}
}

func TestContent(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 10, p.Content(playback.Outcome{Completed: true, WatchTime: 40 * time.Second}))
	assert.Equal(t, 1, p.Content(playback.Outcome{Interrupted: true, WatchTime: 45 * time.Second}))
	assert.Equal(t, 0, p.Content(playback.Outcome{WatchTime: 10 * time.Second}))
	assert.Equal(t, 0, p.Content(playback.Outcome{Err: playback.ErrLaunchFailed}))
}

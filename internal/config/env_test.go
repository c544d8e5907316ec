// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("REWARDTV_T_STR", "hello")
	t.Setenv("REWARDTV_T_EMPTY", "")
	t.Setenv("REWARDTV_T_INT", "42")
	t.Setenv("REWARDTV_T_BADINT", "forty")
	t.Setenv("REWARDTV_T_DUR", "250ms")
	t.Setenv("REWARDTV_T_BADDUR", "soon")
	t.Setenv("REWARDTV_T_BOOL", "Yes")
	t.Setenv("REWARDTV_T_BADBOOL", "maybe")
	t.Setenv("REWARDTV_T_FLOAT", "0.25")
	t.Setenv("REWARDTV_T_LIST", " A=1, ,B=2 ")

	assert.Equal(t, "hello", ParseString("REWARDTV_T_STR", "x"))
	assert.Equal(t, "x", ParseString("REWARDTV_T_EMPTY", "x"))
	assert.Equal(t, "x", ParseString("REWARDTV_T_UNSET", "x"))

	assert.Equal(t, 42, ParseInt("REWARDTV_T_INT", 1))
	assert.Equal(t, 1, ParseInt("REWARDTV_T_BADINT", 1))

	assert.Equal(t, 250*time.Millisecond, ParseDuration("REWARDTV_T_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("REWARDTV_T_BADDUR", time.Second))

	assert.True(t, ParseBool("REWARDTV_T_BOOL", false))
	assert.True(t, ParseBool("REWARDTV_T_BADBOOL", true))

	assert.InDelta(t, 0.25, ParseFloat("REWARDTV_T_FLOAT", 1), 1e-9)

	assert.Equal(t, []string{"A=1", "B=2"}, ParseList("REWARDTV_T_LIST", nil))
	assert.Equal(t, []string{"d"}, ParseList("REWARDTV_T_UNSET", []string{"d"}))
}

func TestSensitiveKeys(t *testing.T) {
	assert.True(t, isSensitive("REWARDTV_TOKEN_ID"))
	assert.True(t, isSensitive("REWARDTV_LEDGER_SECRET"))
	assert.False(t, isSensitive("REWARDTV_LEDGER_URL"))
}

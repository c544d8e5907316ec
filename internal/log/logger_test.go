// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_AttachesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "rtv-test", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("gate")
	l.Info().Str(FieldEvent, "gate.unlocked").Msg("skip available")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rtv-test", entry[FieldService])
	assert.Equal(t, "v0.0.1", entry[FieldVersion])
	assert.Equal(t, "gate", entry[FieldComponent])
	assert.Equal(t, "gate.unlocked", entry[FieldEvent])
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithSessionID(context.Background(), "session_1")
	ctx = ContextWithCorrelationID(ctx, "corr-9")
	l := WithComponentFromContext(ctx, "session")
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session_1", entry[FieldSessionID])
	assert.Equal(t, "corr-9", entry[FieldCorrelationID])
}

func TestContextHelpers_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	ctx := ContextWithSessionID(nil, "abc")
	assert.Equal(t, "abc", SessionIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	//nolint:staticcheck
	assert.Empty(t, SessionIDFromContext(nil))
}

func TestDerive(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := Derive(func(c *zerolog.Context) {
		*c = c.Str(FieldPhase, "ad")
	})
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"phase":"ad"`)
}

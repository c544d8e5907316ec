// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid http", "http://example.com", false},
		{"valid https with path", "https://example.com/api/v1", false},
		{"empty url", "", true},
		{"no host", "http://", true},
		{"invalid scheme", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("url", tt.value, []string{"http", "https"})
			assert.Equal(t, tt.wantErr, !v.IsValid(), "err: %v", v.Err())
		})
	}
}

func TestValidator_Ranges(t *testing.T) {
	v := New()
	v.Range("ok", 5, 0, 10)
	v.DurationRange("tick", 100*time.Millisecond, 100*time.Millisecond, 300*time.Millisecond)
	v.FloatRange("rate", 0.5, 0, 1)
	require.True(t, v.IsValid())

	v.Range("low", -1, 0, 10)
	v.DurationRange("tick", 50*time.Millisecond, 100*time.Millisecond, 300*time.Millisecond)
	v.FloatRange("rate", 1.5, 0, 1)
	v.NonNegative("n", -3)
	assert.Len(t, v.Errors(), 4)
}

func TestValidator_Strings(t *testing.T) {
	v := New()
	v.NotEmpty("account", "  ")
	v.OneOf("backend", "vlc", []string{"gstreamer", "ffmpeg"})
	v.Path("journal", "../etc/passwd")
	v.Path("empty", "")
	v.ListenAddr("listen", "localhost")

	fields := make([]string, 0, len(v.Errors()))
	for _, e := range v.Errors() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"account", "backend", "journal", "empty", "listen"}, fields)

	ok := New()
	ok.Path("journal", "/var/lib/rewardtv/journal..db")
	ok.ListenAddr("listen", "127.0.0.1:8089")
	ok.OneOf("backend", "ffmpeg", []string{"gstreamer", "ffmpeg"})
	assert.NoError(t, ok.Err())
}

func TestValidationErrorAggregates(t *testing.T) {
	v := New()
	assert.NoError(t, v.Err())

	v.AddError("a", "first", 1)
	v.AddError("b", "second", 2)
	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, "validation failed for a: first; validation failed for b: second", err.Error())

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors(), 2)

	v.AddError("c", "third", 3)
	assert.Len(t, verr.Errors(), 2, "Err returns a snapshot")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "rewardtv.yaml")

	require.NoError(t, WriteDefault(path, "0.0.77", false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	want := Default()
	want.Account.ID = "0.0.77"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("written config mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewardtv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o600))

	err := WriteDefault(path, "0.0.1", false)
	assert.ErrorIs(t, err, ErrConfigExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	require.NoError(t, WriteDefault(path, "0.0.1", true))
	cfg, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", cfg.Account.ID)
}

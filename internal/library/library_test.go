// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o600))
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func newLayout(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "ad.mp4"))
	touch(t, filepath.Join(root, "b-movie.mp4"))
	touch(t, filepath.Join(root, "a-show.MP4"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "premium", "gold.mp4"))
	touch(t, filepath.Join(root, "nested", "deep.mp4"))
	return Config{
		Dir:        root,
		PremiumDir: filepath.Join(root, "premium"),
		AdPath:     filepath.Join(root, "ad.mp4"),
		Extensions: []string{".mp4"},
	}
}

func TestScanListsRegularAndPremium(t *testing.T) {
	cfg := newLayout(t)

	cat, res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a-show.MP4", "b-movie.mp4"}, ids(cat.Regular))
	assert.Equal(t, []string{"gold.mp4"}, ids(cat.Premium))
	assert.True(t, cat.Premium[0].Premium)
	assert.False(t, cat.Regular[0].Premium)
	assert.Equal(t, filepath.Join(cfg.Dir, "b-movie.mp4"), cat.Regular[1].Path)
	assert.Equal(t, 3, res.Found)
	assert.Equal(t, 1, res.Skipped, "ad file")
}

func TestScanMissingDirectories(t *testing.T) {
	root := t.TempDir()
	cat, _, err := Scan(context.Background(), Config{
		Dir:        filepath.Join(root, "absent"),
		PremiumDir: filepath.Join(root, "absent", "premium"),
	})
	require.NoError(t, err)
	assert.Zero(t, cat.Len())
}

func TestScanSkipsEscapingSymlinks(t *testing.T) {
	cfg := newLayout(t)
	outside := filepath.Join(t.TempDir(), "outside.mp4")
	touch(t, outside)
	require.NoError(t, os.Symlink(outside, filepath.Join(cfg.Dir, "link.mp4")))

	cat, res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotContains(t, ids(cat.Regular), "link.mp4")
	assert.Equal(t, 1, res.Errors)
}

func TestCatalogSelect(t *testing.T) {
	cat, _, err := Scan(context.Background(), newLayout(t))
	require.NoError(t, err)

	it, err := cat.Select(1)
	require.NoError(t, err)
	assert.Equal(t, "a-show.MP4", it.ID)

	it, err = cat.Select(3)
	require.NoError(t, err)
	assert.Equal(t, "gold.mp4", it.ID)
	assert.True(t, it.Premium)

	_, err = cat.Select(0)
	assert.ErrorIs(t, err, ErrNoSuchItem)
	_, err = cat.Select(4)
	assert.ErrorIs(t, err, ErrNoSuchItem)

	assert.Equal(t, []string{"a-show.MP4", "b-movie.mp4", "gold.mp4"}, ids(cat.Items()))
}

func TestServiceRefresh(t *testing.T) {
	cfg := newLayout(t)
	svc := NewService(cfg)
	assert.Zero(t, svc.Catalog().Len())

	cat, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, cat, svc.Catalog())
	assert.Equal(t, 3, svc.LastScan().Found)
}

func TestServiceWatchPicksUpNewFiles(t *testing.T) {
	cfg := newLayout(t)
	svc := NewService(cfg)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Catalog, 4)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, 20*time.Millisecond, func(c Catalog) { changes <- c })
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Give the watcher time to register before producing events.
	require.Eventually(t, func() bool {
		touch(t, filepath.Join(cfg.PremiumDir, "platinum.mp4"))
		select {
		case c := <-changes:
			return len(c.Premium) == 2
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"gold.mp4", "platinum.mp4"}, ids(svc.Catalog().Premium))
}

func TestServiceWatchWithoutDirectories(t *testing.T) {
	svc := NewService(Config{Dir: filepath.Join(t.TempDir(), "absent")})
	err := svc.Watch(context.Background(), 0, nil)
	assert.Error(t, err)
}

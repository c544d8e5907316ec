// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package library

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ManuGH/rewardtv/internal/log"
)

// Scan lists both directories. A missing directory yields an empty section.
func Scan(ctx context.Context, cfg Config) (Catalog, ScanResult, error) {
	res := ScanResult{Started: time.Now()}

	adResolved := ""
	if cfg.AdPath != "" {
		if p, err := filepath.EvalSymlinks(cfg.AdPath); err == nil {
			adResolved = p
		} else {
			adResolved = filepath.Clean(cfg.AdPath)
		}
	}

	regular, err := scanDir(ctx, cfg.Dir, false, adResolved, cfg.Extensions, &res)
	if err != nil {
		res.Finished = time.Now()
		return Catalog{}, res, err
	}
	var premium []Item
	if cfg.PremiumDir != "" {
		premium, err = scanDir(ctx, cfg.PremiumDir, true, adResolved, cfg.Extensions, &res)
		if err != nil {
			res.Finished = time.Now()
			return Catalog{}, res, err
		}
	}

	res.Finished = time.Now()
	return Catalog{Regular: regular, Premium: premium}, res, nil
}

// scanDir lists the top level of dir. Symlinks resolving outside dir are
// skipped.
func scanDir(ctx context.Context, dir string, premium bool, exclude string, exts []string, res *ScanResult) ([]Item, error) {
	if dir == "" {
		return nil, nil
	}
	rootResolved, err := filepath.EvalSymlinks(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve library dir: %w", err)
	}
	rootResolved = filepath.Clean(rootResolved)

	entries, err := os.ReadDir(rootResolved)
	if err != nil {
		return nil, fmt.Errorf("read library dir: %w", err)
	}

	var items []Item
	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.IsDir() || !isAllowedExtension(filepath.Ext(d.Name()), exts) {
			continue
		}

		path := filepath.Join(rootResolved, d.Name())
		fileResolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			res.Skipped++
			logScanError("symlink", err, path)
			continue
		}
		if rel, err := filepath.Rel(rootResolved, fileResolved); err != nil || strings.HasPrefix(rel, "..") {
			res.Errors++
			logScanError("confinement", fmt.Errorf("path escape: %s", rel), path)
			continue
		}
		if exclude != "" && fileResolved == exclude {
			res.Skipped++
			continue
		}

		info, err := os.Stat(fileResolved)
		if err != nil {
			res.Errors++
			logScanError("stat", err, path)
			continue
		}
		if !info.Mode().IsRegular() {
			res.Skipped++
			continue
		}

		items = append(items, Item{
			ID:        d.Name(),
			Path:      filepath.Join(dir, d.Name()),
			Premium:   premium,
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
		res.Found++
	}

	slices.SortFunc(items, func(a, b Item) int { return strings.Compare(a.ID, b.ID) })
	return items, nil
}

// isAllowedExtension checks if a file extension is in the allowed list.
func isAllowedExtension(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true // No filter
	}
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

// logScanError logs scan errors with a hashed path.
func logScanError(event string, err error, path string) {
	hash := sha256.Sum256([]byte(path))
	logger := log.WithComponent("library")
	logger.Warn().
		Str(log.FieldEvent, "library.scan_error").
		Str("stage", event).
		Str("path_hash", fmt.Sprintf("%x", hash[:5])).
		Err(err).
		Msg("library scan error")
}

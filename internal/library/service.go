// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ManuGH/rewardtv/internal/log"
)

const defaultDebounce = 250 * time.Millisecond

// Service keeps the latest catalog and refreshes it on demand or on
// filesystem changes.
type Service struct {
	cfg Config

	mu      sync.RWMutex
	catalog Catalog
	last    ScanResult

	scanMu sync.Mutex
}

// NewService creates a service. Call Refresh before the first Catalog.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Catalog returns the last scanned catalog.
func (s *Service) Catalog() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// LastScan returns the statistics of the last completed scan.
func (s *Service) LastScan() ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Refresh rescans both directories. Concurrent refreshes are serialized.
func (s *Service) Refresh(ctx context.Context) (Catalog, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	cat, res, err := Scan(ctx, s.cfg)
	if err != nil {
		return Catalog{}, err
	}

	s.mu.Lock()
	s.catalog = cat
	s.last = res
	s.mu.Unlock()

	logger := log.WithComponentFromContext(ctx, "library")
	logger.Debug().
		Str(log.FieldEvent, "library.scanned").
		Int("regular", len(cat.Regular)).
		Int("premium", len(cat.Premium)).
		Int("skipped", res.Skipped).
		Int("errors", res.Errors).
		Dur(log.FieldDuration, res.Finished.Sub(res.Started)).
		Msg("library scan complete")
	return cat, nil
}

// Watch refreshes the catalog whenever the library directories change and
// calls onChange with the new catalog. Bursts of events are debounced.
// It blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, debounce time.Duration, onChange func(Catalog)) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := log.WithComponentFromContext(ctx, "library")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	watched := 0
	for _, dir := range []string{s.cfg.Dir, s.cfg.PremiumDir} {
		if dir == "" {
			continue
		}
		if err := watcher.Add(filepath.Clean(dir)); err != nil {
			logger.Warn().Err(err).Str(log.FieldPath, dir).Msg("cannot watch library dir")
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no library directory could be watched")
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logger.Warn().Err(err).Msg("fsnotify watcher error")
		case <-timer.C:
			cat, err := s.Refresh(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("library refresh failed")
				continue
			}
			if onChange != nil {
				onChange(cat)
			}
		}
	}
}

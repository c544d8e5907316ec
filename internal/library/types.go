// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package library lists the playable content: a regular directory and a
// premium directory of media files. The ad file is never offered as content.
package library

import (
	"errors"
	"time"
)

// Config locates the library.
type Config struct {
	Dir        string
	PremiumDir string
	// AdPath is excluded from the regular listing.
	AdPath     string
	Extensions []string
}

// Item is a single playable file.
type Item struct {
	ID        string    `json:"id"` // file name, used as content id by the ledger
	Path      string    `json:"-"`
	Premium   bool      `json:"premium"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// Catalog is an immutable listing. Regular items come first in menus.
type Catalog struct {
	Regular []Item `json:"regular"`
	Premium []Item `json:"premium"`
}

// Len returns the number of items.
func (c Catalog) Len() int { return len(c.Regular) + len(c.Premium) }

// Items returns regular then premium items, the order menus number them in.
func (c Catalog) Items() []Item {
	out := make([]Item, 0, c.Len())
	out = append(out, c.Regular...)
	return append(out, c.Premium...)
}

// Select returns the n-th item (1-based) in menu order.
func (c Catalog) Select(n int) (Item, error) {
	if n < 1 || n > c.Len() {
		return Item{}, ErrNoSuchItem
	}
	if n <= len(c.Regular) {
		return c.Regular[n-1], nil
	}
	return c.Premium[n-1-len(c.Regular)], nil
}

// ScanResult describes one scan.
type ScanResult struct {
	Started  time.Time
	Finished time.Time
	Found    int
	Skipped  int
	Errors   int
}

// ErrNoSuchItem is returned for an out of range selection.
var ErrNoSuchItem = errors.New("no such library item")

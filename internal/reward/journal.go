// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package reward

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ManuGH/rewardtv/internal/persistence/sqlite"
)

// Event is one credited reward.
type Event struct {
	ID         string
	AccountID  string
	Amount     int
	Base       int
	Multiplier float64
	Reason     string
	Synced     bool
	CreatedAt  time.Time
}

// Store persists credited events. *Journal implements it.
type Store interface {
	Append(ctx context.Context, e Event) error
	MarkSynced(ctx context.Context, id string) error
	Unsynced(ctx context.Context) ([]Event, error)
}

var journalSchema = []string{
	`CREATE TABLE IF NOT EXISTS reward_events (
		id          TEXT PRIMARY KEY,
		account_id  TEXT NOT NULL,
		amount      INTEGER NOT NULL CHECK (amount >= 0),
		base        INTEGER NOT NULL,
		multiplier  REAL NOT NULL,
		reason      TEXT NOT NULL,
		synced      INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL,
		synced_at   INTEGER
	);`,
	`CREATE INDEX IF NOT EXISTS reward_events_unsynced ON reward_events(synced, created_at);`,
}

// Journal is the SQLite-backed local record of every credit.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal at path.
func OpenJournal(ctx context.Context, path string) (*Journal, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, journalSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error { return j.db.Close() }

func (j *Journal) Append(ctx context.Context, e Event) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO reward_events (id, account_id, amount, base, multiplier, reason, synced, created_at, synced_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, e.Amount, e.Base, e.Multiplier, e.Reason, boolInt(e.Synced),
		e.CreatedAt.UnixMilli(), syncedAt(e))
	if err != nil {
		return fmt.Errorf("journal: append %s: %w", e.ID, err)
	}
	return nil
}

func (j *Journal) MarkSynced(ctx context.Context, id string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE reward_events SET synced = 1, synced_at = ? WHERE id = ?`,
		time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("journal: mark synced %s: %w", id, err)
	}
	return nil
}

func (j *Journal) Unsynced(ctx context.Context) ([]Event, error) {
	return j.query(ctx, `WHERE synced = 0 ORDER BY created_at ASC`)
}

// Recent returns the newest events first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.query(ctx, `ORDER BY created_at DESC LIMIT ?`, limit)
}

// Totals is the sum of all credits and of those the ledger has not acknowledged.
type Totals struct {
	Credited int64
	Unsynced int64
	Events   int64
}

func (j *Journal) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := j.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0),
		        COALESCE(SUM(CASE WHEN synced = 0 THEN amount ELSE 0 END), 0),
		        COUNT(*)
		   FROM reward_events`).Scan(&t.Credited, &t.Unsynced, &t.Events)
	if err != nil {
		return Totals{}, fmt.Errorf("journal: totals: %w", err)
	}
	return t, nil
}

func (j *Journal) query(ctx context.Context, tail string, args ...any) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, account_id, amount, base, multiplier, reason, synced, created_at FROM reward_events `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			synced  int
			created int64
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Base, &e.Multiplier, &e.Reason, &synced, &created); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Synced = synced == 1
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func syncedAt(e Event) any {
	if !e.Synced {
		return nil
	}
	return e.CreatedAt.UnixMilli()
}

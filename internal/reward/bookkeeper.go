// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package reward

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/metrics"
)

// Submitter is the ledger call that records a credit remotely.
type Submitter interface {
	SubmitReward(ctx context.Context, accountID string, amount int, reason string) error
}

// Bookkeeper credits rewards to the ledger and to the local shadow.
// The local total is updated before the ledger is contacted and never
// rolled back; the journal records whether the ledger acknowledged.
type Bookkeeper struct {
	account string
	ledger  Submitter
	store   Store
	now     func() time.Time

	total atomic.Int64
}

// NewBookkeeper creates a Bookkeeper. store may be nil to skip journaling.
func NewBookkeeper(account string, ledger Submitter, store Store) *Bookkeeper {
	return &Bookkeeper{account: account, ledger: ledger, store: store, now: time.Now}
}

// Credit computes floor(base*multiplier) and books it. Non-positive amounts
// are not booked and return a zero Event.
func (b *Bookkeeper) Credit(ctx context.Context, base int, multiplier float64, reason string) Event {
	amount := Credit(base, multiplier)
	if amount <= 0 {
		return Event{}
	}
	if multiplier < 1 {
		multiplier = 1
	}

	ev := Event{
		ID:         uuid.NewString(),
		AccountID:  b.account,
		Amount:     amount,
		Base:       base,
		Multiplier: multiplier,
		Reason:     reason,
		CreatedAt:  b.now(),
	}
	total := b.total.Add(int64(amount))

	logger := log.WithComponentFromContext(ctx, "reward")
	err := b.ledger.SubmitReward(ctx, b.account, amount, reason)
	ev.Synced = err == nil
	if err != nil {
		logger.Warn().Err(err).
			Str(log.FieldEvent, "ledger.unreachable").
			Str(log.FieldEventID, ev.ID).
			Int(log.FieldAmount, amount).
			Msg("reward tracked locally only")
	} else {
		logger.Info().
			Str(log.FieldEvent, "reward.credited").
			Str(log.FieldEventID, ev.ID).
			Int(log.FieldAmount, amount).
			Int(log.FieldBaseAmount, base).
			Float64(log.FieldMultiplier, multiplier).
			Str(log.FieldReason, reason).
			Msg("reward credited")
	}

	if b.store != nil {
		if jerr := b.store.Append(ctx, ev); jerr != nil {
			logger.Error().Err(jerr).Str(log.FieldEvent, "journal.append_failed").Msg("failed to journal reward")
		}
	}
	metrics.RecordCredit(reason, int64(amount), total, ev.Synced)
	return ev
}

// Total is the optimistic local total credited through this Bookkeeper.
func (b *Bookkeeper) Total() int64 { return b.total.Load() }

// ReconcileResult summarises a reconcile pass.
type ReconcileResult struct {
	Attempted int
	Synced    int
	Failed    int
	Amount    int64
}

// Reconcile resubmits journaled credits the ledger never acknowledged.
// A credit whose acknowledgement was lost in transit will be submitted twice;
// the ledger has no idempotency key to prevent it.
func (b *Bookkeeper) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var res ReconcileResult
	if b.store == nil {
		return res, nil
	}
	pending, err := b.store.Unsynced(ctx)
	if err != nil {
		return res, err
	}

	logger := log.WithComponentFromContext(ctx, "reward")
	for _, ev := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempted++
		if err := b.ledger.SubmitReward(ctx, ev.AccountID, ev.Amount, ev.Reason); err != nil {
			res.Failed++
			logger.Warn().Err(err).
				Str(log.FieldEvent, "reconcile.failed").
				Str(log.FieldEventID, ev.ID).
				Msg("credit still unsynced")
			continue
		}
		if err := b.store.MarkSynced(ctx, ev.ID); err != nil {
			return res, err
		}
		res.Synced++
		res.Amount += int64(ev.Amount)
	}
	logger.Info().
		Str(log.FieldEvent, "reconcile.done").
		Int("attempted", res.Attempted).
		Int("synced", res.Synced).
		Int("failed", res.Failed).
		Msg("reconcile finished")
	return res, nil
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rewardsCreditedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardtv_rewards_credited_total",
		Help: "Reward tokens credited locally by reason",
	}, []string{"reason"})

	rewardsUnsyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewardtv_rewards_unsynced_total",
		Help: "Reward credits the ledger did not acknowledge",
	})

	localRewardTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rewardtv_local_reward_total",
		Help: "Optimistic local reward total for the running session",
	})

	ledgerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardtv_ledger_requests_total",
		Help: "Ledger API requests by operation and outcome",
	}, []string{"op", "outcome"}) // outcome=success|failure

	ledgerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rewardtv_ledger_request_duration_seconds",
		Help:    "Ledger API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

// RecordCredit counts a credited amount and updates the local total gauge.
func RecordCredit(reason string, amount, total int64, synced bool) {
	rewardsCreditedTotal.WithLabelValues(reason).Add(float64(amount))
	localRewardTotal.Set(float64(total))
	if !synced {
		rewardsUnsyncedTotal.Inc()
	}
}

// RecordLedgerRequest records outcome and latency for one ledger call.
func RecordLedgerRequest(op string, ok bool, seconds float64) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	ledgerRequestsTotal.WithLabelValues(op, outcome).Inc()
	ledgerRequestDuration.WithLabelValues(op).Observe(seconds)
}

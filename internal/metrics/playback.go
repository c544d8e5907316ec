// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	playbackPhasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardtv_playback_phases_total",
		Help: "Playback phases by kind and result",
	}, []string{"phase", "result"}) // result=completed|skipped|bypassed|stopped|failed|missing

	playbackLaunchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardtv_playback_launch_failures_total",
		Help: "Pipeline launch failures by reason",
	}, []string{"reason"}) // reason=missing|launch

	playbackActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rewardtv_playback_active",
		Help: "Number of running decode pipelines",
	})

	skipAvailableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewardtv_skip_available_total",
		Help: "Number of times the ad skip option was surfaced",
	})

	watchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rewardtv_watch_seconds",
		Help:    "Watch time per phase in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
	}, []string{"phase"})

	pipelineSignals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardtv_pipeline_signals_total",
		Help: "Signals delivered to decode pipeline process groups",
	}, []string{"signal", "result"})
)

// RecordPhase counts a finished phase and observes its watch time.
func RecordPhase(phase, result string, watch float64) {
	playbackPhasesTotal.WithLabelValues(phase, result).Inc()
	if watch > 0 {
		watchSeconds.WithLabelValues(phase).Observe(watch)
	}
}

// IncLaunchFailure counts a pipeline that never started.
func IncLaunchFailure(reason string) {
	playbackLaunchFailures.WithLabelValues(reason).Inc()
}

// IncActivePipelines / DecActivePipelines track running pipelines.
func IncActivePipelines() { playbackActive.Inc() }
func DecActivePipelines() { playbackActive.Dec() }

func IncSkipAvailable() {
	skipAvailableTotal.Inc()
}

// IncPipelineSignal counts a termination signal sent to a pipeline group.
func IncPipelineSignal(signal, result string) {
	pipelineSignals.WithLabelValues(signal, result).Inc()
}

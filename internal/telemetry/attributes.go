// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared across spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	LedgerOperationKey = "ledger.operation"
	LedgerAccountKey   = "ledger.account_id"

	PlaybackPhaseKey  = "playback.phase"
	PlaybackResultKey = "playback.result"
	PlaybackWatchKey  = "playback.watch_ms"
	PlaybackRewardKey = "playback.reward"

	AssetPathKey     = "asset.path"
	AssetDurationKey = "asset.duration_ms"

	BenefitSkipAdsKey    = "benefit.skip_ads"
	BenefitPremiumKey    = "benefit.has_premium"
	BenefitMultiplierKey = "benefit.multiplier"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// LedgerAttributes identifies a ledger call. The account is omitted when empty.
func LedgerAttributes(op, accountID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(LedgerOperationKey, op)}
	if accountID != "" {
		attrs = append(attrs, attribute.String(LedgerAccountKey, accountID))
	}
	return attrs
}

// PhaseAttributes describes a finished playback phase.
func PhaseAttributes(phase, result string, watchMS int64, reward int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PlaybackPhaseKey, phase),
		attribute.String(PlaybackResultKey, result),
		attribute.Int64(PlaybackWatchKey, watchMS),
		attribute.Int(PlaybackRewardKey, reward),
	}
}

// AssetAttributes describes a media asset. An unknown duration is reported as 0.
func AssetAttributes(path string, duration time.Duration) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AssetPathKey, path),
		attribute.Int64(AssetDurationKey, duration.Milliseconds()),
	}
}

// BenefitAttributes records the behavior flags in effect.
func BenefitAttributes(skipAds, hasPremium bool, multiplier float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(BenefitSkipAdsKey, skipAds),
		attribute.Bool(BenefitPremiumKey, hasPremium),
		attribute.Float64(BenefitMultiplierKey, multiplier),
	}
}

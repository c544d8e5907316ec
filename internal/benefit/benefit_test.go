// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package benefit

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFlagsFor(t *testing.T) {
	tests := []struct {
		typ  Type
		want Flags
	}{
		{typ: "", want: Flags{RewardMultiplier: 1.0}},
		{typ: None, want: Flags{RewardMultiplier: 1.0}},
		{typ: SkipAds, want: Flags{SkipAds: true, RewardMultiplier: 1.0}},
		{typ: AdFreeHour, want: Flags{SkipAds: true, RewardMultiplier: 1.0}},
		{typ: PremiumContent, want: Flags{HasPremium: true, RewardMultiplier: 1.0}},
		{typ: VIPDay, want: Flags{SkipAds: true, HasPremium: true, RewardMultiplier: 2.0}},
		{typ: "gold_pass", want: Flags{RewardMultiplier: 1.0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			got := FlagsFor(State{Type: tt.typ, RemainingSeconds: 3600})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FlagsFor(%q) mismatch (-want +got):\n%s", tt.typ, diff)
			}
			assert.GreaterOrEqual(t, got.RewardMultiplier, 1.0)
		})
	}
}

func TestState(t *testing.T) {
	assert.False(t, State{}.Active())
	assert.False(t, State{Type: None}.Active())
	assert.True(t, State{Type: VIPDay}.Active())

	assert.Equal(t, 90*time.Second, State{RemainingSeconds: 90}.Remaining())
	assert.Zero(t, State{RemainingSeconds: -5}.Remaining())
}

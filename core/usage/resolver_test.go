package usage

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

func TestResolveFallbackOrder(t *testing.T) {
	resource := &types.Usage{Name: "batch", RatePercent: 25, DurationMonths: 6}
	quote := &types.Usage{Name: "dev", RatePercent: 50, DurationMonths: 12}

	tests := []struct {
		name           string
		override       *types.Usage
		quoteDefault   *types.Usage
		wantRate       string
		wantGlobalRate string
		wantDuration   int
	}{
		{"resource override wins", resource, quote, "0.25", "1.5", 6},
		{"quote default", nil, quote, "0.5", "6", 12},
		{"full time", nil, nil, "1", "1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.override, tt.quoteDefault)
			if !got.Rate.Equal(decimal.RequireFromString(tt.wantRate)) {
				t.Errorf("rate = %s, want %s", got.Rate, tt.wantRate)
			}
			if !got.GlobalRate.Equal(decimal.RequireFromString(tt.wantGlobalRate)) {
				t.Errorf("globalRate = %s, want %s", got.GlobalRate, tt.wantGlobalRate)
			}
			if got.Duration != tt.wantDuration {
				t.Errorf("duration = %d, want %d", got.Duration, tt.wantDuration)
			}
		})
	}
}

func TestNewResolverFallback(t *testing.T) {
	r := NewResolver(80, 36)
	got := r.Resolve(nil, nil)
	if !got.Rate.Equal(decimal.RequireFromString("0.8")) || got.Duration != 36 {
		t.Errorf("configured fallback not applied: %+v", got)
	}

	r = NewResolver(0, 0)
	if r.Fallback != FullTime {
		t.Errorf("invalid fallback should reset to full time, got %+v", r.Fallback)
	}
}

func TestResolveIsNotCached(t *testing.T) {
	u := &types.Usage{Name: "dev", RatePercent: 50, DurationMonths: 2}
	first := Resolve(u, nil)
	u.RatePercent = 100
	second := Resolve(u, nil)
	if first.Rate.Equal(second.Rate) {
		t.Error("changed usage should produce new rates")
	}
}

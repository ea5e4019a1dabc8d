package optimizer

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

func price(id string, typeID int, cost, co2 string, maxCPU *float64) types.ResolvedPrice {
	entry := &types.Entry{
		ID:   id,
		Type: &types.InstanceType{ID: typeID},
	}
	if maxCPU != nil {
		entry.Kind = types.KindDynamic
		entry.Dynamic = &types.DynamicRates{IncrementCPU: 1, IncrementRAM: 1, MaxCPU: maxCPU}
	}
	return types.ResolvedPrice{
		Entry:     entry,
		TotalCost: decimal.RequireFromString(cost),
		TotalCO2:  decimal.RequireFromString(co2),
	}
}

func ptr(v float64) *float64 { return &v }

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil, types.OptimizerCost); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		prices []types.ResolvedPrice
		mode   types.Optimizer
		want   string
	}{
		{
			name:   "cheapest wins",
			prices: []types.ResolvedPrice{price("a", 1, "20", "1", nil), price("b", 1, "10", "9", nil)},
			mode:   types.OptimizerCost,
			want:   "b",
		},
		{
			name:   "lowest co2 wins",
			prices: []types.ResolvedPrice{price("a", 1, "20", "1", nil), price("b", 1, "10", "9", nil)},
			mode:   types.OptimizerCO2,
			want:   "a",
		},
		{
			name:   "co2 breaks cost tie",
			prices: []types.ResolvedPrice{price("a", 1, "10", "5", nil), price("b", 1, "10", "3", nil)},
			mode:   types.OptimizerCost,
			want:   "b",
		},
		{
			name:   "cost breaks co2 tie",
			prices: []types.ResolvedPrice{price("a", 1, "12", "3", nil), price("b", 1, "10", "3", nil)},
			mode:   types.OptimizerCO2,
			want:   "b",
		},
		{
			name:   "larger type id wins",
			prices: []types.ResolvedPrice{price("seven", 7, "10", "3", nil), price("twelve", 12, "10", "3", nil)},
			mode:   types.OptimizerCost,
			want:   "twelve",
		},
		{
			name:   "tighter max cpu wins",
			prices: []types.ResolvedPrice{price("loose", 5, "10", "3", ptr(64)), price("tight", 5, "10", "3", ptr(8))},
			mode:   types.OptimizerCost,
			want:   "tight",
		},
		{
			name:   "unset max cpu last",
			prices: []types.ResolvedPrice{price("fixed", 5, "10", "3", nil), price("bounded", 5, "10", "3", ptr(96))},
			mode:   types.OptimizerCost,
			want:   "bounded",
		},
		{
			name:   "empty mode is cost",
			prices: []types.ResolvedPrice{price("a", 1, "20", "1", nil), price("b", 1, "10", "9", nil)},
			want:   "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.prices, tt.mode)
			if got == nil || got.Entry.ID != tt.want {
				t.Fatalf("Rank() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestRankOrderIndependent(t *testing.T) {
	a := price("seven", 7, "10", "3", nil)
	b := price("twelve", 12, "10", "3", nil)
	c := price("cheap-co2", 3, "10", "2", nil)

	orders := [][]types.ResolvedPrice{{a, b, c}, {c, b, a}, {b, a, c}}
	for _, prices := range orders {
		if got := Rank(prices, types.OptimizerCost); got.Entry.ID != "cheap-co2" {
			t.Errorf("Rank() = %s, want cheap-co2", got.Entry.ID)
		}
	}

	orders = [][]types.ResolvedPrice{{a, b}, {b, a}}
	for _, prices := range orders {
		if got := Rank(prices, types.OptimizerCost); got.Entry.ID != "twelve" {
			t.Errorf("Rank() = %s, want twelve", got.Entry.ID)
		}
	}
}

func TestSortLeavesInput(t *testing.T) {
	prices := []types.ResolvedPrice{price("b", 1, "20", "1", nil), price("a", 1, "10", "1", nil)}
	sorted := Sort(prices, types.OptimizerCost)
	if prices[0].Entry.ID != "b" {
		t.Error("input was reordered")
	}
	if sorted[0].Entry.ID != "a" || sorted[1].Entry.ID != "b" {
		t.Errorf("unexpected order: %s, %s", sorted[0].Entry.ID, sorted[1].Entry.ID)
	}
}

// Package optimizer ranks resolved prices by cost or by CO2.
//
// Ordering, cost mode:
//  1. total cost ascending
//  2. total CO2 ascending
//  3. type id descending, preferring the larger or newer type
//  4. dynamic max CPU ascending, unset last
//
// CO2 mode swaps the first two keys. Remaining ties keep catalog order.
package optimizer

import (
	"sort"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Rank returns the best price, nil when there is none
func Rank(prices []types.ResolvedPrice, mode types.Optimizer) *types.ResolvedPrice {
	if len(prices) == 0 {
		return nil
	}
	sorted := Sort(prices, mode)
	return &sorted[0]
}

// Sort returns the prices in rank order, leaving the input untouched
func Sort(prices []types.ResolvedPrice, mode types.Optimizer) []types.ResolvedPrice {
	sorted := make([]types.ResolvedPrice, len(prices))
	copy(sorted, prices)

	compare := Comparator(mode)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compare(&sorted[i], &sorted[j]) < 0
	})
	return sorted
}

// Comparator returns the ordering of a mode, empty meaning cost
func Comparator(mode types.Optimizer) func(a, b *types.ResolvedPrice) int {
	return func(a, b *types.ResolvedPrice) int {
		var c int
		if mode == types.OptimizerCO2 {
			c = firstNonZero(a.TotalCO2.Cmp(b.TotalCO2), a.TotalCost.Cmp(b.TotalCost))
		} else {
			c = firstNonZero(a.TotalCost.Cmp(b.TotalCost), a.TotalCO2.Cmp(b.TotalCO2))
		}
		if c != 0 {
			return c
		}
		if ta, tb := a.Entry.TypeID(), b.Entry.TypeID(); ta != tb {
			if ta > tb {
				return -1
			}
			return 1
		}
		return compareMaxCPU(a.Entry.MaxCPU(), b.Entry.MaxCPU())
	}
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

// compareMaxCPU orders bounds ascending with unset bounds last
func compareMaxCPU(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return decimal.NewFromFloat(*a).Cmp(decimal.NewFromFloat(*b))
	}
}

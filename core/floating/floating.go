// Package floating expands resolved prices into monthly cost ranges and folds
// them into quote totals.
package floating

import (
	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Compute expands a price over the resource quantity bounds.
// A nil maxQuantity marks the range unbound, with max equal to min.
// A nil price yields a zero range that keeps the unbound flag.
func Compute(price *types.ResolvedPrice, minQuantity int, maxQuantity *int) types.FloatingCost {
	fc := types.FloatingCost{Unbound: maxQuantity == nil}
	if fc.Unbound {
		fc.UnboundCount = 1
	}
	if price == nil {
		return fc
	}

	minQty := decimal.NewFromInt(int64(minQuantity))
	fc.Min = price.MonthlyCost.Mul(minQty)
	fc.MinCO2 = price.MonthlyCO2.Mul(minQty)
	fc.Initial = price.InitialCost.Mul(minQty)

	if maxQuantity == nil {
		fc.Max = fc.Min
		fc.MaxCO2 = fc.MinCO2
		fc.MaxInitial = fc.Initial
		return fc
	}

	maxQty := decimal.NewFromInt(int64(*maxQuantity))
	fc.Max = price.MonthlyCost.Mul(maxQty)
	fc.MaxCO2 = price.MonthlyCO2.Mul(maxQty)
	fc.MaxInitial = price.InitialCost.Mul(maxQty)
	return fc
}

// Sum folds ranges into a total, counting the unbound ones
func Sum(costs ...types.FloatingCost) types.FloatingCost {
	var total types.FloatingCost
	for _, c := range costs {
		total.Min = total.Min.Add(c.Min)
		total.Max = total.Max.Add(c.Max)
		total.MinCO2 = total.MinCO2.Add(c.MinCO2)
		total.MaxCO2 = total.MaxCO2.Add(c.MaxCO2)
		total.Initial = total.Initial.Add(c.Initial)
		total.MaxInitial = total.MaxInitial.Add(c.MaxInitial)
		total.Unbound = total.Unbound || c.Unbound
		total.UnboundCount += c.UnboundCount
	}
	return total
}

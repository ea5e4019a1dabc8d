// Package calculator turns a matched catalog entry into a resolved price.
//
// Every formula is a pure function over in-memory values:
//   - Fixed prices a named type at a flat monthly cost
//   - Dynamic prices a custom type by CPU/GPU/RAM increments
//   - function entries add request and RAM-request charges
//   - Storage prices a volume by size
//   - Support prices a plan against the quote's compute cost
//
// Sub-month terms (period 0) scale with the usage rate, committed terms
// are billed in whole periods.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Price dispatches the entry to its calculator.
// Support entries are priced at their monthly floor, see Support.
func Price(entry *types.Entry, req *types.Requirement, rates types.UsageRates) types.ResolvedPrice {
	var price types.ResolvedPrice
	switch {
	case entry.Category == types.CategoryStorage:
		return Storage(entry, req.Size, rates)
	case entry.Category == types.CategorySupport:
		return Support(entry, decimal.Zero, rates)
	case entry.Kind == types.KindDynamic:
		price = Dynamic(entry, req, rates)
	default:
		price = Fixed(entry, rates)
	}

	if entry.Category == types.CategoryFunction && entry.Function != nil {
		price = addFunction(price, entry, req, rates)
	}
	return price
}

// periodic applies the period rule to a monthly amount and its per-period amount
func periodic(monthly, perPeriod decimal.Decimal, period int, rates types.UsageRates) (total, monthlyOut decimal.Decimal) {
	if period <= 0 {
		return monthly.Mul(rates.GlobalRate), monthly.Mul(rates.Rate)
	}
	return perPeriod.Mul(decimal.NewFromInt(int64(periods(rates.Duration, period)))), monthly
}

// periods returns the number of whole periods covering the duration
func periods(duration, period int) int {
	return (duration + period - 1) / period
}

// billed rounds the requested quantity, raised to its floor, up to the increment
func billed(requested, floor decimal.Decimal, increment float64) decimal.Decimal {
	v := decimal.Max(requested, floor)
	if increment <= 0 {
		return v
	}
	inc := decimal.NewFromFloat(increment)
	return v.Div(inc).Ceil().Mul(inc)
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func initialCost(entry *types.Entry) decimal.Decimal {
	if entry.InitialCost == nil {
		return decimal.Zero
	}
	return *entry.InitialCost
}

func termFormula(period int, rates types.UsageRates) string {
	if period <= 0 {
		return fmt.Sprintf("x rate %s x %d months", rates.Rate.String(), rates.Duration)
	}
	return fmt.Sprintf("x %d period(s) of %d months", periods(rates.Duration, period), period)
}

package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Support prices a support plan against the monthly cost it covers:
// monthly = max(minMonthly, ratePercent% * covered).
func Support(entry *types.Entry, covered decimal.Decimal, rates types.UsageRates) types.ResolvedPrice {
	s := entry.Support
	monthly := decimal.Max(s.MinMonthly, covered.Mul(s.RatePercent).Div(decimal.NewFromInt(100)))
	months := decimal.NewFromInt(int64(rates.Duration))

	return types.ResolvedPrice{
		Entry:       entry,
		TotalCost:   monthly.Mul(months),
		MonthlyCost: monthly,
		TotalCO2:    decimal.Zero,
		MonthlyCO2:  decimal.Zero,
		InitialCost: initialCost(entry),
		Formula:     fmt.Sprintf("support max(%s, %s%% of %s)", s.MinMonthly.String(), s.RatePercent.String(), covered.String()),
	}
}

package calculator

import (
	"cloud-quote/core/types"
)

// Fixed prices a fixed entry.
// Period 0: total = cost * globalRate, monthly = cost * rate.
// Period p: total = costPeriod * ceil(duration/p), monthly = cost.
func Fixed(entry *types.Entry, rates types.UsageRates) types.ResolvedPrice {
	period := entry.Period()
	total, monthly := periodic(entry.Cost, entry.CostPeriod, period, rates)
	totalCO2, monthlyCO2 := periodic(entry.CO2, entry.CO2Period, period, rates)

	return types.ResolvedPrice{
		Entry:       entry,
		TotalCost:   total,
		MonthlyCost: monthly,
		TotalCO2:    totalCO2,
		MonthlyCO2:  monthlyCO2,
		InitialCost: initialCost(entry),
		Formula:     "fixed " + entry.TypeCode() + " " + termFormula(period, rates),
	}
}

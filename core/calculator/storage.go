package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// BilledSize raises the size to the minimal size then rounds it up to the increment
func BilledSize(s *types.StorageRates, size float64) decimal.Decimal {
	return billed(dec(size), dec(s.MinimalSize), s.Increment)
}

// Storage prices a volume: monthly = cost + billedSize * costGb.
// Storage is billed whole months, the usage rate does not apply.
func Storage(entry *types.Entry, size float64, rates types.UsageRates) types.ResolvedPrice {
	s := entry.Storage
	gb := BilledSize(s, size)
	months := decimal.NewFromInt(int64(rates.Duration))

	monthly := entry.Cost.Add(gb.Mul(s.CostGB))
	monthlyCO2 := entry.CO2.Add(gb.Mul(s.CO2GB))

	return types.ResolvedPrice{
		Entry:       entry,
		TotalCost:   monthly.Mul(months),
		MonthlyCost: monthly,
		TotalCO2:    monthlyCO2.Mul(months),
		MonthlyCO2:  monthlyCO2,
		InitialCost: initialCost(entry),
		Formula:     fmt.Sprintf("storage %s GiB x %d months", gb.String(), rates.Duration),
	}
}

package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

var (
	// secondsPerMonth is 730 hours
	secondsPerMonth = decimal.NewFromInt(2628000)
	million         = decimal.NewFromInt(1000000)
	millisecond     = decimal.NewFromInt(1000)
)

// FunctionCharges are the monthly request-driven charges of a function
type FunctionCharges struct {
	Requests    decimal.Decimal
	Duration    decimal.Decimal
	Concurrency decimal.Decimal

	// RAMRequest is the charged RAM component, the cheaper of duration and concurrency
	RAMRequest decimal.Decimal

	RequestsCO2   decimal.Decimal
	RAMRequestCO2 decimal.Decimal
}

// Monthly returns the total monthly charge
func (c FunctionCharges) Monthly() decimal.Decimal {
	return c.Requests.Add(c.RAMRequest)
}

// MonthlyCO2 returns the total monthly CO2
func (c FunctionCharges) MonthlyCO2() decimal.Decimal {
	return c.RequestsCO2.Add(c.RAMRequestCO2)
}

// Function computes the request charges of a function entry.
// Requests are in millions per month, durations in milliseconds, RAM in GiB.
func Function(entry *types.Entry, req *types.Requirement) FunctionCharges {
	f := entry.Function
	ram := functionRAM(entry, req)
	requests := dec(req.Requests)

	billedDuration := billed(dec(req.RequestDuration), decimal.Zero, f.IncrementRAMRequestDuration)
	gibSeconds := billedDuration.Div(millisecond).Mul(ram).Mul(requests).Mul(million)
	reservedGibSeconds := dec(req.Concurrency).Mul(ram).Mul(secondsPerMonth)

	charges := FunctionCharges{
		Requests:    requests.Mul(f.CostRequests),
		Duration:    gibSeconds.Mul(f.CostRAMRequest),
		Concurrency: reservedGibSeconds.Mul(f.CostRAMRequestConcurrency),
		RequestsCO2: requests.Mul(f.CO2Requests),
	}

	durationCO2 := gibSeconds.Mul(f.CO2RAMRequest)
	if req.Concurrency > 0 {
		charges.RAMRequest = decimal.Min(charges.Duration, charges.Concurrency)
		charges.RAMRequestCO2 = decimal.Min(durationCO2, reservedGibSeconds.Mul(f.CO2RAMRequestConcurrency))
	} else {
		charges.RAMRequest = charges.Duration
		charges.RAMRequestCO2 = durationCO2
	}
	return charges
}

// functionRAM is the billed RAM of a dynamic function or the RAM of its type
func functionRAM(entry *types.Entry, req *types.Requirement) decimal.Decimal {
	if entry.Kind == types.KindDynamic {
		return BilledUnits(entry.Dynamic, req).RAM
	}
	if entry.Type != nil {
		return dec(entry.Type.RAM)
	}
	return dec(req.EffectiveRAM())
}

// addFunction adds the request charges, monthly and unscaled by the usage rate
func addFunction(price types.ResolvedPrice, entry *types.Entry, req *types.Requirement, rates types.UsageRates) types.ResolvedPrice {
	charges := Function(entry, req)
	months := decimal.NewFromInt(int64(rates.Duration))

	price.MonthlyCost = price.MonthlyCost.Add(charges.Monthly())
	price.TotalCost = price.TotalCost.Add(charges.Monthly().Mul(months))
	price.MonthlyCO2 = price.MonthlyCO2.Add(charges.MonthlyCO2())
	price.TotalCO2 = price.TotalCO2.Add(charges.MonthlyCO2().Mul(months))
	price.Formula += fmt.Sprintf(" + requests %s + ram-request %s", charges.Requests.String(), charges.RAMRequest.String())
	return price
}

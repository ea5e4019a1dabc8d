package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Units are the billed quantities of a dynamic entry
type Units struct {
	CPU decimal.Decimal
	GPU decimal.Decimal

	// RAM is in GiB
	RAM decimal.Decimal
}

// BilledUnits computes the billed CPU/GPU/RAM of a dynamic entry.
// Each axis is raised to its minimum then rounded up to its increment.
// RAM is also raised to max(minCpu, cpu) * minRamRatio.
func BilledUnits(d *types.DynamicRates, req *types.Requirement) Units {
	cpu := dec(req.EffectiveCPU())

	ramFloor := dec(d.MinRAM)
	if d.MinRAMRatio > 0 {
		ramFloor = decimal.Max(ramFloor, decimal.Max(dec(d.MinCPU), cpu).Mul(dec(d.MinRAMRatio)))
	}

	units := Units{
		CPU: billed(cpu, dec(d.MinCPU), d.IncrementCPU),
		RAM: billed(dec(req.EffectiveRAM()), ramFloor, d.IncrementRAM),
		GPU: decimal.Zero,
	}
	if d.HasGPU() {
		units.GPU = billed(dec(req.GPU), dec(d.MinGPU), d.IncrementGPU)
	}
	return units
}

// Dynamic prices a dynamic entry from its billed units.
// The monthly amount is cost + cpu*costCpu + gpu*costGpu + ram*costRam,
// and a committed period costs that amount times the period.
func Dynamic(entry *types.Entry, req *types.Requirement, rates types.UsageRates) types.ResolvedPrice {
	d := entry.Dynamic
	units := BilledUnits(d, req)

	cost := entry.Cost.
		Add(units.CPU.Mul(d.CostCPU)).
		Add(units.GPU.Mul(d.CostGPU)).
		Add(units.RAM.Mul(d.CostRAM))
	co2 := entry.CO2.
		Add(units.CPU.Mul(d.CO2CPU)).
		Add(units.GPU.Mul(d.CO2GPU)).
		Add(units.RAM.Mul(d.CO2RAM))

	period := entry.Period()
	months := decimal.NewFromInt(int64(period))
	total, monthly := periodic(cost, cost.Mul(months), period, rates)
	totalCO2, monthlyCO2 := periodic(co2, co2.Mul(months), period, rates)

	return types.ResolvedPrice{
		Entry:       entry,
		TotalCost:   total,
		MonthlyCost: monthly,
		TotalCO2:    totalCO2,
		MonthlyCO2:  monthlyCO2,
		InitialCost: initialCost(entry),
		Formula: fmt.Sprintf("dynamic cpu=%s gpu=%s ram=%s %s",
			units.CPU.String(), units.GPU.String(), units.RAM.String(), termFormula(period, rates)),
	}
}

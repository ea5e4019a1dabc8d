// Package types - Resolved price and floating cost types
package types

import "github.com/shopspring/decimal"

// ResolvedPrice is the calculator output for one entry under one requirement
type ResolvedPrice struct {
	// Entry is the priced catalog entry
	Entry *Entry `json:"entry"`

	// TotalCost is the cost over the whole usage duration
	TotalCost decimal.Decimal `json:"total_cost"`

	// MonthlyCost is the cost of one month at the usage rate
	MonthlyCost decimal.Decimal `json:"monthly_cost"`

	// TotalCO2 is the CO2 over the whole usage duration
	TotalCO2 decimal.Decimal `json:"total_co2"`

	// MonthlyCO2 is the CO2 of one month at the usage rate
	MonthlyCO2 decimal.Decimal `json:"monthly_co2"`

	// InitialCost is the upfront cost of one unit
	InitialCost decimal.Decimal `json:"initial_cost"`

	// Formula describes how the cost was calculated
	Formula string `json:"formula,omitempty"`
}

// FloatingCost is the monthly cost range of a resource or a quote
type FloatingCost struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`

	MinCO2 decimal.Decimal `json:"min_co2"`
	MaxCO2 decimal.Decimal `json:"max_co2"`

	// Initial is the upfront cost at minimal quantity
	Initial decimal.Decimal `json:"initial"`

	// MaxInitial is the upfront cost at maximal quantity
	MaxInitial decimal.Decimal `json:"max_initial"`

	// Unbound is true when a maximal quantity is undefined
	Unbound bool `json:"unbound"`

	// UnboundCount is the number of unbound resources folded in
	UnboundCount int `json:"unbound_count,omitempty"`
}

// Scale multiplies every amount by a pre-computed currency rate
func (f FloatingCost) Scale(rate decimal.Decimal) FloatingCost {
	f.Min = f.Min.Mul(rate)
	f.Max = f.Max.Mul(rate)
	f.Initial = f.Initial.Mul(rate)
	f.MaxInitial = f.MaxInitial.Mul(rate)
	return f
}

// Package types - Usage and budget profile types
package types

import (
	"github.com/shopspring/decimal"

	"cloud-quote/internal/errors"
)

// Usage is a named rate/duration profile applied to a resource or a quote
type Usage struct {
	// ID uniquely identifies the profile
	ID string `json:"id"`

	// Name is referenced by requirements
	Name string `json:"name"`

	// RatePercent is the share of time the resource runs, 1..100
	RatePercent int `json:"rate"`

	// DurationMonths is the expected lifetime, at least 1
	DurationMonths int `json:"duration"`
}

// Validate checks the profile bounds
func (u *Usage) Validate() error {
	if u.Name == "" {
		return errors.Validation("name", "usage without name")
	}
	if u.RatePercent < 1 || u.RatePercent > 100 {
		return errors.Validationf("rate", "usage rate %d is outside 1..100", u.RatePercent)
	}
	if u.DurationMonths < 1 {
		return errors.Validationf("duration", "usage duration %d is lower than one month", u.DurationMonths)
	}
	return nil
}

// Clone returns a copy the caller owns
func (u *Usage) Clone() *Usage {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// UsageRates are the calculator inputs resolved from a usage profile
type UsageRates struct {
	// Rate is the usage share, 1 for full time
	Rate decimal.Decimal `json:"rate"`

	// GlobalRate is Rate times Duration
	GlobalRate decimal.Decimal `json:"global_rate"`

	// Duration is the lifetime in months
	Duration int `json:"duration"`
}

// Budget is a named initial-cost ceiling shared by resources
type Budget struct {
	// ID uniquely identifies the budget
	ID string `json:"id"`

	// Name is referenced by requirements
	Name string `json:"name"`

	// InitialCostCeiling is nil for an unlimited budget
	InitialCostCeiling *decimal.Decimal `json:"initial_cost,omitempty"`

	// RequiredInitialCost is the upfront cost the last consumption pass needed
	RequiredInitialCost decimal.Decimal `json:"required_initial_cost"`
}

// Validate checks the ceiling
func (b *Budget) Validate() error {
	if b.Name == "" {
		return errors.Validation("name", "budget without name")
	}
	if b.InitialCostCeiling != nil && b.InitialCostCeiling.IsNegative() {
		return errors.Validation("initial_cost", "budget ceiling must not be negative")
	}
	return nil
}

// Clone returns a copy the caller owns, ceiling included
func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}
	c := *b
	if b.InitialCostCeiling != nil {
		ceiling := *b.InitialCostCeiling
		c.InitialCostCeiling = &ceiling
	}
	return &c
}

// Package usage resolves the usage rate and duration applied to a resource.
// The resolved rates are recomputed on every resolution and never cached.
package usage

import (
	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

var hundred = decimal.NewFromInt(100)

// FullTime is the profile used when neither the resource nor the quote sets one
var FullTime = types.Usage{Name: "full-time", RatePercent: 100, DurationMonths: 1}

// Resolver resolves usage rates with a configurable last-resort profile
type Resolver struct {
	// Fallback is used when no profile is attached
	Fallback types.Usage
}

// NewResolver creates a resolver falling back to the given rate and duration.
// Out of range values fall back to full time for one month.
func NewResolver(ratePercent, durationMonths int) *Resolver {
	fallback := types.Usage{Name: FullTime.Name, RatePercent: ratePercent, DurationMonths: durationMonths}
	if fallback.Validate() != nil {
		fallback = FullTime
	}
	return &Resolver{Fallback: fallback}
}

// Resolve picks the resource override, then the quote default, then the fallback
func (r *Resolver) Resolve(override, quoteDefault *types.Usage) types.UsageRates {
	return Rates(r.pick(override, quoteDefault))
}

// Winner returns the profile Resolve would use
func (r *Resolver) Winner(override, quoteDefault *types.Usage) types.Usage {
	return r.pick(override, quoteDefault)
}

func (r *Resolver) pick(override, quoteDefault *types.Usage) types.Usage {
	switch {
	case override != nil:
		return *override
	case quoteDefault != nil:
		return *quoteDefault
	default:
		return r.Fallback
	}
}

// Resolve applies the default full-time fallback
func Resolve(override, quoteDefault *types.Usage) types.UsageRates {
	return (&Resolver{Fallback: FullTime}).Resolve(override, quoteDefault)
}

// Rates converts a usage profile into calculator inputs
func Rates(u types.Usage) types.UsageRates {
	rate := decimal.NewFromInt(int64(u.RatePercent)).Div(hundred)
	return types.UsageRates{
		Rate:       rate,
		GlobalRate: rate.Mul(decimal.NewFromInt(int64(u.DurationMonths))),
		Duration:   u.DurationMonths,
	}
}

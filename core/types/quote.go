// Package types - Quote and resource types
package types

import (
	"github.com/shopspring/decimal"

	"cloud-quote/internal/errors"
)

// Quote groups resources priced under shared defaults
type Quote struct {
	// ID uniquely identifies the quote
	ID string `json:"id"`

	Name string `json:"name"`

	// Location is the default location of the resources
	Location string `json:"location,omitempty"`

	// License is the default license of the resources
	License string `json:"license,omitempty"`

	// Usage is the default usage profile, nil for full time
	Usage *Usage `json:"usage,omitempty"`

	// Budget is the default budget, nil for unlimited
	Budget *Budget `json:"budget,omitempty"`

	// Reservation is the default reservation mode
	Reservation Reservation `json:"reservation,omitempty"`

	// Optimizer is the default ranking metric
	Optimizer Optimizer `json:"optimizer,omitempty"`

	// TermPrefixes are the default accepted term prefixes
	TermPrefixes []string `json:"term_prefixes,omitempty"`

	// CurrencyRate is a pre-computed factor applied to the totals, zero meaning 1
	CurrencyRate decimal.Decimal `json:"currency_rate"`

	Resources []*Resource `json:"resources"`
}

// Rate returns the currency factor, defaulting to 1
func (q *Quote) Rate() decimal.Decimal {
	if q.CurrencyRate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return q.CurrencyRate
}

// Clone copies the quote, its resources and its profiles. A profile shared
// by several resources stays shared between the copies.
func (q *Quote) Clone() *Quote {
	if q == nil {
		return nil
	}
	usages := make(map[*Usage]*Usage)
	budgets := make(map[*Budget]*Budget)
	usage := func(u *Usage) *Usage {
		if u == nil {
			return nil
		}
		if c, ok := usages[u]; ok {
			return c
		}
		usages[u] = u.Clone()
		return usages[u]
	}
	budget := func(b *Budget) *Budget {
		if b == nil {
			return nil
		}
		if c, ok := budgets[b]; ok {
			return c
		}
		budgets[b] = b.Clone()
		return budgets[b]
	}

	c := *q
	c.Usage = usage(q.Usage)
	c.Budget = budget(q.Budget)
	c.TermPrefixes = append([]string(nil), q.TermPrefixes...)
	c.Resources = make([]*Resource, len(q.Resources))
	for i, r := range q.Resources {
		rc := *r
		if r.MaxQuantity != nil {
			maxQty := *r.MaxQuantity
			rc.MaxQuantity = &maxQty
		}
		rc.Usage = usage(r.Usage)
		rc.Budget = budget(r.Budget)
		c.Resources[i] = &rc
	}
	return &c
}

// Resource is one priced line of a quote
type Resource struct {
	// ID uniquely identifies the resource in the quote
	ID string `json:"id"`

	Name string `json:"name"`

	Requirement Requirement `json:"requirement"`

	// MinQuantity is the number of units always running
	MinQuantity int `json:"min_quantity"`

	// MaxQuantity is the upper number of units, nil when unbounded
	MaxQuantity *int `json:"max_quantity,omitempty"`

	// Usage overrides the quote usage when set
	Usage *Usage `json:"usage,omitempty"`

	// Budget overrides the quote budget when set
	Budget *Budget `json:"budget,omitempty"`

	// Order is the budget consumption order, ties broken by position
	Order int `json:"order"`
}

// ValidateQuantity checks the quantity bounds of a resource
func (r *Resource) ValidateQuantity() error {
	if r.MinQuantity < 0 {
		return errors.Validation("min_quantity", "minimal quantity must not be negative")
	}
	if r.MaxQuantity != nil && *r.MaxQuantity < r.MinQuantity {
		return errors.Validationf("max_quantity", "maximal quantity %d is lower than minimal quantity %d", *r.MaxQuantity, r.MinQuantity)
	}
	return nil
}

// ResourceResult is the resolution outcome of one resource
type ResourceResult struct {
	Resource *Resource `json:"resource"`

	// Price is nil when no catalog entry satisfies the requirement
	Price *ResolvedPrice `json:"price,omitempty"`

	Floating FloatingCost `json:"floating"`

	// Rejections explain why candidate entries were dropped
	Rejections []Rejection `json:"rejections,omitempty"`

	// OverBudget is set when the upfront cost overflows the budget
	OverBudget bool `json:"over_budget,omitempty"`

	// Err carries the budget overflow, surfaced but not fatal
	Err error `json:"-"`

	// Error is the message of Err
	Error string `json:"error,omitempty"`
}

// Rejection records the first constraint a catalog entry failed
type Rejection struct {
	EntryID    string `json:"entry_id"`
	Constraint string `json:"constraint"`
}

// QuoteResult is the outcome of one quote recompute
type QuoteResult struct {
	Quote *Quote `json:"-"`

	QuoteID string `json:"quote_id"`

	// Resources are in quote order
	Resources []*ResourceResult `json:"resources"`

	// Total is scaled by the currency rate
	Total FloatingCost `json:"total"`

	// Budgets are copies of the budgets touched by the pass, carrying their
	// required initial cost. The quote's own profiles are left untouched.
	Budgets []*Budget `json:"budgets,omitempty"`
}

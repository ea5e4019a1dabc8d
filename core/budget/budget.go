// Package budget consumes a budget's initial-cost ceiling across the resources
// sharing it.
//
// A Pass is a short-lived accumulator: create one per budget and recompute,
// feed it the resources in a fixed order, then Finish it. A pass abandoned
// half way is simply discarded; nothing is written to the budget before Finish.
package budget

import (
	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// Item is one resource's claim on a budget
type Item struct {
	ResourceID  string
	InitialCost decimal.Decimal
}

// Decision is the outcome of one consumption
type Decision struct {
	ResourceID string

	// Accepted is false when the resource overflows the ceiling
	Accepted bool

	// Remaining is the budget left after the decision, nil when unlimited
	Remaining *decimal.Decimal

	// Err is the budget overflow error of a rejected resource, or an
	// internal error when the pass is already finished
	Err error
}

// Pass is the transient consumption state of one budget
type Pass struct {
	budget    *types.Budget
	remaining decimal.Decimal
	consumed  decimal.Decimal
	unlimited bool
	finished  bool
}

// NewPass starts a pass with the full ceiling available
func NewPass(b *types.Budget) *Pass {
	p := &Pass{budget: b, unlimited: b.InitialCostCeiling == nil}
	if !p.unlimited {
		p.remaining = *b.InitialCostCeiling
	}
	return p
}

// Consume claims the initial cost of the next resource.
// An overflowing resource is flagged and leaves the remaining budget untouched.
// A finished pass rejects every claim with an internal error.
func (p *Pass) Consume(resourceID string, initialCost decimal.Decimal) Decision {
	if p.finished {
		return Decision{
			ResourceID: resourceID,
			Err:        errors.New(errors.TypeInternal, "budget pass already finished").WithContext("budget", p.budget.Name),
		}
	}

	if p.unlimited {
		p.consumed = p.consumed.Add(initialCost)
		return Decision{ResourceID: resourceID, Accepted: true}
	}

	if initialCost.GreaterThan(p.remaining) {
		remaining := p.remaining
		return Decision{
			ResourceID: resourceID,
			Remaining:  &remaining,
			Err:        errors.BudgetOverflow(p.budget.Name, resourceID).WithContext("initial_cost", initialCost.String()),
		}
	}

	p.remaining = p.remaining.Sub(initialCost)
	p.consumed = p.consumed.Add(initialCost)
	remaining := p.remaining
	return Decision{ResourceID: resourceID, Accepted: true, Remaining: &remaining}
}

// Finish writes the required initial cost back onto the budget and returns it.
// It is ceiling - remaining clamped at zero, or the sum of claims when unlimited.
func (p *Pass) Finish() decimal.Decimal {
	required := p.consumed
	if !p.unlimited {
		required = decimal.Max(decimal.Zero, p.budget.InitialCostCeiling.Sub(p.remaining))
	}
	p.budget.RequiredInitialCost = required
	p.finished = true
	return required
}

// Consume runs a complete pass over items in the given order
func Consume(b *types.Budget, items []Item) []Decision {
	pass := NewPass(b)
	decisions := make([]Decision, 0, len(items))
	for _, item := range items {
		decisions = append(decisions, pass.Consume(item.ResourceID, item.InitialCost))
	}
	pass.Finish()
	return decisions
}

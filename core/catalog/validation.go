// Package catalog - Catalog validation
// Integrity defects are catalog bugs and are reported, never coerced.
package catalog

import (
	"fmt"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// ValidationRule is a catalog-wide validation rule
type ValidationRule func(*types.Entry) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validatePeriodCost,
		validateDynamicBounds,
		validateStorageBounds,
	}
}

// Validate checks every entry against the rules, in registration order
func (c *Catalog) Validate(rules []ValidationRule) []error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, id := range c.order {
		for _, rule := range rules {
			if err := rule(c.entries[id]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// validatePeriodCost ensures committed terms carry a period cost
func validatePeriodCost(e *types.Entry) error {
	if e.Kind == types.KindFixed && e.Period() > 0 && e.CostPeriod.IsZero() && !e.Cost.IsZero() {
		return errors.Integrity(e.ID, fmt.Sprintf("committed term of %d months without period cost", e.Period()))
	}
	return nil
}

// validateDynamicBounds ensures minimums do not exceed maximums
func validateDynamicBounds(e *types.Entry) error {
	d := e.Dynamic
	if d == nil {
		return nil
	}
	if d.MaxCPU != nil && *d.MaxCPU < d.MinCPU {
		return errors.Integrity(e.ID, "dynamic max cpu below min cpu")
	}
	if d.MaxRAM != nil && *d.MaxRAM < d.MinRAM {
		return errors.Integrity(e.ID, "dynamic max ram below min ram")
	}
	if d.MaxGPU != nil && *d.MaxGPU < d.MinGPU {
		return errors.Integrity(e.ID, "dynamic max gpu below min gpu")
	}
	if d.MaxRAMRatio > 0 && d.MinRAMRatio > d.MaxRAMRatio {
		return errors.Integrity(e.ID, "dynamic min ram ratio above max ram ratio")
	}
	return nil
}

// validateStorageBounds ensures the minimal size fits the maximal size
func validateStorageBounds(e *types.Entry) error {
	s := e.Storage
	if s != nil && s.MaximalSize != nil && *s.MaximalSize < s.MinimalSize {
		return errors.Integrity(e.ID, "storage maximal size below minimal size")
	}
	return nil
}

// Package types - Requirement types
package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"cloud-quote/internal/errors"
)

// Requirement is the caller's desired shape for one resource
type Requirement struct {
	// Category selects the catalog slice to search
	Category Category `json:"category"`

	// CPU is the requested number of vCPU
	CPU float64 `json:"cpu"`

	// CPUMax is the maximum observed vCPU, used in max reservation mode
	CPUMax *float64 `json:"cpu_max,omitempty"`

	// RAM is the requested memory in GiB
	RAM float64 `json:"ram"`

	// RAMMax is the maximum observed memory, used in max reservation mode
	RAMMax *float64 `json:"ram_max,omitempty"`

	// GPU is the requested number of GPU
	GPU float64 `json:"gpu,omitempty"`

	OS       string `json:"os,omitempty"`
	Engine   string `json:"engine,omitempty"`
	Edition  string `json:"edition,omitempty"`
	License  string `json:"license,omitempty"`
	Software string `json:"software,omitempty"`

	// Processor filters types by processor family, case-insensitively
	Processor string `json:"processor,omitempty"`

	// Physical requires bare metal (true) or virtual (false) when set
	Physical *bool `json:"physical,omitempty"`

	// Constant requires constant (true) or burstable (false) CPU when set
	Constant *bool `json:"constant,omitempty"`

	// AutoScale requires types supporting auto-scaling
	AutoScale bool `json:"auto_scale,omitempty"`

	// Location is the resolved location of the resource
	Location string `json:"location,omitempty"`

	// TermPrefixes are the accepted term name prefixes, empty for any
	TermPrefixes []string `json:"term_prefixes,omitempty"`

	// RateClasses are the minimal type ratings
	RateClasses Ratings `json:"rate_classes"`

	// Reservation selects plain or maximum observed values
	Reservation Reservation `json:"reservation,omitempty"`

	// UsageName references a usage profile overriding the quote default
	UsageName string `json:"usage,omitempty"`

	// BudgetName references a budget overriding the quote default
	BudgetName string `json:"budget,omitempty"`

	// Optimizer selects the ranking metric
	Optimizer Optimizer `json:"optimizer,omitempty"`

	// Size is the requested storage size in GiB
	Size float64 `json:"size,omitempty"`

	// Latency is the minimal storage latency class
	Latency Rating `json:"latency,omitempty"`

	// Optimized is the requested storage optimization
	Optimized string `json:"optimized,omitempty"`

	// Requests is the monthly function request count in millions
	Requests float64 `json:"requests,omitempty"`

	// RequestDuration is the average function request duration in milliseconds
	RequestDuration float64 `json:"request_duration,omitempty"`

	// Concurrency is the reserved function concurrency
	Concurrency float64 `json:"concurrency,omitempty"`

	// InitialCostCeiling is the upfront ceiling inherited from the budget
	InitialCostCeiling *decimal.Decimal `json:"-"`
}

// EffectiveCPU returns the CPU value the reservation mode selects
func (r *Requirement) EffectiveCPU() float64 {
	if r.Reservation == ReservationMax && r.CPUMax != nil {
		return *r.CPUMax
	}
	return r.CPU
}

// EffectiveRAM returns the RAM value the reservation mode selects
func (r *Requirement) EffectiveRAM() float64 {
	if r.Reservation == ReservationMax && r.RAMMax != nil {
		return *r.RAMMax
	}
	return r.RAM
}

// AcceptsTerm reports whether a term name carries an accepted prefix
func (r *Requirement) AcceptsTerm(name string) bool {
	if len(r.TermPrefixes) == 0 {
		return true
	}
	for _, prefix := range r.TermPrefixes {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

// Validate rejects a requirement before matching, naming the offending field
func (r *Requirement) Validate() error {
	if !r.Category.IsValid() {
		return errors.Validationf("category", "unknown category %q", r.Category)
	}
	if r.CPU < 0 {
		return errors.Validation("cpu", "cpu must not be negative")
	}
	if r.RAM < 0 {
		return errors.Validation("ram", "ram must not be negative")
	}
	if r.GPU < 0 {
		return errors.Validation("gpu", "gpu must not be negative")
	}
	if r.CPUMax != nil && *r.CPUMax < r.CPU {
		return errors.Validation("cpu_max", "cpu max is lower than the requested cpu")
	}
	if r.RAMMax != nil && *r.RAMMax < r.RAM {
		return errors.Validation("ram_max", "ram max is lower than the requested ram")
	}
	if r.GPU > 0 && !r.Category.HasGPU() {
		return errors.Validationf("gpu", "category %s has no gpu axis", r.Category)
	}
	if !r.Reservation.IsValid() {
		return errors.Validationf("reservation", "unknown reservation mode %q", r.Reservation)
	}
	if !r.Optimizer.IsValid() {
		return errors.Validationf("optimizer", "unknown optimizer %q", r.Optimizer)
	}

	switch r.Category {
	case CategoryStorage:
		if r.Size <= 0 {
			return errors.Validation("size", "storage size must be positive")
		}
	case CategoryFunction:
		if r.Requests < 0 {
			return errors.Validation("requests", "request count must not be negative")
		}
		if r.RequestDuration < 0 {
			return errors.Validation("request_duration", "request duration must not be negative")
		}
		if r.Concurrency < 0 {
			return errors.Validation("concurrency", "concurrency must not be negative")
		}
	case CategoryDatabase:
		if r.Engine == "" {
			return errors.Validation("engine", "database requirement without engine")
		}
	}
	return nil
}

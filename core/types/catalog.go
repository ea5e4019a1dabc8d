// Package types - Catalog entry types
package types

import (
	"github.com/shopspring/decimal"

	"cloud-quote/internal/errors"
)

// Term is a billing commitment shape
type Term struct {
	// ID uniquely identifies the term
	ID string `json:"id"`

	// Name is matched against the accepted term prefixes
	Name string `json:"name"`

	// Period is the commitment length in months, 0 for sub-month billing
	Period int `json:"period"`

	// Convertible terms allow changing the type during the commitment
	Convertible bool `json:"convertible,omitempty"`

	// Reservation terms reserve capacity
	Reservation bool `json:"reservation,omitempty"`
}

// InstanceType is the hardware shape a price applies to
type InstanceType struct {
	// ID orders types on ties, larger meaning more capable or more recent
	ID int `json:"id"`

	// Code is the provider's type code, e.g. "t3.large"
	Code string `json:"code"`

	// Name is a display name
	Name string `json:"name,omitempty"`

	CPU float64 `json:"cpu"`
	GPU float64 `json:"gpu,omitempty"`

	// RAM is in GiB
	RAM float64 `json:"ram"`

	// Constant is false for burstable CPU, nil when unknown
	Constant *bool `json:"constant,omitempty"`

	// Physical is true for bare metal, nil when unknown
	Physical *bool `json:"physical,omitempty"`

	// Processor is the processor family, e.g. "Intel Xeon"
	Processor string `json:"processor,omitempty"`

	// AutoScale is true when the type supports auto-scaling
	AutoScale bool `json:"auto_scale,omitempty"`

	// Ratings are the rate classes of the type
	Ratings Ratings `json:"ratings"`
}

// DynamicRates is the payload of a dynamic entry
type DynamicRates struct {
	IncrementCPU float64 `json:"increment_cpu"`
	IncrementGPU float64 `json:"increment_gpu,omitempty"`
	IncrementRAM float64 `json:"increment_ram"`

	MinCPU float64  `json:"min_cpu,omitempty"`
	MaxCPU *float64 `json:"max_cpu,omitempty"`
	MinGPU float64  `json:"min_gpu,omitempty"`
	MaxGPU *float64 `json:"max_gpu,omitempty"`
	MinRAM float64  `json:"min_ram,omitempty"`
	MaxRAM *float64 `json:"max_ram,omitempty"`

	// MinRAMRatio is the GiB of RAM billed at least per CPU
	MinRAMRatio float64 `json:"min_ram_ratio,omitempty"`

	// MaxRAMRatio is the GiB of RAM allowed at most per CPU
	MaxRAMRatio float64 `json:"max_ram_ratio,omitempty"`

	CostCPU decimal.Decimal `json:"cost_cpu"`
	CostGPU decimal.Decimal `json:"cost_gpu"`
	CostRAM decimal.Decimal `json:"cost_ram"`

	CO2CPU decimal.Decimal `json:"co2_cpu"`
	CO2GPU decimal.Decimal `json:"co2_gpu"`
	CO2RAM decimal.Decimal `json:"co2_ram"`
}

// HasGPU reports whether the entry bills a GPU axis
func (d *DynamicRates) HasGPU() bool {
	return d != nil && d.IncrementGPU > 0
}

// FunctionRates holds the request charges of a function entry
type FunctionRates struct {
	// CostRequests is charged per million requests
	CostRequests decimal.Decimal `json:"cost_requests"`

	// CostRAMRequest is charged per GiB-second of request duration
	CostRAMRequest decimal.Decimal `json:"cost_ram_request"`

	// CostRAMRequestConcurrency is charged per GiB-second of reserved concurrency
	CostRAMRequestConcurrency decimal.Decimal `json:"cost_ram_request_concurrency"`

	// IncrementRAMRequestDuration is the billed duration step in milliseconds
	IncrementRAMRequestDuration float64 `json:"increment_ram_request_duration"`

	CO2Requests              decimal.Decimal `json:"co2_requests"`
	CO2RAMRequest            decimal.Decimal `json:"co2_ram_request"`
	CO2RAMRequestConcurrency decimal.Decimal `json:"co2_ram_request_concurrency"`
}

// StorageRates holds the size-based charges of a storage entry
type StorageRates struct {
	// CostGB is the monthly cost per GiB
	CostGB decimal.Decimal `json:"cost_gb"`

	// CO2GB is the monthly CO2 per GiB
	CO2GB decimal.Decimal `json:"co2_gb"`

	// MinimalSize is the smallest billed size in GiB
	MinimalSize float64 `json:"minimal_size,omitempty"`

	// MaximalSize is the largest supported size, nil when unbounded
	MaximalSize *float64 `json:"maximal_size,omitempty"`

	// Increment is the billed size step in GiB, 0 for none
	Increment float64 `json:"increment,omitempty"`

	// Latency is the latency class of the storage
	Latency Rating `json:"latency,omitempty"`

	// Optimized is the optimization of the storage (iops, throughput, durability)
	Optimized string `json:"optimized,omitempty"`
}

// SupportRates holds the charges of a support plan
type SupportRates struct {
	// RatePercent is charged on the quote's monthly cost
	RatePercent decimal.Decimal `json:"rate_percent"`

	// MinMonthly is the monthly floor of the plan
	MinMonthly decimal.Decimal `json:"min_monthly"`
}

// Entry is an immutable catalog price record, tagged fixed or dynamic
type Entry struct {
	// ID uniquely identifies the entry in the catalog
	ID string `json:"id"`

	// Category is the resource category priced by this entry
	Category Category `json:"category"`

	// Kind tags the entry as fixed or dynamic
	Kind PriceKind `json:"kind"`

	// Type is the priced type, a custom shape for dynamic entries
	Type *InstanceType `json:"type,omitempty"`

	// Term is nil for storage and support entries
	Term *Term `json:"term,omitempty"`

	// Location is empty when the price applies everywhere
	Location string `json:"location,omitempty"`

	// License is empty when the price applies to any license
	License string `json:"license,omitempty"`

	OS       string `json:"os,omitempty"`
	Engine   string `json:"engine,omitempty"`
	Edition  string `json:"edition,omitempty"`
	Software string `json:"software,omitempty"`

	// Cost is the monthly cost at full usage
	Cost decimal.Decimal `json:"cost"`

	// CostPeriod is the cost of one whole committed period
	CostPeriod decimal.Decimal `json:"cost_period"`

	// InitialCost is the upfront cost, nil when none
	InitialCost *decimal.Decimal `json:"initial_cost,omitempty"`

	// CO2 is the monthly CO2 at full usage
	CO2 decimal.Decimal `json:"co2"`

	// CO2Period is the CO2 of one whole committed period
	CO2Period decimal.Decimal `json:"co2_period"`

	Dynamic  *DynamicRates  `json:"dynamic,omitempty"`
	Function *FunctionRates `json:"function,omitempty"`
	Storage  *StorageRates  `json:"storage,omitempty"`
	Support  *SupportRates  `json:"support,omitempty"`
}

// Period returns the billing period in months
func (e *Entry) Period() int {
	if e.Term == nil {
		return 0
	}
	return e.Term.Period
}

// TypeID returns the type identifier used for tie-breaks
func (e *Entry) TypeID() int {
	if e.Type == nil {
		return 0
	}
	return e.Type.ID
}

// TypeCode returns the type code, empty when untyped
func (e *Entry) TypeCode() string {
	if e.Type == nil {
		return ""
	}
	return e.Type.Code
}

// MaxCPU returns the dynamic CPU upper bound, nil for fixed entries
func (e *Entry) MaxCPU() *float64 {
	if e.Dynamic == nil {
		return nil
	}
	return e.Dynamic.MaxCPU
}

// Validate checks the fixed/dynamic partition and category payloads.
// A failure is a defect of the catalog, never of the requirement.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return errors.Integrity("", "catalog entry without id")
	}
	if !e.Category.IsValid() {
		return errors.Integrity(e.ID, "unknown category "+string(e.Category))
	}

	switch e.Kind {
	case KindFixed:
		if e.Dynamic != nil {
			return errors.Integrity(e.ID, "fixed entry carries increment fields")
		}
	case KindDynamic:
		if e.Dynamic == nil || e.Dynamic.IncrementCPU <= 0 {
			return errors.Integrity(e.ID, "dynamic entry without cpu increment")
		}
		if e.Dynamic.IncrementRAM <= 0 {
			return errors.Integrity(e.ID, "dynamic entry without ram increment")
		}
		if e.Dynamic.IncrementGPU < 0 {
			return errors.Integrity(e.ID, "dynamic entry with negative gpu increment")
		}
	default:
		return errors.Integrity(e.ID, "unknown price kind")
	}

	if e.Category.IsCompute() && e.Type == nil {
		return errors.Integrity(e.ID, "compute entry without type")
	}

	switch e.Category {
	case CategoryFunction:
		if e.Function == nil {
			return errors.Integrity(e.ID, "function entry without request rates")
		}
	case CategoryStorage:
		if e.Storage == nil {
			return errors.Integrity(e.ID, "storage entry without size rates")
		}
		if e.Kind != KindFixed {
			return errors.Integrity(e.ID, "storage entry cannot be dynamic")
		}
	case CategorySupport:
		if e.Support == nil {
			return errors.Integrity(e.ID, "support entry without plan rates")
		}
		if e.Kind != KindFixed {
			return errors.Integrity(e.ID, "support entry cannot be dynamic")
		}
	}
	return nil
}

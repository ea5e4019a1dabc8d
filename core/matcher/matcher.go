// Package matcher filters catalog entries against the hard constraints of a
// requirement. It never ranks: every candidate that passes is returned in
// catalog order, and every candidate that fails is reported with the first
// constraint it failed.
package matcher

import (
	"strings"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

// Constraint names reported in rejections
const (
	ConstraintCategory    = "category"
	ConstraintLocation    = "location"
	ConstraintTerm        = "term"
	ConstraintLicense     = "license"
	ConstraintOS          = "os"
	ConstraintEngine      = "engine"
	ConstraintEdition     = "edition"
	ConstraintSoftware    = "software"
	ConstraintProcessor   = "processor"
	ConstraintPhysical    = "physical"
	ConstraintConstant    = "constant"
	ConstraintAutoScale   = "auto_scale"
	ConstraintRating      = "rating"
	ConstraintCPU         = "cpu"
	ConstraintRAM         = "ram"
	ConstraintGPU         = "gpu"
	ConstraintRAMRatio    = "max_ram_ratio"
	ConstraintInitialCost = "initial_cost"
	ConstraintSize        = "size"
	ConstraintLatency     = "latency"
	ConstraintOptimized   = "optimized"
)

// Result is the outcome of one match
type Result struct {
	// Candidates passed every constraint, in catalog order
	Candidates []*types.Entry

	// Rejections hold one record per dropped entry
	Rejections []types.Rejection
}

// Empty reports whether no entry matched
func (r Result) Empty() bool {
	return len(r.Candidates) == 0
}

// Match filters entries against the requirement.
// An empty result is not an error; an inconsistent entry is.
func Match(entries []*types.Entry, req *types.Requirement) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	var result Result
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return Result{}, err
		}
		if failed := check(entry, req); failed != "" {
			result.Rejections = append(result.Rejections, types.Rejection{EntryID: entry.ID, Constraint: failed})
			continue
		}
		result.Candidates = append(result.Candidates, entry)
	}
	return result, nil
}

// check returns the first failed constraint, empty when the entry passes
func check(e *types.Entry, req *types.Requirement) string {
	if e.Category != req.Category {
		return ConstraintCategory
	}
	if !optional(e.Location, req.Location) {
		return ConstraintLocation
	}
	if e.Term != nil && !req.AcceptsTerm(e.Term.Name) {
		return ConstraintTerm
	}
	if !optional(e.License, req.License) {
		return ConstraintLicense
	}
	if failed := checkSoftware(e, req); failed != "" {
		return failed
	}
	if e.InitialCost != nil && req.InitialCostCeiling != nil && e.InitialCost.GreaterThan(*req.InitialCostCeiling) {
		return ConstraintInitialCost
	}

	switch req.Category {
	case types.CategoryStorage:
		return checkStorage(e.Storage, req)
	case types.CategorySupport:
		return ""
	}

	if failed := checkType(e.Type, req); failed != "" {
		return failed
	}
	if e.Kind == types.KindDynamic {
		return checkDynamic(e.Dynamic, req)
	}
	return checkFixed(e.Type, req)
}

// optional accepts an unset entry value or an unset requested value
func optional(offered, requested string) bool {
	return offered == "" || requested == "" || strings.EqualFold(offered, requested)
}

func checkSoftware(e *types.Entry, req *types.Requirement) string {
	switch req.Category {
	case types.CategoryInstance, types.CategoryContainer:
		if !optional(e.OS, req.OS) {
			return ConstraintOS
		}
		if !optional(e.Software, req.Software) {
			return ConstraintSoftware
		}
	case types.CategoryDatabase:
		if !strings.EqualFold(e.Engine, req.Engine) {
			return ConstraintEngine
		}
		if !optional(e.Edition, req.Edition) {
			return ConstraintEdition
		}
	}
	return ""
}

func checkType(t *types.InstanceType, req *types.Requirement) string {
	if req.Processor != "" && !strings.Contains(strings.ToLower(t.Processor), strings.ToLower(req.Processor)) {
		return ConstraintProcessor
	}
	if req.Physical != nil && (t.Physical == nil || *t.Physical != *req.Physical) {
		return ConstraintPhysical
	}
	if req.Constant != nil && (t.Constant == nil || *t.Constant != *req.Constant) {
		return ConstraintConstant
	}
	if req.AutoScale && !t.AutoScale {
		return ConstraintAutoScale
	}
	rc := req.RateClasses
	if !t.Ratings.CPU.Satisfies(rc.CPU) || !t.Ratings.RAM.Satisfies(rc.RAM) ||
		!t.Ratings.Network.Satisfies(rc.Network) || !t.Ratings.Storage.Satisfies(rc.Storage) {
		return ConstraintRating
	}
	return ""
}

func checkFixed(t *types.InstanceType, req *types.Requirement) string {
	if t.CPU < req.EffectiveCPU() {
		return ConstraintCPU
	}
	if t.RAM < req.EffectiveRAM() {
		return ConstraintRAM
	}
	if t.GPU < req.GPU {
		return ConstraintGPU
	}
	return ""
}

func checkDynamic(d *types.DynamicRates, req *types.Requirement) string {
	cpu := req.EffectiveCPU()
	ram := req.EffectiveRAM()

	if d.MaxCPU != nil && *d.MaxCPU < cpu {
		return ConstraintCPU
	}
	if d.MaxRAM != nil && *d.MaxRAM < ram {
		return ConstraintRAM
	}
	if req.GPU > 0 {
		if !d.HasGPU() {
			return ConstraintGPU
		}
		if d.MaxGPU != nil && *d.MaxGPU < req.GPU {
			return ConstraintGPU
		}
	}
	if d.MaxRAMRatio > 0 {
		limit := decimal.NewFromFloat(max(d.MinCPU, cpu)).Mul(decimal.NewFromFloat(d.MaxRAMRatio))
		if decimal.NewFromFloat(ram).GreaterThan(limit) {
			return ConstraintRAMRatio
		}
	}
	return ""
}

func checkStorage(s *types.StorageRates, req *types.Requirement) string {
	if s.MaximalSize != nil && *s.MaximalSize < req.Size {
		return ConstraintSize
	}
	if !s.Latency.Satisfies(req.Latency) {
		return ConstraintLatency
	}
	if req.Optimized != "" && !strings.EqualFold(s.Optimized, req.Optimized) {
		return ConstraintOptimized
	}
	return ""
}

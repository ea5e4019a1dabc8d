// Package types defines the domain types shared by every layer of the
// quote engine: catalog entries, requirements, resolved prices and the
// usage/budget profiles. It contains validation but no pricing logic.
package types

import "strings"

// Category is the resource category a catalog entry prices
type Category string

const (
	CategoryInstance  Category = "instance"
	CategoryDatabase  Category = "database"
	CategoryContainer Category = "container"
	CategoryFunction  Category = "function"
	CategoryStorage   Category = "storage"
	CategorySupport   Category = "support"
)

// Categories lists every category in recompute order
var Categories = []Category{
	CategoryInstance,
	CategoryDatabase,
	CategoryContainer,
	CategoryFunction,
	CategoryStorage,
	CategorySupport,
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryInstance, CategoryDatabase, CategoryContainer, CategoryFunction, CategoryStorage, CategorySupport:
		return true
	default:
		return false
	}
}

// IsCompute reports whether the category is priced by CPU/RAM shape
func (c Category) IsCompute() bool {
	switch c {
	case CategoryInstance, CategoryDatabase, CategoryContainer, CategoryFunction:
		return true
	default:
		return false
	}
}

// HasGPU reports whether the category exposes a GPU axis
func (c Category) HasGPU() bool {
	switch c {
	case CategoryInstance, CategoryContainer, CategoryFunction:
		return true
	default:
		return false
	}
}

// PriceKind tags a catalog entry as fixed or dynamic
type PriceKind int

const (
	// KindFixed is a flat monthly price for a named type and term
	KindFixed PriceKind = iota

	// KindDynamic is a custom type priced by CPU/GPU/RAM increments
	KindDynamic
)

// String returns the kind name
func (k PriceKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Rating is an ordered quality class, zero meaning "no constraint"
type Rating int

const (
	RatingAny Rating = iota
	RatingWorst
	RatingLow
	RatingMedium
	RatingGood
	RatingBest
)

var ratingNames = map[Rating]string{
	RatingAny:    "",
	RatingWorst:  "worst",
	RatingLow:    "low",
	RatingMedium: "medium",
	RatingGood:   "good",
	RatingBest:   "best",
}

// String returns the rating name
func (r Rating) String() string {
	return ratingNames[r]
}

// Satisfies reports whether an offered rating meets a requested one
func (r Rating) Satisfies(requested Rating) bool {
	return requested == RatingAny || r >= requested
}

// ParseRating converts a rating name, case-insensitively
func ParseRating(s string) (Rating, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range ratingNames {
		if name == s {
			return r, true
		}
	}
	return RatingAny, false
}

// Ratings holds the per-axis rate classes of a type or requirement
type Ratings struct {
	CPU     Rating `json:"cpu,omitempty"`
	RAM     Rating `json:"ram,omitempty"`
	Network Rating `json:"network,omitempty"`
	Storage Rating `json:"storage,omitempty"`
}

// Reservation selects which requested value a scaling axis uses
type Reservation string

const (
	// ReservationReserved uses the plain requested value
	ReservationReserved Reservation = "reserved"

	// ReservationMax uses the maximum observed value when known
	ReservationMax Reservation = "max"
)

// IsValid checks the reservation mode, empty meaning the default
func (r Reservation) IsValid() bool {
	return r == "" || r == ReservationReserved || r == ReservationMax
}

// Optimizer selects the ranking metric
type Optimizer string

const (
	OptimizerCost Optimizer = "cost"
	OptimizerCO2  Optimizer = "co2"
)

// IsValid checks the optimizer mode, empty meaning the default
func (o Optimizer) IsValid() bool {
	return o == "" || o == OptimizerCost || o == OptimizerCO2
}

// Package api - API types for price lookup and quote recompute
// Quote documents reference usages and budgets by name.
package api

import (
	"github.com/shopspring/decimal"

	"cloud-quote/core/output"
	"cloud-quote/core/types"
)

// LookupRequest is the input to POST /api/v1/lookup
type LookupRequest struct {
	Requirement types.Requirement `json:"requirement"`

	// Covered is the monthly cost a support plan is priced against
	Covered decimal.Decimal `json:"covered"`

	// Strict turns an empty result into a 404
	Strict bool `json:"strict,omitempty"`
}

// LookupResponse is the output of POST /api/v1/lookup
type LookupResponse struct {
	output.LookupDocument

	Metadata *ResponseMetadata `json:"metadata"`
}

// QuoteDocument is a quote as submitted over HTTP
type QuoteDocument struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	License  string `json:"license,omitempty"`

	// Usage and Budget are profile names
	Usage  string `json:"usage,omitempty"`
	Budget string `json:"budget,omitempty"`

	Reservation  types.Reservation `json:"reservation,omitempty"`
	Optimizer    types.Optimizer   `json:"optimizer,omitempty"`
	TermPrefixes []string          `json:"term_prefixes,omitempty"`
	CurrencyRate decimal.Decimal   `json:"currency_rate"`

	Resources []ResourceDocument `json:"resources"`
}

// ResourceDocument is one resource of a quote document.
// The requirement's usage and budget names override the quote's.
type ResourceDocument struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Requirement types.Requirement `json:"requirement"`

	// MinQuantity defaults to 1
	MinQuantity *int `json:"min_quantity,omitempty"`
	MaxQuantity *int `json:"max_quantity,omitempty"`
}

// QuoteResponse is the output of a recompute
type QuoteResponse struct {
	*types.QuoteResult

	Metadata *ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains audit/reproducibility metadata
type ResponseMetadata struct {
	RequestID     string `json:"request_id"`
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Field     string                 `json:"field,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

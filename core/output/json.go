package output

import (
	"encoding/json"
	"io"

	"cloud-quote/core/engine"
	"cloud-quote/core/types"
)

// JSONFormatter writes indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// LookupDocument is the JSON shape of a lookup result
type LookupDocument struct {
	Price      *types.ResolvedPrice  `json:"price"`
	Candidates []types.ResolvedPrice `json:"candidates"`
	Rejections []types.Rejection     `json:"rejections,omitempty"`
	Usage      types.Usage           `json:"usage"`
	Rates      types.UsageRates      `json:"rates"`
}

// NewLookupDocument converts a lookup result to its JSON shape
func NewLookupDocument(result *engine.LookupResult) LookupDocument {
	candidates := result.Candidates
	if candidates == nil {
		candidates = []types.ResolvedPrice{}
	}
	return LookupDocument{
		Price:      result.Price,
		Candidates: candidates,
		Rejections: result.Rejections,
		Usage:      result.Usage,
		Rates:      result.Rates,
	}
}

// RenderLookup writes the lookup document
func (f *JSONFormatter) RenderLookup(w io.Writer, result *engine.LookupResult) error {
	return encode(w, NewLookupDocument(result))
}

// RenderQuote writes the quote result
func (f *JSONFormatter) RenderQuote(w io.Writer, result *types.QuoteResult) error {
	return encode(w, result)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

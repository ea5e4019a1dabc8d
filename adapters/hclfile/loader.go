// Package hclfile loads catalogs and quotes from HCL files.
//
// Money attributes are expressions evaluated with hours_per_month and the
// ceil, floor, max and min functions in scope, so hourly list prices can be
// written as-is:
//
//	price "m5-large-od" {
//	  category = "instance"
//	  type     = "m5.large"
//	  term     = "on-demand"
//	  cost     = 0.096 * hours_per_month
//	}
package hclfile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"cloud-quote/internal/errors"
)

// HoursPerMonth is the month length used to turn hourly prices into monthly ones
const HoursPerMonth = 730

// moneyPlaces bounds the fractional digits kept from an evaluated amount
const moneyPlaces = 12

// Loader parses catalog and quote files
type Loader struct {
	parser  *hclparse.Parser
	evalCtx *hcl.EvalContext
}

// NewLoader creates a new loader
func NewLoader() *Loader {
	return &Loader{
		parser: hclparse.NewParser(),
		evalCtx: &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"hours_per_month": cty.NumberIntVal(HoursPerMonth),
			},
			Functions: map[string]function.Function{
				"ceil":  stdlib.CeilFunc,
				"floor": stdlib.FloorFunc,
				"max":   stdlib.MaxFunc,
				"min":   stdlib.MinFunc,
			},
		},
	}
}

// files returns the .hcl files of a path, sorted, or the path itself
func files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNotFound, "cannot read "+path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var result []string
	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if p != path && strings.HasPrefix(fi.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".hcl") {
			result = append(result, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "failed to walk "+path, err)
	}
	sort.Strings(result)
	return result, nil
}

// parse parses and decodes one file into target
func (l *Loader) parse(src []byte, filename string, target interface{}) error {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return errors.Parsing("invalid HCL in "+filename, diags)
	}
	if diags := gohcl.DecodeBody(file.Body, l.evalCtx, target); diags.HasErrors() {
		return errors.Parsing("cannot decode "+filename, diags)
	}
	return nil
}

// amount evaluates a money expression, zero when absent
func (l *Loader) amount(expr hcl.Expression, name string) (decimal.Decimal, error) {
	v, err := l.optionalAmount(expr, name)
	if err != nil || v == nil {
		return decimal.Zero, err
	}
	return *v, nil
}

// optionalAmount evaluates a money expression, nil when absent
func (l *Loader) optionalAmount(expr hcl.Expression, name string) (*decimal.Decimal, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(l.evalCtx)
	if diags.HasErrors() {
		return nil, errors.Parsing("cannot evaluate "+name, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsKnown() || val.Type() != cty.Number {
		return nil, errors.Newf(errors.TypeParsing, "%s must be a number", name)
	}

	d, err := decimal.NewFromString(val.AsBigFloat().Text('f', moneyPlaces+4))
	if err != nil {
		return nil, errors.Parsing("cannot convert "+name, err)
	}
	d = d.Round(moneyPlaces)
	return &d, nil
}

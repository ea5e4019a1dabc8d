package hclfile

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// QuoteFile is a decoded quote with the profiles it declares
type QuoteFile struct {
	Quote   *types.Quote
	Usages  []*types.Usage
	Budgets []*types.Budget
}

// Profiles resolves usage and budget names a quote file does not declare
type Profiles interface {
	UsageByName(name string) (*types.Usage, error)
	BudgetByName(name string) (*types.Budget, error)
}

// LoadQuote loads a quote file
func (l *Loader) LoadQuote(path string, profiles Profiles) (*QuoteFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNotFound, "cannot read "+path, err)
	}
	return l.ParseQuote(src, path, profiles)
}

// ParseQuote decodes a quote file. Resources keep their file order.
// Names missing from the file are looked up in profiles when it is not nil.
func (l *Loader) ParseQuote(src []byte, filename string, profiles Profiles) (*QuoteFile, error) {
	var file quoteFile
	if err := l.parse(src, filename, &file); err != nil {
		return nil, err
	}

	result := &QuoteFile{}
	usages := make(map[string]*types.Usage)
	for _, u := range file.Usages {
		usage := &types.Usage{ID: uuid.NewString(), Name: u.Name, RatePercent: u.Rate, DurationMonths: u.Duration}
		if err := usage.Validate(); err != nil {
			return nil, err
		}
		usages[u.Name] = usage
		result.Usages = append(result.Usages, usage)
	}

	budgets := make(map[string]*types.Budget)
	for _, b := range file.Budgets {
		ceiling, err := l.optionalAmount(b.InitialCost, "budget "+b.Name)
		if err != nil {
			return nil, err
		}
		budget := &types.Budget{ID: uuid.NewString(), Name: b.Name, InitialCostCeiling: ceiling}
		if err := budget.Validate(); err != nil {
			return nil, err
		}
		budgets[b.Name] = budget
		result.Budgets = append(result.Budgets, budget)
	}

	findUsage := func(name string) (*types.Usage, error) {
		if name == "" {
			return nil, nil
		}
		if u, ok := usages[name]; ok {
			return u, nil
		}
		if profiles != nil {
			return profiles.UsageByName(name)
		}
		return nil, errors.NotFound("usage", name)
	}
	findBudget := func(name string) (*types.Budget, error) {
		if name == "" {
			return nil, nil
		}
		if b, ok := budgets[name]; ok {
			return b, nil
		}
		if profiles != nil {
			return profiles.BudgetByName(name)
		}
		return nil, errors.NotFound("budget", name)
	}

	q := file.Quote
	rate, err := l.amount(q.CurrencyRate, "currency_rate")
	if err != nil {
		return nil, err
	}
	quote := &types.Quote{
		ID:           uuid.NewString(),
		Name:         q.Name,
		Location:     q.Location,
		License:      q.License,
		Reservation:  types.Reservation(q.Reservation),
		Optimizer:    types.Optimizer(q.Optimizer),
		TermPrefixes: q.TermPrefixes,
		CurrencyRate: rate,
	}
	if quote.Usage, err = findUsage(q.Usage); err != nil {
		return nil, err
	}
	if quote.Budget, err = findBudget(q.Budget); err != nil {
		return nil, err
	}

	for i, r := range file.Resources {
		resource, err := resourceOf(&r, i)
		if err != nil {
			return nil, err
		}
		if resource.Usage, err = findUsage(r.Usage); err != nil {
			return nil, err
		}
		if resource.Budget, err = findBudget(r.Budget); err != nil {
			return nil, err
		}
		quote.Resources = append(quote.Resources, resource)
	}

	result.Quote = quote
	return result, nil
}

func resourceOf(r *resourceBlock, order int) (*types.Resource, error) {
	ratings, err := parseRatings(r.RateClasses)
	if err != nil {
		return nil, errors.Parsing("resource "+r.Name, err)
	}
	latency, ok := types.ParseRating(r.Latency)
	if !ok {
		return nil, errors.Validationf("latency", "unknown latency %q", r.Latency).WithContext("resource", r.Name)
	}

	minQuantity := 1
	if r.MinQuantity != nil {
		minQuantity = *r.MinQuantity
	}

	return &types.Resource{
		ID:          uuid.NewString(),
		Name:        r.Name,
		MinQuantity: minQuantity,
		MaxQuantity: r.MaxQuantity,
		Order:       order,
		Requirement: types.Requirement{
			Category:        types.Category(strings.ToLower(r.Category)),
			CPU:             r.CPU,
			CPUMax:          r.CPUMax,
			RAM:             r.RAM,
			RAMMax:          r.RAMMax,
			GPU:             r.GPU,
			OS:              r.OS,
			Engine:          r.Engine,
			Edition:         r.Edition,
			License:         r.License,
			Software:        r.Software,
			Processor:       r.Processor,
			Physical:        r.Physical,
			Constant:        r.Constant,
			AutoScale:       r.AutoScale,
			Location:        r.Location,
			TermPrefixes:    r.TermPrefixes,
			RateClasses:     ratings,
			Reservation:     types.Reservation(r.Reservation),
			Optimizer:       types.Optimizer(r.Optimizer),
			UsageName:       r.Usage,
			BudgetName:      r.Budget,
			Size:            r.Size,
			Latency:         latency,
			Optimized:       r.Optimized,
			Requests:        r.Requests,
			RequestDuration: r.RequestDuration,
			Concurrency:     r.Concurrency,
		},
	}, nil
}

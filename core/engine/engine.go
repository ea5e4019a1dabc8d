// Package engine provides the price resolution pipeline.
// CLI and HTTP are thin wrappers around this engine.
//
// A lookup runs: usage resolution, coarse catalog fetch, constraint match,
// pricing of every candidate, ranking. A quote recompute runs a lookup per
// resource, expands floating costs, then consumes the shared budgets.
package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloud-quote/core/calculator"
	"cloud-quote/core/catalog"
	"cloud-quote/core/matcher"
	"cloud-quote/core/optimizer"
	"cloud-quote/core/types"
	"cloud-quote/core/usage"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// Engine resolves prices against a catalog source
type Engine struct {
	source   catalog.Source
	resolver *usage.Resolver
	config   Config
	logger   *zap.Logger
}

// Config configures the engine defaults
type Config struct {
	// DefaultOptimizer applies when neither resource nor quote sets one
	DefaultOptimizer types.Optimizer

	// DefaultReservation applies when neither resource nor quote sets one
	DefaultReservation types.Reservation

	// TermPrefixes apply when neither resource nor quote sets any
	TermPrefixes []string

	// DefaultRatePercent and DefaultDurationMonths are the last-resort usage
	DefaultRatePercent    int
	DefaultDurationMonths int

	// Parallel bounds the categories resolved concurrently, 0 for no bound
	Parallel int
}

// DefaultConfig returns full-time, cost-optimized defaults
func DefaultConfig() Config {
	return Config{
		DefaultOptimizer:      types.OptimizerCost,
		DefaultReservation:    types.ReservationReserved,
		DefaultRatePercent:    100,
		DefaultDurationMonths: 1,
		Parallel:              4,
	}
}

// New creates an engine over a catalog source
func New(source catalog.Source, config Config) *Engine {
	return &Engine{
		source:   source,
		resolver: usage.NewResolver(config.DefaultRatePercent, config.DefaultDurationMonths),
		config:   config,
		logger:   logging.Named("engine"),
	}
}

// LookupRequest is the input of a single price lookup
type LookupRequest struct {
	Requirement types.Requirement

	// Usage overrides QuoteUsage when set
	Usage      *types.Usage
	QuoteUsage *types.Usage

	// Budget supplies the initial cost ceiling, nil for none
	Budget *types.Budget

	// Covered is the monthly cost a support plan is priced against
	Covered decimal.Decimal

	// Strict turns an empty result into a no-match error
	Strict bool
}

// LookupResult is the output of a single price lookup
type LookupResult struct {
	// Price is the best candidate, nil when nothing matched
	Price *types.ResolvedPrice

	// Candidates are every matched price in rank order
	Candidates []types.ResolvedPrice

	// Rejections explain the dropped entries
	Rejections []types.Rejection

	// Usage is the profile the rates come from
	Usage types.Usage
	Rates types.UsageRates
}

// Lookup resolves the best price of one requirement
func (e *Engine) Lookup(ctx context.Context, req *LookupRequest) (*LookupResult, error) {
	requirement := req.Requirement
	e.applyDefaults(&requirement)
	if req.Budget != nil {
		requirement.InitialCostCeiling = req.Budget.InitialCostCeiling
	}

	winner := e.resolver.Winner(req.Usage, req.QuoteUsage)
	if err := winner.Validate(); err != nil {
		var typed *errors.Error
		if errors.As(err, &typed) {
			return nil, typed.WithContext("usage", winner.Name)
		}
		return nil, err
	}
	result := &LookupResult{
		Usage: winner,
		Rates: usage.Rates(winner),
	}

	if err := requirement.Validate(); err != nil {
		return nil, err
	}

	entries, err := e.source.Entries(ctx, catalog.FilterFor(&requirement))
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "failed to fetch catalog entries", err)
	}

	matched, err := matcher.Match(entries, &requirement)
	if err != nil {
		return nil, err
	}
	result.Rejections = matched.Rejections

	prices := make([]types.ResolvedPrice, 0, len(matched.Candidates))
	for _, entry := range matched.Candidates {
		if entry.Category == types.CategorySupport {
			prices = append(prices, calculator.Support(entry, req.Covered, result.Rates))
			continue
		}
		prices = append(prices, calculator.Price(entry, &requirement, result.Rates))
	}

	result.Candidates = optimizer.Sort(prices, requirement.Optimizer)
	if len(result.Candidates) > 0 {
		result.Price = &result.Candidates[0]
	}

	e.logger.Debug("lookup resolved",
		logging.Category(requirement.Category.String()),
		zap.Int("fetched", len(entries)),
		zap.Int("matched", len(matched.Candidates)),
		zap.Int("rejected", len(matched.Rejections)),
	)

	if result.Price == nil {
		if req.Strict {
			return result, errors.NoMatch(requirement.Category.String()).WithContext("rejections", len(result.Rejections))
		}
		return result, nil
	}

	e.logger.Debug("lookup winner",
		logging.Entry(result.Price.Entry.ID),
		zap.String("total_cost", result.Price.TotalCost.String()),
		zap.String("monthly_cost", result.Price.MonthlyCost.String()),
	)
	return result, nil
}

// applyDefaults fills the unset modes of a requirement from the engine config
func (e *Engine) applyDefaults(req *types.Requirement) {
	if req.Optimizer == "" {
		req.Optimizer = e.config.DefaultOptimizer
	}
	if req.Reservation == "" {
		req.Reservation = e.config.DefaultReservation
	}
	if len(req.TermPrefixes) == 0 {
		req.TermPrefixes = e.config.TermPrefixes
	}
}

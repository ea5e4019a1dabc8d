package engine

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cloud-quote/core/budget"
	"cloud-quote/core/floating"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// Recompute resolves every resource of a quote.
//
// Categories are resolved concurrently, each goroutine writing only the
// slots of its own resources. Support plans are priced last against the
// monthly cost of everything else. Budgets are consumed single-threaded
// once every price is known, each pass on a private copy of its budget. A
// resource that would overflow its budget is first re-resolved against what
// is left of it, and flagged only when no offer fits.
// The quote is only read, so callers may share its profiles.
func (e *Engine) Recompute(ctx context.Context, quote *types.Quote) (*types.QuoteResult, error) {
	for _, r := range quote.Resources {
		if err := r.ValidateQuantity(); err != nil {
			return nil, errors.Wrapf(errors.TypeValidation, err, "resource %s", r.Name).
				WithContext("field", fieldOf(err)).
				WithContext("resource", r.Name)
		}
	}

	results := make([]*types.ResourceResult, len(quote.Resources))
	byCategory := make(map[types.Category][]int)
	var support []int
	for i, r := range quote.Resources {
		results[i] = &types.ResourceResult{Resource: r}
		if r.Requirement.Category == types.CategorySupport {
			support = append(support, i)
			continue
		}
		byCategory[r.Requirement.Category] = append(byCategory[r.Requirement.Category], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.config.Parallel > 0 {
		g.SetLimit(e.config.Parallel)
	}
	for _, category := range types.Categories {
		indexes, ok := byCategory[category]
		if !ok {
			continue
		}
		g.Go(func() error {
			for _, i := range indexes {
				if err := e.resolveResource(gctx, quote, results[i], decimal.Zero, budgetOf(quote, results[i].Resource)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := e.fitBudgets(ctx, quote, results); err != nil {
		return nil, err
	}

	covered := decimal.Zero
	for _, r := range results {
		if r.Resource.Requirement.Category != types.CategorySupport {
			covered = covered.Add(r.Floating.Min)
		}
	}
	for _, i := range support {
		if err := e.resolveResource(ctx, quote, results[i], covered, budgetOf(quote, results[i].Resource)); err != nil {
			return nil, err
		}
	}

	budgets := e.consumeBudgets(quote, results)

	costs := make([]types.FloatingCost, len(results))
	for i, r := range results {
		costs[i] = r.Floating
	}

	e.logger.Info("quote recomputed",
		logging.Quote(quote.ID),
		zap.Int("resources", len(results)),
		zap.Int("budgets", len(budgets)),
	)

	return &types.QuoteResult{
		Quote:     quote,
		QuoteID:   quote.ID,
		Resources: results,
		Total:     floating.Sum(costs...).Scale(quote.Rate()),
		Budgets:   budgets,
	}, nil
}

// resolveResource looks up the price of one resource under the given budget
// ceiling and expands its range
func (e *Engine) resolveResource(ctx context.Context, quote *types.Quote, result *types.ResourceResult, covered decimal.Decimal, b *types.Budget) error {
	r := result.Resource
	req := r.Requirement
	if req.Location == "" {
		req.Location = quote.Location
	}
	if req.License == "" {
		req.License = quote.License
	}
	if req.Reservation == "" {
		req.Reservation = quote.Reservation
	}
	if req.Optimizer == "" {
		req.Optimizer = quote.Optimizer
	}
	if len(req.TermPrefixes) == 0 {
		req.TermPrefixes = quote.TermPrefixes
	}

	lookup, err := e.Lookup(ctx, &LookupRequest{
		Requirement: req,
		Usage:       r.Usage,
		QuoteUsage:  quote.Usage,
		Budget:      b,
		Covered:     covered,
	})
	if err != nil {
		var typed *errors.Error
		if errors.As(err, &typed) {
			return typed.WithContext("resource", r.Name)
		}
		return err
	}

	result.Price = lookup.Price
	result.Rejections = lookup.Rejections
	result.Floating = floating.Compute(lookup.Price, r.MinQuantity, r.MaxQuantity)

	if lookup.Price == nil {
		e.logger.Warn("no eligible offer", logging.Resource(r.Name), zap.Int("rejected", len(lookup.Rejections)))
	}
	return nil
}

// fitBudgets walks the priced resources in consumption order and re-resolves
// each one that would overflow its budget against what is left of it. A
// resource keeps its first offer when no cheaper upfront offer fits. The
// passes here only plan; consumeBudgets runs the authoritative ones.
func (e *Engine) fitBudgets(ctx context.Context, quote *types.Quote, results []*types.ResourceResult) error {
	passes := make(map[*types.Budget]*budget.Pass)
	for _, r := range inOrder(results) {
		b := budgetOf(quote, r.Resource)
		if b == nil || b.InitialCostCeiling == nil || r.Price == nil || r.Resource.Requirement.Category == types.CategorySupport {
			continue
		}
		pass, ok := passes[b]
		if !ok {
			pass = budget.NewPass(b.Clone())
			passes[b] = pass
		}
		decision := pass.Consume(r.Resource.ID, r.Floating.Initial)
		if decision.Accepted {
			continue
		}

		fitted, err := e.fitResource(ctx, quote, r, b.Name, *decision.Remaining)
		if err != nil {
			return err
		}
		if fitted {
			pass.Consume(r.Resource.ID, r.Floating.Initial)
		}
	}
	return nil
}

// fitResource looks for the best offer whose upfront cost over the minimal
// quantity fits the remaining budget, replacing the resource price on success
func (e *Engine) fitResource(ctx context.Context, quote *types.Quote, r *types.ResourceResult, name string, remaining decimal.Decimal) (bool, error) {
	perUnit := remaining
	if r.Resource.MinQuantity > 1 {
		perUnit = remaining.Div(decimal.NewFromInt(int64(r.Resource.MinQuantity)))
	}

	candidate := &types.ResourceResult{Resource: r.Resource}
	if err := e.resolveResource(ctx, quote, candidate, decimal.Zero, &types.Budget{Name: name, InitialCostCeiling: &perUnit}); err != nil {
		return false, err
	}
	if candidate.Price == nil || candidate.Floating.Initial.GreaterThan(remaining) {
		return false, nil
	}

	e.logger.Debug("offer refitted to remaining budget",
		logging.Resource(r.Resource.Name),
		logging.Budget(name),
		zap.String("from", r.Price.Entry.ID),
		zap.String("to", candidate.Price.Entry.ID),
	)
	r.Price = candidate.Price
	r.Floating = candidate.Floating
	r.Rejections = candidate.Rejections
	return true, nil
}

// inOrder returns the results sorted by consumption order, ties by position
func inOrder(results []*types.ResourceResult) []*types.ResourceResult {
	ordered := make([]*types.ResourceResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Resource.Order < ordered[j].Resource.Order
	})
	return ordered
}

// consumeBudgets runs one pass per budget over its resources in order and
// returns the budget copies the passes wrote
func (e *Engine) consumeBudgets(quote *types.Quote, results []*types.ResourceResult) []*types.Budget {
	var budgets []*types.Budget
	var pending []*budget.Pass
	passes := make(map[*types.Budget]*budget.Pass)
	for _, r := range inOrder(results) {
		b := budgetOf(quote, r.Resource)
		if b == nil {
			continue
		}
		pass, ok := passes[b]
		if !ok {
			own := b.Clone()
			pass = budget.NewPass(own)
			passes[b] = pass
			budgets = append(budgets, own)
			pending = append(pending, pass)
		}

		decision := pass.Consume(r.Resource.ID, r.Floating.Initial)
		if !decision.Accepted {
			r.OverBudget = true
			r.Err = decision.Err
			r.Error = decision.Err.Error()
			e.logger.Warn("budget overflow",
				logging.Resource(r.Resource.Name),
				logging.Budget(b.Name),
				zap.String("initial_cost", r.Floating.Initial.String()),
			)
		}
	}

	for _, pass := range pending {
		pass.Finish()
	}
	return budgets
}

func budgetOf(quote *types.Quote, r *types.Resource) *types.Budget {
	if r.Budget != nil {
		return r.Budget
	}
	return quote.Budget
}

func fieldOf(err error) string {
	var typed *errors.Error
	if errors.As(err, &typed) {
		return typed.Field()
	}
	return ""
}

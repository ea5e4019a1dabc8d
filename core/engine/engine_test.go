package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/catalog"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

func init() {
	logging.UseNop()
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	onDemand := &types.Term{ID: "od", Name: "on-demand"}
	reserved := &types.Term{ID: "1y", Name: "1y-reserved", Period: 12}

	entries := []*types.Entry{
		{
			ID: "inst-7", Category: types.CategoryInstance, Kind: types.KindFixed, Term: onDemand,
			Type: &types.InstanceType{ID: 7, Code: "m4.large", CPU: 2, RAM: 4},
			Cost: d("10"), CO2: d("1"),
		},
		{
			ID: "inst-12", Category: types.CategoryInstance, Kind: types.KindFixed, Term: onDemand,
			Type: &types.InstanceType{ID: 12, Code: "m5.large", CPU: 2, RAM: 4},
			Cost: d("10"), CO2: d("1"),
		},
		{
			ID: "inst-big", Category: types.CategoryInstance, Kind: types.KindFixed, Term: onDemand,
			Type: &types.InstanceType{ID: 3, Code: "m5.2xlarge", CPU: 8, RAM: 32},
			Cost: d("50"), CO2: d("4"),
		},
		{
			ID: "inst-upfront", Category: types.CategoryInstance, Kind: types.KindFixed, Term: reserved,
			Type: &types.InstanceType{ID: 20, Code: "m6.large", CPU: 2, RAM: 4},
			Cost: d("5"), CostPeriod: d("60"), InitialCost: ptr(d("300")), CO2: d("1"), CO2Period: d("12"),
		},
		{
			ID: "fargate", Category: types.CategoryContainer, Kind: types.KindDynamic, Term: onDemand,
			Type: &types.InstanceType{ID: 1, Code: "custom"},
			Dynamic: &types.DynamicRates{
				IncrementCPU: 0.25, IncrementRAM: 0.5, MaxCPU: ptr(16.0),
				CostCPU: d("20"), CostRAM: d("2"),
			},
		},
		{
			ID: "gp3", Category: types.CategoryStorage, Kind: types.KindFixed,
			Storage: &types.StorageRates{CostGB: d("0.1")},
		},
		{
			ID: "business", Category: types.CategorySupport, Kind: types.KindFixed,
			Support: &types.SupportRates{RatePercent: d("10"), MinMonthly: d("5")},
		},
	}

	c := catalog.NewCatalog()
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			t.Fatalf("Register(%s): %v", e.ID, err)
		}
	}
	return c
}

func TestLookupTieBreakOnTypeID(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	result, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 2, RAM: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price == nil || result.Price.Entry.ID != "inst-12" {
		t.Fatalf("winner = %v, want inst-12", result.Price)
	}
	if len(result.Candidates) != 4 {
		t.Errorf("expected 4 candidates, got %d", len(result.Candidates))
	}
}

func TestLookupCommittedTermWinsOverDuration(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	result, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 2, RAM: 4},
		QuoteUsage:  &types.Usage{Name: "year", RatePercent: 100, DurationMonths: 12},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price.Entry.ID != "inst-upfront" {
		t.Errorf("winner = %s, want inst-upfront", result.Price.Entry.ID)
	}
	if !result.Price.TotalCost.Equal(d("60")) {
		t.Errorf("total = %s, want 60", result.Price.TotalCost)
	}
}

func TestLookupUsageOverride(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	result, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 2, RAM: 4, TermPrefixes: []string{"on-demand"}},
		Usage:       &types.Usage{Name: "half", RatePercent: 50, DurationMonths: 12},
		QuoteUsage:  &types.Usage{Name: "full", RatePercent: 100, DurationMonths: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Usage.Name != "half" {
		t.Errorf("usage = %s, want half", result.Usage.Name)
	}
	if !result.Price.TotalCost.Equal(d("60")) || !result.Price.MonthlyCost.Equal(d("5")) {
		t.Errorf("price = %s/%s, want 60/5", result.Price.TotalCost, result.Price.MonthlyCost)
	}
}

func TestLookupDynamic(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	result, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryContainer, CPU: 0.3, RAM: 1.1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Price.MonthlyCost.Equal(d("13")) {
		t.Errorf("monthly = %s, want 13", result.Price.MonthlyCost)
	}
}

func TestLookupBudgetCeiling(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	result, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 2, RAM: 4},
		QuoteUsage:  &types.Usage{Name: "year", RatePercent: 100, DurationMonths: 12},
		Budget:      &types.Budget{Name: "tight", InitialCostCeiling: ptr(d("100"))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Price.Entry.ID == "inst-upfront" {
		t.Error("entry over the initial cost ceiling should not be selected")
	}
	found := false
	for _, r := range result.Rejections {
		if r.EntryID == "inst-upfront" && r.Constraint == "initial_cost" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected initial_cost rejection, got %v", result.Rejections)
	}
}

func TestLookupNoMatch(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())
	req := &LookupRequest{Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 64}}

	result, err := e.Lookup(context.Background(), req)
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if result.Price != nil || len(result.Rejections) != 4 {
		t.Errorf("expected no price and 4 rejections, got %v / %v", result.Price, result.Rejections)
	}

	req.Strict = true
	if _, err := e.Lookup(context.Background(), req); !errors.IsType(err, errors.TypeNoMatch) {
		t.Errorf("expected no match error, got %v", err)
	}
}

func TestLookupInvalidRequirement(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())
	_, err := e.Lookup(context.Background(), &LookupRequest{
		Requirement: types.Requirement{Category: types.CategoryStorage},
	})
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLookupDeterministic(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())
	req := &LookupRequest{Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 1, RAM: 1}}

	first, err := e.Lookup(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := e.Lookup(context.Background(), req)
		if again.Price.Entry.ID != first.Price.Entry.ID || !again.Price.TotalCost.Equal(first.Price.TotalCost) {
			t.Fatalf("lookup is not deterministic: %s vs %s", again.Price.Entry.ID, first.Price.Entry.ID)
		}
	}
}

func TestLookupRejectsInvalidUsage(t *testing.T) {
	e := New(testCatalog(t), DefaultConfig())

	tests := []struct {
		name      string
		usage     types.Usage
		wantField string
	}{
		{"zero rate", types.Usage{Name: "idle", RatePercent: 0, DurationMonths: 12}, "rate"},
		{"rate above full time", types.Usage{Name: "over", RatePercent: 101, DurationMonths: 12}, "rate"},
		{"zero duration", types.Usage{Name: "none", RatePercent: 100, DurationMonths: 0}, "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := tt.usage
			_, err := e.Lookup(context.Background(), &LookupRequest{
				Requirement: types.Requirement{Category: types.CategoryInstance, CPU: 2, RAM: 4},
				QuoteUsage:  &usage,
			})
			var typed *errors.Error
			if !errors.As(err, &typed) || typed.Type != errors.TypeValidation || typed.Field() != tt.wantField {
				t.Fatalf("expected %s validation error, got %v", tt.wantField, err)
			}
		})
	}
}

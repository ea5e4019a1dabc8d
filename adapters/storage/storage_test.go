package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

func init() {
	logging.UseNop()
}

func snapshotAt(quoteID string, minCost int64, entry string, at time.Time) *Snapshot {
	return &Snapshot{
		QuoteID:   quoteID,
		Total:     types.FloatingCost{Min: decimal.NewFromInt(minCost), Max: decimal.NewFromInt(minCost * 2)},
		Lines:     []Line{{Resource: "web", EntryID: entry, Min: decimal.NewFromInt(minCost)}},
		CreatedAt: at,
	}
}

func TestStores(t *testing.T) {
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	stores := map[string]Store{"memory": NewMemoryStore(), "file": file}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

			first := snapshotAt("q1", 100, "inst-7", base)
			second := snapshotAt("q1", 80, "inst-12", base.Add(time.Hour))
			other := snapshotAt("q2", 10, "gp3", base.Add(2*time.Hour))
			for _, s := range []*Snapshot{first, second, other} {
				if err := store.Save(ctx, s); err != nil {
					t.Fatalf("Save: %v", err)
				}
				if s.ID == "" {
					t.Fatal("expected generated id")
				}
			}

			got, err := store.Get(ctx, first.ID)
			if err != nil || !got.Total.Min.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("Get = %+v, %v", got, err)
			}

			list, err := store.List(ctx, &ListFilter{QuoteID: "q1"})
			if err != nil || len(list) != 2 || list[0].ID != second.ID {
				t.Fatalf("List should return q1 newest first, got %d items, %v", len(list), err)
			}

			latest, err := Latest(ctx, store, "q1")
			if err != nil || latest.ID != second.ID {
				t.Errorf("Latest = %v, %v", latest, err)
			}

			cmp, err := Compare(ctx, store, first.ID, second.ID)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if !cmp.MinDelta.Equal(decimal.NewFromInt(-20)) || !cmp.MinDeltaPercent.Equal(decimal.NewFromInt(-20)) {
				t.Errorf("delta = %s (%s%%)", cmp.MinDelta, cmp.MinDeltaPercent)
			}
			if len(cmp.Changed) != 1 || cmp.Changed[0] != "web" {
				t.Errorf("changed = %v", cmp.Changed)
			}

			if err := store.Delete(ctx, first.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, first.ID); !errors.IsType(err, errors.TypeNotFound) {
				t.Errorf("deleted snapshot: got %v", err)
			}
		})
	}
}

func TestSaveRequiresQuote(t *testing.T) {
	if err := NewMemoryStore().Save(context.Background(), &Snapshot{}); !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestNewSnapshot(t *testing.T) {
	result := &types.QuoteResult{
		Quote:   &types.Quote{Name: "shop"},
		QuoteID: "q1",
		Resources: []*types.ResourceResult{
			{Resource: &types.Resource{Name: "web"}, Price: &types.ResolvedPrice{Entry: &types.Entry{ID: "inst-12"}}, OverBudget: true},
			{Resource: &types.Resource{Name: "gpu"}},
		},
		Budgets: []*types.Budget{{Name: "capex", RequiredInitialCost: decimal.NewFromInt(300)}},
	}

	s := NewSnapshot(result)
	if s.QuoteName != "shop" || len(s.Lines) != 2 {
		t.Fatalf("snapshot = %+v", s)
	}
	if s.Lines[0].EntryID != "inst-12" || !s.Lines[0].OverBudget || s.Lines[1].EntryID != "" {
		t.Errorf("lines = %+v", s.Lines)
	}
	if !s.Budgets["capex"].Equal(decimal.NewFromInt(300)) {
		t.Errorf("budgets = %v", s.Budgets)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("s3", ""); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("got %v, want config error", err)
	}
}

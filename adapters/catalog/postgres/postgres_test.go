package postgres

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/catalog"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   catalog.Filter
		wantArgs []any
		contains []string
		excludes []string
	}{
		{
			name:     "category only",
			filter:   catalog.Filter{Category: types.CategoryStorage},
			wantArgs: []any{"storage"},
			contains: []string{"WHERE category = $1", "ORDER BY seq, id"},
			excludes: []string{"location", "term_name ILIKE", "engine)"},
		},
		{
			name: "full filter",
			filter: catalog.Filter{
				Category:     types.CategoryDatabase,
				Location:     "us-east-1",
				TermPrefixes: []string{"on-demand", "1y_"},
				Engine:       "MYSQL",
				Edition:      "standard",
			},
			wantArgs: []any{"database", "us-east-1", []string{"on-demand%", `1y\_%`}, "MYSQL", "standard"},
			contains: []string{
				"lower(location) = lower($2)",
				"term_name ILIKE ANY($3)",
				"lower(engine) = lower($4)",
				"lower(edition) = lower($5)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildQuery(tt.filter)
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
			where := query[strings.Index(query, "WHERE"):]
			for _, s := range tt.contains {
				if !strings.Contains(query, s) {
					t.Errorf("query missing %q:\n%s", s, query)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(where, s) {
					t.Errorf("where clause should not contain %q:\n%s", s, where)
				}
			}
		})
	}
}

func TestPayloadsRoundTrip(t *testing.T) {
	maxCPU := 4.0
	entry := &types.Entry{
		ID:       "fargate",
		Category: types.CategoryContainer,
		Kind:     types.KindDynamic,
		Type:     &types.InstanceType{ID: 3, Code: "fargate"},
		Term:     &types.Term{Name: "on-demand"},
		Dynamic: &types.DynamicRates{
			CostCPU:      decimal.RequireFromString("29.5"),
			IncrementCPU: 0.25,
			IncrementRAM: 0.5,
			MaxCPU:       &maxCPU,
		},
	}

	p, err := encode(entry)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if p.Storage != nil || p.Support != nil || p.Function != nil {
		t.Error("absent payloads should encode as nil")
	}

	var got types.Entry
	if err := p.decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TypeCode() != "fargate" || got.Term.Name != "on-demand" {
		t.Errorf("type/term not restored: %+v %+v", got.Type, got.Term)
	}
	if !got.Dynamic.CostCPU.Equal(entry.Dynamic.CostCPU) || *got.MaxCPU() != 4 {
		t.Errorf("dynamic rates not restored: %+v", got.Dynamic)
	}
	if got.Storage != nil {
		t.Error("storage should stay nil")
	}
}

func TestUpsertArgsRejectsInvalidEntry(t *testing.T) {
	if _, err := upsertArgs(&types.Entry{ID: "broken", Category: types.CategoryStorage}); err == nil {
		t.Fatal("expected integrity error for storage entry without rates")
	}

	args, err := upsertArgs(&types.Entry{
		ID:       "gp3",
		Category: types.CategoryStorage,
		Storage:  &types.StorageRates{CostGB: decimal.RequireFromString("0.08")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(args) != 21 {
		t.Fatalf("args = %d, want 21", len(args))
	}
	if args[9].(*string) != nil {
		t.Error("termless entry should store a null term name")
	}
}

// row replays scanned column values in catalog_entries order
type row []any

func (r row) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan of %d columns into %d targets", len(r), len(dest))
	}
	for i, v := range r {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

func rowOf(t *testing.T, e *types.Entry, kind string) row {
	t.Helper()
	p, err := encode(e)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return row{
		e.ID, string(e.Category), kind,
		e.Location, e.License, e.OS,
		e.Engine, e.Edition, e.Software,
		e.Cost, e.CostPeriod, decimal.NullDecimal{}, e.CO2, e.CO2Period,
		p.Type, p.Term, p.Dynamic, p.Function, p.Storage, p.Support,
	}
}

func TestScanEntryKind(t *testing.T) {
	fixed := &types.Entry{
		ID: "m5-large", Category: types.CategoryInstance, Kind: types.KindFixed,
		Type: &types.InstanceType{ID: 12, Code: "m5.large", CPU: 2, RAM: 8},
		Term: &types.Term{Name: "on-demand"},
		Cost: decimal.RequireFromString("70"),
	}
	dynamic := &types.Entry{
		ID: "fargate", Category: types.CategoryContainer, Kind: types.KindDynamic,
		Type:    &types.InstanceType{ID: 3, Code: "fargate"},
		Term:    &types.Term{Name: "on-demand"},
		Dynamic: &types.DynamicRates{IncrementCPU: 0.25, IncrementRAM: 0.5, CostCPU: decimal.RequireFromString("29.5")},
	}

	tests := []struct {
		name     string
		entry    *types.Entry
		kind     string
		wantKind types.PriceKind
		wantErr  bool
	}{
		{"fixed", fixed, "fixed", types.KindFixed, false},
		{"dynamic", dynamic, "dynamic", types.KindDynamic, false},
		{"misspelled kind", dynamic, "dynamik", 0, true},
		{"empty kind", fixed, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scanEntry(rowOf(t, tt.entry, tt.kind))
			if tt.wantErr {
				var typed *errors.Error
				if !errors.As(err, &typed) || typed.Type != errors.TypeIntegrity || typed.Context["entry"] != tt.entry.ID {
					t.Fatalf("expected integrity error on %s, got %v (%v)", tt.entry.ID, got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("scanEntry: %v", err)
			}
			if got.Kind != tt.wantKind || got.ID != tt.entry.ID {
				t.Errorf("scanned %s as %s, want %s", got.ID, got.Kind, tt.wantKind)
			}
		})
	}
}

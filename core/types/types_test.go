package types

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/internal/errors"
)

func ptrFloat(v float64) *float64 { return &v }

func TestEntryValidate(t *testing.T) {
	instanceType := &InstanceType{ID: 1, Code: "t3.large", CPU: 2, RAM: 8}

	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{
			name:  "fixed instance",
			entry: Entry{ID: "e1", Category: CategoryInstance, Kind: KindFixed, Type: instanceType},
		},
		{
			name: "dynamic instance",
			entry: Entry{ID: "e2", Category: CategoryInstance, Kind: KindDynamic, Type: instanceType,
				Dynamic: &DynamicRates{IncrementCPU: 1, IncrementRAM: 1}},
		},
		{
			name: "fixed with increments",
			entry: Entry{ID: "e3", Category: CategoryInstance, Kind: KindFixed, Type: instanceType,
				Dynamic: &DynamicRates{IncrementCPU: 1, IncrementRAM: 1}},
			wantErr: true,
		},
		{
			name:    "dynamic without increments",
			entry:   Entry{ID: "e4", Category: CategoryInstance, Kind: KindDynamic, Type: instanceType},
			wantErr: true,
		},
		{
			name: "dynamic without ram increment",
			entry: Entry{ID: "e5", Category: CategoryContainer, Kind: KindDynamic, Type: instanceType,
				Dynamic: &DynamicRates{IncrementCPU: 0.25}},
			wantErr: true,
		},
		{
			name:    "compute without type",
			entry:   Entry{ID: "e6", Category: CategoryDatabase, Kind: KindFixed},
			wantErr: true,
		},
		{
			name:    "storage without rates",
			entry:   Entry{ID: "e7", Category: CategoryStorage, Kind: KindFixed},
			wantErr: true,
		},
		{
			name:  "storage",
			entry: Entry{ID: "e8", Category: CategoryStorage, Kind: KindFixed, Storage: &StorageRates{}},
		},
		{
			name:    "function without rates",
			entry:   Entry{ID: "e9", Category: CategoryFunction, Kind: KindFixed, Type: instanceType},
			wantErr: true,
		},
		{
			name:    "missing id",
			entry:   Entry{Category: CategorySupport, Kind: KindFixed, Support: &SupportRates{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsType(err, errors.TypeIntegrity) {
				t.Errorf("expected integrity error, got %v", err)
			}
		})
	}
}

func TestRequirementValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       Requirement
		wantField string
	}{
		{name: "valid instance", req: Requirement{Category: CategoryInstance, CPU: 2, RAM: 4}},
		{name: "unknown category", req: Requirement{Category: "vm"}, wantField: "category"},
		{name: "negative cpu", req: Requirement{Category: CategoryInstance, CPU: -1}, wantField: "cpu"},
		{name: "gpu on database", req: Requirement{Category: CategoryDatabase, GPU: 1, Engine: "MYSQL"}, wantField: "gpu"},
		{name: "cpu max below cpu", req: Requirement{Category: CategoryInstance, CPU: 4, CPUMax: ptrFloat(2)}, wantField: "cpu_max"},
		{name: "storage without size", req: Requirement{Category: CategoryStorage}, wantField: "size"},
		{name: "database without engine", req: Requirement{Category: CategoryDatabase, CPU: 1}, wantField: "engine"},
		{name: "bad optimizer", req: Requirement{Category: CategoryInstance, Optimizer: "speed"}, wantField: "optimizer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on field %q", tt.wantField)
			}
			var typed *errors.Error
			if !errors.As(err, &typed) || typed.Type != errors.TypeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if typed.Field() != tt.wantField {
				t.Errorf("field = %q, want %q", typed.Field(), tt.wantField)
			}
		})
	}
}

func TestRequirementEffectiveValues(t *testing.T) {
	req := Requirement{CPU: 1, CPUMax: ptrFloat(3), RAM: 2, RAMMax: ptrFloat(6)}
	if req.EffectiveCPU() != 1 || req.EffectiveRAM() != 2 {
		t.Errorf("reserved mode should use plain values, got %v/%v", req.EffectiveCPU(), req.EffectiveRAM())
	}

	req.Reservation = ReservationMax
	if req.EffectiveCPU() != 3 || req.EffectiveRAM() != 6 {
		t.Errorf("max mode should use observed maxima, got %v/%v", req.EffectiveCPU(), req.EffectiveRAM())
	}

	req.RAMMax = nil
	if req.EffectiveRAM() != 2 {
		t.Errorf("max mode without ram max should fall back, got %v", req.EffectiveRAM())
	}
}

func TestRequirementAcceptsTerm(t *testing.T) {
	req := Requirement{}
	if !req.AcceptsTerm("anything") {
		t.Error("no prefixes should accept every term")
	}

	req.TermPrefixes = []string{"on-demand", "1y"}
	if !req.AcceptsTerm("On-Demand Linux") {
		t.Error("prefix match should be case-insensitive")
	}
	if req.AcceptsTerm("3y reserved") {
		t.Error("3y should not match")
	}
}

func TestResourceValidateQuantity(t *testing.T) {
	two := 2
	r := Resource{MinQuantity: 3, MaxQuantity: &two}
	err := r.ValidateQuantity()
	if err == nil {
		t.Fatal("expected error for min > max")
	}
	var typed *errors.Error
	if !errors.As(err, &typed) || typed.Field() != "max_quantity" {
		t.Errorf("expected max_quantity field, got %v", err)
	}

	r.MinQuantity = 1
	if err := r.ValidateQuantity(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUsageValidate(t *testing.T) {
	cases := []struct {
		usage Usage
		ok    bool
	}{
		{Usage{Name: "dev", RatePercent: 50, DurationMonths: 12}, true},
		{Usage{Name: "dev", RatePercent: 0, DurationMonths: 12}, false},
		{Usage{Name: "dev", RatePercent: 101, DurationMonths: 12}, false},
		{Usage{Name: "dev", RatePercent: 100, DurationMonths: 0}, false},
		{Usage{RatePercent: 100, DurationMonths: 1}, false},
	}
	for _, c := range cases {
		if err := c.usage.Validate(); (err == nil) != c.ok {
			t.Errorf("Validate(%+v) = %v, want ok=%v", c.usage, err, c.ok)
		}
	}
}

func TestRatingSatisfies(t *testing.T) {
	if !RatingLow.Satisfies(RatingAny) {
		t.Error("any rating should satisfy no constraint")
	}
	if RatingLow.Satisfies(RatingGood) {
		t.Error("low should not satisfy good")
	}
	if r, ok := ParseRating("Medium"); !ok || r != RatingMedium {
		t.Errorf("ParseRating(Medium) = %v, %v", r, ok)
	}
}

func TestQuoteRate(t *testing.T) {
	q := Quote{}
	if !q.Rate().Equal(decimal.NewFromInt(1)) {
		t.Errorf("default rate = %s, want 1", q.Rate())
	}
	q.CurrencyRate = decimal.RequireFromString("0.92")
	if !q.Rate().Equal(decimal.RequireFromString("0.92")) {
		t.Errorf("rate = %s", q.Rate())
	}
}

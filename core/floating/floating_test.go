package floating

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

func resolved(monthly, co2, initial string) *types.ResolvedPrice {
	return &types.ResolvedPrice{MonthlyCost: d(monthly), MonthlyCO2: d(co2), InitialCost: d(initial)}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		minQuantity int
		maxQuantity *int
		wantMin     string
		wantMax     string
		wantUnbound bool
	}{
		{"bounded", 2, intPtr(5), "20", "50", false},
		{"unbound", 2, nil, "20", "20", true},
		{"fixed quantity", 3, intPtr(3), "30", "30", false},
		{"zero minimum", 0, intPtr(4), "0", "40", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := Compute(resolved("10", "1", "100"), tt.minQuantity, tt.maxQuantity)
			if !fc.Min.Equal(d(tt.wantMin)) || !fc.Max.Equal(d(tt.wantMax)) {
				t.Errorf("range = [%s, %s], want [%s, %s]", fc.Min, fc.Max, tt.wantMin, tt.wantMax)
			}
			if fc.Unbound != tt.wantUnbound {
				t.Errorf("unbound = %v, want %v", fc.Unbound, tt.wantUnbound)
			}
			if fc.Min.GreaterThan(fc.Max) {
				t.Errorf("min %s > max %s", fc.Min, fc.Max)
			}
		})
	}
}

func TestComputeInitialAndCO2(t *testing.T) {
	fc := Compute(resolved("10", "2", "100"), 1, intPtr(3))
	if !fc.Initial.Equal(d("100")) || !fc.MaxInitial.Equal(d("300")) {
		t.Errorf("initial = [%s, %s]", fc.Initial, fc.MaxInitial)
	}
	if !fc.MinCO2.Equal(d("2")) || !fc.MaxCO2.Equal(d("6")) {
		t.Errorf("co2 = [%s, %s]", fc.MinCO2, fc.MaxCO2)
	}
}

func TestComputeWithoutPrice(t *testing.T) {
	fc := Compute(nil, 1, nil)
	if !fc.Min.IsZero() || !fc.Max.IsZero() || !fc.Unbound {
		t.Errorf("unexpected range %+v", fc)
	}
}

func TestSum(t *testing.T) {
	total := Sum(
		Compute(resolved("10", "1", "0"), 1, intPtr(2)),
		Compute(resolved("5", "1", "50"), 2, nil),
		Compute(resolved("1", "0", "0"), 1, nil),
	)

	if !total.Min.Equal(d("21")) {
		t.Errorf("min = %s, want 21", total.Min)
	}
	if !total.Max.Equal(d("31")) {
		t.Errorf("max = %s, want 31", total.Max)
	}
	if !total.Unbound || total.UnboundCount != 2 {
		t.Errorf("unbound = %v (%d), want true (2)", total.Unbound, total.UnboundCount)
	}
	if !total.Initial.Equal(d("100")) {
		t.Errorf("initial = %s, want 100", total.Initial)
	}

	if empty := Sum(); empty.Unbound || !empty.Min.IsZero() {
		t.Errorf("empty sum = %+v", empty)
	}
}

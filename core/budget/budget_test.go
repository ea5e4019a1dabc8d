package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ceiling(s string) *types.Budget {
	c := d(s)
	return &types.Budget{Name: "capex", InitialCostCeiling: &c}
}

func items(costs ...string) []Item {
	out := make([]Item, len(costs))
	for i, c := range costs {
		out[i] = Item{ResourceID: string(rune('a' + i)), InitialCost: d(c)}
	}
	return out
}

func TestConsume(t *testing.T) {
	tests := []struct {
		name         string
		ceiling      string
		costs        []string
		wantAccepted []bool
		wantRequired string
	}{
		{"all fit", "1000", []string{"300", "200", "0"}, []bool{true, true, true}, "500"},
		{"exact fit", "500", []string{"300", "200"}, []bool{true, true}, "500"},
		{"overflow flagged", "500", []string{"300", "300", "100"}, []bool{true, false, true}, "400"},
		{"first overflows", "100", []string{"300", "50"}, []bool{false, true}, "50"},
		{"zero ceiling", "0", []string{"0", "1"}, []bool{true, false}, "0"},
		{"no resources", "100", nil, []bool{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ceiling(tt.ceiling)
			decisions := Consume(b, items(tt.costs...))

			if len(decisions) != len(tt.wantAccepted) {
				t.Fatalf("got %d decisions, want %d", len(decisions), len(tt.wantAccepted))
			}
			accepted := decimal.Zero
			for i, dec := range decisions {
				if dec.Accepted != tt.wantAccepted[i] {
					t.Errorf("decision %d accepted = %v, want %v", i, dec.Accepted, tt.wantAccepted[i])
				}
				if dec.Accepted {
					accepted = accepted.Add(d(tt.costs[i]))
				} else if !errors.IsType(dec.Err, errors.TypeBudget) {
					t.Errorf("decision %d: expected budget error, got %v", i, dec.Err)
				}
			}

			if !b.RequiredInitialCost.Equal(d(tt.wantRequired)) {
				t.Errorf("required = %s, want %s", b.RequiredInitialCost, tt.wantRequired)
			}
			if accepted.GreaterThan(*b.InitialCostCeiling) {
				t.Errorf("accepted %s exceeds ceiling %s", accepted, b.InitialCostCeiling)
			}
			if !accepted.Equal(b.RequiredInitialCost) {
				t.Errorf("required %s does not match accepted %s", b.RequiredInitialCost, accepted)
			}
		})
	}
}

func TestConsumeUnlimited(t *testing.T) {
	b := &types.Budget{Name: "opex"}
	decisions := Consume(b, items("300", "700"))
	for _, dec := range decisions {
		if !dec.Accepted || dec.Remaining != nil {
			t.Errorf("unlimited budget should accept everything: %+v", dec)
		}
	}
	if !b.RequiredInitialCost.Equal(d("1000")) {
		t.Errorf("required = %s, want 1000", b.RequiredInitialCost)
	}
}

func TestPassOrderMatters(t *testing.T) {
	forward := Consume(ceiling("500"), items("400", "200"))
	backward := Consume(ceiling("500"), []Item{{"b", d("200")}, {"a", d("400")}})

	if !forward[0].Accepted || forward[1].Accepted {
		t.Errorf("forward: %+v", forward)
	}
	if !backward[0].Accepted || backward[1].Accepted {
		t.Errorf("backward: %+v", backward)
	}
}

func TestAbandonedPassLeavesBudget(t *testing.T) {
	b := ceiling("500")
	b.RequiredInitialCost = d("123")

	pass := NewPass(b)
	pass.Consume("a", d("100"))

	if !b.RequiredInitialCost.Equal(d("123")) {
		t.Errorf("budget written before finish: %s", b.RequiredInitialCost)
	}
	if got := pass.Finish(); !got.Equal(d("100")) {
		t.Errorf("Finish() = %s, want 100", got)
	}
}

func TestConsumeAfterFinish(t *testing.T) {
	b := ceiling("500")
	pass := NewPass(b)
	pass.Consume("a", d("100"))
	pass.Finish()

	decision := pass.Consume("b", d("50"))
	if decision.Accepted || !errors.IsType(decision.Err, errors.TypeInternal) {
		t.Errorf("claim on a finished pass = %+v, want internal error", decision)
	}
	if !b.RequiredInitialCost.Equal(d("100")) {
		t.Errorf("required = %s, want 100", b.RequiredInitialCost)
	}
}

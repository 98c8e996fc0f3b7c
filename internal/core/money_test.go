package core_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"fieldops/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLineTotal_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		qty, price, want string
	}{
		{"3", "19.99", "59.97"},
		{"1", "0.125", "0.13"},
		{"3", "0.335", "1.01"},
		{"2.5", "10", "25"},
		{"1", "0.124", "0.12"},
		{"1", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.qty+"x"+tt.price, func(t *testing.T) {
			got := core.ComputeLineTotal(d(tt.qty), d(tt.price))
			if !got.Equal(d(tt.want)) {
				t.Errorf("ComputeLineTotal(%s, %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
			}
		})
	}
}

func TestComputeAggregateTotals(t *testing.T) {
	lines := []core.LineItem{
		{Quantity: d("2"), UnitPrice: d("800")},
		{Quantity: d("4"), UnitPrice: d("190")},
	}
	totals, err := core.ComputeAggregateTotals(lines, d("0.077"))
	if err != nil {
		t.Fatalf("ComputeAggregateTotals failed: %v", err)
	}
	if !totals.Subtotal.Equal(d("2360")) {
		t.Errorf("Subtotal = %s, want 2360", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(d("181.72")) {
		t.Errorf("TaxAmount = %s, want 181.72", totals.TaxAmount)
	}
	if !totals.Total.Equal(d("2541.72")) {
		t.Errorf("Total = %s, want 2541.72", totals.Total)
	}
}

func TestComputeAggregateTotals_Validation(t *testing.T) {
	tests := []struct {
		name  string
		lines []core.LineItem
		rate  string
	}{
		{"negative quantity", []core.LineItem{{Quantity: d("-1"), UnitPrice: d("10")}}, "0.077"},
		{"zero quantity", []core.LineItem{{Quantity: d("0"), UnitPrice: d("10")}}, "0.077"},
		{"negative price", []core.LineItem{{Quantity: d("1"), UnitPrice: d("-0.01")}}, "0.077"},
		{"negative tax rate", nil, "-0.1"},
		{"tax rate above one", nil, "1.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.ComputeAggregateTotals(tt.lines, d(tt.rate))
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestComputeAggregateTotals_EmptyIsZero(t *testing.T) {
	totals, err := core.ComputeAggregateTotals(nil, d("0.077"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.Total.IsZero() || !totals.TaxAmount.IsZero() || !totals.Subtotal.IsZero() {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

// Random line sets must always satisfy subtotal = Σ line totals and
// total = subtotal + tax, exact to the cent.
func TestAggregate_TotalsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(20260317))
	rates := []string{"0", "0.025", "0.077", "0.081", "0.2", "1"}

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(12)
		agg := core.Aggregate{TaxRate: d(rates[rng.Intn(len(rates))])}
		for i := 0; i < n; i++ {
			agg.Lines = append(agg.Lines, core.LineItem{
				Quantity:  decimal.New(int64(rng.Intn(5000)+1), -2),
				UnitPrice: decimal.New(int64(rng.Intn(10_000_000)), -3),
			})
		}
		if err := agg.Recompute(); err != nil {
			t.Fatalf("iteration %d: Recompute failed: %v", iter, err)
		}

		sum := decimal.Zero
		for _, l := range agg.Lines {
			if !l.Total.Equal(l.Total.Round(2)) {
				t.Fatalf("iteration %d: line total %s has more than two decimals", iter, l.Total)
			}
			if !l.Total.Equal(l.Quantity.Mul(l.UnitPrice).Round(2)) {
				t.Fatalf("iteration %d: line total %s != round(%s*%s)", iter, l.Total, l.Quantity, l.UnitPrice)
			}
			sum = sum.Add(l.Total)
		}
		if !agg.Subtotal.Equal(sum) {
			t.Fatalf("iteration %d: subtotal %s != Σ lines %s", iter, agg.Subtotal, sum)
		}
		if !agg.TaxAmount.Equal(agg.Subtotal.Mul(agg.TaxRate).Round(2)) {
			t.Fatalf("iteration %d: tax %s != round(%s*%s)", iter, agg.TaxAmount, agg.Subtotal, agg.TaxRate)
		}
		if !agg.Total.Equal(agg.Subtotal.Add(agg.TaxAmount)) {
			t.Fatalf("iteration %d: total %s != subtotal %s + tax %s", iter, agg.Total, agg.Subtotal, agg.TaxAmount)
		}
	}
}

func TestAggregate_AddLineLeavesAggregateOnError(t *testing.T) {
	agg := core.Aggregate{TaxRate: d("0.077")}
	if err := agg.AddLine("l-1", core.LineInput{Description: "Valve", Quantity: d("2"), UnitPrice: d("45.50")}); err != nil {
		t.Fatalf("AddLine failed: %v", err)
	}
	before := agg.Total

	err := agg.AddLine("l-2", core.LineInput{Description: "Bad", Quantity: d("-1"), UnitPrice: d("1")})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(agg.Lines) != 1 || !agg.Total.Equal(before) {
		t.Errorf("aggregate changed after failed AddLine: %+v", agg)
	}
	if !agg.Total.Equal(d("98.01")) {
		t.Errorf("Total = %s, want 98.01", agg.Total)
	}
}

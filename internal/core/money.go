package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyPlaces is the scale every stored monetary amount is rounded to.
// Rounding is half-up (decimal.Round rounds half away from zero, which is
// half-up for the non-negative amounts the engine accepts).
const moneyPlaces = 2

// RoundMoney rounds an amount to two decimal places, half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// LineItem is one priced line on a quote, invoice, or purchase order.
// Total is always RoundMoney(Quantity × UnitPrice).
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes,omitempty"`
}

// LineInput holds the caller-supplied fields of a new line.
type LineInput struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Notes       string
}

// Totals is the derived header of a line-based document.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeLineTotal returns quantity × unitPrice rounded to two places.
func ComputeLineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(unitPrice))
}

// ComputeAggregateTotals sums line totals and applies taxRate. Line totals are
// recomputed from quantity and unit price rather than trusted.
func ComputeAggregateTotals(lines []LineItem, taxRate decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, invalid("tax_rate", "must be within [0, 1], got %s", taxRate)
	}

	subtotal := decimal.Zero
	for i, l := range lines {
		if err := validateLine(l.Quantity, l.UnitPrice); err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		subtotal = subtotal.Add(ComputeLineTotal(l.Quantity, l.UnitPrice))
	}

	tax := RoundMoney(subtotal.Mul(taxRate))
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}, nil
}

func validateLine(quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return invalid("quantity", "must be > 0, got %s", quantity)
	}
	if unitPrice.IsNegative() {
		return invalid("unit_price", "must be >= 0, got %s", unitPrice)
	}
	return nil
}

// Aggregate is the shared line-based body of quotes, invoices, and purchase
// orders. Embedded so the three documents share one recomputation rule.
type Aggregate struct {
	Lines     []LineItem      `json:"lines"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// Recompute refreshes every line total and the header totals. It must run
// after any change to Lines or TaxRate.
func (a *Aggregate) Recompute() error {
	totals, err := ComputeAggregateTotals(a.Lines, a.TaxRate)
	if err != nil {
		return err
	}
	for i := range a.Lines {
		a.Lines[i].Total = ComputeLineTotal(a.Lines[i].Quantity, a.Lines[i].UnitPrice)
	}
	a.Subtotal = totals.Subtotal
	a.TaxAmount = totals.TaxAmount
	a.Total = totals.Total
	return nil
}

// AddLine appends a line built from input and recomputes totals. On error the
// aggregate is left unchanged.
func (a *Aggregate) AddLine(id string, in LineInput) error {
	if err := validateLine(in.Quantity, in.UnitPrice); err != nil {
		return err
	}
	next := a.clone()
	next.Lines = append(next.Lines, LineItem{
		ID:          id,
		ProductID:   in.ProductID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Notes:       in.Notes,
	})
	if err := next.Recompute(); err != nil {
		return err
	}
	*a = next
	return nil
}

func (a Aggregate) clone() Aggregate {
	lines := make([]LineItem, len(a.Lines))
	copy(lines, a.Lines)
	a.Lines = lines
	return a
}

func newAggregate(lines []LineInput, taxRate decimal.Decimal, newID func() string) (Aggregate, error) {
	agg := Aggregate{TaxRate: taxRate, Lines: make([]LineItem, 0, len(lines))}
	for i, in := range lines {
		if err := validateLine(in.Quantity, in.UnitPrice); err != nil {
			return Aggregate{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		agg.Lines = append(agg.Lines, LineItem{
			ID:          newID(),
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Notes:       in.Notes,
		})
	}
	if err := agg.Recompute(); err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

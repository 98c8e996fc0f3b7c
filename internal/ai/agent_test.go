package ai

import (
	"errors"
	"testing"

	"fieldops/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseDraft(t *testing.T) {
	content := `{
		"lines": [
			{"description": "Remove old flooring", "quantity": "40", "unit_price": "12.50"},
			{"description": "Oak parquet, supply and lay", "quantity": "40", "unit_price": "48.00"}
		],
		"risks": ["asbestos in adhesive"],
		"missing_information": ["floor height"],
		"reasoning": "two phases"
	}`
	draft, err := parseDraft(content)
	if err != nil {
		t.Fatalf("parseDraft failed: %v", err)
	}
	if len(draft.Lines) != 2 || len(draft.Risks) != 1 || len(draft.MissingInformation) != 1 {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	inputs, totals, err := draft.Inputs(decimal.RequireFromString("0.077"))
	if err != nil {
		t.Fatalf("Inputs failed: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	// 500 + 1920 = 2420, tax 186.34
	if !totals.Subtotal.Equal(decimal.RequireFromString("2420")) || !totals.Total.Equal(decimal.RequireFromString("2606.34")) {
		t.Errorf("totals = %+v", totals)
	}
}

func TestParseDraft_Errors(t *testing.T) {
	if _, err := parseDraft(""); err == nil {
		t.Error("expected error for empty content")
	}
	if _, err := parseDraft("{not json"); err == nil {
		t.Error("expected error for malformed content")
	}
}

func TestDraftInputs_Rejects(t *testing.T) {
	rate := decimal.RequireFromString("0.077")
	tests := []struct {
		name  string
		draft Draft
	}{
		{"no lines", Draft{}},
		{"bad quantity", Draft{Lines: []DraftLine{{Description: "x", Quantity: "two", UnitPrice: "1"}}}},
		{"bad price", Draft{Lines: []DraftLine{{Description: "x", Quantity: "2", UnitPrice: "1,50"}}}},
		{"zero quantity", Draft{Lines: []DraftLine{{Description: "x", Quantity: "0", UnitPrice: "1"}}}},
		{"negative price", Draft{Lines: []DraftLine{{Description: "x", Quantity: "1", UnitPrice: "-1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.draft.Inputs(rate); err == nil {
				t.Error("expected error")
			}
		})
	}

	d := Draft{Lines: []DraftLine{{Description: "x", Quantity: "0", UnitPrice: "1"}}}
	if _, _, err := d.Inputs(rate); !errors.Is(err, core.ErrValidation) {
		t.Errorf("zero quantity should surface a validation error, got %v", err)
	}
}

func TestDraftSchema(t *testing.T) {
	schema, err := draftSchema()
	if err != nil {
		t.Fatalf("draftSchema failed: %v", err)
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %v", schema)
	}
	for _, key := range []string{"lines", "risks", "missing_information", "reasoning"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing property %q", key)
		}
	}
}

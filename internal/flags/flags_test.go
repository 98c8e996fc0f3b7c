package flags_test

import (
	"testing"

	"fieldops/internal/flags"
)

func TestDefaults(t *testing.T) {
	s := flags.Defaults()
	tests := []struct {
		key  string
		want bool
	}{
		{flags.PurchaseOrders, true},
		{flags.AIQuoteDrafting, false},
		{flags.OfflineCapture, true},
		{flags.AdvancedScheduling, false},
		{flags.SupplierIntegration, false},
		{"never-declared", false},
	}
	for _, tt := range tests {
		if got := s.Enabled(tt.key); got != tt.want {
			t.Errorf("Enabled(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		key     string
		want    bool
		wantErr bool
	}{
		{"empty keeps defaults", "", flags.PurchaseOrders, true, false},
		{"override off", "purchase-orders-enabled=false", flags.PurchaseOrders, false, false},
		{"override on with spaces", " ai-quote-drafting = true ,", flags.AIQuoteDrafting, true, false},
		{"unknown key kept", "beta-map=1", "beta-map", true, false},
		{"missing value", "ai-quote-drafting", "", false, true},
		{"bad bool", "ai-quote-drafting=maybe", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := flags.Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := s.Enabled(tt.key); got != tt.want {
				t.Errorf("Enabled(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := flags.Defaults()
	changed := base.With(flags.AIQuoteDrafting, true)
	if base.Enabled(flags.AIQuoteDrafting) {
		t.Error("With mutated the receiver")
	}
	if !changed.Enabled(flags.AIQuoteDrafting) {
		t.Error("With did not set the flag")
	}
}

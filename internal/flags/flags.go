// Package flags holds the feature toggles supplied by the environment. The
// engine never reads them; callers check a flag before invoking a gated
// operation.
package flags

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	PurchaseOrders      = "purchase-orders-enabled"
	AIQuoteDrafting     = "ai-quote-drafting"
	OfflineCapture      = "offline-capture"
	AdvancedScheduling  = "advanced-scheduling"
	SupplierIntegration = "supplier-integration"
)

var defaults = map[string]bool{
	PurchaseOrders:      true,
	AIQuoteDrafting:     false,
	OfflineCapture:      true,
	AdvancedScheduling:  false,
	SupplierIntegration: false,
}

// Set is an immutable snapshot of flag values.
type Set struct {
	values map[string]bool
}

// Defaults returns the stock flag values.
func Defaults() Set {
	return Set{values: copyValues(defaults)}
}

// Parse applies a comma-separated list of key=bool overrides on top of the
// defaults, e.g. "ai-quote-drafting=true,purchase-orders-enabled=false".
// Unknown keys are kept.
func Parse(raw string) (Set, error) {
	values := copyValues(defaults)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Set{}, fmt.Errorf("feature flag %q: expected key=bool", part)
		}
		v, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return Set{}, fmt.Errorf("feature flag %q: %w", key, err)
		}
		values[strings.TrimSpace(key)] = v
	}
	return Set{values: values}, nil
}

// Enabled reports the flag's value. Unknown flags are off.
func (s Set) Enabled(key string) bool {
	return s.values[key]
}

// With returns a copy of s with key set to v.
func (s Set) With(key string, v bool) Set {
	values := copyValues(s.values)
	values[key] = v
	return Set{values: values}
}

// All returns every flag in key order.
func (s Set) All() []Flag {
	out := make([]Flag, 0, len(s.values))
	for k, v := range s.values {
		out = append(out, Flag{Key: k, Enabled: v})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

// Flag is one key and its value.
type Flag struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

func copyValues(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Package storagetest holds the behaviour every core.Repository must share.
// Store packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fieldops/internal/core"
)

// Run exercises repo. It expects an empty store.
func Run(t *testing.T, repo core.Repository) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Get returns NotFoundError for unknown id", func(t *testing.T) {
		_, err := repo.Get(ctx, core.KindQuote, "missing")
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		var nf *core.NotFoundError
		if !errors.As(err, &nf) || nf.Document != core.KindQuote {
			t.Errorf("expected *NotFoundError for quote, got %#v", err)
		}
	})

	t.Run("Put then Get round-trips a quote", func(t *testing.T) {
		q := &core.Quote{
			ID:           "q-1",
			ClientID:     "client-1",
			Title:        "Bathroom refit",
			Status:       core.QuoteDraft,
			ValidityDays: 30,
			CreatedAt:    now,
			UpdatedAt:    now,
			Aggregate: core.Aggregate{
				TaxRate: decimal.RequireFromString("0.077"),
				Lines: []core.LineItem{{
					ID:          "l-1",
					Description: "Tiles",
					Quantity:    decimal.NewFromInt(3),
					UnitPrice:   decimal.RequireFromString("19.99"),
				}},
			},
		}
		if err := q.Recompute(); err != nil {
			t.Fatalf("Recompute failed: %v", err)
		}
		if err := repo.Put(ctx, q); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		doc, err := repo.Get(ctx, core.KindQuote, "q-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		got, ok := doc.(*core.Quote)
		if !ok {
			t.Fatalf("expected *core.Quote, got %T", doc)
		}
		if !got.Total.Equal(q.Total) {
			t.Errorf("Total mismatch: got %s, want %s", got.Total, q.Total)
		}
		if len(got.Lines) != 1 || got.Lines[0].Description != "Tiles" {
			t.Errorf("Lines mismatch: %+v", got.Lines)
		}
		if !got.CreatedAt.Equal(now) {
			t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, now)
		}
	})

	t.Run("Get does not alias stored value", func(t *testing.T) {
		doc, err := repo.Get(ctx, core.KindQuote, "q-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		doc.(*core.Quote).Title = "changed"

		again, err := repo.Get(ctx, core.KindQuote, "q-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if again.(*core.Quote).Title != "Bathroom refit" {
			t.Errorf("stored quote was mutated through a returned value")
		}
	})

	t.Run("Put replaces existing document", func(t *testing.T) {
		doc, _ := repo.Get(ctx, core.KindQuote, "q-1")
		q := doc.(*core.Quote)
		q.Status = core.QuoteSent
		if err := repo.Put(ctx, q); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		sent, err := repo.List(ctx, core.KindQuote, core.Filter{Status: string(core.QuoteSent)})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(sent) != 1 {
			t.Errorf("expected 1 Sent quote, got %d", len(sent))
		}
	})

	t.Run("List filters by parent and party", func(t *testing.T) {
		for _, j := range []*core.Job{
			{ID: "j-2", QuoteID: "q-1", ClientID: "client-1", Status: core.JobPlanned},
			{ID: "j-1", QuoteID: "q-1", ClientID: "client-2", Status: core.JobScheduled},
			{ID: "j-3", QuoteID: "q-9", ClientID: "client-1", Status: core.JobPlanned},
		} {
			if err := repo.Put(ctx, j); err != nil {
				t.Fatalf("Put %s failed: %v", j.ID, err)
			}
		}

		tests := []struct {
			name   string
			filter core.Filter
			want   []string
		}{
			{"all", core.Filter{}, []string{"j-1", "j-2", "j-3"}},
			{"by quote", core.Filter{ParentID: "q-1"}, []string{"j-1", "j-2"}},
			{"by client", core.Filter{PartyID: "client-1"}, []string{"j-2", "j-3"}},
			{"by status and quote", core.Filter{Status: string(core.JobPlanned), ParentID: "q-1"}, []string{"j-2"}},
			{"no match", core.Filter{Status: string(core.JobArchived)}, nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				docs, err := repo.List(ctx, core.KindJob, tt.filter)
				if err != nil {
					t.Fatalf("List failed: %v", err)
				}
				if len(docs) != len(tt.want) {
					t.Fatalf("got %d documents, want %d", len(docs), len(tt.want))
				}
				for i, d := range docs {
					if d.Meta().ID != tt.want[i] {
						t.Errorf("position %d: got %s, want %s", i, d.Meta().ID, tt.want[i])
					}
				}
			})
		}
	})

	t.Run("NextSequence is gapless per prefix", func(t *testing.T) {
		want := []string{"INV-2026-00001", "INV-2026-00002", "INV-2026-00003"}
		for _, w := range want {
			got, err := repo.NextSequence(ctx, "INV-2026")
			if err != nil {
				t.Fatalf("NextSequence failed: %v", err)
			}
			if got != w {
				t.Errorf("got %s, want %s", got, w)
			}
		}
		other, err := repo.NextSequence(ctx, "PO-2026")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if other != "PO-2026-00001" {
			t.Errorf("prefixes must count independently, got %s", other)
		}
	})

	t.Run("NextSequence never repeats under concurrency", func(t *testing.T) {
		const n = 20
		var wg sync.WaitGroup
		results := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				num, err := repo.NextSequence(ctx, "CONC")
				if err != nil {
					t.Errorf("NextSequence failed: %v", err)
					return
				}
				results <- num
			}()
		}
		wg.Wait()
		close(results)

		seen := make(map[string]bool)
		for num := range results {
			if seen[num] {
				t.Errorf("duplicate sequence number %s", num)
			}
			seen[num] = true
		}
		if len(seen) != n {
			t.Errorf("expected %d distinct numbers, got %d", n, len(seen))
		}
	})

	t.Run("PutNumbered stores the document under the drawn number", func(t *testing.T) {
		doc, err := repo.PutNumbered(ctx, "NUM-2026", func(number string) (core.Document, error) {
			return &core.Invoice{ID: "inv-num-1", InvoiceNumber: number, Status: core.InvoiceDraft}, nil
		})
		if err != nil {
			t.Fatalf("PutNumbered failed: %v", err)
		}
		if got := doc.(*core.Invoice).InvoiceNumber; got != "NUM-2026-00001" {
			t.Errorf("InvoiceNumber = %s, want NUM-2026-00001", got)
		}
		stored, err := repo.Get(ctx, core.KindInvoice, "inv-num-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if stored.(*core.Invoice).InvoiceNumber != "NUM-2026-00001" {
			t.Errorf("stored number = %s", stored.(*core.Invoice).InvoiceNumber)
		}
	})

	t.Run("PutNumbered does not consume a number when build fails", func(t *testing.T) {
		refused := errors.New("refused")
		_, err := repo.PutNumbered(ctx, "GAP-2026", func(number string) (core.Document, error) {
			return nil, refused
		})
		if !errors.Is(err, refused) {
			t.Fatalf("expected build error, got %v", err)
		}
		if _, err := repo.Get(ctx, core.KindInvoice, "inv-gap"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("nothing should be stored, got %v", err)
		}

		doc, err := repo.PutNumbered(ctx, "GAP-2026", func(number string) (core.Document, error) {
			return &core.Invoice{ID: "inv-gap", InvoiceNumber: number, Status: core.InvoiceDraft}, nil
		})
		if err != nil {
			t.Fatalf("PutNumbered failed: %v", err)
		}
		if got := doc.(*core.Invoice).InvoiceNumber; got != "GAP-2026-00001" {
			t.Errorf("InvoiceNumber = %s, want GAP-2026-00001 after a refused build", got)
		}
	})

	t.Run("PutNumbered is gapless under concurrency", func(t *testing.T) {
		const n = 10
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.PutNumbered(ctx, "CNUM", func(number string) (core.Document, error) {
					return &core.Invoice{ID: "c-" + number, InvoiceNumber: number, Status: core.InvoiceDraft}, nil
				})
				if err != nil {
					t.Errorf("PutNumbered failed: %v", err)
				}
			}()
		}
		wg.Wait()

		for i := int64(1); i <= n; i++ {
			number := core.FormatSequence("CNUM", i)
			if _, err := repo.Get(ctx, core.KindInvoice, "c-"+number); err != nil {
				t.Errorf("%s missing: %v", number, err)
			}
		}
	})
}

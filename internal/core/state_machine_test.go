package core_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"fieldops/internal/core"
)

var (
	t0 = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
	t3 = t0.Add(3 * time.Hour)
)

func TestQuoteTransitions(t *testing.T) {
	tests := []struct {
		from    core.QuoteStatus
		to      core.QuoteStatus
		allowed bool
	}{
		{core.QuoteDraft, core.QuoteUnderReview, true},
		{core.QuoteDraft, core.QuoteSent, true},
		{core.QuoteDraft, core.QuoteAccepted, false},
		{core.QuoteUnderReview, core.QuoteDraft, true},
		{core.QuoteUnderReview, core.QuoteSent, true},
		{core.QuoteSent, core.QuoteViewed, true},
		{core.QuoteSent, core.QuoteAccepted, true},
		{core.QuoteSent, core.QuoteRejected, true},
		{core.QuoteSent, core.QuoteExpired, true},
		{core.QuoteSent, core.QuoteDraft, false},
		{core.QuoteViewed, core.QuoteAccepted, true},
		{core.QuoteViewed, core.QuoteSent, false},
		{core.QuoteAccepted, core.QuoteRejected, false},
		{core.QuoteRejected, core.QuoteDraft, false},
		{core.QuoteExpired, core.QuoteSent, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			q := core.Quote{ID: "q", Status: tt.from}
			next, err := q.Transition(tt.to, t0)
			if tt.allowed {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if next.Status != tt.to {
					t.Errorf("Status = %s, want %s", next.Status, tt.to)
				}
				return
			}
			if !errors.Is(err, core.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestJobTransitions(t *testing.T) {
	tests := []struct {
		from    core.JobStatus
		to      core.JobStatus
		allowed bool
	}{
		{core.JobPlanned, core.JobScheduled, true},
		{core.JobPlanned, core.JobInProgress, true},
		{core.JobPlanned, core.JobCompleted, false},
		{core.JobScheduled, core.JobInProgress, true},
		{core.JobScheduled, core.JobBlocked, true},
		{core.JobScheduled, core.JobPlanned, false},
		{core.JobInProgress, core.JobBlocked, true},
		{core.JobInProgress, core.JobCompleted, true},
		{core.JobBlocked, core.JobInProgress, true},
		{core.JobBlocked, core.JobCompleted, false},
		{core.JobCompleted, core.JobArchived, true},
		{core.JobCompleted, core.JobInProgress, false},
		{core.JobArchived, core.JobPlanned, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			_, err := core.Job{ID: "j", Status: tt.from}.Transition(tt.to, t0)
			if tt.allowed != (err == nil) {
				t.Errorf("allowed=%v, err=%v", tt.allowed, err)
			}
		})
	}
}

func TestInvoiceTransitions(t *testing.T) {
	tests := []struct {
		from    core.InvoiceStatus
		to      core.InvoiceStatus
		allowed bool
	}{
		{core.InvoiceDraft, core.InvoiceIssued, true},
		{core.InvoiceDraft, core.InvoicePaid, false},
		{core.InvoiceIssued, core.InvoicePartiallyPaid, true},
		{core.InvoiceIssued, core.InvoicePaid, true},
		{core.InvoiceIssued, core.InvoiceOverdue, true},
		{core.InvoiceIssued, core.InvoiceWrittenOff, true},
		{core.InvoicePartiallyPaid, core.InvoicePaid, true},
		{core.InvoicePartiallyPaid, core.InvoiceIssued, false},
		{core.InvoiceOverdue, core.InvoicePartiallyPaid, true},
		{core.InvoiceOverdue, core.InvoiceWrittenOff, true},
		{core.InvoicePaid, core.InvoiceWrittenOff, false},
		{core.InvoiceWrittenOff, core.InvoicePaid, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			_, err := core.Invoice{ID: "i", Status: tt.from}.Transition(tt.to, t0)
			if tt.allowed != (err == nil) {
				t.Errorf("allowed=%v, err=%v", tt.allowed, err)
			}
		})
	}
}

func TestPurchaseOrderTransitions(t *testing.T) {
	tests := []struct {
		from    core.PurchaseOrderStatus
		to      core.PurchaseOrderStatus
		allowed bool
	}{
		{core.PODraft, core.POOrdered, true},
		{core.PODraft, core.POCancelled, true},
		{core.PODraft, core.POShipped, false},
		{core.POOrdered, core.POConfirmed, true},
		{core.POOrdered, core.POCancelled, true},
		{core.POConfirmed, core.POShipped, true},
		{core.POConfirmed, core.POCancelled, true},
		{core.POShipped, core.PODelivered, true},
		{core.POShipped, core.POCancelled, false},
		{core.PODelivered, core.POShipped, false},
		{core.POCancelled, core.PODraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			_, err := core.PurchaseOrder{ID: "p", Status: tt.from}.Transition(tt.to, t0)
			if tt.allowed != (err == nil) {
				t.Errorf("allowed=%v, err=%v", tt.allowed, err)
			}
		})
	}
}

func TestTransition_DisallowedNeverMutates(t *testing.T) {
	sent := t0
	q := core.Quote{ID: "q", Status: core.QuoteSent, SentAt: &sent, UpdatedAt: t0}
	snapshot := q

	_, err := q.Transition(core.QuoteDraft, t1)
	var ite *core.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTransitionError, got %v", err)
	}
	if ite.From != string(core.QuoteSent) || ite.To != string(core.QuoteDraft) || ite.Document != core.KindQuote {
		t.Errorf("unexpected error detail: %+v", ite)
	}
	if !reflect.DeepEqual(q, snapshot) {
		t.Errorf("input mutated: got %+v, want %+v", q, snapshot)
	}
}

func TestJobTransition_StartStampedOnce(t *testing.T) {
	j := core.Job{ID: "j", Status: core.JobScheduled}

	steps := []struct {
		to  core.JobStatus
		now time.Time
	}{
		{core.JobInProgress, t0},
		{core.JobBlocked, t1},
		{core.JobInProgress, t2},
		{core.JobCompleted, t3},
	}
	for _, s := range steps {
		var err error
		j, err = j.Transition(s.to, s.now)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", s.to, err)
		}
	}
	if j.ActualStart == nil || !j.ActualStart.Equal(t0) {
		t.Errorf("ActualStart = %v, want %v", j.ActualStart, t0)
	}
	if j.ActualEnd == nil || !j.ActualEnd.Equal(t3) {
		t.Errorf("ActualEnd = %v, want %v", j.ActualEnd, t3)
	}
}

func TestJobTransition_DoesNotShareTimestamps(t *testing.T) {
	j := core.Job{ID: "j", Status: core.JobPlanned}
	started, err := j.Transition(core.JobInProgress, t0)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if j.ActualStart != nil {
		t.Error("Transition stamped the receiver")
	}
	if started.ActualStart == nil {
		t.Fatal("ActualStart not set")
	}
}

func TestQuoteTransition_Stamps(t *testing.T) {
	q := core.Quote{ID: "q", Status: core.QuoteDraft}
	q, _ = q.Transition(core.QuoteSent, t0)
	q, _ = q.Transition(core.QuoteViewed, t1)
	q, err := q.Transition(core.QuoteAccepted, t2)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if q.SentAt == nil || !q.SentAt.Equal(t0) {
		t.Errorf("SentAt = %v, want %v", q.SentAt, t0)
	}
	if q.ViewedAt == nil || !q.ViewedAt.Equal(t1) {
		t.Errorf("ViewedAt = %v, want %v", q.ViewedAt, t1)
	}
	if q.AcceptedAt == nil || !q.AcceptedAt.Equal(t2) {
		t.Errorf("AcceptedAt = %v, want %v", q.AcceptedAt, t2)
	}
	if q.RejectedAt != nil {
		t.Errorf("RejectedAt set on accepted quote")
	}
}

func TestPurchaseOrderTransition_DeliveryStampedOnce(t *testing.T) {
	preset := t0
	po := core.PurchaseOrder{ID: "p", Status: core.POShipped, ActualDeliveryDate: &preset}
	po, err := po.Transition(core.PODelivered, t3)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !po.ActualDeliveryDate.Equal(t0) {
		t.Errorf("ActualDeliveryDate overwritten: %v", po.ActualDeliveryDate)
	}

	fresh := core.PurchaseOrder{ID: "p2", Status: core.POShipped}
	fresh, _ = fresh.Transition(core.PODelivered, t3)
	if fresh.ActualDeliveryDate == nil || !fresh.ActualDeliveryDate.Equal(t3) {
		t.Errorf("ActualDeliveryDate = %v, want %v", fresh.ActualDeliveryDate, t3)
	}
}

func TestNextStatuses_ReturnsCopy(t *testing.T) {
	next := core.NextQuoteStatuses(core.QuoteDraft)
	next[0] = core.QuoteAccepted
	if core.NextQuoteStatuses(core.QuoteDraft)[0] != core.QuoteUnderReview {
		t.Error("NextQuoteStatuses exposed the transition table")
	}
	if len(core.NextJobStatuses(core.JobArchived)) != 0 {
		t.Error("Archived job must have no successors")
	}
	if len(core.NextInvoiceStatuses(core.InvoicePaid)) != 0 {
		t.Error("Paid invoice must have no successors")
	}
	if len(core.NextPurchaseOrderStatuses(core.PODelivered)) != 0 {
		t.Error("Delivered order must have no successors")
	}
}

package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"fieldops/internal/core"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func acceptedQuote(t *testing.T) core.Quote {
	t.Helper()
	agg := core.Aggregate{
		TaxRate: d("0.077"),
		Lines: []core.LineItem{
			{ID: "l1", Description: "Heat pump", Quantity: d("2"), UnitPrice: d("800")},
			{ID: "l2", Description: "Radiator valve", Quantity: d("4"), UnitPrice: d("190")},
		},
	}
	if err := agg.Recompute(); err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	return core.Quote{ID: "q-1", ClientID: "c-1", BuildingID: "b-1", Title: "Heating upgrade", Status: core.QuoteAccepted, Aggregate: agg}
}

func TestJobFromQuote(t *testing.T) {
	q := acceptedQuote(t)
	job, err := core.JobFromQuote(q, core.JobOverrides{}, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("JobFromQuote failed: %v", err)
	}

	if job.Status != core.JobPlanned {
		t.Errorf("Status = %s, want Planned", job.Status)
	}
	if job.QuoteID != q.ID || job.ClientID != "c-1" || job.BuildingID != "b-1" {
		t.Errorf("references not carried over: %+v", job)
	}
	if !job.EstimatedCost.Equal(d("2541.72")) {
		t.Errorf("EstimatedCost = %s, want 2541.72", job.EstimatedCost)
	}
	if job.Progress != 0 {
		t.Errorf("Progress = %d, want 0", job.Progress)
	}
	if job.Priority != core.PriorityMedium {
		t.Errorf("Priority = %s, want medium", job.Priority)
	}

	wantHours := []string{"4", "12", "2", "1", "1"}
	if len(job.Tasks) != len(wantHours) {
		t.Fatalf("expected %d tasks, got %d", len(wantHours), len(job.Tasks))
	}
	for i, task := range job.Tasks {
		if !task.EstimatedHours.Equal(d(wantHours[i])) {
			t.Errorf("task %q hours = %s, want %s", task.Title, task.EstimatedHours, wantHours[i])
		}
		if task.JobID != job.ID || task.Status != core.TaskPending {
			t.Errorf("task %q not attached as pending: %+v", task.Title, task)
		}
	}
	if job.LaborHours == nil || !job.LaborHours.Equal(d("20")) {
		t.Errorf("LaborHours = %v, want 20", job.LaborHours)
	}
}

func TestJobFromQuote_Overrides(t *testing.T) {
	start, end := day(2026, 3, 9, 8), day(2026, 3, 11, 17)
	hours := d("30")
	o := core.JobOverrides{
		Title:          "Custom",
		ScheduledStart: &start,
		ScheduledEnd:   &end,
		Priority:       core.PriorityUrgent,
		AssignedTeam:   []string{"anna"},
		LaborHours:     &hours,
	}
	job, err := core.JobFromQuote(acceptedQuote(t), o, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("JobFromQuote failed: %v", err)
	}
	if job.Title != "Custom" || job.Priority != core.PriorityUrgent || !job.HasMember("anna") {
		t.Errorf("overrides not applied: %+v", job)
	}
	if !job.Scheduled() || !job.ScheduledStart.Equal(start) {
		t.Errorf("schedule not applied: %v %v", job.ScheduledStart, job.ScheduledEnd)
	}
	if !job.LaborHours.Equal(hours) {
		t.Errorf("LaborHours = %s, want 30", job.LaborHours)
	}
	start = start.AddDate(1, 0, 0)
	if job.ScheduledStart.Equal(start) {
		t.Error("job shares the caller's time value")
	}
}

func TestJobFromQuote_Rejections(t *testing.T) {
	start, end := day(2026, 3, 9, 8), day(2026, 3, 11, 17)
	tests := []struct {
		name   string
		status core.QuoteStatus
		o      core.JobOverrides
		want   error
	}{
		{"draft quote", core.QuoteDraft, core.JobOverrides{}, core.ErrPrecondition},
		{"sent quote", core.QuoteSent, core.JobOverrides{}, core.ErrPrecondition},
		{"rejected quote", core.QuoteRejected, core.JobOverrides{}, core.ErrPrecondition},
		{"end before start", core.QuoteAccepted, core.JobOverrides{ScheduledStart: &end, ScheduledEnd: &start}, core.ErrValidation},
		{"start without end", core.QuoteAccepted, core.JobOverrides{ScheduledStart: &start}, core.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := acceptedQuote(t)
			q.Status = tt.status
			if _, err := core.JobFromQuote(q, tt.o, core.DefaultPolicy(), t0, seqIDs()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func completedJob() core.Job {
	return core.Job{ID: "j-1", ClientID: "c-1", Title: "Heating upgrade", Status: core.JobCompleted, EstimatedCost: d("2541.72")}
}

func TestInvoiceFromJob(t *testing.T) {
	inv, err := core.InvoiceFromJob(completedJob(), "INV-2026-00001", core.InvoiceOverrides{}, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("InvoiceFromJob failed: %v", err)
	}
	if inv.JobID != "j-1" || inv.ClientID != "c-1" || inv.Status != core.InvoiceDraft {
		t.Errorf("unexpected header: %+v", inv)
	}
	if len(inv.Lines) != 1 || !inv.Lines[0].UnitPrice.Equal(d("2541.72")) {
		t.Fatalf("unexpected lines: %+v", inv.Lines)
	}
	// 2541.72 * 0.077 = 195.71244
	if !inv.TaxAmount.Equal(d("195.71")) || !inv.Total.Equal(d("2737.43")) {
		t.Errorf("TaxAmount=%s Total=%s", inv.TaxAmount, inv.Total)
	}
	if !inv.Balance.Equal(inv.Total) || !inv.PaidAmount.IsZero() {
		t.Errorf("Balance=%s PaidAmount=%s", inv.Balance, inv.PaidAmount)
	}
	if want := day(2026, 4, 1, 0); !inv.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", inv.DueDate, want)
	}
	if inv.PaymentTerms != core.DefaultPaymentTerms {
		t.Errorf("PaymentTerms = %q", inv.PaymentTerms)
	}
	if !core.ValidStructuredReference(inv.StructuredReference) {
		t.Errorf("invalid structured reference %q", inv.StructuredReference)
	}
}

func TestInvoiceFromJob_PrefersActualCost(t *testing.T) {
	j := completedJob()
	actual := d("1626.27")
	j.ActualCost = &actual
	inv, err := core.InvoiceFromJob(j, "INV-2026-00002", core.InvoiceOverrides{}, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("InvoiceFromJob failed: %v", err)
	}
	if !inv.Subtotal.Equal(actual) {
		t.Errorf("Subtotal = %s, want %s", inv.Subtotal, actual)
	}
	// 1626.27 * 1.077 rounded at the tax step: 125.22279 -> 125.22
	if !inv.Total.Equal(d("1751.49")) {
		t.Errorf("Total = %s, want 1751.49", inv.Total)
	}
}

func TestInvoiceFromJob_RequiresCompletedJob(t *testing.T) {
	for _, status := range []core.JobStatus{core.JobPlanned, core.JobScheduled, core.JobInProgress, core.JobBlocked} {
		j := completedJob()
		j.Status = status
		_, err := core.InvoiceFromJob(j, "INV-2026-00001", core.InvoiceOverrides{}, core.DefaultPolicy(), t0, seqIDs())
		if !errors.Is(err, core.ErrPrecondition) {
			t.Errorf("%s: expected ErrPrecondition, got %v", status, err)
		}
	}
}

func TestPurchaseOrderFromJob(t *testing.T) {
	sup := core.Supplier{ID: "s-1", Name: "Sanitär AG", LeadTimeDays: 5, PaymentTerms: "NET 45", IsActive: true}
	j := completedJob()
	j.Status = core.JobScheduled

	po, err := core.PurchaseOrderFromJob(j, sup, "PO-2026-00001", core.PurchaseOrderOverrides{}, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("PurchaseOrderFromJob failed: %v", err)
	}
	if po.JobID != j.ID || po.SupplierID != sup.ID || po.Status != core.PODraft {
		t.Errorf("unexpected header: %+v", po)
	}
	// 2541.72 * 0.6 = 1525.032 -> 1525.03
	if len(po.Lines) != 1 || !po.Lines[0].UnitPrice.Equal(d("1525.03")) {
		t.Fatalf("unexpected lines: %+v", po.Lines)
	}
	if want := day(2026, 3, 7, 0); !po.RequestedDeliveryDate.Equal(want) {
		t.Errorf("RequestedDeliveryDate = %v, want %v", po.RequestedDeliveryDate, want)
	}
	if po.PaymentTerms != "NET 45" {
		t.Errorf("PaymentTerms = %q, want supplier terms", po.PaymentTerms)
	}
	if !po.FinalTotal.Equal(po.Total) {
		t.Errorf("FinalTotal = %s, want %s", po.FinalTotal, po.Total)
	}
}

func TestPurchaseOrderFromJob_Charges(t *testing.T) {
	sup := core.Supplier{ID: "s-1", LeadTimeDays: 2, IsActive: true}
	o := core.PurchaseOrderOverrides{
		Lines:        []core.LineInput{{Description: "Pipe", Quantity: d("10"), UnitPrice: d("12.50")}},
		TaxRate:      ptr(decimal.Zero),
		ShippingCost: d("25"),
		Discount:     d("5.50"),
	}
	po, err := core.PurchaseOrderFromJob(completedJob(), sup, "PO-2026-00002", o, core.DefaultPolicy(), t0, seqIDs())
	if err != nil {
		t.Fatalf("PurchaseOrderFromJob failed: %v", err)
	}
	if !po.FinalTotal.Equal(d("144.5")) {
		t.Errorf("FinalTotal = %s, want 144.50", po.FinalTotal)
	}

	next, err := po.SetCharges(d("0"), d("10"), t1)
	if err != nil {
		t.Fatalf("SetCharges failed: %v", err)
	}
	if !next.FinalTotal.Equal(d("115")) {
		t.Errorf("FinalTotal = %s, want 115", next.FinalTotal)
	}
	if _, err := po.SetCharges(d("0"), d("200"), t1); !errors.Is(err, core.ErrValidation) {
		t.Errorf("discount above order value: expected ErrValidation, got %v", err)
	}

	shipped := po
	shipped.Status = core.POShipped
	if _, err := shipped.SetCharges(d("1"), d("0"), t1); !errors.Is(err, core.ErrPrecondition) {
		t.Errorf("shipped order: expected ErrPrecondition, got %v", err)
	}
}

func TestPurchaseOrderFromJob_Rejections(t *testing.T) {
	active := core.Supplier{ID: "s-1", IsActive: true}
	inactive := core.Supplier{ID: "s-2"}
	archived := completedJob()
	archived.Status = core.JobArchived

	if _, err := core.PurchaseOrderFromJob(completedJob(), inactive, "PO-1", core.PurchaseOrderOverrides{}, core.DefaultPolicy(), t0, seqIDs()); !errors.Is(err, core.ErrPrecondition) {
		t.Errorf("inactive supplier: expected ErrPrecondition, got %v", err)
	}
	if _, err := core.PurchaseOrderFromJob(archived, active, "PO-1", core.PurchaseOrderOverrides{}, core.DefaultPolicy(), t0, seqIDs()); !errors.Is(err, core.ErrPrecondition) {
		t.Errorf("archived job: expected ErrPrecondition, got %v", err)
	}
	neg := core.PurchaseOrderOverrides{ShippingCost: d("-1")}
	if _, err := core.PurchaseOrderFromJob(completedJob(), active, "PO-1", neg, core.DefaultPolicy(), t0, seqIDs()); !errors.Is(err, core.ErrValidation) {
		t.Errorf("negative shipping: expected ErrValidation, got %v", err)
	}
}

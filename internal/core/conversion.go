package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConversionPolicy holds the tunable heuristics of the conversion pipeline.
// None of them are load-bearing; they only seed defaults a user can edit.
type ConversionPolicy struct {
	InstallHoursPerUnit decimal.Decimal // installation hours per quoted unit
	MaterialsShare      decimal.Decimal // share of a job estimate ordered as materials
	InvoiceDueDays      int
	DefaultTaxRate      decimal.Decimal
}

// DefaultPolicy returns the stock conversion heuristics.
func DefaultPolicy() ConversionPolicy {
	return ConversionPolicy{
		InstallHoursPerUnit: decimal.NewFromInt(2),
		MaterialsShare:      decimal.RequireFromString("0.6"),
		InvoiceDueDays:      30,
		DefaultTaxRate:      decimal.RequireFromString("0.077"),
	}
}

type taskTemplate struct {
	title       string
	description string
	hours       decimal.Decimal
}

func (p ConversionPolicy) defaultTasks(q Quote) []taskTemplate {
	units := decimal.Zero
	for _, l := range q.Lines {
		units = units.Add(l.Quantity)
	}
	return []taskTemplate{
		{"Site preparation", "Protect the work area and stage materials", decimal.NewFromInt(4)},
		{"Installation", "Install the quoted items", units.Mul(p.InstallHoursPerUnit)},
		{"Quality control", "Inspect the installation against the quote", decimal.NewFromInt(2)},
		{"Cleanup", "Remove debris and packaging", decimal.NewFromInt(1)},
		{"Handover", "Walk the client through the finished work", decimal.NewFromInt(1)},
	}
}

// JobFromQuote derives a Planned job from an Accepted quote. The quote is not
// modified.
func JobFromQuote(q Quote, o JobOverrides, p ConversionPolicy, now time.Time, newID func() string) (Job, error) {
	if q.Status != QuoteAccepted {
		return Job{}, &PreconditionError{Document: KindQuote, ID: q.ID, Reason: "quote must be Accepted, is " + string(q.Status)}
	}
	if err := checkSchedule(o.ScheduledStart, o.ScheduledEnd); err != nil {
		return Job{}, err
	}
	if o.LaborHours != nil && o.LaborHours.IsNegative() {
		return Job{}, invalid("labor_hours", "must be >= 0, got %s", *o.LaborHours)
	}

	job := Job{
		ID:             newID(),
		QuoteID:        q.ID,
		ClientID:       q.ClientID,
		BuildingID:     q.BuildingID,
		Title:          firstNonEmpty(o.Title, q.Title),
		Description:    firstNonEmpty(o.Description, q.Description),
		Status:         JobPlanned,
		Priority:       o.Priority,
		ScheduledStart: copyTime(o.ScheduledStart),
		ScheduledEnd:   copyTime(o.ScheduledEnd),
		EstimatedCost:  q.Total,
		AssignedTeam:   append([]string{}, o.AssignedTeam...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if job.Priority == "" {
		job.Priority = PriorityMedium
	}
	for _, tpl := range p.defaultTasks(q) {
		job.Tasks = append(job.Tasks, Task{
			ID:             newID(),
			JobID:          job.ID,
			Title:          tpl.title,
			Description:    tpl.description,
			Status:         TaskPending,
			EstimatedHours: tpl.hours,
		})
	}
	hours := job.EstimatedHours()
	if o.LaborHours != nil {
		hours = *o.LaborHours
	}
	job.LaborHours = &hours
	job.Progress = ComputeProgress(job.Tasks)
	return job, nil
}

// InvoiceFromJob bills a Completed or Archived job under number. The default
// line is priced at the actual cost, falling back to the estimate.
func InvoiceFromJob(j Job, number string, o InvoiceOverrides, p ConversionPolicy, now time.Time, newID func() string) (Invoice, error) {
	if j.Status != JobCompleted && j.Status != JobArchived {
		return Invoice{}, &PreconditionError{Document: KindJob, ID: j.ID, Reason: "job must be Completed, is " + string(j.Status)}
	}

	lines := o.Lines
	if len(lines) == 0 {
		price := j.EstimatedCost
		if j.ActualCost != nil {
			price = *j.ActualCost
		}
		lines = []LineInput{{
			Description: fmt.Sprintf("Services for job: %s", j.Title),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   price,
		}}
	}
	agg, err := newAggregate(lines, valueOr(o.TaxRate, p.DefaultTaxRate), newID)
	if err != nil {
		return Invoice{}, err
	}

	issue := startOfDay(now)
	due := issue.AddDate(0, 0, p.InvoiceDueDays)
	if o.DueDate != nil {
		due = *o.DueDate
	}
	if due.Before(issue) {
		return Invoice{}, invalid("due_date", "must not precede the issue date")
	}

	return Invoice{
		ID:                  newID(),
		InvoiceNumber:       number,
		JobID:               j.ID,
		ClientID:            j.ClientID,
		Status:              InvoiceDraft,
		Aggregate:           agg,
		PaidAmount:          decimal.Zero,
		Balance:             agg.Total,
		IssueDate:           issue,
		DueDate:             due,
		PaymentTerms:        firstNonEmpty(o.PaymentTerms, DefaultPaymentTerms),
		StructuredReference: StructuredReference(number),
		Payments:            []Payment{},
		Notes:               o.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// PurchaseOrderFromJob orders materials for j from supplier under number. The
// default line is MaterialsShare of the job estimate, and delivery is
// requested after the supplier's lead time.
func PurchaseOrderFromJob(j Job, s Supplier, number string, o PurchaseOrderOverrides, p ConversionPolicy, now time.Time, newID func() string) (PurchaseOrder, error) {
	if j.Status == JobArchived {
		return PurchaseOrder{}, &PreconditionError{Document: KindJob, ID: j.ID, Reason: "job is Archived"}
	}
	if !s.IsActive {
		return PurchaseOrder{}, &PreconditionError{Document: KindSupplier, ID: s.ID, Reason: "supplier is inactive"}
	}

	lines := o.Lines
	if len(lines) == 0 {
		lines = []LineInput{{
			Description: fmt.Sprintf("Materials for job: %s", j.Title),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   RoundMoney(j.EstimatedCost.Mul(p.MaterialsShare)),
		}}
	}
	agg, err := newAggregate(lines, valueOr(o.TaxRate, p.DefaultTaxRate), newID)
	if err != nil {
		return PurchaseOrder{}, err
	}

	orderDate := startOfDay(now)
	delivery := orderDate.AddDate(0, 0, s.LeadTimeDays)
	if o.RequestedDeliveryDate != nil {
		delivery = *o.RequestedDeliveryDate
	}

	po := PurchaseOrder{
		ID:                    newID(),
		PONumber:              number,
		JobID:                 j.ID,
		SupplierID:            s.ID,
		Status:                PODraft,
		Aggregate:             agg,
		OrderDate:             orderDate,
		RequestedDeliveryDate: delivery,
		PaymentTerms:          firstNonEmpty(o.PaymentTerms, s.PaymentTerms),
		Priority:              o.Priority,
		Notes:                 o.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if po.Priority == "" {
		po.Priority = PriorityMedium
	}
	if err := po.applyCharges(o.ShippingCost, o.Discount); err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

func checkSchedule(start, end *time.Time) error {
	if (start == nil) != (end == nil) {
		return invalid("schedule", "start and end must be set together")
	}
	if start != nil && end.Before(*start) {
		return invalid("schedule", "end %s precedes start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func valueOr(d *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if d == nil {
		return fallback
	}
	return *d
}

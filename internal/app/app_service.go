package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldops/internal/ai"
	"fieldops/internal/core"
	"fieldops/internal/flags"
)

type appService struct {
	engine        *core.Engine
	flags         flags.Set
	quotes        core.QuoteService
	jobs          core.JobService
	invoices      core.InvoiceService
	purchaseOrder core.PurchaseOrderService
	masterData    core.MasterDataService
	schedule      core.ScheduleService
	drafter       ai.DrafterService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// drafter may be nil when no AI provider is configured.
func NewAppService(engine *core.Engine, fl flags.Set, drafter ai.DrafterService) ApplicationService {
	return &appService{
		engine:        engine,
		flags:         fl,
		quotes:        core.NewQuoteService(engine),
		jobs:          core.NewJobService(engine),
		invoices:      core.NewInvoiceService(engine),
		purchaseOrder: core.NewPurchaseOrderService(engine),
		masterData:    core.NewMasterDataService(engine),
		schedule:      core.NewScheduleService(engine),
		drafter:       drafter,
	}
}

func (s *appService) requireFlag(key string) error {
	if !s.flags.Enabled(key) {
		return fmt.Errorf("%w: %s", ErrFeatureDisabled, key)
	}
	return nil
}

// ── Quotes ────────────────────────────────────────────────────────────────────

func (s *appService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResult, error) {
	q, err := s.quotes.CreateQuote(ctx, core.QuoteInput{
		ClientID:     strings.TrimSpace(req.ClientID),
		BuildingID:   strings.TrimSpace(req.BuildingID),
		Title:        req.Title,
		Description:  req.Description,
		Lines:        lineInputs(req.Lines),
		ValidityDays: req.ValidityDays,
		TaxRate:      req.TaxRate,
	})
	if err != nil {
		return nil, err
	}
	return s.quoteResult(q), nil
}

func (s *appService) AddQuoteLine(ctx context.Context, quoteID string, req LineRequest) (*QuoteResult, error) {
	q, err := s.quotes.AddQuoteLine(ctx, quoteID, lineInput(req))
	if err != nil {
		return nil, err
	}
	return s.quoteResult(q), nil
}

func (s *appService) TransitionQuote(ctx context.Context, quoteID string, req TransitionRequest) (*QuoteResult, error) {
	to, err := requireStatus(req.Status)
	if err != nil {
		return nil, err
	}
	q, err := s.quotes.TransitionQuote(ctx, quoteID, core.QuoteStatus(to), req.Reason)
	if err != nil {
		return nil, err
	}
	return s.quoteResult(q), nil
}

func (s *appService) ConvertQuoteToJob(ctx context.Context, quoteID string, req ConvertQuoteRequest) (*JobResult, error) {
	start, err := parseDate("scheduled_start", req.ScheduledStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("scheduled_end", req.ScheduledEnd)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	j, err := s.quotes.ConvertToJob(ctx, quoteID, core.JobOverrides{
		Title:          req.Title,
		Description:    req.Description,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Priority:       priority,
		AssignedTeam:   req.AssignedTeam,
		LaborHours:     req.LaborHours,
	})
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: j}, nil
}

func (s *appService) GetQuote(ctx context.Context, quoteID string) (*QuoteResult, error) {
	q, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return s.quoteResult(q), nil
}

func (s *appService) ListQuotes(ctx context.Context, req ListRequest) (*QuoteListResult, error) {
	quotes, err := s.quotes.GetQuotes(ctx, filter(req))
	if err != nil {
		return nil, err
	}
	return &QuoteListResult{Quotes: quotes}, nil
}

func (s *appService) quoteResult(q *core.Quote) *QuoteResult {
	return &QuoteResult{Quote: q, Expired: q.IsExpired(s.engine.Now())}
}

func (s *appService) DraftQuote(ctx context.Context, req DraftQuoteRequest) (*DraftResult, error) {
	if err := s.requireFlag(flags.AIQuoteDrafting); err != nil {
		return nil, err
	}
	if s.drafter == nil {
		return nil, fmt.Errorf("%w: no AI provider configured", ErrFeatureDisabled)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &core.ValidationError{Field: "description", Reason: "is required"}
	}

	draft, err := s.drafter.DraftQuoteLines(ctx, req.Description)
	if err != nil {
		return nil, fmt.Errorf("draft quote: %w", err)
	}
	rate := s.engine.Policy.DefaultTaxRate
	if req.TaxRate != nil {
		rate = *req.TaxRate
	}
	inputs, totals, err := draft.Inputs(rate)
	if err != nil {
		return nil, err
	}

	lines := make([]core.LineItem, len(inputs))
	for i, in := range inputs {
		lines[i] = core.LineItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Total:       core.ComputeLineTotal(in.Quantity, in.UnitPrice),
		}
	}
	return &DraftResult{
		Lines:              lines,
		Totals:             totals,
		Risks:              draft.Risks,
		MissingInformation: draft.MissingInformation,
		Reasoning:          draft.Reasoning,
	}, nil
}

// ── Jobs ──────────────────────────────────────────────────────────────────────

func (s *appService) TransitionJob(ctx context.Context, jobID string, req TransitionRequest) (*JobResult, error) {
	to, err := requireStatus(req.Status)
	if err != nil {
		return nil, err
	}
	j, err := s.jobs.TransitionJob(ctx, jobID, core.JobStatus(to))
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: j}, nil
}

func (s *appService) UpdateTask(ctx context.Context, jobID, taskID string, req UpdateTaskRequest) (*JobResult, error) {
	u := core.TaskUpdate{
		ActualHours:   req.ActualHours,
		BlockedReason: req.BlockedReason,
		AssignedTo:    req.AssignedTo,
	}
	if req.Status != nil {
		st := core.TaskStatus(strings.TrimSpace(*req.Status))
		u.Status = &st
	}
	j, err := s.jobs.UpdateTask(ctx, jobID, taskID, u)
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: j}, nil
}

func (s *appService) AssignTeam(ctx context.Context, jobID string, req AssignTeamRequest) (*AssignTeamResult, error) {
	start, err := parseDate("scheduled_start", req.ScheduledStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("scheduled_end", req.ScheduledEnd)
	if err != nil {
		return nil, err
	}
	j, conflicts, err := s.jobs.AssignTeam(ctx, jobID, req.MemberIDs, start, end)
	if err != nil {
		return nil, err
	}
	return &AssignTeamResult{Job: j, Conflicts: conflicts}, nil
}

func (s *appService) GetJob(ctx context.Context, jobID string) (*JobResult, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: j}, nil
}

func (s *appService) ListJobs(ctx context.Context, req ListRequest) (*JobListResult, error) {
	jobs, err := s.jobs.GetJobs(ctx, filter(req))
	if err != nil {
		return nil, err
	}
	return &JobListResult{Jobs: jobs}, nil
}

// ── Invoices ──────────────────────────────────────────────────────────────────

func (s *appService) CreateInvoice(ctx context.Context, jobID string, req CreateInvoiceRequest) (*InvoiceResult, error) {
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.CreateFromJob(ctx, jobID, core.InvoiceOverrides{
		Lines:        lineInputs(req.Lines),
		TaxRate:      req.TaxRate,
		DueDate:      due,
		PaymentTerms: req.PaymentTerms,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceResult(inv), nil
}

func (s *appService) TransitionInvoice(ctx context.Context, invoiceID string, req TransitionRequest) (*InvoiceResult, error) {
	to, err := requireStatus(req.Status)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.TransitionInvoice(ctx, invoiceID, core.InvoiceStatus(to))
	if err != nil {
		return nil, err
	}
	return s.invoiceResult(inv), nil
}

func (s *appService) RecordPayment(ctx context.Context, invoiceID string, req PaymentRequest) (*InvoiceResult, error) {
	paid, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoices.RecordPayment(ctx, invoiceID, core.PaymentInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   paid,
		Reference:     req.Reference,
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceResult(inv), nil
}

func (s *appService) SendReminder(ctx context.Context, invoiceID string) (*ReminderResult, error) {
	inv, sent, err := s.invoices.SendReminder(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &ReminderResult{Invoice: inv, Sent: sent}, nil
}

func (s *appService) GetInvoice(ctx context.Context, invoiceID string) (*InvoiceResult, error) {
	inv, err := s.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.invoiceResult(inv), nil
}

func (s *appService) ListInvoices(ctx context.Context, req ListRequest) (*InvoiceListResult, error) {
	invoices, err := s.invoices.GetInvoices(ctx, filter(req))
	if err != nil {
		return nil, err
	}
	out := make([]InvoiceResult, len(invoices))
	for i := range invoices {
		out[i] = *s.invoiceResult(&invoices[i])
	}
	return &InvoiceListResult{Invoices: out}, nil
}

func (s *appService) invoiceResult(inv *core.Invoice) *InvoiceResult {
	return &InvoiceResult{Invoice: inv, EffectiveStatus: inv.EffectiveStatus(s.engine.Now())}
}

// ── Purchase orders ───────────────────────────────────────────────────────────

func (s *appService) CreatePurchaseOrder(ctx context.Context, jobID string, req CreatePurchaseOrderRequest) (*PurchaseOrderResult, error) {
	if err := s.requireFlag(flags.PurchaseOrders); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SupplierID) == "" {
		return nil, &core.ValidationError{Field: "supplier_id", Reason: "is required"}
	}
	delivery, err := parseDate("requested_delivery_date", req.RequestedDeliveryDate)
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	po, err := s.purchaseOrder.CreateFromJob(ctx, jobID, req.SupplierID, core.PurchaseOrderOverrides{
		Lines:                 lineInputs(req.Lines),
		TaxRate:               req.TaxRate,
		ShippingCost:          req.ShippingCost,
		Discount:              req.Discount,
		RequestedDeliveryDate: delivery,
		PaymentTerms:          req.PaymentTerms,
		Priority:              priority,
		Notes:                 req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{PurchaseOrder: po}, nil
}

func (s *appService) TransitionPurchaseOrder(ctx context.Context, poID string, req TransitionRequest) (*PurchaseOrderResult, error) {
	to, err := requireStatus(req.Status)
	if err != nil {
		return nil, err
	}
	po, err := s.purchaseOrder.TransitionPurchaseOrder(ctx, poID, core.PurchaseOrderStatus(to))
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{PurchaseOrder: po}, nil
}

func (s *appService) UpdatePurchaseOrderCharges(ctx context.Context, poID string, req ChargesRequest) (*PurchaseOrderResult, error) {
	po, err := s.purchaseOrder.UpdateCharges(ctx, poID, req.ShippingCost, req.Discount)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{PurchaseOrder: po}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrderResult, error) {
	po, err := s.purchaseOrder.GetPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{PurchaseOrder: po}, nil
}

func (s *appService) ListPurchaseOrders(ctx context.Context, req ListRequest) (*PurchaseOrderListResult, error) {
	pos, err := s.purchaseOrder.GetPurchaseOrders(ctx, filter(req))
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{PurchaseOrders: pos}, nil
}

// ── Master data & scheduling ──────────────────────────────────────────────────

func (s *appService) PutSupplier(ctx context.Context, supplierID string, req SupplierRequest) (*SupplierResult, error) {
	sup, err := s.masterData.PutSupplier(ctx, core.Supplier{
		ID:            supplierID,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Categories:    req.Categories,
		LeadTimeDays:  req.LeadTimeDays,
		PaymentTerms:  req.PaymentTerms,
		IsActive:      req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &SupplierResult{Supplier: sup}, nil
}

func (s *appService) PutTeamMember(ctx context.Context, memberID string, req TeamMemberRequest) (*TeamMemberResult, error) {
	avail, err := parseAvailability(req.Availability)
	if err != nil {
		return nil, err
	}
	m, err := s.masterData.PutTeamMember(ctx, core.TeamMember{
		ID:           memberID,
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Skills:       req.Skills,
		HourlyRate:   req.HourlyRate,
		Availability: avail,
		IsActive:     req.IsActive == nil || *req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	return &TeamMemberResult{Member: m}, nil
}

func (s *appService) ListTeamMembers(ctx context.Context) (*TeamListResult, error) {
	members, err := s.masterData.GetTeamMembers(ctx)
	if err != nil {
		return nil, err
	}
	return &TeamListResult{Members: members}, nil
}

func (s *appService) Availability(ctx context.Context, date string) (*AvailabilityResult, error) {
	d, err := s.dateOrToday("date", date)
	if err != nil {
		return nil, err
	}
	rows, err := s.schedule.Availability(ctx, d)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{Date: d.Format(dateLayout), Members: rows}, nil
}

func (s *appService) Utilization(ctx context.Context, memberID, week string) (*UtilizationResult, error) {
	d, err := s.dateOrToday("week", week)
	if err != nil {
		return nil, err
	}
	r, err := s.schedule.Utilization(ctx, memberID, d)
	if err != nil {
		return nil, err
	}
	return &UtilizationResult{Report: r}, nil
}

func (s *appService) Flags() []flags.Flag {
	return s.flags.All()
}

func (s *appService) dateOrToday(field, raw string) (time.Time, error) {
	d, err := parseDate(field, raw)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return s.engine.Now(), nil
	}
	return *d, nil
}

// ── Parsing helpers ───────────────────────────────────────────────────────────

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339. Empty yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &core.ValidationError{Field: field, Reason: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD or RFC 3339", raw)}
	}
	t = t.UTC()
	return &t, nil
}

func requireStatus(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &core.ValidationError{Field: "status", Reason: "is required"}
	}
	return raw, nil
}

func parsePriority(raw string) (core.Priority, error) {
	p := core.Priority(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "", core.PriorityLow, core.PriorityMedium, core.PriorityHigh, core.PriorityUrgent:
		return p, nil
	}
	return "", &core.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", raw)}
}

func parseAvailability(days []string) (core.WeeklyAvailability, error) {
	var a core.WeeklyAvailability
	for _, day := range days {
		switch strings.ToLower(strings.TrimSpace(day)) {
		case "monday", "mon":
			a.Monday = true
		case "tuesday", "tue":
			a.Tuesday = true
		case "wednesday", "wed":
			a.Wednesday = true
		case "thursday", "thu":
			a.Thursday = true
		case "friday", "fri":
			a.Friday = true
		case "saturday", "sat":
			a.Saturday = true
		case "sunday", "sun":
			a.Sunday = true
		default:
			return core.WeeklyAvailability{}, &core.ValidationError{Field: "availability", Reason: fmt.Sprintf("unknown weekday %q", day)}
		}
	}
	return a, nil
}

func filter(req ListRequest) core.Filter {
	return core.Filter{
		Status:   strings.TrimSpace(req.Status),
		ParentID: strings.TrimSpace(req.ParentID),
		PartyID:  strings.TrimSpace(req.PartyID),
	}
}

func lineInput(l LineRequest) core.LineInput {
	return core.LineInput{
		ProductID:   l.ProductID,
		Description: l.Description,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Notes:       l.Notes,
	}
}

func lineInputs(lines []LineRequest) []core.LineInput {
	if len(lines) == 0 {
		return nil
	}
	out := make([]core.LineInput, len(lines))
	for i, l := range lines {
		out[i] = lineInput(l)
	}
	return out
}

package app

import (
	"context"
	"errors"

	"fieldops/internal/flags"
)

// ErrFeatureDisabled is returned when a flag-gated operation is switched off.
var ErrFeatureDisabled = errors.New("feature disabled")

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from the workflow engine. Implementations must
// contain no fmt.Println and no display logic of any kind.
type ApplicationService interface {
	// CreateQuote stores a new Draft quote.
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (*QuoteResult, error)

	// AddQuoteLine appends a line to a Draft or UnderReview quote.
	AddQuoteLine(ctx context.Context, quoteID string, req LineRequest) (*QuoteResult, error)

	// TransitionQuote moves a quote along its lifecycle. Reason is kept on Rejected.
	TransitionQuote(ctx context.Context, quoteID string, req TransitionRequest) (*QuoteResult, error)

	// ConvertQuoteToJob derives a Planned job from an Accepted quote.
	ConvertQuoteToJob(ctx context.Context, quoteID string, req ConvertQuoteRequest) (*JobResult, error)

	GetQuote(ctx context.Context, quoteID string) (*QuoteResult, error)
	ListQuotes(ctx context.Context, req ListRequest) (*QuoteListResult, error)

	// DraftQuote asks the AI drafter for quote lines. Requires the
	// ai-quote-drafting flag. Nothing is persisted.
	DraftQuote(ctx context.Context, req DraftQuoteRequest) (*DraftResult, error)

	TransitionJob(ctx context.Context, jobID string, req TransitionRequest) (*JobResult, error)

	// UpdateTask changes a task's status, hours, block reason or assignee and
	// recomputes job progress in the same write.
	UpdateTask(ctx context.Context, jobID, taskID string, req UpdateTaskRequest) (*JobResult, error)

	// AssignTeam stores the job team and returns advisory conflicts.
	AssignTeam(ctx context.Context, jobID string, req AssignTeamRequest) (*AssignTeamResult, error)

	GetJob(ctx context.Context, jobID string) (*JobResult, error)
	ListJobs(ctx context.Context, req ListRequest) (*JobListResult, error)

	// CreateInvoice bills a Completed or Archived job.
	CreateInvoice(ctx context.Context, jobID string, req CreateInvoiceRequest) (*InvoiceResult, error)

	TransitionInvoice(ctx context.Context, invoiceID string, req TransitionRequest) (*InvoiceResult, error)

	// RecordPayment reconciles a payment against the invoice balance.
	RecordPayment(ctx context.Context, invoiceID string, req PaymentRequest) (*InvoiceResult, error)

	// SendReminder counts a reminder on an open invoice.
	SendReminder(ctx context.Context, invoiceID string) (*ReminderResult, error)

	GetInvoice(ctx context.Context, invoiceID string) (*InvoiceResult, error)

	// ListInvoices filters on the effective status, so Overdue matches
	// unpaid invoices past their due date.
	ListInvoices(ctx context.Context, req ListRequest) (*InvoiceListResult, error)

	// CreatePurchaseOrder orders materials for a job from a supplier. Requires
	// the purchase-orders-enabled flag.
	CreatePurchaseOrder(ctx context.Context, jobID string, req CreatePurchaseOrderRequest) (*PurchaseOrderResult, error)

	TransitionPurchaseOrder(ctx context.Context, poID string, req TransitionRequest) (*PurchaseOrderResult, error)

	// UpdatePurchaseOrderCharges sets shipping and discount on a Draft or Ordered PO.
	UpdatePurchaseOrderCharges(ctx context.Context, poID string, req ChargesRequest) (*PurchaseOrderResult, error)

	GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrderResult, error)
	ListPurchaseOrders(ctx context.Context, req ListRequest) (*PurchaseOrderListResult, error)

	PutSupplier(ctx context.Context, supplierID string, req SupplierRequest) (*SupplierResult, error)
	PutTeamMember(ctx context.Context, memberID string, req TeamMemberRequest) (*TeamMemberResult, error)
	ListTeamMembers(ctx context.Context) (*TeamListResult, error)

	// Availability reports every active member for a date (YYYY-MM-DD, empty
	// means today).
	Availability(ctx context.Context, date string) (*AvailabilityResult, error)

	// Utilization reports a member's load for the week containing week.
	Utilization(ctx context.Context, memberID, week string) (*UtilizationResult, error)

	// Flags returns the active feature flag snapshot.
	Flags() []flags.Flag
}

package app

import (
	"fieldops/internal/core"
)

// QuoteResult is returned by quote operations.
type QuoteResult struct {
	Quote   *core.Quote `json:"quote"`
	Expired bool        `json:"expired"`
}

// QuoteListResult is returned by ListQuotes.
type QuoteListResult struct {
	Quotes []core.Quote `json:"quotes"`
}

// JobResult is returned by job operations.
type JobResult struct {
	Job *core.Job `json:"job"`
}

// JobListResult is returned by ListJobs.
type JobListResult struct {
	Jobs []core.Job `json:"jobs"`
}

// AssignTeamResult carries the updated job and the advisory conflicts.
type AssignTeamResult struct {
	Job       *core.Job                 `json:"job"`
	Conflicts []core.AssignmentConflict `json:"conflicts"`
}

// InvoiceResult is returned by invoice operations. EffectiveStatus overlays
// Overdue on open invoices past their due date.
type InvoiceResult struct {
	Invoice         *core.Invoice      `json:"invoice"`
	EffectiveStatus core.InvoiceStatus `json:"effective_status"`
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Invoices []InvoiceResult `json:"invoices"`
}

// ReminderResult is returned by SendReminder.
type ReminderResult struct {
	Invoice *core.Invoice `json:"invoice"`
	Sent    bool          `json:"sent"`
}

// PurchaseOrderResult is returned by purchase order operations.
type PurchaseOrderResult struct {
	PurchaseOrder *core.PurchaseOrder `json:"purchase_order"`
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	PurchaseOrders []core.PurchaseOrder `json:"purchase_orders"`
}

// SupplierResult is returned by PutSupplier.
type SupplierResult struct {
	Supplier *core.Supplier `json:"supplier"`
}

// TeamMemberResult is returned by PutTeamMember.
type TeamMemberResult struct {
	Member *core.TeamMember `json:"member"`
}

// TeamListResult is returned by ListTeamMembers.
type TeamListResult struct {
	Members []core.TeamMember `json:"members"`
}

// DraftResult is an AI-proposed set of quote lines with computed totals.
type DraftResult struct {
	Lines              []core.LineItem `json:"lines"`
	Totals             core.Totals     `json:"totals"`
	Risks              []string        `json:"risks"`
	MissingInformation []string        `json:"missing_information"`
	Reasoning          string          `json:"reasoning"`
}

// AvailabilityResult is returned by Availability.
type AvailabilityResult struct {
	Date    string                    `json:"date"`
	Members []core.MemberAvailability `json:"members"`
}

// UtilizationResult is returned by Utilization.
type UtilizationResult struct {
	Report *core.UtilizationReport `json:"report"`
}

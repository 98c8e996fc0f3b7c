package core

// DocumentKind names a document type held in the repository.
type DocumentKind string

const (
	KindQuote         DocumentKind = "quote"
	KindJob           DocumentKind = "job"
	KindInvoice       DocumentKind = "invoice"
	KindPurchaseOrder DocumentKind = "purchase_order"
	KindSupplier      DocumentKind = "supplier"
	KindTeamMember    DocumentKind = "team_member"
)

type QuoteStatus string

const (
	QuoteDraft       QuoteStatus = "Draft"
	QuoteUnderReview QuoteStatus = "UnderReview"
	QuoteSent        QuoteStatus = "Sent"
	QuoteViewed      QuoteStatus = "Viewed"
	QuoteAccepted    QuoteStatus = "Accepted"
	QuoteRejected    QuoteStatus = "Rejected"
	QuoteExpired     QuoteStatus = "Expired"
)

type JobStatus string

const (
	JobPlanned    JobStatus = "Planned"
	JobScheduled  JobStatus = "Scheduled"
	JobInProgress JobStatus = "InProgress"
	JobBlocked    JobStatus = "Blocked"
	JobCompleted  JobStatus = "Completed"
	JobArchived   JobStatus = "Archived"
)

// Terminal reports whether the job no longer occupies its team's schedule.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobArchived
}

type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "Draft"
	InvoiceIssued        InvoiceStatus = "Issued"
	InvoicePartiallyPaid InvoiceStatus = "PartiallyPaid"
	InvoicePaid          InvoiceStatus = "Paid"
	InvoiceOverdue       InvoiceStatus = "Overdue"
	InvoiceWrittenOff    InvoiceStatus = "WrittenOff"
)

type PurchaseOrderStatus string

const (
	PODraft     PurchaseOrderStatus = "Draft"
	POOrdered   PurchaseOrderStatus = "Ordered"
	POConfirmed PurchaseOrderStatus = "Confirmed"
	POShipped   PurchaseOrderStatus = "Shipped"
	PODelivered PurchaseOrderStatus = "Delivered"
	POCancelled PurchaseOrderStatus = "Cancelled"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

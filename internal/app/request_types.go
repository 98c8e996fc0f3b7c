package app

import (
	"github.com/shopspring/decimal"
)

// Dates in requests are "YYYY-MM-DD" or RFC 3339 strings; empty means unset.

// LineRequest is a single priced line.
type LineRequest struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Notes       string          `json:"notes"`
}

// CreateQuoteRequest is the input for creating a new quote.
type CreateQuoteRequest struct {
	ClientID     string           `json:"client_id"`
	BuildingID   string           `json:"building_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ValidityDays int              `json:"validity_days"` // zero means 30
	TaxRate      *decimal.Decimal `json:"tax_rate"`      // nil means the configured default
	Lines        []LineRequest    `json:"lines"`
}

// TransitionRequest names the target status of any document.
type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ConvertQuoteRequest carries the optional job overrides.
type ConvertQuoteRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ScheduledStart string           `json:"scheduled_start"`
	ScheduledEnd   string           `json:"scheduled_end"`
	Priority       string           `json:"priority"`
	AssignedTeam   []string         `json:"assigned_team"`
	LaborHours     *decimal.Decimal `json:"labor_hours"`
}

// DraftQuoteRequest is the free-text job description sent to the drafter.
type DraftQuoteRequest struct {
	Description string           `json:"description"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// UpdateTaskRequest holds the task fields to change; nil fields are kept.
type UpdateTaskRequest struct {
	Status        *string          `json:"status"`
	ActualHours   *decimal.Decimal `json:"actual_hours"`
	BlockedReason *string          `json:"blocked_reason"`
	AssignedTo    *string          `json:"assigned_to"`
}

// AssignTeamRequest replaces a job's team and optionally its schedule.
type AssignTeamRequest struct {
	MemberIDs      []string `json:"member_ids"`
	ScheduledStart string   `json:"scheduled_start"`
	ScheduledEnd   string   `json:"scheduled_end"`
}

// CreateInvoiceRequest carries the optional invoice overrides.
type CreateInvoiceRequest struct {
	Lines        []LineRequest    `json:"lines"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	DueDate      string           `json:"due_date"`
	PaymentTerms string           `json:"payment_terms"`
	Notes        string           `json:"notes"`
}

// PaymentRequest is an incoming payment against an invoice.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   string          `json:"payment_date"`
	Reference     string          `json:"reference"`
}

// CreatePurchaseOrderRequest is the input for ordering materials for a job.
type CreatePurchaseOrderRequest struct {
	SupplierID            string           `json:"supplier_id"`
	Lines                 []LineRequest    `json:"lines"`
	TaxRate               *decimal.Decimal `json:"tax_rate"`
	ShippingCost          decimal.Decimal  `json:"shipping_cost"`
	Discount              decimal.Decimal  `json:"discount"`
	RequestedDeliveryDate string           `json:"requested_delivery_date"`
	PaymentTerms          string           `json:"payment_terms"`
	Priority              string           `json:"priority"`
	Notes                 string           `json:"notes"`
}

// ChargesRequest updates PO shipping and discount.
type ChargesRequest struct {
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Discount     decimal.Decimal `json:"discount"`
}

// SupplierRequest is the master data of a supplier.
type SupplierRequest struct {
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Categories    []string `json:"categories"`
	LeadTimeDays  int      `json:"lead_time_days"`
	PaymentTerms  string   `json:"payment_terms"`
	IsActive      *bool    `json:"is_active"` // nil means active
}

// TeamMemberRequest is the master data of a team member. Availability lists
// lower-case weekday names, e.g. ["monday", "tuesday"].
type TeamMemberRequest struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	Skills       []string        `json:"skills"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	Availability []string        `json:"availability"`
	IsActive     *bool           `json:"is_active"` // nil means active
}

// ListRequest filters document listings. Empty fields match everything.
type ListRequest struct {
	Status   string `json:"status"`
	ParentID string `json:"parent_id"`
	PartyID  string `json:"party_id"`
}

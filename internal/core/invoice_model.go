package core

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentTerms is printed on invoices created without explicit terms.
const DefaultPaymentTerms = "NET 30"

// Invoice bills a client for a job. Balance is always Total - PaidAmount.
//
//	Draft → Issued → PartiallyPaid → Paid
//	Issued | PartiallyPaid | Overdue → WrittenOff
//
// Paid and PartiallyPaid are normally reached through ApplyPayment, which
// derives the status from the balance instead of consulting the table.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	JobID         string        `json:"job_id"`
	ClientID      string        `json:"client_id"`
	Status        InvoiceStatus `json:"status"`
	Aggregate
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	Balance             decimal.Decimal `json:"balance"`
	IssueDate           time.Time       `json:"issue_date"`
	DueDate             time.Time       `json:"due_date"`
	PaymentTerms        string          `json:"payment_terms"`
	StructuredReference string          `json:"structured_reference"`
	Payments            []Payment       `json:"payments"`
	ReminderCount       int             `json:"reminder_count"`
	LastReminderDate    *time.Time      `json:"last_reminder_date,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	IssuedAt            *time.Time      `json:"issued_at,omitempty"`
	PaidAt              *time.Time      `json:"paid_at,omitempty"`
	WrittenOffAt        *time.Time      `json:"written_off_at,omitempty"`
}

// Payment is an amount received against an invoice. Payments are append-only.
type Payment struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date"`
	Reference     string          `json:"reference,omitempty"`
}

func (inv *Invoice) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindInvoice, ID: inv.ID, Status: string(inv.Status), ParentID: inv.JobID, PartyID: inv.ClientID}
}

// Transition applies a table-checked status change.
func (inv Invoice) Transition(to InvoiceStatus, now time.Time) (Invoice, error) {
	if !invoiceTransitions.allows(inv.Status, to) {
		return inv, &InvalidTransitionError{Document: KindInvoice, ID: inv.ID, From: string(inv.Status), To: string(to)}
	}
	inv.Status = to
	switch to {
	case InvoiceIssued:
		stamp(&inv.IssuedAt, now)
	case InvoicePaid:
		stamp(&inv.PaidAt, now)
	case InvoiceWrittenOff:
		stamp(&inv.WrittenOffAt, now)
	}
	inv.UpdatedAt = now
	return inv, nil
}

// ApplyPayment records p and derives the new status from the balance:
// a zero balance is Paid, any other paid amount is PartiallyPaid. Amounts
// above the outstanding balance are rejected.
func (inv Invoice) ApplyPayment(p Payment, now time.Time) (Invoice, error) {
	if !p.Amount.IsPositive() {
		return inv, invalid("amount", "must be > 0, got %s", p.Amount)
	}
	if inv.Status == InvoiceWrittenOff {
		return inv, &PreconditionError{Document: KindInvoice, ID: inv.ID, Reason: "invoice is " + string(inv.Status)}
	}
	if p.Amount.GreaterThan(inv.Balance) {
		return inv, invalid("amount", "%s exceeds outstanding balance %s", p.Amount, inv.Balance)
	}

	p.InvoiceID = inv.ID
	payments := make([]Payment, len(inv.Payments), len(inv.Payments)+1)
	copy(payments, inv.Payments)
	inv.Payments = append(payments, p)

	inv.PaidAmount = inv.PaidAmount.Add(p.Amount)
	inv.Balance = inv.Total.Sub(inv.PaidAmount)
	switch {
	case !inv.Balance.IsPositive():
		inv.Status = InvoicePaid
		stamp(&inv.PaidAt, now)
	case inv.PaidAmount.IsPositive():
		inv.Status = InvoicePartiallyPaid
	}
	inv.UpdatedAt = now
	return inv, nil
}

// SendReminder counts a payment reminder. It reports false, leaving the
// invoice untouched, when the invoice is already Paid or WrittenOff.
func (inv Invoice) SendReminder(now time.Time) (Invoice, bool) {
	if inv.Status == InvoicePaid || inv.Status == InvoiceWrittenOff {
		return inv, false
	}
	inv.ReminderCount++
	t := now
	inv.LastReminderDate = &t
	inv.UpdatedAt = now
	return inv, true
}

// EffectiveStatus overlays Overdue on an Issued or PartiallyPaid invoice whose
// due date has passed with a balance still open. The stored status is not
// changed.
func (inv Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if (inv.Status == InvoiceIssued || inv.Status == InvoicePartiallyPaid) &&
		inv.Balance.IsPositive() && now.After(inv.DueDate) {
		return InvoiceOverdue
	}
	return inv.Status
}

// qrrDigits is the length of a structured payment reference including its
// check digit.
const qrrDigits = 27

var mod10Table = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

// StructuredReference builds a 27-digit bank reference from the digits of an
// invoice number, left-padded to 26 and closed with a recursive mod-10 check
// digit.
func StructuredReference(invoiceNumber string) string {
	var b strings.Builder
	for _, r := range invoiceNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	payload := b.String()
	if len(payload) > qrrDigits-1 {
		payload = payload[len(payload)-(qrrDigits-1):]
	}
	payload = strings.Repeat("0", qrrDigits-1-len(payload)) + payload
	return payload + string(rune('0'+mod10CheckDigit(payload)))
}

func mod10CheckDigit(digits string) int {
	carry := 0
	for _, r := range digits {
		carry = mod10Table[(carry+int(r-'0'))%10]
	}
	return (10 - carry) % 10
}

// ValidStructuredReference reports whether ref is 27 digits with a correct
// check digit.
func ValidStructuredReference(ref string) bool {
	if len(ref) != qrrDigits {
		return false
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return false
		}
	}
	return mod10CheckDigit(ref[:qrrDigits-1]) == int(ref[qrrDigits-1]-'0')
}

// InvoiceOverrides replaces invoice defaults. Empty Lines means a single line
// at the job's actual or estimated cost.
type InvoiceOverrides struct {
	Lines        []LineInput
	TaxRate      *decimal.Decimal
	DueDate      *time.Time
	PaymentTerms string
	Notes        string
}

// PaymentInput is a payment as submitted by a caller.
type PaymentInput struct {
	Amount        decimal.Decimal
	PaymentMethod string
	PaymentDate   *time.Time
	Reference     string
}

// InvoiceService owns billing and payment reconciliation.
type InvoiceService interface {
	// CreateFromJob bills a completed job, assigning the next invoice number.
	CreateFromJob(ctx context.Context, jobID string, overrides InvoiceOverrides) (*Invoice, error)

	// TransitionInvoice applies a table-checked status change.
	TransitionInvoice(ctx context.Context, invoiceID string, to InvoiceStatus) (*Invoice, error)

	// RecordPayment applies a payment and derives the resulting status.
	RecordPayment(ctx context.Context, invoiceID string, payment PaymentInput) (*Invoice, error)

	// SendReminder counts a reminder. sent is false when the invoice is
	// already settled; that is not an error.
	SendReminder(ctx context.Context, invoiceID string) (inv *Invoice, sent bool, err error)

	GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error)

	// GetInvoices lists invoices. A Status filter of Overdue matches on the
	// effective status at the current time.
	GetInvoices(ctx context.Context, filter Filter) ([]Invoice, error)
}

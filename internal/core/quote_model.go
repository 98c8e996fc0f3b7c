package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultValidityDays applies when a quote is created without a validity window.
const DefaultValidityDays = 30

// Quote is a priced offer to a client. Status progresses through:
//
//	Draft ⇄ UnderReview → Sent → Viewed → Accepted | Rejected | Expired
//
// Lines may only change while the quote is Draft or UnderReview.
type Quote struct {
	ID          string      `json:"id"`
	ClientID    string      `json:"client_id"`
	BuildingID  string      `json:"building_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      QuoteStatus `json:"status"`
	Aggregate
	ValidityDays    int        `json:"validity_days"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
	ViewedAt        *time.Time `json:"viewed_at,omitempty"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
}

func (q *Quote) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindQuote, ID: q.ID, Status: string(q.Status), PartyID: q.ClientID}
}

// Transition moves the quote to status to. The receiver is not modified.
func (q Quote) Transition(to QuoteStatus, now time.Time) (Quote, error) {
	if !quoteTransitions.allows(q.Status, to) {
		return q, &InvalidTransitionError{Document: KindQuote, ID: q.ID, From: string(q.Status), To: string(to)}
	}
	q.Status = to
	switch to {
	case QuoteSent:
		stamp(&q.SentAt, now)
	case QuoteViewed:
		stamp(&q.ViewedAt, now)
	case QuoteAccepted:
		stamp(&q.AcceptedAt, now)
	case QuoteRejected:
		stamp(&q.RejectedAt, now)
	}
	q.UpdatedAt = now
	return q, nil
}

// Editable reports whether lines may still be added.
func (q Quote) Editable() bool {
	return q.Status == QuoteDraft || q.Status == QuoteUnderReview
}

// ExpiresAt is the end of the validity window.
func (q Quote) ExpiresAt() time.Time {
	return q.CreatedAt.AddDate(0, 0, q.ValidityDays)
}

// IsExpired reports whether the validity window has passed. It does not
// change status.
func (q Quote) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt())
}

// QuoteInput holds the fields required to create a quote. Zero ValidityDays
// and nil TaxRate fall back to defaults.
type QuoteInput struct {
	ClientID     string
	BuildingID   string
	Title        string
	Description  string
	Lines        []LineInput
	ValidityDays int
	TaxRate      *decimal.Decimal
}

// QuoteService owns the quote lifecycle.
type QuoteService interface {
	// CreateQuote stores a new Draft quote with computed totals.
	CreateQuote(ctx context.Context, input QuoteInput) (*Quote, error)

	// AddQuoteLine appends a line to a Draft or UnderReview quote.
	AddQuoteLine(ctx context.Context, quoteID string, line LineInput) (*Quote, error)

	// TransitionQuote applies a table-checked status change. reason is kept
	// only when the target is Rejected.
	TransitionQuote(ctx context.Context, quoteID string, to QuoteStatus, reason string) (*Quote, error)

	// ConvertToJob derives a Planned job from an Accepted quote. The quote is
	// not modified.
	ConvertToJob(ctx context.Context, quoteID string, overrides JobOverrides) (*Job, error)

	GetQuote(ctx context.Context, quoteID string) (*Quote, error)

	// GetQuotes lists quotes, optionally filtered by status and client.
	GetQuotes(ctx context.Context, filter Filter) ([]Quote, error)
}

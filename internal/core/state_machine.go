package core

import "time"

// transitionTable maps a status to the statuses it may move to. Each document
// type has exactly one table; nothing else decides reachability.
type transitionTable[S ~string] map[S][]S

func (t transitionTable[S]) allows(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from the given status.
func (t transitionTable[S]) Next(from S) []S {
	out := make([]S, len(t[from]))
	copy(out, t[from])
	return out
}

var quoteTransitions = transitionTable[QuoteStatus]{
	QuoteDraft:       {QuoteUnderReview, QuoteSent},
	QuoteUnderReview: {QuoteDraft, QuoteSent},
	QuoteSent:        {QuoteViewed, QuoteAccepted, QuoteRejected, QuoteExpired},
	QuoteViewed:      {QuoteAccepted, QuoteRejected, QuoteExpired},
}

var jobTransitions = transitionTable[JobStatus]{
	JobPlanned:    {JobScheduled, JobInProgress},
	JobScheduled:  {JobInProgress, JobBlocked},
	JobInProgress: {JobBlocked, JobCompleted},
	JobBlocked:    {JobInProgress},
	JobCompleted:  {JobArchived},
}

var invoiceTransitions = transitionTable[InvoiceStatus]{
	InvoiceDraft:         {InvoiceIssued},
	InvoiceIssued:        {InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceWrittenOff},
	InvoicePartiallyPaid: {InvoicePaid, InvoiceOverdue, InvoiceWrittenOff},
	InvoiceOverdue:       {InvoicePartiallyPaid, InvoicePaid, InvoiceWrittenOff},
}

var purchaseOrderTransitions = transitionTable[PurchaseOrderStatus]{
	PODraft:     {POOrdered, POCancelled},
	POOrdered:   {POConfirmed, POCancelled},
	POConfirmed: {POShipped, POCancelled},
	POShipped:   {PODelivered},
}

// NextQuoteStatuses lists the statuses a quote may move to from s.
func NextQuoteStatuses(s QuoteStatus) []QuoteStatus { return quoteTransitions.Next(s) }

// NextJobStatuses lists the statuses a job may move to from s.
func NextJobStatuses(s JobStatus) []JobStatus { return jobTransitions.Next(s) }

// NextInvoiceStatuses lists the statuses an invoice may move to from s.
func NextInvoiceStatuses(s InvoiceStatus) []InvoiceStatus { return invoiceTransitions.Next(s) }

// NextPurchaseOrderStatuses lists the statuses a purchase order may move to from s.
func NextPurchaseOrderStatuses(s PurchaseOrderStatus) []PurchaseOrderStatus {
	return purchaseOrderTransitions.Next(s)
}

// stamp sets *field to now unless it is already set. Timestamps captured on a
// transition are set-once.
func stamp(field **time.Time, now time.Time) {
	if *field == nil {
		t := now
		*field = &t
	}
}

package core

import (
	"context"
	"strconv"
)

type invoiceService struct {
	e *Engine
}

// NewInvoiceService constructs an InvoiceService over the engine's repository.
func NewInvoiceService(e *Engine) InvoiceService {
	return &invoiceService{e: e}
}

// CreateFromJob builds the invoice and assigns the next INV-<year> number in
// the same store write, so a refused conversion never consumes a number.
func (s *invoiceService) CreateFromJob(ctx context.Context, jobID string, overrides InvoiceOverrides) (*Invoice, error) {
	defer s.e.Locks.lockDoc(KindJob, jobID)()

	j, err := load[*Job](ctx, s.e.Repo, KindJob, jobID)
	if err != nil {
		return nil, err
	}
	now := s.e.Now()
	doc, err := s.e.putNumbered(ctx, "INV-"+strconv.Itoa(now.Year()), func(number string) (Document, error) {
		inv, err := InvoiceFromJob(*j, number, overrides, s.e.Policy, now, s.e.NewID)
		if err != nil {
			return nil, err
		}
		return &inv, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.(*Invoice), nil
}

func (s *invoiceService) TransitionInvoice(ctx context.Context, invoiceID string, to InvoiceStatus) (*Invoice, error) {
	defer s.e.Locks.lockDoc(KindInvoice, invoiceID)()

	inv, err := load[*Invoice](ctx, s.e.Repo, KindInvoice, invoiceID)
	if err != nil {
		return nil, err
	}
	next, err := inv.Transition(to, s.e.Now())
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, in PaymentInput) (*Invoice, error) {
	defer s.e.Locks.lockDoc(KindInvoice, invoiceID)()

	inv, err := load[*Invoice](ctx, s.e.Repo, KindInvoice, invoiceID)
	if err != nil {
		return nil, err
	}
	now := s.e.Now()
	p := Payment{
		ID:            s.e.NewID(),
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   now,
		Reference:     in.Reference,
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	next, err := inv.ApplyPayment(p, now)
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *invoiceService) SendReminder(ctx context.Context, invoiceID string) (*Invoice, bool, error) {
	defer s.e.Locks.lockDoc(KindInvoice, invoiceID)()

	inv, err := load[*Invoice](ctx, s.e.Repo, KindInvoice, invoiceID)
	if err != nil {
		return nil, false, err
	}
	next, sent := inv.SendReminder(s.e.Now())
	if !sent {
		return inv, false, nil
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, false, err
	}
	return &next, true, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	return load[*Invoice](ctx, s.e.Repo, KindInvoice, invoiceID)
}

func (s *invoiceService) GetInvoices(ctx context.Context, filter Filter) ([]Invoice, error) {
	if filter.Status != string(InvoiceOverdue) {
		docs, err := listAs[*Invoice](ctx, s.e.Repo, KindInvoice, filter)
		if err != nil {
			return nil, err
		}
		return deref(docs), nil
	}

	// Overdue is mostly derived, so scan every invoice and keep the ones
	// whose effective status is Overdue.
	filter.Status = ""
	docs, err := listAs[*Invoice](ctx, s.e.Repo, KindInvoice, filter)
	if err != nil {
		return nil, err
	}
	now := s.e.Now()
	out := make([]Invoice, 0, len(docs))
	for _, inv := range docs {
		if inv.EffectiveStatus(now) == InvoiceOverdue {
			out = append(out, *inv)
		}
	}
	return out, nil
}

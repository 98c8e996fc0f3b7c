package core

import (
	"context"
	"strings"
)

type quoteService struct {
	e *Engine
}

// NewQuoteService constructs a QuoteService over the engine's repository.
func NewQuoteService(e *Engine) QuoteService {
	return &quoteService{e: e}
}

func (s *quoteService) CreateQuote(ctx context.Context, input QuoteInput) (*Quote, error) {
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, invalid("client_id", "is required")
	}
	if input.ValidityDays < 0 {
		return nil, invalid("validity_days", "must be >= 0, got %d", input.ValidityDays)
	}
	validity := input.ValidityDays
	if validity == 0 {
		validity = DefaultValidityDays
	}

	agg, err := newAggregate(input.Lines, valueOr(input.TaxRate, s.e.Policy.DefaultTaxRate), s.e.NewID)
	if err != nil {
		return nil, err
	}

	now := s.e.Now()
	q := &Quote{
		ID:           s.e.NewID(),
		ClientID:     input.ClientID,
		BuildingID:   input.BuildingID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       QuoteDraft,
		Aggregate:    agg,
		ValidityDays: validity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.e.put(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quoteService) AddQuoteLine(ctx context.Context, quoteID string, line LineInput) (*Quote, error) {
	defer s.e.Locks.lockDoc(KindQuote, quoteID)()

	q, err := load[*Quote](ctx, s.e.Repo, KindQuote, quoteID)
	if err != nil {
		return nil, err
	}
	if !q.Editable() {
		return nil, &PreconditionError{Document: KindQuote, ID: q.ID, Reason: "lines are fixed once the quote is " + string(q.Status)}
	}
	if err := q.AddLine(s.e.NewID(), line); err != nil {
		return nil, err
	}
	q.UpdatedAt = s.e.Now()
	if err := s.e.put(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quoteService) TransitionQuote(ctx context.Context, quoteID string, to QuoteStatus, reason string) (*Quote, error) {
	defer s.e.Locks.lockDoc(KindQuote, quoteID)()

	q, err := load[*Quote](ctx, s.e.Repo, KindQuote, quoteID)
	if err != nil {
		return nil, err
	}
	next, err := q.Transition(to, s.e.Now())
	if err != nil {
		return nil, err
	}
	if to == QuoteRejected {
		next.RejectionReason = reason
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *quoteService) ConvertToJob(ctx context.Context, quoteID string, overrides JobOverrides) (*Job, error) {
	defer s.e.Locks.lockDoc(KindQuote, quoteID)()

	q, err := load[*Quote](ctx, s.e.Repo, KindQuote, quoteID)
	if err != nil {
		return nil, err
	}
	for _, memberID := range overrides.AssignedTeam {
		if _, err := load[*TeamMember](ctx, s.e.Repo, KindTeamMember, memberID); err != nil {
			return nil, err
		}
	}
	job, err := JobFromQuote(*q, overrides, s.e.Policy, s.e.Now(), s.e.NewID)
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *quoteService) GetQuote(ctx context.Context, quoteID string) (*Quote, error) {
	return load[*Quote](ctx, s.e.Repo, KindQuote, quoteID)
}

func (s *quoteService) GetQuotes(ctx context.Context, filter Filter) ([]Quote, error) {
	docs, err := listAs[*Quote](ctx, s.e.Repo, KindQuote, filter)
	if err != nil {
		return nil, err
	}
	return deref(docs), nil
}

func deref[T any](ptrs []*T) []T {
	out := make([]T, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

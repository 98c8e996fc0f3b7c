package core

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
)

type purchaseOrderService struct {
	e *Engine
}

// NewPurchaseOrderService constructs a PurchaseOrderService over the engine's
// repository.
func NewPurchaseOrderService(e *Engine) PurchaseOrderService {
	return &purchaseOrderService{e: e}
}

func (s *purchaseOrderService) CreateFromJob(ctx context.Context, jobID, supplierID string, overrides PurchaseOrderOverrides) (*PurchaseOrder, error) {
	defer s.e.Locks.lockDoc(KindJob, jobID)()

	j, err := load[*Job](ctx, s.e.Repo, KindJob, jobID)
	if err != nil {
		return nil, err
	}
	sup, err := load[*Supplier](ctx, s.e.Repo, KindSupplier, supplierID)
	if err != nil {
		return nil, err
	}

	now := s.e.Now()
	doc, err := s.e.putNumbered(ctx, "PO-"+strconv.Itoa(now.Year()), func(number string) (Document, error) {
		po, err := PurchaseOrderFromJob(*j, *sup, number, overrides, s.e.Policy, now, s.e.NewID)
		if err != nil {
			return nil, err
		}
		return &po, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.(*PurchaseOrder), nil
}

func (s *purchaseOrderService) TransitionPurchaseOrder(ctx context.Context, poID string, to PurchaseOrderStatus) (*PurchaseOrder, error) {
	defer s.e.Locks.lockDoc(KindPurchaseOrder, poID)()

	po, err := load[*PurchaseOrder](ctx, s.e.Repo, KindPurchaseOrder, poID)
	if err != nil {
		return nil, err
	}
	next, err := po.Transition(to, s.e.Now())
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *purchaseOrderService) UpdateCharges(ctx context.Context, poID string, shipping, discount decimal.Decimal) (*PurchaseOrder, error) {
	defer s.e.Locks.lockDoc(KindPurchaseOrder, poID)()

	po, err := load[*PurchaseOrder](ctx, s.e.Repo, KindPurchaseOrder, poID)
	if err != nil {
		return nil, err
	}
	next, err := po.SetCharges(shipping, discount, s.e.Now())
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrder, error) {
	return load[*PurchaseOrder](ctx, s.e.Repo, KindPurchaseOrder, poID)
}

func (s *purchaseOrderService) GetPurchaseOrders(ctx context.Context, filter Filter) ([]PurchaseOrder, error) {
	docs, err := listAs[*PurchaseOrder](ctx, s.e.Repo, KindPurchaseOrder, filter)
	if err != nil {
		return nil, err
	}
	return deref(docs), nil
}

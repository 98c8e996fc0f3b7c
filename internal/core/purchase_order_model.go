package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder orders materials for a job from a supplier.
//
//	Draft → Ordered → Confirmed → Shipped → Delivered
//	Draft | Ordered | Confirmed → Cancelled
//
// FinalTotal is always Total + ShippingCost - Discount.
type PurchaseOrder struct {
	ID         string              `json:"id"`
	PONumber   string              `json:"po_number"`
	JobID      string              `json:"job_id"`
	SupplierID string              `json:"supplier_id"`
	Status     PurchaseOrderStatus `json:"status"`
	Aggregate
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	Discount              decimal.Decimal `json:"discount"`
	FinalTotal            decimal.Decimal `json:"final_total"`
	OrderDate             time.Time       `json:"order_date"`
	RequestedDeliveryDate time.Time       `json:"requested_delivery_date"`
	ActualDeliveryDate    *time.Time      `json:"actual_delivery_date,omitempty"`
	PaymentTerms          string          `json:"payment_terms"`
	Priority              Priority        `json:"priority"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	OrderedAt             *time.Time      `json:"ordered_at,omitempty"`
	ConfirmedAt           *time.Time      `json:"confirmed_at,omitempty"`
	ShippedAt             *time.Time      `json:"shipped_at,omitempty"`
	CancelledAt           *time.Time      `json:"cancelled_at,omitempty"`
}

func (po *PurchaseOrder) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindPurchaseOrder, ID: po.ID, Status: string(po.Status), ParentID: po.JobID, PartyID: po.SupplierID}
}

// Transition applies a table-checked status change. Delivered stamps
// ActualDeliveryDate unless it is already set.
func (po PurchaseOrder) Transition(to PurchaseOrderStatus, now time.Time) (PurchaseOrder, error) {
	if !purchaseOrderTransitions.allows(po.Status, to) {
		return po, &InvalidTransitionError{Document: KindPurchaseOrder, ID: po.ID, From: string(po.Status), To: string(to)}
	}
	po.Status = to
	switch to {
	case POOrdered:
		stamp(&po.OrderedAt, now)
	case POConfirmed:
		stamp(&po.ConfirmedAt, now)
	case POShipped:
		stamp(&po.ShippedAt, now)
	case PODelivered:
		stamp(&po.ActualDeliveryDate, now)
	case POCancelled:
		stamp(&po.CancelledAt, now)
	}
	po.UpdatedAt = now
	return po, nil
}

// SetCharges replaces shipping and discount and recomputes FinalTotal. Only
// Draft and Ordered orders accept new charges.
func (po PurchaseOrder) SetCharges(shipping, discount decimal.Decimal, now time.Time) (PurchaseOrder, error) {
	if po.Status != PODraft && po.Status != POOrdered {
		return po, &PreconditionError{Document: KindPurchaseOrder, ID: po.ID, Reason: "charges are fixed once the order is " + string(po.Status)}
	}
	if err := po.applyCharges(shipping, discount); err != nil {
		return po, err
	}
	po.UpdatedAt = now
	return po, nil
}

func (po *PurchaseOrder) applyCharges(shipping, discount decimal.Decimal) error {
	if shipping.IsNegative() {
		return invalid("shipping_cost", "must be >= 0, got %s", shipping)
	}
	if discount.IsNegative() {
		return invalid("discount", "must be >= 0, got %s", discount)
	}
	shipping, discount = RoundMoney(shipping), RoundMoney(discount)
	gross := po.Total.Add(shipping)
	if discount.GreaterThan(gross) {
		return invalid("discount", "%s exceeds order value %s", discount, gross)
	}
	po.ShippingCost = shipping
	po.Discount = discount
	po.FinalTotal = gross.Sub(discount)
	return nil
}

// PurchaseOrderOverrides replaces purchase order defaults. Empty Lines means a
// single materials line priced from the job estimate.
type PurchaseOrderOverrides struct {
	Lines                 []LineInput
	TaxRate               *decimal.Decimal
	ShippingCost          decimal.Decimal
	Discount              decimal.Decimal
	RequestedDeliveryDate *time.Time
	PaymentTerms          string
	Priority              Priority
	Notes                 string
}

// PurchaseOrderService owns procurement for jobs.
type PurchaseOrderService interface {
	// CreateFromJob orders materials for a job from an active supplier,
	// assigning the next PO number.
	CreateFromJob(ctx context.Context, jobID, supplierID string, overrides PurchaseOrderOverrides) (*PurchaseOrder, error)

	// TransitionPurchaseOrder applies a table-checked status change.
	TransitionPurchaseOrder(ctx context.Context, poID string, to PurchaseOrderStatus) (*PurchaseOrder, error)

	// UpdateCharges replaces shipping and discount on a Draft or Ordered PO.
	UpdateCharges(ctx context.Context, poID string, shipping, discount decimal.Decimal) (*PurchaseOrder, error)

	GetPurchaseOrder(ctx context.Context, poID string) (*PurchaseOrder, error)

	// GetPurchaseOrders lists orders, optionally by status, job, or supplier.
	GetPurchaseOrders(ctx context.Context, filter Filter) ([]PurchaseOrder, error)
}

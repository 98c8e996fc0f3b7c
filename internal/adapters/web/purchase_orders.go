package web

import (
	"net/http"

	"fieldops/internal/app"
)

func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListPurchaseOrders(r.Context(), listRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetPurchaseOrder(r.Context(), docID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiTransitionPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req app.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.TransitionPurchaseOrder(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiUpdateCharges handles POST /api/purchase-orders/{id}/charges.
func (h *Handler) apiUpdateCharges(w http.ResponseWriter, r *http.Request) {
	var req app.ChargesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdatePurchaseOrderCharges(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

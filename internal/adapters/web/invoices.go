package web

import (
	"net/http"

	"fieldops/internal/app"
)

// apiListInvoices handles GET /api/invoices. status=Overdue matches on the
// effective status.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListInvoices(r.Context(), listRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiGetInvoice(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetInvoice(r.Context(), docID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiTransitionInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.TransitionInvoice(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiRecordPayment handles POST /api/invoices/{id}/payments.
func (h *Handler) apiRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req app.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.RecordPayment(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiSendReminder(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SendReminder(r.Context(), docID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

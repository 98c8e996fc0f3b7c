package web

import (
	"net/http"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) apiListJobs(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListJobs(r.Context(), listRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiGetJob(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetJob(r.Context(), docID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiTransitionJob(w http.ResponseWriter, r *http.Request) {
	var req app.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.TransitionJob(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiAssignTeam handles POST /api/jobs/{id}/team. Conflicts are advisory and
// returned alongside the stored job.
func (h *Handler) apiAssignTeam(w http.ResponseWriter, r *http.Request) {
	var req app.AssignTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AssignTeam(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiUpdateTask handles PATCH /api/jobs/{id}/tasks/{taskId}.
func (h *Handler) apiUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateTask(r.Context(), docID(r), chi.URLParam(r, "taskId"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiCreateInvoice handles POST /api/jobs/{id}/invoice.
func (h *Handler) apiCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateInvoice(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

// apiCreatePurchaseOrder handles POST /api/jobs/{id}/purchase-orders.
func (h *Handler) apiCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreatePurchaseOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreatePurchaseOrder(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

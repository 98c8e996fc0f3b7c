package web

import (
	"net/http"

	"fieldops/internal/app"

	"github.com/go-chi/chi/v5"
)

// apiPutSupplier handles PUT /api/suppliers/{id}.
func (h *Handler) apiPutSupplier(w http.ResponseWriter, r *http.Request) {
	var req app.SupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.PutSupplier(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiListTeam(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListTeamMembers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiPutTeamMember handles PUT /api/team/{id}.
func (h *Handler) apiPutTeamMember(w http.ResponseWriter, r *http.Request) {
	var req app.TeamMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.PutTeamMember(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiAvailability handles GET /api/schedule/availability?date=YYYY-MM-DD.
func (h *Handler) apiAvailability(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Availability(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiUtilization handles GET /api/schedule/utilization/{memberId}?week=YYYY-MM-DD.
func (h *Handler) apiUtilization(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Utilization(r.Context(), chi.URLParam(r, "memberId"), r.URL.Query().Get("week"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

package web

import (
	"net/http"

	"fieldops/internal/app"
)

// apiCreateQuote handles POST /api/quotes.
func (h *Handler) apiCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req app.CreateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateQuote(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

// apiListQuotes handles GET /api/quotes?status=&parent_id=&party_id=.
func (h *Handler) apiListQuotes(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListQuotes(r.Context(), listRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiGetQuote(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetQuote(r.Context(), docID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiAddQuoteLine(w http.ResponseWriter, r *http.Request) {
	var req app.LineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AddQuoteLine(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) apiTransitionQuote(w http.ResponseWriter, r *http.Request) {
	var req app.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.TransitionQuote(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// apiConvertQuote handles POST /api/quotes/{id}/job.
func (h *Handler) apiConvertQuote(w http.ResponseWriter, r *http.Request) {
	var req app.ConvertQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ConvertQuoteToJob(r.Context(), docID(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, res)
}

// apiDraftQuote handles POST /api/quotes/draft. Gated by ai-quote-drafting.
func (h *Handler) apiDraftQuote(w http.ResponseWriter, r *http.Request) {
	var req app.DraftQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.DraftQuote(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

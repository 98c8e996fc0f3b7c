package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fieldops/internal/app"
	"fieldops/internal/flags"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes. metrics may be
// nil, in which case no /metrics endpoint is mounted.
func NewHandler(svc app.ApplicationService, allowedOrigins string, metrics *Metrics) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(CORS(allowedOrigins))

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/health", h.health)

		// ── Quotes ────────────────────────────────────────────────────────────
		r.Post("/quotes", h.apiCreateQuote)
		r.Get("/quotes", h.apiListQuotes)
		r.Post("/quotes/draft", h.apiDraftQuote)
		r.Get("/quotes/{id}", h.apiGetQuote)
		r.Post("/quotes/{id}/lines", h.apiAddQuoteLine)
		r.Post("/quotes/{id}/status", h.apiTransitionQuote)
		r.Post("/quotes/{id}/job", h.apiConvertQuote)

		// ── Jobs ──────────────────────────────────────────────────────────────
		r.Get("/jobs", h.apiListJobs)
		r.Get("/jobs/{id}", h.apiGetJob)
		r.Post("/jobs/{id}/status", h.apiTransitionJob)
		r.Post("/jobs/{id}/team", h.apiAssignTeam)
		r.Patch("/jobs/{id}/tasks/{taskId}", h.apiUpdateTask)
		r.Post("/jobs/{id}/invoice", h.apiCreateInvoice)
		r.Post("/jobs/{id}/purchase-orders", h.apiCreatePurchaseOrder)

		// ── Invoices ──────────────────────────────────────────────────────────
		r.Get("/invoices", h.apiListInvoices)
		r.Get("/invoices/{id}", h.apiGetInvoice)
		r.Post("/invoices/{id}/status", h.apiTransitionInvoice)
		r.Post("/invoices/{id}/payments", h.apiRecordPayment)
		r.Post("/invoices/{id}/reminders", h.apiSendReminder)

		// ── Purchase orders ───────────────────────────────────────────────────
		r.Get("/purchase-orders", h.apiListPurchaseOrders)
		r.Get("/purchase-orders/{id}", h.apiGetPurchaseOrder)
		r.Post("/purchase-orders/{id}/status", h.apiTransitionPurchaseOrder)
		r.Post("/purchase-orders/{id}/charges", h.apiUpdateCharges)

		// ── Master data & scheduling ──────────────────────────────────────────
		r.Put("/suppliers/{id}", h.apiPutSupplier)
		r.Get("/team", h.apiListTeam)
		r.Put("/team/{id}", h.apiPutTeamMember)
		r.Get("/schedule/availability", h.apiAvailability)
		r.Get("/schedule/utilization/{memberId}", h.apiUtilization)
	})

	h.router = r
	return r
}

// health returns service status and the active feature flags.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string       `json:"status"`
		Flags  []flags.Flag `json:"flags"`
	}
	writeJSON(w, response{Status: "ok", Flags: h.svc.Flags()})
}

// docID extracts the {id} URL parameter.
func docID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// listRequest reads the shared listing filters from the query string.
func listRequest(r *http.Request) app.ListRequest {
	q := r.URL.Query()
	return app.ListRequest{
		Status:   q.Get("status"),
		ParentID: q.Get("parent_id"),
		PartyID:  q.Get("party_id"),
	}
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors. An empty
// body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

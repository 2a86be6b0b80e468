// Package api exposes the ledger over a JSON HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billsplit/billsplit/internal/service"
	"github.com/billsplit/billsplit/internal/storage"
)

// Server holds the service layer and serves it over HTTP.
type Server struct {
	groups   *service.GroupService
	bills    *service.BillService
	payments *service.PaymentService
	balances *service.BalanceService
}

// NewServer creates a Server over the given services.
func NewServer(groups *service.GroupService, bills *service.BillService, payments *service.PaymentService, balances *service.BalanceService) *Server {
	return &Server{groups: groups, bills: bills, payments: payments, balances: balances}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(requestMetrics)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/persons", s.handleCreatePerson)
		r.Get("/persons", s.handleListPersons)
		r.Get("/persons/{personID}", s.handleGetPerson)

		r.Post("/groups", s.handleCreateGroup)
		r.Get("/groups", s.handleListGroups)
		r.Get("/groups/{groupID}", s.handleGetGroup)
		r.Post("/groups/{groupID}/members", s.handleAddGroupMembers)

		r.Post("/bills", s.handleCreateBill)
		r.Get("/bills", s.handleListBills)
		r.Get("/bills/{billID}", s.handleGetBill)
		r.Get("/bills/{billID}/payments", s.handleListBillPayments)
		r.Post("/bills/{billID}/participants/{personID}/recalculate", s.handleRecalculateOwed)
		r.Get("/bills/{billID}/participants/{personID}/balance", s.handleBillBalance)

		r.Post("/payments/bill", s.handleRecordBillPayment)
		r.Post("/payments/settlement", s.handleRecordSettlement)

		r.Get("/balances/{personID}", s.handleOverallBalance)
		r.Get("/balances/{personID}/with/{otherID}", s.handleBalanceBetween)
		r.Get("/dashboard/{personID}", s.handleDashboard)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode parses a JSON request body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps service and storage errors onto HTTP statuses.
// Validation failures carry their field-scoped messages; anything
// unexpected is logged and reported opaquely.
func respondError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Errors})
	case errors.Is(err, storage.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, storage.ErrRecalcConflict):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "concurrent recalculation conflict, retry"})
	default:
		slog.Error("Request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

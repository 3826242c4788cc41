// Package rest exposes the canonical operations over JSON HTTP. Routes
// are keyed by gateway name; the payloads carry canonical field names
// only, never gateway-specific keys.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/service"
)

// PaymentService is the orchestration surface the handlers call.
type PaymentService interface {
	Gateways() []string
	Authorize(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	Capture(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	Settle(ctx context.Context, gatewayName, amount, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error)
	Void(ctx context.Context, gatewayName, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error)
	Credit(ctx context.Context, gatewayName, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
	ListTransactions(ctx context.Context, gatewayName string, limit, offset int) ([]*service.Transaction, error)
}

type Handler struct {
	svc      PaymentService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(svc PaymentService, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes builds the router. Middleware is layered on by the caller.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/gateways", h.HandleListGateways)

	r.Route("/gateways/{gateway}", func(r chi.Router) {
		r.Post("/authorize", h.HandleAuthorize)
		r.Post("/capture", h.HandleCapture)
		r.Post("/settle", h.HandleSettle)
		r.Post("/void", h.HandleVoid)
		r.Post("/credit", h.HandleCredit)
		r.Get("/transactions", h.HandleListTransactions)
	})

	r.Get("/transactions/{id}", h.HandleGetTransaction)

	return r
}

func (h *Handler) HandleListGateways(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{"gateways": h.svc.Gateways()})
}

// Package service orchestrates canonical operations: it resolves the
// named gateway from the registry, dispatches the call and records the
// normalized outcome in the transaction log.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
)

var (
	ErrUnknownGateway      = errors.New("unknown gateway")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction is one logged operation outcome. AmountCents is the
// canonical minor-unit rendering of the amount the caller submitted;
// zero when the operation carried no amount.
type Transaction struct {
	ID           uuid.UUID
	Gateway      string
	Operation    string
	AmountCents  int64
	Approved     bool
	ResponseText string
	AuthCode     string
	AVSResponse  string
	CVVResponse  string
	TransID      string
	AltTransID   string
	ResponseTime string
	CreatedAt    time.Time
}

// Store is the persistence port for the transaction log.
type Store interface {
	RecordTransaction(ctx context.Context, t *Transaction) error
	FindTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactionsByGateway(ctx context.Context, gatewayName string, limit, offset int) ([]*Transaction, error)
}

// Receipt pairs the normalized gateway result with the log entry's id so
// callers can look the outcome up again later.
type Receipt struct {
	Reference uuid.UUID
	Result    *gateway.Result
}

type PaymentService struct {
	registry *gateway.Registry
	store    Store
	logger   *slog.Logger
}

func NewPaymentService(registry *gateway.Registry, store Store, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// Gateways lists the processor names available in the registry.
func (s *PaymentService) Gateways() []string {
	return s.registry.Names()
}

func (s *PaymentService) Authorize(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*Receipt, error) {
	gw, err := s.registry.Get(gatewayName)
	if err != nil {
		return nil, ErrUnknownGateway
	}
	result, err := gw.Authorize(ctx, amount, cc, opts)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, gatewayName, "authorize", amount, result), nil
}

func (s *PaymentService) Capture(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*Receipt, error) {
	gw, err := s.registry.Get(gatewayName)
	if err != nil {
		return nil, ErrUnknownGateway
	}
	result, err := gw.Capture(ctx, amount, cc, opts)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, gatewayName, "capture", amount, result), nil
}

func (s *PaymentService) Settle(ctx context.Context, gatewayName, amount, transID string, opts *gateway.TransactionOptions) (*Receipt, error) {
	gw, err := s.registry.Get(gatewayName)
	if err != nil {
		return nil, ErrUnknownGateway
	}
	result, err := gw.Settle(ctx, amount, transID, opts)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, gatewayName, "settle", amount, result), nil
}

func (s *PaymentService) Void(ctx context.Context, gatewayName, transID string, opts *gateway.TransactionOptions) (*Receipt, error) {
	gw, err := s.registry.Get(gatewayName)
	if err != nil {
		return nil, ErrUnknownGateway
	}
	result, err := gw.Void(ctx, transID, opts)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, gatewayName, "void", "", result), nil
}

func (s *PaymentService) Credit(ctx context.Context, gatewayName, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*Receipt, error) {
	gw, err := s.registry.Get(gatewayName)
	if err != nil {
		return nil, ErrUnknownGateway
	}
	result, err := gw.Credit(ctx, amount, transID, cc, opts)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, gatewayName, "credit", amount, result), nil
}

// GetTransaction looks a logged outcome up by its reference id.
func (s *PaymentService) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.store.FindTransaction(ctx, id)
}

// ListTransactions pages through the log for one gateway.
func (s *PaymentService) ListTransactions(ctx context.Context, gatewayName string, limit, offset int) ([]*Transaction, error) {
	return s.store.ListTransactionsByGateway(ctx, gatewayName, limit, offset)
}

// record persists the outcome. Logging is best effort: a store failure is
// reported but never turns a processed payment into a caller-facing error.
func (s *PaymentService) record(ctx context.Context, gatewayName, operation, amount string, result *gateway.Result) *Receipt {
	t := &Transaction{
		ID:           uuid.New(),
		Gateway:      gatewayName,
		Operation:    operation,
		Approved:     result.Approved,
		ResponseText: result.ResponseText,
		AuthCode:     result.AuthCode,
		AVSResponse:  result.AVSResponse,
		CVVResponse:  result.CVVResponse,
		TransID:      result.TransID,
		AltTransID:   result.AltTransID,
		ResponseTime: result.ResponseTime,
		CreatedAt:    time.Now().UTC(),
	}

	if amount == "" {
		amount = result.Amount
	}
	if amount != "" {
		if cents, err := gateway.AmountMinorUnits(amount); err == nil {
			t.AmountCents = cents
		}
	}

	if err := s.store.RecordTransaction(ctx, t); err != nil {
		s.logger.Error("failed to record transaction",
			"gateway", gatewayName,
			"operation", operation,
			"error", err,
		)
	}

	return &Receipt{Reference: t.ID, Result: result}
}

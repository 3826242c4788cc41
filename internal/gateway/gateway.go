// Package gateway is the field-translation and response-standardization
// engine: the canonical transaction vocabulary, the per-gateway mapping
// contract, the request builder, and the response normalizer every adapter
// composes.
package gateway

import (
	"context"
	"fmt"
	"sort"

	"github.com/paybridge/gateway/internal/card"
)

// TransactionOptions carries the optional data an operation can take.
// Everything is optional; adapters error on fields their gateway requires
// but the caller omitted.
type TransactionOptions struct {
	Billing  *Billing
	Shipping *Shipping

	// SplitTenderID groups partial-auth transactions on gateways with
	// split-tender support.
	SplitTenderID string
	PartialAuth   bool

	// AltTransID and OrderNumber identify prior transactions on gateways
	// that key tagged operations by more than one reference.
	AltTransID  string
	OrderNumber string
}

// Gateway is the five-operation canonical surface every adapter implements.
// Amounts are decimal strings; scale is the adapter's concern.
type Gateway interface {
	// Authorize places a hold for amount without settling it.
	Authorize(ctx context.Context, amount string, cc *card.CreditCard, opts *TransactionOptions) (*Result, error)

	// Capture charges amount for same-day settlement.
	Capture(ctx context.Context, amount string, cc *card.CreditCard, opts *TransactionOptions) (*Result, error)

	// Settle completes a prior authorization identified by transID.
	Settle(ctx context.Context, amount, transID string, opts *TransactionOptions) (*Result, error)

	// Void cancels a prior transaction in full.
	Void(ctx context.Context, transID string, opts *TransactionOptions) (*Result, error)

	// Credit refunds a prior transaction, partially or fully.
	Credit(ctx context.Context, amount, transID string, cc *card.CreditCard, opts *TransactionOptions) (*Result, error)
}

// Registry holds the configured adapters by name. It is populated at
// startup and read-only afterwards.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry() *Registry {
	return &Registry{gateways: map[string]Gateway{}}
}

func (r *Registry) Register(name string, g Gateway) {
	r.gateways[name] = g
}

func (r *Registry) Get(name string) (Gateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("unknown gateway %q", name)
	}
	return g, nil
}

// Names lists the registered gateways in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options returns opts or an empty value so adapters can read fields
// without nil checks.
func Options(opts *TransactionOptions) TransactionOptions {
	if opts == nil {
		return TransactionOptions{}
	}
	return *opts
}

// Package stripe adapts the canonical operations to the Stripe charges
// API: form POST transport, JSON response, amounts in integer minor
// units, success signalled by the absence of a failure_message. Stripe
// has no separate authorization and settlement phases, so only Capture
// and Credit are supported.
package stripe

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/transport"
)

const baseURL = "https://api.stripe.com/v1"

var requestFields = gateway.FieldMapping{
	gateway.FieldFullName:          "card[name]",
	gateway.FieldFirstName:         gateway.Unsupported,
	gateway.FieldLastName:          gateway.Unsupported,
	gateway.FieldEmail:             "receipt_email",
	gateway.FieldPhone:             gateway.Unsupported,
	gateway.FieldAddress:           "card[address_line1]",
	gateway.FieldAddress2:          "card[address_line2]",
	gateway.FieldCity:              gateway.Unsupported,
	gateway.FieldState:             "card[address_state]",
	gateway.FieldZipcode:           "card[address_zip]",
	gateway.FieldCountry:           gateway.Unsupported,
	gateway.FieldIP:                gateway.Unsupported,
	gateway.FieldNumber:            "card[number]",
	gateway.FieldExpDate:           gateway.Unsupported,
	gateway.FieldExpMonth:          "card[exp_month]",
	gateway.FieldExpYear:           "card[exp_year]",
	gateway.FieldVerificationValue: "card[cvc]",
	gateway.FieldCardType:          gateway.Unsupported,
	gateway.FieldShipFullName:      gateway.Unsupported,
	gateway.FieldShipFirstName:     gateway.Unsupported,
	gateway.FieldShipLastName:      gateway.Unsupported,
	gateway.FieldShipCompany:       gateway.Unsupported,
	gateway.FieldShipAddress:       gateway.Unsupported,
	gateway.FieldShipAddress2:      gateway.Unsupported,
	gateway.FieldShipCity:          gateway.Unsupported,
	gateway.FieldShipState:         gateway.Unsupported,
	gateway.FieldShipZipcode:       gateway.Unsupported,
	gateway.FieldShipCountry:       gateway.Unsupported,
	gateway.FieldShipPhone:         gateway.Unsupported,
	gateway.FieldShipEmail:         gateway.Unsupported,
	gateway.FieldAmount:            "amount",
	gateway.FieldTransType:         gateway.Unsupported,
	gateway.FieldTransID:           gateway.Unsupported,
	gateway.FieldAltTransID:        gateway.Unsupported,
	gateway.FieldSplitTenderID:     gateway.Unsupported,
	gateway.FieldIsPartial:         gateway.Unsupported,
}

var responseFields = gateway.ResponseMapping{
	"id":                  "trans_id",
	"amount":              "amount",
	"cvc_check":           "cvv_response",
	"address_line1_check": "avs_response",
}

type Config struct {
	APIKey   string
	Currency string
}

type Gateway struct {
	currency string
	endpoint string
	sender   transport.Sender
	logger   *slog.Logger
}

// New builds the adapter. The API key rides as basic-auth userinfo on the
// endpoint URL, which is how Stripe authenticates form posts.
func New(cfg Config, sender transport.Sender, logger *slog.Logger) *Gateway {
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	u, _ := url.Parse(baseURL)
	u.User = url.User(cfg.APIKey)
	return &Gateway{
		currency: currency,
		endpoint: u.String(),
		sender:   sender,
		logger:   logger,
	}
}

// Authorize is unsupported: Stripe has no authorize-then-settle flow.
func (g *Gateway) Authorize(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return nil, gateway.NewUnsupportedOperationError("stripe", "authorize")
}

// Settle is unsupported for the same reason as Authorize.
func (g *Gateway) Settle(ctx context.Context, amount, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return nil, gateway.NewUnsupportedOperationError("stripe", "settle")
}

// Void is unsupported; refund the charge with Credit instead.
func (g *Gateway) Void(ctx context.Context, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return nil, gateway.NewUnsupportedOperationError("stripe", "void")
}

// Capture charges the card immediately.
func (g *Gateway) Capture(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	req := gateway.NewRequest()

	minor, err := gateway.AmountMinorUnits(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldAmount], fmt.Sprintf("%d", minor))
	req.Set("currency", g.currency)

	if err := gateway.ApplyCard(req, requestFields, cc, gateway.BuildOptions{}); err != nil {
		return nil, err
	}
	if err := gateway.ApplyBilling(req, requestFields, o.Billing); err != nil {
		return nil, err
	}
	if err := gateway.ApplyShipping(req, requestFields, o.Shipping); err != nil {
		return nil, err
	}

	return g.send(ctx, g.endpoint+"/charges", req)
}

// Credit refunds a charge, partially when amount is set and fully when it
// is empty.
func (g *Gateway) Credit(ctx context.Context, amount, transID string, _ *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	if transID == "" {
		return nil, gateway.NewMissingRequiredDataError("the charge id")
	}
	req := gateway.NewRequest()

	if amount != "" {
		minor, err := gateway.AmountMinorUnits(amount)
		if err != nil {
			return nil, err
		}
		req.Set("amount", fmt.Sprintf("%d", minor))
	}

	return g.send(ctx, g.endpoint+"/charges/"+url.PathEscape(transID)+"/refund", req)
}

func (g *Gateway) send(ctx context.Context, endpoint string, req *gateway.Request) (*gateway.Result, error) {
	resp, err := g.sender.PostForm(ctx, endpoint, req.Values())
	if err != nil {
		return nil, err
	}

	values, err := gateway.DecodeJSON(resp.Body)
	if err != nil {
		return nil, err
	}

	failure, failed := values["failure_message"]
	approved := !failed

	g.logger.Debug("stripe response",
		"approved", approved,
		"fields", len(values),
		"elapsed", gateway.FormatElapsed(resp.Elapsed),
	)

	// The charge amount comes back in minor units.
	if minor, ok := values["amount"]; ok {
		if dollars, err := gateway.AmountFromMinorUnits(minor); err == nil {
			values["amount"] = dollars
		}
	}

	result := gateway.StandardizeMap(values, responseFields, resp.Elapsed, approved)
	if approved {
		result.ResponseText = "success"
	} else {
		result.ResponseText = failure
	}
	if refunded, ok := values["amount_refunded"]; ok && refunded != "0" {
		result.Extra["trans_type"] = "credit"
	} else {
		result.Extra["trans_type"] = "capture"
	}
	return result, nil
}

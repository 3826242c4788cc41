// Package paypal adapts the canonical operations to the PayPal Website
// Payments Pro NVP API: GET with a query string, URL-encoded key/value
// response, approval signalled by ack == "Success".
package paypal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/transport"
)

const (
	liveURL = "https://api-3t.paypal.com/nvp"
	testURL = "https://api-3t.sandbox.paypal.com/nvp"

	apiVersion = "54.0"
)

var requestFields = gateway.FieldMapping{
	gateway.FieldFullName:          gateway.Unsupported,
	gateway.FieldFirstName:         "firstname",
	gateway.FieldLastName:          "lastname",
	gateway.FieldEmail:             "email",
	gateway.FieldPhone:             "shiptophonenum",
	gateway.FieldAddress:           "street",
	gateway.FieldAddress2:          "street2",
	gateway.FieldCity:              "city",
	gateway.FieldState:             "state",
	gateway.FieldZipcode:           "zip",
	gateway.FieldCountry:           "countrycode",
	gateway.FieldIP:                "ipaddress",
	gateway.FieldNumber:            "acct",
	gateway.FieldExpDate:           "expdate",
	gateway.FieldExpMonth:          gateway.Unsupported,
	gateway.FieldExpYear:           gateway.Unsupported,
	gateway.FieldVerificationValue: "cvv2",
	gateway.FieldCardType:          "creditcardtype",
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
	gateway.FieldAmount:            "amt",
	gateway.FieldTransType:         "method",
	gateway.FieldTransID:           "transactionid",
	gateway.FieldAltTransID:        "authorizationid",
	gateway.FieldSplitTenderID:     gateway.Unsupported,
	gateway.FieldIsPartial:         gateway.Unsupported,
}

var responseFields = gateway.ResponseMapping{
	"ack":            "response_code",
	"l_errorcode0":   "response_reason_code",
	"l_longmessage0": "response_text",
	"correlationid":  "auth_code",
	"avscode":        "avs_response",
	"transactionid":  "trans_id",
	"amt":            "amount",
	"cvv2match":      "cvv_response",
}

// cardTypes maps canonical network tags to the names the NVP API expects.
var cardTypes = map[card.Network]string{
	card.NetworkVisa:     "Visa",
	card.NetworkAmex:     "Amex",
	card.NetworkMC:       "MasterCard",
	card.NetworkDiscover: "Discover",
}

type Config struct {
	User      string
	Password  string
	Signature string
	TestMode  bool
}

type Gateway struct {
	cfg      Config
	endpoint string
	sender   transport.Sender
	logger   *slog.Logger
}

func New(cfg Config, sender transport.Sender, logger *slog.Logger) *Gateway {
	endpoint := liveURL
	if cfg.TestMode {
		endpoint = testURL
	}
	return &Gateway{
		cfg:      cfg,
		endpoint: endpoint,
		sender:   sender,
		logger:   logger,
	}
}

func (g *Gateway) newRequest() *gateway.Request {
	req := gateway.NewRequest()
	req.Set("USER", g.cfg.User)
	req.Set("PWD", g.cfg.Password)
	req.Set("SIGNATURE", g.cfg.Signature)
	req.Set("VERSION", apiVersion)
	return req
}

// applyCard layers the NVP quirks over the shared builder: the expiration
// date loses its slash (MMYYYY) and the network tag becomes PayPal's
// title-case card type name.
func (g *Gateway) applyCard(req *gateway.Request, cc *card.CreditCard) error {
	if err := gateway.ApplyCard(req, requestFields, cc, gateway.BuildOptions{}); err != nil {
		return err
	}
	req.Set("expdate", strings.ReplaceAll(req.Get("expdate"), "/", ""))
	if name, ok := cardTypes[cc.Network()]; ok {
		req.Set("creditcardtype", name)
	}
	return nil
}

func (g *Gateway) Authorize(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "Authorization", amount, cc, opts)
}

func (g *Gateway) Capture(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "Sale", amount, cc, opts)
}

func (g *Gateway) charge(ctx context.Context, paymentAction, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	req := g.newRequest()

	amt, err := gateway.FormatAmount(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldAmount], amt)
	req.Set(requestFields[gateway.FieldTransType], "DoDirectPayment")
	req.Set("paymentaction", paymentAction)

	if err := g.applyCard(req, cc); err != nil {
		return nil, err
	}
	if err := gateway.ApplyBilling(req, requestFields, o.Billing); err != nil {
		return nil, err
	}
	if err := gateway.ApplyShipping(req, requestFields, o.Shipping); err != nil {
		return nil, err
	}

	return g.send(ctx, req, "DoDirectPayment-"+paymentAction)
}

// Settle captures a prior authorization in full. PayPal keys captures on
// the authorization id, not the transaction id.
func (g *Gateway) Settle(ctx context.Context, amount, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	req := g.newRequest()

	amt, err := gateway.FormatAmount(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldTransType], "DoCapture")
	req.Set(requestFields[gateway.FieldAmount], amt)
	req.Set(requestFields[gateway.FieldAltTransID], transID)
	req.Set("completetype", "Complete")

	return g.send(ctx, req, "DoCapture")
}

func (g *Gateway) Void(ctx context.Context, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "DoVoid")
	req.Set(requestFields[gateway.FieldAltTransID], transID)

	return g.send(ctx, req, "DoVoid")
}

// Credit refunds a settled transaction, partially when amount is set and
// fully when it is empty.
func (g *Gateway) Credit(ctx context.Context, amount, transID string, _ *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "RefundTransaction")
	req.Set(requestFields[gateway.FieldTransID], transID)

	if amount != "" {
		amt, err := gateway.FormatAmount(amount)
		if err != nil {
			return nil, err
		}
		req.Set("refundtype", "Partial")
		req.Set(requestFields[gateway.FieldAmount], amt)
	} else {
		req.Set("refundtype", "Full")
	}

	return g.send(ctx, req, "RefundTransaction")
}

func (g *Gateway) send(ctx context.Context, req *gateway.Request, transType string) (*gateway.Result, error) {
	resp, err := g.sender.Get(ctx, g.endpoint, req.Values())
	if err != nil {
		return nil, err
	}

	values, err := gateway.DecodeNVP(string(resp.Body))
	if err != nil {
		return nil, err
	}
	ack, ok := values["ack"]
	if !ok {
		return nil, gateway.NewProtocolError("response carries no ack field", nil)
	}
	approved := ack == "Success"

	g.logger.Debug("paypal response",
		"ack", ack,
		"fields", len(values),
		"elapsed", gateway.FormatElapsed(resp.Elapsed),
	)

	result := gateway.StandardizeMap(values, responseFields, resp.Elapsed, approved)
	result.Extra["trans_type"] = transType
	return result, nil
}

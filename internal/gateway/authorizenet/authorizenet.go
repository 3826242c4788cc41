// Package authorizenet adapts the canonical operations to the Authorize.Net
// AIM protocol: GET with a query string, delimiter-separated positional
// response, approval signalled by the first position equalling "1".
package authorizenet

import (
	"context"
	"log/slog"

	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/transport"
)

const (
	liveURL = "https://secure.authorize.net/gateway/transact.dll"
	testURL = "https://test.authorize.net/gateway/transact.dll"

	apiVersion       = "3.1"
	defaultDelimiter = ";"
)

var requestFields = gateway.FieldMapping{
	gateway.FieldFullName:          gateway.Unsupported,
	gateway.FieldFirstName:         "x_first_name",
	gateway.FieldLastName:          "x_last_name",
	gateway.FieldEmail:             "x_email",
	gateway.FieldPhone:             "x_phone",
	gateway.FieldAddress:           "x_address",
	gateway.FieldAddress2:          gateway.Unsupported,
	gateway.FieldCity:              "x_city",
	gateway.FieldState:             "x_state",
	gateway.FieldZipcode:           "x_zip",
	gateway.FieldCountry:           "x_country",
	gateway.FieldIP:                "x_customer_ip",
	gateway.FieldNumber:            "x_card_num",
	gateway.FieldExpDate:           "x_exp_date",
	gateway.FieldExpMonth:          gateway.Unsupported,
	gateway.FieldExpYear:           gateway.Unsupported,
	gateway.FieldVerificationValue: "x_card_code",
	gateway.FieldCardType:          gateway.Unsupported,
	gateway.FieldShipFullName:      gateway.Unsupported,
	gateway.FieldShipFirstName:     "x_ship_to_first_name",
	gateway.FieldShipLastName:      "x_ship_to_last_name",
	gateway.FieldShipCompany:       "x_ship_to_company",
	gateway.FieldShipAddress:       "x_ship_to_address",
	gateway.FieldShipAddress2:      gateway.Unsupported,
	gateway.FieldShipCity:          "x_ship_to_city",
	gateway.FieldShipState:         "x_ship_to_state",
	gateway.FieldShipZipcode:       "x_ship_to_zip",
	gateway.FieldShipCountry:       "x_ship_to_country",
	gateway.FieldShipPhone:         gateway.Unsupported,
	gateway.FieldShipEmail:         gateway.Unsupported,
	gateway.FieldAmount:            "x_amount",
	gateway.FieldTransType:         "x_type",
	gateway.FieldTransID:           "x_trans_id",
	gateway.FieldAltTransID:        gateway.Unsupported,
	gateway.FieldSplitTenderID:     "x_split_tender_id",
	gateway.FieldIsPartial:         "x_allow_partial_auth",
}

// Position-indexed response table. AVS letters: Y = street and five-digit
// ZIP match, Z = ZIP only, A = street only, X = street and nine-digit ZIP.
var responseFields = gateway.ResponseMapping{
	"0":  "response_code",
	"2":  "response_reason_code",
	"3":  "response_text",
	"4":  "auth_code",
	"5":  "avs_response",
	"6":  "trans_id",
	"9":  "amount",
	"11": "trans_type",
	"12": "alt_trans_id",
	"38": "cvv_response",
	"53": "split_tender_id",
	"54": "requested_amount",
	"55": "balance_on_card",
}

// Config fixes credentials and endpoint mode at construction; neither can
// change mid-call.
type Config struct {
	Login     string
	TransKey  string
	TestMode  bool
	Delimiter string
}

type Gateway struct {
	cfg      Config
	endpoint string
	delim    string
	sender   transport.Sender
	logger   *slog.Logger
}

func New(cfg Config, sender transport.Sender, logger *slog.Logger) *Gateway {
	endpoint := liveURL
	if cfg.TestMode {
		endpoint = testURL
	}
	delim := cfg.Delimiter
	if delim == "" {
		delim = defaultDelimiter
	}
	return &Gateway{
		cfg:      cfg,
		endpoint: endpoint,
		delim:    delim,
		sender:   sender,
		logger:   logger,
	}
}

// newRequest starts a fresh call-scoped payload with credentials and the
// fixed charge fields.
func (g *Gateway) newRequest() *gateway.Request {
	req := gateway.NewRequest()
	req.Set("x_login", g.cfg.Login)
	req.Set("x_tran_key", g.cfg.TransKey)
	req.Set("x_delim_data", "TRUE")
	req.Set("x_delim_char", g.delim)
	req.Set("x_version", apiVersion)
	return req
}

func (g *Gateway) Authorize(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "AUTH_ONLY", amount, cc, opts)
}

func (g *Gateway) Capture(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "AUTH_CAPTURE", amount, cc, opts)
}

func (g *Gateway) charge(ctx context.Context, transType, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	req := g.newRequest()

	amt, err := gateway.FormatAmount(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldAmount], amt)
	req.Set(requestFields[gateway.FieldTransType], transType)

	if o.PartialAuth {
		req.Set(requestFields[gateway.FieldIsPartial], "true")
		req.Set(requestFields[gateway.FieldSplitTenderID], o.SplitTenderID)
	}

	if err := gateway.ApplyCard(req, requestFields, cc, gateway.BuildOptions{}); err != nil {
		return nil, err
	}
	if err := gateway.ApplyBilling(req, requestFields, o.Billing); err != nil {
		return nil, err
	}
	if err := gateway.ApplyShipping(req, requestFields, o.Shipping); err != nil {
		return nil, err
	}

	return g.send(ctx, req)
}

// Settle completes a prior authorization. A split tender id in opts
// settles the entire split instead of one transaction.
func (g *Gateway) Settle(ctx context.Context, amount, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	req := g.newRequest()

	amt, err := gateway.FormatAmount(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldTransType], "PRIOR_AUTH_CAPTURE")
	req.Set(requestFields[gateway.FieldAmount], amt)
	req.Set(requestFields[gateway.FieldTransID], transID)

	if o.SplitTenderID != "" {
		req.Set(requestFields[gateway.FieldSplitTenderID], o.SplitTenderID)
		req.Unset(requestFields[gateway.FieldTransID])
	}

	return g.send(ctx, req)
}

// Void cancels a transaction in full. A split tender id voids the entire
// split.
func (g *Gateway) Void(ctx context.Context, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "VOID")
	req.Set(requestFields[gateway.FieldTransID], transID)

	if o.SplitTenderID != "" {
		req.Set(requestFields[gateway.FieldSplitTenderID], o.SplitTenderID)
		req.Unset(requestFields[gateway.FieldTransID])
	}

	return g.send(ctx, req)
}

// Credit refunds a settled transaction. Authorize.Net requires the card
// number on credits; amount may be empty for a full refund.
func (g *Gateway) Credit(ctx context.Context, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	if cc == nil {
		return nil, gateway.NewMissingRequiredDataError("a credit card")
	}

	o := gateway.Options(opts)
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "CREDIT")
	req.Set(requestFields[gateway.FieldTransID], transID)
	req.Set(requestFields[gateway.FieldNumber], cc.Number)

	if amount != "" {
		amt, err := gateway.FormatAmount(amount)
		if err != nil {
			return nil, err
		}
		req.Set(requestFields[gateway.FieldAmount], amt)
	}

	if o.SplitTenderID != "" {
		req.Set(requestFields[gateway.FieldSplitTenderID], o.SplitTenderID)
		req.Unset(requestFields[gateway.FieldTransID])
	}

	return g.send(ctx, req)
}

func (g *Gateway) send(ctx context.Context, req *gateway.Request) (*gateway.Result, error) {
	resp, err := g.sender.Get(ctx, g.endpoint, req.Values())
	if err != nil {
		return nil, err
	}

	values := gateway.DecodeDelimited(string(resp.Body), g.delim)
	if len(values) < 2 {
		return nil, gateway.NewProtocolError("response is not a delimited record", nil)
	}
	approved := values[0] == "1"

	g.logger.Debug("authorize.net response",
		"approved", approved,
		"fields", len(values),
		"elapsed", gateway.FormatElapsed(resp.Elapsed),
	)

	return gateway.StandardizeList(values, responseFields, resp.Elapsed, approved), nil
}

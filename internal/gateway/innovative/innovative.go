// Package innovative adapts the canonical operations to the Innovative
// Gateway (Intuit) WebCharge protocol: POST form transport, URL-encoded
// key/value response, approval signalled by the presence of an "approval"
// key. There is no test endpoint; test mode is a matter of credentials.
package innovative

import (
	"context"
	"log/slog"
	"strings"

	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/transport"
)

const (
	liveURL = "https://transactions.innovativegateway.com/servlet/com.gateway.aai.Aai"

	targetApp = "WebCharge_v5.06"

	// The gateway intermittently reports a transient upstream failure as a
	// hard error. Paired with transport.RetrySender this bounds the calls
	// we make before giving up.
	maxAttempts = 3
)

// Address and address2 are swapped on the shipping side; that is how the
// gateway names them.
var requestFields = gateway.FieldMapping{
	gateway.FieldFullName:          "ccname",
	gateway.FieldFirstName:         gateway.Unsupported,
	gateway.FieldLastName:          gateway.Unsupported,
	gateway.FieldEmail:             "email",
	gateway.FieldPhone:             "bphone",
	gateway.FieldAddress:           "baddress",
	gateway.FieldAddress2:          "baddress1",
	gateway.FieldCity:              "bcity",
	gateway.FieldState:             "bstate",
	gateway.FieldZipcode:           "bzip",
	gateway.FieldCountry:           "bcountry",
	gateway.FieldIP:                gateway.Unsupported,
	gateway.FieldNumber:            "ccnumber",
	gateway.FieldExpDate:           gateway.Unsupported,
	gateway.FieldExpMonth:          "month",
	gateway.FieldExpYear:           "year",
	gateway.FieldVerificationValue: "ccidentifier1",
	gateway.FieldCardType:          "cardtype",
	gateway.FieldShipFullName:      gateway.Unsupported,
	gateway.FieldShipFirstName:     gateway.Unsupported,
	gateway.FieldShipLastName:      gateway.Unsupported,
	gateway.FieldShipCompany:       gateway.Unsupported,
	gateway.FieldShipAddress:       "saddress1",
	gateway.FieldShipAddress2:      "saddress",
	gateway.FieldShipCity:          "scity",
	gateway.FieldShipState:         "sstate",
	gateway.FieldShipZipcode:       "szip",
	gateway.FieldShipCountry:       "scountry",
	gateway.FieldShipPhone:         gateway.Unsupported,
	gateway.FieldShipEmail:         gateway.Unsupported,
	gateway.FieldAmount:            "fulltotal",
	gateway.FieldTransType:         "trantype",
	gateway.FieldTransID:           "trans_id",
	gateway.FieldAltTransID:        "reference",
	gateway.FieldSplitTenderID:     gateway.Unsupported,
	gateway.FieldIsPartial:         gateway.Unsupported,
}

var responseFields = gateway.ResponseMapping{
	"error":       "response_text",
	"messageid":   "auth_code",
	"avs":         "avs_response",
	"anatransid":  "trans_id",
	"fulltotal":   "amount",
	"trantype":    "trans_type",
	"approval":    "alt_trans_id",
	"ordernumber": "alt_trans_id2",
}

type Config struct {
	Username string
	Password string
}

type Gateway struct {
	cfg    Config
	sender transport.Sender
	logger *slog.Logger
}

// New wraps the sender in a bounded retry: the gateway's transient
// upstream failures surface as retryable transport errors.
func New(cfg Config, sender transport.Sender, logger *slog.Logger) *Gateway {
	return &Gateway{
		cfg:    cfg,
		sender: transport.NewRetrySender(sender, maxAttempts),
		logger: logger,
	}
}

// newRequest starts a fresh call-scoped payload with credentials and the
// fixed WebCharge envelope fields.
func (g *Gateway) newRequest() *gateway.Request {
	req := gateway.NewRequest()
	req.Set("username", g.cfg.Username)
	req.Set("pw", g.cfg.Password)
	req.Set("target_app", targetApp)
	req.Set("response_mode", "simple")
	req.Set("response_fmt", "url_encoded")
	req.Set("upg_auth", "zxcvlkjh")
	return req
}

func (g *Gateway) Authorize(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "preauth", amount, cc, opts)
}

func (g *Gateway) Capture(ctx context.Context, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	return g.charge(ctx, "sale", amount, cc, opts)
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

	// WebCharge rejects four-digit expiration years.
	if err := gateway.ApplyCard(req, requestFields, cc, gateway.BuildOptions{TwoDigitExpYear: true}); err != nil {
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

// Settle completes a prior authorization. The approval reference returned
// by the original authorization must ride along in opts.AltTransID.
func (g *Gateway) Settle(ctx context.Context, amount, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	if o.AltTransID == "" {
		return nil, gateway.NewMissingRequiredDataError("the authorization approval reference")
	}
	req := g.newRequest()

	amt, err := gateway.FormatAmount(amount)
	if err != nil {
		return nil, err
	}
	req.Set(requestFields[gateway.FieldTransType], "postauth")
	req.Set(requestFields[gateway.FieldAmount], amt)
	req.Set(requestFields[gateway.FieldTransID], transID)
	req.Set(requestFields[gateway.FieldAltTransID], o.AltTransID)
	req.Set("authamount", amt)

	return g.send(ctx, req)
}

// Void cancels a transaction in full. WebCharge keys voids on three
// identifiers: the transaction id, the approval reference and the order
// number from the original response.
func (g *Gateway) Void(ctx context.Context, transID string, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	if o.AltTransID == "" || o.OrderNumber == "" {
		return nil, gateway.NewMissingRequiredDataError("the approval reference and order number")
	}
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "void")
	req.Set(requestFields[gateway.FieldTransID], transID)
	req.Set(requestFields[gateway.FieldAltTransID], o.AltTransID)
	req.Set("ordernumber", o.OrderNumber)

	return g.send(ctx, req)
}

// Credit refunds a transaction, partially when amount is set and fully
// when it is empty. The card is not needed; refunds key on the original
// transaction's identifiers.
func (g *Gateway) Credit(ctx context.Context, amount, transID string, _ *card.CreditCard, opts *gateway.TransactionOptions) (*gateway.Result, error) {
	o := gateway.Options(opts)
	if o.AltTransID == "" || o.OrderNumber == "" {
		return nil, gateway.NewMissingRequiredDataError("the approval reference and order number")
	}
	req := g.newRequest()

	req.Set(requestFields[gateway.FieldTransType], "credit")
	req.Set(requestFields[gateway.FieldTransID], transID)
	req.Set(requestFields[gateway.FieldAltTransID], o.AltTransID)
	req.Set("ordernumber", o.OrderNumber)

	if amount != "" {
		amt, err := gateway.FormatAmount(amount)
		if err != nil {
			return nil, err
		}
		req.Set(requestFields[gateway.FieldAmount], amt)
	}

	return g.send(ctx, req)
}

func (g *Gateway) send(ctx context.Context, req *gateway.Request) (*gateway.Result, error) {
	resp, err := g.sender.PostForm(ctx, liveURL, req.Values())
	if err != nil {
		return nil, err
	}

	values, err := gateway.DecodeNVP(string(resp.Body))
	_, approved := values["approval"]
	_, errored := values["error"]
	if err != nil || (!approved && !errored) {
		// The gateway sometimes answers with a bare text error instead
		// of its url-encoded record. Surface it as a declined result so
		// the caller still gets response_text and response_time.
		g.logger.Warn("innovative gateway returned non-structured response",
			"elapsed", gateway.FormatElapsed(resp.Elapsed),
		)
		return gateway.ErrorResult(strings.TrimSpace(string(resp.Body)), resp.Elapsed), nil
	}

	g.logger.Debug("innovative gateway response",
		"approved", approved,
		"fields", len(values),
		"elapsed", gateway.FormatElapsed(resp.Elapsed),
	)

	return gateway.StandardizeMap(values, responseFields, resp.Elapsed, approved), nil
}

// TrackedResult captures the identifiers a caller must retain to settle,
// void or refund an Innovative transaction later.
type TrackedResult struct {
	TransID     string
	Reference   string
	OrderNumber string
}

// Track extracts the follow-up identifiers from an approved result.
func Track(res *gateway.Result) TrackedResult {
	return TrackedResult{
		TransID:     res.TransID,
		Reference:   res.AltTransID,
		OrderNumber: res.Extra["alt_trans_id2"],
	}
}

package rest_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/interfaces/rest"
	"github.com/paybridge/gateway/internal/service"
	"github.com/paybridge/gateway/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	AuthorizeFn func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	CaptureFn   func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	SettleFn    func(ctx context.Context, gatewayName, amount, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error)
	VoidFn      func(ctx context.Context, gatewayName, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error)
	CreditFn    func(ctx context.Context, gatewayName, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error)
	GetFn       func(ctx context.Context, id uuid.UUID) (*service.Transaction, error)
	ListFn      func(ctx context.Context, gatewayName string, limit, offset int) ([]*service.Transaction, error)
}

func (m *MockService) Gateways() []string { return []string{"authorizenet", "stripe"} }

func (m *MockService) Authorize(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
	return m.AuthorizeFn(ctx, gatewayName, amount, cc, opts)
}

func (m *MockService) Capture(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
	return m.CaptureFn(ctx, gatewayName, amount, cc, opts)
}

func (m *MockService) Settle(ctx context.Context, gatewayName, amount, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error) {
	return m.SettleFn(ctx, gatewayName, amount, transID, opts)
}

func (m *MockService) Void(ctx context.Context, gatewayName, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error) {
	return m.VoidFn(ctx, gatewayName, transID, opts)
}

func (m *MockService) Credit(ctx context.Context, gatewayName, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
	return m.CreditFn(ctx, gatewayName, amount, transID, cc, opts)
}

func (m *MockService) GetTransaction(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
	return m.GetFn(ctx, id)
}

func (m *MockService) ListTransactions(ctx context.Context, gatewayName string, limit, offset int) ([]*service.Transaction, error) {
	return m.ListFn(ctx, gatewayName, limit, offset)
}

func newServer(svc rest.PaymentService) *httptest.Server {
	h := rest.NewHandler(svc, slog.Default())
	return httptest.NewServer(h.Routes())
}

func receipt() *service.Receipt {
	return &service.Receipt{
		Reference: uuid.New(),
		Result: &gateway.Result{
			Approved:     true,
			ResponseText: "Approved",
			AuthCode:     "AUTHCODE1",
			TransID:      "TXN123",
			ResponseTime: "0.42",
			Extra:        map[string]string{},
		},
	}
}

func postJSON(t *testing.T, url, body string) (*http.Response, rest.APIResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope rest.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestHandleAuthorize(t *testing.T) {
	t.Run("approved charge", func(t *testing.T) {
		svc := &MockService{
			AuthorizeFn: func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
				assert.Equal(t, "authorizenet", gatewayName)
				assert.Equal(t, "10.00", amount)
				assert.Equal(t, "4111111111111111", cc.Number)
				require.NotNil(t, opts)
				assert.Equal(t, "62704", opts.Billing.Zipcode)
				return receipt(), nil
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, envelope := postJSON(t, srv.URL+"/gateways/authorizenet/authorize", `{
			"amount": "10.00",
			"card": {"number": "4111111111111111", "exp_month": 12, "exp_year": 2031, "first_name": "John", "last_name": "Doe"},
			"options": {"billing": {"zipcode": "62704"}}
		}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.True(t, envelope.Success)
	})

	t.Run("missing card is a validation error", func(t *testing.T) {
		srv := newServer(&MockService{})
		defer srv.Close()

		resp, envelope := postJSON(t, srv.URL+"/gateways/authorizenet/authorize", `{"amount": "10.00"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	})

	t.Run("unknown gateway maps to 404", func(t *testing.T) {
		svc := &MockService{
			AuthorizeFn: func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
				return nil, service.ErrUnknownGateway
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, envelope := postJSON(t, srv.URL+"/gateways/nope/authorize", `{
			"amount": "10.00",
			"card": {"number": "4111111111111111", "exp_month": 12, "exp_year": 2031}
		}`)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "UNKNOWN_GATEWAY", envelope.Error.Code)
	})

	t.Run("card validation failure maps to 400", func(t *testing.T) {
		svc := &MockService{
			AuthorizeFn: func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
				return nil, card.NewValidationError(card.ReasonLuhn, "card number fails checksum validation")
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, envelope := postJSON(t, srv.URL+"/gateways/authorizenet/authorize", `{
			"amount": "10.00",
			"card": {"number": "4111111111111112", "exp_month": 12, "exp_year": 2031}
		}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	})

	t.Run("gateway timeout maps to 504", func(t *testing.T) {
		svc := &MockService{
			AuthorizeFn: func(ctx context.Context, gatewayName, amount string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
				return nil, &transport.Error{Timeout: true, Err: context.DeadlineExceeded}
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, envelope := postJSON(t, srv.URL+"/gateways/authorizenet/authorize", `{
			"amount": "10.00",
			"card": {"number": "4111111111111111", "exp_month": 12, "exp_year": 2031}
		}`)

		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
		assert.Equal(t, "GATEWAY_UNREACHABLE", envelope.Error.Code)
	})
}

func TestHandleSettle(t *testing.T) {
	svc := &MockService{
		SettleFn: func(ctx context.Context, gatewayName, amount, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error) {
			assert.Equal(t, "TXN123", transID)
			require.NotNil(t, opts)
			assert.Equal(t, "REF999", opts.AltTransID)
			return receipt(), nil
		},
	}
	srv := newServer(svc)
	defer srv.Close()

	resp, envelope := postJSON(t, srv.URL+"/gateways/innovative/settle", `{
		"amount": "10.00",
		"trans_id": "TXN123",
		"options": {"alt_trans_id": "REF999", "order_number": "ORD123"}
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
}

func TestHandleVoidUnsupportedOperation(t *testing.T) {
	svc := &MockService{
		VoidFn: func(ctx context.Context, gatewayName, transID string, opts *gateway.TransactionOptions) (*service.Receipt, error) {
			return nil, gateway.NewUnsupportedOperationError("stripe", "void")
		},
	}
	srv := newServer(svc)
	defer srv.Close()

	resp, envelope := postJSON(t, srv.URL+"/gateways/stripe/void", `{"trans_id": "ch_1ABC"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, gateway.ErrCodeUnsupportedOperation, envelope.Error.Code)
}

func TestHandleCreditWithoutCard(t *testing.T) {
	svc := &MockService{
		CreditFn: func(ctx context.Context, gatewayName, amount, transID string, cc *card.CreditCard, opts *gateway.TransactionOptions) (*service.Receipt, error) {
			assert.Nil(t, cc)
			assert.Empty(t, amount)
			return receipt(), nil
		},
	}
	srv := newServer(svc)
	defer srv.Close()

	resp, _ := postJSON(t, srv.URL+"/gateways/paypal/credit", `{"trans_id": "TXN888"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleGetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		svc := &MockService{
			GetFn: func(ctx context.Context, got uuid.UUID) (*service.Transaction, error) {
				assert.Equal(t, id, got)
				return &service.Transaction{ID: id, Gateway: "stripe", Operation: "capture"}, nil
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/transactions/" + id.String())
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockService{
			GetFn: func(ctx context.Context, id uuid.UUID) (*service.Transaction, error) {
				return nil, service.ErrTransactionNotFound
			},
		}
		srv := newServer(svc)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/transactions/" + uuid.NewString())
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		srv := newServer(&MockService{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/transactions/not-a-uuid")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleListGateways(t *testing.T) {
	srv := newServer(&MockService{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/gateways")
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Gateways []string `json:"gateways"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"authorizenet", "stripe"}, envelope.Data.Gateways)
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paybridge/gateway/internal/card"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/service"
	"github.com/paybridge/gateway/internal/transport"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReceiptPayload is the wire shape of one operation outcome.
type ReceiptPayload struct {
	Reference    uuid.UUID         `json:"reference"`
	Approved     bool              `json:"approved"`
	ResponseText string            `json:"response_text,omitempty"`
	AuthCode     string            `json:"auth_code,omitempty"`
	AVSResponse  string            `json:"avs_response,omitempty"`
	CVVResponse  string            `json:"cvv_response,omitempty"`
	TransID      string            `json:"trans_id,omitempty"`
	AltTransID   string            `json:"alt_trans_id,omitempty"`
	Amount       string            `json:"amount,omitempty"`
	ResponseTime string            `json:"response_time"`
	Extra        map[string]string `json:"extra,omitempty"`
}

func toReceiptPayload(r *service.Receipt) ReceiptPayload {
	res := r.Result
	return ReceiptPayload{
		Reference:    r.Reference,
		Approved:     res.Approved,
		ResponseText: res.ResponseText,
		AuthCode:     res.AuthCode,
		AVSResponse:  res.AVSResponse,
		CVVResponse:  res.CVVResponse,
		TransID:      res.TransID,
		AltTransID:   res.AltTransID,
		Amount:       res.Amount,
		ResponseTime: res.ResponseTime,
		Extra:        res.Extra,
	}
}

// TransactionPayload is the wire shape of one transaction log entry.
type TransactionPayload struct {
	ID           uuid.UUID `json:"id"`
	Gateway      string    `json:"gateway"`
	Operation    string    `json:"operation"`
	AmountCents  int64     `json:"amount_cents"`
	Approved     bool      `json:"approved"`
	ResponseText string    `json:"response_text,omitempty"`
	AuthCode     string    `json:"auth_code,omitempty"`
	TransID      string    `json:"trans_id,omitempty"`
	AltTransID   string    `json:"alt_trans_id,omitempty"`
	ResponseTime string    `json:"response_time"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTransactionPayload(t *service.Transaction) TransactionPayload {
	return TransactionPayload{
		ID:           t.ID,
		Gateway:      t.Gateway,
		Operation:    t.Operation,
		AmountCents:  t.AmountCents,
		Approved:     t.Approved,
		ResponseText: t.ResponseText,
		AuthCode:     t.AuthCode,
		TransID:      t.TransID,
		AltTransID:   t.AltTransID,
		ResponseTime: t.ResponseTime,
		CreatedAt:    t.CreatedAt,
	}
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

// WriteError maps internal error shapes to HTTP statuses: caller mistakes
// to 4xx, processor trouble to 502/504, everything else to 500.
func WriteError(w http.ResponseWriter, err error) {
	code := "INTERNAL_ERROR"
	message := err.Error()
	status := http.StatusInternalServerError

	var vErr *card.ValidationError
	var gwErr *gateway.Error
	var tErr *transport.Error

	switch {
	case errors.Is(err, service.ErrUnknownGateway):
		code = "UNKNOWN_GATEWAY"
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTransactionNotFound):
		code = "TRANSACTION_NOT_FOUND"
		status = http.StatusNotFound
	case errors.As(err, &vErr):
		code = "VALIDATION_ERROR"
		message = vErr.Message
		status = http.StatusBadRequest
	case errors.As(err, &gwErr):
		code = gwErr.Code
		message = gwErr.Message
		switch gwErr.Code {
		case gateway.ErrCodeMissingRequiredData,
			gateway.ErrCodeUnsupportedField,
			gateway.ErrCodeInvalidAmount:
			status = http.StatusBadRequest
		case gateway.ErrCodeUnsupportedOperation:
			status = http.StatusUnprocessableEntity
		case gateway.ErrCodeProtocol:
			status = http.StatusBadGateway
		default:
			status = http.StatusInternalServerError
		}
	case errors.As(err, &tErr):
		code = "GATEWAY_UNREACHABLE"
		if tErr.Timeout {
			status = http.StatusGatewayTimeout
		} else {
			status = http.StatusBadGateway
		}
	}

	respondWithJSON(w, status, &APIError{
		Code:    code,
		Message: message,
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	respondWithJSON(w, http.StatusBadRequest, &APIError{
		Code:    "VALIDATION_ERROR",
		Message: err.Error(),
	})
}

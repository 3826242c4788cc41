package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.Authorize(r.Context(), chi.URLParam(r, "gateway"), req.Amount, req.Card.toCard(), req.Options.toOptions())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toReceiptPayload(receipt))
}

func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.Capture(r.Context(), chi.URLParam(r, "gateway"), req.Amount, req.Card.toCard(), req.Options.toOptions())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toReceiptPayload(receipt))
}

func (h *Handler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	var req SettleRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.Settle(r.Context(), chi.URLParam(r, "gateway"), req.Amount, req.TransID, req.Options.toOptions())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toReceiptPayload(receipt))
}

func (h *Handler) HandleVoid(w http.ResponseWriter, r *http.Request) {
	var req VoidRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.Void(r.Context(), chi.URLParam(r, "gateway"), req.TransID, req.Options.toOptions())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toReceiptPayload(receipt))
}

func (h *Handler) HandleCredit(w http.ResponseWriter, r *http.Request) {
	var req CreditRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.svc.Credit(r.Context(), chi.URLParam(r, "gateway"), req.Amount, req.TransID, req.Card.toCard(), req.Options.toOptions())
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toReceiptPayload(receipt))
}

func (h *Handler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	tx, err := h.svc.GetTransaction(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toTransactionPayload(tx))
}

func (h *Handler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	txs, err := h.svc.ListTransactions(r.Context(), chi.URLParam(r, "gateway"), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}

	payloads := make([]TransactionPayload, 0, len(txs))
	for _, tx := range txs {
		payloads = append(payloads, toTransactionPayload(tx))
	}
	respondWithJSON(w, http.StatusOK, payloads)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/payrail/payrail/internal/chain"
	"github.com/payrail/payrail/internal/models"
	"github.com/payrail/payrail/internal/repo"
)

// PaymentHandler lists recorded payments and imports raw chain
// transactions.
type PaymentHandler struct {
	Repo *repo.PaymentRepo
}

// ListPayments returns paginated payments (query: limit, offset).
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// ImportTransactions accepts raw chain-API transaction payloads,
// classifies each one, and records those that carry value.
// Body: {"direction": "sent", "transactions": [<raw chain tx>, ...]}.
func (h *PaymentHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Direction    string            `json:"direction"`
		Transactions []json.RawMessage `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(input.Transactions) == 0 {
		JSONValidationError(w, "validation failed", map[string]string{"transactions": "required"}, http.StatusBadRequest)
		return
	}

	dir := chain.Sent
	if input.Direction == "received" {
		dir = chain.Received
	}

	imported := 0
	skipped := 0
	var parsed []chain.Transaction
	for _, raw := range input.Transactions {
		tx, err := chain.Parse(raw, dir)
		if err != nil {
			skipped++
			continue
		}
		parsed = append(parsed, tx)
		if tx.Kind == chain.KindUnknown {
			skipped++
			continue
		}
		_, err = h.Repo.Create(r.Context(), models.Payment{
			TxID:   tx.TxID,
			Amount: tx.Amount,
			Status: tx.Status,
			Kind:   string(tx.Kind),
		})
		if err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		imported++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"imported":     imported,
		"skipped":      skipped,
		"transactions": parsed,
	})
}

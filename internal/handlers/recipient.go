package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/payrail/payrail/internal/models"
	"github.com/payrail/payrail/internal/notify"
	"github.com/payrail/payrail/internal/repo"
)

// RecipientHandler handles payroll recipient CRUD.
type RecipientHandler struct {
	Repo     *repo.RecipientRepo
	Notifier notify.Notifier
}

type recipientInput struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	WalletAddress string  `json:"wallet_address"`
	BTCAddress    string  `json:"btc_address"`
	Rate          float64 `json:"rate"`
}

// validateRecipient accumulates field-level problems; empty map means valid.
func validateRecipient(in recipientInput) map[string]string {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "required"
	}
	if msg := validateSTXAddress(in.WalletAddress); msg != "" {
		fields["wallet_address"] = msg
	}
	if msg := validateBTCAddress(in.BTCAddress); msg != "" {
		fields["btc_address"] = msg
	}
	if msg := validateEmail(in.Email); msg != "" {
		fields["email"] = msg
	}
	if in.Rate < 0 {
		fields["rate"] = "must not be negative"
	}
	return fields
}

// ListRecipients returns paginated recipients (query: limit, offset).
func (h *RecipientHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetRecipient returns one recipient by id.
func (h *RecipientHandler) GetRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	rec, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if rec == nil {
		JSONError(w, "recipient not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// CreateRecipient adds a recipient and sends the onboarding email when an
// address is on file. Email failures are logged, never surfaced.
func (h *RecipientHandler) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	var input recipientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fields := validateRecipient(input); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	rec, err := h.Repo.Create(r.Context(), models.Recipient{
		Name:          input.Name,
		Email:         input.Email,
		WalletAddress: input.WalletAddress,
		BTCAddress:    input.BTCAddress,
		Rate:          input.Rate,
	})
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			JSONValidationError(w, "validation failed",
				map[string]string{"wallet_address": "already registered"}, http.StatusConflict)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.Notifier != nil && rec.Email != "" {
		if err := h.Notifier.SendOnboarding(r.Context(), notify.Onboarding{
			Name:  rec.Name,
			Email: rec.Email,
			Rate:  rec.Rate,
		}); err != nil {
			slog.Error("onboarding email failed", "recipient_id", rec.ID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

// UpdateRecipient updates a recipient's details.
func (h *RecipientHandler) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	var input recipientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if fields := validateRecipient(input); len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	if err := h.Repo.Update(r.Context(), id, models.Recipient{
		Name:          input.Name,
		Email:         input.Email,
		WalletAddress: input.WalletAddress,
		BTCAddress:    input.BTCAddress,
		Rate:          input.Rate,
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	rec, _ := h.Repo.GetByID(r.Context(), id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// DeleteRecipient removes a recipient.
func (h *RecipientHandler) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid recipient id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pagination reads limit/offset query params with the usual bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/payrail/payrail/internal/cache"
	"github.com/payrail/payrail/internal/chain"
	"github.com/payrail/payrail/internal/metrics"
	"github.com/payrail/payrail/internal/models"
	"github.com/payrail/payrail/internal/repo"
	"github.com/payrail/payrail/internal/schedule"
)

// ScheduleHandler handles payroll schedule CRUD and status transitions.
type ScheduleHandler struct {
	Repo     *repo.ScheduleRepo
	Payments *repo.PaymentRepo
	Cache    *cache.Cache

	// Now is the reference clock for next-run computation; nil means
	// time.Now. The schedule package itself never reads the clock.
	Now func() time.Time
}

func (h *ScheduleHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ScheduleHandler) invalidateSummary() {
	if h.Cache != nil {
		h.Cache.Invalidate(summaryCacheKey)
	}
}

type scheduleInput struct {
	Name      string             `json:"name"`
	Frequency schedule.Frequency `json:"frequency"`
	PayDay    int                `json:"pay_day"`
	Items     []struct {
		RecipientID int     `json:"recipient_id"`
		Amount      float64 `json:"amount"`
	} `json:"items"`
}

// validate runs the input through the engine and returns every violation.
func (in scheduleInput) validate() []schedule.ValidationError {
	var errs []schedule.ValidationError
	if err := schedule.ValidatePayDay(in.Frequency, in.PayDay); err != nil {
		errs = append(errs, *err)
	}
	items := make([]schedule.Item, len(in.Items))
	for i, it := range in.Items {
		id := ""
		if it.RecipientID != 0 {
			id = strconv.Itoa(it.RecipientID)
		}
		items[i] = schedule.Item{RecipientID: id, Amount: it.Amount}
	}
	return append(errs, schedule.ValidateItems(items)...)
}

func (in scheduleInput) modelItems() []models.ScheduleItem {
	items := make([]models.ScheduleItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = models.ScheduleItem{RecipientID: it.RecipientID, Amount: it.Amount}
	}
	return items
}

// ListSchedules returns paginated schedules (query: limit, offset).
func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// GetSchedule returns one schedule with its items.
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return
	}

	s, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if s == nil {
		JSONError(w, "schedule not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// CreateSchedule validates the proposed schedule through the engine,
// computes its first run, and persists it in draft status.
// Body: {"name": "...", "frequency": "weekly", "pay_day": 5, "items": [{"recipient_id": 1, "amount": 500}]}.
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var input scheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		JSONValidationError(w, "validation failed", map[string]string{"name": "required"}, http.StatusBadRequest)
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		JSONScheduleErrors(w, errs, http.StatusUnprocessableEntity)
		return
	}

	s, err := h.Repo.Create(r.Context(), models.PaySchedule{
		Name:      input.Name,
		Frequency: input.Frequency,
		PayDay:    input.PayDay,
		Status:    schedule.StatusDraft,
		NextRunAt: schedule.NextRun(input.Frequency, input.PayDay, h.now()),
		Items:     input.modelItems(),
	})
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.invalidateSummary()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s)
}

// UpdateSchedule revalidates and rewrites a schedule, recomputing the
// next run from the new cadence and pay day.
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return
	}

	var input scheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		JSONValidationError(w, "validation failed", map[string]string{"name": "required"}, http.StatusBadRequest)
		return
	}
	if errs := input.validate(); len(errs) > 0 {
		JSONScheduleErrors(w, errs, http.StatusUnprocessableEntity)
		return
	}

	existing, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if existing == nil {
		JSONError(w, "schedule not found", http.StatusNotFound)
		return
	}

	if err := h.Repo.Update(r.Context(), id, models.PaySchedule{
		Name:      input.Name,
		Frequency: input.Frequency,
		PayDay:    input.PayDay,
		NextRunAt: schedule.NextRun(input.Frequency, input.PayDay, h.now()),
		Items:     input.modelItems(),
	}); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.invalidateSummary()

	s, _ := h.Repo.GetByID(r.Context(), id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// DeleteSchedule deletes a schedule; its items cascade.
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.invalidateSummary()

	w.WriteHeader(http.StatusNoContent)
}

// transition loads the schedule, checks the requested status change
// against the state machine, and applies it. Returns the schedule, or
// nil after writing the error response.
func (h *ScheduleHandler) transition(w http.ResponseWriter, r *http.Request, to schedule.Status) *models.PaySchedule {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid schedule id", http.StatusBadRequest)
		return nil
	}

	s, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return nil
	}
	if s == nil {
		JSONError(w, "schedule not found", http.StatusNotFound)
		return nil
	}

	if terr := schedule.Transition(s.Status, to); terr != nil {
		JSONScheduleErrors(w, []schedule.ValidationError{*terr}, http.StatusConflict)
		return nil
	}
	if err := h.Repo.UpdateStatus(r.Context(), id, to); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return nil
	}
	s.Status = to
	return s
}

// ActivateSchedule arms a draft schedule (draft -> ready).
func (h *ScheduleHandler) ActivateSchedule(w http.ResponseWriter, r *http.Request) {
	s := h.transition(w, r, schedule.StatusReady)
	if s == nil {
		return
	}
	h.invalidateSummary()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// RunSchedule starts execution (ready -> processing) and returns the
// validated pay lines for the wallet collaborator to sign.
func (h *ScheduleHandler) RunSchedule(w http.ResponseWriter, r *http.Request) {
	s := h.transition(w, r, schedule.StatusProcessing)
	if s == nil {
		return
	}

	lines, err := h.Repo.PayLines(r.Context(), s.ID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.invalidateSummary()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"schedule": s,
		"items":    lines,
	})
}

// CompleteSchedule finishes a run. Body: {"tx_id": "...", "success": true}.
// Success records the payment, advances the next run, and resets the
// schedule for its next recurrence (processing -> paid -> ready).
// Failure re-arms the schedule (processing -> ready).
func (h *ScheduleHandler) CompleteSchedule(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TxID    string `json:"tx_id"`
		Success *bool  `json:"success"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	success := true
	if input.Success != nil {
		success = *input.Success
	}

	if !success {
		s := h.transition(w, r, schedule.StatusReady)
		if s == nil {
			return
		}
		h.recordPayment(r, s, input.TxID, models.PaymentFailed)
		metrics.IncRuns("failed")
		h.invalidateSummary()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
		return
	}

	s := h.transition(w, r, schedule.StatusPaid)
	if s == nil {
		return
	}
	h.recordPayment(r, s, input.TxID, models.PaymentSuccess)
	metrics.IncRuns("paid")

	// Advance to the next recurrence and re-arm.
	next := schedule.NextRun(s.Frequency, s.PayDay, h.now())
	if err := h.Repo.UpdateNextRun(r.Context(), s.ID, next); err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if terr := schedule.Transition(schedule.StatusPaid, schedule.StatusReady); terr == nil {
		if err := h.Repo.UpdateStatus(r.Context(), s.ID, schedule.StatusReady); err != nil {
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		s.Status = schedule.StatusReady
	}
	s.NextRunAt = next
	h.invalidateSummary()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

func (h *ScheduleHandler) recordPayment(r *http.Request, s *models.PaySchedule, txID, status string) {
	if h.Payments == nil {
		return
	}
	total := 0.0
	for _, item := range s.Items {
		total += item.Amount
	}
	scheduleID := s.ID
	if _, err := h.Payments.Create(r.Context(), models.Payment{
		ScheduleID: &scheduleID,
		TxID:       txID,
		Amount:     total,
		Status:     status,
		Kind:       string(chain.KindBatchPayroll),
	}); err != nil {
		// The transition already happened; a missing history row is not
		// worth failing the request over, but it must not vanish silently.
		slog.Error("payment record failed", "schedule_id", s.ID, "error", err)
	}
}

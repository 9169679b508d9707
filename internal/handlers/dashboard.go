package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/payrail/payrail/internal/cache"
	"github.com/payrail/payrail/internal/repo"
)

const summaryCacheKey = "dashboard:summary"

// DashboardHandler serves aggregate counts for the dashboard. Results
// are cached; schedule mutations invalidate the entry.
type DashboardHandler struct {
	Schedules  *repo.ScheduleRepo
	Recipients *repo.RecipientRepo
	Payments   *repo.PaymentRepo
	Cache      *cache.Cache
}

type dashboardSummary struct {
	Schedules  int     `json:"schedules"`
	Recipients int     `json:"recipients"`
	Payments   int     `json:"payments"`
	TotalPaid  float64 `json:"total_paid"`
}

// Summary returns schedule/recipient/payment totals.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	fetch := func() (any, error) { return h.load(r.Context()) }

	var (
		v   any
		err error
	)
	if h.Cache != nil {
		v, err = h.Cache.GetOrFetch(summaryCacheKey, fetch)
	} else {
		v, err = fetch()
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *DashboardHandler) load(ctx context.Context) (dashboardSummary, error) {
	var out dashboardSummary
	var err error

	if out.Schedules, err = h.Schedules.Count(ctx); err != nil {
		return out, err
	}
	if out.Recipients, err = h.Recipients.Count(ctx); err != nil {
		return out, err
	}
	if out.Payments, err = h.Payments.Count(ctx); err != nil {
		return out, err
	}
	if out.TotalPaid, err = h.Payments.TotalPaid(ctx); err != nil {
		return out, err
	}
	return out, nil
}

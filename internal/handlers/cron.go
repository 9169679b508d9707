package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/payrail/payrail/internal/payroll"
)

// CronHandler exposes the due-payroll sweep to an external scheduler
// (Vercel-style cron hitting the endpoint daily). The in-process cron
// calls the service directly; this endpoint exists for deployments that
// cannot run it.
type CronHandler struct {
	Service *payroll.Service
	Secret  string
	Now     func() time.Time
}

func NewCronHandler(svc *payroll.Service, secret string) *CronHandler {
	return &CronHandler{Service: svc, Secret: secret, Now: time.Now}
}

// CheckDue runs the sweep and returns its summary. Requires
// "Authorization: Bearer <CRON_SECRET>" when a secret is configured.
func (h *CronHandler) CheckDue(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" {
		JSONError(w, "cron endpoint disabled", http.StatusNotFound)
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) != 1 {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	res, err := h.Service.CheckDue(r.Context(), h.Now())
	if err != nil {
		slog.Error("cron due check failed", "error", err)
		JSONError(w, "due check failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Package scheduler runs the due-payroll check on a fixed cron cadence.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/payrail/payrail/internal/payroll"
	"github.com/robfig/cron/v3"
)

// checkTimeout bounds one due check, including email delivery.
const checkTimeout = 5 * time.Minute

// Run starts the in-process cron that invokes the payroll service's due
// check on spec (robfig/cron syntax, e.g. "0 8 * * *"). It returns the
// running cron; call Stop on shutdown.
func Run(svc *payroll.Service, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		res, err := svc.CheckDue(ctx, time.Now())
		if err != nil {
			slog.Error("scheduled due check failed", "error", err)
			return
		}
		slog.Info("scheduled due check done",
			"schedules_found", res.SchedulesFound,
			"emails_sent", res.EmailsSent)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	slog.Info("payroll scheduler started", "spec", spec)
	return c, nil
}

// Package notify delivers payroll emails. The engine and handlers depend
// on the Notifier interface only; delivery failures are reported to the
// caller and never roll back schedule state.
package notify

import (
	"context"
	"log/slog"
)

// PaymentDue is the payload for a payment-due notice, one per recipient
// of a due schedule.
type PaymentDue struct {
	Name             string
	Email            string
	ScheduleName     string
	Amount           float64
	NextRunAt        string
	OrganizationName string
}

// Onboarding is the payload for the welcome email sent when a recipient
// is added to the payroll.
type Onboarding struct {
	Name  string
	Email string
	Rate  float64
}

// Notifier sends payroll notifications.
type Notifier interface {
	SendPaymentDue(ctx context.Context, p PaymentDue) error
	SendOnboarding(ctx context.Context, o Onboarding) error
}

// LogNotifier writes notifications to the log instead of sending them.
// Used in dev and as the fallback when SMTP is not configured.
type LogNotifier struct{}

func (LogNotifier) SendPaymentDue(_ context.Context, p PaymentDue) error {
	slog.Info("payment due notice",
		"email", p.Email,
		"schedule", p.ScheduleName,
		"amount", p.Amount,
		"next_run", p.NextRunAt)
	return nil
}

func (LogNotifier) SendOnboarding(_ context.Context, o Onboarding) error {
	slog.Info("onboarding notice",
		"email", o.Email,
		"rate", o.Rate)
	return nil
}

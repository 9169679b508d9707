package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/smtp"

	"github.com/go-chi/chi/v5"
	"github.com/payrail/payrail/internal/cache"
	"github.com/payrail/payrail/internal/config"
	"github.com/payrail/payrail/internal/handlers"
	"github.com/payrail/payrail/internal/middleware"
	"github.com/payrail/payrail/internal/notify"
	"github.com/payrail/payrail/internal/payroll"
	"github.com/payrail/payrail/internal/repo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildNotifier returns the SMTP notifier when mail is configured,
// otherwise the log fallback.
func buildNotifier(cfg config.Config) notify.Notifier {
	if cfg.SMTPHost == "" {
		return notify.LogNotifier{}
	}
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return notify.NewEmailNotifier(cfg.SMTPHost+":"+cfg.SMTPPort, cfg.SMTPFrom, auth)
}

// newRouter builds the full API router with all repositories and
// handlers wired against db.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	users := repo.NewUserRepo(db)
	recipients := repo.NewRecipientRepo(db)
	schedules := repo.NewScheduleRepo(db)
	payments := repo.NewPaymentRepo(db)

	summaryCache := cache.New(cache.DefaultTTL)
	notifier := buildNotifier(cfg)
	svc := payroll.NewService(schedules, notifier, cfg.OrgName)

	authH := &handlers.AuthHandler{
		UserRepo:    users,
		Secret:      []byte(cfg.JWTSecret),
		ExpireHours: cfg.JWTExpireHours,
	}
	recipientH := &handlers.RecipientHandler{Repo: recipients, Notifier: notifier}
	scheduleH := &handlers.ScheduleHandler{Repo: schedules, Payments: payments, Cache: summaryCache}
	paymentH := &handlers.PaymentHandler{Repo: payments}
	dashboardH := &handlers.DashboardHandler{
		Schedules:  schedules,
		Recipients: recipients,
		Payments:   payments,
		Cache:      summaryCache,
	}
	cronH := handlers.NewCronHandler(svc, cfg.CronSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ready")
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/", recipientH.ListRecipients)
			r.Post("/", recipientH.CreateRecipient)
			r.Get("/{id}", recipientH.GetRecipient)
			r.Put("/{id}", recipientH.UpdateRecipient)
			r.Delete("/{id}", recipientH.DeleteRecipient)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleH.ListSchedules)
			r.Post("/", scheduleH.CreateSchedule)
			r.Get("/{id}", scheduleH.GetSchedule)
			r.Put("/{id}", scheduleH.UpdateSchedule)
			r.Delete("/{id}", scheduleH.DeleteSchedule)
			r.Post("/{id}/activate", scheduleH.ActivateSchedule)
			r.Post("/{id}/run", scheduleH.RunSchedule)
			r.Post("/{id}/complete", scheduleH.CompleteSchedule)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", paymentH.ListPayments)
			r.Post("/import", paymentH.ImportTransactions)
		})

		r.Get("/dashboard/summary", dashboardH.Summary)
	})

	r.Get("/internal/cron/check-due", cronH.CheckDue)

	return r
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/stroman-properties/owner-dashboard/internal/http/handlers"
	gatemw "github.com/stroman-properties/owner-dashboard/internal/http/middleware"
	"github.com/stroman-properties/owner-dashboard/internal/platform/auth"
	"github.com/stroman-properties/owner-dashboard/internal/platform/mailer"
	"github.com/stroman-properties/owner-dashboard/internal/platform/storage"
	"github.com/stroman-properties/owner-dashboard/internal/ratelimit"
	"github.com/stroman-properties/owner-dashboard/internal/service"
	"github.com/stroman-properties/owner-dashboard/internal/stay"
	"github.com/stroman-properties/owner-dashboard/internal/store"
	"github.com/stroman-properties/owner-dashboard/pkg/config"
	"github.com/stroman-properties/owner-dashboard/pkg/events"
	"github.com/stroman-properties/owner-dashboard/pkg/logger"
	mw "github.com/stroman-properties/owner-dashboard/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	authenticator := auth.New(cfg.Auth.Secret, cfg.Server.Production())
	if _, err := authenticator.Secret(); err != nil {
		logger.Error("Owner dashboard secret is not configured", "error", err)
		os.Exit(1)
	}

	bookingStore, err := store.NewClient(cfg.Store.URL, cfg.Store.ServiceRoleKey)
	if err != nil {
		logger.Error("Failed to configure booking store client", "error", err)
		os.Exit(1)
	}

	// Rate-limit buckets live in memory unless a shared Redis store is
	// configured for multi-instance deployments.
	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisStore, err := ratelimit.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		limitStore = redisStore
	}
	limiter := ratelimit.New(limitStore, ratelimit.DefaultMaxRequests, ratelimit.DefaultWindow)

	cache := service.NewViewCache(30 * time.Second)

	var bus events.EventBus
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsBus.Close()
		if err := service.SubscribeInvalidation(natsBus, cache); err != nil {
			logger.Error("Failed to subscribe to cache invalidation", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	}
	invalidator := service.NewCacheInvalidator(cache, bus)

	views := service.NewViewService(bookingStore, stay.NewCalculator(), cache)
	actions := service.NewActionDispatcher(cfg.AdminAPI.BaseURL, authenticator, invalidator)

	uploads := storage.NewSupabaseStorage(cfg.Store.URL, cfg.Store.ServiceRoleKey)

	h := handlers.New(authenticator, views, actions, buildMailer(cfg), uploads)

	gate := gatemw.NewAdminGate(limiter)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("owner-dashboard"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.Health)
	r.Use(gate.Middleware())

	r.Get("/admin", h.AdminIndex)
	r.Get("/admin/login", h.LoginPage)
	r.Post("/admin/login", h.Login)
	r.Post("/admin/logout", h.Logout)
	r.Get("/admin/bookings", h.Bookings)

	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Post("/verify", h.ConfirmBooking)
		r.Post("/expire", h.ExpireBooking)
		r.Post("/cancel", h.CancelBooking)
	})
	r.Post("/api/admin/payments/proof", h.UploadPaymentProof)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Post("/api/contact", h.Contact)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down owner dashboard...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Owner dashboard shutdown error", "error", err)
		}
	}()

	logger.Info("Starting owner dashboard", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Owner dashboard server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSendMailer(cfg.Email.MailerSendKey, cfg.Email.MailerFromName, cfg.Email.FromEmail, cfg.Email.ContactRecipient)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.FromEmail, cfg.Email.ContactRecipient, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPSecure)
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/notify"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/emailjs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	backend, err := repository.Backend(cfg.Database.URL)
	if err != nil {
		logging.Fatal("invalid DATABASE_URL", "error", err)
	}
	openCtx, cancelOpen := context.WithTimeout(context.Background(), 15*time.Second)
	contactRepo, err := repository.Open(openCtx, cfg.Database.URL)
	cancelOpen()
	if err != nil {
		logging.Fatal("failed to open contact store", "backend", backend, "error", err)
	}
	defer contactRepo.Close()
	if backend == repository.BackendMemory {
		slog.Warn("DATABASE_URL not set, contact messages are kept in memory only")
	}
	slog.Info("contact store ready", "backend", backend)

	// Notification dispatch is optional; without it the browser sends the
	// EmailJS mail itself using /api/emailjs-config.
	var dispatcher *notify.Dispatcher
	if cfg.Notify.OnServer {
		notifier, driver, err := notify.New(notify.Options{
			Driver: cfg.Notify.Driver,
			EmailJS: emailjs.Config{
				PublicKey:  cfg.EmailJS.PublicKey,
				ServiceID:  cfg.EmailJS.ServiceID,
				TemplateID: cfg.EmailJS.TemplateID,
				PrivateKey: cfg.EmailJS.PrivateKey,
				BaseURL:    cfg.EmailJS.BaseURL,
			},
			SMTP: notify.SMTPConfig{
				Host: cfg.SMTP.Host,
				Port: cfg.SMTP.Port,
				User: cfg.SMTP.User,
				Pass: cfg.SMTP.Pass,
				From: cfg.SMTP.From,
				To:   cfg.SMTP.To,
			},
		})
		if err != nil {
			logging.Fatal("failed to configure notifications", "error", err)
		}
		dispatcher = notify.NewDispatcher(notifier, cfg.Notify.Timeout)
		slog.Info("server-side notifications enabled", "driver", driver)
	}

	var msgDispatcher service.MessageDispatcher
	if dispatcher != nil {
		msgDispatcher = dispatcher
	}
	contactService := service.NewContactService(contactRepo, msgDispatcher, cfg.Database.StoreTimeout)

	if cfg.Admin.Token == "" {
		slog.Warn("ADMIN_TOKEN not set, GET /api/contact/messages is unauthenticated")
	}

	limiter := handler.NewRateLimiter(cfg.Server.ContactRateLimit, cfg.Server.TrustedProxies)
	defer limiter.Stop()

	h := handler.New(contactRepo, cfg.Server.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService, handler.PublicEmailJSConfig{
		PublicKey:  cfg.EmailJS.PublicKey,
		ServiceID:  cfg.EmailJS.ServiceID,
		TemplateID: cfg.EmailJS.TemplateID,
	})
	router := handler.NewRouter(h, contactHandler, limiter, handler.RouterConfig{
		AdminToken: cfg.Admin.Token,
		StaticDir:  cfg.Server.StaticDir,
	})

	server := newHTTPServer(cfg.Server.Addr, router, cfg.Database.StoreTimeout)

	go func() {
		slog.Info("server listening", "addr", server.Addr, "frontend_url", cfg.Server.FrontendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	// Let in-flight notifications finish; each is bounded by its own timeout.
	dispatcher.Wait()
	slog.Info("server stopped")
}

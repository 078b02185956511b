//	@title						Intake API
//	@version					1.0
//	@description				Login, intake submission and admin access for the intake backend.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noahform/intake/internal/config"
	"github.com/noahform/intake/internal/database"
	"github.com/noahform/intake/internal/email"
	"github.com/noahform/intake/internal/logging"
	"github.com/noahform/intake/internal/metrics"
	"github.com/noahform/intake/internal/server"
	"github.com/noahform/intake/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transport, err := newTransport(cfg, logger)
	if err != nil {
		slog.Error("failed to set up mail transport", "error", err)
		os.Exit(1)
	}
	if cfg.Mail.AdminEmail == "" {
		slog.Warn("ADMIN_EMAIL not set, admin notices will not be sent")
	}

	notifier := email.NewNotifier(transport, email.NotifierConfig{
		From:       email.Address{Name: cfg.Mail.FromName, Email: cfg.Mail.FromEmail},
		AdminEmail: cfg.Mail.AdminEmail,
		Timeout:    cfg.Mail.Timeout,
	}, logger)

	issuer := token.NewIssuer(token.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})

	srv := server.New(db, issuer, notifier, metrics.New(), server.Config{
		RateLimitPerMinute: cfg.Limit.PerMinute,
		SchedulingURL:      cfg.SchedulingURL,
	}, logger)

	// Save-intake sends two mails inside the request, each bounded by the
	// mail timeout.
	writeTimeout := 10*time.Second + 2*cfg.Mail.Timeout

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("intake service starting", "addr", ":"+cfg.Port, "mail_transport", cfg.Mail.Transport)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func newTransport(cfg *config.Config, logger *slog.Logger) (email.Transport, error) {
	switch cfg.Mail.Transport {
	case config.TransportSMTP:
		return email.NewSMTPTransport(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.Mail.Timeout,
		})
	case config.TransportPostmark:
		return email.NewPostmarkTransport(cfg.Mail.PostmarkToken, email.WithHTTPClient(&http.Client{Timeout: cfg.Mail.Timeout})), nil
	case config.TransportLog:
		return email.NewLogTransport(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}

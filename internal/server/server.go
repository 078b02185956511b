package server

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/noahform/intake/docs"
	"github.com/noahform/intake/internal/email"
	"github.com/noahform/intake/internal/handler"
	"github.com/noahform/intake/internal/metrics"
	"github.com/noahform/intake/internal/middleware"
	"github.com/noahform/intake/internal/store"
	"github.com/noahform/intake/internal/token"
)

type Config struct {
	RateLimitPerMinute int
	SchedulingURL      string
}

type Server struct {
	authH       *handler.AuthHandler
	intakeH     *handler.IntakeHandler
	healthH     *handler.HealthHandler
	issuer      *token.Issuer
	metrics     *metrics.Metrics
	rateLimiter *middleware.RateLimiter
	rateLimit   int
	logger      *slog.Logger
}

func New(db *sql.DB, issuer *token.Issuer, notifier *email.Notifier, m *metrics.Metrics, cfg Config, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	intakeStore := store.NewIntakeStore(db)

	limit := cfg.RateLimitPerMinute
	if limit <= 0 {
		limit = 10
	}

	rl := middleware.NewRateLimiter()

	m.GaugeFunc("stored_intakes", "Intake submissions currently stored", func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := intakeStore.Count(ctx)
		if err != nil {
			logger.Warn("count intakes for metrics", "error", err)
			return math.NaN()
		}
		return float64(n)
	})
	m.GaugeFunc("rate_limit_tracked_keys", "Client windows held by the rate limiter", func() float64 {
		return float64(rl.Len())
	})

	return &Server{
		authH:       handler.NewAuthHandler(userStore, issuer, m, logger.With("component", "auth")),
		intakeH:     handler.NewIntakeHandler(intakeStore, notifier, cfg.SchedulingURL, m, logger.With("component", "intake")),
		healthH:     handler.NewHealthHandler(db, logger.With("component", "health")),
		issuer:      issuer,
		metrics:     m,
		rateLimiter: rl,
		rateLimit:   limit,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// corsPolicy allows any origin for the given methods. Preflights are
// answered with 200.
func corsPolicy(methods []string, headers []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         300,
	})
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	publicCORS := corsPolicy([]string{"POST", "OPTIONS"}, []string{"Content-Type"})
	adminCORS := corsPolicy([]string{"GET", "DELETE", "OPTIONS"}, []string{"Authorization", "Content-Type"})

	// Public form endpoints answer every method themselves (405 for the
	// wrong one, 200 for a bare OPTIONS).
	mux.Handle("/login", publicCORS.Handler(s.rateLimited(s.authH.Login)))
	mux.Handle("/save-intake", publicCORS.Handler(s.rateLimited(s.intakeH.SaveIntake)))

	requireAuth := middleware.RequireAuth(s.issuer, s.logger.With("component", "auth"))
	protected := func(h http.HandlerFunc) http.Handler {
		return adminCORS.Handler(requireAuth(h))
	}
	preflight := adminCORS.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.Handle("GET /me", protected(s.authH.Me))
	mux.Handle("GET /intakes", protected(s.intakeH.List))
	mux.Handle("GET /intakes/{id}", protected(s.intakeH.Get))
	mux.Handle("DELETE /intakes/{id}", adminCORS.Handler(requireAuth(middleware.RequireAdmin(http.HandlerFunc(s.intakeH.Delete)))))
	mux.Handle("OPTIONS /me", preflight)
	mux.Handle("OPTIONS /intakes", preflight)
	mux.Handle("OPTIONS /intakes/{id}", preflight)

	mux.HandleFunc("GET /health", s.healthH.Check)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	mux.Handle("GET /docs/", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	var h http.Handler = mux
	h = middleware.Instrument(s.metrics)(h)
	h = chimw.Recoverer(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = chimw.RequestID(h)
	return h
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, s.rateLimit, time.Minute, s.metrics)(h)
}

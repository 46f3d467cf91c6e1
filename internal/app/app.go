package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"revpulse/internal/analytics"
	"revpulse/internal/config"
	apierrors "revpulse/internal/errors"
	transport "revpulse/internal/transport/http"
)

// App wires the analysis service into an HTTP server.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	router chi.Router
	server *http.Server
}

// New assembles the application from configuration.
func New(cfg *config.Config, logger *slog.Logger) *App {
	service := analytics.NewService(cfg.Analysis, cfg.Schema, logger)
	metrics := transport.NewMetrics()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))

	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)

	router.Route("/api", func(r chi.Router) {
		r.Mount("/healthz", transport.NewHealthHandler(logger).Routes())
		r.With(rateLimit(limiter)).Mount("/analysis",
			transport.NewAnalysisHandler(service, logger, metrics, cfg.Analysis.MaxUploadBytes).Routes())
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
		router: router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Router exposes the assembled routes, mainly for tests.
func (a *App) Router() chi.Router {
	return a.router
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// rateLimit rejects requests exceeding the shared limiter.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				apierrors.WriteError(w, apierrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("elapsed", time.Since(start)))
		})
	}
}

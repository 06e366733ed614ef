package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qamqor/screening-bot/internal/adapter/memstore"
	"github.com/qamqor/screening-bot/internal/auth"
	"github.com/qamqor/screening-bot/internal/config"
	"github.com/qamqor/screening-bot/internal/service/alert"
	"github.com/qamqor/screening-bot/internal/service/report"
	"github.com/qamqor/screening-bot/internal/transport/middleware"
	"github.com/qamqor/screening-bot/internal/transport/rest"
)

// httpServer is the part of *http.Server used by serveHTTP.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type routes struct {
	pool     *pgxpool.Pool
	sessions *memstore.SessionStore
	reports  *report.Service
	alerts   *alert.Service
	tokens   *auth.JWTManager
	webhook  http.Handler
}

func newHTTPServer(cfg *config.Config, logger *slog.Logger, r routes) (*http.Server, *middleware.RateLimiter) {
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(r.pool, r.sessions, BuildVersion())
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	adminMux := http.NewServeMux()
	rest.NewAdminHandler(r.reports, r.alerts, logger).Register(adminMux)

	limiter := middleware.NewRateLimiter(time.Minute)
	mux.Handle("/admin/", middleware.Chain(
		limiter.Limit(cfg.Server.AdminRateLimit),
		middleware.AdminAuth(r.tokens, logger),
	)(adminMux))

	if cfg.Telegram.Mode == config.ModeWebhook {
		mux.Handle("POST "+cfg.Telegram.WebhookPath, r.webhook)
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
	)(mux)

	return &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, limiter
}

// serveHTTP runs srv until ctx ends, then shuts it down gracefully.
func serveHTTP(ctx context.Context, srv httpServer, shutdownTimeout time.Duration, logger *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

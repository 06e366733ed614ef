package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qamqor/screening-bot/internal/adapter/memstore"
	"github.com/qamqor/screening-bot/internal/adapter/postgres"
	alertrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/alert"
	patientrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/patient"
	resultrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/result"
	statsrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/stats"
	tgclient "github.com/qamqor/screening-bot/internal/adapter/telegram"
	"github.com/qamqor/screening-bot/internal/auth"
	"github.com/qamqor/screening-bot/internal/config"
	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/alert"
	"github.com/qamqor/screening-bot/internal/service/patient"
	"github.com/qamqor/screening-bot/internal/service/report"
	"github.com/qamqor/screening-bot/internal/service/survey"
	"github.com/qamqor/screening-bot/internal/transport/telegram"
)

// Run is the application entry point. It wires storage, services and
// transports and blocks until ctx is cancelled or a transport fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("telegram_mode", cfg.Telegram.Mode),
		slog.Int("admins", len(cfg.Telegram.AdminIDs)),
	)

	// --- Storage ---

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	txm := postgres.NewTxManager(pool)
	patients := patientrepo.New(pool)
	results := resultrepo.New(pool)
	alerts := alertrepo.New(pool)
	stats := statsrepo.New(pool)

	sessions := memstore.New(logger, cfg.Survey.SessionTTL)
	sessions.Start(ctx, cfg.Survey.SweepInterval)

	// --- Telegram client ---

	catalog, err := i18n.Load(domain.Language(cfg.I18n.DefaultLanguage))
	if err != nil {
		return err
	}

	bot, err := tgclient.NewClient(tgclient.Options{
		Token:          cfg.Telegram.Token,
		RequestTimeout: cfg.Telegram.RequestTimeout,
	}, catalog, logger)
	if err != nil {
		return err
	}
	logger.Info("telegram bot authorized", slog.String("username", bot.Username()))

	// --- Services ---

	alertSvc := alert.NewService(logger, alerts, bot, alert.Config{
		AdminIDs:      cfg.Telegram.AdminIDs,
		NotifyTimeout: cfg.Alerts.NotifyTimeout,
		MaxParallel:   cfg.Alerts.MaxParallel,
	})
	patientSvc := patient.NewService(logger, patients, txm, catalog, catalog.DefaultLanguage())
	surveySvc := survey.NewService(logger, patients, results, alertSvc, sessions, catalog, cfg.Survey.HistoryLimit)
	reportSvc := report.NewService(logger, stats, patients, results)

	// Pending admin notifications are flushed before the pool closes.
	defer alertSvc.Wait()

	// --- Transports ---

	handler := telegram.NewHandler(telegram.Deps{
		Bot:         bot,
		Surveys:     surveySvc,
		Patients:    patientSvc,
		Reports:     reportSvc,
		Alerts:      alertSvc,
		Catalog:     catalog,
		IsAdmin:     cfg.Telegram.IsAdmin,
		SecretToken: cfg.Telegram.SecretToken,
	}, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)

	srv, limiter := newHTTPServer(cfg, logger, routes{
		pool:     pool,
		sessions: sessions,
		reports:  reportSvc,
		alerts:   alertSvc,
		tokens:   jwtManager,
		webhook:  handler,
	})
	defer limiter.Stop()
	logger.Info("http server listening", slog.String("addr", srv.Addr))

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		if err := bot.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.SecretToken); err != nil {
			return err
		}
		logger.Info("telegram webhook registered", slog.String("path", cfg.Telegram.WebhookPath))
		return serveHTTP(ctx, srv, cfg.Server.ShutdownTimeout, logger)

	default:
		return runPolling(ctx, cfg, logger, bot, handler, srv)
	}
}

// runPolling serves health and admin endpoints while long-polling updates.
func runPolling(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	bot *tgclient.Client,
	handler *telegram.Handler,
	srv httpServer,
) error {
	// getUpdates is rejected while a webhook is registered.
	if err := bot.DeleteWebhook(ctx); err != nil {
		return err
	}

	updates := bot.Updates(cfg.Telegram.PollTimeout)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		handler.Poll(ctx, updates)
	}()
	logger.Info("telegram long polling started", slog.Int("timeout_sec", cfg.Telegram.PollTimeout))

	err := serveHTTP(ctx, srv, cfg.Server.ShutdownTimeout, logger)

	bot.StopUpdates()
	select {
	case <-pollDone:
	case <-time.After(cfg.Server.ShutdownTimeout):
		logger.Warn("telegram polling did not stop in time")
	}
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qamqor/screening-bot/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}

	if err := c.Telegram.validate(); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	if c.Survey.SessionTTL <= 0 {
		return fmt.Errorf("survey.session_ttl must be > 0 (got %s)", c.Survey.SessionTTL)
	}
	if c.Survey.SweepInterval <= 0 {
		return fmt.Errorf("survey.sweep_interval must be > 0 (got %s)", c.Survey.SweepInterval)
	}
	if c.Survey.HistoryLimit <= 0 {
		return fmt.Errorf("survey.history_limit must be > 0 (got %d)", c.Survey.HistoryLimit)
	}

	if c.Alerts.MaxParallel <= 0 {
		return fmt.Errorf("alerts.max_parallel must be > 0 (got %d)", c.Alerts.MaxParallel)
	}
	if c.Alerts.NotifyTimeout <= 0 {
		return fmt.Errorf("alerts.notify_timeout must be > 0 (got %s)", c.Alerts.NotifyTimeout)
	}

	if !domain.Language(c.I18n.DefaultLanguage).IsValid() {
		return fmt.Errorf("i18n.default_language %q is not supported", c.I18n.DefaultLanguage)
	}

	if c.Server.AdminRateLimit < 0 {
		return fmt.Errorf("server.admin_rate_limit must be >= 0 (got %d)", c.Server.AdminRateLimit)
	}

	return nil
}

func (t *TelegramConfig) validate() error {
	ids, err := ParseAdminIDs(t.AdminIDsRaw)
	if err != nil {
		return fmt.Errorf("admin_ids: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("admin_ids: at least one administrator is required")
	}
	t.AdminIDs = ids

	switch t.Mode {
	case ModePolling:
	case ModeWebhook:
		if t.WebhookURL == "" {
			return fmt.Errorf("webhook_url is required in webhook mode")
		}
		if !strings.HasPrefix(t.WebhookPath, "/") {
			return fmt.Errorf("webhook_path must start with / (got %q)", t.WebhookPath)
		}
	default:
		return fmt.Errorf("mode must be %q or %q (got %q)", ModePolling, ModeWebhook, t.Mode)
	}

	if t.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0 (got %s)", t.RequestTimeout)
	}
	return nil
}

// ParseAdminIDs parses a comma-separated list of Telegram user ids
// (e.g. "123,456"). Duplicates are dropped; an empty string returns nil.
func ParseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]struct{}, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", p, err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("invalid id %q: must be positive", p)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

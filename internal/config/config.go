package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Survey   SurveyConfig   `yaml:"survey"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Auth     AuthConfig     `yaml:"auth"`
	I18n     I18nConfig     `yaml:"i18n"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// AdminRateLimit is the per-IP request budget of /admin/* per minute; 0 disables it.
	AdminRateLimit int `yaml:"admin_rate_limit" env:"SERVER_ADMIN_RATE_LIMIT" env-default:"60"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`

	// AutoMigrate applies embedded migrations on startup. Off unless set in YAML or ENV.
	AutoMigrate bool `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE"`
}

// Telegram update delivery modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token          string        `yaml:"token"           env:"TELEGRAM_TOKEN"           env-required:"true"`
	Mode           string        `yaml:"mode"            env:"TELEGRAM_MODE"            env-default:"polling"`
	WebhookURL     string        `yaml:"webhook_url"     env:"TELEGRAM_WEBHOOK_URL"`
	WebhookPath    string        `yaml:"webhook_path"    env:"TELEGRAM_WEBHOOK_PATH"    env-default:"/telegram/webhook"`
	SecretToken    string        `yaml:"secret_token"    env:"TELEGRAM_SECRET_TOKEN"`
	AdminIDsRaw    string        `yaml:"admin_ids"       env:"TELEGRAM_ADMIN_IDS"       env-required:"true"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"TELEGRAM_REQUEST_TIMEOUT" env-default:"15s"`
	PollTimeout    int           `yaml:"poll_timeout"    env:"TELEGRAM_POLL_TIMEOUT"    env-default:"30"`

	// AdminIDs is parsed from AdminIDsRaw during validation.
	AdminIDs []int64 `yaml:"-" env:"-"`
}

// IsAdmin reports whether the Telegram user id belongs to an administrator.
func (c TelegramConfig) IsAdmin(userID int64) bool {
	return slices.Contains(c.AdminIDs, userID)
}

// SurveyConfig holds survey session settings.
type SurveyConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"SURVEY_SESSION_TTL"    env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SURVEY_SWEEP_INTERVAL" env-default:"10m"`
	HistoryLimit  int           `yaml:"history_limit"  env:"SURVEY_HISTORY_LIMIT"  env-default:"10"`
}

// AlertsConfig tunes the admin notification fan-out.
type AlertsConfig struct {
	NotifyTimeout time.Duration `yaml:"notify_timeout" env:"ALERTS_NOTIFY_TIMEOUT" env-default:"10s"`
	MaxParallel   int           `yaml:"max_parallel"   env:"ALERTS_MAX_PARALLEL"   env-default:"4"`
}

// AuthConfig holds admin API token settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string        `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"screening-bot"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"AUTH_TOKEN_TTL"  env-default:"720h"`
}

// I18nConfig holds localization settings.
type I18nConfig struct {
	DefaultLanguage string `yaml:"default_language" env:"I18N_DEFAULT_LANGUAGE" env-default:"ru"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

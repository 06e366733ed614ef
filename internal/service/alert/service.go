package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qamqor/screening-bot/internal/domain"
)

const (
	DefaultNotifyTimeout = 10 * time.Second
	DefaultMaxParallel   = 4
)

type alertRepo interface {
	Create(ctx context.Context, alert *domain.Alert) (*domain.Alert, error)
	ListUnread(ctx context.Context) ([]domain.Alert, error)
	MarkAllRead(ctx context.Context) (int64, error)
	MarkReadUpTo(ctx context.Context, createdAt time.Time) (int64, error)
}

type notifier interface {
	NotifyAdmin(ctx context.Context, adminID int64, alert domain.Alert) error
}

// Config tunes the admin fan-out.
type Config struct {
	AdminIDs      []int64
	NotifyTimeout time.Duration
	MaxParallel   int
}

// Service persists safety alerts and pushes them to every administrator.
type Service struct {
	alerts   alertRepo
	notifier notifier
	cfg      Config
	log      *slog.Logger

	inflight sync.WaitGroup
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService creates a new Alert service.
func NewService(log *slog.Logger, alerts alertRepo, notifier notifier, cfg Config) *Service {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultMaxParallel
	}
	return &Service{
		alerts:   alerts,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With("service", "alert"),
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Wait blocks until every background fan-out started by Dispatch has finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

package patient

import (
	"context"
	"log/slog"
	"time"

	"github.com/qamqor/screening-bot/internal/domain"
)

type patientRepo interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error)
	GetLanguage(ctx context.Context, userID int64) (domain.Language, error)
	NextCodeSeq(ctx context.Context) (int64, error)
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, bool, error)
	SetLanguage(ctx context.Context, userID int64, lang domain.Language) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type languageMatcher interface {
	Match(code string) domain.Language
}

// Service handles consent, registration and language preference.
type Service struct {
	patients    patientRepo
	tx          txManager
	matcher     languageMatcher
	defaultLang domain.Language
	log         *slog.Logger
	now         func() time.Time
}

// NewService creates a new Patient service.
func NewService(
	log *slog.Logger,
	patients patientRepo,
	tx txManager,
	matcher languageMatcher,
	defaultLang domain.Language,
) *Service {
	return &Service{
		patients:    patients,
		tx:          tx,
		matcher:     matcher,
		defaultLang: defaultLang,
		log:         log.With("service", "patient"),
		now:         time.Now,
	}
}

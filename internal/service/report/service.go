package report

import (
	"context"
	"log/slog"

	"github.com/qamqor/screening-bot/internal/domain"
)

const (
	DefaultLimit       = 50
	MaxLimit           = 200
	DefaultResultLimit = 20
)

type statsRepo interface {
	Aggregate(ctx context.Context) (domain.Stats, error)
}

type patientRepo interface {
	List(ctx context.Context, limit, offset int) ([]domain.Patient, int, error)
	GetByCode(ctx context.Context, code string) (*domain.Patient, error)
}

type resultRepo interface {
	ListByPatientCode(ctx context.Context, code string, limit int) ([]domain.SurveyResult, error)
}

// Service serves the read-only admin views.
type Service struct {
	stats    statsRepo
	patients patientRepo
	results  resultRepo
	log      *slog.Logger
}

// NewService creates a new Report service.
func NewService(log *slog.Logger, stats statsRepo, patients patientRepo, results resultRepo) *Service {
	return &Service{
		stats:    stats,
		patients: patients,
		results:  results,
		log:      log.With("service", "report"),
	}
}

package survey

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qamqor/screening-bot/internal/domain"
)

// DefaultHistoryLimit is how many past results "my results" shows.
const DefaultHistoryLimit = 10

type patientRepo interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Patient, error)
}

type resultRepo interface {
	Create(ctx context.Context, result *domain.SurveyResult) (*domain.SurveyResult, error)
	ListByPatientCode(ctx context.Context, code string, limit int) ([]domain.SurveyResult, error)
}

type alertDispatcher interface {
	Dispatch(ctx context.Context, trigger domain.AlertTrigger) (domain.Alert, error)
}

type sessionStore interface {
	Get(userID int64) (domain.SurveySession, bool)
	Put(userID int64, session domain.SurveySession)
	Remove(userID int64)
	Lock(userID int64) (unlock func())
}

type catalog interface {
	ResultSummary(lang domain.Language, inst domain.Instrument, total int, band domain.Band, critical bool) string
}

// Service runs the questionnaire state machine for every user.
type Service struct {
	patients     patientRepo
	results      resultRepo
	alerts       alertDispatcher
	sessions     sessionStore
	catalog      catalog
	historyLimit int
	log          *slog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewService creates a new Survey service. A non-positive historyLimit falls
// back to DefaultHistoryLimit.
func NewService(
	log *slog.Logger,
	patients patientRepo,
	results resultRepo,
	alerts alertDispatcher,
	sessions sessionStore,
	catalog catalog,
	historyLimit int,
) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Service{
		patients:     patients,
		results:      results,
		alerts:       alerts,
		sessions:     sessions,
		catalog:      catalog,
		historyLimit: historyLimit,
		log:          log.With("service", "survey"),
		now:          time.Now,
		newID:        uuid.New,
	}
}

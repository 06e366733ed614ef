package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qamqor/screening-bot/internal/domain"
)

// StartSurvey opens a fresh session for inst and returns the first question.
// Any survey already in progress for the user is discarded.
func (s *Service) StartSurvey(ctx context.Context, userID int64, inst domain.Instrument) (Step, error) {
	if !inst.IsValid() {
		return Step{}, domain.NewValidationError("instrument", "unknown instrument")
	}

	patient, err := s.registeredPatient(ctx, userID)
	if err != nil {
		return Step{}, err
	}

	unlock := s.sessions.Lock(userID)
	defer unlock()

	if prev, ok := s.sessions.Get(userID); ok {
		s.log.InfoContext(ctx, "abandoned session discarded",
			slog.Int64("user_id", userID),
			slog.String("instrument", prev.Instrument.String()),
			slog.Int("answered", len(prev.Answers)),
		)
	}

	now := s.now()
	s.sessions.Put(userID, domain.SurveySession{
		Instrument:  inst,
		Answers:     make([]int, 0, inst.ItemCount()),
		PatientCode: patient.Code,
		Language:    patient.Language,
		StartedAt:   now,
		UpdatedAt:   now,
	})

	return questionStep(inst, 0, patient.Language), nil
}

func (s *Service) registeredPatient(ctx context.Context, userID int64) (*domain.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	if !patient.ConsentGiven {
		return nil, domain.ErrNotRegistered
	}
	return patient, nil
}

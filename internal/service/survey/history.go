package survey

import (
	"context"
	"fmt"

	"github.com/qamqor/screening-bot/internal/domain"
)

// History returns the caller's most recent results, newest first, together
// with the language to render them in.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.SurveyResult, domain.Language, error) {
	patient, err := s.registeredPatient(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	results, err := s.results.ListByPatientCode(ctx, patient.Code, s.historyLimit)
	if err != nil {
		return nil, "", fmt.Errorf("list results: %w", err)
	}
	return results, patient.Language, nil
}

// ActiveSession reports the user's survey in progress, if any.
func (s *Service) ActiveSession(userID int64) (domain.SurveySession, bool) {
	return s.sessions.Get(userID)
}

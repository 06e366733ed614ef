package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/qamqor/screening-bot/internal/domain"
)

// PatientPage is one page of the patient listing.
type PatientPage struct {
	Patients []domain.Patient
	Total    int
}

// PatientResults is the result history of one patient.
type PatientResults struct {
	Patient domain.Patient
	Results []domain.SurveyResult
}

// Stats returns aggregate dashboard counters.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	st, err := s.stats.Aggregate(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	return st, nil
}

// ListPatients returns patients ordered by registration, newest first.
func (s *Service) ListPatients(ctx context.Context, limit, offset int) (PatientPage, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	patients, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return PatientPage{}, fmt.Errorf("list patients: %w", err)
	}
	return PatientPage{Patients: patients, Total: total}, nil
}

// ResultsByCode returns the latest results of the patient with the given code.
func (s *Service) ResultsByCode(ctx context.Context, code string, limit int) (PatientResults, error) {
	code = strings.TrimSpace(code)
	if !validCode(code) {
		return PatientResults{}, domain.NewValidationError("code", "must be digits")
	}
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	p, err := s.patients.GetByCode(ctx, code)
	if err != nil {
		return PatientResults{}, fmt.Errorf("get patient %s: %w", code, err)
	}

	results, err := s.results.ListByPatientCode(ctx, code, limit)
	if err != nil {
		return PatientResults{}, fmt.Errorf("list results: %w", err)
	}
	return PatientResults{Patient: *p, Results: results}, nil
}

func validCode(code string) bool {
	if code == "" || len(code) > 12 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

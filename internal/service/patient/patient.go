package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qamqor/screening-bot/internal/domain"
)

// ConsentResult reports the patient record after consent.
type ConsentResult struct {
	Patient           *domain.Patient
	AlreadyRegistered bool
}

// Lookup returns the registered patient or domain.ErrNotRegistered.
func (s *Service) Lookup(ctx context.Context, userID int64) (*domain.Patient, error) {
	p, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// SuggestLanguage maps a Telegram language_code to a supported language.
func (s *Service) SuggestLanguage(code string) domain.Language {
	if s.matcher == nil {
		return s.defaultLang
	}
	return s.matcher.Match(code)
}

// Consent registers the user with the language chosen before consenting and
// assigns the next sequential patient code. Repeated consent returns the
// existing record unchanged.
func (s *Service) Consent(ctx context.Context, userID int64, lang domain.Language) (ConsentResult, error) {
	if !lang.IsValid() {
		return ConsentResult{}, domain.NewValidationError("language", "unsupported language")
	}

	var (
		p       *domain.Patient
		created bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.patients.GetByUserID(ctx, userID)
		if err == nil {
			p = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get patient: %w", err)
		}

		seq, err := s.patients.NextCodeSeq(ctx)
		if err != nil {
			return fmt.Errorf("next patient code: %w", err)
		}

		inserted, ok, err := s.patients.Create(ctx, &domain.Patient{
			UserID:       userID,
			Code:         domain.FormatPatientCode(seq),
			Language:     lang,
			ConsentGiven: true,
			RegisteredAt: s.now(),
		})
		if err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		if ok {
			p, created = inserted, true
			return nil
		}

		// A concurrent consent for the same user won the insert.
		p, err = s.patients.GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return ConsentResult{}, fmt.Errorf("register patient: %w", err)
	}

	if created {
		s.log.InfoContext(ctx, "patient registered",
			slog.Int64("user_id", userID),
			slog.String("patient_code", p.Code),
			slog.String("language", lang.String()),
		)
	}
	return ConsentResult{Patient: p, AlreadyRegistered: !created}, nil
}

// ChangeLanguage updates the stored preference of a registered patient.
func (s *Service) ChangeLanguage(ctx context.Context, userID int64, lang domain.Language) error {
	if !lang.IsValid() {
		return domain.NewValidationError("language", "unsupported language")
	}
	if err := s.patients.SetLanguage(ctx, userID, lang); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Language returns the patient's language, or the default for unknown users.
func (s *Service) Language(ctx context.Context, userID int64) domain.Language {
	lang, err := s.patients.GetLanguage(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "language lookup failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return s.defaultLang
	}
	if !lang.IsValid() {
		return s.defaultLang
	}
	return lang
}

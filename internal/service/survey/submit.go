package survey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/service/survey/scoring"
)

// SubmitAnswer applies one answer event to the user's session.
//
// Events that do not match the session (other instrument, repeated or skipped
// index) return a StepIgnored step and no error. A failure to store the final
// result leaves the session as it was before the event so the answer can be
// sent again.
func (s *Service) SubmitAnswer(ctx context.Context, in AnswerInput) (Step, error) {
	if err := in.Validate(); err != nil {
		return Step{}, err
	}

	unlock := s.sessions.Lock(in.UserID)
	defer unlock()

	sess, ok := s.sessions.Get(in.UserID)
	if !ok {
		return Step{}, domain.ErrSessionExpired
	}

	if sess.Instrument != in.Instrument || sess.NextIndex() != in.QuestionIdx {
		s.log.DebugContext(ctx, "out of order answer dropped",
			slog.Int64("user_id", in.UserID),
			slog.String("instrument", in.Instrument.String()),
			slog.Int("question_idx", in.QuestionIdx),
			slog.Int("expected_idx", sess.NextIndex()),
		)
		return Step{Kind: StepIgnored}, nil
	}

	if domain.IsCriticalAnswer(in.Instrument, in.QuestionIdx, in.Value) && !sess.CriticalAlerted {
		s.raiseAlert(ctx, in, sess.PatientCode)
		sess.CriticalAlerted = true
	}

	prior := sess.Answers
	sess.Answers = append(sess.Answers, in.Value)
	sess.UpdatedAt = s.now()

	if len(sess.Answers) < sess.Instrument.ItemCount() {
		s.sessions.Put(in.UserID, sess)
		return questionStep(sess.Instrument, len(sess.Answers), sess.Language), nil
	}

	completion, err := s.complete(ctx, in.UserID, sess)
	if err != nil {
		sess.Answers = prior
		s.sessions.Put(in.UserID, sess)
		return Step{}, err
	}

	s.sessions.Remove(in.UserID)
	return Step{Kind: StepCompleted, Completion: completion}, nil
}

func (s *Service) raiseAlert(ctx context.Context, in AnswerInput, patientCode string) {
	_, err := s.alerts.Dispatch(ctx, domain.AlertTrigger{
		UserID:      in.UserID,
		PatientCode: patientCode,
		Answer:      in.Value,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "critical alert dispatch failed",
			slog.Int64("user_id", in.UserID),
			slog.String("patient_code", patientCode),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) complete(ctx context.Context, userID int64, sess domain.SurveySession) (*Completion, error) {
	score, err := scoring.Score(sess.Instrument, sess.Answers)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", sess.Instrument, err)
	}

	result := &domain.SurveyResult{
		ID:          s.newID(),
		UserID:      userID,
		Instrument:  sess.Instrument,
		Answers:     sess.Answers,
		TotalScore:  score.Total,
		Band:        score.Band,
		CompletedAt: s.now(),
	}

	saved, err := s.results.Create(ctx, result)
	if err != nil {
		s.log.ErrorContext(ctx, "survey result not saved",
			slog.Int64("user_id", userID),
			slog.String("instrument", sess.Instrument.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save survey result: %w", err)
	}

	critical := hasCriticalAnswer(saved.Instrument, saved.Answers)
	return &Completion{
		Result:   *saved,
		Language: sess.Language,
		Critical: critical,
		Summary:  s.catalog.ResultSummary(sess.Language, saved.Instrument, saved.TotalScore, saved.Band, critical),
	}, nil
}

// hasCriticalAnswer reports whether the stored answers carry a critical
// self-harm item. A retried final answer may differ from the alerted one.
func hasCriticalAnswer(inst domain.Instrument, answers []int) bool {
	idx := domain.CriticalItemIndex
	return idx < len(answers) && domain.IsCriticalAnswer(inst, idx, answers[idx])
}

package survey

import "github.com/qamqor/screening-bot/internal/domain"

// StepKind tells the transport what to render after an event.
type StepKind int

const (
	// StepIgnored means the event was stale or out of order and changed nothing.
	StepIgnored StepKind = iota
	// StepQuestion means the next question must be shown.
	StepQuestion
	// StepCompleted means the survey was scored and stored.
	StepCompleted
)

func (k StepKind) String() string {
	switch k {
	case StepIgnored:
		return "ignored"
	case StepQuestion:
		return "question"
	case StepCompleted:
		return "completed"
	}
	return "unknown"
}

// Step is the outcome of StartSurvey or SubmitAnswer.
type Step struct {
	Kind       StepKind
	Question   *QuestionPrompt
	Completion *Completion
}

// QuestionPrompt identifies the question to render. Index is zero-based.
type QuestionPrompt struct {
	Instrument domain.Instrument
	Index      int
	Total      int
	Language   domain.Language
}

// Completion carries the stored result and the text shown to the user.
type Completion struct {
	Result   domain.SurveyResult
	Language domain.Language
	Critical bool
	Summary  string
}

// AnswerInput is one answer event as decoded from the chat callback.
type AnswerInput struct {
	UserID      int64
	Instrument  domain.Instrument
	QuestionIdx int
	Value       int
}

// Validate checks the event against the instrument definition. Ordering is
// checked later against the session.
func (i AnswerInput) Validate() error {
	var errs []domain.FieldError

	if !i.Instrument.IsValid() {
		errs = append(errs, domain.FieldError{Field: "instrument", Message: "unknown instrument"})
	} else if i.QuestionIdx < 0 || i.QuestionIdx >= i.Instrument.ItemCount() {
		errs = append(errs, domain.FieldError{Field: "question_idx", Message: "out of range"})
	}
	if !domain.ValidAnswer(i.Value) {
		errs = append(errs, domain.FieldError{Field: "value", Message: "must be between 0 and 3"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func questionStep(inst domain.Instrument, idx int, lang domain.Language) Step {
	return Step{
		Kind: StepQuestion,
		Question: &QuestionPrompt{
			Instrument: inst,
			Index:      idx,
			Total:      inst.ItemCount(),
			Language:   lang,
		},
	}
}

package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/survey"
)

func (h *Handler) onLanguage(ctx context.Context, c callbackCtx, code string) callbackReply {
	lang, ok := parseLanguage(code)
	if !ok {
		return callbackReply{}
	}

	err := h.patients.ChangeLanguage(ctx, c.userID, lang)
	switch {
	case err == nil:
		text := h.catalog.Text(lang, "language_changed") + "\n\n" + h.catalog.Text(lang, "main_menu")
		h.edit(ctx, c, text, h.mainMenuKeyboard(lang))
	case isNotRegistered(err):
		h.edit(ctx, c, h.catalog.Text(lang, "consent_text"), h.consentKeyboard(lang))
	default:
		h.logError(ctx, "change language", err)
		return callbackReply{text: h.catalog.Text(lang, "error_generic"), alert: true}
	}
	return callbackReply{}
}

func (h *Handler) onConsent(ctx context.Context, c callbackCtx, code string) callbackReply {
	lang, ok := parseLanguage(code)
	if !ok {
		return callbackReply{}
	}

	res, err := h.patients.Consent(ctx, c.userID, lang)
	if err != nil {
		h.logError(ctx, "consent", err)
		return callbackReply{text: h.catalog.Text(lang, "error_generic"), alert: true}
	}

	p := res.Patient
	key := "registered"
	if res.AlreadyRegistered {
		key = "welcome_back"
	}
	h.edit(ctx, c, h.catalog.Format(p.Language, key, i18n.Vars{"code": p.Code}), nil)
	h.send(ctx, c.chatID, h.catalog.Text(p.Language, "main_menu"), h.mainMenuKeyboard(p.Language))
	return callbackReply{}
}

func (h *Handler) onDecline(ctx context.Context, c callbackCtx, code string) callbackReply {
	lang, ok := parseLanguage(code)
	if !ok {
		lang = h.catalog.DefaultLanguage()
	}
	h.edit(ctx, c, h.catalog.Text(lang, "consent_declined"), nil)
	return callbackReply{}
}

func (h *Handler) onMainMenu(ctx context.Context, c callbackCtx) callbackReply {
	p, err := h.patients.Lookup(ctx, c.userID)
	if err != nil {
		return h.lookupFailed(ctx, err)
	}
	h.edit(ctx, c, h.catalog.Text(p.Language, "main_menu"), h.mainMenuKeyboard(p.Language))
	return callbackReply{}
}

func (h *Handler) onChangeLanguage(ctx context.Context, c callbackCtx) callbackReply {
	lang := h.patients.Language(ctx, c.userID)
	h.edit(ctx, c, h.catalog.Text(lang, "choose_language"), h.languageKeyboard())
	return callbackReply{}
}

func (h *Handler) onAbout(ctx context.Context, c callbackCtx) callbackReply {
	lang := h.patients.Language(ctx, c.userID)
	h.edit(ctx, c, h.catalog.Text(lang, "about"), h.backKeyboard(lang))
	return callbackReply{}
}

func (h *Handler) onMyResults(ctx context.Context, c callbackCtx) callbackReply {
	results, lang, err := h.surveys.History(ctx, c.userID)
	if err != nil {
		return h.lookupFailed(ctx, err)
	}
	h.edit(ctx, c, h.historyText(lang, results), h.backKeyboard(lang))
	return callbackReply{}
}

func (h *Handler) onStartSurvey(ctx context.Context, c callbackCtx, key string) callbackReply {
	inst, ok := domain.ParseInstrumentKey(key)
	if !ok {
		return callbackReply{}
	}

	step, err := h.surveys.StartSurvey(ctx, c.userID, inst)
	if err != nil {
		return h.surveyFailed(ctx, c, err)
	}
	h.renderStep(ctx, c, step)
	return callbackReply{}
}

func (h *Handler) onAnswer(ctx context.Context, c callbackCtx, data string) callbackReply {
	p, err := parseAnswer(data)
	if err != nil {
		h.log.DebugContext(ctx, "bad answer payload", slog.String("error", err.Error()))
		return callbackReply{}
	}

	step, err := h.surveys.SubmitAnswer(ctx, survey.AnswerInput{
		UserID:      c.userID,
		Instrument:  p.Instrument,
		QuestionIdx: p.Index,
		Value:       p.Value,
	})
	if err != nil {
		return h.surveyFailed(ctx, c, err)
	}
	h.renderStep(ctx, c, step)
	return callbackReply{}
}

// renderStep edits the survey message in place. Ignored steps leave the
// chat untouched so stale taps on old keyboards are harmless.
func (h *Handler) renderStep(ctx context.Context, c callbackCtx, step survey.Step) {
	switch step.Kind {
	case survey.StepQuestion:
		q := step.Question
		h.edit(ctx, c, h.questionText(q), h.answerKeyboard(q.Language, q.Instrument, q.Index))
	case survey.StepCompleted:
		done := step.Completion
		h.edit(ctx, c, done.Summary, h.backKeyboard(done.Language))
	}
}

func (h *Handler) surveyFailed(ctx context.Context, c callbackCtx, err error) callbackReply {
	lang := h.patients.Language(ctx, c.userID)
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return callbackReply{text: h.catalog.Text(lang, "session_expired"), alert: true}
	case isNotRegistered(err):
		return callbackReply{text: h.catalog.Text(lang, "not_registered"), alert: true}
	case errors.Is(err, domain.ErrValidation):
		h.log.DebugContext(ctx, "answer rejected", slog.String("error", err.Error()))
		return callbackReply{}
	}
	h.logError(ctx, "survey", err)
	return callbackReply{text: h.catalog.Text(lang, "error_generic"), alert: true}
}

func (h *Handler) lookupFailed(ctx context.Context, err error) callbackReply {
	lang := h.catalog.DefaultLanguage()
	if isNotRegistered(err) {
		return callbackReply{text: h.catalog.Text(lang, "not_registered"), alert: true}
	}
	h.logError(ctx, "lookup patient", err)
	return callbackReply{text: h.catalog.Text(lang, "error_generic"), alert: true}
}

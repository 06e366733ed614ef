package telegram

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/survey"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04 MST"
)

func isNotRegistered(err error) bool { return errors.Is(err, domain.ErrNotRegistered) }

// truncate keeps text under the Bot API message limit.
func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxMessageLength {
		return s
	}
	return string(r[:maxMessageLength-1]) + "…"
}

func (h *Handler) questionText(q *survey.QuestionPrompt) string {
	return h.catalog.Format(q.Language, "question", i18n.Vars{
		"title":    h.catalog.Title(q.Language, q.Instrument),
		"n":        strconv.Itoa(q.Index + 1),
		"total":    strconv.Itoa(q.Total),
		"prompt":   h.catalog.Prompt(q.Language, q.Instrument),
		"question": h.catalog.Question(q.Language, q.Instrument, q.Index),
	})
}

func (h *Handler) resultLine(lang domain.Language, r domain.SurveyResult) string {
	return h.catalog.Format(lang, "result_line", i18n.Vars{
		"date":  r.CompletedAt.UTC().Format(dateLayout),
		"title": h.catalog.Title(lang, r.Instrument),
		"score": strconv.Itoa(r.TotalScore),
		"max":   strconv.Itoa(r.Instrument.MaxScore()),
		"level": h.catalog.BandLabel(lang, r.Instrument, r.Band),
	})
}

func (h *Handler) historyText(lang domain.Language, results []domain.SurveyResult) string {
	if len(results) == 0 {
		return h.catalog.Text(lang, "no_results")
	}
	var b strings.Builder
	b.WriteString(h.catalog.Text(lang, "my_results_header"))
	for _, r := range results {
		b.WriteByte('\n')
		b.WriteString(h.resultLine(lang, r))
	}
	return b.String()
}

func answersString(answers []int) string {
	parts := make([]string, len(answers))
	for i, a := range answers {
		parts[i] = strconv.Itoa(a)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qamqor/screening-bot/internal/domain"
)

// Callback payloads. Telegram caps callback_data at 64 bytes; the longest
// here is "ans_phq9_8_3".
const (
	cbMainMenu   = "main_menu"
	cbChangeLang = "change_lang"
	cbAbout      = "about"
	cbMyResults  = "my_results"

	cbAdminStats          = "admin_stats"
	cbAdminPatients       = "admin_patients"
	cbAdminPatientResults = "admin_patient_results"
	cbAdminAlerts         = "admin_alerts"

	prefixLang       = "lang_"
	prefixConsentYes = "consent_yes_"
	prefixConsentNo  = "consent_no_"
	prefixStart      = "start_"
	prefixAnswer     = "ans_"
)

func langData(l domain.Language) string       { return prefixLang + l.String() }
func consentYesData(l domain.Language) string { return prefixConsentYes + l.String() }
func consentNoData(l domain.Language) string  { return prefixConsentNo + l.String() }
func startData(i domain.Instrument) string    { return prefixStart + i.Key() }

func answerData(inst domain.Instrument, idx, value int) string {
	return fmt.Sprintf("%s%s_%d_%d", prefixAnswer, inst.Key(), idx, value)
}

// parseLanguage decodes the suffix of lang_/consent_ payloads.
func parseLanguage(s string) (domain.Language, bool) {
	l := domain.Language(s)
	return l, l.IsValid()
}

type answerPayload struct {
	Instrument domain.Instrument
	Index      int
	Value      int
}

// parseAnswer decodes "ans_<inst>_<idx>_<val>". Range checks are left to the
// survey service.
func parseAnswer(data string) (answerPayload, error) {
	rest, ok := strings.CutPrefix(data, prefixAnswer)
	if !ok {
		return answerPayload{}, fmt.Errorf("not an answer payload: %q", data)
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 3 {
		return answerPayload{}, fmt.Errorf("malformed answer payload: %q", data)
	}
	inst, ok := domain.ParseInstrumentKey(parts[0])
	if !ok {
		return answerPayload{}, fmt.Errorf("unknown instrument in %q", data)
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return answerPayload{}, fmt.Errorf("bad question index in %q: %w", data, err)
	}
	val, err := strconv.Atoi(parts[2])
	if err != nil {
		return answerPayload{}, fmt.Errorf("bad value in %q: %w", data, err)
	}
	return answerPayload{Instrument: inst, Index: idx, Value: val}, nil
}

package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qamqor/screening-bot/internal/domain"
)

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func markup(rows ...[]tgbotapi.InlineKeyboardButton) *tgbotapi.InlineKeyboardMarkup {
	m := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &m
}

func (h *Handler) languageKeyboard() *tgbotapi.InlineKeyboardMarkup {
	row := tgbotapi.NewInlineKeyboardRow()
	for _, l := range h.catalog.Languages() {
		row = append(row, button(h.catalog.Name(l), langData(l)))
	}
	return markup(row)
}

func (h *Handler) consentKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_consent_yes"), consentYesData(lang))),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_consent_no"), consentNoData(lang))),
	)
}

func (h *Handler) mainMenuKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_gad7"), startData(domain.InstrumentGAD7))),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_phq9"), startData(domain.InstrumentPHQ9))),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_my_results"), cbMyResults)),
		tgbotapi.NewInlineKeyboardRow(
			button(h.catalog.Text(lang, "btn_change_lang"), cbChangeLang),
			button(h.catalog.Text(lang, "btn_about"), cbAbout),
		),
	)
}

func (h *Handler) answerKeyboard(lang domain.Language, inst domain.Instrument, idx int) *tgbotapi.InlineKeyboardMarkup {
	labels := h.catalog.AnswerLabels(lang)
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(labels))
	for v, label := range labels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(fmt.Sprintf("%d · %s", v, label), answerData(inst, idx, v)),
		))
	}
	return markup(rows...)
}

func (h *Handler) backKeyboard(lang domain.Language) *tgbotapi.InlineKeyboardMarkup {
	return markup(tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_main_menu"), cbMainMenu)))
}

func (h *Handler) adminKeyboard() *tgbotapi.InlineKeyboardMarkup {
	lang := h.catalog.DefaultLanguage()
	return markup(
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_admin_stats"), cbAdminStats)),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_admin_patients"), cbAdminPatients)),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_admin_patient_results"), cbAdminPatientResults)),
		tgbotapi.NewInlineKeyboardRow(button(h.catalog.Text(lang, "btn_admin_alerts"), cbAdminAlerts)),
	)
}

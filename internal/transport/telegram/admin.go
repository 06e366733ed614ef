package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/report"
)

// Admin texts use the default language; the clinical team shares one.

func (h *Handler) cmdAdmin(ctx context.Context, chatID, userID int64) {
	lang := h.catalog.DefaultLanguage()
	if !h.isAdmin(userID) {
		h.send(ctx, chatID, h.catalog.Text(lang, "admin_only"), nil)
		return
	}
	h.send(ctx, chatID, h.catalog.Text(lang, "admin_menu"), h.adminKeyboard())
}

func (h *Handler) cmdResults(ctx context.Context, chatID, userID int64, args string) {
	lang := h.catalog.DefaultLanguage()
	if !h.isAdmin(userID) {
		h.send(ctx, chatID, h.catalog.Text(lang, "admin_only"), nil)
		return
	}
	code := strings.TrimSpace(args)
	if code == "" {
		h.send(ctx, chatID, h.catalog.Text(lang, "admin_results_usage"), nil)
		return
	}
	h.send(ctx, chatID, h.patientResultsText(ctx, code), nil)
}

func (h *Handler) onAdmin(ctx context.Context, c callbackCtx, data string) callbackReply {
	lang := h.catalog.DefaultLanguage()
	if !h.isAdmin(c.userID) {
		return callbackReply{text: h.catalog.Text(lang, "admin_only"), alert: true}
	}

	var (
		text string
		err  error
	)
	switch data {
	case cbAdminStats:
		text, err = h.statsText(ctx)
	case cbAdminPatients:
		text, err = h.patientsText(ctx)
	case cbAdminPatientResults:
		text = h.catalog.Text(lang, "admin_results_usage")
	case cbAdminAlerts:
		text, err = h.alertsText(ctx)
	}
	if err != nil {
		h.logError(ctx, data, err)
		return callbackReply{text: h.catalog.Text(lang, "error_generic"), alert: true}
	}

	h.edit(ctx, c, text, h.adminKeyboard())
	return callbackReply{}
}

func (h *Handler) statsText(ctx context.Context) (string, error) {
	st, err := h.reports.Stats(ctx)
	if err != nil {
		return "", err
	}
	return h.catalog.Format(h.catalog.DefaultLanguage(), "admin_stats", i18n.Vars{
		"patients": strconv.Itoa(st.TotalPatients),
		"surveys":  strconv.Itoa(st.TotalSurveys),
		"gad7":     strconv.Itoa(st.GAD7Count),
		"phq9":     strconv.Itoa(st.PHQ9Count),
		"alerts":   strconv.Itoa(st.UnreadAlerts),
	}), nil
}

func (h *Handler) patientsText(ctx context.Context) (string, error) {
	lang := h.catalog.DefaultLanguage()
	page, err := h.reports.ListPatients(ctx, report.DefaultLimit, 0)
	if err != nil {
		return "", err
	}
	if len(page.Patients) == 0 {
		return h.catalog.Text(lang, "admin_no_patients"), nil
	}

	var b strings.Builder
	b.WriteString(h.catalog.Format(lang, "admin_patients_header", i18n.Vars{
		"shown": strconv.Itoa(len(page.Patients)),
		"total": strconv.Itoa(page.Total),
	}))
	for _, p := range page.Patients {
		b.WriteByte('\n')
		b.WriteString(h.catalog.Format(lang, "admin_patient_line", i18n.Vars{
			"code": p.Code,
			"lang": p.Language.String(),
			"date": p.RegisteredAt.UTC().Format(dateLayout),
		}))
	}
	return b.String(), nil
}

// patientResultsText never fails; lookup problems are rendered as text.
func (h *Handler) patientResultsText(ctx context.Context, code string) string {
	lang := h.catalog.DefaultLanguage()
	vars := i18n.Vars{"code": code}

	res, err := h.reports.ResultsByCode(ctx, code, report.DefaultResultLimit)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		return h.catalog.Text(lang, "admin_results_usage")
	case errors.Is(err, domain.ErrNotFound):
		return h.catalog.Format(lang, "admin_patient_not_found", vars)
	default:
		h.logError(ctx, "patient results", err)
		return h.catalog.Text(lang, "error_generic")
	}

	if len(res.Results) == 0 {
		return h.catalog.Format(lang, "admin_no_results", vars)
	}
	var b strings.Builder
	b.WriteString(h.catalog.Format(lang, "admin_results_header", vars))
	for _, r := range res.Results {
		b.WriteByte('\n')
		b.WriteString(h.resultLine(lang, r))
		b.WriteByte(' ')
		b.WriteString(answersString(r.Answers))
	}
	return b.String()
}

// alertsText lists unread alerts and marks exactly those as read.
func (h *Handler) alertsText(ctx context.Context) (string, error) {
	lang := h.catalog.DefaultLanguage()
	alerts, err := h.alerts.ReviewUnread(ctx)
	if err != nil {
		return "", err
	}
	if len(alerts) == 0 {
		return h.catalog.Text(lang, "admin_no_alerts"), nil
	}

	var b strings.Builder
	b.WriteString(h.catalog.Text(lang, "admin_alerts_header"))
	for _, a := range alerts {
		b.WriteByte('\n')
		b.WriteString(h.catalog.Format(lang, "admin_alert_line", i18n.Vars{
			"time":   formatTime(a.CreatedAt),
			"code":   a.PatientCode,
			"answer": strconv.Itoa(a.Answer),
		}))
	}
	return b.String(), nil
}

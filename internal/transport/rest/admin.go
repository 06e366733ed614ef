package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/service/report"
	"github.com/qamqor/screening-bot/pkg/ctxutil"
)

type reportService interface {
	Stats(ctx context.Context) (domain.Stats, error)
	ListPatients(ctx context.Context, limit, offset int) (report.PatientPage, error)
	ResultsByCode(ctx context.Context, code string, limit int) (report.PatientResults, error)
}

type alertService interface {
	ListUnread(ctx context.Context) ([]domain.Alert, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

// AdminHandler serves the admin REST API. Authentication is done by
// middleware.AdminAuth in front of it.
type AdminHandler struct {
	reports reportService
	alerts  alertService
	log     *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(reports reportService, alerts alertService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		reports: reports,
		alerts:  alerts,
		log:     logger.With("handler", "admin"),
	}
}

// Register mounts the admin routes on mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/stats", h.Stats)
	mux.HandleFunc("GET /admin/patients", h.Patients)
	mux.HandleFunc("GET /admin/patients/{code}/results", h.PatientResults)
	mux.HandleFunc("GET /admin/alerts", h.Alerts)
	mux.HandleFunc("POST /admin/alerts/read", h.MarkAlertsRead)
}

type statsResponse struct {
	TotalPatients int `json:"total_patients"`
	TotalSurveys  int `json:"total_surveys"`
	GAD7Count     int `json:"gad7_count"`
	PHQ9Count     int `json:"phq9_count"`
	UnreadAlerts  int `json:"unread_alerts"`
}

type patientResponse struct {
	Code         string    `json:"code"`
	Language     string    `json:"language"`
	RegisteredAt time.Time `json:"registered_at"`
}

type patientListResponse struct {
	Patients []patientResponse `json:"patients"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type resultResponse struct {
	ID          string    `json:"id"`
	Instrument  string    `json:"instrument"`
	Answers     []int     `json:"answers"`
	TotalScore  int       `json:"total_score"`
	MaxScore    int       `json:"max_score"`
	Band        string    `json:"band"`
	CompletedAt time.Time `json:"completed_at"`
}

type patientResultsResponse struct {
	Patient patientResponse  `json:"patient"`
	Results []resultResponse `json:"results"`
}

type alertResponse struct {
	ID          string    `json:"id"`
	PatientCode string    `json:"patient_code"`
	Category    string    `json:"category"`
	Answer      int       `json:"answer"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats returns dashboard counters.
// GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.Stats(r.Context())
	if err != nil {
		h.fail(w, r, "get stats", err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalPatients: st.TotalPatients,
		TotalSurveys:  st.TotalSurveys,
		GAD7Count:     st.GAD7Count,
		PHQ9Count:     st.PHQ9Count,
		UnreadAlerts:  st.UnreadAlerts,
	})
}

// Patients lists registered patients, newest first.
// GET /admin/patients?limit=50&offset=0
func (h *AdminHandler) Patients(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", report.DefaultLimit)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	page, err := h.reports.ListPatients(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, "list patients", err)
		return
	}

	resp := patientListResponse{
		Patients: make([]patientResponse, 0, len(page.Patients)),
		Total:    page.Total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, p := range page.Patients {
		resp.Patients = append(resp.Patients, toPatientResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// PatientResults returns the latest results of one patient.
// GET /admin/patients/{code}/results?limit=20
func (h *AdminHandler) PatientResults(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", report.DefaultResultLimit)
	if !ok {
		return
	}

	pr, err := h.reports.ResultsByCode(r.Context(), r.PathValue("code"), limit)
	if err != nil {
		h.fail(w, r, "patient results", err)
		return
	}

	resp := patientResultsResponse{
		Patient: toPatientResponse(pr.Patient),
		Results: make([]resultResponse, 0, len(pr.Results)),
	}
	for _, res := range pr.Results {
		resp.Results = append(resp.Results, resultResponse{
			ID:          res.ID.String(),
			Instrument:  res.Instrument.String(),
			Answers:     res.Answers,
			TotalScore:  res.TotalScore,
			MaxScore:    res.Instrument.MaxScore(),
			Band:        res.Band.String(),
			CompletedAt: res.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Alerts lists unread safety alerts without marking them read.
// GET /admin/alerts
func (h *AdminHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ListUnread(r.Context())
	if err != nil {
		h.fail(w, r, "list alerts", err)
		return
	}

	resp := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, alertResponse{
			ID:          a.ID.String(),
			PatientCode: a.PatientCode,
			Category:    a.Category.String(),
			Answer:      a.Answer,
			CreatedAt:   a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkAlertsRead marks every alert as read.
// POST /admin/alerts/read
func (h *AdminHandler) MarkAlertsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.alerts.MarkAllRead(r.Context())
	if err != nil {
		h.fail(w, r, "mark alerts read", err)
		return
	}

	admin, _ := ctxutil.AdminFromCtx(r.Context())
	h.log.InfoContext(r.Context(), "alerts marked read",
		slog.String("admin", admin),
		slog.Int64("count", n),
	)
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.log.ErrorContext(r.Context(), op,
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func toPatientResponse(p domain.Patient) patientResponse {
	return patientResponse{
		Code:         p.Code,
		Language:     p.Language.String(),
		RegisteredAt: p.RegisteredAt,
	}
}

//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/qamqor/screening-bot/internal/adapter/memstore"
	"github.com/qamqor/screening-bot/internal/adapter/postgres"
	alertrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/alert"
	patientrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/patient"
	resultrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/result"
	statsrepo "github.com/qamqor/screening-bot/internal/adapter/postgres/stats"
	"github.com/qamqor/screening-bot/internal/adapter/postgres/testhelper"
	tgclient "github.com/qamqor/screening-bot/internal/adapter/telegram"
	"github.com/qamqor/screening-bot/internal/auth"
	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/alert"
	"github.com/qamqor/screening-bot/internal/service/patient"
	"github.com/qamqor/screening-bot/internal/service/report"
	"github.com/qamqor/screening-bot/internal/service/survey"
	"github.com/qamqor/screening-bot/internal/transport/middleware"
	"github.com/qamqor/screening-bot/internal/transport/rest"
	"github.com/qamqor/screening-bot/internal/transport/telegram"
)

const (
	webhookPath   = "/telegram/webhook"
	webhookSecret = "e2e-secret"
	jwtSecret     = "e2e-jwt-secret-that-is-long-enough-for-hs256"
)

// ---------------------------------------------------------------------------
// Fake Bot API
// ---------------------------------------------------------------------------

type botCall struct {
	Method string
	ChatID int64
	Text   string
	Form   url.Values
}

// fakeBotAPI records every Bot API request and answers with ok.
type fakeBotAPI struct {
	mu    sync.Mutex
	calls []botCall
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	chatID, _ := strconv.ParseInt(r.PostForm.Get("chat_id"), 10, 64)

	f.mu.Lock()
	f.calls = append(f.calls, botCall{Method: method, ChatID: chatID, Text: r.PostForm.Get("text"), Form: r.PostForm})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "getMe" {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Bot","username":"screening_e2e_bot"}}`)
		return
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
}

// lastTo returns the latest call of method addressed to chatID.
func (f *fakeBotAPI) lastTo(t *testing.T, method string, chatID int64) botCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if c := f.calls[i]; c.Method == method && c.ChatID == chatID {
			return c
		}
	}
	t.Fatalf("no %s call to chat %d", method, chatID)
	return botCall{}
}

func (f *fakeBotAPI) countTo(method string, chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.ChatID == chatID {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Test server
// ---------------------------------------------------------------------------

type testServer struct {
	URL      string
	Client   *http.Client
	API      *fakeBotAPI
	Catalog  *i18n.Catalog
	Patients *patientrepo.Repo
	Alerts   *alert.Service
	Sessions *memstore.SessionStore
	AdminID  int64
	token    string
	nextMsg  int
}

// setupTestServer wires the full stack against a real PostgreSQL and a fake
// Bot API, and serves it through httptest.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	api := &fakeBotAPI{}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	catalog, err := i18n.Load(domain.LanguageEnglish)
	require.NoError(t, err)

	bot, err := tgclient.NewClient(tgclient.Options{
		Token:          "123:e2e",
		RequestTimeout: 5 * time.Second,
		Endpoint:       apiSrv.URL + "/bot%s/%s",
	}, catalog, logger)
	require.NoError(t, err)

	patients := patientrepo.New(pool)
	results := resultrepo.New(pool)
	alerts := alertrepo.New(pool)
	stats := statsrepo.New(pool)
	sessions := memstore.New(logger, time.Hour)

	adminID := testhelper.NextUserID()

	alertSvc := alert.NewService(logger, alerts, bot, alert.Config{
		AdminIDs:      []int64{adminID},
		NotifyTimeout: 5 * time.Second,
		MaxParallel:   2,
	})
	t.Cleanup(alertSvc.Wait)

	patientSvc := patient.NewService(logger, patients, postgres.NewTxManager(pool), catalog, catalog.DefaultLanguage())
	surveySvc := survey.NewService(logger, patients, results, alertSvc, sessions, catalog, 10)
	reportSvc := report.NewService(logger, stats, patients, results)

	handler := telegram.NewHandler(telegram.Deps{
		Bot:         bot,
		Surveys:     surveySvc,
		Patients:    patientSvc,
		Reports:     reportSvc,
		Alerts:      alertSvc,
		Catalog:     catalog,
		IsAdmin:     func(id int64) bool { return id == adminID },
		SecretToken: webhookSecret,
	}, logger)

	jwtManager := auth.NewJWTManager(jwtSecret, "screening-bot", time.Hour)
	token, err := jwtManager.GenerateToken("e2e-admin", auth.RoleAdmin)
	require.NoError(t, err)

	mux := http.NewServeMux()
	health := rest.NewHealthHandler(pool, sessions, "e2e")
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	adminMux := http.NewServeMux()
	rest.NewAdminHandler(reportSvc, alertSvc, logger).Register(adminMux)
	mux.Handle("/admin/", middleware.AdminAuth(jwtManager, logger)(adminMux))
	mux.Handle("POST "+webhookPath, handler)

	srv := httptest.NewServer(middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
	)(mux))
	t.Cleanup(srv.Close)

	return &testServer{
		URL:      srv.URL,
		Client:   srv.Client(),
		API:      api,
		Catalog:  catalog,
		Patients: patients,
		Alerts:   alertSvc,
		Sessions: sessions,
		AdminID:  adminID,
		token:    token,
	}
}

// ---------------------------------------------------------------------------
// Webhook helpers
// ---------------------------------------------------------------------------

func (ts *testServer) deliver(t *testing.T, u tgbotapi.Update) {
	t.Helper()
	require.Equal(t, http.StatusOK, ts.postUpdate(t, u, webhookSecret))
}

func (ts *testServer) postUpdate(t *testing.T, u tgbotapi.Update, secret string) int {
	t.Helper()

	body, err := json.Marshal(u)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+webhookPath, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(telegram.SecretTokenHeader, secret)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func (ts *testServer) command(t *testing.T, userID int64, text string) {
	t.Helper()
	ts.nextMsg++
	cmd, _, _ := strings.Cut(text, " ")
	ts.deliver(t, tgbotapi.Update{
		UpdateID: ts.nextMsg,
		Message: &tgbotapi.Message{
			MessageID: ts.nextMsg,
			From:      &tgbotapi.User{ID: userID, FirstName: "Test", LanguageCode: "en"},
			Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
			Date:      int(time.Now().Unix()),
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
		},
	})
}

func (ts *testServer) press(t *testing.T, userID int64, data string) {
	t.Helper()
	ts.nextMsg++
	ts.deliver(t, tgbotapi.Update{
		UpdateID: ts.nextMsg,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", ts.nextMsg),
			From: &tgbotapi.User{ID: userID, FirstName: "Test"},
			Message: &tgbotapi.Message{
				MessageID: 1,
				Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
			},
			Data: data,
		},
	})
}

// register drives /start, language choice and consent, and returns the
// stored patient.
func (ts *testServer) register(t *testing.T, userID int64) *domain.Patient {
	t.Helper()
	ts.command(t, userID, "/start")
	ts.press(t, userID, "lang_en")
	ts.press(t, userID, "consent_yes_en")

	p, err := ts.Patients.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return p
}

// ---------------------------------------------------------------------------
// Admin API helpers
// ---------------------------------------------------------------------------

func (ts *testServer) admin(t *testing.T, method, path string, out any) int {
	t.Helper()

	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.token)

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type resultJSON struct {
	Instrument string `json:"instrument"`
	Answers    []int  `json:"answers"`
	TotalScore int    `json:"total_score"`
	MaxScore   int    `json:"max_score"`
	Band       string `json:"band"`
}

type patientResultsJSON struct {
	Patient struct {
		Code string `json:"code"`
	} `json:"patient"`
	Results []resultJSON `json:"results"`
}

type alertJSON struct {
	PatientCode string `json:"patient_code"`
	Category    string `json:"category"`
	Answer      int    `json:"answer"`
}

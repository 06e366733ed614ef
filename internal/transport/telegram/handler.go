// Package telegram routes Bot API updates to the services and renders their
// outcomes as chat messages and inline keyboards.
package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
	"github.com/qamqor/screening-bot/internal/service/patient"
	"github.com/qamqor/screening-bot/internal/service/report"
	"github.com/qamqor/screening-bot/internal/service/survey"
	"github.com/qamqor/screening-bot/pkg/ctxutil"
)

// SecretTokenHeader carries the secret registered with setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const (
	maxUpdateBytes   = 1 << 20
	maxPollWorkers   = 16
	maxMessageLength = 4000
)

type messenger interface {
	Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

type surveyService interface {
	StartSurvey(ctx context.Context, userID int64, inst domain.Instrument) (survey.Step, error)
	SubmitAnswer(ctx context.Context, in survey.AnswerInput) (survey.Step, error)
	History(ctx context.Context, userID int64) ([]domain.SurveyResult, domain.Language, error)
}

type patientService interface {
	Lookup(ctx context.Context, userID int64) (*domain.Patient, error)
	SuggestLanguage(code string) domain.Language
	Consent(ctx context.Context, userID int64, lang domain.Language) (patient.ConsentResult, error)
	ChangeLanguage(ctx context.Context, userID int64, lang domain.Language) error
	Language(ctx context.Context, userID int64) domain.Language
}

type reportService interface {
	Stats(ctx context.Context) (domain.Stats, error)
	ListPatients(ctx context.Context, limit, offset int) (report.PatientPage, error)
	ResultsByCode(ctx context.Context, code string, limit int) (report.PatientResults, error)
}

type alertReviewer interface {
	ReviewUnread(ctx context.Context) ([]domain.Alert, error)
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Bot      messenger
	Surveys  surveyService
	Patients patientService
	Reports  reportService
	Alerts   alertReviewer
	Catalog  *i18n.Catalog
	// IsAdmin reports whether a Telegram user may use the admin commands.
	IsAdmin func(userID int64) bool
	// SecretToken, when set, must match the webhook secret header.
	SecretToken string
}

// Handler is the Telegram update router.
type Handler struct {
	bot      messenger
	surveys  surveyService
	patients patientService
	reports  reportService
	alerts   alertReviewer
	catalog  *i18n.Catalog
	isAdmin  func(int64) bool
	secret   []byte
	log      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(deps Deps, logger *slog.Logger) *Handler {
	isAdmin := deps.IsAdmin
	if isAdmin == nil {
		isAdmin = func(int64) bool { return false }
	}
	return &Handler{
		bot:      deps.Bot,
		surveys:  deps.Surveys,
		patients: deps.Patients,
		reports:  deps.Reports,
		alerts:   deps.Alerts,
		catalog:  deps.Catalog,
		isAdmin:  isAdmin,
		secret:   []byte(deps.SecretToken),
		log:      logger.With("handler", "telegram"),
	}
}

// ServeHTTP receives webhook deliveries. Processing errors are logged and
// still answered with 200 so Telegram does not redeliver the update.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if len(h.secret) > 0 {
		got := []byte(r.Header.Get(SecretTokenHeader))
		if subtle.ConstantTimeCompare(got, h.secret) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes)).Decode(&update); err != nil {
		h.log.WarnContext(r.Context(), "decode update", slog.String("error", err.Error()))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	h.HandleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

// Poll consumes a long-polling channel until ctx is done or the channel
// closes. Updates are handled concurrently; one user's survey state is
// serialised by the session store.
func (h *Handler) Poll(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	// In-flight updates finish after ctx is cancelled.
	work := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(maxPollWorkers)
	defer g.Wait() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			g.Go(func() error {
				h.HandleUpdate(work, u)
				return nil
			})
		}
	}
}

// HandleUpdate routes one update. It never panics.
func (h *Handler) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.ErrorContext(ctx, "panic while handling update",
				slog.Int("update_id", u.UpdateID),
				slog.Any("error", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		ctx = ctxutil.WithTelegramUserID(ctx, u.CallbackQuery.From.ID)
		h.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil:
		ctx = ctxutil.WithTelegramUserID(ctx, u.Message.From.ID)
		h.handleMessage(ctx, u.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		h.cmdStart(ctx, chatID, msg.From)
	case "admin":
		h.cmdAdmin(ctx, chatID, userID)
	case "results":
		h.cmdResults(ctx, chatID, userID, msg.CommandArguments())
	default:
		lang := h.patients.Language(ctx, userID)
		h.send(ctx, chatID, h.catalog.Text(lang, "unknown_command"), nil)
	}
}

func (h *Handler) cmdStart(ctx context.Context, chatID int64, from *tgbotapi.User) {
	p, err := h.patients.Lookup(ctx, from.ID)
	switch {
	case err == nil:
		text := h.catalog.Format(p.Language, "welcome_back", i18n.Vars{"code": p.Code}) +
			"\n\n" + h.catalog.Text(p.Language, "main_menu")
		h.send(ctx, chatID, text, h.mainMenuKeyboard(p.Language))
	case isNotRegistered(err):
		lang := h.patients.SuggestLanguage(from.LanguageCode)
		h.send(ctx, chatID, h.catalog.Text(lang, "choose_language"), h.languageKeyboard())
	default:
		h.logError(ctx, "start", err)
		h.send(ctx, chatID, h.catalog.Text(h.catalog.DefaultLanguage(), "error_generic"), nil)
	}
}

// callbackReply is the toast shown when acknowledging a button press.
type callbackReply struct {
	text  string
	alert bool
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	reply := h.routeCallback(ctx, cq)
	if err := h.bot.AnswerCallback(ctx, cq.ID, reply.text, reply.alert); err != nil {
		h.log.WarnContext(ctx, "answer callback", slog.String("error", err.Error()))
	}
}

func (h *Handler) routeCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) callbackReply {
	if cq.Message == nil {
		return callbackReply{}
	}
	c := callbackCtx{userID: cq.From.ID, chatID: cq.Message.Chat.ID, messageID: cq.Message.MessageID}
	data := cq.Data

	switch data {
	case cbMainMenu:
		return h.onMainMenu(ctx, c)
	case cbChangeLang:
		return h.onChangeLanguage(ctx, c)
	case cbAbout:
		return h.onAbout(ctx, c)
	case cbMyResults:
		return h.onMyResults(ctx, c)
	case cbAdminStats, cbAdminPatients, cbAdminPatientResults, cbAdminAlerts:
		return h.onAdmin(ctx, c, data)
	}

	if s, ok := strings.CutPrefix(data, prefixLang); ok {
		return h.onLanguage(ctx, c, s)
	}
	if s, ok := strings.CutPrefix(data, prefixConsentYes); ok {
		return h.onConsent(ctx, c, s)
	}
	if s, ok := strings.CutPrefix(data, prefixConsentNo); ok {
		return h.onDecline(ctx, c, s)
	}
	if s, ok := strings.CutPrefix(data, prefixStart); ok {
		return h.onStartSurvey(ctx, c, s)
	}
	if strings.HasPrefix(data, prefixAnswer) {
		return h.onAnswer(ctx, c, data)
	}

	h.log.DebugContext(ctx, "unknown callback", slog.String("data", data))
	return callbackReply{}
}

type callbackCtx struct {
	userID    int64
	chatID    int64
	messageID int
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if err := h.bot.Send(ctx, chatID, truncate(text), kb); err != nil {
		h.log.WarnContext(ctx, "send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) edit(ctx context.Context, c callbackCtx, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if err := h.bot.Edit(ctx, c.chatID, c.messageID, truncate(text), kb); err != nil {
		h.log.WarnContext(ctx, "edit message",
			slog.Int64("chat_id", c.chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	userID, _ := ctxutil.TelegramUserIDFromCtx(ctx)
	h.log.ErrorContext(ctx, op,
		slog.Int64("user_id", userID),
		slog.String("error", err.Error()),
	)
}

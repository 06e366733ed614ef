// Package telegram wraps the Telegram Bot API client.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/i18n"
)

// allowedUpdates limits deliveries to what the router handles.
var allowedUpdates = []string{"message", "callback_query"}

type textCatalog interface {
	DefaultLanguage() domain.Language
	Format(lang domain.Language, key string, vars i18n.Vars) string
}

// Client sends messages through the Bot API. Calls are bounded by the HTTP
// client timeout; a cancelled context abandons the wait, not the request.
type Client struct {
	bot     *tgbotapi.BotAPI
	catalog textCatalog
	log     *slog.Logger
}

// Options configure NewClient.
type Options struct {
	Token          string
	RequestTimeout time.Duration
	// Endpoint overrides tgbotapi.APIEndpoint (tests).
	Endpoint string
	Debug    bool
}

// NewClient authenticates with getMe and returns a ready client.
func NewClient(opts Options, catalog textCatalog, log *slog.Logger) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	httpClient := &http.Client{Timeout: opts.RequestTimeout}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	bot.Debug = opts.Debug

	return &Client{
		bot:     bot,
		catalog: catalog,
		log:     log.With("adapter", "telegram"),
	}, nil
}

// Username returns the bot's @username.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Send posts a new message. markup may be nil.
func (c *Client) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	return c.request(ctx, "sendMessage", msg)
}

// Edit replaces the text and keyboard of a message the bot sent earlier.
func (c *Client) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	var cfg tgbotapi.EditMessageTextConfig
	if markup != nil {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		cfg = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	err := c.request(ctx, "editMessageText", cfg)
	if isNotModified(err) {
		return nil
	}
	return err
}

// AnswerCallback acknowledges a button press. A non-empty text is shown as a
// toast, or as a modal when alert is set.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	cfg.ShowAlert = alert
	return c.request(ctx, "answerCallbackQuery", cfg)
}

// NotifyAdmin pushes a safety alert to one administrator chat.
func (c *Client) NotifyAdmin(ctx context.Context, adminID int64, alert domain.Alert) error {
	text := c.catalog.Format(c.catalog.DefaultLanguage(), "admin_alert_push", i18n.Vars{
		"code":   alert.PatientCode,
		"answer": alert.Answer,
		"time":   alert.CreatedAt.Format("2006-01-02 15:04"),
	})
	return c.Send(ctx, adminID, text, nil)
}

// SetWebhook registers url with Telegram. secret is echoed back by Telegram
// in the X-Telegram-Bot-Api-Secret-Token header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	params := tgbotapi.Params{}
	params["url"] = url
	params.AddNonEmpty("secret_token", secret)
	if err := params.AddInterface("allowed_updates", allowedUpdates); err != nil {
		return fmt.Errorf("telegram: setWebhook params: %w", err)
	}

	return c.do(ctx, "setWebhook", func() error {
		_, err := c.bot.MakeRequest("setWebhook", params)
		return err
	})
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.request(ctx, "deleteWebhook", tgbotapi.DeleteWebhookConfig{})
}

// Updates starts long polling. The channel closes after StopUpdates.
func (c *Client) Updates(timeoutSec int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	u.AllowedUpdates = allowedUpdates
	return c.bot.GetUpdatesChan(u)
}

// StopUpdates stops long polling.
func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

func (c *Client) request(ctx context.Context, method string, chattable tgbotapi.Chattable) error {
	return c.do(ctx, method, func() error {
		_, err := c.bot.Request(chattable)
		return err
	})
}

func (c *Client) do(ctx context.Context, method string, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- call() }()

	select {
	case <-ctx.Done():
		return fmt.Errorf("telegram: %s: %w", method, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("telegram: %s: %w", method, err)
		}
		return nil
	}
}

// Telegram rejects edits that leave a message unchanged; a double tap on the
// same button produces exactly that.
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "message is not modified")
}

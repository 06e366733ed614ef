package telegram

import (
	"context"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"sync"
)

var _ messenger = &messengerMock{}

type messengerMock struct {
	SendFunc           func(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	EditFunc           func(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallbackFunc func(ctx context.Context, callbackID string, text string, alert bool) error

	calls struct {
		Send []struct {
			Ctx    context.Context
			ChatID int64
			Text   string
			Markup *tgbotapi.InlineKeyboardMarkup
		}
		Edit []struct {
			Ctx       context.Context
			ChatID    int64
			MessageID int
			Text      string
			Markup    *tgbotapi.InlineKeyboardMarkup
		}
		AnswerCallback []struct {
			Ctx        context.Context
			CallbackID string
			Text       string
			Alert      bool
		}
	}
	lockSend           sync.RWMutex
	lockEdit           sync.RWMutex
	lockAnswerCallback sync.RWMutex
}

func (mock *messengerMock) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if mock.SendFunc == nil {
		panic("messengerMock.SendFunc: method is nil but messenger.Send was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ChatID int64
		Text   string
		Markup *tgbotapi.InlineKeyboardMarkup
	}{Ctx: ctx, ChatID: chatID, Text: text, Markup: markup}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, chatID, text, markup)
}

func (mock *messengerMock) SendCalls() []struct {
	Ctx    context.Context
	ChatID int64
	Text   string
	Markup *tgbotapi.InlineKeyboardMarkup
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}

func (mock *messengerMock) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if mock.EditFunc == nil {
		panic("messengerMock.EditFunc: method is nil but messenger.Edit was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChatID    int64
		MessageID int
		Text      string
		Markup    *tgbotapi.InlineKeyboardMarkup
	}{Ctx: ctx, ChatID: chatID, MessageID: messageID, Text: text, Markup: markup}
	mock.lockEdit.Lock()
	mock.calls.Edit = append(mock.calls.Edit, callInfo)
	mock.lockEdit.Unlock()
	return mock.EditFunc(ctx, chatID, messageID, text, markup)
}

func (mock *messengerMock) EditCalls() []struct {
	Ctx       context.Context
	ChatID    int64
	MessageID int
	Text      string
	Markup    *tgbotapi.InlineKeyboardMarkup
} {
	mock.lockEdit.RLock()
	calls := mock.calls.Edit
	mock.lockEdit.RUnlock()
	return calls
}

func (mock *messengerMock) AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error {
	if mock.AnswerCallbackFunc == nil {
		panic("messengerMock.AnswerCallbackFunc: method is nil but messenger.AnswerCallback was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CallbackID string
		Text       string
		Alert      bool
	}{Ctx: ctx, CallbackID: callbackID, Text: text, Alert: alert}
	mock.lockAnswerCallback.Lock()
	mock.calls.AnswerCallback = append(mock.calls.AnswerCallback, callInfo)
	mock.lockAnswerCallback.Unlock()
	return mock.AnswerCallbackFunc(ctx, callbackID, text, alert)
}

func (mock *messengerMock) AnswerCallbackCalls() []struct {
	Ctx        context.Context
	CallbackID string
	Text       string
	Alert      bool
} {
	mock.lockAnswerCallback.RLock()
	calls := mock.calls.AnswerCallback
	mock.lockAnswerCallback.RUnlock()
	return calls
}

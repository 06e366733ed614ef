package ctxutil

import (
	"context"
)

type ctxKey string

const (
	adminKey     ctxKey = "admin_subject"
	requestIDKey ctxKey = "request_id"
	tgUserIDKey  ctxKey = "tg_user_id"
)

// WithAdmin stores the authenticated admin subject in the context.
func WithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminKey, subject)
}

// AdminFromCtx extracts the admin subject from the context.
// Returns "" and false if the value is missing, empty, or wrong type.
func AdminFromCtx(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(adminKey).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// WithTelegramUserID stores the id of the Telegram user an update came from.
func WithTelegramUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tgUserIDKey, id)
}

// TelegramUserIDFromCtx extracts the Telegram user id.
// Returns 0 and false if absent.
func TelegramUserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tgUserIDKey).(int64)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

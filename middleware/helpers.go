package middleware

import (
	"context"
	"errors"
)

type contextKey string

const sessionContextKey contextKey = "session_id"

var ErrNoSession = errors.New("session not found in context")

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

func GetSessionIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(sessionContextKey).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/service"
)

type ctxKey string

const SessionKey ctxKey = "session"

// GetSession extracts the chat session snapshot from context.
func GetSession(ctx context.Context) *domain.Session {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	if !ok {
		return nil
	}
	return s
}

// WithSession stores a session snapshot in the context.
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionLoader returns middleware that loads the chat's session into context,
// creating it with defaults on first contact.
func SessionLoader(sessions *service.SessionService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID, _, _ := updateChat(update)
			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			sess, err := sessions.Get(ctx, chatID)
			if err != nil {
				slog.Error("load session", "chat_id", chatID, "error", err)
			} else {
				ctx = WithSession(ctx, sess)
			}

			next(ctx, b, update)
		}
	}
}

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/oilbot/internal/telegram"
)

// ErrorReporter receives recovered panics. It may be nil.
type ErrorReporter func(err error, where string)

// Recover returns middleware that recovers from handler panics, reports them
// and tells the user the command failed.
func Recover(report ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				chatID, _, kind := updateChat(update)
				slog.Error("panic recovered in handler",
					"panic", r,
					"chat_id", chatID,
					"stack", string(debug.Stack()),
				)
				if report != nil {
					report(fmt.Errorf("panic: %v", r), kind)
				}
				if chatID != 0 && b != nil {
					tg.SendText(ctx, b, chatID, "❌ Terjadi kesalahan internal. Coba lagi.")
				}
			}()
			next(ctx, b, update)
		}
	}
}

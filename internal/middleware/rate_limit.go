package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/oilbot/internal/telegram"
)

// RateLimiter counts messages per chat in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[int64]*rateWindow
	now     func() time.Time
}

type rateWindow struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[int64]*rateWindow),
		now:     time.Now,
	}
}

// Allow records one message for the chat and reports whether it is within the limit.
// A non-positive limit disables limiting.
func (r *RateLimiter) Allow(chatID int64) bool {
	if r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	w, ok := r.windows[chatID]
	if !ok || now.Sub(w.start) >= r.window {
		w = &rateWindow{start: now}
		r.windows[chatID] = w
	}
	w.count++
	return w.count <= r.limit
}

// Prune forgets windows that have already expired.
func (r *RateLimiter) Prune() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, w := range r.windows {
		if now.Sub(w.start) >= r.window {
			delete(r.windows, id)
		}
	}
}

// RateLimit returns middleware that enforces per-chat message limits.
func RateLimit(limiter *RateLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID, "limit", limiter.limit)
				tg.SendText(ctx, b, chatID, "⏳ Terlalu banyak permintaan. Tunggu sebentar.")
				return
			}

			next(ctx, b, update)
		}
	}
}

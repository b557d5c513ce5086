package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/middleware"
	"github.com/set-night/oilbot/internal/service"
	tg "github.com/set-night/oilbot/internal/telegram"
	"github.com/set-night/oilbot/internal/valuation"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot            *bot.Bot
	cfg            *config.Config
	sessionService *service.SessionService
	priceService   *service.PriceService
	calc           *valuation.Calculator
	audit          *tg.AuditLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot            *bot.Bot
	Cfg            *config.Config
	SessionService *service.SessionService
	PriceService   *service.PriceService
	Calculator     *valuation.Calculator
	Audit          *tg.AuditLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:            deps.Bot,
		cfg:            deps.Cfg,
		sessionService: deps.SessionService,
		priceService:   deps.PriceService,
		calc:           deps.Calculator,
		audit:          deps.Audit,
	}
}

// session returns the snapshot loaded by middleware, or loads it directly.
func (h *Handler) session(ctx context.Context, chatID int64) *domain.Session {
	if sess := middleware.GetSession(ctx); sess != nil {
		return sess
	}
	sess, err := h.sessionService.Get(ctx, chatID)
	if err != nil {
		slog.Error("load session", "chat_id", chatID, "error", err)
		return nil
	}
	return sess
}

// loggedInSession returns the session when the chat is logged in. Otherwise it
// tells the user to log in and returns nil.
func (h *Handler) loggedInSession(ctx context.Context, b *bot.Bot, chatID int64) *domain.Session {
	sess := h.session(ctx, chatID)
	if sess == nil {
		tg.SendText(ctx, b, chatID, msgInternalError)
		return nil
	}
	if !sess.LoggedIn {
		tg.SendText(ctx, b, chatID, msgLoginRequired)
		return nil
	}
	return sess
}

// replyError maps service errors to user messages.
func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error, where string) {
	var msg string
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		msg = msgLoginRequired
	case errors.Is(err, domain.ErrInvalidCredentials):
		msg = "❌ Username atau password salah."
	case errors.Is(err, domain.ErrEmptyBatch):
		msg = "⚠️ Tidak ada sampel valid untuk disimpan. Isi nama dan berat > 0."
	case errors.Is(err, domain.ErrBatchFull):
		msg = "⚠️ Batch penuh. Simpan (/save) atau kosongkan (/reset) terlebih dahulu."
	case errors.Is(err, domain.ErrEmptyHistory):
		msg = "📭 Riwayat masih kosong."
	default:
		msg = msgInternalError
		slog.Error(where, "chat_id", chatID, "error", err)
		h.audit.LogError(err, where)
	}
	tg.SendText(ctx, b, chatID, msg)
}

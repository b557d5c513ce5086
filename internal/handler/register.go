package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/oilbot/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
// Command names are chosen so that no command is a prefix of another.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, h.handleLogin)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypePrefix, h.handleLogout)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/price", bot.MatchTypePrefix, h.handlePrice)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/note", bot.MatchTypePrefix, h.handleNote)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mynotes", bot.MatchTypePrefix, h.handleMyNotes)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sample", bot.MatchTypePrefix, h.handleSample)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/batch", bot.MatchTypePrefix, h.handleBatch)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, h.handleReset)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/analysis", bot.MatchTypePrefix, h.handleAnalysis)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/chart", bot.MatchTypePrefix, h.handleChart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/save", bot.MatchTypePrefix, h.handleSave)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypePrefix, h.handleClear)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, h.handleExport)

	// Photos captioned with /sample
	h.bot.RegisterHandlerMatchFunc(isSamplePhoto, h.handleSamplePhoto)

	// History callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackHistoryClear, bot.MatchTypeExact, h.handleHistoryClearCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackHistoryExport, bot.MatchTypeExact, h.handleHistoryExportCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, callbackHistoryPage, bot.MatchTypePrefix, h.handleHistoryPageCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.NoopCallback, bot.MatchTypeExact, h.handleNoop)
}

// handleNoop acknowledges callbacks from non-interactive buttons such as the page indicator.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

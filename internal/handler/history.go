package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/service"
	tg "github.com/set-night/oilbot/internal/telegram"
	"github.com/set-night/oilbot/internal/valuation"
)

const (
	callbackHistoryClear  = "history_clear"
	callbackHistoryExport = "history_export"
	callbackHistoryPage   = "history_page_"
)

func (h *Handler) handleSave(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}

	quote := h.priceService.Current(ctx)
	saved, err := h.sessionService.SaveBatch(ctx, chatID, quote)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "save batch")
		return
	}

	usd, local := valuation.Totals(saved)
	h.audit.LogHistorySaved(chatID, sess.Username, len(saved), service.FormatUSD(usd))

	text := fmt.Sprintf("💾 %d sampel disimpan ke riwayat (%s · %s).", len(saved),
		service.FormatUSD(usd), service.FormatLocal(local, h.cfg.LocalCurrency))
	if !quote.Live {
		text = msgPriceFallback + "\n" + text
	}
	tg.SendText(ctx, b, chatID, text+"\nLihat /history.")
}

func historyKeyboard(page, totalPages int) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		tg.ButtonRow(
			tg.InlineButton("🗑 Hapus riwayat", callbackHistoryClear),
			tg.InlineButton("⬇️ Unduh CSV", callbackHistoryExport),
		),
	}
	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, callbackHistoryPage))
	}
	return tg.InlineKeyboard(rows...)
}

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}
	h.sendHistoryPage(ctx, b, chatID, sess, 0, 0)
}

// sendHistoryPage sends a page of history, or edits messageID in place when it is set.
func (h *Handler) sendHistoryPage(ctx context.Context, b *bot.Bot, chatID int64, sess *domain.Session, page, messageID int) {
	text, totalPages := renderHistoryPage(sess.History, page, h.cfg.LocalCurrency)
	if len(sess.History) == 0 {
		tg.SendText(ctx, b, chatID, text)
		return
	}
	page = min(max(page, 0), totalPages-1)
	keyboard := historyKeyboard(page, totalPages)

	if messageID != 0 {
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			slog.Warn("edit history page", "chat_id", chatID, "error", err)
		}
		return
	}

	if err := tg.SendLongMessage(ctx, b, chatID, text, keyboard); err != nil {
		h.replyError(ctx, b, chatID, err, "send history")
	}
}

func (h *Handler) handleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.clearHistory(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) clearHistory(ctx context.Context, b *bot.Bot, chatID int64) {
	if err := h.sessionService.ClearHistory(ctx, chatID); err != nil {
		h.replyError(ctx, b, chatID, err, "clear history")
		return
	}
	tg.SendText(ctx, b, chatID, "🗑 Riwayat dihapus.")
}

func (h *Handler) handleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.exportHistory(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) exportHistory(ctx context.Context, b *bot.Bot, chatID int64) {
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}
	if len(sess.History) == 0 {
		h.replyError(ctx, b, chatID, domain.ErrEmptyHistory, "export history")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteHistoryCSV(&buf, sess.History, h.cfg.LocalCurrency); err != nil {
		h.replyError(ctx, b, chatID, err, "write history csv")
		return
	}

	caption := fmt.Sprintf("📄 Riwayat %d sampel", len(sess.History))
	if err := tg.SendDocument(ctx, b, chatID, config.HistoryExportFilename, buf.Bytes(), caption); err != nil {
		h.replyError(ctx, b, chatID, err, "send history csv")
	}
}

// callbackChat acknowledges the callback and returns its chat and message.
func callbackChat(ctx context.Context, b *bot.Bot, update *models.Update) (chatID int64, messageID int, ok bool) {
	cq := update.CallbackQuery
	if cq == nil {
		return 0, 0, false
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	msg := cq.Message.Message
	if msg == nil {
		return 0, 0, false
	}
	return msg.Chat.ID, msg.ID, true
}

func (h *Handler) handleHistoryClearCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, _, ok := callbackChat(ctx, b, update)
	if !ok {
		return
	}
	h.clearHistory(ctx, b, chatID)
}

func (h *Handler) handleHistoryExportCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, _, ok := callbackChat(ctx, b, update)
	if !ok {
		return
	}
	h.exportHistory(ctx, b, chatID)
}

func (h *Handler) handleHistoryPageCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackChat(ctx, b, update)
	if !ok {
		return
	}

	page, err := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, callbackHistoryPage))
	if err != nil {
		return
	}

	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}
	h.sendHistoryPage(ctx, b, chatID, sess, page, messageID)
}

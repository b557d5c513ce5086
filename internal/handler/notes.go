package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/oilbot/internal/telegram"
)

func (h *Handler) handleNote(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	note := commandArgs(update.Message.Text)
	if note == "" {
		tg.SendText(ctx, b, chatID, "Gunakan: /note <teks catatan>")
		return
	}

	if err := h.sessionService.SaveNote(ctx, chatID, note); err != nil {
		h.replyError(ctx, b, chatID, err, "save note")
		return
	}
	tg.SendText(ctx, b, chatID, "📝 Catatan disimpan.")
}

func (h *Handler) handleMyNotes(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}

	if sess.Notes == "" {
		tg.SendText(ctx, b, chatID, "📭 Belum ada catatan.")
		return
	}
	// notes are user text, sent without markdown
	tg.SendText(ctx, b, chatID, "📝 Catatan:\n\n"+sess.Notes)
}

package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/oilbot/internal/telegram"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := welcomeText
	if sess := h.session(ctx, chatID); sess != nil && sess.LoggedIn {
		text += fmt.Sprintf("\n\n✅ Masuk sebagai *%s*", tg.EscapeMarkdown(sess.Username))
	} else {
		text += "\n\n🔒 Belum login."
	}

	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		h.replyError(ctx, b, chatID, err, "send welcome")
	}
}

func (h *Handler) handleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	parts := strings.Fields(commandArgs(update.Message.Text))
	if len(parts) != 2 {
		tg.SendText(ctx, b, chatID, "Gunakan: /login <username> <password>")
		return
	}

	username := parts[0]
	err := h.sessionService.Login(ctx, chatID, username, parts[1])
	h.audit.LogLogin(chatID, username, err == nil)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "login")
		return
	}

	tg.SendText(ctx, b, chatID, fmt.Sprintf("✅ Login berhasil. Selamat datang, %s!", username))
}

func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if err := h.sessionService.Logout(ctx, chatID); err != nil {
		h.replyError(ctx, b, chatID, err, "logout")
		return
	}
	tg.SendText(ctx, b, chatID, "👋 Anda telah logout.")
}

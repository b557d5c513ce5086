package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/oilbot/internal/domain"
	tg "github.com/set-night/oilbot/internal/telegram"
	"github.com/set-night/oilbot/internal/valuation"
)

// isSamplePhoto matches photos captioned with the /sample command.
func isSamplePhoto(update *models.Update) bool {
	if update.Message == nil || len(update.Message.Photo) == 0 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(update.Message.Caption), "/sample")
}

func (h *Handler) handleSample(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.addSample(ctx, b, update.Message.Chat.ID, update.Message.Text, "")
}

func (h *Handler) handleSamplePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || len(update.Message.Photo) == 0 {
		return
	}
	// the last size is the largest
	photo := update.Message.Photo[len(update.Message.Photo)-1]
	h.addSample(ctx, b, update.Message.Chat.ID, update.Message.Caption, photo.FileID)
}

func (h *Handler) addSample(ctx context.Context, b *bot.Bot, chatID int64, text, photoFileID string) {
	if h.loggedInSession(ctx, b, chatID) == nil {
		return
	}

	args := commandArgs(text)
	if args == "" {
		tg.SendText(ctx, b, chatID, msgSampleUsage)
		return
	}

	sample, err := ParseSample(args)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrOutOfRange):
			msg = "❌ Nilai di luar batas (API 0-100, sulfur 0-100, berat ≥ 0): "
		case errors.Is(err, domain.ErrInvalidNumber):
			msg = "❌ Angka tidak valid: "
		default:
			msg = "❌ Kolom tidak dikenal: "
		}
		tg.SendText(ctx, b, chatID, msg+errDetail(err)+"\n\n"+msgSampleUsage)
		return
	}
	sample.PhotoFileID = photoFileID

	sess, err := h.sessionService.AddSample(ctx, chatID, sample)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "add sample")
		return
	}

	reply := fmt.Sprintf("✅ Sampel #%d ditambahkan.", len(sess.Draft))
	if !valuation.Accepted(sample) {
		reply += " ⚠️ Sampel tanpa nama atau berat 0 tidak akan dihitung."
	}
	tg.SendText(ctx, b, chatID, reply+"\nLihat /batch atau /analysis.")
}

// errDetail drops the sentinel prefix from a wrapped parse error.
func errDetail(err error) string {
	_, detail, ok := strings.Cut(err.Error(), ": ")
	if !ok {
		return err.Error()
	}
	return detail
}

func (h *Handler) handleBatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}

	if err := tg.SendLongMessage(ctx, b, chatID, renderBatch(sess.Draft), nil); err != nil {
		h.replyError(ctx, b, chatID, err, "send batch")
	}
}

func (h *Handler) handleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if err := h.sessionService.ResetBatch(ctx, chatID); err != nil {
		h.replyError(ctx, b, chatID, err, "reset batch")
		return
	}
	tg.SendText(ctx, b, chatID, "🧹 Input sampel dikosongkan.")
}

package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/oilbot/internal/service"
	tg "github.com/set-night/oilbot/internal/telegram"
)

func (h *Handler) handlePrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	quote := h.priceService.Current(ctx)
	text := renderPrice(quote, h.priceService.Ticker(), h.calc.ExchangeRate(), h.cfg.LocalCurrency)
	if err := tg.SendLongMessage(ctx, b, chatID, text, nil); err != nil {
		h.replyError(ctx, b, chatID, err, "send price")
	}
}

func (h *Handler) handleAnalysis(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}

	quote := h.priceService.Current(ctx)
	assessments := h.sessionService.Evaluate(sess, quote)
	if err := tg.SendLongMessage(ctx, b, chatID, renderAnalysis(assessments, quote, h.cfg.LocalCurrency), nil); err != nil {
		h.replyError(ctx, b, chatID, err, "send analysis")
		return
	}

	for i := range assessments {
		a := &assessments[i]
		if a.PhotoFileID == "" {
			continue
		}
		if err := tg.SendStoredPhoto(ctx, b, chatID, a.PhotoFileID, photoCaption(a, h.cfg.LocalCurrency)); err != nil {
			slog.Warn("send sample photo", "chat_id", chatID, "sample", a.Name, "error", err)
		}
	}
}

func (h *Handler) handleChart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess := h.loggedInSession(ctx, b, chatID)
	if sess == nil {
		return
	}

	quote := h.priceService.Current(ctx)
	assessments := h.sessionService.Evaluate(sess, quote)
	if len(assessments) == 0 {
		tg.SendText(ctx, b, chatID, "📭 Tidak ada sampel valid untuk grafik.")
		return
	}
	if !quote.Live {
		tg.SendText(ctx, b, chatID, msgPriceFallback)
	}

	charts := []struct {
		metric   service.ChartMetric
		filename string
		caption  string
	}{
		{service.ChartUSD, "nilai_usd.png", "📈 Estimasi nilai per sampel (USD)"},
		{service.ChartLocal, "nilai_lokal.png", fmt.Sprintf("📈 Estimasi nilai per sampel (%s)", h.cfg.LocalCurrency)},
	}
	for _, c := range charts {
		png, err := service.RenderValueChart(assessments, c.metric, h.cfg.LocalCurrency)
		if err != nil {
			h.replyError(ctx, b, chatID, err, "render chart")
			return
		}
		if err := tg.SendPNG(ctx, b, chatID, c.filename, png, c.caption); err != nil {
			h.replyError(ctx, b, chatID, err, "send chart")
			return
		}
	}
}

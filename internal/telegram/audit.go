package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/oilbot/internal/config"
)

// AuditLogger mirrors notable events into a Telegram chat with forum topics.
// It is a no-op when LOG_TELEGRAM_CHAT_ID is unset.
type AuditLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewAuditLogger(b *bot.Bot, cfg *config.Config) *AuditLogger {
	return &AuditLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError   LogType = "error"
	LogTypeAuth    LogType = "auth"
	LogTypeHistory LogType = "history"
)

func (l *AuditLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.topicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send audit log", "type", logType, "error", err)
	}
}

func (l *AuditLogger) LogError(err error, where string) {
	l.Log(LogTypeError, fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		where, err.Error(), time.Now().Format("2006-01-02 15:04:05")))
}

func (l *AuditLogger) LogLogin(chatID int64, username string, ok bool) {
	status := "✅ success"
	if !ok {
		status = "⛔ rejected"
	}
	l.Log(LogTypeAuth, fmt.Sprintf("🔐 Login %s\n\nChat: %d\nUsername: %s", status, chatID, username))
}

func (l *AuditLogger) LogHistorySaved(chatID int64, username string, count int, totalUSD string) {
	l.Log(LogTypeHistory, fmt.Sprintf("💾 History saved\n\nChat: %d\nUser: %s\nSamples: %d\nTotal: %s",
		chatID, username, count, totalUSD))
}

func (l *AuditLogger) topicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeAuth:
		return l.cfg.LogTopicAuth
	case LogTypeHistory:
		return l.cfg.LogTopicHistory
	default:
		return 0
	}
}

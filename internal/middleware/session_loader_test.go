package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/domain"
	"github.com/set-night/oilbot/internal/repository"
	"github.com/set-night/oilbot/internal/service"
	"github.com/set-night/oilbot/internal/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions() *service.SessionService {
	cfg := &config.Config{AuthUsername: "admin", AuthPassword: "1234", SessionTTL: time.Hour}
	return service.NewSessionService(repository.NewMemoryStore(), valuation.NewCalculator(decimal.NewFromInt(16000)), cfg)
}

func TestSessionLoaderPutsSessionInContext(t *testing.T) {
	sessions := newSessions()
	var got *domain.Session

	handler := SessionLoader(sessions)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		got = GetSession(ctx)
	})
	handler(context.Background(), nil, &models.Update{
		Message: &models.Message{Chat: models.Chat{ID: 99}, Text: "/start"},
	})

	require.NotNil(t, got)
	assert.Equal(t, int64(99), got.ChatID)
	assert.False(t, got.LoggedIn)
}

func TestSessionLoaderCallbackQuery(t *testing.T) {
	sessions := newSessions()
	require.NoError(t, sessions.Login(context.Background(), 5, "admin", "1234"))
	var got *domain.Session

	handler := SessionLoader(sessions)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		got = GetSession(ctx)
	})
	handler(context.Background(), nil, &models.Update{
		CallbackQuery: &models.CallbackQuery{
			From:    models.User{ID: 1},
			Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 5}}},
		},
	})

	require.NotNil(t, got)
	assert.True(t, got.LoggedIn)
}

func TestSessionLoaderWithoutChat(t *testing.T) {
	called := false
	handler := SessionLoader(newSessions())(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
		assert.Nil(t, GetSession(ctx))
	})
	handler(context.Background(), nil, &models.Update{})

	assert.True(t, called)
}

func TestRecoverSwallowsPanic(t *testing.T) {
	handler := Recover(nil)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		handler(context.Background(), nil, &models.Update{Message: &models.Message{Chat: models.Chat{ID: 1}}})
	})
}

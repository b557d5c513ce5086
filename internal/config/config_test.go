package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.AuthUsername)
	assert.Equal(t, "1234", cfg.AuthPassword)
	assert.Equal(t, "CL=F", cfg.PriceTicker)
	assert.Equal(t, []string{"chart"}, cfg.PriceSources)
	assert.Equal(t, time.Duration(0), cfg.PriceCacheTTL)
	assert.Equal(t, 75.0, cfg.FallbackPrice)
	assert.Equal(t, 16000.0, cfg.ExchangeRate)
	assert.Equal(t, "IDR", cfg.LocalCurrency)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "75", cfg.FallbackPriceDecimal().String())
	assert.Equal(t, "16000", cfg.ExchangeRateDecimal().String())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadRequiresTokenPresent(t *testing.T) {
	t.Setenv("BOT_TOKEN", "x")
	os.Unsetenv("BOT_TOKEN")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PRICE_SOURCES", "page,chart")
	t.Setenv("EXCHANGE_RATE", "15500.5")
	t.Setenv("LOCAL_CURRENCY", "EUR")
	t.Setenv("PRICE_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"page", "chart"}, cfg.PriceSources)
	assert.Equal(t, 15500.5, cfg.ExchangeRate)
	assert.Equal(t, "EUR", cfg.LocalCurrency)
	assert.Equal(t, 30*time.Second, cfg.PriceCacheTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	t.Run("unknown source", func(t *testing.T) {
		t.Setenv("PRICE_SOURCES", "bloomberg")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown price source")
	})

	t.Run("zero fallback", func(t *testing.T) {
		t.Setenv("FALLBACK_PRICE", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "FALLBACK_PRICE")
	})

	t.Run("negative rate", func(t *testing.T) {
		t.Setenv("EXCHANGE_RATE", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "EXCHANGE_RATE")
	})
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}

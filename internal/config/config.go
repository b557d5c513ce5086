package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Login (single shared account, not real security)
	AuthUsername string `env:"AUTH_USERNAME" envDefault:"admin"`
	AuthPassword string `env:"AUTH_PASSWORD" envDefault:"1234"`

	// Price feed
	PriceTicker   string        `env:"PRICE_TICKER" envDefault:"CL=F"`
	PriceSources  []string      `env:"PRICE_SOURCES" envSeparator:"," envDefault:"chart"`
	PriceCacheTTL time.Duration `env:"PRICE_CACHE_TTL" envDefault:"0s"`
	PriceTimeout  time.Duration `env:"PRICE_TIMEOUT" envDefault:"15s"`
	ChartURL      string        `env:"PRICE_CHART_URL" envDefault:"https://query1.finance.yahoo.com/v8/finance/chart"`
	QuotePageURL  string        `env:"PRICE_QUOTE_URL" envDefault:"https://finance.yahoo.com/quote"`

	// Valuation
	FallbackPrice float64 `env:"FALLBACK_PRICE" envDefault:"75.0"`
	ExchangeRate  float64 `env:"EXCHANGE_RATE" envDefault:"16000"`
	LocalCurrency string  `env:"LOCAL_CURRENCY" envDefault:"IDR"`

	// Sessions
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Bot behavior
	DropPendingUpdates bool   `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicAuth      int   `env:"LOG_TOPIC_AUTH"`
	LogTopicHistory   int   `env:"LOG_TOPIC_HISTORY"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FallbackPrice <= 0 {
		return fmt.Errorf("FALLBACK_PRICE must be positive, got %v", c.FallbackPrice)
	}
	if c.ExchangeRate <= 0 {
		return fmt.Errorf("EXCHANGE_RATE must be positive, got %v", c.ExchangeRate)
	}
	for _, src := range c.PriceSources {
		switch strings.TrimSpace(src) {
		case PriceSourceChart, PriceSourceQuotePage:
		default:
			return fmt.Errorf("unknown price source %q", src)
		}
	}
	return nil
}

// FallbackPriceDecimal returns the price used when no live quote is available.
func (c *Config) FallbackPriceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FallbackPrice)
}

// ExchangeRateDecimal returns the fixed USD to local currency multiplier.
func (c *Config) ExchangeRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.ExchangeRate)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	oilbot "github.com/set-night/oilbot"
	"github.com/set-night/oilbot/internal/config"
	"github.com/set-night/oilbot/internal/handler"
	"github.com/set-night/oilbot/internal/middleware"
	"github.com/set-night/oilbot/internal/repository"
	"github.com/set-night/oilbot/internal/service"
	"github.com/set-night/oilbot/internal/telegram"
	"github.com/set-night/oilbot/internal/valuation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Initialize services
	calc := valuation.NewCalculator(cfg.ExchangeRateDecimal())
	sessionService := service.NewSessionService(store, calc, cfg)
	priceService := service.NewPriceServiceFromConfig(cfg)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, config.RateLimitWindow)

	// Assigned once the bot exists; LogError is safe on nil.
	var audit *telegram.AuditLogger

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(err error, where string) { audit.LogError(err, where) }),
			middleware.Logging(),
			middleware.RateLimit(limiter),
			middleware.SessionLoader(sessionService),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Warn("failed to drop pending updates", "error", err)
		}
	}

	audit = telegram.NewAuditLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:            b,
		Cfg:            cfg,
		SessionService: sessionService,
		PriceService:   priceService,
		Calculator:     calc,
		Audit:          audit,
	})

	// Register all handlers
	h.Register()

	// Start idle session cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.SessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := sessionService.SweepIdle(context.Background())
				if err != nil {
					slog.Error("sweep idle sessions", "error", err)
				} else if n > 0 {
					slog.Info("idle sessions expired", "count", n)
				}
				limiter.Prune()
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "ticker", cfg.PriceTicker)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

// openStore picks Postgres when DATABASE_URL is set and the in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config) (repository.SessionStore, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using in-memory session store")
		return repository.NewMemoryStore(), func() {}, nil
	}

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations
	migrationsFS, err := fs.Sub(oilbot.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		pool.Close()
		return nil, nil, err
	}

	slog.Info("using postgres session store")
	return repository.NewPostgresStore(pool), pool.Close, nil
}

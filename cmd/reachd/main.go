package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/reachkit/reachkit/internal/assistant"
	"github.com/reachkit/reachkit/internal/config"
	"github.com/reachkit/reachkit/internal/database"
	"github.com/reachkit/reachkit/internal/gateway"
	"github.com/reachkit/reachkit/internal/intent"
	"github.com/reachkit/reachkit/internal/outreach"
	"github.com/reachkit/reachkit/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting outreach engine")

	// Connect to database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations completed")

	// Create components
	gw := gateway.NewClient(gateway.Config{
		Domain: cfg.GatewayDomain,
		APIKey: cfg.GatewayAPIKey,
	})

	engine := outreach.New(outreach.Deps{
		DB:            db,
		Gateway:       gw,
		Logger:        logger,
		ChatScanLimit: cfg.ChatScanLimit,
	})

	classifier := intent.NewClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	if cfg.LLMEnabled() {
		logger.Info("LLM intent classification enabled", "model", cfg.OpenAIModel)
	}

	dispatcher := assistant.New(db, engine, logger)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("received shutdown signal", "signal", sig)
		logger.Info("shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup

	// Background loops
	wg.Add(2)
	go func() {
		defer wg.Done()
		runOutreachLoop(ctx, db, engine, cfg.OutreachInterval, logger)
	}()
	go func() {
		defer wg.Done()
		runSyncLoop(ctx, db, engine, cfg.SyncInterval, logger)
	}()

	// Telegram chat surface (optional)
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(telegram.BotDeps{
			Token:      cfg.TelegramToken,
			DB:         db,
			Classifier: classifier,
			Dispatcher: dispatcher,
			Logger:     logger,
		})
		if err != nil {
			logger.Error("failed to create telegram bot", "error", err)
			os.Exit(1)
		}

		logger.Info("engine is running, press Ctrl+C to stop")
		bot.Start(ctx)
	} else {
		logger.Info("engine is running (no chat surface), press Ctrl+C to stop")
		<-ctx.Done()
	}

	wg.Wait()
	logger.Info("engine stopped")
}

// runOutreachLoop runs the campaign pipeline and the pending-action expiry
// sweep on a fixed interval. Campaigns are processed sequentially, one run
// per campaign per tick.
func runOutreachLoop(ctx context.Context, db *database.DB, engine *outreach.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if expired, err := engine.ExpirePendingActions(ctx); err != nil {
			logger.Warn("failed to expire pending actions", "error", err)
		} else if expired > 0 {
			logger.Info("expired pending actions", "count", expired)
		}

		campaigns, err := db.GetActiveCampaigns(ctx)
		if err != nil {
			logger.Error("failed to load active campaigns", "error", err)
			continue
		}
		for _, campaign := range campaigns {
			engine.RunOutreachCycle(ctx, campaign.ID)
		}
	}
}

// runSyncLoop reconciles every active account on a fixed interval, between
// outreach cycles, so accepted connections and replies show up promptly
func runSyncLoop(ctx context.Context, db *database.DB, engine *outreach.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		accounts, err := db.GetActiveAccounts(ctx)
		if err != nil {
			logger.Error("failed to load active accounts", "error", err)
			continue
		}
		for _, account := range accounts {
			engine.RunSync(ctx, account.ID)
		}
	}
}

func setupLogger(level, format string) *slog.Logger {
	var handler slog.Handler
	logLevel := parseLevel(level)

	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		// Pretty colored output for console
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    false,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

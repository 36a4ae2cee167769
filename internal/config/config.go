package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/reachkit.db"`

	// Messaging platform gateway
	GatewayAPIKey string `env:"GATEWAY_API_KEY,required"`
	GatewayDomain string `env:"GATEWAY_DOMAIN,required"` // e.g., api1.example-provider.com

	// LLM intent classification (optional; keyword fallback used when unset)
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Telegram chat surface (optional)
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Background loops
	OutreachInterval time.Duration `env:"OUTREACH_INTERVAL" envDefault:"1h"`
	SyncInterval     time.Duration `env:"SYNC_INTERVAL" envDefault:"15m"`
	ChatScanLimit    int           `env:"CHAT_SCAN_LIMIT" envDefault:"50"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// LLMEnabled returns true if LLM intent classification is configured
func (c *Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// TelegramEnabled returns true if the Telegram chat surface is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.OutreachInterval < time.Minute {
		return nil, fmt.Errorf("OUTREACH_INTERVAL must be at least 1m, got %s", cfg.OutreachInterval)
	}
	if cfg.SyncInterval < time.Minute {
		return nil, fmt.Errorf("SYNC_INTERVAL must be at least 1m, got %s", cfg.SyncInterval)
	}

	return cfg, nil
}

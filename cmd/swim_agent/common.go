package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/family-swim-sf/internal/cache"
	"github.com/jonathan/family-swim-sf/internal/config"
	"github.com/jonathan/family-swim-sf/internal/db"
	"github.com/jonathan/family-swim-sf/internal/oracle"
)

// loadConfig loads the optional config file, merges the built-in defaults,
// applies environment fallbacks, and validates the result.
func loadConfig(configPath string) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// timeNow returns the current time in the configured civic timezone.
func timeNow(cfg config.Config) time.Time {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// newOracle builds the Gemini oracle from config.
func newOracle(ctx context.Context, cfg config.Config) (*oracle.GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set GEMINI_API_KEY or api_key in config")
	}
	return oracle.NewGeminiOracle(ctx, oracle.DefaultConfig(), cfg.APIKey)
}

// newStore opens the database-backed cache when a database is configured,
// and falls back to an in-memory store otherwise. The returned closer is
// always safe to call.
func newStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		if cfg.Verbose {
			fmt.Println("No database configured; using in-memory cache")
		}
		return cache.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("Warning: failed to connect to database: %v\n", err)
		fmt.Println("Continuing with in-memory cache...")
		return cache.NewMemoryStore(), func() {}, nil
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, database.Close, nil
}

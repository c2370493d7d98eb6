// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/PoojithGuntaka/CivicConnect/llm"
	_ "github.com/PoojithGuntaka/CivicConnect/llm/providers" // Register providers
)

// Defaults
const (
	DefaultPort             = 3318
	DefaultModelProvider    = "gemini"
	DefaultModelName        = "gemini-2.5-flash"
	DefaultModelTimeout     = 60 * time.Second
	DefaultMaxConversations = 1000

	// DevSessionSalt signs session tokens when SESSION_SALT is unset.
	DevSessionSalt = "civicconnect-dev-salt"
)

type Config struct {
	Port int

	ModelProvider string
	ModelName     string
	ModelBaseURL  string // empty uses the provider default
	APIKey        string // may be empty; model calls then fall back
	ModelTimeout  time.Duration

	SessionSalt      string
	UsingDevSalt     bool
	SeedPath         string // empty uses the embedded seed
	RedisURL         string // empty keeps the sentiment cache in memory
	SentimentTTL     time.Duration
	LogLevel         slog.Level
	MaxConversations int
}

// ParseFlags reads flags, then a .env file, then environment variables.
// Flags take precedence over the environment; .env never overrides
// variables that are already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, logLevel, timeout, ttl string

	fs := flag.NewFlagSet("civicconnect", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&envFile, "env-file", ".env", "Dotenv file to load if present")

	fs.StringVar(&cfg.ModelProvider, "provider", "", "Model provider (gemini or openai)")
	fs.StringVar(&cfg.ModelName, "model", "", "Model name")
	fs.StringVar(&cfg.ModelBaseURL, "model-url", "", "Model API base URL")
	fs.StringVar(&timeout, "model-timeout", "", "Model request timeout, e.g. 30s")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.APIKey, "api-key", "", "Model API key (prefer env)")
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")

	fs.StringVar(&cfg.SeedPath, "seed", "", "Seed data YAML file")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the sentiment cache")
	fs.StringVar(&ttl, "sentiment-ttl", "", "Sentiment cache TTL (0 keeps until cleared)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.MaxConversations, "max-conversations", 0, "Maximum live chat conversations")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		port, err := envInt("PORT", DefaultPort)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}

	cfg.ModelProvider = firstNonEmpty(cfg.ModelProvider, os.Getenv("MODEL_PROVIDER"), DefaultModelProvider)
	if available := llm.ListProviders(); !slices.Contains(available, cfg.ModelProvider) {
		return Config{}, fmt.Errorf("unknown MODEL_PROVIDER %q (available: %s)", cfg.ModelProvider, strings.Join(available, ", "))
	}
	cfg.ModelName = firstNonEmpty(cfg.ModelName, os.Getenv("MODEL_NAME"), DefaultModelName)
	cfg.ModelBaseURL = firstNonEmpty(cfg.ModelBaseURL, os.Getenv("MODEL_BASE_URL"))
	cfg.APIKey = firstNonEmpty(cfg.APIKey, os.Getenv("API_KEY"), os.Getenv("GEMINI_API_KEY"))

	var err error
	cfg.ModelTimeout, err = parseDuration("MODEL_TIMEOUT", firstNonEmpty(timeout, os.Getenv("MODEL_TIMEOUT")), DefaultModelTimeout)
	if err != nil {
		return Config{}, err
	}
	if cfg.ModelTimeout <= 0 {
		return Config{}, errors.New("MODEL_TIMEOUT must be positive")
	}

	cfg.SessionSalt = firstNonEmpty(cfg.SessionSalt, os.Getenv("SESSION_SALT"))
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = DevSessionSalt
		cfg.UsingDevSalt = true
	}

	cfg.SeedPath = firstNonEmpty(cfg.SeedPath, os.Getenv("SEED_PATH"))
	cfg.RedisURL = firstNonEmpty(cfg.RedisURL, os.Getenv("REDIS_URL"))

	cfg.SentimentTTL, err = parseDuration("SENTIMENT_CACHE_TTL", firstNonEmpty(ttl, os.Getenv("SENTIMENT_CACHE_TTL")), 0)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(firstNonEmpty(logLevel, os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.MaxConversations == 0 {
		cfg.MaxConversations, err = envInt("MAX_CONVERSATIONS", DefaultMaxConversations)
		if err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func parseDuration(name, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port  int
	Debug bool

	// Logging
	LogFormat string // text, json

	// Store backing: memory, sqlite, postgres
	StoreBackend string
	SQLitePath   string
	DatabaseURL  string

	// Events (RabbitMQ); empty disables the pipeline
	EventsURL string

	// LLM
	LLMProvider string // openrouter, ollama
	LLMAPIKey   string
	LLMModel    string
	LLMBaseURL  string
	LLMTimeout  time.Duration
	OllamaURL   string

	// Rate gate for LLM-backed endpoints
	RateLimit       int
	RateWindow      time.Duration
	RateLimitEnable bool

	// Session
	SessionMaxAge int // seconds

	// Daily challenges
	ChallengesPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		Debug:           getEnvBool("DEBUG", false),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		SQLitePath:      getEnv("SQLITE_PATH", "learnforge.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		EventsURL:       getEnv("EVENTS_URL", ""),
		LLMProvider:     getEnv("LLM_PROVIDER", "openrouter"),
		LLMAPIKey:       getEnv("OPENROUTER_API_KEY", ""),
		LLMModel:        getEnv("LLM_MODEL", "openai/gpt-3.5-turbo"),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 90*time.Second),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		RateLimit:       getEnvInt("RATE_LIMIT", 30),
		RateWindow:      getEnvDuration("RATE_WINDOW", time.Minute),
		RateLimitEnable: getEnvBool("RATE_LIMIT_ENABLE", true),
		SessionMaxAge:   getEnvInt("SESSION_MAX_AGE", 86400*7), // 7 days
		ChallengesPath:  getEnv("CHALLENGES_PATH", ""),
	}

	switch cfg.StoreBackend {
	case "memory", "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set for the postgres backend")
	}

	if cfg.RateLimit <= 0 || cfg.RateWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT and RATE_WINDOW must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

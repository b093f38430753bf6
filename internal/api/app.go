// Package api wires the application together and serves the HTTP API.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/learnforge/learnforge/internal/auth"
	"github.com/learnforge/learnforge/internal/challenge"
	"github.com/learnforge/learnforge/internal/config"
	"github.com/learnforge/learnforge/internal/events"
	"github.com/learnforge/learnforge/internal/llm"
	"github.com/learnforge/learnforge/internal/quiz"
	"github.com/learnforge/learnforge/internal/review"
	"github.com/learnforge/learnforge/internal/store"
	"github.com/learnforge/learnforge/internal/store/memory"
	"github.com/learnforge/learnforge/internal/store/postgres"
	"github.com/learnforge/learnforge/internal/store/sqlite"
	"github.com/learnforge/learnforge/internal/viva"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Store  store.Store
	Auth   *auth.Service
	LLM    *llm.Registry

	// LLMConfigured reports whether a usable provider credential is
	// present. When false the generation handlers refuse with 503
	// before any outbound call.
	LLMConfigured bool

	Quiz      *quiz.Service
	Review    *review.Service
	Viva      *viva.Service
	Challenge *challenge.Service
	Events    events.Publisher

	eventsConn *events.Connection
	consumer   *events.Consumer
}

// NewApp creates a new application instance with all dependencies wired
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Events: events.NoopPublisher{},
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = st

	app.Auth = auth.NewService(st, time.Duration(cfg.SessionMaxAge)*time.Second)

	// LLM providers
	app.LLM = llm.NewRegistry()
	app.LLMConfigured, err = initLLMProviders(app.LLM, cfg)
	if err != nil {
		return nil, fmt.Errorf("init LLM providers: %w", err)
	}

	app.Quiz = quiz.NewService(app.LLM)
	app.Review = review.NewService(app.LLM)
	app.Viva = viva.NewService(app.LLM, slog.Default())

	app.Challenge, err = challenge.NewService(cfg.ChallengesPath)
	if err != nil {
		return nil, fmt.Errorf("load challenge pack: %w", err)
	}

	// Optional activity pipeline
	if cfg.EventsURL != "" {
		conn, err := events.NewConnection(cfg.EventsURL)
		if err != nil {
			return nil, fmt.Errorf("connect event broker: %w", err)
		}
		app.eventsConn = conn
		app.Events = events.NewProducer(conn)

		app.consumer = events.NewConsumer(conn, st, st)
		if err := app.consumer.Start(ctx); err != nil {
			return nil, fmt.Errorf("start activity consumer: %w", err)
		}
	}

	return app, nil
}

// backing is what every store implementation provides: the record stores
// plus the auth repository.
type backing interface {
	store.Store
	auth.Repository
}

func openStore(ctx context.Context, cfg *config.Config) (backing, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite store: %w", err)
		}
		return sqlite.NewStore(db), nil

	case "postgres":
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return postgres.NewStore(pool), nil

	default:
		return memory.NewStore(), nil
	}
}

// initLLMProviders sets up LLM providers based on configuration. It
// reports whether a usable provider is registered: openrouter without an
// API key leaves the registry empty so handlers fail fast.
func initLLMProviders(registry *llm.Registry, cfg *config.Config) (bool, error) {
	switch cfg.LLMProvider {
	case "openrouter":
		if cfg.LLMAPIKey == "" {
			slog.Warn("OPENROUTER_API_KEY not set, generation endpoints disabled")
			return false, nil
		}
		provider := llm.NewOpenRouterProvider(llm.OpenRouterConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
		resilientCfg := llm.DefaultResilientConfig()
		resilientCfg.Logger = slog.Default()
		registry.Register("openrouter", llm.NewResilientProvider(provider, resilientCfg))
		registry.SetDefault("openrouter")
		return true, nil

	case "ollama":
		model := cfg.LLMModel
		if model == "openai/gpt-3.5-turbo" {
			// The openrouter default makes no sense for a local model
			model = "llama3.2:latest"
		}
		provider := llm.NewOllamaProvider(llm.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   model,
			Timeout: cfg.LLMTimeout,
		})
		registry.Register("ollama", provider)
		registry.SetDefault("ollama")
		return true, nil

	default:
		return false, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.consumer != nil {
		a.consumer.Stop()
	}
	if a.eventsConn != nil {
		a.eventsConn.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Package app builds the service graph shared by the HTTP server and the
// MCP tool server.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"whattoeat/internal/auth"
	"whattoeat/internal/config"
	"whattoeat/internal/imagesearch"
	"whattoeat/internal/llm"
	"whattoeat/internal/logging"
	"whattoeat/internal/places"
	"whattoeat/internal/recommend"
	"whattoeat/internal/session"
	"whattoeat/internal/storage"
)

type App struct {
	Config      *config.Config
	Store       storage.Store
	Recorder    storage.Recorder
	Sessions    *session.MemoryStore
	Sweeper     *session.Sweeper
	Recommender *recommend.Service
	Places      *places.Client
	Tokens      *auth.JWTManager
	Auth        *auth.Service
}

// New wires every component from cfg. The caller owns Close.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	var rec storage.Recorder
	if cfg.EventLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.EventLogPath)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.EventLogPath).Msg("failed to init event recorder")
		} else {
			rec = fr
		}
	}

	client, err := llm.NewFactory(cfg).CreateClient(cfg.LLMProvider, cfg.OpenAIModel)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	provider := recommend.NewLLMProvider(client, readSystemPrompt(cfg.SystemPromptPath))

	images, err := imagesearch.New(ctx, cfg.CustomSearchAPIKey, cfg.CustomSearchEngine)
	if err != nil {
		store.Close()
		return nil, err
	}
	if cfg.CustomSearchAPIKey == "" || cfg.CustomSearchEngine == "" {
		logging.Warn().Msg("custom search credentials missing, food images use the fallback")
	}

	placesClient, err := places.New(ctx, cfg.PlacesAPIKey, cfg.ImageFallbackURL)
	if err != nil {
		store.Close()
		return nil, err
	}

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		store.Close()
		return nil, err
	}

	sessions := session.NewMemoryStore(
		session.WithDeclinedCap(cfg.DeclinedCap),
		session.WithMaxSessions(cfg.MaxSessions),
	)

	return &App{
		Config:   cfg,
		Store:    store,
		Recorder: rec,
		Sessions: sessions,
		Sweeper:  session.NewSweeper(sessions, store, cfg.SessionIdleTimeout, cfg.ProviderTimeout),
		Recommender: recommend.NewService(recommend.Deps{
			Sessions:      sessions,
			History:       store,
			Provider:      provider,
			Images:        images,
			Recorder:      rec,
			FallbackImage: cfg.ImageFallbackURL,
			Timeout:       cfg.ProviderTimeout,
		}),
		Places: placesClient,
		Tokens: tokens,
		Auth:   auth.NewService(store, tokens),
	}, nil
}

// Close runs a last sweep so pending recommendations reach durable history,
// then closes the store.
func (a *App) Close(ctx context.Context) error {
	a.Sweeper.Flush(ctx)
	return a.Store.Close()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageFile:
		s, err := storage.NewFileStore(cfg.DataFilePath)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	default:
		s, err := storage.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	}
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("system prompt file unreadable, using built-in prompt")
		return ""
	}
	return strings.TrimSpace(string(data))
}

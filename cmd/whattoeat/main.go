package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"whattoeat/internal/api"
	"whattoeat/internal/app"
	"whattoeat/internal/config"
	"whattoeat/internal/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logging.Warn().Err(err).Msg(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build application")
	}

	sched, err := a.NewScheduler()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to schedule background jobs")
	}
	sched.Start()

	h := api.NewHandler(api.Deps{
		Recommender: a.Recommender,
		Accounts:    a.Auth,
		History:     a.Store,
		Restaurants: a.Places,
		Tokens:      a.Tokens,
		CookieTTL:   cfg.AnonCookieTTL,
		Production:  cfg.IsProduction(),
	})
	e := api.NewServer(h, api.ServerConfig{
		AllowOrigins: origins(cfg.AppURL, cfg.WebURL),
		RateLimitRPS: cfg.RateLimitRPS,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logging.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("http server shutdown")
	}
	sched.Stop()
	if err := a.Close(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("close store")
	}
	logging.Info().Msg("stopped")
}

func origins(urls ...string) []string {
	var out []string
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

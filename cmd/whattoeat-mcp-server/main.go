package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

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
	// stdout carries the protocol; logs stay on stderr.
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build application")
	}
	defer a.Close(ctx)

	sched, err := a.NewScheduler()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to schedule background jobs")
	}
	sched.Start()
	defer sched.Stop()

	tools := NewFoodTools(a.Recommender, a.Store)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "whattoeat-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_food",
		Description: "Recommends one dish to eat in a city, avoiding dishes already suggested in the same session",
	}, tools.RecommendFood)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_saved_foods",
		Description: "Lists the foods saved to an account",
	}, tools.ListSavedFoods)

	logging.Info().Msg("serving whattoeat MCP tools on stdio")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		logging.Error().Err(err).Msg("mcp server stopped")
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"whattoeat/internal/recommend"
	"whattoeat/internal/session"
)

type RecommendFoodParams struct {
	SessionID string `json:"session_id" mcp:"stable id of the conversation; repeated calls with the same id avoid earlier suggestions"`
	City      string `json:"city" mcp:"city to eat in"`
	Country   string `json:"country" mcp:"country of the city"`
}

type ListSavedFoodsParams struct {
	Email string `json:"email" mcp:"account email"`
}

type recommender interface {
	Recommend(ctx context.Context, key session.Key, loc recommend.Location) (recommend.Result, error)
}

type historyReader interface {
	GetHistory(ctx context.Context, email string) ([]string, error)
}

// FoodTools exposes the recommendation service as MCP tools.
type FoodTools struct {
	recommender recommender
	history     historyReader
}

func NewFoodTools(r recommender, h historyReader) *FoodTools {
	return &FoodTools{recommender: r, history: h}
}

func (t *FoodTools) RecommendFood(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[RecommendFoodParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if strings.TrimSpace(args.SessionID) == "" || strings.TrimSpace(args.City) == "" || strings.TrimSpace(args.Country) == "" {
		return errorResult("session_id, city and country are required"), nil
	}

	res, err := t.recommender.Recommend(ctx, session.AnonymousKey("mcp:"+args.SessionID),
		recommend.Location{City: args.City, Country: args.Country})
	if err != nil {
		return errorResult(fmt.Sprintf("recommendation failed: %v", err)), nil
	}
	body, _ := json.Marshal(res)
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		Meta:    map[string]any{"food": res.Food, "imageLink": res.ImageLink},
	}, nil
}

func (t *FoodTools) ListSavedFoods(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[ListSavedFoodsParams]) (*mcp.CallToolResultFor[any], error) {
	email := strings.ToLower(strings.TrimSpace(params.Arguments.Email))
	if email == "" {
		return errorResult("email is required"), nil
	}
	foods, err := t.history.GetHistory(ctx, email)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to load saved foods: %v", err)), nil
	}
	if len(foods) == 0 {
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{&mcp.TextContent{Text: "no saved foods"}},
		}, nil
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(foods, "\n")}},
		Meta:    map[string]any{"count": len(foods)},
	}, nil
}

func errorResult(msg string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

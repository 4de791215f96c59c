package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"whattoeat/internal/llm"
)

// Request is the input handed to a Provider. History and Declined stay
// structured here; only the provider renders them into prompt text.
type Request struct {
	Location string
	History  []string
	Declined []string
}

// Suggestion is the provider's structured answer.
type Suggestion struct {
	Location string `json:"Location"`
	Food     string `json:"Food"`
}

// Provider recommends a single food. Transport, parse and empty-answer
// failures are all reported as errors.
type Provider interface {
	Recommend(ctx context.Context, req Request) (Suggestion, error)
}

const DefaultSystemPrompt = `Recommend 1 food in a country to the user. Consider their food history and declined foods. Do not suggest declined foods.

Respond only in valid JSON. The JSON object you return should match the following schema:
{
  "Location": "string",
  "Food": "string"
}`

// LLMProvider asks a chat model for a recommendation.
type LLMProvider struct {
	client       llm.Client
	systemPrompt string
}

func NewLLMProvider(client llm.Client, systemPrompt string) *LLMProvider {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &LLMProvider{client: client, systemPrompt: systemPrompt}
}

func (p *LLMProvider) Recommend(ctx context.Context, req Request) (Suggestion, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: p.systemPrompt},
		{Role: llm.RoleUser, Content: RenderPrompt(req)},
	}
	resp, err := p.client.Generate(ctx, messages)
	if err != nil {
		return Suggestion{}, err
	}
	return ParseSuggestion(resp.Content)
}

// RenderPrompt formats the user turn. Empty lists render as "None".
func RenderPrompt(req Request) string {
	return fmt.Sprintf("User food history: %s\nDeclined foods: %s\nQuery: Tell me what to eat in %s",
		joinOrNone(req.History), joinOrNone(req.Declined), req.Location)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// ParseSuggestion decodes model output, tolerating markdown code fences.
func ParseSuggestion(content string) (Suggestion, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var out Suggestion
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return Suggestion{}, fmt.Errorf("parse suggestion: %w", err)
	}
	if strings.TrimSpace(out.Food) == "" {
		return Suggestion{}, errors.New("suggestion has no food")
	}
	return out, nil
}

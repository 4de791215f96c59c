package llm

import (
	"testing"

	"whattoeat/internal/config"
)

func TestFactory_CreatesOpenAIClient(t *testing.T) {
	f := NewFactory(&config.Config{OpenAIAPIKey: "k", OpenAIBaseURL: "http://localhost:1/v1", LLMTemperature: 0.8})
	c, err := f.CreateClient("OpenAI", "gemini-2.5-flash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oc, ok := c.(*OpenAIClient)
	if !ok {
		t.Fatalf("want *OpenAIClient, got %T", c)
	}
	if oc.model != "gemini-2.5-flash" || oc.temperature != 0.8 {
		t.Fatalf("unexpected client settings: %+v", oc)
	}
}

func TestFactory_UnknownProvider(t *testing.T) {
	f := NewFactory(&config.Config{})
	if _, err := f.CreateClient("llama", "m"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

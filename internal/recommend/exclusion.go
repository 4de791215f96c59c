package recommend

import (
	"context"
	"fmt"
	"strings"

	"whattoeat/internal/session"
)

// HistoryReader reads an account's saved foods.
type HistoryReader interface {
	GetHistory(ctx context.Context, email string) ([]string, error)
}

// Exclusions are the two lists a provider must steer away from or build on.
type Exclusions struct {
	History  []string
	Declined []string
}

// ExclusionBuilder merges durable history with a session's declined list.
type ExclusionBuilder struct {
	history HistoryReader
}

func NewExclusionBuilder(history HistoryReader) *ExclusionBuilder {
	return &ExclusionBuilder{history: history}
}

// Build reads durable history only for account keys; anonymous sessions
// always get an empty history. rec must be the snapshot taken when the
// request advanced the session.
func (b *ExclusionBuilder) Build(ctx context.Context, key session.Key, rec session.Record) (Exclusions, error) {
	out := Exclusions{History: []string{}, Declined: dedupeFold(rec.Declined)}
	if !key.Durable || b.history == nil {
		return out, nil
	}
	foods, err := b.history.GetHistory(ctx, key.ID)
	if err != nil {
		return Exclusions{}, fmt.Errorf("load food history: %w", err)
	}
	for _, f := range foods {
		// legacy documents stored a lone "None" when empty
		if f = strings.TrimSpace(f); f != "" && f != "None" {
			out.History = append(out.History, f)
		}
	}
	return out, nil
}

func dedupeFold(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := strings.ToLower(strings.TrimSpace(it))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

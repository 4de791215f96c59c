package app

import (
	"context"
	"fmt"
	"time"

	"whattoeat/internal/analytics"
	"whattoeat/internal/logging"
)

// ReportDailyStats logs a summary of the previous UTC day's recommendations.
func (a *App) ReportDailyStats(ctx context.Context) error {
	if a.Recorder == nil {
		return nil
	}
	events, err := a.Recorder.LoadEvents()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	day := time.Now().UTC().Add(-24 * time.Hour)
	stats := analytics.AnalyzeDailyEvents(events, day)

	ev := logging.Info().
		Str("date", stats.Date).
		Int("total", stats.TotalRecommendations).
		Int("anonymous", stats.AnonymousRecommendations).
		Int("sessions", stats.UniqueSessions)
	if top := stats.TopFoods(1); len(top) > 0 {
		ev = ev.Str("top_food", top[0].Name)
	}
	ev.Msg("daily recommendation stats")
	logging.Debug().Msg(stats.GenerateReportSummary())
	return nil
}

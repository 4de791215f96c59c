package app

import (
	"context"
	"fmt"

	"whattoeat/internal/scheduler"
)

// NewScheduler registers the background jobs both binaries run: the session
// sweep and, when STATS_SCHEDULE is set, the daily stats report. The caller
// starts it and must stop it before Close.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New()
	err := sched.Add("session-sweep", a.Config.SweepSchedule, func(ctx context.Context) error {
		a.Sweeper.Sweep(ctx)
		return nil
	})
	if err != nil {
		sched.Stop()
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	if a.Config.StatsSchedule != "" {
		if err := sched.Add("daily-stats", a.Config.StatsSchedule, a.ReportDailyStats); err != nil {
			sched.Stop()
			return nil, fmt.Errorf("schedule daily stats: %w", err)
		}
	}
	return sched, nil
}

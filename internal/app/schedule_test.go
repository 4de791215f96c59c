package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"whattoeat/internal/session"
)

func TestNewScheduler_SweepsIdleSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.SweepSchedule = "@every 1s"
	cfg.SessionIdleTimeout = time.Millisecond
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())

	a.Sessions.Advance(session.AnonymousKey("mcp:chat-1"), time.Now())
	require.Equal(t, 1, a.Sessions.Len())

	sched, err := a.NewScheduler()
	require.NoError(t, err)
	sched.Start()
	defer sched.Stop()

	require.Eventually(t, func() bool { return a.Sessions.Len() == 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestNewScheduler_RejectsBadSchedules(t *testing.T) {
	cfg := testConfig(t)
	cfg.SweepSchedule = "whenever"
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close(context.Background())
	_, err = a.NewScheduler()
	require.Error(t, err)

	cfg.SweepSchedule = "@every 1m"
	cfg.StatsSchedule = "daily at noon"
	_, err = a.NewScheduler()
	require.Error(t, err)
}

package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAdd_RejectsBadSpec(t *testing.T) {
	s := New()
	defer s.Stop()
	if err := s.Add("bad", "every minute please", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestScheduler_RunsJobAndSurvivesErrors(t *testing.T) {
	s := New()
	var calls atomic.Int32
	err := s.Add("sweep", "@every 1s", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("flaky")
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	s.Start()
	if !s.IsRunning() {
		t.Fatalf("scheduler should report running")
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
	}
	s.Stop()
	if calls.Load() < 2 {
		t.Fatalf("want at least 2 runs despite errors, got %d", calls.Load())
	}
	if s.IsRunning() {
		t.Fatalf("scheduler should be stopped")
	}
}

func TestStop_CancelsJobContext(t *testing.T) {
	s := New()
	s.Stop()
	select {
	case <-s.ctx.Done():
	default:
		t.Fatalf("job context not cancelled")
	}
}

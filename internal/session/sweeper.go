package session

import (
	"context"
	"strings"
	"time"

	"whattoeat/internal/logging"
	"whattoeat/internal/metrics"
)

// DefaultIdleTimeout is how long a session may go without requests before
// the Sweeper evicts it.
const DefaultIdleTimeout = 10 * time.Minute

// HistoryAppender persists a food into an account's durable history with
// union semantics.
type HistoryAppender interface {
	AppendHistory(ctx context.Context, email, food string) error
}

// Sweeper evicts idle sessions and flushes the last recommendation of durable
// ones into stored history.
type Sweeper struct {
	store        Store
	history      HistoryAppender
	idle         time.Duration
	flushTimeout time.Duration
	now          func() time.Time
}

func NewSweeper(store Store, history HistoryAppender, idle, flushTimeout time.Duration) *Sweeper {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if flushTimeout <= 0 {
		flushTimeout = 10 * time.Second
	}
	return &Sweeper{
		store:        store,
		history:      history,
		idle:         idle,
		flushTimeout: flushTimeout,
		now:          time.Now,
	}
}

// Sweep runs one tick and returns the evicted sessions. Flush failures are
// logged and never stop the tick.
func (s *Sweeper) Sweep(ctx context.Context) []Evicted {
	return s.sweep(ctx, s.idle)
}

// Flush evicts every session regardless of idle time. Used on shutdown.
func (s *Sweeper) Flush(ctx context.Context) []Evicted {
	return s.sweep(ctx, -1)
}

func (s *Sweeper) sweep(ctx context.Context, idle time.Duration) []Evicted {
	evicted := s.store.SweepExpired(s.now(), idle)
	for _, ev := range evicted {
		if !ev.Key.Durable {
			metrics.SessionsSwept.WithLabelValues("anonymous").Inc()
			continue
		}
		metrics.SessionsSwept.WithLabelValues("account").Inc()
		if ev.Record.LastRecommended == "" || s.history == nil {
			continue
		}
		if err := s.flush(ctx, ev); err != nil {
			metrics.FlushFailures.Inc()
			logging.Warn().Err(err).Str("session", ev.Key.String()).
				Str("food", ev.Record.LastRecommended).Msg("failed to flush evicted session")
		}
	}
	metrics.ActiveSessions.Set(float64(s.store.Len()))
	if len(evicted) > 0 {
		logging.Debug().Int("evicted", len(evicted)).Msg("session sweep finished")
	}
	return evicted
}

func (s *Sweeper) flush(ctx context.Context, ev Evicted) error {
	ctx, cancel := context.WithTimeout(ctx, s.flushTimeout)
	defer cancel()
	return s.history.AppendHistory(ctx, ev.Key.ID, strings.ToLower(ev.Record.LastRecommended))
}

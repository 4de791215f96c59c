// Package session keeps per-user transient recommendation state: the foods a
// user has implicitly declined and the last food recommended to them.
//
// Records live only in memory. They are created on first touch and removed by
// the Sweeper once idle; durable food history is the source of truth across
// restarts.
package session

import (
	"strings"
	"sync"
	"time"
)

// DefaultDeclinedCap bounds Record.Declined.
const DefaultDeclinedCap = 20

// Key scopes session state. Durable keys are lower-cased account emails backed
// by stored history; anonymous keys are cookie-issued device ids.
type Key struct {
	ID      string
	Durable bool
}

// AccountKey returns the durable key for an account email.
func AccountKey(email string) Key {
	return Key{ID: strings.ToLower(strings.TrimSpace(email)), Durable: true}
}

// AnonymousKey returns the ephemeral key for an anonymous device id.
func AnonymousKey(id string) Key {
	return Key{ID: id}
}

func (k Key) String() string {
	if k.Durable {
		return k.ID
	}
	return "anon:" + k.ID
}

// Record is a snapshot of one session. Slices returned by the Store are copies.
type Record struct {
	Declined        []string
	LastRecommended string
	LastFetchAt     time.Time
}

// Evicted is a record removed from the store, handed to the caller to flush.
type Evicted struct {
	Key    Key
	Record Record
}

// Store is the process-wide session table. Implementations own their locking.
type Store interface {
	// GetOrCreate returns the record for key, inserting an empty one stamped
	// with now if absent. Existing records are not modified.
	GetOrCreate(key Key, now time.Time) Record
	// Touch sets LastFetchAt on an existing record.
	Touch(key Key, now time.Time)
	// MarkDeclined appends food (lower-cased) to the declined list unless it
	// is already present, evicting the oldest entry when the cap is reached.
	MarkDeclined(key Key, food string)
	// SetLastRecommended records the food issued to the session. A previous
	// recommendation not yet declined (issued by a concurrent request) is
	// declined first. A record evicted while the request was in flight is
	// recreated.
	SetLastRecommended(key Key, food string, now time.Time)
	// Advance applies the start-of-cycle transition in one step: create the
	// record if absent, otherwise decline the previous recommendation and
	// touch it. It returns the resulting snapshot.
	Advance(key Key, now time.Time) Record
	// SweepExpired removes every record idle for longer than idle and returns
	// them, together with any records displaced by the capacity bound.
	SweepExpired(now time.Time, idle time.Duration) []Evicted
	// Len reports the number of live records.
	Len() int
}

type record struct {
	declined        []string
	lastRecommended string
	lastFetchAt     time.Time
}

func (r *record) snapshot() Record {
	out := Record{
		Declined:        make([]string, len(r.declined)),
		LastRecommended: r.lastRecommended,
		LastFetchAt:     r.lastFetchAt,
	}
	copy(out.Declined, r.declined)
	return out
}

// MemoryStore is a Store guarded by a single mutex.
type MemoryStore struct {
	mu          sync.Mutex
	sessions    map[Key]*record
	declinedCap int
	maxSessions int
	displaced   []Evicted
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithDeclinedCap overrides DefaultDeclinedCap.
func WithDeclinedCap(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.declinedCap = n
		}
	}
}

// WithMaxSessions bounds the number of live records. When a new key would
// exceed it, the least recently fetched record is displaced and returned by
// the next SweepExpired. Zero means unbounded.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// NewMemoryStore returns an empty store with DefaultDeclinedCap and no session limit.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[Key]*record),
		declinedCap: DefaultDeclinedCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) GetOrCreate(key Key, now time.Time) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, _ := s.getOrCreateLocked(key, now)
	return r.snapshot()
}

func (s *MemoryStore) Touch(key Key, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.sessions[key]; ok {
		r.lastFetchAt = now
	}
}

func (s *MemoryStore) MarkDeclined(key Key, food string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.sessions[key]; ok {
		s.declineLocked(r, food)
	}
}

func (s *MemoryStore) SetLastRecommended(key Key, food string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, created := s.getOrCreateLocked(key, now)
	if !created {
		s.declineLocked(r, r.lastRecommended)
	}
	r.lastRecommended = food
}

func (s *MemoryStore) Advance(key Key, now time.Time) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, created := s.getOrCreateLocked(key, now)
	if !created {
		s.declineLocked(r, r.lastRecommended)
		r.lastFetchAt = now
	}
	return r.snapshot()
}

func (s *MemoryStore) SweepExpired(now time.Time, idle time.Duration) []Evicted {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.displaced
	s.displaced = nil
	for k, r := range s.sessions {
		if now.Sub(r.lastFetchAt) > idle {
			out = append(out, Evicted{Key: k, Record: r.snapshot()})
			delete(s.sessions, k)
		}
	}
	return out
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) getOrCreateLocked(key Key, now time.Time) (*record, bool) {
	if r, ok := s.sessions[key]; ok {
		return r, false
	}
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.displaceOldestLocked()
	}
	r := &record{lastFetchAt: now}
	s.sessions[key] = r
	return r, true
}

func (s *MemoryStore) displaceOldestLocked() {
	var (
		oldestKey Key
		oldest    *record
	)
	for k, r := range s.sessions {
		if oldest == nil || r.lastFetchAt.Before(oldest.lastFetchAt) {
			oldestKey, oldest = k, r
		}
	}
	if oldest == nil {
		return
	}
	s.displaced = append(s.displaced, Evicted{Key: oldestKey, Record: oldest.snapshot()})
	delete(s.sessions, oldestKey)
}

func (s *MemoryStore) declineLocked(r *record, food string) {
	food = strings.ToLower(strings.TrimSpace(food))
	if food == "" {
		return
	}
	for _, d := range r.declined {
		if d == food {
			return
		}
	}
	if len(r.declined) >= s.declinedCap {
		r.declined = append(r.declined[:0:0], r.declined[len(r.declined)-s.declinedCap+1:]...)
	}
	r.declined = append(r.declined, food)
}

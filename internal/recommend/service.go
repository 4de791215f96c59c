// Package recommend drives one recommendation cycle: advance the session,
// build the exclusion lists, ask the provider, normalise and record the
// answer, and attach an illustrative image.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"whattoeat/internal/logging"
	"whattoeat/internal/metrics"
	"whattoeat/internal/session"
	"whattoeat/internal/storage"
)

// ErrProvider marks a failed recommendation attempt. Callers may retry.
var ErrProvider = errors.New("recommendation provider failed")

// MaxFoodWords caps the words kept from a provider's food name.
const MaxFoodWords = 3

const DefaultTimeout = 20 * time.Second

// ImageFinder resolves a picture for a food name.
type ImageFinder interface {
	FindImage(ctx context.Context, food string) (string, error)
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s", strings.TrimSpace(l.City), strings.TrimSpace(l.Country))
}

type Result struct {
	Food      string `json:"food"`
	ImageLink string `json:"imageLink"`
}

// Deps wires a Service. Sessions and Provider are required.
type Deps struct {
	Sessions      session.Store
	History       HistoryReader
	Provider      Provider
	Images        ImageFinder
	Recorder      storage.Recorder
	FallbackImage string
	// Timeout bounds each external call. Zero means DefaultTimeout.
	Timeout time.Duration
}

type Service struct {
	sessions      session.Store
	exclusions    *ExclusionBuilder
	provider      Provider
	images        ImageFinder
	recorder      storage.Recorder
	fallbackImage string
	timeout       time.Duration
	now           func() time.Time
}

func NewService(d Deps) *Service {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		sessions:      d.Sessions,
		exclusions:    NewExclusionBuilder(d.History),
		provider:      d.Provider,
		images:        d.Images,
		recorder:      d.Recorder,
		fallbackImage: d.FallbackImage,
		timeout:       timeout,
		now:           time.Now,
	}
}

// Recommend runs one cycle for key. The previous recommendation is declined
// before the provider is called, so a failed attempt still advances the
// rotation.
func (s *Service) Recommend(ctx context.Context, key session.Key, loc Location) (Result, error) {
	rec := s.sessions.Advance(key, s.now())
	metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	excl, err := s.buildExclusions(ctx, key, rec)
	if err != nil {
		metrics.Recommendations.WithLabelValues("provider_error").Inc()
		return Result{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	sug, err := s.ask(ctx, Request{Location: loc.String(), History: excl.History, Declined: excl.Declined})
	if err != nil {
		metrics.Recommendations.WithLabelValues("provider_error").Inc()
		logging.Warn().Err(err).Str("session", key.String()).Msg("recommendation failed")
		return Result{}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	food := NormalizeFood(sug.Food)
	if food == "" {
		metrics.Recommendations.WithLabelValues("provider_error").Inc()
		return Result{}, fmt.Errorf("%w: empty food name", ErrProvider)
	}
	s.sessions.SetLastRecommended(key, food, s.now())
	metrics.Recommendations.WithLabelValues("ok").Inc()

	s.record(key, loc, food)
	return Result{Food: food, ImageLink: s.ImageLink(ctx, food)}, nil
}

// ImageLink never fails: lookup errors and empty results yield the fallback.
func (s *Service) ImageLink(ctx context.Context, food string) string {
	if s.images == nil {
		return s.fallbackImage
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	link, err := s.images.FindImage(ctx, food)
	if err != nil || link == "" {
		metrics.ImageFallbacks.Inc()
		if err != nil {
			logging.Warn().Err(err).Str("food", food).Msg("image lookup failed, using fallback")
		}
		return s.fallbackImage
	}
	return link
}

func (s *Service) buildExclusions(ctx context.Context, key session.Key, rec session.Record) (Exclusions, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.exclusions.Build(ctx, key, rec)
}

func (s *Service) ask(ctx context.Context, req Request) (Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.provider.Recommend(ctx, req)
}

func (s *Service) record(key session.Key, loc Location, food string) {
	if s.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp: s.now().UTC(),
		Session:   key.ID,
		Anonymous: !key.Durable,
		Location:  loc.String(),
		Food:      food,
	}
	if err := s.recorder.AppendEvent(ev); err != nil {
		logging.Warn().Err(err).Msg("failed to record recommendation event")
	}
}

// NormalizeFood trims the name and keeps at most MaxFoodWords words.
func NormalizeFood(food string) string {
	words := strings.Fields(food)
	if len(words) > MaxFoodWords {
		words = words[:MaxFoodWords]
	}
	return strings.Join(words, " ")
}

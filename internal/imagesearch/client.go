// Package imagesearch finds an illustrative picture for a food name using
// the Programmable Search (Custom Search JSON) API.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"whattoeat/internal/metrics"
)

// ErrNotConfigured is returned when no API key or engine id is set.
var ErrNotConfigured = errors.New("image search is not configured")

// ErrNoResults is returned when the search yields no usable link.
var ErrNoResults = errors.New("image search returned no results")

const resultCount = 10

type Client struct {
	svc    *customsearch.Service
	engine string
	cb     *gobreaker.CircuitBreaker[string]
	pick   func(n int) int
}

// New builds a client. A missing key or engine id is not an error here;
// FindImage then reports ErrNotConfigured and callers fall back.
func New(ctx context.Context, apiKey, engine string, opts ...option.ClientOption) (*Client, error) {
	c := &Client{engine: engine, pick: rand.IntN}
	c.cb = newBreaker("imagesearch")
	if apiKey == "" || engine == "" {
		return c, nil
	}
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// FindImage runs an image search for food and returns one random result.
func (c *Client) FindImage(ctx context.Context, food string) (string, error) {
	if c.svc == nil {
		return "", ErrNotConfigured
	}
	return c.cb.Execute(func() (string, error) {
		res, err := c.svc.Cse.List().
			Cx(c.engine).
			Q(food).
			SearchType("image").
			Num(resultCount).
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("custom search %q: %w", food, err)
		}
		link := PickLink(res.Items, c.pick)
		if link == "" {
			return "", ErrNoResults
		}
		return link, nil
	})
}

// PickLink chooses a random item and returns its best link: the full image,
// then the thumbnail, then the hosting page. Items without any link are
// skipped.
func PickLink(items []*customsearch.Result, pick func(n int) int) string {
	var usable []string
	for _, it := range items {
		if l := itemLink(it); l != "" {
			usable = append(usable, l)
		}
	}
	if len(usable) == 0 {
		return ""
	}
	if pick == nil {
		return usable[0]
	}
	return usable[pick(len(usable))]
}

func itemLink(it *customsearch.Result) string {
	if it == nil {
		return ""
	}
	if it.Link != "" {
		return it.Link
	}
	if it.Image != nil && it.Image.ThumbnailLink != "" {
		return it.Image.ThumbnailLink
	}
	return it.DisplayLink
}

func newBreaker(name string) *gobreaker.CircuitBreaker[string] {
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// An empty result is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoResults)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

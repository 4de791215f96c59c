// Package places searches for restaurants serving a dish near a point using
// the Places API (New).
package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"

	"whattoeat/internal/logging"
	"whattoeat/internal/metrics"
)

var ErrNotConfigured = errors.New("places search is not configured")

const (
	maxResults    = 6
	searchRadiusM = 2000.0
	photoSizePx   = 400
	fieldMask     = "places.id,places.displayName,places.formattedAddress,places.photos,places.priceLevel,places.rating"
)

type Query struct {
	Food      string
	Latitude  float64
	Longitude float64
}

type Restaurant struct {
	ID               string  `json:"id"`
	DisplayName      string  `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Rating           float64 `json:"rating,omitempty"`
	PriceLevel       string  `json:"priceLevel,omitempty"`
	PhotoLink        string  `json:"photoLink"`
}

type Client struct {
	svc      *placesapi.Service
	fallback string
	cb       *gobreaker.CircuitBreaker[[]*placesapi.GoogleMapsPlacesV1Place]
}

// New builds a client. An empty apiKey yields a client whose Search
// reports ErrNotConfigured.
func New(ctx context.Context, apiKey, fallbackPhoto string, opts ...option.ClientOption) (*Client, error) {
	c := &Client{fallback: fallbackPhoto}
	c.cb = gobreaker.NewCircuitBreaker[[]*placesapi.GoogleMapsPlacesV1Place](gobreaker.Settings{
		Name:        "places",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
	if apiKey == "" {
		return c, nil
	}
	svc, err := placesapi.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// Search returns up to six open restaurants within 2 km of the query point.
// Every result carries a photo link; places without a photo, or whose photo
// cannot be resolved, get the fallback.
func (c *Client) Search(ctx context.Context, q Query) ([]Restaurant, error) {
	if c.svc == nil {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(q.Food) == "" {
		return nil, errors.New("food is required")
	}

	found, err := c.cb.Execute(func() ([]*placesapi.GoogleMapsPlacesV1Place, error) {
		resp, err := c.svc.Places.SearchText(SearchRequest(q)).
			Fields(googleapi.Field(fieldMask)).
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}
		return resp.Places, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search places for %q: %w", q.Food, err)
	}

	out := make([]Restaurant, 0, len(found))
	for _, p := range found {
		if p == nil {
			continue
		}
		out = append(out, ToRestaurant(p, c.photoLink(ctx, p)))
	}
	return out, nil
}

func (c *Client) photoLink(ctx context.Context, p *placesapi.GoogleMapsPlacesV1Place) string {
	name := FirstPhotoName(p)
	if name == "" {
		return c.fallback
	}
	media, err := c.svc.Places.Photos.GetMedia(name + "/media").
		MaxHeightPx(photoSizePx).
		MaxWidthPx(photoSizePx).
		SkipHttpRedirect(true).
		Context(ctx).
		Do()
	if err != nil {
		logging.Warn().Err(err).Str("photo", name).Msg("places photo fetch failed")
		return c.fallback
	}
	if media.PhotoUri == "" {
		return c.fallback
	}
	return media.PhotoUri
}

// SearchRequest builds the text search body for q.
func SearchRequest(q Query) *placesapi.GoogleMapsPlacesV1SearchTextRequest {
	return &placesapi.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery:      strings.TrimSpace(q.Food) + " restaurants",
		MaxResultCount: maxResults,
		LocationBias: &placesapi.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Circle: &placesapi.GoogleMapsPlacesV1Circle{
				Center: &placesapi.GoogleTypeLatLng{Latitude: q.Latitude, Longitude: q.Longitude},
				Radius: searchRadiusM,
			},
		},
		OpenNow:        true,
		RankPreference: "RELEVANCE",
	}
}

func FirstPhotoName(p *placesapi.GoogleMapsPlacesV1Place) string {
	if p == nil || len(p.Photos) == 0 || p.Photos[0] == nil {
		return ""
	}
	return p.Photos[0].Name
}

func ToRestaurant(p *placesapi.GoogleMapsPlacesV1Place, photo string) Restaurant {
	r := Restaurant{
		ID:               p.Id,
		FormattedAddress: p.FormattedAddress,
		Rating:           p.Rating,
		PriceLevel:       p.PriceLevel,
		PhotoLink:        photo,
	}
	if p.DisplayName != nil {
		r.DisplayName = p.DisplayName.Text
	}
	return r
}

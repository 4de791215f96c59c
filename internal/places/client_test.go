package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"
)

func TestSearchRequest(t *testing.T) {
	req := SearchRequest(Query{Food: " Pho ", Latitude: 21.03, Longitude: 105.85})
	require.Equal(t, "Pho restaurants", req.TextQuery)
	require.EqualValues(t, 6, req.MaxResultCount)
	require.True(t, req.OpenNow)
	require.Equal(t, "RELEVANCE", req.RankPreference)
	require.Equal(t, 2000.0, req.LocationBias.Circle.Radius)
	require.Equal(t, 21.03, req.LocationBias.Circle.Center.Latitude)
	require.Equal(t, 105.85, req.LocationBias.Circle.Center.Longitude)
}

func TestFirstPhotoName(t *testing.T) {
	require.Equal(t, "", FirstPhotoName(nil))
	require.Equal(t, "", FirstPhotoName(&placesapi.GoogleMapsPlacesV1Place{}))
	require.Equal(t, "places/1/photos/a", FirstPhotoName(&placesapi.GoogleMapsPlacesV1Place{
		Photos: []*placesapi.GoogleMapsPlacesV1Photo{{Name: "places/1/photos/a"}, {Name: "places/1/photos/b"}},
	}))
}

func TestToRestaurant(t *testing.T) {
	r := ToRestaurant(&placesapi.GoogleMapsPlacesV1Place{
		Id:               "abc",
		DisplayName:      &placesapi.GoogleTypeLocalizedText{Text: "Pho 24"},
		FormattedAddress: "1 Main St",
		Rating:           4.5,
		PriceLevel:       "PRICE_LEVEL_INEXPENSIVE",
	}, "https://photo")
	require.Equal(t, Restaurant{
		ID:               "abc",
		DisplayName:      "Pho 24",
		FormattedAddress: "1 Main St",
		Rating:           4.5,
		PriceLevel:       "PRICE_LEVEL_INEXPENSIVE",
		PhotoLink:        "https://photo",
	}, r)
}

func TestSearch_NotConfigured(t *testing.T) {
	c, err := New(context.Background(), "", "https://fallback")
	require.NoError(t, err)
	_, err = c.Search(context.Background(), Query{Food: "pho"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSearch_ResolvesPhotosWithFallback(t *testing.T) {
	var (
		mu       sync.Mutex
		textBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "places:searchText"):
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&textBody)
			mu.Unlock()
			fmt.Fprint(w, `{"places":[
				{"id":"1","displayName":{"text":"With Photo"},"photos":[{"name":"places/1/photos/ok"}]},
				{"id":"2","displayName":{"text":"No Photo"}},
				{"id":"3","displayName":{"text":"Broken Photo"},"photos":[{"name":"places/3/photos/bad"}]}
			]}`)
		case strings.HasSuffix(r.URL.Path, "places/1/photos/ok/media"):
			fmt.Fprint(w, `{"photoUri":"https://lh3/ok.jpg"}`)
		default:
			http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(context.Background(), "key", "https://fallback",
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	got, err := c.Search(context.Background(), Query{Food: "Pho", Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "https://lh3/ok.jpg", got[0].PhotoLink)
	require.Equal(t, "https://fallback", got[1].PhotoLink)
	require.Equal(t, "https://fallback", got[2].PhotoLink)
	require.Equal(t, "Broken Photo", got[2].DisplayName)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "Pho restaurants", textBody["textQuery"])
	require.Equal(t, true, textBody["openNow"])
}

func TestSearch_ErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":400,"message":"bad"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := New(context.Background(), "key", "", option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	_, err = c.Search(context.Background(), Query{Food: "pho"})
	require.Error(t, err)
}

package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heypico/waypoint/internal/core/quota"
)

func newTestTracker(limits map[string]int) *quota.Tracker {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return quota.New(limits, 24*time.Hour, quota.WithClock(func() time.Time { return now }))
}

func searchPayload() map[string]any {
	return map[string]any{
		"status": "OK",
		"results": []map[string]any{
			{
				"place_id":           "ChIJN1t_tDeuEmsRUsoyG83frY4",
				"name":               "Warung Sushi",
				"formatted_address":  "Jalan Malioboro 1, Yogyakarta",
				"rating":             4.6,
				"user_ratings_total": 211,
				"price_level":        2,
				"types":              []string{"restaurant", "food"},
				"geometry": map[string]any{
					"location": map[string]float64{"lat": -7.79, "lng": 110.36},
				},
				"opening_hours": map[string]any{"open_now": true},
				"photos":        []map[string]any{{"photo_reference": "photoref-1234567890"}},
			},
		},
	}
}

func TestSearchParsesResultsAndSpendsQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/place/textsearch/json", r.URL.Path)
		require.Equal(t, "sushi restaurant", r.URL.Query().Get("query"))
		require.Equal(t, "-7.79,110.36", r.URL.Query().Get("location"))
		require.Equal(t, "5000", r.URL.Query().Get("radius"))
		require.Equal(t, "test-backend-key-1234567890", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(searchPayload())
	}))
	defer srv.Close()

	tracker := newTestTracker(map[string]int{CategoryPlacesSearch: 3})
	client := NewClient(Options{
		BaseURL: srv.URL,
		APIKey:  "test-backend-key-1234567890",
		Quota:   tracker,
	})

	result, err := client.Search(context.Background(), SearchRequest{
		Query:    "sushi restaurant",
		Location: &Coordinates{Lat: -7.79, Lng: 110.36},
	})
	require.NoError(t, err)
	require.Len(t, result.Places, 1)

	place := result.Places[0]
	require.Equal(t, "Warung Sushi", place.Name)
	require.Equal(t, "ChIJN1t_tDeuEmsRUsoyG83frY4", place.PlaceID)
	require.NotNil(t, place.Open)
	require.True(t, *place.Open)
	require.Equal(t, "photoref-1234567890", place.PhotoReference)

	require.Equal(t, 2, result.QuotaRemaining)
}

func TestSearchQuotaExhaustedSkipsProvider(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(searchPayload())
	}))
	defer srv.Close()

	tracker := newTestTracker(map[string]int{CategoryPlacesSearch: 1})
	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-backend-key-1234567890", Quota: tracker})

	_, err := client.Search(context.Background(), SearchRequest{Query: "coffee"})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), SearchRequest{Query: "tea"})
	require.ErrorIs(t, err, ErrQuotaExhausted)
	require.Equal(t, int32(1), calls.Load())
}

func TestSearchCacheHitDoesNotSpendQuota(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(searchPayload())
	}))
	defer srv.Close()

	tracker := newTestTracker(map[string]int{CategoryPlacesSearch: 5})
	client := NewClient(Options{
		BaseURL:     srv.URL,
		APIKey:      "test-backend-key-1234567890",
		Quota:       tracker,
		CacheEnable: true,
		CacheTTL:    time.Minute,
	})

	req := SearchRequest{Query: "sushi"}
	_, err := client.Search(context.Background(), req)
	require.NoError(t, err)

	cached, err := client.Search(context.Background(), req)
	require.NoError(t, err)
	require.True(t, cached.FromCache)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, 4, tracker.Remaining(CategoryPlacesSearch))
}

func TestCategoryIsolationAcrossOperations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/place/textsearch/json":
			_ = json.NewEncoder(w).Encode(searchPayload())
		case "/geocode/json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"results": []map[string]any{{
					"formatted_address": "Yogyakarta, Indonesia",
					"geometry": map[string]any{
						"location": map[string]float64{"lat": -7.79, "lng": 110.36},
					},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tracker := newTestTracker(map[string]int{
		CategoryPlacesSearch: 1,
		CategoryGeocoding:    1,
	})
	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-backend-key-1234567890", Quota: tracker})

	_, err := client.Search(context.Background(), SearchRequest{Query: "sushi"})
	require.NoError(t, err)
	_, err = client.Search(context.Background(), SearchRequest{Query: "ramen"})
	require.ErrorIs(t, err, ErrQuotaExhausted)

	// Exhausted search pool, geocoding still works.
	geo, err := client.Geocode(context.Background(), "Yogyakarta")
	require.NoError(t, err)
	require.Equal(t, "Yogyakarta, Indonesia", geo.FormattedAddress)
}

func TestDetailsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "NOT_FOUND"})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-backend-key-1234567890"})
	_, err := client.Details(context.Background(), "ChIJabcdefghij")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectionsParsesRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/directions/json", r.URL.Path)
		require.Equal(t, "walking", r.URL.Query().Get("mode"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"routes": []map[string]any{{
				"overview_polyline": map[string]string{"points": "abcd1234"},
				"bounds": map[string]any{
					"northeast": map[string]float64{"lat": -7.7, "lng": 110.4},
					"southwest": map[string]float64{"lat": -7.8, "lng": 110.3},
				},
				"legs": []map[string]any{{
					"distance": map[string]string{"text": "1.2 km"},
					"duration": map[string]string{"text": "15 mins"},
					"steps": []map[string]any{{
						"html_instructions": "Head north",
						"travel_mode":       "WALKING",
						"distance":          map[string]string{"text": "200 m"},
						"duration":          map[string]string{"text": "3 mins"},
						"start_location":    map[string]float64{"lat": -7.79, "lng": 110.36},
						"end_location":      map[string]float64{"lat": -7.788, "lng": 110.36},
					}},
				}},
			}},
		})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "test-backend-key-1234567890"})
	route, err := client.Directions(context.Background(),
		Coordinates{Lat: -7.79, Lng: 110.36},
		Coordinates{Lat: -7.75, Lng: 110.38},
		"walking")
	require.NoError(t, err)
	require.Equal(t, "1.2 km", route.Distance)
	require.Equal(t, "15 mins", route.Duration)
	require.Len(t, route.Steps, 1)
	require.Equal(t, "abcd1234", route.Polyline)
}

func TestProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":        "REQUEST_DENIED",
			"error_message": "The provided API key is invalid.",
		})
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL, APIKey: "bad-key-1234567890123456"})
	_, err := client.Search(context.Background(), SearchRequest{Query: "sushi"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "REQUEST_DENIED", provErr.Status)
}

func TestPhotoURL(t *testing.T) {
	client := NewClient(Options{APIKey: "test-backend-key-1234567890"})
	url := client.PhotoURL("ref-123", 800)
	require.Contains(t, url, "maxwidth=800")
	require.Contains(t, url, "photo_reference=ref-123")

	url = client.PhotoURL("ref-123", 99999)
	require.Contains(t, url, "maxwidth=400")
}

// Package places wraps the Google Places Nearby Search API: given a
// coordinate, return named place candidates the author can attach to a
// post.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Carlvinchi/recipiverse/internal/models"
)

const nearbySearchEndpoint = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// PlaceCandidate is one nearby place: a display name plus a coordinate.
type PlaceCandidate struct {
	Name     string        `json:"name"`
	Location models.LatLng `json:"location"`
}

// Lookup is the nearby-places contract the API layer consumes.
type Lookup interface {
	FindNearbyPlaces(ctx context.Context, lat, lng float64) ([]PlaceCandidate, error)
}

// googleLookup implements Lookup on the Places Nearby Search REST API.
type googleLookup struct {
	apiKey       string
	radiusMeters int
	httpClient   *http.Client
}

// NewGoogleLookup creates the production lookup. radiusMeters bounds the
// search around the caller's coordinate.
func NewGoogleLookup(apiKey string, radiusMeters int, httpClient *http.Client) (Lookup, error) {
	if apiKey == "" {
		return nil, errors.New("places: API key is empty")
	}
	if radiusMeters <= 0 {
		radiusMeters = 1500
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &googleLookup{apiKey: apiKey, radiusMeters: radiusMeters, httpClient: httpClient}, nil
}

type nearbySearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

func (g *googleLookup) FindNearbyPlaces(ctx context.Context, lat, lng float64) ([]PlaceCandidate, error) {
	params := url.Values{}
	params.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(g.radiusMeters))
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nearbySearchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nearby search request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	defer resp.Body.Close()

	var body nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode nearby search response: %w", err)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		if body.ErrorMessage != "" {
			return nil, fmt.Errorf("nearby search failed: %s: %s", body.Status, body.ErrorMessage)
		}
		return nil, fmt.Errorf("nearby search failed: %s", body.Status)
	}

	candidates := make([]PlaceCandidate, 0, len(body.Results))
	for _, r := range body.Results {
		candidates = append(candidates, PlaceCandidate{
			Name:     r.Name,
			Location: models.LatLng{Latitude: r.Geometry.Location.Lat, Longitude: r.Geometry.Location.Lng},
		})
	}
	return candidates, nil
}

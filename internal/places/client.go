// Package places enriches hotels with display data from the Google Places
// API: a photo URL, a 0-5 rating, and a street address, all best-effort.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jlaurila/stayscout/internal/cache"
	"github.com/jlaurila/stayscout/internal/errors"
	"github.com/jlaurila/stayscout/internal/hotels"
	"github.com/jlaurila/stayscout/internal/ratelimit"
)

// DefaultBaseURL is the Google Maps Places API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

const (
	placesPriority = 1
	// photoMaxWidth is the width requested for hotel display photos.
	photoMaxWidth = 800
	// searchRadiusMeters keeps the text search anchored to the hotel's own
	// coordinates so a chain name doesn't match a sibling property.
	searchRadiusMeters = 10
)

// Client looks up hotels on the Places text search API and implements
// hotels.Enricher.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// Compile-time check that Client implements hotels.Enricher.
var _ hotels.Enricher = (*Client)(nil)

// NewClient creates a Places client with the given API key.
func NewClient(apiKey string) *Client {
	return NewClientWithHTTPClient(apiKey, DefaultBaseURL, &http.Client{Timeout: 15 * time.Second})
}

// NewClientWithHTTPClient creates a Places client against a custom base URL
// with a caller-supplied http.Client. Used by tests to point at a local fake.
func NewClientWithHTTPClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		limiter:    ratelimit.New("Google Places", 10),
	}
}

// Name returns the human-readable name of this enricher.
func (c *Client) Name() string {
	return "Google Places"
}

// Priority returns the priority for merging data (lower = higher precedence).
func (c *Client) Priority() int {
	return placesPriority
}

// Place is the distilled subset of a Places text search hit.
type Place struct {
	PlaceID       string   `json:"place_id"`
	PhotoURL      string   `json:"photo_url"`
	Rating        float64  `json:"rating"`
	HasRating     bool     `json:"has_rating"`
	StreetAddress string   `json:"street_address"`
	PhotoRefs     []string `json:"photo_refs"`
}

// cachedPlace wraps a Place with metadata for negative caching.
type cachedPlace struct {
	Place    *Place `json:"place"`
	NotFound bool   `json:"not_found"`
}

// textSearchResponse matches the subset of Places text search responses the
// workflow consumes.
type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
		Photos  []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
		Rating           *float64 `json:"rating"`
		FormattedAddress string   `json:"formatted_address"`
	} `json:"results"`
}

// Enrich looks the hotel up by name near its coordinates and distills the
// first hit into enrichment fields. A hotel Places has never heard of is a
// cached miss, not an error.
func (c *Client) Enrich(ctx context.Context, hotel hotels.Offer) (*hotels.EnrichmentData, error) {
	if hotel.Name == "" {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("%s|%f,%f", hotel.Name, hotel.Latitude, hotel.Longitude)
	cached, _, err := cache.GetOrFetchWithTTL("places_cache", cacheKey,
		func() (*cachedPlace, error) {
			return c.search(ctx, hotel.Name, hotel.Latitude, hotel.Longitude)
		},
		cache.SelectNegativeCacheTTL(func(r *cachedPlace) bool {
			return r.NotFound
		}))
	if err != nil {
		return nil, err
	}

	if cached.NotFound || cached.Place == nil {
		return nil, nil
	}

	place := cached.Place
	data := &hotels.EnrichmentData{}
	if place.PhotoURL != "" {
		data.PhotoURL = &place.PhotoURL
	}
	if place.HasRating {
		data.Rating = &place.Rating
	}
	if place.StreetAddress != "" {
		data.StreetAddress = &place.StreetAddress
	}
	return data, nil
}

// Lookup returns the full distilled place record, including all photo
// references, for callers that need more than the standard enrichment
// fields (e.g. photo downloads).
func (c *Client) Lookup(ctx context.Context, name string, lat, lng float64) (*Place, error) {
	result, err := c.search(ctx, name, lat, lng)
	if err != nil {
		return nil, err
	}
	if result.NotFound {
		return nil, nil
	}
	return result.Place, nil
}

func (c *Client) search(ctx context.Context, name string, lat, lng float64) (*cachedPlace, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", name)
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", searchRadiusMeters))
	params.Set("key", c.apiKey)

	reqURL := c.baseURL + "/place/textsearch/json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewRateLimitError("Google Places API rate limit reached")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode)
	}

	var searchResp textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if searchResp.Status != "" && searchResp.Status != "OK" && searchResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API returned status %q", searchResp.Status)
	}
	if len(searchResp.Results) == 0 {
		return &cachedPlace{NotFound: true}, nil
	}

	first := searchResp.Results[0]
	place := &Place{
		PlaceID:       first.PlaceID,
		StreetAddress: streetAddress(first.FormattedAddress),
	}
	if first.Rating != nil {
		place.Rating = *first.Rating
		place.HasRating = true
	}
	for _, photo := range first.Photos {
		place.PhotoRefs = append(place.PhotoRefs, photo.PhotoReference)
	}
	if len(place.PhotoRefs) > 0 {
		place.PhotoURL = c.photoURL(place.PhotoRefs[0])
	}

	return &cachedPlace{Place: place}, nil
}

// photoURL builds the redirecting photo endpoint URL for a photo reference.
func (c *Client) photoURL(photoRef string) string {
	params := url.Values{}
	params.Set("maxwidth", fmt.Sprintf("%d", photoMaxWidth))
	params.Set("photoreference", photoRef)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

// streetAddress extracts the street line from a formatted address
// ("123 Main St, New York, NY 10001, USA" -> "123 Main St").
func streetAddress(formatted string) string {
	street, _, _ := strings.Cut(formatted, ",")
	return strings.TrimSpace(street)
}

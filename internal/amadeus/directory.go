package amadeus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jlaurila/stayscout/internal/cache"
	"github.com/jlaurila/stayscout/internal/errors"
	"github.com/jlaurila/stayscout/internal/hotels"
)

// directoryResponse matches the subset of reference-data/locations/hotels
// responses the workflow consumes.
type directoryResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
		Address struct {
			CountryCode string `json:"countryCode"`
		} `json:"address"`
	} `json:"data"`
}

func (r *directoryResponse) entries() []hotels.DirectoryEntry {
	entries := make([]hotels.DirectoryEntry, 0, len(r.Data))
	for _, item := range r.Data {
		entries = append(entries, hotels.DirectoryEntry{
			HotelID:     item.HotelID,
			Name:        item.Name,
			CountryCode: item.Address.CountryCode,
		})
	}
	return entries
}

// Compile-time check that Client implements the resolver's directory contract.
var _ hotels.DirectoryClient = (*Client)(nil)

// HotelsByCity lists the hotels available in a city, in directory order.
// Results are cached per city code; a failed lookup is reported as a
// ResolutionError so the workflow can settle with an empty result set.
func (c *Client) HotelsByCity(ctx context.Context, cityCode string) ([]hotels.DirectoryEntry, error) {
	cached, _, err := cache.GetOrFetch("directory_cache", cityCode, func() (*directoryResponse, error) {
		params := url.Values{}
		params.Set("cityCode", cityCode)

		var resp directoryResponse
		if fetchErr := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", params, &resp); fetchErr != nil {
			return nil, fetchErr
		}
		return &resp, nil
	})
	if err != nil {
		return nil, errors.NewResolutionError(cityCode, http.StatusBadGateway, err.Error())
	}

	return cached.entries(), nil
}

// Suggestion is one autocomplete match from the keyword directory search.
type Suggestion struct {
	Name     string
	HotelIDs []string
}

// suggestResponse matches hotels/by-keyword responses.
type suggestResponse struct {
	Data []struct {
		Name     string   `json:"name"`
		HotelIDs []string `json:"hotelIds"`
	} `json:"data"`
}

// HotelsByKeyword searches hotel names matching a keyword, optionally scoped
// to a country. The search bar uses this for autocomplete; the country code
// typically comes from the active session's resolution.
func (c *Client) HotelsByKeyword(ctx context.Context, keyword, countryCode string) ([]Suggestion, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	cacheKey := keyword + "|" + countryCode
	cached, _, err := cache.GetOrFetch("suggest_cache", cacheKey, func() (*suggestResponse, error) {
		params := url.Values{}
		params.Set("keyword", keyword)
		if countryCode != "" {
			params.Set("countryCode", countryCode)
		}

		var resp suggestResponse
		if fetchErr := c.get(ctx, "/v1/reference-data/locations/hotels/by-keyword", params, &resp); fetchErr != nil {
			return nil, fetchErr
		}
		return &resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("hotel keyword search failed: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(cached.Data))
	for _, item := range cached.Data {
		suggestions = append(suggestions, Suggestion{
			Name:     item.Name,
			HotelIDs: item.HotelIDs,
		})
	}
	return suggestions, nil
}

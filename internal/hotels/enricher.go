package hotels

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Enricher fetches auxiliary display data for one hotel from an external
// source. Each implementation handles its own authentication, rate limiting,
// and caching, and transforms its response into the common EnrichmentData.
type Enricher interface {
	// Name returns the human-readable name of the source (e.g., "Google Places").
	Name() string

	// Priority returns the priority when merging data. Lower values indicate
	// higher priority and win when two sources report the same field.
	Priority() int

	// Enrich retrieves auxiliary data for the hotel. Returns nil, nil when
	// the source has nothing for this hotel (other enrichers still apply).
	// Returns nil, error for actual failures (network issues, rate limits).
	Enrich(ctx context.Context, hotel Offer) (*EnrichmentData, error)
}

// EnricherResult is the data fetched from a single Enricher for one hotel.
type EnricherResult struct {
	Data     *EnrichmentData
	Source   string
	Priority int
}

// mergeByPriority combines per-source results into one EnrichmentData.
// Results are sorted by priority (lower = higher precedence) and each field
// takes the first non-empty value.
func mergeByPriority(results []EnricherResult) *EnrichmentData {
	if len(results) == 0 {
		return nil
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Priority < results[j].Priority
	})

	merged := &EnrichmentData{}
	for _, result := range results {
		if result.Data == nil {
			continue
		}
		if merged.PhotoURL == nil && result.Data.PhotoURL != nil && *result.Data.PhotoURL != "" {
			merged.PhotoURL = result.Data.PhotoURL
		}
		if merged.Rating == nil && result.Data.Rating != nil {
			merged.Rating = result.Data.Rating
		}
		if merged.StreetAddress == nil && result.Data.StreetAddress != nil && *result.Data.StreetAddress != "" {
			merged.StreetAddress = result.Data.StreetAddress
		}
	}
	return merged
}

// enrichHotel runs all enrichers for one hotel and merges their results.
// A failing enricher is logged and skipped; it never blocks the others.
func enrichHotel(ctx context.Context, enrichers []Enricher, hotel Offer) *EnrichmentData {
	results := make([]EnricherResult, 0, len(enrichers))

	for _, e := range enrichers {
		data, err := e.Enrich(ctx, hotel)
		if err != nil {
			slog.Debug("Enricher failed", "enricher", e.Name(), "hotel_id", hotel.HotelID, "error", err)
			continue
		}
		if data != nil {
			results = append(results, EnricherResult{
				Data:     data,
				Source:   e.Name(),
				Priority: e.Priority(),
			})
		}
	}

	return mergeByPriority(results)
}

// FanOut launches one enrichment goroutine per available hotel in a freshly
// retrieved batch and returns without waiting. Each goroutine applies its
// merged result through apply as soon as it resolves, so fast lookups render
// while slow ones are still in flight. The returned WaitGroup lets a caller
// that needs a settled view join the stragglers.
//
// A hotel whose every lookup fails simply keeps an empty EnrichmentData;
// nothing is retried and no error escapes to the caller.
func FanOut(ctx context.Context, enrichers []Enricher, offers []Offer, apply func(hotelID string, data EnrichmentData)) *sync.WaitGroup {
	var wg sync.WaitGroup

	for _, offer := range offers {
		if !offer.Available {
			continue
		}

		wg.Add(1)
		go func(hotel Offer) {
			defer wg.Done()

			data := enrichHotel(ctx, enrichers, hotel)
			if data == nil {
				return
			}
			apply(hotel.HotelID, *data)
		}(offer)
	}

	return &wg
}

package amadeus

import (
	"context"
	"net/url"

	"github.com/jlaurila/stayscout/internal/cache"
	"github.com/jlaurila/stayscout/internal/hotels"
)

const sentimentPriority = 2

// sentimentsResponse matches the subset of e-reputation/hotel-sentiments
// responses the workflow consumes. OverallRating is on a 0-100 scale.
type sentimentsResponse struct {
	Data []struct {
		HotelID       string `json:"hotelId"`
		OverallRating int    `json:"overallRating"`
	} `json:"data"`
}

// cachedSentiment wraps one hotel's sentiment rating for negative caching:
// most hotels simply have no sentiment data and asking again every session
// would burn quota.
type cachedSentiment struct {
	Rating   *int `json:"rating"`
	NotFound bool `json:"not_found"`
}

// SentimentEnricher surfaces Amadeus sentiment ratings as an enrichment
// source. It ranks below Google Places, so its rating only shows when
// Places had none.
type SentimentEnricher struct {
	client *Client
}

// Compile-time check that SentimentEnricher implements hotels.Enricher.
var _ hotels.Enricher = (*SentimentEnricher)(nil)

// NewSentimentEnricher creates a sentiment-backed enricher on top of an
// existing Client.
func NewSentimentEnricher(client *Client) *SentimentEnricher {
	return &SentimentEnricher{client: client}
}

// Name returns the human-readable name of this enricher.
func (e *SentimentEnricher) Name() string {
	return "Amadeus Sentiments"
}

// Priority returns the priority for merging data (lower = higher precedence).
func (e *SentimentEnricher) Priority() int {
	return sentimentPriority
}

// Enrich fetches the hotel's overall sentiment rating and normalizes it to
// the 0-5 display scale.
func (e *SentimentEnricher) Enrich(ctx context.Context, hotel hotels.Offer) (*hotels.EnrichmentData, error) {
	if hotel.HotelID == "" {
		return nil, nil
	}

	cached, _, err := cache.GetOrFetchWithTTL("sentiments_cache", hotel.HotelID,
		func() (*cachedSentiment, error) {
			return e.fetch(ctx, hotel.HotelID)
		},
		cache.SelectNegativeCacheTTL(func(r *cachedSentiment) bool {
			return r.NotFound
		}))
	if err != nil {
		return nil, err
	}

	if cached.NotFound || cached.Rating == nil {
		return nil, nil
	}

	rating := float64(*cached.Rating) / 20.0 // 0-100 provider scale to 0-5
	return &hotels.EnrichmentData{Rating: &rating}, nil
}

func (e *SentimentEnricher) fetch(ctx context.Context, hotelID string) (*cachedSentiment, error) {
	params := url.Values{}
	params.Set("hotelIds", hotelID)

	var resp sentimentsResponse
	if err := e.client.get(ctx, "/v2/e-reputation/hotel-sentiments", params, &resp); err != nil {
		return nil, err
	}

	for _, item := range resp.Data {
		if item.HotelID == hotelID {
			rating := item.OverallRating
			return &cachedSentiment{Rating: &rating}, nil
		}
	}

	// No sentiment data for this hotel; cache the miss
	return &cachedSentiment{NotFound: true}, nil
}

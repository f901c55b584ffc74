package hotels

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubEnricher serves fixed data per hotel ID, or a fixed error.
type stubEnricher struct {
	name     string
	priority int
	data     map[string]*EnrichmentData
	err      error
}

func (s *stubEnricher) Name() string  { return s.name }
func (s *stubEnricher) Priority() int { return s.priority }

func (s *stubEnricher) Enrich(ctx context.Context, hotel Offer) (*EnrichmentData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[hotel.HotelID], nil
}

func TestMergeByPriority(t *testing.T) {
	placesRating := 4.5
	sentimentRating := 3.0
	photo := "https://img.example/1.jpg"

	results := []EnricherResult{
		{Source: "sentiments", Priority: 2, Data: &EnrichmentData{Rating: &sentimentRating}},
		{Source: "places", Priority: 1, Data: &EnrichmentData{Rating: &placesRating, PhotoURL: &photo}},
	}

	merged := mergeByPriority(results)
	require.NotNil(t, merged)
	require.Equal(t, 4.5, *merged.Rating, "lower priority value wins the contested field")
	require.Equal(t, photo, *merged.PhotoURL)
}

func TestMergeByPriorityFillsGaps(t *testing.T) {
	sentimentRating := 3.8
	addr := "123 Main St"

	results := []EnricherResult{
		{Source: "places", Priority: 1, Data: &EnrichmentData{StreetAddress: &addr}},
		{Source: "sentiments", Priority: 2, Data: &EnrichmentData{Rating: &sentimentRating}},
	}

	merged := mergeByPriority(results)
	require.NotNil(t, merged)
	require.Equal(t, 3.8, *merged.Rating, "lower-ranked source fills fields the winner lacked")
	require.Equal(t, addr, *merged.StreetAddress)
	require.Nil(t, merged.PhotoURL)
}

func TestMergeByPriorityEmpty(t *testing.T) {
	require.Nil(t, mergeByPriority(nil))
}

func TestEnrichHotelToleratesFailingSource(t *testing.T) {
	working := &stubEnricher{
		name:     "working",
		priority: 2,
		data: map[string]*EnrichmentData{
			"HL1": {Rating: floatPtr(4.0)},
		},
	}
	broken := &stubEnricher{name: "broken", priority: 1, err: fmt.Errorf("boom")}

	data := enrichHotel(context.Background(), []Enricher{broken, working}, Offer{HotelID: "HL1"})
	require.NotNil(t, data, "one failing source must not discard the others' data")
	require.Equal(t, 4.0, *data.Rating)
}

func TestFanOutAppliesResults(t *testing.T) {
	enricher := &stubEnricher{
		name:     "stub",
		priority: 1,
		data: map[string]*EnrichmentData{
			"HL1": {Rating: floatPtr(4.1)},
			"HL2": {Rating: floatPtr(2.9)},
		},
	}

	offers := []Offer{
		{HotelID: "HL1", Available: true},
		{HotelID: "HL2", Available: true},
		{HotelID: "HL3", Available: false}, // must not be enriched
	}

	acc := NewAccumulator()
	for _, o := range offers {
		acc.Insert(o)
	}

	wg := FanOut(context.Background(), []Enricher{enricher}, offers, func(hotelID string, data EnrichmentData) {
		acc.Merge(hotelID, data)
	})
	wg.Wait()

	records := acc.Snapshot(SnapshotOptions{Sort: SortRatingDesc})
	require.Len(t, records, 2)
	require.Equal(t, 4.1, *records[0].Enrichment.Rating)
	require.Equal(t, 2.9, *records[1].Enrichment.Rating)
}

func TestFanOutPartialEnrichment(t *testing.T) {
	// Only HL1 has data; HL2's lookups all come up empty
	enricher := &stubEnricher{
		name:     "stub",
		priority: 1,
		data: map[string]*EnrichmentData{
			"HL1": {PhotoURL: strPtr("https://img.example/1.jpg")},
		},
	}

	offers := []Offer{
		{HotelID: "HL1", Available: true, PriceTotal: "100.00"},
		{HotelID: "HL2", Available: true, PriceTotal: "200.00"},
	}

	acc := NewAccumulator()
	for _, o := range offers {
		acc.Insert(o)
	}

	wg := FanOut(context.Background(), []Enricher{enricher}, offers, func(hotelID string, data EnrichmentData) {
		acc.Merge(hotelID, data)
	})
	wg.Wait()

	records := acc.Snapshot(SnapshotOptions{Sort: SortPriceAsc})
	require.Len(t, records, 2, "a hotel with no enrichment still renders with its offer fields")
	require.NotNil(t, records[0].Enrichment.PhotoURL)
	require.Nil(t, records[1].Enrichment.PhotoURL)
	require.Equal(t, "200.00", records[1].Offer.PriceTotal)
}

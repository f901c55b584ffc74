package search

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"

	"github.com/jlaurila/stayscout/internal/amadeus"
	"github.com/jlaurila/stayscout/internal/hotels"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{
			name:   "valid",
			params: Params{City: "NYC", CheckIn: "2026-10-01", CheckOut: "2026-10-05", Adults: 2},
		},
		{
			name:    "missing city",
			params:  Params{CheckIn: "2026-10-01", CheckOut: "2026-10-05"},
			wantErr: "city code is required",
		},
		{
			name:    "bad check-in",
			params:  Params{City: "NYC", CheckIn: "10/01/2026", CheckOut: "2026-10-05"},
			wantErr: "invalid check-in date",
		},
		{
			name:    "check-out before check-in",
			params:  Params{City: "NYC", CheckIn: "2026-10-05", CheckOut: "2026-10-01"},
			wantErr: "check-out date must be after",
		},
		{
			name:    "check-out equals check-in",
			params:  Params{City: "NYC", CheckIn: "2026-10-01", CheckOut: "2026-10-01"},
			wantErr: "check-out date must be after",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate(&tc.params)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateClampsAdults(t *testing.T) {
	params := Params{City: "NYC", CheckIn: "2026-10-01", CheckOut: "2026-10-05", Adults: 0}
	require.NoError(t, validate(&params))
	assert.Equal(t, 1, params.Adults)
}

func TestPrintResults(t *testing.T) {
	query := hotels.Query{CityCode: "NYC", CheckIn: "2026-10-01", CheckOut: "2026-10-05"}
	records := []hotels.Record{
		{
			Offer: hotels.Offer{
				HotelID:         "HL1",
				Name:            "Hotel Alpha",
				Available:       true,
				PriceTotal:      "245.00",
				Currency:        "USD",
				RoomDescription: "Deluxe King",
			},
			Enrichment: hotels.EnrichmentData{
				Rating:        floatPtr(4.2),
				StreetAddress: strPtr("123 Main St"),
			},
		},
	}

	var sb strings.Builder
	printResults(&sb, query, records)

	out := sb.String()
	assert.Contains(t, out, "1 available hotels in NYC")
	assert.Contains(t, out, "Hotel Alpha")
	assert.Contains(t, out, "245.00 USD")
	assert.Contains(t, out, "4.2/5")
	assert.Contains(t, out, "123 Main St")
	assert.Contains(t, out, "Deluxe King")
}

func TestPrintResultsEmpty(t *testing.T) {
	query := hotels.Query{CityCode: "XXX", CheckIn: "2026-10-01", CheckOut: "2026-10-05"}

	var sb strings.Builder
	printResults(&sb, query, nil)

	assert.Contains(t, sb.String(), "No available hotels found in XXX")
}

func TestExportResults(t *testing.T) {
	records := []hotels.Record{
		{
			Offer: hotels.Offer{
				HotelID:    "HL1",
				Name:       "Hotel Alpha",
				PriceTotal: "245.00",
				Currency:   "USD",
				Latitude:   40.7,
				Longitude:  -74.0,
			},
			Enrichment: hotels.EnrichmentData{
				Rating:   floatPtr(4.2),
				PhotoURL: strPtr("https://img.example/1.jpg"),
			},
		},
		{
			Offer: hotels.Offer{HotelID: "HL2", Name: "Hotel Beta"},
		},
	}

	results := exportResults(records)
	require.Len(t, results, 2)

	assert.Equal(t, "HL1", results[0].HotelID)
	assert.Equal(t, "245.00", results[0].Price)
	assert.Equal(t, 4.2, *results[0].Rating)
	assert.Equal(t, 40.7, results[0].Latitude)

	assert.Zero(t, results[1].Rating)
	assert.Zero(t, results[1].PhotoURL)
	assert.Zero(t, results[1].Price)
}

func TestPrintSuggestions(t *testing.T) {
	suggestions := []amadeus.Suggestion{
		{Name: "RITZ PARIS", HotelIDs: []string{"RTPAR001"}},
		{Name: "RITZ LYON", HotelIDs: []string{"RTLYS001", "RTLYS002"}},
	}

	var sb strings.Builder
	printSuggestions(&sb, "RITZ", suggestions)

	out := sb.String()
	assert.Contains(t, out, "RITZ PARIS (1 hotels)")
	assert.Contains(t, out, "RITZ LYON (2 hotels)")
}

func TestPrintSuggestionsEmpty(t *testing.T) {
	var sb strings.Builder
	printSuggestions(&sb, "NOWHERE", nil)
	assert.Contains(t, sb.String(), `No hotels matching "NOWHERE"`)
}

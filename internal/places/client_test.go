package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jlaurila/stayscout/internal/cache"
	"github.com/jlaurila/stayscout/internal/hotels"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	viper.Reset()
	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "cache.db"))
	_ = cache.ResetGlobalCache()
	t.Cleanup(func() {
		_ = cache.ResetGlobalCache()
		viper.Reset()
	})

	return NewClientWithHTTPClient("test-key", server.URL, server.Client())
}

func TestEnrich(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "Hotel Alpha", q.Get("query"))
		require.Equal(t, "test-key", q.Get("key"))
		require.NotEmpty(t, q.Get("location"))

		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"place_id": "ChIJalpha",
				"photos": [{"photo_reference": "ref-1"}, {"photo_reference": "ref-2"}],
				"rating": 4.3,
				"formatted_address": "123 Main St, New York, NY 10001, USA"
			}]
		}`))
	})

	client := setupClient(t, mux)

	data, err := client.Enrich(context.Background(), hotels.Offer{
		Name:      "Hotel Alpha",
		Latitude:  40.7,
		Longitude: -74.0,
	})
	require.NoError(t, err)
	require.NotNil(t, data)

	require.NotNil(t, data.PhotoURL)
	require.Contains(t, *data.PhotoURL, "/place/photo?")
	require.Contains(t, *data.PhotoURL, "photoreference=ref-1")

	require.NotNil(t, data.Rating)
	require.Equal(t, 4.3, *data.Rating)

	require.NotNil(t, data.StreetAddress)
	require.Equal(t, "123 Main St", *data.StreetAddress)
}

func TestEnrichNotFound(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	client := setupClient(t, mux)

	hotel := hotels.Offer{Name: "Nonexistent Hotel", Latitude: 1, Longitude: 1}
	data, err := client.Enrich(context.Background(), hotel)
	require.NoError(t, err)
	require.Nil(t, data)

	// The miss is negatively cached
	data, err = client.Enrich(context.Background(), hotel)
	require.NoError(t, err)
	require.Nil(t, data)
	require.Equal(t, 1, calls)
}

func TestEnrichNamelessHotel(t *testing.T) {
	client := setupClient(t, http.NewServeMux())

	data, err := client.Enrich(context.Background(), hotels.Offer{HotelID: "HLNYC001"})
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestEnrichPartialResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		// No photos, no rating - just an address
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"place_id": "ChIJbeta",
				"formatted_address": "9 Rue de la Paix, Paris, France"
			}]
		}`))
	})

	client := setupClient(t, mux)

	data, err := client.Enrich(context.Background(), hotels.Offer{Name: "Hotel Beta"})
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Nil(t, data.PhotoURL)
	require.Nil(t, data.Rating)
	require.NotNil(t, data.StreetAddress)
	require.Equal(t, "9 Rue de la Paix", *data.StreetAddress)
}

func TestEnrichAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/place/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
	})

	client := setupClient(t, mux)

	data, err := client.Enrich(context.Background(), hotels.Offer{Name: "Hotel Gamma"})
	require.Error(t, err)
	require.Nil(t, data)
	require.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestStreetAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "full US address",
			input:    "123 Main St, New York, NY 10001, USA",
			expected: "123 Main St",
		},
		{
			name:     "single component",
			input:    "Hotel Plaza",
			expected: "Hotel Plaza",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, streetAddress(tt.input))
		})
	}
}

// Package search implements the hotel search command: it drives the full
// aggregation workflow (resolve, batch, enrich, accumulate) and renders or
// exports the result set.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/jlaurila/stayscout/internal/amadeus"
	"github.com/jlaurila/stayscout/internal/config"
	"github.com/jlaurila/stayscout/internal/errors"
	"github.com/jlaurila/stayscout/internal/fileutil"
	"github.com/jlaurila/stayscout/internal/hotels"
	"github.com/jlaurila/stayscout/internal/places"
	"github.com/jlaurila/stayscout/internal/tui"
)

// Params holds the search command's inputs after flag and config merging.
type Params struct {
	City        string
	CheckIn     string
	CheckOut    string
	Adults      int
	Category    string
	Featured    int // stop threshold for the first page; 0 means config default
	JSON        bool
	JSONOutput  string
	Interactive bool
}

// HotelResult is the JSON export shape for one hotel.
type HotelResult struct {
	HotelID       string   `json:"hotel_id"`
	Name          string   `json:"name"`
	Price         string   `json:"price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Room          string   `json:"room,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	PhotoURL      *string  `json:"photo_url,omitempty"`
	StreetAddress *string  `json:"street_address,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`
}

// Run executes a hotel search and renders the results.
func Run(params Params) error {
	if err := validate(&params); err != nil {
		return err
	}

	amadeusClient, err := newAmadeusClient()
	if err != nil {
		return err
	}

	enrichers := make([]hotels.Enricher, 0, 2)
	var placesClient *places.Client
	if config.PlacesAPIKey != "" {
		placesClient = places.NewClient(config.PlacesAPIKey)
		enrichers = append(enrichers, placesClient)
	} else {
		slog.Warn("No Places API key configured, skipping photo and address enrichment")
	}
	enrichers = append(enrichers, amadeus.NewSentimentEnricher(amadeusClient))

	query := hotels.Query{
		CityCode: params.City,
		CheckIn:  params.CheckIn,
		CheckOut: params.CheckOut,
		Adults:   params.Adults,
		Category: hotels.ParseCategory(params.Category),
	}

	sess := hotels.NewSession(query,
		hotels.NewResolver(amadeusClient),
		hotels.NewScheduler(amadeusClient, amadeus.MaxOfferIDsPerRequest),
		enrichers)

	featured := params.Featured
	if featured <= 0 {
		featured = viper.GetInt("search.featured")
	}

	ctx := context.Background()
	if err := sess.Search(ctx, hotels.MinAvailable(featured)); err != nil {
		if errors.IsResolutionError(err) {
			// Degrade to an empty result set, matching what the snapshot holds
			slog.Warn("Could not resolve hotels for city", "city", params.City, "error", err)
		} else {
			slog.Warn("Search ended with an error, showing partial results", "error", err)
		}
	}

	if params.Interactive {
		return browse(ctx, sess)
	}

	records := sess.Snapshot(hotels.SnapshotOptions{Sort: hotels.SortPriceAsc})
	printResults(os.Stdout, query, records)

	if config.DownloadPhotos && placesClient != nil {
		downloadPhotos(ctx, placesClient, records)
	}

	if params.JSON {
		output := params.JSONOutput
		if output == "" {
			output = filepath.Join(viper.GetString("JSONOutputDir"), "hotels.json")
		}
		if _, err := fileutil.WriteJSONFile(exportResults(records), output, true); err != nil {
			return err
		}
	}

	return nil
}

func validate(params *Params) error {
	if params.City == "" {
		return fmt.Errorf("city code is required (provide via --city flag or search.city in config)")
	}
	checkIn, err := time.Parse("2006-01-02", params.CheckIn)
	if err != nil {
		return fmt.Errorf("invalid check-in date %q, expected YYYY-MM-DD", params.CheckIn)
	}
	checkOut, err := time.Parse("2006-01-02", params.CheckOut)
	if err != nil {
		return fmt.Errorf("invalid check-out date %q, expected YYYY-MM-DD", params.CheckOut)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("check-out date must be after check-in date")
	}
	if params.Adults < 1 {
		params.Adults = 1
	}
	return nil
}

func newAmadeusClient() (*amadeus.Client, error) {
	if config.AmadeusAPIKey == "" || config.AmadeusAPISecret == "" {
		return nil, fmt.Errorf("amadeus API credentials are required (set AMADEUS_API_KEY and AMADEUS_API_SECRET or AmadeusAPIKey/AmadeusAPISecret in config)")
	}
	return amadeus.NewClient(config.AmadeusAPIKey, config.AmadeusAPISecret), nil
}

// browse hands the session to the interactive viewer. Load-more stays wired
// so the user can page through the remaining candidates.
func browse(ctx context.Context, sess *hotels.Session) error {
	query := sess.Query()
	browser := tui.Browser{
		Title:    fmt.Sprintf("Hotels in %s (%s to %s)", query.CityCode, query.CheckIn, query.CheckOut),
		Snapshot: sess.Snapshot,
	}
	if !sess.Exhausted() {
		// search.nearby controls how many hotels each load-more round adds
		more := viper.GetInt("search.nearby")
		browser.LoadMore = func(n int) error {
			if more > 0 {
				n = more
			}
			return sess.LoadMore(ctx, n)
		}
	}
	return tui.Browse(browser)
}

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("247")).Faint(true)
)

func printResults(w io.Writer, query hotels.Query, records []hotels.Record) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No available hotels found in %s for %s to %s.\n", query.CityCode, query.CheckIn, query.CheckOut)
		return
	}

	fmt.Fprintf(w, "%d available hotels in %s (%s to %s):\n\n", len(records), query.CityCode, query.CheckIn, query.CheckOut)
	for _, rec := range records {
		fmt.Fprintln(w, nameStyle.Render(rec.Offer.Name))
		if rec.Offer.PriceTotal != "" {
			fmt.Fprintln(w, "  "+priceStyle.Render(rec.Offer.PriceTotal+" "+rec.Offer.Currency))
		}
		if rec.Enrichment.Rating != nil {
			fmt.Fprintf(w, "  %.1f/5\n", *rec.Enrichment.Rating)
		}
		if rec.Enrichment.StreetAddress != nil {
			fmt.Fprintln(w, "  "+detailStyle.Render(*rec.Enrichment.StreetAddress))
		}
		if rec.Offer.RoomDescription != "" {
			fmt.Fprintln(w, "  "+detailStyle.Render(rec.Offer.RoomDescription))
		}
		fmt.Fprintln(w)
	}
}

func exportResults(records []hotels.Record) []HotelResult {
	results := make([]HotelResult, 0, len(records))
	for _, rec := range records {
		results = append(results, HotelResult{
			HotelID:       rec.Offer.HotelID,
			Name:          rec.Offer.Name,
			Price:         rec.Offer.PriceTotal,
			Currency:      rec.Offer.Currency,
			Room:          rec.Offer.RoomDescription,
			Rating:        rec.Enrichment.Rating,
			PhotoURL:      rec.Enrichment.PhotoURL,
			StreetAddress: rec.Enrichment.StreetAddress,
			Latitude:      rec.Offer.Latitude,
			Longitude:     rec.Offer.Longitude,
		})
	}
	return results
}

// downloadPhotos saves a thumbnail per photographed hotel. Failures are
// logged and skipped; photo downloads never fail the search.
func downloadPhotos(ctx context.Context, client *places.Client, records []hotels.Record) {
	photoDir := viper.GetString("PhotoOutputDir")
	for _, rec := range records {
		if rec.Enrichment.PhotoURL == nil {
			continue
		}
		savePath := fileutil.PhotoFilePath(rec.Offer.Name, photoDir)
		if fileutil.FileExists(savePath) {
			continue
		}
		if err := client.DownloadAndResizeImage(ctx, *rec.Enrichment.PhotoURL, savePath, 0); err != nil {
			slog.Warn("Failed to download hotel photo", "hotel", rec.Offer.Name, "error", err)
			continue
		}
		slog.Debug("Saved hotel photo", "hotel", rec.Offer.Name, "path", savePath)
	}
}

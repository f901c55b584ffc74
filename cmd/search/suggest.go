package search

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jlaurila/stayscout/internal/amadeus"
)

// RunSuggest prints hotel name suggestions for a keyword, optionally scoped
// to a country code. Suggestions come from the cached hotel directory, so
// repeated lookups for the same keyword are free.
func RunSuggest(keyword, countryCode string) error {
	if strings.TrimSpace(keyword) == "" {
		return fmt.Errorf("a search keyword is required")
	}

	client, err := newAmadeusClient()
	if err != nil {
		return err
	}

	suggestions, err := client.HotelsByKeyword(context.Background(), keyword, countryCode)
	if err != nil {
		return err
	}

	printSuggestions(os.Stdout, keyword, suggestions)
	return nil
}

func printSuggestions(w io.Writer, keyword string, suggestions []amadeus.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintf(w, "No hotels matching %q.\n", keyword)
		return
	}

	for _, s := range suggestions {
		fmt.Fprintf(w, "%s (%d hotels)\n", s.Name, len(s.HotelIDs))
	}
}

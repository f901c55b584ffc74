package hotels

import (
	"context"
	"log/slog"
)

// DirectoryEntry is one hotel from the directory service's city listing.
type DirectoryEntry struct {
	HotelID     string
	Name        string
	CountryCode string
}

// DirectoryClient lists the candidate hotels for a location. Implementations
// handle their own authentication, caching, and rate limiting.
type DirectoryClient interface {
	HotelsByCity(ctx context.Context, cityCode string) ([]DirectoryEntry, error)
}

// Resolution is the outcome of resolving a city's candidate hotel list.
// CountryCode is best-effort (taken from the first directory entry that has
// one) and may be empty; downstream keyword searches use it for locale
// scoping when present.
type Resolution struct {
	HotelIDs    []string
	CountryCode string
}

// Resolver retrieves the full ordered candidate identifier list for a city.
type Resolver struct {
	directory DirectoryClient
}

// NewResolver creates a Resolver backed by the given directory client.
func NewResolver(directory DirectoryClient) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve returns the candidate hotel IDs for cityCode in directory order.
// An empty city code resolves to an empty list without a network call. On
// provider failure it returns an empty Resolution together with the error so
// the caller can settle with "no results" instead of propagating a panic
// path through the presentation layer.
func (r *Resolver) Resolve(ctx context.Context, cityCode string) (Resolution, error) {
	if cityCode == "" {
		return Resolution{}, nil
	}

	entries, err := r.directory.HotelsByCity(ctx, cityCode)
	if err != nil {
		slog.Warn("Hotel directory lookup failed", "city", cityCode, "error", err)
		return Resolution{}, err
	}

	res := Resolution{HotelIDs: make([]string, 0, len(entries))}
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.HotelID == "" || seen[entry.HotelID] {
			continue
		}
		seen[entry.HotelID] = true
		res.HotelIDs = append(res.HotelIDs, entry.HotelID)
		if res.CountryCode == "" && entry.CountryCode != "" {
			res.CountryCode = entry.CountryCode
		}
	}

	slog.Debug("Resolved hotel candidates", "city", cityCode, "count", len(res.HotelIDs), "country", res.CountryCode)
	return res, nil
}

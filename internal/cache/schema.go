package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column for consistency

// DirectoryCacheSchema defines the schema for the hotel directory cache
// (hotel lists per city code). Hotel inventory for a city changes rarely.
const DirectoryCacheSchema = `
CREATE TABLE IF NOT EXISTS directory_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_directory_cached_at ON directory_cache(cached_at);
`

// SuggestCacheSchema defines the schema for hotel keyword suggestion cache
const SuggestCacheSchema = `
CREATE TABLE IF NOT EXISTS suggest_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_suggest_cached_at ON suggest_cache(cached_at);
`

// PlacesCacheSchema defines the schema for Google Places enrichment cache
// (photo URL, rating, street address per hotel)
const PlacesCacheSchema = `
CREATE TABLE IF NOT EXISTS places_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_places_cached_at ON places_cache(cached_at);
`

// SentimentsCacheSchema defines the schema for hotel sentiment rating cache
const SentimentsCacheSchema = `
CREATE TABLE IF NOT EXISTS sentiments_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sentiments_cached_at ON sentiments_cache(cached_at);
`

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	DirectoryCacheSchema,
	SuggestCacheSchema,
	PlacesCacheSchema,
	SentimentsCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	"directory_cache":  true,
	"suggest_cache":    true,
	"places_cache":     true,
	"sentiments_cache": true,
}

// Note: live hotel-offer pricing is intentionally never cached. Offers are
// date- and occupancy-specific and stale prices would be worse than a
// refetch, so only the directory, suggestion, and enrichment lookups go
// through this package.

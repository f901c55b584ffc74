package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jlaurila/stayscout/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	AmadeusAPIKey    string
	AmadeusAPISecret string
	PlacesAPIKey     string
	DownloadPhotos   bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		AmadeusAPIKey:    config.AmadeusAPIKey,
		AmadeusAPISecret: config.AmadeusAPISecret,
		PlacesAPIKey:     config.PlacesAPIKey,
		DownloadPhotos:   config.DownloadPhotos,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.AmadeusAPIKey = state.AmadeusAPIKey
	config.AmadeusAPISecret = state.AmadeusAPISecret
	config.PlacesAPIKey = state.PlacesAPIKey
	config.DownloadPhotos = state.DownloadPhotos
}

// SetTestConfig sets known test values for the config package and restores
// the previous values when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	t.Cleanup(func() { RestoreConfigState(state) })

	config.AmadeusAPIKey = "test-amadeus-key"
	config.AmadeusAPISecret = "test-amadeus-secret"
	config.PlacesAPIKey = "test-places-key"
	config.DownloadPhotos = false
}

// SetViperValue sets a viper key for the duration of the test.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, nil) })
}

// SetupTestCache points the cache at a database inside the test environment
// with a short TTL, and returns the directory holding it.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.TempDir("cache-")
	SetViperValue(t, "cache.dbfile", filepath.Join(cacheDir, "test-cache.db"))
	SetViperValue(t, "cache.ttl", "24h")
	return cacheDir
}

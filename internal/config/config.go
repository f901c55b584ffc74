package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// AmadeusAPIKey is the client ID for the Amadeus self-service APIs
	AmadeusAPIKey string
	// AmadeusAPISecret is the client secret for the Amadeus self-service APIs
	AmadeusAPISecret string
	// PlacesAPIKey is the API key for the Google Places API
	PlacesAPIKey string
	// DownloadPhotos controls whether hotel photos are downloaded alongside results
	DownloadPhotos bool
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("PhotoOutputDir", "./photos/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("DownloadPhotos", false)

	// Get values from viper
	DownloadPhotos = viper.GetBool("DownloadPhotos")
	AmadeusAPIKey = viper.GetString("AmadeusAPIKey")
	AmadeusAPISecret = viper.GetString("AmadeusAPISecret")
	PlacesAPIKey = viper.GetString("PlacesAPIKey")
}

// SetDownloadPhotos sets the DownloadPhotos flag
func SetDownloadPhotos(download bool) {
	DownloadPhotos = download
}

package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jlaurila/stayscout/cmd/search"
	"github.com/jlaurila/stayscout/internal/cache"
	"github.com/jlaurila/stayscout/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var runSearch = search.Run

// CLI represents the complete command structure for the stayscout application
type CLI struct {
	// Global flags
	DownloadPhotos bool `help:"Download hotel photos alongside search results"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 168h for 7 days)" default:"168h"`

	Search  SearchCmd  `cmd:"" help:"Search hotel offers for a city and stay"`
	Suggest SuggestCmd `cmd:"" help:"Suggest hotel names matching a keyword"`
	Cache   CacheCmd   `cmd:"" help:"Manage the local API response cache"`
}

// SearchCmd represents the hotel search command
type SearchCmd struct {
	City        string `short:"c" help:"IATA city code to search (e.g., NYC, PAR)"`
	CheckIn     string `help:"Check-in date (YYYY-MM-DD)" required:""`
	CheckOut    string `help:"Check-out date (YYYY-MM-DD)" required:""`
	Adults      int    `help:"Number of adult guests" default:"1"`
	Category    string `help:"Search tier: default, budget, standard or luxury" default:"default"`
	Featured    int    `help:"Stop after this many available hotels (0 = config default)"`
	JSON        bool   `help:"Write results to JSON format"`
	JSONOutput  string `help:"Path to JSON output file (defaults to json/hotels.json)"`
	Interactive bool   `short:"i" help:"Browse results in an interactive viewer"`
}

// SuggestCmd represents the hotel keyword suggestion command
type SuggestCmd struct {
	Keyword string `arg:"" help:"Hotel name keyword to search for"`
	Country string `help:"Two-letter country code to scope the search"`
}

// CacheCmd represents the cache management command
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Delete all cached entries for one source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("stayscout"),
		kong.Description("A tool to find and compare hotel offers for a stay."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("PhotoOutputDir", "./photos/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("DownloadPhotos", false)

	// Search defaults: how many available hotels to gather before stopping,
	// and how many more each load-more round adds
	viper.SetDefault("search.featured", 3)
	viper.SetDefault("search.nearby", 4)

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "168h") // 7 days

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("AmadeusAPIKey", "AMADEUS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("AmadeusAPISecret", "AMADEUS_API_SECRET"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("PlacesAPIKey", "PLACES_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	if cli.DownloadPhotos {
		config.SetDownloadPhotos(true)
	}

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
}

// Run methods for each command

func (s *SearchCmd) Run() error {
	// Read from config if value not provided via flag
	city := s.City
	if city == "" {
		city = viper.GetString("search.city")
	}

	return runSearch(search.Params{
		City:        city,
		CheckIn:     s.CheckIn,
		CheckOut:    s.CheckOut,
		Adults:      s.Adults,
		Category:    s.Category,
		Featured:    s.Featured,
		JSON:        s.JSON,
		JSONOutput:  s.JSONOutput,
		Interactive: s.Interactive,
	})
}

func (s *SuggestCmd) Run() error {
	return search.RunSuggest(s.Keyword, s.Country)
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("STAYSCOUT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

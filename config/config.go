package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Places    PlacesConfig
	Search    SearchConfig
	Output    OutputConfig
	Cache     CacheConfig
	Recommend RecommendConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PlacesConfig holds places API configuration
type PlacesConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	// PageTokenDelay is the wait before a continuation token becomes
	// valid upstream.
	PageTokenDelay time.Duration `mapstructure:"page_token_delay"`
	// DetailRequestsPerSecond paces the per-provider detail fetches.
	DetailRequestsPerSecond float64 `mapstructure:"detail_requests_per_second"`
}

// SearchConfig holds the reference coordinate and search parameters
type SearchConfig struct {
	Latitude    float64 `mapstructure:"latitude"`
	Longitude   float64 `mapstructure:"longitude"`
	RadiusMiles float64 `mapstructure:"radius_miles"`
	Keyword     string  `mapstructure:"keyword"`
}

// OutputConfig holds the dataset file paths
type OutputConfig struct {
	RawPath             string `mapstructure:"raw_path"`
	ProcessedPath       string `mapstructure:"processed_path"`
	RecommendationsPath string `mapstructure:"recommendations_path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RecommendConfig holds the default preference set used by the collect
// pipeline's top-N report
type RecommendConfig struct {
	TopN        int      `mapstructure:"top_n"`
	MaxDistance float64  `mapstructure:"max_distance"`
	MaxBudget   float64  `mapstructure:"max_budget"`
	Values      []string `mapstructure:"values"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/carefinder/")

	// Environment variable settings
	v.SetEnvPrefix("CAREFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Places defaults
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.page_token_delay", "2s")
	v.SetDefault("places.detail_requests_per_second", 10.0)

	// Search defaults (reference coordinate: Marblehead, MA)
	v.SetDefault("search.latitude", 42.5001)
	v.SetDefault("search.longitude", -70.8578)
	v.SetDefault("search.radius_miles", 10.0)
	v.SetDefault("search.keyword", "childcare")

	// Output defaults
	v.SetDefault("output.raw_path", "childcare_raw.csv")
	v.SetDefault("output.processed_path", "childcare_processed.csv")
	v.SetDefault("output.recommendations_path", "top_recommendations.csv")

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Recommend defaults
	v.SetDefault("recommend.top_n", 10)
	v.SetDefault("recommend.max_distance", 10.0)
	v.SetDefault("recommend.max_budget", 1500.0)
	v.SetDefault("recommend.values", []string{"montessori", "play_based"})
}

// validate validates the configuration. The places API key is only
// checked by the collect pipeline; the results server never calls the
// upstream API.
func validate(config *Config) error {
	if config.Search.RadiusMiles <= 0 {
		return fmt.Errorf("search radius must be positive, got: %v", config.Search.RadiusMiles)
	}

	if config.Recommend.TopN <= 0 {
		return fmt.Errorf("recommend top_n must be positive, got: %d", config.Recommend.TopN)
	}

	return nil
}

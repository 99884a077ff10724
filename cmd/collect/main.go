package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/carefinder/backend/config"
	"github.com/carefinder/backend/internal/domain"
	"github.com/carefinder/backend/internal/infrastructure/places"
	"github.com/carefinder/backend/internal/infrastructure/storage"
	"github.com/carefinder/backend/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[collect] No .env file found, falling back to system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CareFinder collection v1.0.0")
	log.Printf("Reference: (%.4f, %.4f), radius %.0f miles, keyword %q",
		cfg.Search.Latitude, cfg.Search.Longitude, cfg.Search.RadiusMiles, cfg.Search.Keyword)

	store := storage.NewCSVStore(
		cfg.Output.RawPath,
		cfg.Output.ProcessedPath,
		cfg.Output.RecommendationsPath,
	)

	providers, err := collect(cfg)
	if err != nil {
		log.Fatalf("Collection failed: %v", err)
	}

	if len(providers) == 0 {
		log.Printf("No providers collected; writing empty datasets")
	}

	if err := store.SaveRaw(providers); err != nil {
		log.Fatalf("Failed to save raw dataset: %v", err)
	}

	featureService := usecase.NewFeatureService(cfg.Search.Latitude, cfg.Search.Longitude)
	providers = featureService.EngineerAll(providers)

	if err := store.SaveProcessed(providers); err != nil {
		log.Fatalf("Failed to save processed dataset: %v", err)
	}

	prefs := domain.Preferences{
		MaxDistance: cfg.Recommend.MaxDistance,
		MaxBudget:   cfg.Recommend.MaxBudget,
		Values:      cfg.Recommend.Values,
	}

	recommender := usecase.NewRecommendService(usecase.RecommendConfig{
		TopN:               cfg.Recommend.TopN,
		EnableDebugLogging: cfg.Server.Environment == "development",
	})
	recs := recommender.Recommend(providers, prefs)

	if err := store.SaveRecommendations(recs); err != nil {
		log.Fatalf("Failed to save recommendations: %v", err)
	}

	printReport(recs)
	log.Printf("Done. Start the results server with the processed dataset at %s", cfg.Output.ProcessedPath)
}

// collect gathers providers from the places API, or returns the built-in
// sample dataset when the API key is "demo".
func collect(cfg *config.Config) ([]domain.Provider, error) {
	if cfg.Places.APIKey == "demo" {
		log.Printf("Demo mode: using sample data")
		return sampleProviders(), nil
	}
	if cfg.Places.APIKey == "" {
		return nil, fmt.Errorf("places API key is required (set CAREFINDER_PLACES_API_KEY, or \"demo\" for sample data)")
	}

	client := places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL)
	client.SetPageTokenDelay(cfg.Places.PageTokenDelay)
	client.SetDetailRate(cfg.Places.DetailRequestsPerSecond)
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
	}

	collector := usecase.NewCollectService(client)
	return collector.Collect(
		context.Background(),
		cfg.Search.Latitude,
		cfg.Search.Longitude,
		cfg.Search.RadiusMiles,
		cfg.Search.Keyword,
	)
}

// printReport writes the ranked recommendations to stdout.
func printReport(recs []domain.Recommendation) {
	fmt.Println("\nTOP RECOMMENDATIONS")
	fmt.Println("===================")

	for i, r := range recs {
		fmt.Printf("\n#%d. %s\n", i+1, r.Name)
		fmt.Printf("   Match Score: %.1f/100\n", r.MatchScore)
		if r.Rating != nil {
			fmt.Printf("   Rating: %.1f (%d reviews)\n", *r.Rating, r.ReviewCount)
		}
		fmt.Printf("   Distance: %.1f miles\n", r.Features.DistanceMiles)
		fmt.Printf("   Est. Price: $%.0f/month\n", r.Features.EstimatedPrice)
		fmt.Printf("   Address: %s\n", r.Address)
		if r.Website != "" {
			fmt.Printf("   Website: %s\n", r.Website)
		}
	}
}

// sampleProviders is a tiny built-in dataset so the pipeline and the
// results server can be exercised without an API key.
func sampleProviders() []domain.Provider {
	rating := func(v float64) *float64 { return &v }
	coord := func(v float64) *float64 { return &v }

	return []domain.Provider{
		{
			PlaceID:     "sample-1",
			Name:        "Little Learners Academy",
			Address:     "123 Main St",
			Phone:       "555-0001",
			Rating:      rating(4.8),
			ReviewCount: 45,
			Latitude:    coord(42.5001),
			Longitude:   coord(-70.8578),
			Reviews: []domain.Review{
				{Text: "Clean and caring environment. Great teachers!"},
			},
		},
		{
			PlaceID:     "sample-2",
			Name:        "Sunshine Daycare",
			Address:     "456 Oak Ave",
			Phone:       "555-0002",
			Rating:      rating(4.2),
			ReviewCount: 28,
			Latitude:    coord(42.5102),
			Longitude:   coord(-70.8650),
			Reviews: []domain.Review{
				{Text: "Affordable and safe place for kids"},
			},
		},
		{
			PlaceID:     "sample-3",
			Name:        "Montessori School",
			Address:     "789 Pine Rd",
			Phone:       "555-0003",
			Rating:      rating(4.9),
			ReviewCount: 67,
			Latitude:    coord(42.4950),
			Longitude:   coord(-70.8520),
			Reviews: []domain.Review{
				{Text: "Amazing montessori program. Educational and fun!"},
			},
		},
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/carefinder/backend/config"
	httpDelivery "github.com/carefinder/backend/internal/delivery/http"
	"github.com/carefinder/backend/internal/domain"
	"github.com/carefinder/backend/internal/infrastructure/cache"
	"github.com/carefinder/backend/internal/infrastructure/storage"
	"github.com/carefinder/backend/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[server] No .env file found, falling back to system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CareFinder Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	store := storage.NewCSVStore(
		cfg.Output.RawPath,
		cfg.Output.ProcessedPath,
		cfg.Output.RecommendationsPath,
	)

	providers, err := store.LoadProcessed()
	if err != nil {
		if errors.Is(err, domain.ErrDatasetNotFound) {
			log.Fatalf("No processed dataset at %s.\n"+
				"Run the collection pipeline first:\n\n    go run ./cmd/collect\n",
				cfg.Output.ProcessedPath)
		}
		log.Fatalf("Failed to load processed dataset: %v", err)
	}
	log.Printf("Loaded %d childcare providers", len(providers))

	resultsService := usecase.NewResultsService(providers)
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	handler := httpDelivery.NewHandler(resultsService, memoryCache, cfg.Cache.TTL)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}

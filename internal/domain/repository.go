package domain

import (
	"context"
	"time"
)

// SearchHit is one raw result row from a nearby-search page. The search
// endpoint returns more fields, but only these are carried forward; the
// detail fetch supplies everything else.
type SearchHit struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

// PlacesClient defines the interface for the upstream places search API.
type PlacesClient interface {
	SearchNearby(ctx context.Context, lat, lng, radiusMiles float64, keyword string) ([]SearchHit, error)
	GetDetails(ctx context.Context, placeID string) (*Provider, error)
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProviderStore defines the interface for dataset persistence.
// The collect pipeline writes all three files; the results server only
// reads the processed one.
type ProviderStore interface {
	SaveRaw(providers []Provider) error
	SaveProcessed(providers []Provider) error
	SaveRecommendations(recs []Recommendation) error
	LoadProcessed() ([]Provider, error)
}

package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/carefinder/backend/internal/domain"
)

// CollectService gathers provider records from the places API: one
// paginated area search, then one detail fetch per hit.
type CollectService struct {
	client domain.PlacesClient
}

// NewCollectService creates a collect service over a places client.
func NewCollectService(client domain.PlacesClient) *CollectService {
	return &CollectService{client: client}
}

// Collect returns the combined records for every provider near the
// coordinate. Hits without an identifier are skipped; a failed or empty
// detail lookup drops that hit rather than aborting the run. Detail
// fields take precedence over search-hit fields.
func (s *CollectService) Collect(ctx context.Context, lat, lng, radiusMiles float64, keyword string) ([]domain.Provider, error) {
	log.Printf("[COLLECT] Searching for %q near (%.4f, %.4f), radius %.0f miles", keyword, lat, lng, radiusMiles)

	hits, err := s.client.SearchNearby(ctx, lat, lng, radiusMiles, keyword)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}

	if len(hits) == 0 {
		log.Printf("[COLLECT] No providers found")
		return nil, nil
	}

	providers := make([]domain.Provider, 0, len(hits))
	for _, hit := range hits {
		if hit.PlaceID == "" {
			continue
		}

		detail, err := s.client.GetDetails(ctx, hit.PlaceID)
		if err != nil {
			if ctx.Err() != nil {
				return providers, ctx.Err()
			}
			log.Printf("[COLLECT] Details for %s failed, dropping: %v", hit.PlaceID, err)
			continue
		}
		if detail == nil {
			continue
		}

		if detail.Name == "" {
			detail.Name = hit.Name
		}
		providers = append(providers, *detail)
	}

	log.Printf("[COLLECT] Collected %d providers with full details", len(providers))
	return providers, nil
}

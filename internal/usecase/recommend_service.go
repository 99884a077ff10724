package usecase

import (
	"log"
	"sort"

	"github.com/carefinder/backend/internal/domain"
)

// Match score term weights. The four terms sum to at most 100.
const (
	distanceWeight = 35.0
	priceWeight    = 30.0
	ratingWeight   = 20.0
	valuesWeight   = 15.0
)

// distanceFilterSlack lets the results view show providers slightly beyond
// the requested distance (20% over).
const distanceFilterSlack = 1.2

// rankedListCap is the maximum number of rows in the ranked results list.
const rankedListCap = 10

// RecommendConfig holds configuration for the recommend service
type RecommendConfig struct {
	TopN               int
	EnableDebugLogging bool
}

// RecommendService scores providers against a preference set and ranks them
type RecommendService struct {
	topN               int
	enableDebugLogging bool
}

// NewRecommendService creates a new recommend service with the given configuration
func NewRecommendService(config RecommendConfig) *RecommendService {
	topN := config.TopN
	if topN <= 0 {
		topN = rankedListCap
	}

	return &RecommendService{
		topN:               topN,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchScore computes how well a provider matches the preferences.
// Each term is computed independently and degrades to zero on missing
// data; the sum is clamped to [0, 100].
//
// A provider over the distance or budget limit contributes nothing for
// that term. (The original behavior was inconsistent between entry points
// — a graduated over-budget penalty in one path, zero in the other; the
// zero-out policy is applied uniformly here.)
func MatchScore(p *domain.Provider, prefs domain.Preferences) float64 {
	score := 0.0

	// Distance term (35 points)
	if prefs.MaxDistance > 0 && p.Features.DistanceMiles <= prefs.MaxDistance {
		score += distanceWeight * (1 - p.Features.DistanceMiles/prefs.MaxDistance)
	}

	// Price term (30 points)
	if prefs.MaxBudget > 0 && p.Features.EstimatedPrice <= prefs.MaxBudget {
		score += priceWeight * (1 - p.Features.EstimatedPrice/prefs.MaxBudget)
	}

	// Rating term (20 points)
	if p.Rating != nil {
		score += ratingWeight * (*p.Rating / 5.0)
	}

	// Values term (15 points)
	if len(prefs.Values) > 0 {
		matched := 0
		for _, v := range prefs.Values {
			if p.Features.ValueMentions(v) > 0 {
				matched++
			}
		}
		score += valuesWeight * (float64(matched) / float64(len(prefs.Values)))
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return score
}

// TopN scores every provider and returns the highest-scoring n, ties
// broken by the dataset's existing order (stable sort).
func (s *RecommendService) TopN(providers []domain.Provider, prefs domain.Preferences, n int) []domain.Recommendation {
	recs := scoreAll(providers, prefs)

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}

	if s.enableDebugLogging {
		for i, r := range recs {
			log.Printf("[RECOMMEND] #%d %s score=%.1f distance=%.1fmi price=$%.0f",
				i+1, r.Name, r.MatchScore, r.Features.DistanceMiles, r.Features.EstimatedPrice)
		}
	}

	return recs
}

// Recommend returns the service's configured top-N for the preference set.
func (s *RecommendService) Recommend(providers []domain.Provider, prefs domain.Preferences) []domain.Recommendation {
	log.Printf("[RECOMMEND] Scoring %d providers (max_distance=%.0fmi max_budget=$%.0f values=%v)",
		len(providers), prefs.MaxDistance, prefs.MaxBudget, prefs.Values)
	return s.TopN(providers, prefs, s.topN)
}

// scoreAll computes a match score for every provider, preserving order.
func scoreAll(providers []domain.Provider, prefs domain.Preferences) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(providers))
	for i := range providers {
		recs = append(recs, domain.Recommendation{
			Provider:   providers[i],
			MatchScore: MatchScore(&providers[i], prefs),
		})
	}
	return recs
}

package usecase

import (
	"sort"

	"github.com/carefinder/backend/internal/domain"
)

// Results is the data shape the interactive results view renders from:
// a ranked list, summary metrics, map points, and chart series. Scores
// are recomputed from scratch for every preference set.
type Results struct {
	Preferences domain.Preferences      `json:"preferences"`
	Summary     Summary                 `json:"summary"`
	Ranked      []domain.Recommendation `json:"ranked"`
	MapPoints   []MapPoint              `json:"mapPoints"`
	Analytics   Analytics               `json:"analytics"`
}

// Summary holds the headline metrics over the filtered set.
type Summary struct {
	ProvidersFound int     `json:"providersFound"`
	AvgPrice       float64 `json:"avgPrice"`
	AvgRating      float64 `json:"avgRating"`
	AvgDistance    float64 `json:"avgDistance"`
}

// MapPoint is one marker on the geographic plot, colored and sized by score.
type MapPoint struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Rating     float64 `json:"rating"`
	MatchScore float64 `json:"matchScore"`
}

// Analytics holds the descriptive chart data.
type Analytics struct {
	PriceHistogram  Histogram      `json:"priceHistogram"`
	BudgetMarker    float64        `json:"budgetMarker"`
	RatingHistogram Histogram      `json:"ratingHistogram"`
	PriceVsRating   []ScatterPoint `json:"priceVsRating"`
	DistanceVsScore []ScatterPoint `json:"distanceVsScore"`
}

// Histogram is a fixed-bin histogram over one feature column.
type Histogram struct {
	BinEdges []float64 `json:"binEdges"`
	Counts   []int     `json:"counts"`
}

// ScatterPoint is one point of a scatter series; Size and Color carry the
// third and fourth dimensions (review count / score / price depending on
// the chart).
type ScatterPoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color float64 `json:"color"`
}

const (
	priceHistogramBins  = 20
	ratingHistogramBins = 10
)

// ResultsService shapes the engineered dataset for the interactive view.
type ResultsService struct {
	providers []domain.Provider
}

// NewResultsService creates a results service over an engineered dataset.
// The dataset is treated as read-only for the life of the process.
func NewResultsService(providers []domain.Provider) *ResultsService {
	return &ResultsService{providers: providers}
}

// Providers returns the full engineered dataset.
func (s *ResultsService) Providers() []domain.Provider {
	return s.providers
}

// Compute recomputes scores for the preference set, filters to providers
// within 1.2x the max distance and at or above the minimum rating, sorts
// by descending score (stable), and derives the ranked list, summary,
// map points, and chart data.
func (s *ResultsService) Compute(prefs domain.Preferences) Results {
	recs := scoreAll(s.providers, prefs)

	filtered := recs[:0:0]
	for _, r := range recs {
		if r.Features.DistanceMiles > prefs.MaxDistance*distanceFilterSlack {
			continue
		}
		if r.RatingOr(0) < prefs.MinRating {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].MatchScore > filtered[j].MatchScore
	})

	ranked := filtered
	if len(ranked) > rankedListCap {
		ranked = ranked[:rankedListCap]
	}

	return Results{
		Preferences: prefs,
		Summary:     summarize(filtered),
		Ranked:      ranked,
		MapPoints:   mapPoints(filtered),
		Analytics:   analytics(filtered, prefs.MaxBudget),
	}
}

func summarize(recs []domain.Recommendation) Summary {
	sum := Summary{ProvidersFound: len(recs)}
	if len(recs) == 0 {
		return sum
	}

	var priceTotal, distTotal, ratingTotal float64
	rated := 0
	for _, r := range recs {
		priceTotal += r.Features.EstimatedPrice
		distTotal += r.Features.DistanceMiles
		if r.Rating != nil {
			ratingTotal += *r.Rating
			rated++
		}
	}

	sum.AvgPrice = priceTotal / float64(len(recs))
	sum.AvgDistance = distTotal / float64(len(recs))
	if rated > 0 {
		sum.AvgRating = ratingTotal / float64(rated)
	}

	return sum
}

// mapPoints drops rows without coordinates; the map cannot place them.
func mapPoints(recs []domain.Recommendation) []MapPoint {
	points := make([]MapPoint, 0, len(recs))
	for _, r := range recs {
		if !r.HasCoordinates() {
			continue
		}
		points = append(points, MapPoint{
			Name:       r.Name,
			Latitude:   *r.Latitude,
			Longitude:  *r.Longitude,
			Rating:     r.RatingOr(0),
			MatchScore: r.MatchScore,
		})
	}
	return points
}

func analytics(recs []domain.Recommendation, budget float64) Analytics {
	a := Analytics{BudgetMarker: budget}

	prices := make([]float64, 0, len(recs))
	ratings := make([]float64, 0, len(recs))
	for _, r := range recs {
		prices = append(prices, r.Features.EstimatedPrice)
		if r.Rating != nil {
			ratings = append(ratings, *r.Rating)
		}
	}

	a.PriceHistogram = histogram(prices, priceHistogramBins)
	a.RatingHistogram = histogram(ratings, ratingHistogramBins)

	for _, r := range recs {
		a.PriceVsRating = append(a.PriceVsRating, ScatterPoint{
			Name:  r.Name,
			X:     r.Features.EstimatedPrice,
			Y:     r.RatingOr(0),
			Size:  float64(r.ReviewCount),
			Color: r.MatchScore,
		})
		a.DistanceVsScore = append(a.DistanceVsScore, ScatterPoint{
			Name:  r.Name,
			X:     r.Features.DistanceMiles,
			Y:     r.MatchScore,
			Size:  r.RatingOr(0),
			Color: r.Features.EstimatedPrice,
		})
	}

	return a
}

// histogram buckets values into bins of equal width spanning [min, max].
// The last bin is closed on both ends so the maximum lands in it.
func histogram(values []float64, bins int) Histogram {
	h := Histogram{}
	if len(values) == 0 || bins <= 0 {
		return h
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	h.Counts = make([]int, bins)
	h.BinEdges = make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := 0; i <= bins; i++ {
		h.BinEdges[i] = lo + width*float64(i)
	}

	if width == 0 {
		// All values identical; everything falls in the first bin.
		h.Counts[0] = len(values)
		return h
	}

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}

	return h
}

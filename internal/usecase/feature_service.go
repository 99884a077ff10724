package usecase

import (
	"log"
	"math"
	"strings"

	"github.com/carefinder/backend/internal/domain"
)

// Earth radius in miles, used by the haversine distance.
const earthRadiusMiles = 3959.0

// Price estimation constants. The base is a rough national average for
// full-time monthly childcare; keyword balance and rating shift it.
const (
	basePriceMonthly     = 1200.0
	affordableMultiplier = 0.85
	expensiveMultiplier  = 1.25
	ratingPriceSlope     = 150.0 // $/star around the 3.5 midpoint, with reviews
	ratingOnlyPriceSlope = 200.0 // $/star around the 3.5 midpoint, no reviews
	ratingPriceMidpoint  = 3.5
)

// Quality score weights: 60% normalized rating, 40% sentiment balance.
const (
	qualityRatingWeight    = 0.6
	qualitySentimentWeight = 0.4
	qualityDefaultRating   = 3.0
)

// positiveKeywords and negativeKeywords drive the review sentiment counts.
// Matching is plain case-insensitive substring counting; there is no
// stemming or negation handling ("not clean" still counts "clean").
var positiveKeywords = []string{
	"excellent", "amazing", "wonderful", "great", "love", "best", "professional",
}

var negativeKeywords = []string{
	"poor", "bad", "terrible", "disappointed", "worst", "unprofessional",
}

// playBasedPhrases flag the play-based philosophy; any one match sets the flag.
var playBasedPhrases = []string{"play-based", "play based", "child-led"}

// FeatureService derives the numeric features for a provider record.
// Every method is a pure function of a single record, so feature logic is
// testable in isolation from the dataset.
type FeatureService struct {
	refLat float64
	refLng float64
}

// NewFeatureService creates a feature service anchored at the user's
// reference coordinate.
func NewFeatureService(refLat, refLng float64) *FeatureService {
	return &FeatureService{refLat: refLat, refLng: refLng}
}

// EngineerAll returns the providers with all derived features populated.
// Records are enriched in place and never mutated again afterward.
func (s *FeatureService) EngineerAll(providers []domain.Provider) []domain.Provider {
	for i := range providers {
		s.Engineer(&providers[i])
	}
	log.Printf("[FEATURES] Engineered features for %d providers", len(providers))
	return providers
}

// Engineer populates the derived features of a single provider.
func (s *FeatureService) Engineer(p *domain.Provider) {
	f := ExtractReviewFeatures(p.Reviews)

	if p.HasCoordinates() {
		f.DistanceMiles = Distance(s.refLat, s.refLng, *p.Latitude, *p.Longitude)
	} else {
		f.DistanceMiles = domain.MissingDistance
	}

	f.EstimatedPrice = EstimatePrice(p.Reviews, p.Rating)
	f.QualityScore = QualityScore(p.RatingOr(qualityDefaultRating), f.PositiveKeywords, f.NegativeKeywords)

	p.Features = f
}

// Distance returns the great-circle distance in miles between two
// coordinates using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMiles * c
}

// ExtractReviewFeatures counts keyword mentions over the concatenated,
// lower-cased review text. An empty review list yields all-zero counts.
func ExtractReviewFeatures(reviews []domain.Review) domain.Features {
	var f domain.Features
	if len(reviews) == 0 {
		return f
	}

	var sb strings.Builder
	var totalLen int
	for i, r := range reviews {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.ToLower(r.Text))
		totalLen += len(r.Text)
	}
	text := sb.String()

	// Educational philosophy flags
	f.MentionsMontessori = boolToFlag(strings.Contains(text, "montessori"))
	f.MentionsReggio = boolToFlag(strings.Contains(text, "reggio"))
	f.MentionsPlayBased = boolToFlag(containsAny(text, playBasedPhrases))
	f.MentionsSTEM = boolToFlag(strings.Contains(text, "stem"))

	// Quality indicators
	f.MentionsClean = strings.Count(text, "clean")
	f.MentionsSafe = strings.Count(text, "safe")
	f.MentionsCaring = strings.Count(text, "caring") + strings.Count(text, "nurturing")
	f.MentionsEducational = strings.Count(text, "educational") + strings.Count(text, "learning")

	// Price indicators
	f.MentionsAffordable = strings.Count(text, "affordable") + strings.Count(text, "reasonable")
	f.MentionsExpensive = strings.Count(text, "expensive") + strings.Count(text, "pricey")

	// Sentiment
	f.PositiveKeywords = countAll(text, positiveKeywords)
	f.NegativeKeywords = countAll(text, negativeKeywords)

	f.AvgReviewLength = float64(totalLen) / float64(len(reviews))

	return f
}

// EstimatePrice estimates a monthly price from review keyword balance and
// rating. With no reviews the rating alone is the proxy; with no rating
// either, the base price stands.
func EstimatePrice(reviews []domain.Review, rating *float64) float64 {
	if len(reviews) == 0 {
		if rating != nil {
			return basePriceMonthly + (*rating-ratingPriceMidpoint)*ratingOnlyPriceSlope
		}
		return basePriceMonthly
	}

	var sb strings.Builder
	for _, r := range reviews {
		sb.WriteString(strings.ToLower(r.Text))
		sb.WriteString(" ")
	}
	text := sb.String()

	affordable := strings.Count(text, "affordable") + strings.Count(text, "reasonable")
	expensive := strings.Count(text, "expensive") + strings.Count(text, "pricey")

	price := basePriceMonthly
	switch {
	case affordable > expensive:
		price = basePriceMonthly * affordableMultiplier
	case expensive > affordable:
		price = basePriceMonthly * expensiveMultiplier
	}

	if rating != nil {
		price += (*rating - ratingPriceMidpoint) * ratingPriceSlope
	}

	return price
}

// QualityScore blends normalized rating with review sentiment balance.
// The +1 in the denominator avoids division by zero; the result is not
// clamped.
func QualityScore(rating float64, positive, negative int) float64 {
	sentiment := float64(positive-negative) / float64(positive+negative+1)
	return qualityRatingWeight*(rating/5) + qualitySentimentWeight*sentiment
}

func countAll(text string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(text, kw)
	}
	return total
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

package usecase

import (
	"math"
	"testing"

	"github.com/carefinder/backend/internal/domain"
)

func ratingPtr(v float64) *float64 { return &v }
func coordPtr(v float64) *float64  { return &v }

func TestDistance(t *testing.T) {
	t.Run("identity is zero", func(t *testing.T) {
		if d := Distance(42.5001, -70.8578, 42.5001, -70.8578); d != 0 {
			t.Errorf("Distance(identity) = %v, want 0", d)
		}
	})

	t.Run("known pair", func(t *testing.T) {
		// Marblehead, MA to Boston, MA is roughly 14-15 miles great-circle.
		d := Distance(42.5001, -70.8578, 42.3601, -71.0589)
		if d < 13 || d > 16 {
			t.Errorf("Distance(Marblehead, Boston) = %v, want ~14.5", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Distance(42.5, -70.8, 42.6, -70.9)
		b := Distance(42.6, -70.9, 42.5, -70.8)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v", a, b)
		}
	})
}

func TestExtractReviewFeatures(t *testing.T) {
	t.Run("no reviews yields all zeros", func(t *testing.T) {
		f := ExtractReviewFeatures(nil)
		if f != (domain.Features{}) {
			t.Errorf("features = %+v, want zero value", f)
		}
	})

	t.Run("counts quality keywords across reviews", func(t *testing.T) {
		f := ExtractReviewFeatures([]domain.Review{
			{Text: "Very clean and safe. The staff keeps everything clean."},
			{Text: "Caring and nurturing teachers, great learning environment."},
		})

		if f.MentionsClean != 2 {
			t.Errorf("MentionsClean = %d, want 2", f.MentionsClean)
		}
		if f.MentionsSafe != 1 {
			t.Errorf("MentionsSafe = %d, want 1", f.MentionsSafe)
		}
		if f.MentionsCaring != 2 {
			t.Errorf("MentionsCaring = %d, want 2 (caring + nurturing)", f.MentionsCaring)
		}
		if f.MentionsEducational != 1 {
			t.Errorf("MentionsEducational = %d, want 1 (learning)", f.MentionsEducational)
		}
	})

	t.Run("philosophy flags are binary", func(t *testing.T) {
		f := ExtractReviewFeatures([]domain.Review{
			{Text: "Montessori montessori MONTESSORI! Also a play based curriculum."},
		})

		if f.MentionsMontessori != 1 {
			t.Errorf("MentionsMontessori = %d, want 1 (flag, not count)", f.MentionsMontessori)
		}
		if f.MentionsPlayBased != 1 {
			t.Errorf("MentionsPlayBased = %d, want 1", f.MentionsPlayBased)
		}
		if f.MentionsReggio != 0 {
			t.Errorf("MentionsReggio = %d, want 0", f.MentionsReggio)
		}
	})

	t.Run("sentiment counts", func(t *testing.T) {
		f := ExtractReviewFeatures([]domain.Review{
			{Text: "Excellent place, we love it. Best teachers."},
			{Text: "Terrible experience, very disappointed."},
		})

		if f.PositiveKeywords != 3 {
			t.Errorf("PositiveKeywords = %d, want 3", f.PositiveKeywords)
		}
		if f.NegativeKeywords != 2 {
			t.Errorf("NegativeKeywords = %d, want 2", f.NegativeKeywords)
		}
	})

	t.Run("matching is substring only", func(t *testing.T) {
		// "not clean" still counts "clean" - the heuristic has no negation
		// handling and that is intentional.
		f := ExtractReviewFeatures([]domain.Review{{Text: "not clean at all"}})
		if f.MentionsClean != 1 {
			t.Errorf("MentionsClean = %d, want 1", f.MentionsClean)
		}
	})

	t.Run("average review length", func(t *testing.T) {
		f := ExtractReviewFeatures([]domain.Review{
			{Text: "abcd"},
			{Text: "abcdefgh"},
		})
		if f.AvgReviewLength != 6 {
			t.Errorf("AvgReviewLength = %v, want 6", f.AvgReviewLength)
		}
	})
}

func TestEstimatePrice(t *testing.T) {
	t.Run("no reviews and rating 3.5 returns exactly base", func(t *testing.T) {
		if p := EstimatePrice(nil, ratingPtr(3.5)); p != 1200 {
			t.Errorf("price = %v, want 1200", p)
		}
	})

	t.Run("no reviews uses rating-only proxy", func(t *testing.T) {
		// 1200 + (4.5-3.5)*200 = 1400
		if p := EstimatePrice(nil, ratingPtr(4.5)); p != 1400 {
			t.Errorf("price = %v, want 1400", p)
		}
	})

	t.Run("no reviews and no rating returns base", func(t *testing.T) {
		if p := EstimatePrice(nil, nil); p != 1200 {
			t.Errorf("price = %v, want 1200", p)
		}
	})

	t.Run("affordable keywords discount", func(t *testing.T) {
		reviews := []domain.Review{{Text: "Very affordable and reasonable pricing"}}
		// 1200*0.85 = 1020, no rating adjustment
		if p := EstimatePrice(reviews, nil); p != 1020 {
			t.Errorf("price = %v, want 1020", p)
		}
	})

	t.Run("expensive keywords premium with rating adjustment", func(t *testing.T) {
		reviews := []domain.Review{{Text: "Great but expensive and pricey"}}
		// 1200*1.25 + (4.5-3.5)*150 = 1650
		if p := EstimatePrice(reviews, ratingPtr(4.5)); p != 1650 {
			t.Errorf("price = %v, want 1650", p)
		}
	})

	t.Run("balanced keywords leave base unchanged", func(t *testing.T) {
		reviews := []domain.Review{{Text: "affordable but also expensive"}}
		if p := EstimatePrice(reviews, nil); p != 1200 {
			t.Errorf("price = %v, want 1200", p)
		}
	})
}

func TestQualityScore(t *testing.T) {
	t.Run("neutral sentiment", func(t *testing.T) {
		// 0.6*(4/5) + 0.4*0 = 0.48
		if q := QualityScore(4, 0, 0); math.Abs(q-0.48) > 1e-9 {
			t.Errorf("quality = %v, want 0.48", q)
		}
	})

	t.Run("positive sentiment", func(t *testing.T) {
		// 0.6*(5/5) + 0.4*(3/4) = 0.9
		if q := QualityScore(5, 3, 0); math.Abs(q-0.9) > 1e-9 {
			t.Errorf("quality = %v, want 0.9", q)
		}
	})

	t.Run("all-negative reviews can go below rating floor", func(t *testing.T) {
		q := QualityScore(3, 0, 4)
		// 0.6*0.6 + 0.4*(-4/5) = 0.36 - 0.32 = 0.04; result is not clamped
		if math.Abs(q-0.04) > 1e-9 {
			t.Errorf("quality = %v, want 0.04", q)
		}
	})
}

func TestEngineer(t *testing.T) {
	svc := NewFeatureService(42.5001, -70.8578)

	t.Run("missing coordinates get sentinel distance", func(t *testing.T) {
		p := domain.Provider{PlaceID: "x", Name: "No Geo"}
		svc.Engineer(&p)
		if p.Features.DistanceMiles != domain.MissingDistance {
			t.Errorf("DistanceMiles = %v, want %v", p.Features.DistanceMiles, domain.MissingDistance)
		}
	})

	t.Run("full engineering pass", func(t *testing.T) {
		p := domain.Provider{
			PlaceID:   "y",
			Name:      "Sample",
			Rating:    ratingPtr(4.8),
			Latitude:  coordPtr(42.5001),
			Longitude: coordPtr(-70.8578),
			Reviews: []domain.Review{
				{Text: "Clean and caring environment. Great teachers!"},
			},
		}
		svc.Engineer(&p)

		if p.Features.DistanceMiles != 0 {
			t.Errorf("DistanceMiles = %v, want 0 (at reference point)", p.Features.DistanceMiles)
		}
		if p.Features.MentionsClean != 1 || p.Features.MentionsCaring != 1 {
			t.Errorf("keyword counts = %+v, want clean=1 caring=1", p.Features)
		}
		// Balanced price keywords, rating 4.8: 1200 + 1.3*150 = 1395
		if math.Abs(p.Features.EstimatedPrice-1395) > 1e-9 {
			t.Errorf("EstimatedPrice = %v, want 1395", p.Features.EstimatedPrice)
		}
		if p.Features.QualityScore <= 0 {
			t.Errorf("QualityScore = %v, want > 0", p.Features.QualityScore)
		}
	})
}

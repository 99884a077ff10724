package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carefinder/backend/internal/domain"
	"github.com/carefinder/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	results  *usecase.ResultsService
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(results *usecase.ResultsService, cache domain.CacheRepository, cacheTTL time.Duration) *Handler {
	return &Handler{
		results:  results,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// preferencesQuery binds the interactive preference controls. The ranges
// mirror the UI sliders: distance 1-30 miles, budget $500-3000, rating
// 1.0-5.0.
type preferencesQuery struct {
	MaxDistance float64 `form:"max_distance,default=10" binding:"min=1,max=30"`
	MaxBudget   float64 `form:"max_budget,default=1500" binding:"min=500,max=3000"`
	MinRating   float64 `form:"min_rating,default=3.5" binding:"min=1,max=5"`
	Values      string  `form:"values"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "carefinder-backend",
		"version":   "1.0.0",
		"providers": len(h.results.Providers()),
	})
}

// ListProviders returns the full engineered dataset
func (h *Handler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.results.Providers(),
		"count":     len(h.results.Providers()),
	})
}

// GetRecommendations returns the ranked results for a preference set
func (h *Handler) GetRecommendations(c *gin.Context) {
	results, ok := h.computeResults(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": results.Preferences,
		"summary":     results.Summary,
		"ranked":      results.Ranked,
	})
}

// GetMap returns the geographic plot data for a preference set
func (h *Handler) GetMap(c *gin.Context) {
	results, ok := h.computeResults(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": results.Preferences,
		"points":      results.MapPoints,
	})
}

// GetAnalytics returns the descriptive chart data for a preference set
func (h *Handler) GetAnalytics(c *gin.Context) {
	results, ok := h.computeResults(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"preferences": results.Preferences,
		"analytics":   results.Analytics,
	})
}

// computeResults binds and validates the preference query, then returns
// the shaped results, memoized per preference key. On a binding or value
// error it writes a 400 response and returns ok=false.
func (h *Handler) computeResults(c *gin.Context) (usecase.Results, bool) {
	var q preferencesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%v: %v", domain.ErrInvalidPreferences, err),
		})
		return usecase.Results{}, false
	}

	values, err := parseValues(q.Values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return usecase.Results{}, false
	}

	prefs := domain.Preferences{
		MaxDistance: q.MaxDistance,
		MaxBudget:   q.MaxBudget,
		MinRating:   q.MinRating,
		Values:      values,
	}

	key := preferenceKey(prefs)
	if cached, err := h.cache.Get(c.Request.Context(), key); err == nil {
		if results, ok := cached.(usecase.Results); ok {
			return results, true
		}
	}

	results := h.results.Compute(prefs)
	_ = h.cache.Set(c.Request.Context(), key, results, h.cacheTTL)

	return results, true
}

// parseValues splits and validates the comma-separated value keywords.
func parseValues(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		if !isValueKeyword(v) {
			return nil, fmt.Errorf("%w: unknown value keyword %q (known: %s)",
				domain.ErrInvalidPreferences, v, strings.Join(domain.ValueKeywords, ", "))
		}
		values = append(values, v)
	}

	return values, nil
}

func isValueKeyword(v string) bool {
	for _, known := range domain.ValueKeywords {
		if v == known {
			return true
		}
	}
	return false
}

// preferenceKey builds a stable cache key for a preference set. Values are
// sorted so order does not fragment the cache.
func preferenceKey(prefs domain.Preferences) string {
	values := append([]string{}, prefs.Values...)
	sort.Strings(values)
	return fmt.Sprintf("results:%g:%g:%g:%s",
		prefs.MaxDistance, prefs.MaxBudget, prefs.MinRating, strings.Join(values, ","))
}

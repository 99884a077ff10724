package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/carefinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// metersPerMile converts the search radius; the upstream API takes meters
// and caps the radius at 50 km.
const (
	metersPerMile    = 1609.34
	maxRadiusMeters  = 50000
	defaultPageDelay = 2 * time.Second
)

// detailFields is the field list requested from the details endpoint.
const detailFields = "name,rating,user_ratings_total,reviews,formatted_address," +
	"formatted_phone_number,website,opening_hours,geometry,types," +
	"price_level,business_status"

// statusOK is the response status that keeps pagination going.
const statusOK = "OK"

// Client handles communication with the places search API
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	detailLimiter  *rate.Limiter
	pageTokenDelay time.Duration
	debug          bool
}

// NewClient creates a new places API client
func NewClient(apiKey, baseURL string) *Client {
	// Detail fetches are paced to roughly 10/sec; the upstream throttles
	// bursts well below the daily quota.
	limiter := rate.NewLimiter(rate.Limit(10), 1)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:         apiKey,
		baseURL:        baseURL,
		detailLimiter:  limiter,
		pageTokenDelay: defaultPageDelay,
	}
}

// SetDebug enables request/response debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetPageTokenDelay overrides the wait before a continuation token is
// reused. The upstream requires a short delay before a token is valid.
func (c *Client) SetPageTokenDelay(d time.Duration) {
	c.pageTokenDelay = d
}

// SetDetailRate overrides the detail-fetch pacing (requests per second).
func (c *Client) SetDetailRate(rps float64) {
	c.detailLimiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// searchResponse is the wire shape of a nearby-search page.
type searchResponse struct {
	Status        string             `json:"status"`
	Results       []domain.SearchHit `json:"results"`
	NextPageToken string             `json:"next_page_token"`
}

// detailsResponse is the wire shape of a place-details lookup.
type detailsResponse struct {
	Status string       `json:"status"`
	Result placeDetails `json:"result"`
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CareFinder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPlacesAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrPlacesAPIFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrPlacesAPIFailure, resp.StatusCode, string(body))
	}

	return body, nil
}

// SearchNearby pages through all nearby-search results for a keyword
// around a coordinate. Pagination stops when the response carries no
// continuation token or a non-OK status; a non-OK status after results
// were already gathered ends the search gracefully rather than erroring.
func (c *Client) SearchNearby(ctx context.Context, lat, lng, radiusMiles float64, keyword string) ([]domain.SearchHit, error) {
	radiusMeters := radiusMiles * metersPerMile
	if radiusMeters > maxRadiusMeters {
		radiusMeters = maxRadiusMeters
	}

	endpoint := fmt.Sprintf("%s/nearbysearch/json", c.baseURL)
	params := url.Values{}
	params.Add("location", fmt.Sprintf("%v,%v", lat, lng))
	params.Add("radius", fmt.Sprintf("%.0f", radiusMeters))
	params.Add("keyword", keyword)
	params.Add("type", "school")
	params.Add("key", c.apiKey)

	var hits []domain.SearchHit
	for {
		body, err := c.doRequest(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
		if err != nil {
			if len(hits) > 0 {
				log.Printf("[PLACES] Search request failed after %d hits: %v", len(hits), err)
				return hits, nil
			}
			return nil, err
		}

		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}

		if page.Status != statusOK {
			log.Printf("[PLACES] Search ended: %s", page.Status)
			break
		}

		hits = append(hits, page.Results...)
		if c.debug {
			log.Printf("[PLACES] Page returned %d hits (total %d)", len(page.Results), len(hits))
		}

		if page.NextPageToken == "" {
			break
		}

		// The continuation token is not valid immediately.
		select {
		case <-time.After(c.pageTokenDelay):
		case <-ctx.Done():
			return hits, ctx.Err()
		}

		params = url.Values{}
		params.Add("pagetoken", page.NextPageToken)
		params.Add("key", c.apiKey)
	}

	log.Printf("[PLACES] Found %d providers in area", len(hits))
	return hits, nil
}

// GetDetails fetches the extended record for one provider. A non-OK
// response status yields a nil record and no error; the caller drops the
// hit instead of aborting the collection.
func (c *Client) GetDetails(ctx context.Context, placeID string) (*domain.Provider, error) {
	if err := c.detailLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/details/json", c.baseURL)
	params := url.Values{}
	params.Add("place_id", placeID)
	params.Add("fields", detailFields)
	params.Add("key", c.apiKey)

	body, err := c.doRequest(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var details detailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode details response: %w", err)
	}

	if details.Status != statusOK {
		if c.debug {
			log.Printf("[PLACES] Details lookup for %s returned %s", placeID, details.Status)
		}
		return nil, nil
	}

	provider := mapToProvider(placeID, &details.Result)
	return &provider, nil
}

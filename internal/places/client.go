// Package places is a thin client for the Places text search API, used to
// resolve a business name to a public place ID and review URL.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	defaultTimeout = 10 * time.Second
)

// ErrNoResults is returned when the text search matches nothing.
var ErrNoResults = errors.New("places: no results for query")

// Place is a single text search result.
type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Rating           float64 `json:"rating"`
}

// Client calls the Places text search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a places client with the default production base URL.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client against an alternate base URL. Used
// by tests to point at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type textSearchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []Place `json:"results"`
}

// TextSearch runs a free-text search and returns the first result. There is
// no disambiguation step: two businesses with similar names can resolve to
// each other's place.
func (c *Client) TextSearch(ctx context.Context, query string) (*Place, error) {
	if query == "" {
		return nil, errors.New("places: query cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/textsearch/json?query=%s&key=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("places: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places: unexpected status %d", resp.StatusCode)
	}

	var body textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}

	switch body.Status {
	case "OK":
		// fall through
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("%w: %q", ErrNoResults, query)
	default:
		return nil, fmt.Errorf("places: API status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoResults, query)
	}

	first := body.Results[0]
	return &first, nil
}

// ReviewURL builds the public "write a review" URL for a place ID.
func ReviewURL(placeID string) string {
	return "https://search.google.com/local/writereview?placeid=" + url.QueryEscape(placeID)
}

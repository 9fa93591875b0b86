// Package skyscanner is a thin typed client for the flight-search partner
// API: airport autosuggest and live flight-search submission.
package skyscanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production partner API endpoint.
	DefaultBaseURL = "https://partners.api.skyscanner.net"

	// DefaultTimeout bounds every upstream call. There are no retries;
	// a single failed attempt is surfaced to the caller.
	DefaultTimeout = 10 * time.Second

	autosuggestPath  = "/apiservices/v3/autosuggest/flights"
	searchCreatePath = "/apiservices/v3/flights/live/search/create"

	// autosuggestLimit caps how many place candidates we ask for.
	autosuggestLimit = 7
)

// ErrUpstream wraps any failure talking to the partner API.
var ErrUpstream = errors.New("upstream request failed")

// Client is the partner API client.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a partner API client. A zero timeout selects
// DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

// doRequest performs an authenticated JSON request.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody []byte
	var err error
	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, nil
}

// Autosuggest returns up to 7 place candidates (airports and cities) for a
// free-text search term.
func (c *Client) Autosuggest(ctx context.Context, searchTerm, market string) ([]PlaceSuggestion, error) {
	reqBody := autosuggestRequest{
		Market:              market,
		Locale:              "en-US",
		SearchTerm:          searchTerm,
		IncludedEntityTypes: []string{PlaceTypeAirport, PlaceTypeCity},
		Limit:               autosuggestLimit,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, autosuggestPath, reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: autosuggest status %s", ErrUpstream, resp.Status)
	}

	var suggestResp autosuggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&suggestResp); err != nil {
		return nil, fmt.Errorf("%w: decoding autosuggest response: %v", ErrUpstream, err)
	}
	return suggestResp.Places, nil
}

// CreateSearch submits a live flight search and returns the first page of
// results along with the session token.
func (c *Client) CreateSearch(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	reqBody := searchRequest{
		Origin:      placeRef{EntityID: q.OriginEntityID, Iata: q.OriginIata},
		Destination: placeRef{EntityID: q.DestinationEntityID, Iata: q.DestinationIata},
		Adults:      q.Adults,
		Children:    q.Children,
		CabinClass:  q.CabinClass,
		Market:      q.Market,
		Locale:      q.Locale,
		Currency:    q.Currency,
	}
	reqBody.Date.Year = q.Year
	reqBody.Date.Month = q.Month
	reqBody.Date.Day = q.Day

	resp, err := c.doRequest(ctx, http.MethodPost, searchCreatePath, reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search status %s", ErrUpstream, resp.Status)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", ErrUpstream, err)
	}
	return &searchResp, nil
}

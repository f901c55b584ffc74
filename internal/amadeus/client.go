// Package amadeus is a minimal client for the Amadeus self-service APIs:
// the hotel directory (by city and by keyword), live hotel offers, and
// sentiment ratings. Only the response fields the workflow consumes are
// decoded; everything else is ignored at the boundary.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jlaurila/stayscout/internal/errors"
	"github.com/jlaurila/stayscout/internal/ratelimit"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultBaseURL is the Amadeus self-service test environment.
const DefaultBaseURL = "https://test.api.amadeus.com"

// Client talks to the Amadeus APIs. Construct one per process and inject it
// where needed; nothing in this package is a package-level singleton.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a Client authenticating with the OAuth2 client
// credentials flow. Token refresh is handled by the underlying oauth2
// transport.
func NewClient(apiKey, apiSecret string) *Client {
	cc := &clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     DefaultBaseURL + "/v1/security/oauth2/token",
	}

	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: cc.Client(context.Background()),
		limiter:    newLimiter(),
	}
}

// NewClientWithHTTPClient creates a Client against a custom base URL with a
// caller-supplied http.Client. Used by tests to point at a local fake.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    newLimiter(),
	}
}

// The test tier admits 10 transactions per second; one request every 100ms
// with a small burst stays under it.
func newLimiter() *ratelimit.Limiter {
	return ratelimit.NewEvery("Amadeus", 100*time.Millisecond, 2)
}

// errorResponse matches the Amadeus error envelope.
type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (e *errorResponse) message() string {
	if len(e.Errors) == 0 {
		return ""
	}
	first := e.Errors[0]
	if first.Detail != "" {
		return first.Detail
	}
	return first.Title
}

// get issues a rate-limited GET against path (e.g. "/v3/shopping/hotel-offers")
// and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.NewRateLimitError("Amadeus API rate limit reached")
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil {
			var errResp errorResponse
			if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.message() != "" {
				return fmt.Errorf("amadeus API returned status %d: %s", resp.StatusCode, errResp.message())
			}
		}
		return fmt.Errorf("amadeus API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

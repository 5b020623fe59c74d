package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/bizsight/bizsight/internal/model"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNotFound is returned when the geocoding API matches zero results for
// an address.
var ErrNotFound = eris.New("geocode: address not found")

// Client resolves free-text addresses into coordinates.
type Client interface {
	Geocode(ctx context.Context, address string) (model.Coordinate, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Google Geocoding API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// geocodeResponse is the JSON response from the Google Geocoding API.
type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

func (c *httpClient) Geocode(ctx context.Context, address string) (model.Coordinate, error) {
	if address == "" {
		return model.Coordinate{}, eris.New("geocode: empty address")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return model.Coordinate{}, eris.Wrap(err, "geocode: rate limit")
	}

	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.Coordinate{}, eris.Wrap(err, "geocode: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Coordinate{}, eris.Wrap(err, "geocode: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Coordinate{}, eris.Wrap(err, "geocode: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return model.Coordinate{}, eris.Errorf("geocode: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Coordinate{}, eris.Wrap(err, "geocode: unmarshal response")
	}

	if parsed.Status != "OK" || len(parsed.Results) == 0 {
		return model.Coordinate{}, eris.Wrapf(ErrNotFound, "address %q status %s", address, parsed.Status)
	}

	loc := parsed.Results[0].Geometry.Location
	return model.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Package places wraps the Google Places JSON endpoints used by the
// analysis pipeline: nearby search and place details.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/bizsight/bizsight/internal/model"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// Client performs places-index operations.
type Client interface {
	NearbySearch(ctx context.Context, origin model.Coordinate, placeType string, radiusMeters int) ([]model.Place, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// PlaceDetails is the enriched record from a place-details lookup.
type PlaceDetails struct {
	Name       string
	Address    string
	Website    string
	Phone      string
	Rating     *float64
	PriceLevel *int
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

// NewClient creates a Google Places API client.
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

// nearbyResponse is the nearby-search payload. Optional fields stay
// pointers so absent and zero are distinguishable downstream.
type nearbyResponse struct {
	Results []nearbyResult `json:"results"`
	Status  string         `json:"status"`
}

type nearbyResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
}

func (c *httpClient) NearbySearch(ctx context.Context, origin model.Coordinate, placeType string, radiusMeters int) ([]model.Place, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		"radius":   {strconv.Itoa(radiusMeters)},
		"type":     {placeType},
		"key":      {c.apiKey},
	}

	var parsed nearbyResponse
	if err := c.get(ctx, "/nearbysearch/json", params, &parsed); err != nil {
		return nil, err
	}

	// ZERO_RESULTS is a valid empty answer, any other non-OK status is a
	// degraded upstream; both yield an empty list per the error policy.
	if parsed.Status != "OK" {
		return nil, nil
	}

	places := make([]model.Place, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		places = append(places, model.Place{
			ID:       r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Location: model.Coordinate{
				Lat: r.Geometry.Location.Lat,
				Lng: r.Geometry.Location.Lng,
			},
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       r.PriceLevel,
			Types:            r.Types,
		})
	}
	return places, nil
}

// detailsResponse is the place-details payload.
type detailsResponse struct {
	Result struct {
		Name                 string   `json:"name"`
		FormattedAddress     string   `json:"formatted_address"`
		Website              string   `json:"website"`
		FormattedPhoneNumber string   `json:"formatted_phone_number"`
		Rating               *float64 `json:"rating"`
		PriceLevel           *int     `json:"price_level"`
	} `json:"result"`
	Status string `json:"status"`
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"name,formatted_address,website,formatted_phone_number,rating,price_level"},
		"key":      {c.apiKey},
	}

	var parsed detailsResponse
	if err := c.get(ctx, "/details/json", params, &parsed); err != nil {
		return nil, err
	}

	if parsed.Status != "OK" {
		return nil, eris.Errorf("places: details status %s for %s", parsed.Status, placeID)
	}

	return &PlaceDetails{
		Name:       parsed.Result.Name,
		Address:    parsed.Result.FormattedAddress,
		Website:    parsed.Result.Website,
		Phone:      parsed.Result.FormattedPhoneNumber,
		Rating:     parsed.Result.Rating,
		PriceLevel: parsed.Result.PriceLevel,
	}, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "places: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "places: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "places: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "places: unmarshal response")
	}
	return nil
}

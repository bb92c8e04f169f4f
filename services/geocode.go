package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultGeocodeBaseURL = "https://api.openweathermap.org/geo/1.0"

// ErrNoResults reports that the geocoder returned an empty result set for
// the query.
var ErrNoResults = errors.New("geocode: no results")

type Place struct {
	Name  string  `json:"name"`
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// DisplayName is "Name, State", the label attached to posts.
func (p Place) DisplayName() string {
	if p.State == "" {
		return p.Name
	}
	return p.Name + ", " + p.State
}

type GeocodeClient struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey     string
	httpClient *http.Client
}

func NewGeocodeClient(apiKey string) *GeocodeClient {
	return &GeocodeClient{
		BaseURL:    defaultGeocodeBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Forward resolves free-text into a place. Returns ErrNoResults when the
// text matches nothing.
func (c *GeocodeClient) Forward(ctx context.Context, query string) (*Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)
	return c.lookup(ctx, c.BaseURL+"/direct?"+q.Encode())
}

// Reverse resolves coordinates into the nearest named place.
func (c *GeocodeClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)
	return c.lookup(ctx, c.BaseURL+"/reverse?"+q.Encode())
}

func (c *GeocodeClient) lookup(ctx context.Context, reqURL string) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoResults
	}
	return &places[0], nil
}

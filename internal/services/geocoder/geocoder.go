// Package geocoder resolves free-text addresses to coordinates using the
// Google Geocoding API.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"solar-report-engine/internal/models"
	"solar-report-engine/internal/utils"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client is a Google Geocoding API client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// geocodeResponse mirrors the subset of the Geocoding API response we read.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// New creates a geocoding client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL creates a client against a custom endpoint, used in tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// Geocode resolves an address to coordinates and a normalized address.
func (c *Client) Geocode(ctx context.Context, address string) (models.Location, error) {
	if c.apiKey == "" {
		return models.Location{}, fmt.Errorf("Google API key required. Set GOOGLE_API_KEY in .env")
	}

	utils.GetLogger().Debug("Geocoding address", zap.String("address", address))

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocoding request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocoding error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geocoding API error: %d", resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.Location{}, fmt.Errorf("geocoding error: %w", err)
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		status := data.Status
		if status == "" {
			status = "Unknown"
		}
		return models.Location{}, fmt.Errorf("address not found: %s. Try full address: Street, City, Postcode, UK", status)
	}

	result := data.Results[0]
	location := models.Location{
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		FormattedAddress: result.FormattedAddress,
	}

	utils.GetLogger().Debug("Address resolved",
		zap.Float64("latitude", location.Latitude),
		zap.Float64("longitude", location.Longitude),
	)

	return location, nil
}

// ValidCoordinates reports whether lat/lon form a valid coordinate pair.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

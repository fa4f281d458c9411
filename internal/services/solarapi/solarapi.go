// Package solarapi fetches building solar potential from the Google Solar API
// and normalizes it into the irradiance bundle consumed by the report
// pipeline. The monthly curve is synthesized by distributing the building's
// yearly DC energy across a fixed seasonal weight table; the upstream API does
// not provide per-month measurements.
package solarapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"solar-report-engine/internal/models"
	"solar-report-engine/internal/utils"
)

const defaultBaseURL = "https://solar.googleapis.com/v1/buildingInsights:findClosest"

// Distinguishable failure reasons, surfaced verbatim to the caller.
var (
	ErrNoBuildingData   = errors.New("No building data at this location. Try a different address or enter exact building coordinates from Google Maps.")
	ErrAccessDenied     = errors.New("Google API access denied. Enable Solar API and billing at console.cloud.google.com")
	ErrNoSolarData      = errors.New("No solar data available for this location")
	ErrNoPanelConfigs   = errors.New("No solar panel configuration available")
	ErrInvalidSolarData = errors.New("Invalid solar data returned from Google API")
)

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// seasonalWeights distributes annual yield across months (winter low,
// summer high, UK profile).
var seasonalWeights = []float64{0.5, 0.7, 1.0, 1.3, 1.5, 1.6, 1.5, 1.3, 1.1, 0.8, 0.5, 0.4}

// Client is a Google Solar API client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// buildingInsights mirrors the subset of the API response we read.
type buildingInsights struct {
	SolarPotential *struct {
		MaxArrayPanelsCount     int     `json:"maxArrayPanelsCount"`
		MaxArrayAreaMeters2     float64 `json:"maxArrayAreaMeters2"`
		MaxSunshineHoursPerYear float64 `json:"maxSunshineHoursPerYear"`
		SolarPanelConfigs       []struct {
			PanelsCount       int     `json:"panelsCount"`
			YearlyEnergyDcKwh float64 `json:"yearlyEnergyDcKwh"`
		} `json:"solarPanelConfigs"`
	} `json:"solarPotential"`
}

// New creates a Solar API client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithBaseURL creates a client against a custom endpoint, used in tests.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// FetchSolarData retrieves and normalizes solar potential for a coordinate.
func (c *Client) FetchSolarData(ctx context.Context, latitude, longitude float64) (*models.SolarData, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("Google API key required. Set GOOGLE_API_KEY in .env")
	}

	params := url.Values{}
	params.Set("location.latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("requiredQuality", "LOW")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("solar data request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solar data error: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, ErrNoBuildingData
	case http.StatusForbidden:
		return nil, ErrAccessDenied
	default:
		return nil, fmt.Errorf("Google API error (%d)", resp.StatusCode)
	}

	var insights buildingInsights
	if err := json.NewDecoder(resp.Body).Decode(&insights); err != nil {
		return nil, fmt.Errorf("solar data error: %w", err)
	}

	potential := insights.SolarPotential
	if potential == nil {
		return nil, ErrNoSolarData
	}
	if len(potential.SolarPanelConfigs) == 0 {
		return nil, ErrNoPanelConfigs
	}

	// Best configuration: the one yielding the most DC energy per year.
	best := potential.SolarPanelConfigs[0]
	for _, cfg := range potential.SolarPanelConfigs[1:] {
		if cfg.YearlyEnergyDcKwh > best.YearlyEnergyDcKwh {
			best = cfg
		}
	}

	if best.YearlyEnergyDcKwh == 0 || potential.MaxArrayAreaMeters2 == 0 {
		return nil, ErrInvalidSolarData
	}

	monthly := synthesizeMonthly(best.YearlyEnergyDcKwh, potential.MaxArrayAreaMeters2)
	annualAvg := round2(best.YearlyEnergyDcKwh / potential.MaxArrayAreaMeters2 / 365.0)

	data := &models.SolarData{
		Monthly:                 monthly,
		AnnualAverageKWhM2Day:   annualAvg,
		AnnualTotalKWhM2:        round2(annualAvg * 365),
		YearlyEnergyDcKWh:       round2(best.YearlyEnergyDcKwh),
		MaxArrayPanelsCount:     potential.MaxArrayPanelsCount,
		MaxArrayAreaMeters2:     round2(potential.MaxArrayAreaMeters2),
		MaxSunshineHoursPerYear: round2(potential.MaxSunshineHoursPerYear),
		PanelsCount:             best.PanelsCount,
		Location: models.Location{
			Latitude:  latitude,
			Longitude: longitude,
		},
		BestMonth:  bestMonth(monthly),
		WorstMonth: worstMonth(monthly),
	}

	utils.GetLogger().Info("Solar data fetched",
		zap.Int("max_panels", data.MaxArrayPanelsCount),
		zap.Float64("roof_m2", data.MaxArrayAreaMeters2),
		zap.Float64("yearly_kwh", data.YearlyEnergyDcKWh),
		zap.Float64("peak_sun_hours", data.AnnualAverageKWhM2Day),
	)

	return data, nil
}

// synthesizeMonthly distributes yearly energy across months using the
// seasonal weight table. Irradiance normalizes each month's share by array
// area over a nominal 30-day month.
func synthesizeMonthly(yearlyEnergyKWh, arrayAreaM2 float64) []models.MonthlyProduction {
	var totalWeight float64
	for _, w := range seasonalWeights {
		totalWeight += w
	}

	monthly := make([]models.MonthlyProduction, 0, len(monthNames))
	for i, month := range monthNames {
		monthKWh := yearlyEnergyKWh * seasonalWeights[i] / totalWeight
		monthly = append(monthly, models.MonthlyProduction{
			Month:           month,
			SolarIrradiance: round2(monthKWh / arrayAreaM2 / 30.0),
			ProductionKWh:   round2(monthKWh),
		})
	}
	return monthly
}

func bestMonth(monthly []models.MonthlyProduction) models.MonthlyProduction {
	best := monthly[0]
	for _, m := range monthly[1:] {
		if m.ProductionKWh > best.ProductionKWh {
			best = m
		}
	}
	return best
}

func worstMonth(monthly []models.MonthlyProduction) models.MonthlyProduction {
	worst := monthly[0]
	for _, m := range monthly[1:] {
		if m.ProductionKWh < worst.ProductionKWh {
			worst = m
		}
	}
	return worst
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

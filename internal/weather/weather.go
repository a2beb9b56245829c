// Package weather fetches current conditions from an
// OpenWeatherMap-compatible endpoint.
package weather

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"

	"distance-backend/internal/models"
)

// Observation is a current-conditions reading for one coordinate pair.
// Temperature is always carried in Kelvin; display conversion happens
// at render time in the viewer's unit.
type Observation struct {
	TempKelvin  float64
	Description string
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// Client is a client for an OpenWeatherMap-style current weather API.
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient creates a weather client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
	}
}

// Current fetches the current observation at a coordinate pair.
func (c *Client) Current(ctx context.Context, lat, lng float64) (Observation, error) {
	var result currentResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   fmt.Sprintf("%f", lat),
			"lon":   fmt.Sprintf("%f", lng),
			"appid": c.apiKey,
		}).
		SetResult(&result).
		Get("/data/2.5/weather")
	if err != nil {
		return Observation{}, fmt.Errorf("weather request: %w", err)
	}
	if resp.IsError() {
		return Observation{}, fmt.Errorf("weather request: status %d", resp.StatusCode())
	}

	obs := Observation{TempKelvin: result.Main.Temp}
	if len(result.Weather) > 0 {
		obs.Description = result.Weather[0].Description
	}
	return obs, nil
}

// FormatTemp renders a Kelvin reading in the given display unit as a
// rounded integer with the unit suffix, e.g. "295K", "22°C", "72°F".
func FormatTemp(kelvin float64, unit string) string {
	switch unit {
	case models.UnitCelsius:
		return fmt.Sprintf("%d°C", int(math.Round(kelvin-273.15)))
	case models.UnitFahrenheit:
		return fmt.Sprintf("%d°F", int(math.Round((kelvin-273.15)*9/5+32)))
	default:
		return fmt.Sprintf("%dK", int(math.Round(kelvin)))
	}
}

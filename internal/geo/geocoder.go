// Package geo reverse-geocodes coordinates into address components
// through a Nominatim-compatible endpoint.
package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const notFound = "Not Found"

// Address holds the address components a reverse lookup can return.
// Which of the locality fields is populated depends on the settlement
// size, so callers should use City/Country instead of reading them
// directly.
type Address struct {
	Village string `json:"village"`
	City    string `json:"city"`
	Suburb  string `json:"suburb"`
	Hamlet  string `json:"hamlet"`
	Town    string `json:"town"`
	Country string `json:"country"`
}

type reverseResponse struct {
	Address Address `json:"address"`
}

// CityName resolves the locality, consulting the candidate fields in
// priority order and returning "Not Found" when none is present.
func (a Address) CityName() string {
	for _, name := range []string{a.Village, a.City, a.Suburb, a.Hamlet, a.Town} {
		if name != "" {
			return name
		}
	}
	return notFound
}

// CountryName returns the country, or "Not Found" when absent.
func (a Address) CountryName() string {
	if a.Country == "" {
		return notFound
	}
	return a.Country
}

// Geocoder is a client for a Nominatim-style reverse geocoding API.
type Geocoder struct {
	client *resty.Client
}

// NewGeocoder creates a geocoder against the given base URL with a
// bounded request timeout.
func NewGeocoder(baseURL string, timeout time.Duration) *Geocoder {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "distance-backend")
	return &Geocoder{client: client}
}

// Reverse looks up the address components for a coordinate pair.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	var result reverseResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "jsonv2",
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lng),
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return Address{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	if resp.IsError() {
		return Address{}, fmt.Errorf("reverse geocode request: status %d", resp.StatusCode())
	}
	return result.Address, nil
}

package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"eldato-web/apperrors"
)

// GeocodingResult represents the result of a geocoding operation
type GeocodingResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves free-text addresses with an OpenStreetMap Nominatim server
type Geocoder struct {
	baseURL    string
	country    string
	userAgent  string
	httpClient *http.Client
}

// NewGeocoder creates a geocoder. Nominatim requires an identifying user agent.
func NewGeocoder(baseURL, country, userAgent string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    country,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Geocode converts a text address to coordinates
func (g *Geocoder) Geocode(ctx context.Context, addressText string) (*GeocodingResult, error) {
	cleanAddress := strings.TrimSpace(addressText)
	if cleanAddress == "" {
		return nil, apperrors.Validation("Enter an address to search near.")
	}

	params := url.Values{}
	params.Set("q", cleanAddress)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.country != "" {
		params.Set("countrycodes", g.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("failed to make geocoding request: %w", err), "The address could not be located right now.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Transient(fmt.Errorf("geocoding service returned status: %d", resp.StatusCode), "The address could not be located right now.")
	}

	var results []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, apperrors.Transient(fmt.Errorf("failed to decode geocoding response: %w", err), "The address could not be located right now.")
	}

	if len(results) == 0 {
		return nil, apperrors.NotFound("We could not find that address.")
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("invalid latitude in response: %w", err), "The address could not be located right now.")
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("invalid longitude in response: %w", err), "The address could not be located right now.")
	}

	return &GeocodingResult{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: result.DisplayName,
	}, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package weather serves the forecast and air-quality widget: BMKG forecasts
// per kelurahan/desa, Open-Meteo air quality per coordinate, the selectable
// kecamatan list, per-client selection storage, background polling, and the
// compact display rotation.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Endpoint defaults. Tests point these at httptest servers.
var (
	ForecastBaseURL   = "https://api.bmkg.go.id/publik/prakiraan-cuaca"
	AirQualityBaseURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "portal/0.1"
)

type endpoint struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func newEndpoint(cfg types.HTTPConfig, baseURL, fallback string) endpoint {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if baseURL == "" {
		baseURL = fallback
	}
	return endpoint{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
	}
}

func (e endpoint) getJSON(ctx context.Context, params url.Values, out any) error {
	apiURL := e.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &content.StatusError{Code: resp.StatusCode, URL: apiURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", apiURL, err)
	}
	return nil
}

// BMKGClient fetches public forecasts from BMKG.
type BMKGClient struct {
	ep endpoint
}

// NewBMKGClient returns a forecast client. An empty cfg.ForecastURL uses ForecastBaseURL.
func NewBMKGClient(cfg types.WeatherConfig) *BMKGClient {
	return &BMKGClient{ep: newEndpoint(cfg.HTTPConfig, cfg.ForecastURL, ForecastBaseURL)}
}

// Forecast fetches the forecast for a kelurahan/desa adm4 code, e.g. "16.03.02.1001".
func (c *BMKGClient) Forecast(ctx context.Context, adm4 string) (*types.ForecastResponse, error) {
	var resp types.ForecastResponse
	if err := c.ep.getJSON(ctx, url.Values{"adm4": {adm4}}, &resp); err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", adm4, err)
	}
	return &resp, nil
}

// AirQualityClient fetches current air quality from Open-Meteo.
type AirQualityClient struct {
	ep endpoint
}

// NewAirQualityClient returns an air-quality client. An empty
// cfg.AirQualityURL uses AirQualityBaseURL.
func NewAirQualityClient(cfg types.WeatherConfig) *AirQualityClient {
	return &AirQualityClient{ep: newEndpoint(cfg.HTTPConfig, cfg.AirQualityURL, AirQualityBaseURL)}
}

// Current fetches US AQI, PM2.5 and PM10 at a coordinate.
func (c *AirQualityClient) Current(ctx context.Context, lat, lon float64) (*types.AirQualityResponse, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":   {"us_aqi,pm2_5,pm10"},
	}
	var resp types.AirQualityResponse
	if err := c.ep.getJSON(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("air quality at %g,%g: %w", lat, lon, err)
	}
	return &resp, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ForecastSlots is how many upcoming forecast slots a report carries.
const ForecastSlots = 4

const defaultPollInterval = 30 * time.Minute

// Report is everything the widget renders for one kecamatan. The two halves
// are independent: either may be missing while the other is present.
type Report struct {
	Kecamatan       types.Kecamatan          `json:"kecamatan"`
	Location        *types.WeatherLocation   `json:"location,omitempty"`
	Current         *types.WeatherData       `json:"current,omitempty"`
	Forecast        []types.WeatherData      `json:"forecast"`
	AirQuality      *types.AirQualityCurrent `json:"air_quality,omitempty"`
	AQILevel        *types.AQILevel          `json:"aqi_level,omitempty"`
	WeatherError    string                   `json:"weather_error,omitempty"`
	AirQualityError string                   `json:"air_quality_error,omitempty"`
	Display         Mode                     `json:"display"`
}

// HasWeather reports whether a current forecast slot is present.
func (r Report) HasWeather() bool { return r.Current != nil }

// HasAQI reports whether an air-quality reading is present.
func (r Report) HasAQI() bool { return r.AirQuality != nil }

// Service fetches forecasts and air quality through the query layer, each
// under its own key with the poll interval as staleness window.
type Service struct {
	forecast *BMKGClient
	air      *AirQualityClient
	layer    *cache.Layer
	ttl      time.Duration
	rotator  *Rotator
	now      func() time.Time
}

// NewService builds the clients for cfg and caches through layer.
func NewService(cfg types.WeatherConfig, layer *cache.Layer) *Service {
	ttl := cfg.PollInterval
	if ttl <= 0 {
		ttl = defaultPollInterval
	}
	return &Service{
		forecast: NewBMKGClient(cfg),
		air:      NewAirQualityClient(cfg),
		layer:    layer,
		ttl:      ttl,
		rotator:  NewRotator(cfg.RotateInterval, time.Now()),
		now:      time.Now,
	}
}

// Rotator returns the display rotator.
func (s *Service) Rotator() *Rotator { return s.rotator }

// Interval returns the refresh interval.
func (s *Service) Interval() time.Duration { return s.ttl }

func forecastKey(adm4 string) string { return "bmkg:" + adm4 }

func airKey(lat, lon float64) string { return fmt.Sprintf("aqi:%.4f,%.4f", lat, lon) }

// Forecast returns the forecast for adm4, fetching at most once per interval.
func (s *Service) Forecast(ctx context.Context, adm4 string) (*types.ForecastResponse, error) {
	return cache.Do(ctx, s.layer, forecastKey(adm4), s.ttl, func(ctx context.Context) (*types.ForecastResponse, error) {
		return s.forecast.Forecast(ctx, adm4)
	})
}

// AirQuality returns the air quality at lat/lon, fetching at most once per interval.
func (s *Service) AirQuality(ctx context.Context, lat, lon float64) (*types.AirQualityResponse, error) {
	return cache.Do(ctx, s.layer, airKey(lat, lon), s.ttl, func(ctx context.Context) (*types.AirQualityResponse, error) {
		return s.air.Current(ctx, lat, lon)
	})
}

// RefreshForecast drops the cached forecast for adm4 and fetches it again.
func (s *Service) RefreshForecast(ctx context.Context, adm4 string) (*types.ForecastResponse, error) {
	if err := s.layer.Invalidate(ctx, forecastKey(adm4)); err != nil {
		slog.Debug("invalidating forecast", "adm4", adm4, "error", err)
	}
	return s.Forecast(ctx, adm4)
}

// RefreshAirQuality drops the cached reading for lat/lon and fetches it again.
func (s *Service) RefreshAirQuality(ctx context.Context, lat, lon float64) (*types.AirQualityResponse, error) {
	if err := s.layer.Invalidate(ctx, airKey(lat, lon)); err != nil {
		slog.Debug("invalidating air quality", "lat", lat, "lon", lon, "error", err)
	}
	return s.AirQuality(ctx, lat, lon)
}

// Report fetches both halves for k concurrently. A failure of one half is
// recorded in the report and does not affect the other.
func (s *Service) Report(ctx context.Context, k types.Kecamatan) Report {
	var (
		wg         sync.WaitGroup
		fc         *types.ForecastResponse
		aq         *types.AirQualityResponse
		fErr, aErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fc, fErr = s.Forecast(ctx, k.ADM4)
	}()
	go func() {
		defer wg.Done()
		aq, aErr = s.AirQuality(ctx, k.Lat, k.Lon)
	}()
	wg.Wait()
	recordFailure("bmkg", k, fErr)
	recordFailure("open-meteo", k, aErr)
	return s.buildReport(k, fc, fErr, aq, aErr)
}

func recordFailure(source string, k types.Kecamatan, err error) {
	if err == nil {
		return
	}
	metrics.SourceErrors.WithLabelValues(source).Inc()
	slog.Warn("weather source unavailable", "source", source, "adm4", k.ADM4, "error", err)
}

func (s *Service) buildReport(k types.Kecamatan, fc *types.ForecastResponse, fErr error, aq *types.AirQualityResponse, aErr error) Report {
	r := Report{Kecamatan: k, Forecast: []types.WeatherData{}}
	if fErr != nil {
		r.WeatherError = fErr.Error()
	} else if fc != nil {
		r.Forecast = upcoming(fc)
		if len(r.Forecast) > 0 {
			cur := r.Forecast[0]
			r.Current = &cur
		}
		loc := fc.Lokasi
		if len(fc.Data) > 0 {
			loc = fc.Data[0].Lokasi
		}
		r.Location = &loc
	}
	if aErr != nil {
		r.AirQualityError = aErr.Error()
	} else if aq != nil {
		cur := aq.Current
		level := ClassifyAQI(cur.USAQI)
		r.AirQuality = &cur
		r.AQILevel = &level
	}
	r.Display = s.rotator.Mode(s.now(), r.HasWeather(), r.HasAQI())
	return r
}

// upcoming returns the first ForecastSlots slots of the first forecast day.
func upcoming(fc *types.ForecastResponse) []types.WeatherData {
	if len(fc.Data) == 0 || len(fc.Data[0].Cuaca) == 0 {
		return []types.WeatherData{}
	}
	day := fc.Data[0].Cuaca[0]
	if len(day) > ForecastSlots {
		day = day[:ForecastSlots]
	}
	out := make([]types.WeatherData, len(day))
	copy(out, day)
	return out
}

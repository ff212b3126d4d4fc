// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "portal/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ContentConfig describes the content-management backend and the tenant whose
// content is served. VillageID namespaces every settings lookup.
type ContentConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the content API root (e.g. "https://cms.example.go.id/api").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// VillageID is the tenant/region identifier.
	VillageID string `json:"village_id" yaml:"village_id" mapstructure:"village_id"`

	// SettingsRetries is how many times analytics and chatbot lookups are retried (default 2).
	SettingsRetries int `json:"settings_retries" yaml:"settings_retries" mapstructure:"settings_retries"`
}

// CacheConfig controls the query layer.
type CacheConfig struct {
	// Size is the maximum number of entries held by the in-process store (default 1024).
	Size int `json:"size" yaml:"size" mapstructure:"size"`

	// SettingsTTL is the staleness window for slow-changing settings (default 30m).
	SettingsTTL time.Duration `json:"settings_ttl" yaml:"settings_ttl" mapstructure:"settings_ttl"`

	// RedisAddr selects the shared Redis store when set (e.g. "localhost:6379").
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`

	// RedisPassword is the optional Redis password.
	RedisPassword string `json:"-" yaml:"-" mapstructure:"redis_password"`

	// RedisDB is the Redis database number.
	RedisDB int `json:"redis_db" yaml:"redis_db" mapstructure:"redis_db"`
}

// ExportConfig holds the fixed text blocks printed on exported press releases.
type ExportConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Heading is the first preamble line (default "SIARAN PERS").
	Heading string `json:"heading" yaml:"heading" mapstructure:"heading"`

	// Government is the second preamble line.
	Government string `json:"government" yaml:"government" mapstructure:"government"`

	// Subheading is the third preamble line (default "(Press Release)").
	Subheading string `json:"subheading" yaml:"subheading" mapstructure:"subheading"`

	// Organization is the bold first line of the closing block.
	Organization string `json:"organization" yaml:"organization" mapstructure:"organization"`

	// Contacts are the remaining closing block lines, printed in order.
	Contacts []string `json:"contacts" yaml:"contacts" mapstructure:"contacts"`

	// Compress controls PDF stream compression (default true).
	Compress bool `json:"compress" yaml:"compress" mapstructure:"compress"`
}

// DefaultExportConfig returns the closing and preamble blocks used by the
// Muara Enim regency site.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "portal/0.1",
		},
		Heading:      "SIARAN PERS",
		Government:   "PEMERINTAH KABUPATEN MUARA ENIM",
		Subheading:   "(Press Release)",
		Organization: "Dinas Kominfo SP Pemkab Muara Enim",
		Contacts: []string{
			"Website: https://muaraenimkab.go.id/press-release",
			"Facebook: Pemkab Muara Enim",
			"Instagram: @pemkab_muaraenim",
		},
		Compress: true,
	}
}

// WeatherConfig holds settings for the weather and air-quality widget.
type WeatherConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// ForecastURL is the BMKG forecast endpoint.
	ForecastURL string `json:"forecast_url" yaml:"forecast_url" mapstructure:"forecast_url"`

	// AirQualityURL is the Open-Meteo air quality endpoint.
	AirQualityURL string `json:"air_quality_url" yaml:"air_quality_url" mapstructure:"air_quality_url"`

	// PollInterval is how often forecasts and air quality are refreshed (default 30m).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`

	// RotateInterval is how long the compact display shows one reading (default 6s).
	RotateInterval time.Duration `json:"rotate_interval" yaml:"rotate_interval" mapstructure:"rotate_interval"`

	// DBPath is the SQLite file holding per-client kecamatan preferences.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// SettingsVillageID is the tenant that owns the shared kecamatan list (default "21").
	SettingsVillageID string `json:"settings_village_id" yaml:"settings_village_id" mapstructure:"settings_village_id"`
}

// SiteConfig holds fallback identifiers used only when the remote settings lookup fails.
type SiteConfig struct {
	AnalyticsID      string `json:"analytics_id" yaml:"analytics_id" mapstructure:"analytics_id"`
	ChatbotID        string `json:"chatbot_id" yaml:"chatbot_id" mapstructure:"chatbot_id"`
	ChatbotURL       string `json:"chatbot_url" yaml:"chatbot_url" mapstructure:"chatbot_url"`
	ChatbotVillageID string `json:"chatbot_village_id" yaml:"chatbot_village_id" mapstructure:"chatbot_village_id"`
}

// SocialConfig holds settings for the Instagram feed mirror.
type SocialConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// GraphURL is the Instagram Graph API root.
	GraphURL string `json:"graph_url" yaml:"graph_url" mapstructure:"graph_url"`

	// AccessToken is used when the remote token setting is absent.
	AccessToken string `json:"-" yaml:"-" mapstructure:"access_token"`

	// Limit is the number of media items requested (default 6).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// ServerConfig holds the HTTP API listener settings.
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	LogLevel     string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// PortalConfig groups all component configurations.
type PortalConfig struct {
	Content ContentConfig `json:"content" yaml:"content" mapstructure:"content"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Export  ExportConfig  `json:"export" yaml:"export" mapstructure:"export"`
	Weather WeatherConfig `json:"weather" yaml:"weather" mapstructure:"weather"`
	Site    SiteConfig    `json:"site" yaml:"site" mapstructure:"site"`
	Social  SocialConfig  `json:"social" yaml:"social" mapstructure:"social"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

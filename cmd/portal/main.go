// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the portal CLI. The serve command runs
// the HTTP API; the other commands exercise single components against the
// configured content API from the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kominfo-muaraenim/portal/internal/secrets"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the portal CLI.
var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Backend core of the regency content portal",
	Long: `portal serves the regency website's data layer: cached content listings,
tenant feature flags and site settings, the unified search, press-release
export bundles, the weather and air-quality widget, and the Instagram mirror.

Run "portal serve" for the HTTP API. The remaining commands run one component
against the configured content API and print the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./portal.yaml or ~/.config/portal/portal.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("server.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("portal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "portal"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("PORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can override it, e.g.
// PORTAL_CONTENT_BASE_URL.
func setDefaults() {
	exp := types.DefaultExportConfig()

	viper.SetDefault("content.base_url", "http://localhost:8000/api")
	viper.SetDefault("content.village_id", "12")
	viper.SetDefault("content.timeout", 30*time.Second)
	viper.SetDefault("content.user_agent", "portal/"+version)
	viper.SetDefault("content.settings_retries", 2)

	viper.SetDefault("cache.size", 1024)
	viper.SetDefault("cache.settings_ttl", 30*time.Minute)
	viper.SetDefault("cache.redis_addr", "")
	viper.SetDefault("cache.redis_password", "")
	viper.SetDefault("cache.redis_db", 0)

	viper.SetDefault("export.timeout", exp.Timeout)
	viper.SetDefault("export.user_agent", "portal/"+version)
	viper.SetDefault("export.heading", exp.Heading)
	viper.SetDefault("export.government", exp.Government)
	viper.SetDefault("export.subheading", exp.Subheading)
	viper.SetDefault("export.organization", exp.Organization)
	viper.SetDefault("export.contacts", exp.Contacts)
	viper.SetDefault("export.compress", exp.Compress)

	viper.SetDefault("weather.timeout", 15*time.Second)
	viper.SetDefault("weather.user_agent", "portal/"+version)
	viper.SetDefault("weather.forecast_url", "")
	viper.SetDefault("weather.air_quality_url", "")
	viper.SetDefault("weather.poll_interval", 30*time.Minute)
	viper.SetDefault("weather.rotate_interval", 6*time.Second)
	viper.SetDefault("weather.db_path", "data/portal.db")
	viper.SetDefault("weather.settings_village_id", "21")

	viper.SetDefault("site.analytics_id", "")
	viper.SetDefault("site.chatbot_id", "")
	viper.SetDefault("site.chatbot_url", "")
	viper.SetDefault("site.chatbot_village_id", "21")

	viper.SetDefault("social.timeout", 15*time.Second)
	viper.SetDefault("social.user_agent", "portal/"+version)
	viper.SetDefault("social.graph_url", "")
	viper.SetDefault("social.access_token", "")
	viper.SetDefault("social.limit", 6)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 120*time.Second)
	viper.SetDefault("server.log_level", "info")
}

// loadConfig decodes the merged file, environment and flag values and fills
// unset credentials from .secrets/.
func loadConfig() (types.PortalConfig, error) {
	var cfg types.PortalConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	secrets.Apply(&cfg, loadedSecrets)
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// setupLogging installs the default logger. Commands that print to the
// terminal log as text on stderr; serve logs JSON.
func setupLogging(level string, json bool) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed contents
// are the value. Secrets never live in portal.yaml.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// Known secret files.
const (
	InstagramAccessToken = "instagram-access-token"
	RedisPassword        = "redis-password"
	AnalyticsID          = "google-analytics-id"
	ChatbotID            = "chatbot-id"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply copies known secrets into cfg. Values already set in cfg (for
// example from PORTAL_ environment variables) win over files.
func Apply(cfg *types.PortalConfig, s map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s[key]
		}
	}
	fill(&cfg.Social.AccessToken, InstagramAccessToken)
	fill(&cfg.Cache.RedisPassword, RedisPassword)
	fill(&cfg.Site.AnalyticsID, AnalyticsID)
	fill(&cfg.Site.ChatbotID, ChatbotID)
}

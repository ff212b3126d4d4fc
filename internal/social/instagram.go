// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package social mirrors the tenant's Instagram profile and latest posts
// from the Instagram Graph API.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// GraphBaseURL is the Graph API root. Tests point it at an httptest server.
var GraphBaseURL = "https://graph.instagram.com"

// FeedTTL is how long a mirrored feed is served before it is refetched.
const FeedTTL = time.Hour

const (
	userFields   = "id,username,account_type,media_count"
	mediaFields  = "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp,username"
	defaultLimit = 6
)

var (
	// ErrNoToken means no access token is configured for the tenant.
	ErrNoToken = errors.New("instagram token not configured")

	// ErrNoFeed means the media list could not be fetched.
	ErrNoFeed = errors.New("instagram feed unavailable")
)

// InstagramClient calls the Graph API. The token travels as a query
// parameter, so URLs are never included in errors or logs.
type InstagramClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

// NewInstagramClient returns a client for cfg.
func NewInstagramClient(cfg types.SocialConfig) *InstagramClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "portal/0.1"
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = GraphBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	return &InstagramClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.GraphURL, "/"),
		userAgent:  cfg.UserAgent,
		limit:      cfg.Limit,
	}
}

func (c *InstagramClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: %w", path, &content.StatusError{Code: resp.StatusCode, URL: path})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// User fetches the profile behind token.
func (c *InstagramClient) User(ctx context.Context, token string) (*types.InstagramUser, error) {
	var u types.InstagramUser
	params := url.Values{"fields": {userFields}, "access_token": {token}}
	if err := c.get(ctx, "/me", params, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type mediaPage struct {
	Data   []types.InstagramMedia `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}

// Media fetches the latest posts and the cursor of the next page.
func (c *InstagramClient) Media(ctx context.Context, token string) ([]types.InstagramMedia, string, error) {
	var page mediaPage
	params := url.Values{
		"fields":       {mediaFields},
		"limit":        {strconv.Itoa(c.limit)},
		"access_token": {token},
	}
	if err := c.get(ctx, "/me/media", params, &page); err != nil {
		return nil, "", err
	}
	var next string
	if page.Paging.Next != "" {
		next = page.Paging.Cursors.After
	}
	return page.Data, next, nil
}

// Feed fetches profile and media concurrently. A profile failure leaves
// User nil; a media failure fails the whole feed with ErrNoFeed.
func (c *InstagramClient) Feed(ctx context.Context, token string) (*types.InstagramFeed, error) {
	var (
		wg       sync.WaitGroup
		user     *types.InstagramUser
		userErr  error
		media    []types.InstagramMedia
		next     string
		mediaErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		user, userErr = c.User(ctx, token)
	}()
	go func() {
		defer wg.Done()
		media, next, mediaErr = c.Media(ctx, token)
	}()
	wg.Wait()

	if mediaErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFeed, mediaErr)
	}
	if userErr != nil {
		slog.Warn("instagram profile unavailable", "error", userErr)
	}
	if media == nil {
		media = []types.InstagramMedia{}
	}
	feed := &types.InstagramFeed{User: user, Media: media, NextCursor: next}
	if user != nil {
		feed.Username = user.Username
	}
	return feed, nil
}

// TokenSource is the part of the content client the mirror needs.
type TokenSource interface {
	GetSetting(ctx context.Context, key string, headers map[string]string) (types.Setting, error)
	VillageID() string
}

// Mirror serves the tenant's feed through the query layer.
type Mirror struct {
	client        *InstagramClient
	src           TokenSource
	layer         *cache.Layer
	fallbackToken string
}

// NewMirror returns a mirror. fallbackToken is used when the
// `instagram-token-{village}` setting holds none.
func NewMirror(client *InstagramClient, src TokenSource, layer *cache.Layer, fallbackToken string) *Mirror {
	return &Mirror{client: client, src: src, layer: layer, fallbackToken: fallbackToken}
}

// Token resolves the access token and the configured display username.
func (m *Mirror) Token(ctx context.Context) (types.InstagramTokenSetting, error) {
	key := "instagram-token-" + m.src.VillageID()
	v, err := cache.Do(ctx, m.layer, key, cache.SettingsTTL, func(ctx context.Context) (types.InstagramTokenSetting, error) {
		s, err := m.src.GetSetting(ctx, key, nil)
		if errors.Is(err, content.ErrNotFound) {
			return types.InstagramTokenSetting{}, nil
		}
		if err != nil {
			return types.InstagramTokenSetting{}, err
		}
		v, _, err := content.DecodeValue[types.InstagramTokenSetting](s)
		return v, err
	})
	if err != nil {
		slog.Warn("instagram token setting unavailable", "key", key, "error", err)
	}
	v.Token = strings.TrimSpace(v.Token)
	if v.Token == "" {
		v.Token = m.fallbackToken
	}
	if v.Token == "" {
		return v, ErrNoToken
	}
	return v, nil
}

// Feed returns the mirrored feed, refetched at most once per FeedTTL.
func (m *Mirror) Feed(ctx context.Context) (*types.InstagramFeed, error) {
	tok, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := cache.Do(ctx, m.layer, "instagram-feed-"+m.src.VillageID(), FeedTTL, func(ctx context.Context) (*types.InstagramFeed, error) {
		return m.client.Feed(ctx, tok.Token)
	})
	if err != nil {
		metrics.SourceErrors.WithLabelValues("instagram").Inc()
		return nil, err
	}
	if feed.Username == "" {
		out := *feed
		out.Username = tok.Username
		return &out, nil
	}
	return feed, nil
}

var bulanSingkat = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// RelativeTime renders an Instagram timestamp the way the feed cards do:
// minutes, hours, days or weeks ago, then a short Indonesian date after 30
// days. Unparseable input renders as "".
func RelativeTime(timestamp string, now time.Time) string {
	if timestamp == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02T15:04:05-0700", timestamp)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, timestamp); err != nil {
			return ""
		}
	}
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	days := int(d.Hours() / 24)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d menit lalu", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d jam lalu", int(d.Hours()))
	case days < 7:
		return fmt.Sprintf("%d hari lalu", days)
	case days < 30:
		return fmt.Sprintf("%d minggu lalu", days/7)
	default:
		t = t.In(now.Location())
		return fmt.Sprintf("%d %s %d", t.Day(), bulanSingkat[t.Month()-1], t.Year())
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content is the read-only client for the content-management API:
// article, press-release, tour and infografis listings, press-release detail,
// tenant settings, static pages, and raw binary downloads.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kominfo-muaraenim/portal/internal/httputil"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ErrNotFound is returned (wrapped) when the API answers 404, e.g. for an
// unknown slug.
var ErrNotFound = errors.New("not found")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Code, e.URL)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "portal/0.1"
)

// Client issues GET requests against the content API. All tenant scoping
// comes from the ContentConfig it was built with.
type Client struct {
	httpClient *http.Client
	cfg        types.ContentConfig
}

// NewClient returns a client for cfg. A zero timeout or user agent gets a default.
func NewClient(cfg types.ContentConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// BaseURL returns the content API root without a trailing slash.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// VillageID returns the tenant identifier.
func (c *Client) VillageID() string { return c.cfg.VillageID }

// TenantKey returns name namespaced by the tenant, e.g. "features-12".
func (c *Client) TenantKey(name string) string {
	return name + "-" + c.cfg.VillageID
}

// ListArticles fetches one page of articles.
func (c *Client) ListArticles(ctx context.Context, q types.ContentQuery) (types.Page[types.Article], error) {
	q.Kind = types.KindArticle
	return list[types.Article](ctx, c, q)
}

// ListPressReleases fetches one page of press releases.
func (c *Client) ListPressReleases(ctx context.Context, q types.ContentQuery) (types.Page[types.PressRelease], error) {
	q.Kind = types.KindPressRelease
	return list[types.PressRelease](ctx, c, q)
}

// ListTours fetches one page of tour listings.
func (c *Client) ListTours(ctx context.Context, q types.ContentQuery) (types.Page[types.Tour], error) {
	q.Kind = types.KindTour
	return list[types.Tour](ctx, c, q)
}

// ListInfografis fetches one page of infographics.
func (c *Client) ListInfografis(ctx context.Context, q types.ContentQuery) (types.Page[types.Infografis], error) {
	q.Kind = types.KindInfografis
	return list[types.Infografis](ctx, c, q)
}

func list[T any](ctx context.Context, c *Client, q types.ContentQuery) (types.Page[T], error) {
	var resp types.ListResponse[T]
	if err := c.getJSON(ctx, "/"+string(q.Kind), q.Params(), nil, 0, &resp); err != nil {
		return types.Page[T]{}, fmt.Errorf("listing %s: %w", q.Kind, err)
	}
	return types.Page[T]{
		Items:      resp.Data,
		NextCursor: types.CursorFromURL(resp.Meta.NextPageURL),
	}, nil
}

// GetPressRelease fetches one press release by slug. with selects eager-loaded
// relations (e.g. "category,attachments"). Unknown slugs wrap ErrNotFound.
func (c *Client) GetPressRelease(ctx context.Context, slug, with string) (types.PressRelease, error) {
	params := url.Values{}
	if with != "" {
		params.Set("with", with)
	}
	var resp types.ItemResponse[types.PressRelease]
	if err := c.getJSON(ctx, "/press-release/"+url.PathEscape(slug), params, nil, 0, &resp); err != nil {
		return types.PressRelease{}, fmt.Errorf("getting press release %q: %w", slug, err)
	}
	return resp.Data, nil
}

// GetSetting fetches the setting named key. headers are sent as-is (e.g. a
// fixed x-village-id for shared settings).
func (c *Client) GetSetting(ctx context.Context, key string, headers map[string]string) (types.Setting, error) {
	return c.getSetting(ctx, key, headers, 0)
}

// GetSettingWithRetry is GetSetting with retries on transient failures. A
// retries value of 0 uses the configured SettingsRetries.
func (c *Client) GetSettingWithRetry(ctx context.Context, key string, headers map[string]string, retries int) (types.Setting, error) {
	if retries <= 0 {
		retries = c.cfg.SettingsRetries
	}
	if retries <= 0 {
		retries = 2
	}
	return c.getSetting(ctx, key, headers, retries)
}

func (c *Client) getSetting(ctx context.Context, key string, headers map[string]string, retries int) (types.Setting, error) {
	var resp types.ItemResponse[types.Setting]
	if err := c.getJSON(ctx, "/settings/"+url.PathEscape(key), nil, headers, retries, &resp); err != nil {
		return types.Setting{}, fmt.Errorf("getting setting %q: %w", key, err)
	}
	return resp.Data, nil
}

// GetStaticPage fetches a CMS static page by slug.
func (c *Client) GetStaticPage(ctx context.Context, slug string) (types.StaticPage, error) {
	var resp types.ItemResponse[types.StaticPage]
	if err := c.getJSON(ctx, "/statis-page/"+url.PathEscape(slug), nil, nil, 0, &resp); err != nil {
		return types.StaticPage{}, fmt.Errorf("getting static page %q: %w", slug, err)
	}
	return resp.Data, nil
}

// Fetch downloads an absolute URL and returns the body bytes.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, headers map[string]string, retries int, out any) error {
	apiURL := c.cfg.BaseURL + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	var resp *http.Response
	if retries > 0 {
		resp, err = httputil.DoWithRetry(ctx, c.httpClient, req, retries)
	} else {
		resp, err = c.httpClient.Do(req)
	}
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: apiURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response from %s: %w", apiURL, err)
	}
	return nil
}

// DecodeValue unmarshals a setting's value into T. An absent or null value
// reports ok=false without error.
func DecodeValue[T any](s types.Setting) (v T, ok bool, err error) {
	raw := strings.TrimSpace(string(s.Value))
	if raw == "" || raw == "null" {
		return v, false, nil
	}
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return v, false, fmt.Errorf("decoding setting %q: %w", s.Name, err)
	}
	return v, true, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kominfo-muaraenim/portal/internal/cache"
	"github.com/kominfo-muaraenim/portal/internal/export"
	"github.com/kominfo-muaraenim/portal/internal/features"
	"github.com/kominfo-muaraenim/portal/internal/search"
	"github.com/kominfo-muaraenim/portal/internal/settings"
	"github.com/kominfo-muaraenim/portal/internal/social"
	"github.com/kominfo-muaraenim/portal/internal/weather"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

const (
	clientIDHeader  = "X-Client-ID"
	defaultPageSize = 9
	maxPageSize     = 50

	// pressReleaseWith loads the relations the detail page and export need.
	pressReleaseWith = "category,attachments"
)

// Content is the part of the content client the handlers need.
type Content interface {
	search.Lister
	ListPressReleases(ctx context.Context, q types.ContentQuery) (types.Page[types.PressRelease], error)
	GetPressRelease(ctx context.Context, slug, with string) (types.PressRelease, error)
}

// Deps are the components behind the routes.
type Deps struct {
	Content   Content
	Layer     *cache.Layer
	Features  *features.Loader
	Settings  *settings.Resolver
	Search    *search.Aggregator
	Exporter  *export.Exporter
	Weather   *weather.Service
	Locations *weather.Locations
	Prefs     *weather.PreferenceStore
	Instagram *social.Mirror
}

// Handler serves the API routes.
type Handler struct {
	d Deps
}

// NewHandler returns a handler over d.
func NewHandler(d Deps) *Handler {
	return &Handler{d: d}
}

// Health reports liveness and cache occupancy.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"cache_entries": h.d.Layer.Store().Len(),
		"timestamp":     time.Now(),
	})
}

// featureConfig loads flags; it never fails, a fallback is only logged by the loader.
func (h *Handler) featureConfig(c *gin.Context) types.FeatureConfig {
	cfg, _ := h.d.Features.Load(c.Request.Context())
	return cfg
}

// Features returns the resolved feature configuration.
func (h *Handler) Features(c *gin.Context) {
	cfg, err := h.d.Features.Load(c.Request.Context())
	if err != nil {
		c.Header("X-Features-Fallback", "true")
	}
	c.JSON(http.StatusOK, gin.H{
		"features": cfg,
		"enabled":  features.EnabledSections(cfg),
	})
}

// Sections returns the configured dynamic sections with their page content.
func (h *Handler) Sections(c *gin.Context) {
	sections, err := h.d.Features.DynamicSections(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// Site returns analytics, chat widget, logo and the service list.
func (h *Handler) Site(c *gin.Context) {
	c.JSON(http.StatusOK, h.d.Settings.Site(c.Request.Context(), h.featureConfig(c)))
}

// Search runs the unified search for ?q=.
func (h *Handler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.d.Search.Search(c.Request.Context(), c.Query("q")))
}

// datedKinds are the listings that default to newest first.
var datedKinds = map[types.ResourceKind]bool{
	types.KindArticle:      true,
	types.KindPressRelease: true,
}

// parseQuery reads the listing parameters shared by every listing route.
// Only dated listings get the published_at/desc sort by default; the others
// are left in the API's own order unless the caller asks otherwise.
func parseQuery(c *gin.Context, kind types.ResourceKind) (types.ContentQuery, bool) {
	q := types.ContentQuery{
		Kind:      kind,
		Search:    c.Query("search"),
		Cursor:    c.Query("cursor"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		DateFrom:  c.Query("from"),
		DateTo:    c.Query("to"),
		PageSize:  defaultPageSize,
	}
	if datedKinds[kind] {
		if q.SortBy == "" {
			q.SortBy = "published_at"
		}
		if q.SortOrder == "" {
			q.SortOrder = "desc"
		}
	}
	if q.SortOrder != "" && q.SortOrder != "asc" && q.SortOrder != "desc" {
		badRequest(c, "sort_order must be asc or desc")
		return q, false
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			badRequest(c, fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
			return q, false
		}
		q.PageSize = n
	}
	if v := c.Query("category"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "category must be numeric")
			return q, false
		}
		q.CategoryID = n
	}
	return q, true
}

// listPage fetches one page through the layer so identical concurrent
// requests share a single upstream call.
func listPage[T any](c *gin.Context, layer *cache.Layer, kind types.ResourceKind, list func(context.Context, types.ContentQuery) (types.Page[T], error)) {
	q, ok := parseQuery(c, kind)
	if !ok {
		return
	}
	page, err := cache.Do(c.Request.Context(), layer, q.Key(), 0, func(ctx context.Context) (types.Page[T], error) {
		return list(ctx, q)
	})
	if err != nil {
		fail(c, err)
		return
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	c.JSON(http.StatusOK, page)
}

// ListPressReleases returns one page of press releases.
func (h *Handler) ListPressReleases(c *gin.Context) {
	if !h.featureConfig(c).PressReleaseEnabled {
		notFound(c, "press releases are disabled")
		return
	}
	listPage(c, h.d.Layer, types.KindPressRelease, h.d.Content.ListPressReleases)
}

// ListArticles returns one page of articles.
func (h *Handler) ListArticles(c *gin.Context) {
	listPage(c, h.d.Layer, types.KindArticle, h.d.Content.ListArticles)
}

// ListTours returns one page of tours.
func (h *Handler) ListTours(c *gin.Context) {
	if !features.IsSectionEnabled(h.featureConfig(c), types.SectionTour) {
		notFound(c, "tours are disabled")
		return
	}
	listPage(c, h.d.Layer, types.KindTour, h.d.Content.ListTours)
}

// ListInfografis returns one page of infographics.
func (h *Handler) ListInfografis(c *gin.Context) {
	listPage(c, h.d.Layer, types.KindInfografis, h.d.Content.ListInfografis)
}

func (h *Handler) pressRelease(c *gin.Context) (types.PressRelease, bool) {
	if !h.featureConfig(c).PressReleaseEnabled {
		notFound(c, "press releases are disabled")
		return types.PressRelease{}, false
	}
	slug := c.Param("slug")
	pr, err := cache.Do(c.Request.Context(), h.d.Layer, "press-release/"+slug, 0, func(ctx context.Context) (types.PressRelease, error) {
		return h.d.Content.GetPressRelease(ctx, slug, pressReleaseWith)
	})
	if err != nil {
		fail(c, err)
		return pr, false
	}
	return pr, true
}

// PressReleaseDetail is the detail route's body.
type PressReleaseDetail struct {
	PressRelease types.PressRelease `json:"press_release"`
	Date         string             `json:"date"`
	Paragraphs   []string           `json:"paragraphs"`
	Images       []export.ImageRef  `json:"images"`
	ArchiveName  string             `json:"archive_name"`
}

// GetPressRelease returns one press release with its extracted paragraphs
// and the images an export would contain.
func (h *Handler) GetPressRelease(c *gin.Context) {
	pr, ok := h.pressRelease(c)
	if !ok {
		return
	}
	images := h.d.Exporter.ImageRefs(pr)
	if images == nil {
		images = []export.ImageRef{}
	}
	c.JSON(http.StatusOK, PressReleaseDetail{
		PressRelease: pr,
		Date:         export.FormatDate(pr.PublishedTime()),
		Paragraphs:   export.ExtractParagraphs(pr.Content),
		Images:       images,
		ArchiveName:  export.ArchiveName(pr.Slug),
	})
}

// ExportPressRelease streams the zip archive for one press release.
func (h *Handler) ExportPressRelease(c *gin.Context) {
	pr, ok := h.pressRelease(c)
	if !ok {
		return
	}
	bundle, err := h.d.Exporter.Export(c.Request.Context(), pr)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, bundle.ArchiveName))
	c.Status(http.StatusOK)
	if err := export.WriteZip(bundle, c.Writer); err != nil {
		// Headers are already sent; the truncated body is all we can signal.
		_ = c.Error(err)
	}
}

// WeatherLocations returns the selectable kecamatan.
func (h *Handler) WeatherLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": h.d.Locations.List(c.Request.Context())})
}

// Weather returns forecast, air quality and display mode. The kecamatan is
// ?adm4=, else the client's stored choice, else the first configured one.
func (h *Handler) Weather(c *gin.Context) {
	ctx := c.Request.Context()
	list := h.d.Locations.List(ctx)

	var k types.Kecamatan
	if adm4 := c.Query("adm4"); adm4 != "" {
		var ok bool
		if k, ok = weather.Find(list, adm4); !ok {
			notFound(c, "unknown adm4 "+adm4)
			return
		}
	} else {
		var (
			ok  bool
			err error
		)
		k, ok, err = h.d.Prefs.Selected(ctx, c.GetHeader(clientIDHeader), list)
		if err != nil {
			fail(c, err)
			return
		}
		if !ok {
			notFound(c, "no kecamatan configured")
			return
		}
	}
	c.JSON(http.StatusOK, h.d.Weather.Report(ctx, k))
}

func clientID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(clientIDHeader))
	if id == "" {
		badRequest(c, clientIDHeader+" header is required")
		return "", false
	}
	return id, true
}

// GetWeatherPreference returns the client's selected kecamatan.
func (h *Handler) GetWeatherPreference(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	stored, found, err := h.d.Prefs.Get(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if !found {
		k, ok, err := h.d.Prefs.Selected(ctx, "", h.d.Locations.List(ctx))
		if err != nil || !ok {
			notFound(c, "no kecamatan configured")
			return
		}
		stored = k
	}
	c.JSON(http.StatusOK, gin.H{"kecamatan": stored, "stored": found})
}

type preferenceRequest struct {
	ADM4 string `json:"adm4" binding:"required"`
}

// PutWeatherPreference stores the client's choice. Only configured
// kecamatan are accepted.
func (h *Handler) PutWeatherPreference(c *gin.Context) {
	id, ok := clientID(c)
	if !ok {
		return
	}
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	k, found := weather.Find(h.d.Locations.List(ctx), req.ADM4)
	if !found {
		badRequest(c, "unknown adm4 "+req.ADM4)
		return
	}
	if err := h.d.Prefs.Set(ctx, id, k); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kecamatan": k, "stored": true})
}

// Instagram returns the mirrored feed when the instagram section is enabled.
func (h *Handler) Instagram(c *gin.Context) {
	if !features.IsSectionEnabled(h.featureConfig(c), types.SectionInstagram) {
		notFound(c, "instagram section is disabled")
		return
	}
	feed, err := h.d.Instagram.Feed(c.Request.Context())
	if errors.Is(err, social.ErrNoToken) {
		notFound(c, err.Error())
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

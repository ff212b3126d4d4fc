// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the portal core over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(requestLogger())
	r.Use(recovery())
	r.Use(cors())
	r.Use(requestMetrics())

	setupRoutes(r, h)
	return r
}

func setupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/features", h.Features)
		api.GET("/sections", h.Sections)
		api.GET("/site", h.Site)
		api.GET("/search", h.Search)

		api.GET("/press-releases", h.ListPressReleases)
		api.GET("/press-releases/:slug", h.GetPressRelease)
		api.GET("/press-releases/:slug/export", h.ExportPressRelease)
		api.GET("/articles", h.ListArticles)
		api.GET("/tours", h.ListTours)
		api.GET("/infografis", h.ListInfografis)

		api.GET("/weather", h.Weather)
		api.GET("/weather/locations", h.WeatherLocations)
		api.GET("/weather/preference", h.GetWeatherPreference)
		api.PUT("/weather/preference", h.PutWeatherPreference)

		api.GET("/instagram", h.Instagram)
	}

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// Server wraps the http.Server serving the router.
type Server struct {
	server *http.Server
}

// NewServer returns a server for cfg. Zero timeouts get 30s read and 120s
// write, the latter leaving room for exports.
func NewServer(cfg types.ServerConfig, h *Handler) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 120 * time.Second
	}
	return &Server{server: &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(h),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

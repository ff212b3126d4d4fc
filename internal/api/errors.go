// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kominfo-muaraenim/portal/internal/content"
	"github.com/kominfo-muaraenim/portal/internal/export"
)

// Error codes.
const (
	codeUpstream     = "UPSTREAM_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeExportFailed = "EXPORT_FAILED"
	codeInvalid      = "INVALID_REQUEST"
	codeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx JSON response. UPSTREAM_ERROR
// responses may be retried by repeating the request.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

func newError(msg, code string) ErrorResponse {
	return ErrorResponse{Error: msg, Code: code, Timestamp: time.Now()}
}

// fail maps err onto a status and code. Only this function decides HTTP
// semantics for errors coming out of the core packages.
func fail(c *gin.Context, err error) {
	status, code := http.StatusBadGateway, codeUpstream
	switch {
	case errors.Is(err, export.ErrExportFailed):
		code = codeExportFailed
	case errors.Is(err, content.ErrNotFound):
		status, code = http.StatusNotFound, codeNotFound
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Request.URL.Path, "code", code, "error", err)
	}
	c.AbortWithStatusJSON(status, newError(err.Error(), code))
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, newError(msg, codeNotFound))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, newError(msg, codeInvalid))
}

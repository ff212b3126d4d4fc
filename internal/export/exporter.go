// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export turns a press release into a downloadable archive holding a
// PDF and a DOCX rendering of its text plus every referenced image.
//
// The pipeline fetches the tenant logo, renders both documents from one
// paragraph slice, fetches the images concurrently and places them by their
// precomputed index. Any failed fetch aborts the export; no partial archive
// is ever produced.
package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kominfo-muaraenim/portal/internal/metrics"
	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// ErrExportFailed wraps every failure of the pipeline.
var ErrExportFailed = errors.New("export failed")

// Source is the part of the content client the exporter needs. Relative
// image references are resolved against BaseURL.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	BaseURL() string
}

// LogoSource resolves the tenant logo, e.g. *settings.Resolver.
type LogoSource interface {
	LogoURL(ctx context.Context) (string, error)
}

// Exporter builds export bundles for one tenant.
type Exporter struct {
	src   Source
	logos LogoSource
	cfg   types.ExportConfig
}

// NewExporter returns an exporter. Empty text blocks in cfg take the
// DefaultExportConfig values.
func NewExporter(src Source, logos LogoSource, cfg types.ExportConfig) *Exporter {
	def := types.DefaultExportConfig()
	if cfg.Heading == "" {
		cfg.Heading = def.Heading
	}
	if cfg.Government == "" {
		cfg.Government = def.Government
	}
	if cfg.Subheading == "" {
		cfg.Subheading = def.Subheading
	}
	if cfg.Organization == "" {
		cfg.Organization = def.Organization
	}
	if cfg.Contacts == nil {
		cfg.Contacts = def.Contacts
	}
	return &Exporter{src: src, logos: logos, cfg: cfg}
}

// Config returns the effective export configuration.
func (e *Exporter) Config() types.ExportConfig { return e.cfg }

// ImageRefs collects pr's images with URLs resolved against the content API.
func (e *Exporter) ImageRefs(pr types.PressRelease) []ImageRef {
	return CollectImageRefs(pr, e.src.BaseURL())
}

// ArchiveName is the download name of pr's archive.
func ArchiveName(slug string) string {
	return fmt.Sprintf("press-release-%s.zip", slug)
}

// Export runs the whole pipeline for pr.
func (e *Exporter) Export(ctx context.Context, pr types.PressRelease) (*types.ExportBundle, error) {
	return e.ExportWith(ctx, pr, ExtractParagraphs(pr.Content), e.ImageRefs(pr))
}

// ExportWith renders pr from already extracted paragraphs and image refs.
func (e *Exporter) ExportWith(ctx context.Context, pr types.PressRelease, paragraphs []string, refs []ImageRef) (*types.ExportBundle, error) {
	start := time.Now()
	bundle, err := e.export(ctx, pr, paragraphs, refs)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("failed").Inc()
		slog.Warn("export failed", "slug", pr.Slug, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrExportFailed, pr.Slug, err)
	}
	metrics.ExportsTotal.WithLabelValues("ok").Inc()
	slog.Info("export complete", "slug", pr.Slug, "entries", len(bundle.Entries), "duration", time.Since(start))
	return bundle, nil
}

func (e *Exporter) export(ctx context.Context, pr types.PressRelease, paragraphs []string, refs []ImageRef) (*types.ExportBundle, error) {
	logoURL, err := e.logos.LogoURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving logo: %w", err)
	}
	logo, err := e.src.Fetch(ctx, logoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching logo: %w", err)
	}

	doc := NewDocument(pr, paragraphs, e.cfg)
	pdf, err := RenderPDF(doc, logo)
	if err != nil {
		return nil, err
	}
	docx, err := RenderDOCX(doc, logo)
	if err != nil {
		return nil, err
	}

	images := make([][]byte, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			data, err := e.src.Fetch(gctx, ref.URL)
			if err != nil {
				return fmt.Errorf("fetching %s (%s): %w", ref.Name, ref.Title, err)
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle := &types.ExportBundle{
		ArchiveName: ArchiveName(pr.Slug),
		Entries: []types.ExportEntry{
			{Name: fmt.Sprintf("press-release-%s.pdf", pr.Slug), Data: pdf},
			{Name: fmt.Sprintf("press-release-%s.docx", pr.Slug), Data: docx},
		},
	}
	for i, ref := range refs {
		bundle.Entries = append(bundle.Entries, types.ExportEntry{Name: ref.Name, Data: images[i]})
	}
	return bundle, nil
}

// WriteZip writes b as a deflate-compressed zip archive, entries in order.
func WriteZip(b *types.ExportBundle, w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range b.Entries {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("adding %s: %w", e.Name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			return fmt.Errorf("writing %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// SaveArchive writes b into dir under its archive name and returns the path.
// The file appears atomically: it is written to a temp file and renamed.
func SaveArchive(b *types.ExportBundle, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	destPath := filepath.Join(dir, b.ArchiveName)

	tmpFile, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := WriteZip(b, tmpFile)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"time"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// MissingTitle is printed when a press release has no title.
const MissingTitle = "Artikel Tidak Ditemukan"

// Document is the content shared by the PDF and DOCX renderings. Both are
// built from the same Paragraphs slice.
type Document struct {
	Title      string
	Date       string
	Paragraphs []string
	Config     types.ExportConfig
}

// NewDocument assembles the printable document for pr. Paragraphs are
// stripped of residual markup; paragraphs that end up empty are dropped.
func NewDocument(pr types.PressRelease, paragraphs []string, cfg types.ExportConfig) Document {
	title := pr.Title
	if title == "" {
		title = MissingTitle
	}
	clean := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = StripTags(p); p != "" {
			clean = append(clean, p)
		}
	}
	return Document{
		Title:      title,
		Date:       FormatDate(pr.PublishedTime()),
		Paragraphs: clean,
		Config:     cfg,
	}
}

var (
	hariID  = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	bulanID = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

// FormatDate renders t as an Indonesian long date, e.g. "Senin, 17 Agustus 2026".
// A zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s, %d %s %d", hariID[t.Weekday()], t.Day(), bulanID[t.Month()-1], t.Year())
}

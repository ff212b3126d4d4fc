// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pdf/fpdf"
)

// A4 portrait layout in millimetres.
const (
	pageCenterX   = 105.0
	marginLeft    = 20.0
	contentWidth  = 170.0
	lineHeight    = 6.0
	topY          = 20.0
	pageBreakY    = 297.0 - 40.0
	logoSize      = 25.0
	paragraphGap  = 5.0
	baselineShift = 5.0
)

const logoName = "logo"

// imageType maps sniffed image bytes to the fpdf image type.
func imageType(data []byte) (string, error) {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported logo type %s", ct)
	}
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

// breakIfFull starts a new page once the running offset passes the printable height.
func (w *pdfWriter) breakIfFull() {
	if w.y > pageBreakY {
		w.pdf.AddPage()
		w.y = topY
	}
}

func (w *pdfWriter) centered(text string) {
	t := w.tr(text)
	w.pdf.Text(pageCenterX-w.pdf.GetStringWidth(t)/2, w.y+baselineShift, t)
}

func (w *pdfWriter) left(text string) {
	w.pdf.Text(marginLeft, w.y+baselineShift, w.tr(text))
}

// wrap splits text into lines no wider than width at the current font,
// breaking at spaces and hard-splitting words that are too long on their own.
func (w *pdfWriter) wrap(text string, width float64) []string {
	var lines []string
	for _, raw := range strings.Split(w.tr(text), "\n") {
		var line string
		for _, word := range strings.Fields(raw) {
			for w.pdf.GetStringWidth(word) > width && len(word) > 1 {
				cut := len(word) - 1
				for cut > 1 && w.pdf.GetStringWidth(word[:cut]) > width {
					cut--
				}
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:cut])
				word = word[cut:]
			}
			switch {
			case line == "":
				line = word
			case w.pdf.GetStringWidth(line+" "+word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// RenderPDF lays out doc on A4 pages: logo and three-line header, title,
// date, the paragraphs, and the closing block. Lines flow onto a new page
// whenever the running offset passes the bottom margin.
func RenderPDF(doc Document, logo []byte) ([]byte, error) {
	pdf, err := layoutPDF(doc, logo)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func layoutPDF(doc Document, logo []byte) (*fpdf.Fpdf, error) {
	typ, err := imageType(logo)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(doc.Config.Compress)
	pdf.SetCreator("portal", true)
	pdf.SetTitle(doc.Title, true)
	pdf.AddPage()

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: topY}

	opts := fpdf.ImageOptions{ImageType: typ}
	pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(logo))
	pdf.ImageOptions(logoName, marginLeft, topY, logoSize, logoSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	w.centered(doc.Config.Heading)
	w.y += 10

	pdf.SetFont("Helvetica", "", 14)
	w.centered(doc.Config.Government)
	w.y += 10

	pdf.SetFont("Helvetica", "", 12)
	w.centered(doc.Config.Subheading)
	w.y += 20

	pdf.SetFont("Helvetica", "B", 18)
	titleLines := w.wrap(doc.Title, contentWidth)
	for i, line := range titleLines {
		pdf.Text(marginLeft, w.y+baselineShift+float64(i)*lineHeight, line)
	}
	w.y += float64(len(titleLines))*lineHeight + 10

	pdf.SetFont("Helvetica", "", 12)
	w.left(doc.Date)
	w.y += lineHeight + paragraphGap

	pdf.SetFont("Helvetica", "", 11)
	for _, para := range doc.Paragraphs {
		for _, line := range w.wrap(para, contentWidth) {
			w.breakIfFull()
			pdf.Text(marginLeft, w.y+baselineShift, line)
			w.y += lineHeight
		}
		w.y += paragraphGap
	}

	w.breakIfFull()
	pdf.SetFont("Helvetica", "B", 10)
	w.left(doc.Config.Organization)
	w.y += lineHeight

	pdf.SetFont("Helvetica", "", 10)
	for _, c := range doc.Config.Contacts {
		w.left(c)
		w.y += lineHeight
	}
	return pdf, pdf.Error()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Half-point font sizes used by the DOCX rendering.
const (
	sizeHeading    = 48
	sizeGovernment = 28
	sizeSubheading = 24
	sizeTitle      = 36
	sizeDate       = 24
	sizeBody       = 22
	sizeClosing    = 20

	// 100x100 px at 96 dpi.
	logoEMU = 100 * 9525
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Default Extension="jpg" ContentType="image/jpeg"/>
<Default Extension="gif" ContentType="image/gif"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdLogo" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/logo.%s"/>
</Relationships>`

const documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"><w:body>`

const documentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="709" w:footer="709" w:gutter="0"/>` +
	`</w:sectPr></w:body></w:document>`

const logoDrawing = `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">` +
	`<wp:extent cx="%[1]d" cy="%[1]d"/><wp:docPr id="1" name="Logo"/>` +
	`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="logo"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="rIdLogo"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[1]d"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic>` +
	`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`

type run struct {
	text string
	bold bool
	size int
}

type paragraph struct {
	align   string
	spacing int
	logo    bool
	runs    []run
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (p paragraph) write(b *strings.Builder) {
	b.WriteString("<w:p>")
	if p.align != "" || p.spacing > 0 {
		b.WriteString("<w:pPr>")
		if p.spacing > 0 {
			fmt.Fprintf(b, `<w:spacing w:after="%d"/>`, p.spacing)
		}
		if p.align != "" {
			fmt.Fprintf(b, `<w:jc w:val="%s"/>`, p.align)
		}
		b.WriteString("</w:pPr>")
	}
	if p.logo {
		fmt.Fprintf(b, logoDrawing, logoEMU)
	}
	for _, r := range p.runs {
		b.WriteString("<w:r><w:rPr>")
		if r.bold {
			b.WriteString("<w:b/>")
		}
		fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>`, r.size, r.size)
		lines := strings.Split(r.text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteString("<w:br/>")
			}
			fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(line))
		}
		b.WriteString("</w:r>")
	}
	b.WriteString("</w:p>")
}

// documentXML builds word/document.xml for doc.
func documentXML(doc Document) string {
	cfg := doc.Config
	paras := []paragraph{
		{align: "center", logo: true, runs: []run{{text: cfg.Heading, bold: true, size: sizeHeading}}},
		{align: "center", runs: []run{{text: cfg.Government, size: sizeGovernment}}},
		{align: "center", runs: []run{{text: cfg.Subheading, size: sizeSubheading}}},
		{spacing: 200},
		{runs: []run{{text: doc.Title, bold: true, size: sizeTitle}}},
		{runs: []run{{text: doc.Date, size: sizeDate}}},
		{spacing: 200},
	}
	for _, p := range doc.Paragraphs {
		paras = append(paras, paragraph{align: "both", runs: []run{{text: p, size: sizeBody}}})
	}
	paras = append(paras,
		paragraph{spacing: 200},
		paragraph{runs: []run{{text: cfg.Organization, bold: true, size: sizeClosing}}},
	)
	for _, c := range cfg.Contacts {
		paras = append(paras, paragraph{runs: []run{{text: c, size: sizeClosing}}})
	}

	var b strings.Builder
	b.WriteString(documentOpen)
	for _, p := range paras {
		p.write(&b)
	}
	b.WriteString(documentClose)
	return b.String()
}

// RenderDOCX builds a Word document with the same content as RenderPDF:
// logo and header, title, date, justified paragraphs, closing block.
func RenderDOCX(doc Document, logo []byte) ([]byte, error) {
	typ, err := imageType(logo)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(typ)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/document.xml", []byte(documentXML(doc))},
		{"word/_rels/document.xml.rels", []byte(fmt.Sprintf(documentRelsXML, ext))},
		{"word/media/logo." + ext, logo},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing DOCX: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

type docxRenderer struct {
	style Style
}

// NewDOCXRenderer writes a minimal WordprocessingML package.
func NewDOCXRenderer(style Style) Renderer {
	return &docxRenderer{style: style}
}

func (r *docxRenderer) Format() models.ExportFormat {
	return models.FormatDOCX
}

func (r *docxRenderer) Render(w io.Writer, rep *Report) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"docProps/core.xml", r.coreProps(rep)},
		{"word/document.xml", r.document(rep)},
	}

	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.body); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}

	return zw.Close()
}

func (r *docxRenderer) coreProps(rep *Report) []byte {
	created := rep.GeneratedAt
	if created.IsZero() {
		created = time.Unix(0, 0)
	}

	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	b.WriteString("<dc:title>" + escapeXML(rep.Title) + "</dc:title>")
	b.WriteString("<dc:creator>" + escapeXML(Creator) + "</dc:creator>")
	b.WriteString("<dc:subject>" + escapeXML(rep.Persona) + "</dc:subject>")
	b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + created.UTC().Format(time.RFC3339) + "</dcterms:created>")
	b.WriteString("</cp:coreProperties>")
	return b.Bytes()
}

// run describes one w:r element. Size is in half points.
type run struct {
	text  string
	bold  bool
	size  int
	color string
}

func (r *docxRenderer) document(rep *Report) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	halfPts := func(pt float64) int { return int(pt * 2) }
	colors := r.style.Colors
	fonts := r.style.Fonts

	para := func(runs ...run) {
		b.WriteString("<w:p>")
		for _, rn := range runs {
			b.WriteString("<w:r><w:rPr>")
			if rn.bold {
				b.WriteString("<w:b/>")
			}
			if rn.color != "" {
				b.WriteString(`<w:color w:val="` + strings.TrimPrefix(rn.color, "#") + `"/>`)
			}
			if rn.size > 0 {
				fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, rn.size)
			}
			b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
			b.WriteString(escapeXML(rn.text))
			b.WriteString("</w:t></w:r>")
		}
		b.WriteString("</w:p>")
	}
	heading := func(text string) {
		para(run{text: text, bold: true, size: halfPts(fonts.Heading), color: colors.Heading})
	}
	body := func(text string) {
		para(run{text: text, size: halfPts(fonts.Body), color: colors.Body})
	}

	para(run{text: rep.Title, bold: true, size: halfPts(fonts.Title), color: colors.Title})
	para(run{text: "Generated: " + rep.GeneratedLabel(), size: halfPts(fonts.Small), color: colors.Muted})
	para(run{text: "Persona: " + rep.Persona, size: halfPts(fonts.Small), color: colors.Muted})

	heading("Summary Metrics")
	for _, row := range rep.MetricRows() {
		para(
			run{text: row.Label + ": ", bold: true, size: halfPts(fonts.Body), color: colors.Body},
			run{text: row.Value, size: halfPts(fonts.Body), color: colors.Body},
		)
	}

	for _, sec := range rep.Sections {
		heading(sec.Heading)
		switch sec.Kind {
		case KindParagraph:
			for _, p := range strings.Split(sec.Body, "\n") {
				body(p)
			}
		case KindNumbered:
			for i, item := range sec.Items {
				body(fmt.Sprintf("%d. %s", i+1, item))
			}
		case KindBulleted:
			for _, item := range sec.Items {
				body("• " + item)
			}
		case KindChecklist:
			for _, item := range sec.Items {
				body("☐ " + item)
			}
		case KindInline:
			body(strings.Join(sec.Items, ", "))
		}
	}

	para(run{text: rep.Footer, size: halfPts(fonts.Small), color: colors.Muted})

	b.WriteString("</w:body></w:document>")
	return b.Bytes()
}

func escapeXML(s string) string {
	var b strings.Builder
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

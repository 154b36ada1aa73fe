package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/Ductam7415vn/SumUp-sub002/internal/layout"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

const pdfFont = "Helvetica"

type pdfRenderer struct {
	style Style
}

// NewPDFRenderer draws the report on fixed size pages using the core
// Helvetica fonts. Text outside Windows-1252 is replaced with '?'.
func NewPDFRenderer(style Style) Renderer {
	return &pdfRenderer{style: style}
}

func (r *pdfRenderer) Format() models.ExportFormat {
	return models.FormatPDF
}

func (r *pdfRenderer) Render(w io.Writer, rep *Report) error {
	c := newPDFCanvas(r.style)

	c.doc.SetTitle(rep.Title, true)
	c.doc.SetAuthor(Creator, true)
	c.doc.SetCreator(Creator, true)
	c.doc.SetSubject(rep.Persona+" summary", true)
	if !rep.GeneratedAt.IsZero() {
		c.doc.SetCreationDate(rep.GeneratedAt)
	}

	c.header(rep)
	c.metrics(rep)
	for _, sec := range rep.Sections {
		c.section(sec)
	}
	c.footer(rep.Footer)

	if err := c.doc.Error(); err != nil {
		return fmt.Errorf("pdf layout failed: %w", err)
	}
	return c.doc.Output(w)
}

// pdfCanvas tracks a top-down cursor. y is the top of the next line and only
// grows, except when a new page resets it to the top margin.
type pdfCanvas struct {
	doc   *fpdf.Fpdf
	style Style

	y      float64
	left   float64
	right  float64
	bottom float64
}

func newPDFCanvas(style Style) *pdfCanvas {
	geo := style.PDF
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: geo.Width, Ht: geo.Height},
	})
	doc.SetMargins(geo.Margin, geo.Margin, geo.Margin)
	doc.SetAutoPageBreak(false, geo.Margin)

	c := &pdfCanvas{
		doc:    doc,
		style:  style,
		left:   geo.Margin,
		right:  geo.Width - geo.Margin,
		bottom: geo.Height - geo.Margin,
	}
	c.addPage()
	return c
}

func (c *pdfCanvas) addPage() {
	c.doc.AddPage()
	c.y = c.style.PDF.Margin
}

// ensure starts a new page when h more points would cross the bottom margin.
func (c *pdfCanvas) ensure(h float64) {
	if c.y+h > c.bottom {
		c.addPage()
	}
}

func (c *pdfCanvas) lineHeight(size float64) float64 {
	return size * c.style.PDF.LineSpacing
}

func (c *pdfCanvas) setFont(style string, size float64, hex string) {
	c.doc.SetFont(pdfFont, style, size)
	col := rgb(hex)
	c.doc.SetTextColor(int(col.R), int(col.G), int(col.B))
}

func (c *pdfCanvas) measure(s string) float64 {
	return c.doc.GetStringWidth(s)
}

// text draws one already encoded line and advances the cursor.
func (c *pdfCanvas) text(s string, x, size float64) {
	c.ensure(c.lineHeight(size))
	c.doc.Text(x, c.y+size, s)
	c.y += c.lineHeight(size)
}

func (c *pdfCanvas) paragraph(body string, indent, size float64) {
	width := c.right - c.left - indent
	for _, line := range layout.WrapParagraphs(toWinAnsi(body), c.measure, width) {
		if line == "" {
			c.y += c.lineHeight(size) / 2
			continue
		}
		c.text(line, c.left+indent, size)
	}
}

// item draws a hanging list entry. A nil marker draws prefix as text; a
// marker func draws its own glyph at the first baseline.
func (c *pdfCanvas) item(prefix string, marker func(x, baseline, size float64), body string, size float64) {
	const indent = 10
	gutter := c.measure(toWinAnsi(prefix)) + 4
	if marker != nil {
		gutter = size + 4
	}

	x := c.left + indent
	lines := layout.Wrap(toWinAnsi(body), c.measure, c.right-x-gutter)
	if len(lines) == 0 {
		// blank entries still get their marker
		lines = []string{""}
	}
	for i, line := range lines {
		c.ensure(c.lineHeight(size))
		baseline := c.y + size
		if i == 0 {
			if marker != nil {
				marker(x, baseline, size)
			} else {
				c.doc.Text(x, baseline, toWinAnsi(prefix))
			}
		}
		c.doc.Text(x+gutter, baseline, line)
		c.y += c.lineHeight(size)
	}
}

func (c *pdfCanvas) rule(hex string, width float64) {
	col := rgb(hex)
	c.doc.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.doc.SetLineWidth(width)
	c.doc.Line(c.left, c.y, c.right, c.y)
}

func (c *pdfCanvas) header(rep *Report) {
	colors, fonts := c.style.Colors, c.style.Fonts

	c.setFont("B", fonts.Title, colors.Title)
	c.paragraph(rep.Title, 0, fonts.Title)

	c.setFont("", fonts.Small, colors.Muted)
	c.text(toWinAnsi("Generated: "+rep.GeneratedLabel()), c.left, fonts.Small)
	c.text(toWinAnsi("Persona: "+rep.Persona), c.left, fonts.Small)

	c.y += 6
	c.rule(colors.Accent, 1)
	c.y += 14
}

func (c *pdfCanvas) metrics(rep *Report) {
	colors, fonts := c.style.Colors, c.style.Fonts
	rows := rep.MetricRows()

	c.setFont("B", fonts.Heading, colors.Heading)
	c.ensure(c.lineHeight(fonts.Heading) + float64(len(rows))*c.lineHeight(fonts.Body) + 12)
	c.text(toWinAnsi("Summary Metrics"), c.left, fonts.Heading)

	panel := rgb(colors.Panel)
	c.doc.SetFillColor(int(panel.R), int(panel.G), int(panel.B))
	c.doc.Rect(c.left, c.y, c.right-c.left, float64(len(rows))*c.lineHeight(fonts.Body)+12, "F")
	c.y += 6

	for _, row := range rows {
		baseline := c.y + fonts.Body
		c.setFont("B", fonts.Body, colors.Body)
		c.doc.Text(c.left+12, baseline, toWinAnsi(row.Label))
		c.setFont("", fonts.Body, colors.Body)
		c.doc.Text(c.left+180, baseline, toWinAnsi(row.Value))
		c.y += c.lineHeight(fonts.Body)
	}
	c.y += 6 + 14
}

func (c *pdfCanvas) section(sec Section) {
	colors, fonts := c.style.Colors, c.style.Fonts

	// keep the heading on the same page as its first body line
	c.ensure(c.lineHeight(fonts.Heading) + c.lineHeight(fonts.Body))
	c.setFont("B", fonts.Heading, colors.Heading)
	c.text(toWinAnsi(sec.Heading), c.left, fonts.Heading)

	c.setFont("", fonts.Body, colors.Body)
	switch sec.Kind {
	case KindParagraph:
		c.paragraph(sec.Body, 0, fonts.Body)
	case KindNumbered:
		for i, item := range sec.Items {
			c.item(fmt.Sprintf("%d.", i+1), nil, item, fonts.Body)
		}
	case KindBulleted:
		for _, item := range sec.Items {
			c.item("•", nil, item, fonts.Body)
		}
	case KindChecklist:
		for _, item := range sec.Items {
			c.item("", c.checkbox, item, fonts.Body)
		}
	case KindInline:
		c.paragraph(strings.Join(sec.Items, ", "), 0, fonts.Body)
	}
	c.y += 12
}

func (c *pdfCanvas) checkbox(x, baseline, size float64) {
	box := size * 0.7
	col := rgb(c.style.Colors.Accent)
	c.doc.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.doc.SetLineWidth(0.8)
	c.doc.Rect(x, baseline-box, box, box, "D")
}

func (c *pdfCanvas) footer(text string) {
	colors, fonts := c.style.Colors, c.style.Fonts

	c.ensure(c.lineHeight(fonts.Small) + 10)
	c.rule(colors.Muted, 0.5)
	c.y += 8
	c.setFont("I", fonts.Small, colors.Muted)
	c.text(toWinAnsi(text), c.left, fonts.Small)
}

// toWinAnsi converts s to the single byte encoding the core fonts expect.
func toWinAnsi(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}

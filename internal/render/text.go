package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Ductam7415vn/SumUp-sub002/internal/layout"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

const textRule = "========================================"

type textRenderer struct {
	columns int
}

// NewTextRenderer renders plain text. With a positive TextColumns in style,
// paragraphs and list items are wrapped to that many terminal columns.
func NewTextRenderer(style Style) Renderer {
	return &textRenderer{columns: style.TextColumns}
}

func (r *textRenderer) Format() models.ExportFormat {
	return models.FormatText
}

func (r *textRenderer) Render(w io.Writer, rep *Report) error {
	var b strings.Builder

	b.WriteString(strings.ToUpper(rep.Title) + "\n")
	b.WriteString(textRule + "\n\n")

	fmt.Fprintf(&b, "Generated: %s\n", rep.GeneratedLabel())
	fmt.Fprintf(&b, "Persona: %s\n\n", rep.Persona)

	b.WriteString("SUMMARY METRICS:\n")
	for _, row := range rep.MetricRows() {
		fmt.Fprintf(&b, "• %s: %s\n", row.Label, row.Value)
	}
	b.WriteString("\n")

	for _, sec := range rep.Sections {
		b.WriteString(strings.ToUpper(sec.Heading) + ":\n")

		switch sec.Kind {
		case KindParagraph:
			b.WriteString(r.wrap(sec.Body, ""))
		case KindNumbered:
			for i, item := range sec.Items {
				b.WriteString(r.wrap(item, fmt.Sprintf("%d. ", i+1)))
			}
		case KindBulleted:
			for _, item := range sec.Items {
				b.WriteString(r.wrap(item, "• "))
			}
		case KindChecklist:
			for _, item := range sec.Items {
				b.WriteString(r.wrap(item, "□ "))
			}
		case KindInline:
			b.WriteString(r.wrap(strings.Join(sec.Items, ", "), ""))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", len(textRule)) + "\n")
	b.WriteString(rep.Footer + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// wrap writes text after prefix, indenting continuation lines under the
// first character of text.
func (r *textRenderer) wrap(text, prefix string) string {
	if r.columns <= 0 {
		return prefix + text + "\n"
	}

	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	width := float64(r.columns - runewidth.StringWidth(prefix))

	lines := layout.WrapParagraphs(text, layout.Columns(), width)
	if len(lines) == 0 {
		return prefix + "\n"
	}

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(prefix)
		} else if line != "" {
			b.WriteString(indent)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

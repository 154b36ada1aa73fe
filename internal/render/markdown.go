package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

type markdownRenderer struct{}

func NewMarkdownRenderer(Style) Renderer {
	return &markdownRenderer{}
}

func (r *markdownRenderer) Format() models.ExportFormat {
	return models.FormatMarkdown
}

func (r *markdownRenderer) Render(w io.Writer, rep *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rep.Title)
	fmt.Fprintf(&b, "**Generated:** %s  \n", rep.GeneratedLabel())
	fmt.Fprintf(&b, "**Persona:** %s\n\n", rep.Persona)

	b.WriteString("## Summary Metrics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	for _, row := range rep.MetricRows() {
		fmt.Fprintf(&b, "| %s | %s |\n", row.Label, row.Value)
	}
	b.WriteString("\n")

	for _, sec := range rep.Sections {
		// overview and detailed analysis nest under the summary
		level := "##"
		if sec.Key == SectionOverview || sec.Key == SectionDetailed {
			level = "###"
		}
		fmt.Fprintf(&b, "%s %s\n\n", level, sec.Heading)

		switch sec.Kind {
		case KindParagraph:
			b.WriteString(sec.Body + "\n")
		case KindNumbered:
			for i, item := range sec.Items {
				fmt.Fprintf(&b, "%d. %s\n", i+1, item)
			}
		case KindBulleted:
			for _, item := range sec.Items {
				fmt.Fprintf(&b, "- %s\n", item)
			}
		case KindChecklist:
			for _, item := range sec.Items {
				fmt.Fprintf(&b, "- [ ] %s\n", item)
			}
		case KindInline:
			tags := make([]string, len(sec.Items))
			for i, item := range sec.Items {
				tags[i] = "`" + strings.ReplaceAll(item, "`", "'") + "`"
			}
			b.WriteString(strings.Join(tags, " ") + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*%s*\n", rep.Footer)

	_, err := io.WriteString(w, b.String())
	return err
}

package render

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ductam7415vn/SumUp-sub002/internal/extractor"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

func renderString(t *testing.T, r Renderer, s *models.Summary) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, BuildReport(s, "")))
	switch r.Format() {
	case models.FormatDOCX:
		return docxDocumentXML(t, buf.Bytes())
	case models.FormatPDF:
		text, err := extractor.ExtractPDF(buf.Bytes())
		require.NoError(t, err)
		return squash(text)
	}
	return buf.String()
}

// squash drops all whitespace. Text pulled back out of a PDF loses the
// spacing between separately drawn strings and wrapped lines.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func docxDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(body)
		}
	}
	t.Fatal("word/document.xml missing")
	return ""
}

func textualRenderers() []Renderer {
	style := DefaultStyle()
	return []Renderer{
		NewPDFRenderer(style),
		NewTextRenderer(style),
		NewMarkdownRenderer(style),
		NewJSONRenderer(style),
		NewDOCXRenderer(style),
	}
}

func TestFormatCompleteness(t *testing.T) {
	s := fullSummary()
	for _, r := range textualRenderers() {
		t.Run(string(r.Format()), func(t *testing.T) {
			out := renderString(t, r, s)
			for _, v := range populatedValues(s) {
				if r.Format() == models.FormatPDF {
					v = squash(v)
				}
				assert.Contains(t, out, v)
			}
		})
	}
}

func TestFormatOmission(t *testing.T) {
	s := minimalSummary()
	forbidden := map[models.ExportFormat][]string{
		models.FormatText:     {"KEY INSIGHTS:", "ACTION ITEMS:", "KEYWORDS:", "BRIEF OVERVIEW:", "DETAILED ANALYSIS:"},
		models.FormatMarkdown: {"Key Insights", "Action Items", "Keywords", "Brief Overview", "Detailed Analysis"},
		models.FormatDOCX:     {"Key Insights", "Action Items", "Keywords", "Brief Overview", "Detailed Analysis"},
		models.FormatPDF:      {"KeyInsights", "ActionItems", "Keywords", "BriefOverview", "DetailedAnalysis"},
	}

	for _, r := range textualRenderers() {
		words, ok := forbidden[r.Format()]
		if !ok {
			continue
		}
		t.Run(string(r.Format()), func(t *testing.T) {
			out := renderString(t, r, s)
			for _, w := range words {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestPDFSectionOrder(t *testing.T) {
	out := renderString(t, NewPDFRenderer(DefaultStyle()), fullSummary())

	order := []string{ReportTitle, "Summary Metrics", "Brief Overview", "Key Points", "Key Insights", "Action Items", "Keywords", FooterText}
	last := -1
	for _, heading := range order {
		i := strings.Index(out, squash(heading))
		require.GreaterOrEqual(t, i, 0, heading)
		assert.Greater(t, i, last, heading)
		last = i
	}
	assert.Contains(t, out, "TimeSaved5min")
}

func TestBlankListItemsKeepTheirMarkers(t *testing.T) {
	s := minimalSummary()
	s.BulletPoints = []string{"first", "", "third"}

	out := renderString(t, NewPDFRenderer(DefaultStyle()), s)
	assert.Contains(t, out, "1.first2.3.third")

	ir := &imageRenderer{style: DefaultStyle()}
	faces, err := newImageFaces(DefaultStyle().ImageFonts)
	require.NoError(t, err)
	defer faces.close()

	var markers []string
	for _, op := range ir.plan(BuildReport(s, ""), faces).ops {
		if op.kind == opText && strings.HasSuffix(op.text, ".") && len(op.text) <= 3 {
			markers = append(markers, op.text)
		}
	}
	assert.Equal(t, []string{"1.", "2.", "3."}, markers)
}

func TestTextLayout(t *testing.T) {
	out := renderString(t, NewTextRenderer(DefaultStyle()), fullSummary())

	assert.True(t, strings.HasPrefix(out, "SUMUP SUMMARY REPORT\n"))
	assert.Contains(t, out, "SUMMARY METRICS:\n• Original Words: 1200\n• Summary Words: 180\n• Reduction: 85%\n• Time Saved: 5 min\n")
	assert.Contains(t, out, "KEY POINTS:\n1. Asynchronous updates replace most status meetings\n2. Clear ownership reduces duplicated effort\n")
	assert.Contains(t, out, "• Documentation culture predicts success\n")
	assert.Contains(t, out, "□ Schedule a weekly written update\n")
	assert.Contains(t, out, "KEYWORDS:\nremote, productivity, async\n")
	assert.True(t, strings.HasSuffix(out, FooterText+"\n"))

	// fixed order
	assert.Less(t, strings.Index(out, "SUMMARY METRICS:"), strings.Index(out, "SUMMARY:\n"))
	assert.Less(t, strings.Index(out, "KEY POINTS:"), strings.Index(out, "KEY INSIGHTS:"))
	assert.Less(t, strings.Index(out, "ACTION ITEMS:"), strings.Index(out, "KEYWORDS:"))
}

func TestTextColumnsWrap(t *testing.T) {
	style := DefaultStyle()
	style.TextColumns = 30
	s := fullSummary()

	out := renderString(t, NewTextRenderer(style), s)

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(strings.TrimSpace(line), " ") {
			assert.LessOrEqual(t, len([]rune(line)), 40, "line %q", line)
		}
	}
	assert.Contains(t, out, "1. Asynchronous updates\n   replace most status\n   meetings\n")
	assert.Contains(t, strings.Join(strings.Fields(out), " "), s.DetailedSummary)
}

func TestMarkdownLayout(t *testing.T) {
	out := renderString(t, NewMarkdownRenderer(DefaultStyle()), fullSummary())

	assert.True(t, strings.HasPrefix(out, "# SumUp Summary Report\n"))
	assert.Contains(t, out, "| Metric | Value |\n|--------|-------|\n| Original Words | 1200 |")
	assert.Contains(t, out, "| Time Saved | 5 min |")
	assert.Contains(t, out, "### Brief Overview\n")
	assert.Contains(t, out, "## Key Points\n\n1. Asynchronous")
	assert.Contains(t, out, "- Documentation culture predicts success\n")
	assert.Contains(t, out, "- [ ] Audit recurring meetings\n")
	assert.Contains(t, out, "`remote` `productivity` `async`")
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONRenderer(DefaultStyle()).Render(&buf, BuildReport(minimalSummary(), "")))

	var doc struct {
		GeneratedAt  string   `json:"generated_at"`
		Persona      string   `json:"persona"`
		Summary      string   `json:"summary"`
		BulletPoints []string `json:"bullet_points"`
		Metrics      struct {
			OriginalWordCount   int `json:"original_word_count"`
			SummaryWordCount    int `json:"summary_word_count"`
			ReductionPercentage int `json:"reduction_percentage"`
			TimeSavedMinutes    int `json:"time_saved_minutes"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 80, doc.Metrics.ReductionPercentage)
	assert.Equal(t, 4, doc.Metrics.TimeSavedMinutes)
	assert.Equal(t, []string{"A", "B"}, doc.BulletPoints)
	assert.Equal(t, "Short text.", doc.Summary)
	assert.Equal(t, "2024-05-17T09:30:00Z", doc.GeneratedAt)
}

func TestJSONEmptyListsAreArrays(t *testing.T) {
	s := minimalSummary()
	s.BulletPoints = nil

	var buf bytes.Buffer
	require.NoError(t, NewJSONRenderer(DefaultStyle()).Render(&buf, BuildReport(s, "")))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	for _, key := range []string{"bullet_points", "key_insights", "action_items", "keywords"} {
		assert.JSONEq(t, `[]`, string(raw[key]), key)
	}
	assert.JSONEq(t, `""`, string(raw["brief_overview"]))
	assert.JSONEq(t, `""`, string(raw["detailed_summary"]))

	var metrics map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["metrics"], &metrics))
	assert.Equal(t, "80", string(metrics["reduction_percentage"]))
}

func TestDOCXPackage(t *testing.T) {
	s := fullSummary()
	s.Summary = "Profit & loss <improved>"

	var buf bytes.Buffer
	require.NoError(t, NewDOCXRenderer(DefaultStyle()).Render(&buf, BuildReport(s, "")))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, part := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "docProps/core.xml"} {
		assert.True(t, names[part], part)
	}

	doc := docxDocumentXML(t, buf.Bytes())
	assert.Contains(t, doc, "Profit &amp; loss &lt;improved&gt;")
}

func TestRegistryCoversEveryFormat(t *testing.T) {
	reg := NewRegistry(DefaultStyle())
	for _, f := range models.ExportFormats {
		r, err := reg.Lookup(f)
		require.NoError(t, err)
		assert.Equal(t, f, r.Format())
	}

	_, err := reg.Lookup("xlsx")
	assert.ErrorIs(t, err, models.ErrUnknownFormat)
}

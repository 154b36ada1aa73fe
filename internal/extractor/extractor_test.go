package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
)

func sampleSummary() *models.Summary {
	return &models.Summary{
		Summary:      "Quarterly revenue grew while costs stayed flat.",
		BulletPoints: []string{"Revenue grew", "Costs flat"},
		ActionItems:  models.List("Review pricing"),
		Keywords:     models.List("revenue", "costs"),
		Metrics: models.Metrics{
			OriginalWordCount:   400,
			SummaryWordCount:    40,
			ReductionPercentage: 90,
			OriginalReadingTime: 2,
			SummaryReadingTime:  1,
		},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func renderSample(t *testing.T, format models.ExportFormat) []byte {
	t.Helper()

	r, err := render.NewRegistry(render.DefaultStyle()).Lookup(format)
	if err != nil {
		t.Fatalf("lookup %s: %v", format, err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, render.BuildReport(sampleSummary(), "")); err != nil {
		t.Fatalf("render %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	text, err := ExtractPDF(renderSample(t, models.FormatPDF))
	if err != nil {
		t.Fatalf("ExtractPDF returned error: %v", err)
	}

	for _, word := range []string{"SumUp", "Quarterly", "pricing"} {
		if !strings.Contains(text, word) {
			t.Errorf("ExtractPDF text missing %q:\n%s", word, text)
		}
	}
}

func TestExtractDOCX(t *testing.T) {
	text, err := ExtractDOCX(renderSample(t, models.FormatDOCX))
	if err != nil {
		t.Fatalf("ExtractDOCX returned error: %v", err)
	}

	for _, want := range []string{render.ReportTitle, "Quarterly revenue grew while costs stayed flat.", "☐ Review pricing"} {
		if !strings.Contains(text, want) {
			t.Errorf("ExtractDOCX text missing %q:\n%s", want, text)
		}
	}
}

func TestExtractPDFPages(t *testing.T) {
	s := sampleSummary()
	s.Summary = strings.Repeat("Quarterly revenue grew while costs stayed flat. ", 300)

	var buf bytes.Buffer
	if err := render.NewPDFRenderer(render.DefaultStyle()).Render(&buf, render.BuildReport(s, "")); err != nil {
		t.Fatalf("render: %v", err)
	}

	pages, err := ExtractPDFPages(buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractPDFPages returned error: %v", err)
	}
	if len(pages) < 2 {
		t.Fatalf("expected several pages, got %d", len(pages))
	}
	if !strings.Contains(pages[0], render.ReportTitle) {
		t.Errorf("first page missing title:\n%s", pages[0])
	}
	if !strings.Contains(pages[len(pages)-1], render.FooterText) {
		t.Errorf("last page missing footer:\n%s", pages[len(pages)-1])
	}

	joined, err := ExtractPDF(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if joined != strings.Join(pages, "\n\n") {
		t.Errorf("ExtractPDF does not join the pages")
	}
}

func TestCleanLines(t *testing.T) {
	got := cleanLines("\n\n  Title  \n\n\n\nbody one \n body two\n\n")
	want := "Title\n\nbody one\nbody two"
	if got != want {
		t.Errorf("cleanLines = %q, want %q", got, want)
	}
}

func TestExtractDOCXSections(t *testing.T) {
	text, err := ExtractDOCX(renderSample(t, models.FormatDOCX))
	if err != nil {
		t.Fatalf("ExtractDOCX returned error: %v", err)
	}

	if !strings.HasPrefix(text, render.ReportTitle+"\nGenerated: ") {
		t.Errorf("title block not at the top:\n%s", text)
	}
	for _, heading := range []string{"Summary Metrics", "Key Points", "Action Items", "Keywords"} {
		if !strings.Contains(text, "\n\n"+heading+"\n") {
			t.Errorf("section %q is not set apart:\n%s", heading, text)
		}
	}
	// label and value runs share one line
	if !strings.Contains(text, "\nOriginal Words: 400\n") {
		t.Errorf("metric row split:\n%s", text)
	}
}

func docxWith(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintf(fw, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractDOCXRuns(t *testing.T) {
	data := docxWith(t, ``+
		`<w:p><w:r><w:t>intro</w:t></w:r></w:p>`+
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Styled</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>`+
		`<w:p><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>not bold</w:t></w:r></w:p>`+
		`<w:p></w:p>`+
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Bold</w:t></w:r></w:p>`)

	got, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX returned error: %v", err)
	}

	want := "intro\n\nStyled\na\tb\nc\nnot bold\n\nBold"
	if got != want {
		t.Errorf("ExtractDOCX = %q, want %q", got, want)
	}
}

func TestExtractDOCXEmpty(t *testing.T) {
	if _, err := ExtractDOCX(docxWith(t, `<w:p></w:p>`)); !errors.Is(err, ErrNoText) {
		t.Errorf("error = %v, want ErrNoText", err)
	}
}

func TestExtractTXT(t *testing.T) {
	text, err := ExtractTXT(renderSample(t, models.FormatText))
	if err != nil {
		t.Fatalf("ExtractTXT returned error: %v", err)
	}
	if !strings.Contains(text, "Quarterly revenue grew") {
		t.Errorf("ExtractTXT text missing summary:\n%s", text)
	}
}

func TestExtractTXTEncodings(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf8 bom", []byte("\xEF\xBB\xBFcafé"), "café"},
		{"utf16 le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"windows-1252", []byte("caf\xe9"), "café"},
		{"crlf", []byte("a\r\n\r\nb"), "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTXT(tt.data)
			if err != nil {
				t.Fatalf("ExtractTXT returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractTXT = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTXTEmpty(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("  \n\n ")} {
		if _, err := ExtractTXT(data); !errors.Is(err, ErrNoText) {
			t.Errorf("ExtractTXT(%q) error = %v, want ErrNoText", data, err)
		}
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []models.ExportFormat{models.FormatPDF, models.FormatDOCX, models.FormatMarkdown, models.FormatJSON} {
		path := filepath.Join(dir, "summary"+format.Extension())
		if err := os.WriteFile(path, renderSample(t, format), 0o644); err != nil {
			t.Fatal(err)
		}

		text, err := ExtractFile(path)
		if err != nil {
			t.Fatalf("ExtractFile(%s) returned error: %v", format, err)
		}
		if !strings.Contains(text, "Quarterly") {
			t.Errorf("ExtractFile(%s) missing summary text:\n%s", format, text)
		}
	}
}

func TestExtractFileImageUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")
	if err := os.WriteFile(path, renderSample(t, models.FormatImage), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractFile(path); !errors.Is(err, ErrPreviewUnsupported) {
		t.Errorf("ExtractFile(png) error = %v, want ErrPreviewUnsupported", err)
	}
}

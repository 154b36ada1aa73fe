package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF joins the text of every page with a blank line.
func ExtractPDF(data []byte) (string, error) {
	pages, err := ExtractPDFPages(data)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n\n"), nil
}

// ExtractPDFPages returns the cleaned text of each page that has any, in page
// order.
func ExtractPDFPages(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// a broken page should not hide the rest of the document
			continue
		}

		if text = cleanLines(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%w from PDF", ErrNoText)
	}
	return pages, nil
}

// cleanLines trims every line and keeps at most one blank line in a row.
func cleanLines(text string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

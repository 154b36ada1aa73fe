package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type docxDocument struct {
	Paragraphs []docxParagraph `xml:"body>p"`
}

type docxParagraph struct {
	Props *docxParagraphProps `xml:"pPr"`
	Runs  []docxRun           `xml:"r"`
}

type docxParagraphProps struct {
	Style *docxValue `xml:"pStyle"`
}

type docxRun struct {
	Props *docxRunProps `xml:"rPr"`
	Parts []docxRunPart `xml:",any"`
}

type docxRunProps struct {
	Bold *docxValue `xml:"b"`
}

// docxRunPart is any child of w:r other than w:rPr, kept in document order.
type docxRunPart struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type docxValue struct {
	Val string `xml:"val,attr"`
}

func (r docxRun) text() string {
	var b strings.Builder
	for _, part := range r.Parts {
		switch part.XMLName.Local {
		case "t":
			b.WriteString(part.Text)
		case "tab":
			b.WriteString("\t")
		case "br", "cr":
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r docxRun) bold() bool {
	if r.Props == nil || r.Props.Bold == nil {
		return false
	}
	switch r.Props.Bold.Val {
	case "0", "false", "off":
		return false
	}
	return true
}

// heading reports whether p opens a section: a Heading/Title style, or a
// paragraph whose text runs are all bold.
func (p docxParagraph) heading() bool {
	if p.Props != nil && p.Props.Style != nil {
		style := strings.ToLower(p.Props.Style.Val)
		if strings.HasPrefix(style, "heading") || style == "title" {
			return true
		}
	}

	seen := false
	for _, r := range p.Runs {
		if strings.TrimSpace(r.text()) == "" {
			continue
		}
		if !r.bold() {
			return false
		}
		seen = true
	}
	return seen
}

// ExtractDOCX returns one line per paragraph, with a blank line before each
// heading so sections stay apart.
func ExtractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX as ZIP: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			documentFile = file
			break
		}
	}
	if documentFile == nil {
		return "", fmt.Errorf("document.xml not found in DOCX")
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer xmlFile.Close()

	xmlData, err := io.ReadAll(xmlFile)
	if err != nil {
		return "", fmt.Errorf("failed to read document.xml: %w", err)
	}

	var doc docxDocument
	if err := xml.Unmarshal(xmlData, &doc); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var lines []string
	for _, para := range doc.Paragraphs {
		var b strings.Builder
		for _, run := range para.Runs {
			b.WriteString(run.text())
		}
		line := strings.TrimRight(b.String(), " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if para.heading() && len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("%w from DOCX", ErrNoText)
	}
	return strings.Join(lines, "\n"), nil
}

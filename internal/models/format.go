package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown export format")

type ExportFormat string

const (
	FormatPDF      ExportFormat = "pdf"
	FormatImage    ExportFormat = "image"
	FormatText     ExportFormat = "text"
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatDOCX     ExportFormat = "docx"
)

// ExportFormats lists every format in declaration order.
var ExportFormats = []ExportFormat{
	FormatPDF,
	FormatImage,
	FormatText,
	FormatMarkdown,
	FormatJSON,
	FormatDOCX,
}

// OutputDir names the folder a format is written under.
type OutputDir string

const (
	DirDocuments OutputDir = "documents"
	DirPictures  OutputDir = "pictures"
)

var formatAliases = map[string]ExportFormat{
	"pdf":      FormatPDF,
	"image":    FormatImage,
	"png":      FormatImage,
	"text":     FormatText,
	"txt":      FormatText,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"json":     FormatJSON,
	"docx":     FormatDOCX,
	"word":     FormatDOCX,
}

func ParseExportFormat(s string) (ExportFormat, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

func (f ExportFormat) Valid() bool {
	switch f {
	case FormatPDF, FormatImage, FormatText, FormatMarkdown, FormatJSON, FormatDOCX:
		return true
	}
	return false
}

func (f ExportFormat) Extension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatImage:
		return ".png"
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatDOCX:
		return ".docx"
	}
	return ""
}

func (f ExportFormat) MimeType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatImage:
		return "image/png"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

func (f ExportFormat) Dir() OutputDir {
	if f == FormatImage {
		return DirPictures
	}
	return DirDocuments
}

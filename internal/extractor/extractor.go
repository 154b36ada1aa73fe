// Package extractor reads the text back out of exported files so a client
// can preview an export without downloading it.
package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPreviewUnsupported = errors.New("preview not supported for this file type")
	ErrNoText             = errors.New("no text could be extracted")
)

// Extract picks a decoder by file extension.
func Extract(data []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return ExtractPDF(data)
	case ".docx":
		return ExtractDOCX(data)
	case ".txt", ".md", ".json":
		return ExtractTXT(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrPreviewUnsupported, ext)
	}
}

func ExtractFile(path string) (string, error) {
	pages, err := ExtractFilePages(path)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n\n"), nil
}

// ExtractFilePages splits a PDF by page; every other format is one page.
func ExtractFilePages(path string) ([]string, error) {
	ext := filepath.Ext(path)
	if !Supported(ext) {
		return nil, fmt.Errorf("%w: %q", ErrPreviewUnsupported, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	if strings.EqualFold(ext, ".pdf") {
		return ExtractPDFPages(data)
	}
	text, err := Extract(data, ext)
	if err != nil {
		return nil, err
	}
	return []string{text}, nil
}

func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".txt", ".md", ".json":
		return true
	}
	return false
}

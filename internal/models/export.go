package models

import "time"

// ExportResult describes one file produced by an export call. It belongs to
// the caller once returned.
type ExportResult struct {
	Path      string       `json:"path"`
	Filename  string       `json:"filename"`
	Format    ExportFormat `json:"format"`
	MimeType  string       `json:"mime_type"`
	Size      int64        `json:"size"`
	Pages     int          `json:"pages,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type SummaryRecord struct {
	ID        string    `json:"id"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type ExportRecord struct {
	ID        string       `json:"id" db:"id"`
	SummaryID string       `json:"summary_id" db:"summary_id"`
	Format    ExportFormat `json:"format" db:"format"`
	Filename  string       `json:"filename" db:"filename"`
	Path      string       `json:"-" db:"path"`
	MimeType  string       `json:"mime_type" db:"mime_type"`
	Size      int64        `json:"size" db:"size"`
	Pages     int          `json:"pages,omitempty" db:"pages"`
	ShareURL  string       `json:"share_url,omitempty" db:"share_url"`
	CreatedAt time.Time    `json:"created_at" db:"-"`
}

type SummarizeRequest struct {
	Text    string `json:"text"`
	Persona string `json:"persona"`
}

type ExportRequest struct {
	Format  string   `json:"format"`
	Formats []string `json:"formats"`
	Persona string   `json:"persona"`
	Share   bool     `json:"share"`
}

type ExportResponse struct {
	SummaryID string         `json:"summary_id"`
	Exports   []ExportRecord `json:"exports"`
}

type PreviewResponse struct {
	ExportID string       `json:"export_id"`
	Format   ExportFormat `json:"format"`
	Text     string       `json:"text"`
	// Pages is set for PDF exports only.
	Pages []string `json:"pages,omitempty"`
}

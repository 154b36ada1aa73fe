// Package render turns a summary into document bytes. Every backend walks the
// same Report so section order is identical across formats.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

const (
	ReportTitle = "SumUp Summary Report"
	Creator     = "SumUp - AI Text Summarizer"
	FooterText  = "Generated by SumUp - AI Text Summarizer"

	TimestampLayout = "2006-01-02 15:04"
)

// Renderer writes one output format.
type Renderer interface {
	Format() models.ExportFormat
	Render(w io.Writer, r *Report) error
}

type SectionKind int

const (
	KindParagraph SectionKind = iota
	KindNumbered
	KindBulleted
	KindChecklist
	KindInline
)

type SectionKey string

const (
	SectionSummary     SectionKey = "summary"
	SectionOverview    SectionKey = "brief_overview"
	SectionDetailed    SectionKey = "detailed_summary"
	SectionKeyPoints   SectionKey = "key_points"
	SectionKeyInsights SectionKey = "key_insights"
	SectionActionItems SectionKey = "action_items"
	SectionKeywords    SectionKey = "keywords"
)

type Section struct {
	Key     SectionKey
	Heading string
	Kind    SectionKind
	Body    string
	Items   []string
}

type MetricRow struct {
	Label string
	Value string
}

// Report is the format independent view of a summary.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Persona     string
	Metrics     models.Metrics
	Sections    []Section
	Footer      string

	Summary *models.Summary
}

// BuildReport lays out the sections of s in their fixed order. Optional
// sections appear only when they have content. An empty persona falls back to
// the summary's own persona.
func BuildReport(s *models.Summary, persona string) *Report {
	if strings.TrimSpace(persona) == "" {
		persona = s.Persona.DisplayName()
	}

	r := &Report{
		Title:       ReportTitle,
		GeneratedAt: s.CreatedAt,
		Persona:     persona,
		Metrics:     s.Metrics,
		Footer:      FooterText,
		Summary:     s,
	}

	r.Sections = append(r.Sections, Section{
		Key:     SectionSummary,
		Heading: "Summary",
		Kind:    KindParagraph,
		Body:    strings.TrimSpace(s.Summary),
	})

	if body := strings.TrimSpace(s.BriefOverview); body != "" {
		r.Sections = append(r.Sections, Section{Key: SectionOverview, Heading: "Brief Overview", Kind: KindParagraph, Body: body})
	}
	if body := strings.TrimSpace(s.DetailedSummary); body != "" {
		r.Sections = append(r.Sections, Section{Key: SectionDetailed, Heading: "Detailed Analysis", Kind: KindParagraph, Body: body})
	}
	if len(s.BulletPoints) > 0 {
		r.Sections = append(r.Sections, Section{Key: SectionKeyPoints, Heading: "Key Points", Kind: KindNumbered, Items: s.BulletPoints})
	}
	if s.KeyInsights.HasItems() {
		r.Sections = append(r.Sections, Section{Key: SectionKeyInsights, Heading: "Key Insights", Kind: KindBulleted, Items: s.KeyInsights.Items()})
	}
	if s.ActionItems.HasItems() {
		r.Sections = append(r.Sections, Section{Key: SectionActionItems, Heading: "Action Items", Kind: KindChecklist, Items: s.ActionItems.Items()})
	}
	if s.Keywords.HasItems() {
		r.Sections = append(r.Sections, Section{Key: SectionKeywords, Heading: "Keywords", Kind: KindInline, Items: s.Keywords.Items()})
	}

	return r
}

// MetricRows reports the metrics block. Reduction is copied, not recomputed.
func (r *Report) MetricRows() []MetricRow {
	return []MetricRow{
		{Label: "Original Words", Value: fmt.Sprintf("%d", r.Metrics.OriginalWordCount)},
		{Label: "Summary Words", Value: fmt.Sprintf("%d", r.Metrics.SummaryWordCount)},
		{Label: "Reduction", Value: fmt.Sprintf("%d%%", r.Metrics.ReductionPercentage)},
		{Label: "Time Saved", Value: fmt.Sprintf("%d min", r.Metrics.TimeSaved())},
	}
}

func (r *Report) GeneratedLabel() string {
	if r.GeneratedAt.IsZero() {
		return "unknown"
	}
	return r.GeneratedAt.Format(TimestampLayout)
}

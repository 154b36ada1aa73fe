package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

type jsonMetrics struct {
	OriginalWordCount   int `json:"original_word_count"`
	SummaryWordCount    int `json:"summary_word_count"`
	ReductionPercentage int `json:"reduction_percentage"`
	TimeSavedMinutes    int `json:"time_saved_minutes"`
}

type jsonDocument struct {
	GeneratedAt     string      `json:"generated_at"`
	Persona         string      `json:"persona"`
	Summary         string      `json:"summary"`
	BriefOverview   string      `json:"brief_overview"`
	DetailedSummary string      `json:"detailed_summary"`
	BulletPoints    []string    `json:"bullet_points"`
	KeyInsights     []string    `json:"key_insights"`
	ActionItems     []string    `json:"action_items"`
	Keywords        []string    `json:"keywords"`
	Metrics         jsonMetrics `json:"metrics"`
}

type jsonRenderer struct{}

func NewJSONRenderer(Style) Renderer {
	return &jsonRenderer{}
}

func (r *jsonRenderer) Format() models.ExportFormat {
	return models.FormatJSON
}

// Render writes every list as an array, using [] for absent lists.
func (r *jsonRenderer) Render(w io.Writer, rep *Report) error {
	s := rep.Summary

	bullets := s.BulletPoints
	if bullets == nil {
		bullets = []string{}
	}

	generated := ""
	if !rep.GeneratedAt.IsZero() {
		generated = rep.GeneratedAt.Format(time.RFC3339)
	}

	doc := jsonDocument{
		GeneratedAt:     generated,
		Persona:         rep.Persona,
		Summary:         s.Summary,
		BriefOverview:   s.BriefOverview,
		DetailedSummary: s.DetailedSummary,
		BulletPoints:    bullets,
		KeyInsights:     s.KeyInsights.Items(),
		ActionItems:     s.ActionItems.Items(),
		Keywords:        s.Keywords.Items(),
		Metrics: jsonMetrics{
			OriginalWordCount:   rep.Metrics.OriginalWordCount,
			SummaryWordCount:    rep.Metrics.SummaryWordCount,
			ReductionPercentage: rep.Metrics.ReductionPercentage,
			TimeSavedMinutes:    rep.Metrics.TimeSaved(),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

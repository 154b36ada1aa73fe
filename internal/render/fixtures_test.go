package render

import (
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

func fullSummary() *models.Summary {
	return &models.Summary{
		Summary:         "Remote work boosts productivity when teams communicate deliberately.",
		BriefOverview:   "Remote teams thrive with structure.",
		DetailedSummary: "The report surveys forty companies and finds that written rituals matter more than tooling.",
		BulletPoints: []string{
			"Asynchronous updates replace most status meetings",
			"Clear ownership reduces duplicated effort",
		},
		KeyInsights: models.List("Documentation culture predicts success", "Time zones matter less than expected"),
		ActionItems: models.List("Schedule a weekly written update", "Audit recurring meetings"),
		Keywords:    models.List("remote", "productivity", "async"),
		Metrics: models.Metrics{
			OriginalWordCount:   1200,
			SummaryWordCount:    180,
			ReductionPercentage: 85,
			OriginalReadingTime: 6,
			SummaryReadingTime:  1,
		},
		CreatedAt: time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
		Persona:   models.PersonaBusiness,
	}
}

func minimalSummary() *models.Summary {
	return &models.Summary{
		Summary:      "Short text.",
		BulletPoints: []string{"A", "B"},
		KeyInsights:  models.List(),
		Metrics: models.Metrics{
			OriginalWordCount:   100,
			SummaryWordCount:    20,
			ReductionPercentage: 80,
			OriginalReadingTime: 5,
			SummaryReadingTime:  1,
		},
		CreatedAt: time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
	}
}

// populatedValues lists every text value of fullSummary that a complete
// rendering has to contain.
func populatedValues(s *models.Summary) []string {
	values := []string{s.Summary, s.BriefOverview, s.DetailedSummary}
	values = append(values, s.BulletPoints...)
	values = append(values, s.KeyInsights.Items()...)
	values = append(values, s.ActionItems.Items()...)
	values = append(values, s.Keywords.Items()...)
	return values
}

package models

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrInvalidSummary = errors.New("invalid summary")

// DefaultWordsPerMinute is the reading speed used for reading-time estimates.
const DefaultWordsPerMinute = 200

type Metrics struct {
	OriginalWordCount   int `json:"original_word_count"`
	SummaryWordCount    int `json:"summary_word_count"`
	ReductionPercentage int `json:"reduction_percentage"`
	OriginalReadingTime int `json:"original_reading_time"`
	SummaryReadingTime  int `json:"summary_reading_time"`
}

// TimeSaved is the reading time difference in minutes.
func (m Metrics) TimeSaved() int {
	return m.OriginalReadingTime - m.SummaryReadingTime
}

// NewMetrics derives word counts and reading times for an original text and
// its summary.
func NewMetrics(original, summary string, wordsPerMinute int) Metrics {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	orig := CountWords(original)
	sum := CountWords(summary)

	reduction := 0
	if orig > 0 && sum < orig {
		reduction = (orig - sum) * 100 / orig
	}

	return Metrics{
		OriginalWordCount:   orig,
		SummaryWordCount:    sum,
		ReductionPercentage: reduction,
		OriginalReadingTime: ReadingTime(orig, wordsPerMinute),
		SummaryReadingTime:  ReadingTime(sum, wordsPerMinute),
	}
}

func CountWords(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime rounds up to whole minutes; any non-empty text takes at least one.
func ReadingTime(words, wordsPerMinute int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(wordsPerMinute)))
}

// Summary is the structured result of one summarization.
type Summary struct {
	Summary         string       `json:"summary"`
	BriefOverview   string       `json:"brief_overview,omitempty"`
	DetailedSummary string       `json:"detailed_summary,omitempty"`
	BulletPoints    []string     `json:"bullet_points"`
	KeyInsights     OptionalList `json:"key_insights"`
	ActionItems     OptionalList `json:"action_items"`
	Keywords        OptionalList `json:"keywords"`
	Metrics         Metrics      `json:"metrics"`
	CreatedAt       time.Time    `json:"-"`
	Persona         Persona      `json:"persona"`
}

type summaryAlias Summary

type summaryJSON struct {
	*summaryAlias
	CreatedAt int64 `json:"created_at"`
}

// MarshalJSON writes CreatedAt as epoch milliseconds.
func (s Summary) MarshalJSON() ([]byte, error) {
	alias := summaryAlias(s)
	var millis int64
	if !s.CreatedAt.IsZero() {
		millis = s.CreatedAt.UnixMilli()
	}
	return json.Marshal(summaryJSON{summaryAlias: &alias, CreatedAt: millis})
}

func (s *Summary) UnmarshalJSON(data []byte) error {
	aux := summaryJSON{summaryAlias: (*summaryAlias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.CreatedAt != 0 {
		s.CreatedAt = time.UnixMilli(aux.CreatedAt).UTC()
	} else {
		s.CreatedAt = time.Time{}
	}
	return nil
}

// TextLength counts the runes of every text field and list item.
func (s *Summary) TextLength() int {
	n := utf8.RuneCountInString(s.Summary) +
		utf8.RuneCountInString(s.BriefOverview) +
		utf8.RuneCountInString(s.DetailedSummary)
	for _, items := range [][]string{s.BulletPoints, s.KeyInsights.Items(), s.ActionItems.Items(), s.Keywords.Items()} {
		for _, item := range items {
			n += utf8.RuneCountInString(item)
		}
	}
	return n
}

func (s *Summary) Validate() error {
	if s == nil {
		return errors.Join(ErrInvalidSummary, errors.New("summary is nil"))
	}
	if strings.TrimSpace(s.Summary) == "" {
		return errors.Join(ErrInvalidSummary, errors.New("summary text is empty"))
	}
	return nil
}

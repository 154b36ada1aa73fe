// Package layout implements the greedy line breaking shared by the canvas
// based renderers.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Measure returns the rendered width of s in the caller's units.
type Measure func(s string) float64

// Wrap breaks text into lines no wider than maxWidth. Words are separated by
// single spaces and are never split: a word wider than maxWidth gets a line of
// its own. Empty text yields no lines.
func Wrap(text string, measure Measure, maxWidth float64) []string {
	lines := []string{}
	current := ""

	for _, word := range strings.Split(text, " ") {
		if word == "" {
			continue
		}
		if current == "" {
			current = word
			continue
		}

		candidate := current + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// WrapParagraphs wraps each newline separated paragraph on its own. Blank
// paragraphs are kept as empty lines.
func WrapParagraphs(text string, measure Measure, maxWidth float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		wrapped := Wrap(para, measure, maxWidth)
		if len(wrapped) == 0 {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapped...)
	}

	// drop trailing blank lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Monospace measures every rune as cellWidth wide.
func Monospace(cellWidth float64) Measure {
	return func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * cellWidth
	}
}

// Columns measures terminal cells, counting wide east asian runes as two.
func Columns() Measure {
	return func(s string) float64 {
		return float64(runewidth.StringWidth(s))
	}
}

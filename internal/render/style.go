package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Style is the complete look of a rendered report. Renderers never consult
// global state; everything visual comes from the Style they were built with.
type Style struct {
	Colors      Palette        `toml:"colors"`
	Fonts       FontSizes      `toml:"fonts"`
	ImageFonts  FontSizes      `toml:"image_fonts"`
	PDF         PageGeometry   `toml:"pdf"`
	Image       CanvasGeometry `toml:"image"`
	TextColumns int            `toml:"text_columns"`
}

// Palette holds #rrggbb colors.
type Palette struct {
	Title      string `toml:"title"`
	Heading    string `toml:"heading"`
	Body       string `toml:"body"`
	Muted      string `toml:"muted"`
	Accent     string `toml:"accent"`
	Background string `toml:"background"`
	Panel      string `toml:"panel"`
}

type FontSizes struct {
	Title   float64 `toml:"title"`
	Heading float64 `toml:"heading"`
	Body    float64 `toml:"body"`
	Small   float64 `toml:"small"`
}

// PageGeometry is in PDF points.
type PageGeometry struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Margin      float64 `toml:"margin"`
	LineSpacing float64 `toml:"line_spacing"`
}

// CanvasGeometry is in pixels. The canvas height is computed per report and
// may not exceed MaxHeight.
type CanvasGeometry struct {
	Width       int     `toml:"width"`
	MaxHeight   int     `toml:"max_height"`
	Padding     int     `toml:"padding"`
	LineSpacing float64 `toml:"line_spacing"`
}

func DefaultStyle() Style {
	return Style{
		Colors: Palette{
			Title:      "#1a237e",
			Heading:    "#3949ab",
			Body:       "#212121",
			Muted:      "#757575",
			Accent:     "#5c6bc0",
			Background: "#ffffff",
			Panel:      "#e8eaf6",
		},
		Fonts: FontSizes{
			Title:   24,
			Heading: 16,
			Body:    12,
			Small:   10,
		},
		ImageFonts: FontSizes{
			Title:   56,
			Heading: 40,
			Body:    32,
			Small:   26,
		},
		PDF: PageGeometry{
			Width:       595,
			Height:      842,
			Margin:      50,
			LineSpacing: 1.4,
		},
		Image: CanvasGeometry{
			Width:       1080,
			MaxHeight:   16384,
			Padding:     60,
			LineSpacing: 1.35,
		},
	}
}

// LoadStyle reads a TOML preset on top of DefaultStyle. Keys missing from the
// file keep their default values.
func LoadStyle(path string) (Style, error) {
	style := DefaultStyle()
	if path == "" {
		return style, nil
	}

	if _, err := toml.DecodeFile(path, &style); err != nil {
		return Style{}, fmt.Errorf("failed to decode style %s: %w", path, err)
	}

	if err := style.Validate(); err != nil {
		return Style{}, err
	}
	return style, nil
}

func (s Style) Validate() error {
	for name, hex := range map[string]string{
		"title":      s.Colors.Title,
		"heading":    s.Colors.Heading,
		"body":       s.Colors.Body,
		"muted":      s.Colors.Muted,
		"accent":     s.Colors.Accent,
		"background": s.Colors.Background,
		"panel":      s.Colors.Panel,
	} {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("color %s: %w", name, err)
		}
	}

	if s.PDF.Width <= 2*s.PDF.Margin || s.PDF.Height <= 2*s.PDF.Margin {
		return fmt.Errorf("pdf page %vx%v leaves no room inside margin %v", s.PDF.Width, s.PDF.Height, s.PDF.Margin)
	}
	if s.Image.Width <= 2*s.Image.Padding {
		return fmt.Errorf("image width %d leaves no room inside padding %d", s.Image.Width, s.Image.Padding)
	}
	if s.Image.MaxHeight <= 2*s.Image.Padding {
		return fmt.Errorf("image max_height %d leaves no room inside padding %d", s.Image.MaxHeight, s.Image.Padding)
	}
	if s.PDF.LineSpacing <= 0 || s.Image.LineSpacing <= 0 {
		return fmt.Errorf("line_spacing must be positive")
	}
	for name, sizes := range map[string]FontSizes{"fonts": s.Fonts, "image_fonts": s.ImageFonts} {
		if sizes.Title <= 0 || sizes.Heading <= 0 || sizes.Body <= 0 || sizes.Small <= 0 {
			return fmt.Errorf("%s: every font size must be positive", name)
		}
	}
	if s.TextColumns < 0 {
		return fmt.Errorf("text_columns must not be negative")
	}
	return nil
}

// ParseHexColor parses #rrggbb or rrggbb.
func ParseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// rgb falls back to black for colors that slipped past Validate.
func rgb(hex string) color.RGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return c
}

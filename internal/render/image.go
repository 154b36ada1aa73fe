package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Ductam7415vn/SumUp-sub002/internal/layout"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

var (
	fontsOnce sync.Once
	fontsErr  error

	regularFont *opentype.Font
	boldFont    *opentype.Font
	italicFont  *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regularFont, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		if boldFont, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		italicFont, fontsErr = opentype.Parse(goitalic.TTF)
	})
	return fontsErr
}

// ErrCanvasTooLarge means the report does not fit on one image.
var ErrCanvasTooLarge = errors.New("report too long for a single image")

type imageRenderer struct {
	style Style
}

// NewImageRenderer draws the report onto a single PNG. The width is fixed by
// the style; the height is whatever the content needs.
func NewImageRenderer(style Style) Renderer {
	return &imageRenderer{style: style}
}

func (r *imageRenderer) Format() models.ExportFormat {
	return models.FormatImage
}

func (r *imageRenderer) Render(w io.Writer, rep *Report) error {
	faces, err := newImageFaces(r.style.ImageFonts)
	if err != nil {
		return err
	}
	defer faces.close()

	plan := r.plan(rep, faces)
	if plan.height > r.style.Image.MaxHeight {
		return fmt.Errorf("%w: %dpx needed, %dpx allowed", ErrCanvasTooLarge, plan.height, r.style.Image.MaxHeight)
	}

	// one allocation sized from the finished plan
	img := image.NewRGBA(image.Rect(0, 0, plan.width, plan.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgb(r.style.Colors.Background)), image.Point{}, draw.Src)
	plan.paint(img)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

type imageFaces struct {
	title, heading, body, bold, small font.Face
}

func newImageFaces(sizes FontSizes) (*imageFaces, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	f := &imageFaces{}
	specs := []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&f.title, boldFont, sizes.Title},
		{&f.heading, boldFont, sizes.Heading},
		{&f.body, regularFont, sizes.Body},
		{&f.bold, boldFont, sizes.Body},
		{&f.small, italicFont, sizes.Small},
	}

	for _, s := range specs {
		face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			f.close()
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}
		*s.dst = face
	}
	return f, nil
}

func (f *imageFaces) close() {
	for _, face := range []font.Face{f.title, f.heading, f.body, f.bold, f.small} {
		if face != nil {
			face.Close()
		}
	}
}

func faceMeasure(face font.Face) layout.Measure {
	return func(s string) float64 {
		return float64(font.MeasureString(face, s).Ceil())
	}
}

type imageOpKind int

const (
	opText imageOpKind = iota
	opFill
	opOutline
)

type imageOp struct {
	kind  imageOpKind
	text  string
	face  font.Face
	color color.RGBA
	// text: x,y is the baseline origin. fill/outline: the top-left corner.
	x, y int
	w, h int
}

// imagePlan is the laid out report. Painting it never changes its size.
type imagePlan struct {
	ops     []imageOp
	width   int
	height  int
	left    int
	right   int
	y       int
	spacing float64
}

func (p *imagePlan) lineHeight(face font.Face) int {
	return int(float64(face.Metrics().Height.Ceil()) * p.spacing)
}

func (p *imagePlan) text(s string, face font.Face, col color.RGBA, x int) {
	p.ops = append(p.ops, imageOp{
		kind:  opText,
		text:  s,
		face:  face,
		color: col,
		x:     x,
		y:     p.y + face.Metrics().Ascent.Ceil(),
	})
	p.y += p.lineHeight(face)
}

func (p *imagePlan) paragraph(body string, face font.Face, col color.RGBA, indent int) {
	width := float64(p.right - p.left - indent)
	for _, line := range layout.WrapParagraphs(body, faceMeasure(face), width) {
		if line == "" {
			p.y += p.lineHeight(face) / 2
			continue
		}
		p.text(line, face, col, p.left+indent)
	}
}

func (p *imagePlan) item(prefix string, box bool, body string, face font.Face, col, accent color.RGBA) {
	const indent = 20
	size := face.Metrics().Ascent.Ceil()

	gutter := int(faceMeasure(face)(prefix)) + 14
	if box {
		gutter = size + 14
	}

	x := p.left + indent
	lines := layout.Wrap(body, faceMeasure(face), float64(p.right-x-gutter))
	if len(lines) == 0 {
		lines = []string{""}
	}
	for i, line := range lines {
		if i == 0 {
			if box {
				p.ops = append(p.ops, imageOp{kind: opOutline, color: accent, x: x, y: p.y + 2, w: size - 2, h: size - 2})
			} else {
				p.ops = append(p.ops, imageOp{kind: opText, text: prefix, face: face, color: accent, x: x, y: p.y + size})
			}
		}
		p.text(line, face, col, x+gutter)
	}
}

func (p *imagePlan) fill(col color.RGBA, h int) {
	p.ops = append(p.ops, imageOp{kind: opFill, color: col, x: p.left, y: p.y, w: p.right - p.left, h: h})
}

func (r *imageRenderer) plan(rep *Report, faces *imageFaces) *imagePlan {
	geo := r.style.Image
	colors := r.style.Colors
	title, heading, body, muted := rgb(colors.Title), rgb(colors.Heading), rgb(colors.Body), rgb(colors.Muted)
	accent, panel := rgb(colors.Accent), rgb(colors.Panel)

	p := &imagePlan{
		width:   geo.Width,
		left:    geo.Padding,
		right:   geo.Width - geo.Padding,
		y:       geo.Padding,
		spacing: geo.LineSpacing,
	}

	p.paragraph(rep.Title, faces.title, title, 0)
	p.text("Generated: "+rep.GeneratedLabel(), faces.small, muted, p.left)
	p.text("Persona: "+rep.Persona, faces.small, muted, p.left)
	p.y += 12
	p.fill(accent, 4)
	p.y += 28

	// metrics panel
	p.text("Summary Metrics", faces.heading, heading, p.left)
	rows := rep.MetricRows()
	rowHeight := p.lineHeight(faces.body)
	p.fill(panel, len(rows)*rowHeight+32)
	p.y += 16
	for _, row := range rows {
		baseline := p.y + faces.body.Metrics().Ascent.Ceil()
		p.ops = append(p.ops,
			imageOp{kind: opText, text: row.Label, face: faces.bold, color: body, x: p.left + 24, y: baseline},
			imageOp{kind: opText, text: row.Value, face: faces.body, color: body, x: p.left + (p.right-p.left)/2, y: baseline},
		)
		p.y += rowHeight
	}
	p.y += 16 + 28

	for _, sec := range rep.Sections {
		p.text(sec.Heading, faces.heading, heading, p.left)
		switch sec.Kind {
		case KindParagraph:
			p.paragraph(sec.Body, faces.body, body, 0)
		case KindNumbered:
			for i, item := range sec.Items {
				p.item(fmt.Sprintf("%d.", i+1), false, item, faces.body, body, accent)
			}
		case KindBulleted:
			for _, item := range sec.Items {
				p.item("•", false, item, faces.body, body, accent)
			}
		case KindChecklist:
			for _, item := range sec.Items {
				p.item("", true, item, faces.body, body, accent)
			}
		case KindInline:
			p.paragraph(strings.Join(sec.Items, "  ·  "), faces.body, accent, 0)
		}
		p.y += 28
	}

	p.fill(muted, 2)
	p.y += 16
	p.text(rep.Footer, faces.small, muted, p.left)

	p.height = p.y + geo.Padding
	return p
}

func (p *imagePlan) paint(img draw.Image) {
	for _, op := range p.ops {
		src := image.NewUniform(op.color)
		switch op.kind {
		case opFill:
			draw.Draw(img, image.Rect(op.x, op.y, op.x+op.w, op.y+op.h), src, image.Point{}, draw.Over)
		case opOutline:
			const t = 3
			for _, r := range []image.Rectangle{
				image.Rect(op.x, op.y, op.x+op.w, op.y+t),
				image.Rect(op.x, op.y+op.h-t, op.x+op.w, op.y+op.h),
				image.Rect(op.x, op.y, op.x+t, op.y+op.h),
				image.Rect(op.x+op.w-t, op.y, op.x+op.w, op.y+op.h),
			} {
				draw.Draw(img, r, src, image.Point{}, draw.Over)
			}
		case opText:
			d := &font.Drawer{
				Dst:  img,
				Src:  src,
				Face: op.face,
				Dot:  fixed.P(op.x, op.y),
			}
			d.DrawString(op.text)
		}
	}
}

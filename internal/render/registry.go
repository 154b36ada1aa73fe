package render

import (
	"fmt"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

// Registry maps each export format to its backend.
type Registry map[models.ExportFormat]Renderer

// NewRegistry builds one renderer per supported format, all sharing style.
func NewRegistry(style Style) Registry {
	reg := Registry{}
	for _, r := range []Renderer{
		NewPDFRenderer(style),
		NewImageRenderer(style),
		NewTextRenderer(style),
		NewMarkdownRenderer(style),
		NewJSONRenderer(style),
		NewDOCXRenderer(style),
	} {
		reg[r.Format()] = r
	}
	return reg
}

func (reg Registry) Lookup(f models.ExportFormat) (Renderer, error) {
	r, ok := reg[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownFormat, f)
	}
	return r, nil
}

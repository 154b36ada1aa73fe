package exporter

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfcpuOnce sync.Once

// inspectPDF validates a written PDF and returns its page count.
func inspectPDF(path string) (int, error) {
	pdfcpuOnce.Do(func() {
		// keep pdfcpu from creating a config dir under $HOME
		model.ConfigPath = "disable"
	})

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("pdf validation failed: %w", err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pdf pages: %w", err)
	}
	return pages, nil
}

// Package exporter writes rendered summaries to disk. Each call produces
// exactly one file, or none at all when it fails.
package exporter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

const (
	suffixAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength    = 8
	maxNameAttempts = 5
)

type Options struct {
	// BaseDir holds the documents/ and pictures/ output folders.
	BaseDir string

	// ValidatePDF runs pdfcpu over every written PDF and records its page count.
	ValidatePDF bool

	// Clock and Suffix are overridable for tests.
	Clock  func() time.Time
	Suffix func() (string, error)
}

type Exporter struct {
	renderers   render.Registry
	baseDir     string
	validatePDF bool
	now         func() time.Time
	suffix      func() (string, error)
	logger      *utils.Logger
}

func New(renderers render.Registry, opts Options, logger *utils.Logger) *Exporter {
	e := &Exporter{
		renderers:   renderers,
		baseDir:     opts.BaseDir,
		validatePDF: opts.ValidatePDF,
		now:         opts.Clock,
		suffix:      opts.Suffix,
		logger:      logger,
	}
	if e.baseDir == "" {
		e.baseDir = "exports"
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.suffix == nil {
		e.suffix = func() (string, error) {
			return gonanoid.Generate(suffixAlphabet, suffixLength)
		}
	}
	return e
}

type outcome struct {
	result *models.ExportResult
	err    error
}

// Export renders s as format into a new file. The work runs on its own
// goroutine; Export only waits for it. If ctx ends first, Export returns
// immediately and the file the worker may still produce is removed.
func (e *Exporter) Export(ctx context.Context, s *models.Summary, persona string, format models.ExportFormat) (*models.ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExportError{Format: format, Op: OpCancel, Err: err}
	}

	done := make(chan outcome, 1)
	go func() {
		res, err := e.run(ctx, s, persona, format)
		done <- outcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		go func() {
			if out := <-done; out.result != nil {
				_ = os.Remove(out.result.Path)
			}
		}()
		e.logger.Warn("Export cancelled", "format", format, "error", ctx.Err())
		return nil, &ExportError{Format: format, Op: OpCancel, Err: ctx.Err()}
	}
}

// ExportAll exports s in every requested format concurrently. Results keep
// the order of formats. If any export fails, the files already produced are
// removed and the first error is returned.
func (e *Exporter) ExportAll(ctx context.Context, s *models.Summary, persona string, formats []models.ExportFormat) ([]*models.ExportResult, error) {
	results := make([]*models.ExportResult, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			res, err := e.Export(gctx, s, persona, format)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, res := range results {
			if res != nil {
				_ = os.Remove(res.Path)
			}
		}
		return nil, err
	}
	return results, nil
}

func (e *Exporter) run(ctx context.Context, s *models.Summary, persona string, format models.ExportFormat) (res *models.ExportResult, err error) {
	start := e.now()
	fail := func(op Op, cause error) error {
		return &ExportError{Format: format, Op: op, Err: cause}
	}

	renderer, err := e.renderers.Lookup(format)
	if err != nil {
		return nil, fail(OpDispatch, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err))
	}
	if err := s.Validate(); err != nil {
		return nil, fail(OpValidate, err)
	}

	f, path, err := e.create(format, start)
	if err != nil {
		return nil, fail(OpCreate, err)
	}

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = f.Close()
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			e.logger.Error("Failed to remove partial export", "path", path, "error", rmErr)
		}
		e.logger.Error("Export failed", "format", format, "path", path, "error", err)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fail(OpRender, fmt.Errorf("renderer panic: %v", r))
		}
	}()

	w := bufio.NewWriter(f)
	if err := renderer.Render(w, render.BuildReport(s, persona)); err != nil {
		return nil, fail(OpRender, err)
	}
	if err := w.Flush(); err != nil {
		return nil, fail(OpWrite, err)
	}
	closed = true
	if err := f.Close(); err != nil {
		return nil, fail(OpWrite, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(OpCancel, err)
	}

	pages := 0
	if format == models.FormatPDF && e.validatePDF {
		if pages, err = inspectPDF(path); err != nil {
			return nil, fail(OpInspect, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fail(OpWrite, err)
	}

	e.logger.Info("Summary exported",
		"format", format,
		"path", path,
		"size", info.Size(),
		"duration_ms", time.Since(start).Milliseconds())

	return &models.ExportResult{
		Path:      path,
		Filename:  filepath.Base(path),
		Format:    format,
		MimeType:  format.MimeType(),
		Size:      info.Size(),
		Pages:     pages,
		CreatedAt: start,
	}, nil
}

// create opens a new file named summary_<millis>_<suffix><ext>. O_EXCL makes
// a name clash visible, in which case another suffix is drawn.
func (e *Exporter) create(format models.ExportFormat, at time.Time) (*os.File, string, error) {
	dir := filepath.Join(e.baseDir, string(format.Dir()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		suffix, err := e.suffix()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate file suffix: %w", err)
		}

		name := fmt.Sprintf("summary_%d_%s%s", at.UnixMilli(), suffix, format.Extension())
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		return f, path, nil
	}
	return nil, "", ErrNameExhausted
}

// Dir returns the folder files of format are written to.
func (e *Exporter) Dir(format models.ExportFormat) string {
	return filepath.Join(e.baseDir, string(format.Dir()))
}

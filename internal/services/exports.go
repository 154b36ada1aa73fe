package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/exporter"
	"github.com/Ductam7415vn/SumUp-sub002/internal/extractor"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

func (s *summaryService) Export(ctx context.Context, summaryID string, req *models.ExportRequest) (*models.ExportResponse, error) {
	formats, err := requestedFormats(req)
	if err != nil {
		return nil, err
	}

	rec, err := s.GetSummary(ctx, summaryID)
	if err != nil {
		return nil, err
	}

	// empty falls back to the stored persona's display name
	persona := ""
	if req.Persona != "" {
		persona = models.ParsePersona(req.Persona).DisplayName()
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.ExportTimeout)
	defer cancel()

	var results []*models.ExportResult
	if len(formats) == 1 {
		res, err := s.exporter.Export(ctx, &rec.Summary, persona, formats[0])
		if err != nil {
			return nil, s.exportFailure(summaryID, err)
		}
		results = []*models.ExportResult{res}
	} else {
		results, err = s.exporter.ExportAll(ctx, &rec.Summary, persona, formats)
		if err != nil {
			return nil, s.exportFailure(summaryID, err)
		}
	}

	// Share everything before any row is written so a failure leaves nothing behind.
	exports := make([]*models.ExportRecord, len(results))
	var shared []string
	for i, res := range results {
		exports[i] = &models.ExportRecord{
			ID:        utils.GenerateID(),
			SummaryID: summaryID,
			Format:    res.Format,
			Filename:  res.Filename,
			Path:      res.Path,
			MimeType:  res.MimeType,
			Size:      res.Size,
			Pages:     res.Pages,
			CreatedAt: res.CreatedAt,
		}

		if !req.Share {
			continue
		}
		url, err := s.sharer.Share(ctx, res.Path, res.MimeType)
		if err != nil {
			s.logger.Error("Failed to share export", "error", err, "summary_id", summaryID, "path", res.Path)
			s.discard(results, shared)
			return nil, utils.NewBadGatewayError("Failed to share export")
		}
		shared = append(shared, res.Path)
		exports[i].ShareURL = url
	}

	if err := s.repo.CreateExports(ctx, exports); err != nil {
		s.logger.Error("Failed to save exports", "error", err, "summary_id", summaryID)
		s.discard(results, shared)
		return nil, utils.NewInternalError("Failed to save export metadata")
	}

	resp := &models.ExportResponse{SummaryID: summaryID, Exports: make([]models.ExportRecord, 0, len(exports))}
	for _, exp := range exports {
		resp.Exports = append(resp.Exports, *exp)
	}
	return resp, nil
}

// discard withdraws shared copies and removes the files of an export that
// will not be recorded.
func (s *summaryService) discard(results []*models.ExportResult, shared []string) {
	// the request context may already be done
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, path := range shared {
		if err := s.sharer.Unshare(ctx, path); err != nil {
			s.logger.Warn("Failed to withdraw shared export", "error", err, "path", path)
		}
	}
	for _, res := range results {
		if err := os.Remove(res.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove export", "error", err, "path", res.Path)
		}
	}
}

// exportFailure collapses an export error into the status the client sees.
func (s *summaryService) exportFailure(summaryID string, err error) error {
	s.logger.Error("Export failed", "error", err, "summary_id", summaryID)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return utils.NewGatewayTimeoutError("Export timed out")
	case errors.Is(err, exporter.ErrUnsupportedFormat):
		return utils.NewBadRequestError("Unsupported export format")
	case errors.Is(err, models.ErrInvalidSummary):
		return utils.NewBadRequestError("Summary cannot be exported")
	case errors.Is(err, render.ErrCanvasTooLarge):
		return utils.NewBadRequestError("Summary is too long for an image export")
	}

	var exportErr *exporter.ExportError
	if errors.As(err, &exportErr) {
		return utils.WrapInternalError(fmt.Sprintf("Failed to export %s", exportErr.Format), err)
	}
	return utils.WrapInternalError("Failed to export summary", err)
}

// requestedFormats merges format and formats, dropping duplicates.
func requestedFormats(req *models.ExportRequest) ([]models.ExportFormat, error) {
	raw := req.Formats
	if req.Format != "" {
		raw = append([]string{req.Format}, raw...)
	}
	if len(raw) == 0 {
		return nil, utils.NewBadRequestError("At least one export format is required")
	}

	seen := map[models.ExportFormat]bool{}
	var formats []models.ExportFormat
	for _, name := range raw {
		f, err := models.ParseExportFormat(name)
		if err != nil {
			return nil, utils.NewBadRequestError(fmt.Sprintf("Unsupported export format '%s'. Supported: %s", name, supportedFormats()))
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func supportedFormats() string {
	names := make([]string, len(models.ExportFormats))
	for i, f := range models.ExportFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (s *summaryService) ListExports(ctx context.Context, summaryID string) ([]models.ExportRecord, error) {
	if _, err := s.GetSummary(ctx, summaryID); err != nil {
		return nil, err
	}

	recs, err := s.repo.ListExports(ctx, summaryID)
	if err != nil {
		s.logger.Error("Failed to list exports", "error", err, "summary_id", summaryID)
		return nil, utils.NewInternalError("Failed to list exports")
	}
	return recs, nil
}

// GetExportFile returns an export whose file is still on disk.
func (s *summaryService) GetExportFile(ctx context.Context, id string) (*models.ExportRecord, error) {
	rec, err := s.repo.GetExport(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get export", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve export")
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Export not found")
	}

	if _, err := os.Stat(rec.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, utils.NewNotFoundError("Export file is no longer available")
		}
		s.logger.Error("Failed to stat export", "error", err, "path", rec.Path)
		return nil, utils.NewInternalError("Failed to read export")
	}
	return rec, nil
}

func (s *summaryService) PreviewExport(ctx context.Context, id string) (*models.PreviewResponse, error) {
	rec, err := s.GetExportFile(ctx, id)
	if err != nil {
		return nil, err
	}

	pages, err := extractor.ExtractFilePages(rec.Path)
	if errors.Is(err, extractor.ErrPreviewUnsupported) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Preview is not available for %s exports", rec.Format))
	}
	if err != nil {
		s.logger.Error("Failed to extract export text", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to preview export")
	}

	resp := &models.PreviewResponse{ExportID: rec.ID, Format: rec.Format, Text: strings.Join(pages, "\n\n")}
	if rec.Format == models.FormatPDF {
		resp.Pages = pages
	}
	return resp, nil
}

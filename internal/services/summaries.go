package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Ductam7415vn/SumUp-sub002/internal/extractor"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

func (s *summaryService) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryRecord, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, utils.NewBadRequestError("Text is required")
	}
	if s.opts.MaxTextLength > 0 && utf8.RuneCountInString(text) > s.opts.MaxTextLength {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Text exceeds %d characters", s.opts.MaxTextLength))
	}

	return s.summarize(ctx, text, models.ParsePersona(req.Persona))
}

func (s *summaryService) SummarizeDocument(ctx context.Context, req *models.UploadRequest) (*models.SummaryRecord, error) {
	var extractedText string
	var err error

	switch {
	case req.ContentType == "application/pdf":
		extractedText, err = extractor.ExtractPDF(req.File)
	case isDOCXContentType(req.ContentType):
		extractedText, err = extractor.ExtractDOCX(req.File)
	case isTextContentType(req.ContentType):
		extractedText, err = extractor.ExtractTXT(req.File)
	default:
		s.logger.Warn("Unsupported content type", "content_type", req.ContentType, "filename", req.Filename)
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unsupported file type '%s'. Only PDF, DOCX and TXT are allowed", req.ContentType))
	}

	if errors.Is(err, extractor.ErrNoText) {
		s.logger.Warn("No text extracted from document", "filename", req.Filename)
		return nil, utils.NewBadRequestError("No text could be extracted from the document. The file may be empty or corrupted")
	}
	if err != nil {
		s.logger.Error("Failed to extract text", "error", err, "content_type", req.ContentType, "filename", req.Filename)
		return nil, utils.NewBadRequestError("Failed to extract text from document")
	}

	s.logger.Info("Document text extracted",
		"filename", req.Filename,
		"content_type", req.ContentType,
		"text_length", len(extractedText))

	return s.Summarize(ctx, &models.SummarizeRequest{Text: extractedText, Persona: req.Persona})
}

func (s *summaryService) summarize(ctx context.Context, text string, persona models.Persona) (*models.SummaryRecord, error) {
	if s.summarizer == nil {
		return nil, utils.NewServiceUnavailableError("Summarization is not configured")
	}

	s.logger.Info("Starting summarization", "persona", persona, "text_length", len(text))

	summary, err := s.summarizer.Summarize(ctx, text, persona)
	if err != nil {
		s.logger.Error("Failed to summarize text", "error", err, "persona", persona)
		return nil, utils.NewBadGatewayError("Failed to summarize text")
	}

	return s.store(ctx, summary)
}

func (s *summaryService) Import(ctx context.Context, summary *models.Summary) (*models.SummaryRecord, error) {
	if err := summary.Validate(); err != nil {
		return nil, utils.NewBadRequestError("Summary text is required")
	}
	if s.opts.MaxTextLength > 0 && summary.TextLength() > s.opts.MaxTextLength {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Summary exceeds %d characters", s.opts.MaxTextLength))
	}

	imported := *summary
	if imported.BulletPoints == nil {
		imported.BulletPoints = []string{}
	}
	if imported.Persona == "" {
		imported.Persona = models.PersonaGeneral
	}
	if imported.CreatedAt.IsZero() {
		imported.CreatedAt = s.now().UTC()
	}

	return s.store(ctx, &imported)
}

func (s *summaryService) store(ctx context.Context, summary *models.Summary) (*models.SummaryRecord, error) {
	rec := &models.SummaryRecord{
		ID:        utils.GenerateID(),
		Summary:   *summary,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.CreateSummary(ctx, rec); err != nil {
		s.logger.Error("Failed to save summary", "error", err, "id", rec.ID)
		return nil, utils.NewInternalError("Failed to save summary")
	}

	s.logger.Info("Summary stored",
		"id", rec.ID,
		"persona", summary.Persona,
		"reduction", summary.Metrics.ReductionPercentage)

	return rec, nil
}

func (s *summaryService) GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error) {
	rec, err := s.repo.GetSummary(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get summary", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve summary")
	}
	if rec == nil {
		return nil, utils.NewNotFoundError("Summary not found")
	}
	return rec, nil
}

func (s *summaryService) ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error) {
	recs, err := s.repo.ListSummaries(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list summaries", "error", err)
		return nil, utils.NewInternalError("Failed to list summaries")
	}
	return recs, nil
}

// isDOCXContentType checks if the content type is a DOCX file
// Handles various DOCX MIME type variations
func isDOCXContentType(contentType string) bool {
	docxTypes := []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.wordprocessingml",
		"application/docx",
		"application/x-docx",
	}

	for _, docxType := range docxTypes {
		if contentType == docxType {
			return true
		}
	}

	return false
}

func isTextContentType(contentType string) bool {
	switch contentType {
	case "text/plain", "text/txt", "application/txt", "application/x-txt", "text/markdown":
		return true
	}
	return false
}

package services

import (
	"context"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/analyzer"
	"github.com/Ductam7415vn/SumUp-sub002/internal/exporter"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/repository"
	"github.com/Ductam7415vn/SumUp-sub002/internal/storage"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

type SummaryService interface {
	Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryRecord, error)
	SummarizeDocument(ctx context.Context, req *models.UploadRequest) (*models.SummaryRecord, error)
	Import(ctx context.Context, s *models.Summary) (*models.SummaryRecord, error)
	GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error)
	ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error)

	Export(ctx context.Context, summaryID string, req *models.ExportRequest) (*models.ExportResponse, error)
	ListExports(ctx context.Context, summaryID string) ([]models.ExportRecord, error)
	GetExportFile(ctx context.Context, id string) (*models.ExportRecord, error)
	PreviewExport(ctx context.Context, id string) (*models.PreviewResponse, error)
}

type Options struct {
	ExportTimeout time.Duration
	MaxTextLength int
}

type summaryService struct {
	repo       repository.Repository
	summarizer analyzer.Summarizer
	exporter   *exporter.Exporter
	sharer     storage.Backend
	opts       Options
	now        func() time.Time
	logger     *utils.Logger
}

// NewService wires the summary workflow. summarizer may be nil, in which
// case only imported summaries can be exported.
func NewService(
	repo repository.Repository,
	summarizer analyzer.Summarizer,
	exp *exporter.Exporter,
	sharer storage.Backend,
	opts Options,
	logger *utils.Logger,
) SummaryService {
	if opts.ExportTimeout <= 0 {
		opts.ExportTimeout = 30 * time.Second
	}
	if sharer == nil {
		sharer = storage.NewLocalSharer()
	}
	return &summaryService{
		repo:       repo,
		summarizer: summarizer,
		exporter:   exp,
		sharer:     sharer,
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
}

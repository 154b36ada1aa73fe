package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
)

type Repository interface {
	CreateSummary(ctx context.Context, rec *models.SummaryRecord) error
	GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error)
	ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error)

	CreateExport(ctx context.Context, rec *models.ExportRecord) error
	// CreateExports stores every record or none of them.
	CreateExports(ctx context.Context, recs []*models.ExportRecord) error
	GetExport(ctx context.Context, id string) (*models.ExportRecord, error)
	ListExports(ctx context.Context, summaryID string) ([]models.ExportRecord, error)
	ListExportsBefore(ctx context.Context, cutoff time.Time) ([]models.ExportRecord, error)
	DeleteExportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type summaryRow struct {
	ID        string `db:"id"`
	Persona   string `db:"persona"`
	Payload   string `db:"payload"`
	CreatedAt int64  `db:"created_at"`
}

func (row summaryRow) record() (*models.SummaryRecord, error) {
	rec := &models.SummaryRecord{
		ID:        row.ID,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Payload), &rec.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary %s: %w", row.ID, err)
	}
	return rec, nil
}

type exportRow struct {
	models.ExportRecord
	CreatedAt int64 `db:"created_at"`
}

func (row exportRow) record() models.ExportRecord {
	rec := row.ExportRecord
	rec.CreatedAt = time.UnixMilli(row.CreatedAt).UTC()
	return rec
}

const exportColumns = `id, summary_id, format, filename, path, mime_type, size, pages, share_url, created_at`

func (r *repository) CreateSummary(ctx context.Context, rec *models.SummaryRecord) error {
	payload, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	query := `
		INSERT INTO summaries (id, persona, payload, created_at)
		VALUES (:id, :persona, :payload, :created_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, summaryRow{
		ID:        rec.ID,
		Persona:   string(rec.Summary.Persona),
		Payload:   string(payload),
		CreatedAt: rec.CreatedAt.UnixMilli(),
	})

	return err
}

func (r *repository) GetSummary(ctx context.Context, id string) (*models.SummaryRecord, error) {
	var row summaryRow

	query := `SELECT id, persona, payload, created_at FROM summaries WHERE id = ?`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return row.record()
}

func (r *repository) ListSummaries(ctx context.Context, limit int) ([]models.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []summaryRow
	query := `
		SELECT id, persona, payload, created_at
		FROM summaries
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, err
	}

	records := make([]models.SummaryRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

const insertExport = `
	INSERT INTO exports (` + exportColumns + `)
	VALUES (:id, :summary_id, :format, :filename, :path, :mime_type, :size, :pages, :share_url, :created_at)
`

func (r *repository) CreateExport(ctx context.Context, rec *models.ExportRecord) error {
	return r.CreateExports(ctx, []*models.ExportRecord{rec})
}

func (r *repository) CreateExports(ctx context.Context, recs []*models.ExportRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range recs {
		_, err := tx.NamedExecContext(ctx, insertExport, exportRow{
			ExportRecord: *rec,
			CreatedAt:    rec.CreatedAt.UnixMilli(),
		})
		if err != nil {
			return fmt.Errorf("failed to insert export %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

func (r *repository) GetExport(ctx context.Context, id string) (*models.ExportRecord, error) {
	var row exportRow

	query := `SELECT ` + exportColumns + ` FROM exports WHERE id = ?`

	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := row.record()
	return &rec, nil
}

func (r *repository) ListExports(ctx context.Context, summaryID string) ([]models.ExportRecord, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE summary_id = ? ORDER BY created_at, id`
	return r.selectExports(ctx, query, summaryID)
}

func (r *repository) ListExportsBefore(ctx context.Context, cutoff time.Time) ([]models.ExportRecord, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE created_at < ? ORDER BY created_at, id`
	return r.selectExports(ctx, query, cutoff.UnixMilli())
}

func (r *repository) DeleteExportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exports WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) selectExports(ctx context.Context, query string, args ...any) ([]models.ExportRecord, error) {
	var rows []exportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	records := make([]models.ExportRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/sqlite"
)

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{db: db, logger: logger}
}

const reportColumns = `id, tracking_code, asset_id, type, status, description,
	images, reporter_name, reporter_email, reject_reason, created_at, updated_at`

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	query := `
		INSERT INTO reports (
			tracking_code, asset_id, type, status, description,
			images, reporter_name, reporter_email
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		report.TrackingCode,
		report.AssetID,
		report.Type,
		report.Status,
		report.Description,
		marshalImages(report.Images),
		report.ReporterName,
		report.ReporterEmail,
	)
	if err != nil {
		r.logger.Error("Failed to create report", zap.Error(err))
		return fmt.Errorf("create report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	report.ID = id
	return nil
}

// GetByID retrieves a report by ID, nil when absent
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

// GetByTrackingCode retrieves a report by its public tracking code
func (r *ReportRepository) GetByTrackingCode(ctx context.Context, code string) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE tracking_code = ?`
	return r.scanOne(ctx, query, code)
}

// UpdateStatusFrom updates the status of a report only while it still holds
// the expected current status. The guard in the WHERE clause is what
// serializes concurrent approvals: whichever caller commits first flips the
// row, everyone else sees zero affected rows.
func (r *ReportRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	query := `UPDATE reports SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update report status", zap.Int64("id", id), zap.String("status", to), zap.Error(err))
		return false, fmt.Errorf("update report status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update report status: %w", err)
	}
	return affected > 0, nil
}

// SetRejectReason stores the rejection reason
func (r *ReportRepository) SetRejectReason(ctx context.Context, id int64, reason string) error {
	query := `UPDATE reports SET reject_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, reason, id); err != nil {
		r.logger.Error("Failed to set reject reason", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("set reject reason: %w", err)
	}
	return nil
}

// List retrieves reports with pagination, newest first
func (r *ReportRepository) List(ctx context.Context, limit, offset int) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.Error(err))
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

func (r *ReportRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.Report, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, arg)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get report", zap.Error(err))
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (*entity.Report, error) {
	var report entity.Report
	var images sql.NullString
	var reporterName, reporterEmail, rejectReason sql.NullString

	err := s.Scan(
		&report.ID,
		&report.TrackingCode,
		&report.AssetID,
		&report.Type,
		&report.Status,
		&report.Description,
		&images,
		&reporterName,
		&reporterEmail,
		&rejectReason,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	report.Images = unmarshalImages(images)
	report.ReporterName = reporterName.String
	report.ReporterEmail = reporterEmail.String
	report.RejectReason = rejectReason.String
	return &report, nil
}

// marshalImages stores image path lists as a JSON array column
func marshalImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalImages(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(raw.String), &images); err != nil {
		return nil
	}
	if len(images) == 0 {
		return nil
	}
	return images
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)

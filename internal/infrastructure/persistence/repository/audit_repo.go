package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/sqlite"
)

// AuditRepository implements port.AuditRepository
type AuditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB, logger *zap.Logger) port.AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

const auditColumns = `id, report_id, asset_id, subject, description, status,
	expires_at, cancel_reason, images, created_at, updated_at`

// Create inserts an audit together with its staff assignment rows. Callers
// run this inside the transaction that also flips the report status.
func (r *AuditRepository) Create(ctx context.Context, audit *entity.Audit) error {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	query := `
		INSERT INTO audits (
			report_id, asset_id, subject, description, status,
			expires_at, images
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := exec.ExecContext(ctx, query,
		audit.ReportID,
		audit.AssetID,
		audit.Subject,
		audit.Description,
		audit.Status,
		audit.ExpiresAt,
		marshalImages(audit.Images),
	)
	if err != nil {
		r.logger.Error("Failed to create audit", zap.Error(err))
		return fmt.Errorf("create audit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	audit.ID = id

	for _, staffID := range audit.StaffIDs {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO audit_staffs (audit_id, staff_id) VALUES (?, ?)`,
			audit.ID, staffID,
		); err != nil {
			r.logger.Error("Failed to assign staff", zap.Int64("audit_id", audit.ID), zap.Int64("staff_id", staffID), zap.Error(err))
			return fmt.Errorf("assign staff %d: %w", staffID, err)
		}
	}

	return nil
}

// GetByID retrieves an audit and its staff set, nil when absent
func (r *AuditRepository) GetByID(ctx context.Context, id int64) (*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE id = ?`
	return r.scanOne(ctx, query, id)
}

// GetByReportID retrieves the audit created from a report
func (r *AuditRepository) GetByReportID(ctx context.Context, reportID int64) (*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE report_id = ?`
	return r.scanOne(ctx, query, reportID)
}

// UpdateStatusFrom updates the status of an audit only while it still holds
// the expected current status. A zero affected-row count means another writer
// moved the audit first.
func (r *AuditRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	query := `UPDATE audits SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update audit status", zap.Int64("id", id), zap.String("status", to), zap.Error(err))
		return false, fmt.Errorf("update audit status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update audit status: %w", err)
	}
	return affected > 0, nil
}

// SetCancelReason stores the cancellation reason
func (r *AuditRepository) SetCancelReason(ctx context.Context, id int64, reason string) error {
	query := `UPDATE audits SET cancel_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, reason, id); err != nil {
		r.logger.Error("Failed to set cancel reason", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("set cancel reason: %w", err)
	}
	return nil
}

// List retrieves audits with pagination, newest first
func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.scanMany(ctx, query, limit, offset)
}

// ListExpiredBefore returns non-terminal audits whose deadline passed the cutoff
func (r *AuditRepository) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*entity.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits
		WHERE status NOT IN (?, ?) AND expires_at < ?
		ORDER BY expires_at ASC`
	return r.scanMany(ctx, query, entity.AuditStatusCompleted, entity.AuditStatusCancelled, cutoff)
}

func (r *AuditRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Audit, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list audits", zap.Error(err))
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var audits []*entity.Audit
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, audit := range audits {
		if err := r.loadStaff(ctx, audit); err != nil {
			return nil, err
		}
	}
	return audits, nil
}

func (r *AuditRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.Audit, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, arg)

	audit, err := scanAudit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get audit", zap.Error(err))
		return nil, fmt.Errorf("get audit: %w", err)
	}

	if err := r.loadStaff(ctx, audit); err != nil {
		return nil, err
	}
	return audit, nil
}

func (r *AuditRepository) loadStaff(ctx context.Context, audit *entity.Audit) error {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT staff_id FROM audit_staffs WHERE audit_id = ? ORDER BY staff_id`, audit.ID)
	if err != nil {
		return fmt.Errorf("load audit staff: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID int64
		if err := rows.Scan(&staffID); err != nil {
			return fmt.Errorf("scan staff id: %w", err)
		}
		audit.StaffIDs = append(audit.StaffIDs, staffID)
	}
	return rows.Err()
}

func scanAudit(s scanner) (*entity.Audit, error) {
	var audit entity.Audit
	var reportID, assetID sql.NullInt64
	var description, cancelReason sql.NullString
	var images sql.NullString

	err := s.Scan(
		&audit.ID,
		&reportID,
		&assetID,
		&audit.Subject,
		&description,
		&audit.Status,
		&audit.ExpiresAt,
		&cancelReason,
		&images,
		&audit.CreatedAt,
		&audit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reportID.Valid {
		audit.ReportID = &reportID.Int64
	}
	if assetID.Valid {
		audit.AssetID = &assetID.Int64
	}
	audit.Description = description.String
	audit.CancelReason = cancelReason.String
	audit.Images = unmarshalImages(images)
	return &audit, nil
}

// Verify interface compliance
var _ port.AuditRepository = (*AuditRepository)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.AuditHistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new audit history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.AuditHistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// Create inserts one status-change record
func (r *HistoryRepository) Create(ctx context.Context, history *entity.AuditStatusHistory) error {
	query := `
		INSERT INTO audit_status_history (
			audit_id, previous_status, new_status, actor, note, timestamp
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		history.AuditID,
		history.PreviousStatus,
		history.NewStatus,
		history.Actor,
		history.Note,
		history.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history entry", zap.Int64("audit_id", history.AuditID), zap.Error(err))
		return fmt.Errorf("create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	history.ID = id
	return nil
}

// GetByAuditID returns the status trail of an audit in chronological order
func (r *HistoryRepository) GetByAuditID(ctx context.Context, auditID int64) ([]*entity.AuditStatusHistory, error) {
	query := `
		SELECT id, audit_id, previous_status, new_status, actor, note, timestamp
		FROM audit_status_history
		WHERE audit_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, auditID)
	if err != nil {
		r.logger.Error("Failed to get history", zap.Int64("audit_id", auditID), zap.Error(err))
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditStatusHistory
	for rows.Next() {
		var h entity.AuditStatusHistory
		var previous, actor, note sql.NullString

		err := rows.Scan(&h.ID, &h.AuditID, &previous, &h.NewStatus, &actor, &note, &h.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		h.PreviousStatus = previous.String
		h.Actor = actor.String
		h.Note = note.String
		entries = append(entries, &h)
	}

	return entries, rows.Err()
}

// Verify interface compliance
var _ port.AuditHistoryRepository = (*HistoryRepository)(nil)

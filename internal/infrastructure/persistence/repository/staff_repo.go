package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/infrastructure/persistence/sqlite"
)

// StaffRepository implements port.StaffRepository
type StaffRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *sql.DB, logger *zap.Logger) port.StaffRepository {
	return &StaffRepository{db: db, logger: logger}
}

// GetByID retrieves a staff account by ID, nil when absent
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*entity.Staff, error) {
	query := `SELECT id, name, email, active FROM staffs WHERE id = ?`

	var staff entity.Staff
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&staff.ID, &staff.Name, &staff.Email, &staff.Active,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get staff", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &staff, nil
}

// GetByIDs retrieves the staff accounts matching the ids. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func (r *StaffRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT id, name, email, active FROM staffs WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to get staff by ids", zap.Error(err))
		return nil, fmt.Errorf("get staff by ids: %w", err)
	}
	defer rows.Close()

	return scanStaffRows(rows)
}

// ListActive returns every active staff account
func (r *StaffRepository) ListActive(ctx context.Context) ([]*entity.Staff, error) {
	query := `SELECT id, name, email, active FROM staffs WHERE active = 1 ORDER BY id`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active staff", zap.Error(err))
		return nil, fmt.Errorf("list active staff: %w", err)
	}
	defer rows.Close()

	return scanStaffRows(rows)
}

// ListAssignments loads the staff-location relation and groups it per staff.
// The relation is the authority on ownership; nothing is denormalized onto
// the staff rows themselves.
func (r *StaffRepository) ListAssignments(ctx context.Context) ([]entity.StaffAssignment, error) {
	query := `SELECT staff_id, node_type, node_id FROM staff_locations ORDER BY staff_id, node_type, node_id`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list staff assignments", zap.Error(err))
		return nil, fmt.Errorf("list staff assignments: %w", err)
	}
	defer rows.Close()

	byStaff := make(map[int64]*entity.StaffAssignment)
	var order []int64

	for rows.Next() {
		var staffID, nodeID int64
		var nodeType string
		if err := rows.Scan(&staffID, &nodeType, &nodeID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}

		sa, ok := byStaff[staffID]
		if !ok {
			sa = &entity.StaffAssignment{StaffID: staffID}
			byStaff[staffID] = sa
			order = append(order, staffID)
		}

		switch nodeType {
		case entity.NodeTypeCampus:
			id := nodeID
			sa.CampusID = &id
		case entity.NodeTypeBuilding:
			sa.BuildingIDs = append(sa.BuildingIDs, nodeID)
		case entity.NodeTypeZone:
			sa.ZoneIDs = append(sa.ZoneIDs, nodeID)
		case entity.NodeTypeArea:
			sa.AreaIDs = append(sa.AreaIDs, nodeID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assignments := make([]entity.StaffAssignment, 0, len(order))
	for _, staffID := range order {
		assignments = append(assignments, *byStaff[staffID])
	}
	return assignments, nil
}

func scanStaffRows(rows *sql.Rows) ([]*entity.Staff, error) {
	var staffs []*entity.Staff
	for rows.Next() {
		var staff entity.Staff
		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Email, &staff.Active); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		staffs = append(staffs, &staff)
	}
	return staffs, rows.Err()
}

// Verify interface compliance
var _ port.StaffRepository = (*StaffRepository)(nil)

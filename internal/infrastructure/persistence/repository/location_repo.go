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

// LocationRepository implements port.LocationRepository
type LocationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB, logger *zap.Logger) port.LocationRepository {
	return &LocationRepository{db: db, logger: logger}
}

// GetZone retrieves a zone by ID, nil when absent
func (r *LocationRepository) GetZone(ctx context.Context, id int64) (*entity.Zone, error) {
	query := `SELECT id, building_id, floor, name FROM zones WHERE id = ?`

	var zone entity.Zone
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&zone.ID, &zone.BuildingID, &zone.Floor, &zone.Name,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get zone", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get zone: %w", err)
	}
	return &zone, nil
}

// GetBuilding retrieves a building by ID, nil when absent
func (r *LocationRepository) GetBuilding(ctx context.Context, id int64) (*entity.Building, error) {
	query := `SELECT id, campus_id, name FROM buildings WHERE id = ?`

	var building entity.Building
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&building.ID, &building.CampusID, &building.Name,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get building", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get building: %w", err)
	}
	return &building, nil
}

// GetArea retrieves an outdoor area by ID, nil when absent
func (r *LocationRepository) GetArea(ctx context.Context, id int64) (*entity.Area, error) {
	query := `SELECT id, campus_id, name FROM areas WHERE id = ?`

	var area entity.Area
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&area.ID, &area.CampusID, &area.Name,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get area", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get area: %w", err)
	}
	return &area, nil
}

// GetCampus retrieves a campus by ID, nil when absent
func (r *LocationRepository) GetCampus(ctx context.Context, id int64) (*entity.Campus, error) {
	query := `SELECT id, name FROM campuses WHERE id = ?`

	var campus entity.Campus
	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&campus.ID, &campus.Name,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get campus", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get campus: %w", err)
	}
	return &campus, nil
}

// Verify interface compliance
var _ port.LocationRepository = (*LocationRepository)(nil)

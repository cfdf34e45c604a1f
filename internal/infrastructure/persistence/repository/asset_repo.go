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

// AssetRepository implements port.AssetRepository
type AssetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sql.DB, logger *zap.Logger) port.AssetRepository {
	return &AssetRepository{db: db, logger: logger}
}

// GetByID retrieves an asset by ID, nil when absent
func (r *AssetRepository) GetByID(ctx context.Context, id int64) (*entity.Asset, error) {
	query := `SELECT id, name, zone_id, area_id FROM assets WHERE id = ?`

	var asset entity.Asset
	var zoneID, areaID sql.NullInt64

	err := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Name,
		&zoneID,
		&areaID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get asset", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get asset: %w", err)
	}

	if zoneID.Valid {
		asset.ZoneID = &zoneID.Int64
	}
	if areaID.Valid {
		asset.AreaID = &areaID.Int64
	}
	return &asset, nil
}

// Verify interface compliance
var _ port.AssetRepository = (*AssetRepository)(nil)

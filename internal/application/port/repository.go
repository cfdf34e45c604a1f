package port

import (
	"context"
	"time"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// ReportRepository defines persistence operations for Report.
// UpdateStatusFrom only applies the change while the row still holds the
// expected status and reports whether a row was touched; callers use the
// false return to detect a transition they lost to a concurrent writer.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id int64) (*entity.Report, error)
	GetByTrackingCode(ctx context.Context, code string) (*entity.Report, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
	SetRejectReason(ctx context.Context, id int64, reason string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Report, error)
}

// AuditRepository defines persistence operations for Audit. Create persists
// the audit together with its staff assignment rows.
type AuditRepository interface {
	Create(ctx context.Context, audit *entity.Audit) error
	GetByID(ctx context.Context, id int64) (*entity.Audit, error)
	GetByReportID(ctx context.Context, reportID int64) (*entity.Audit, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error)
	SetCancelReason(ctx context.Context, id int64, reason string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Audit, error)
	ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*entity.Audit, error)
}

// AuditHistoryRepository defines persistence operations for the audit status
// trail. History rows are written in the same transaction as the status change.
type AuditHistoryRepository interface {
	Create(ctx context.Context, history *entity.AuditStatusHistory) error
	GetByAuditID(ctx context.Context, auditID int64) ([]*entity.AuditStatusHistory, error)
}

// AssetRepository defines read operations for Asset
type AssetRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Asset, error)
}

// StaffRepository defines read operations for Staff and the staff-location
// assignment relation
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Staff, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Staff, error)
	ListActive(ctx context.Context) ([]*entity.Staff, error)
	ListAssignments(ctx context.Context) ([]entity.StaffAssignment, error)
}

// LocationRepository defines read operations for location nodes
type LocationRepository interface {
	GetZone(ctx context.Context, id int64) (*entity.Zone, error)
	GetBuilding(ctx context.Context, id int64) (*entity.Building, error)
	GetArea(ctx context.Context, id int64) (*entity.Area, error)
	GetCampus(ctx context.Context, id int64) (*entity.Campus, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

func auditRows(audits ...*entity.Audit) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "report_id", "asset_id", "subject", "description", "status",
		"expires_at", "cancel_reason", "images", "created_at", "updated_at",
	})
	for _, a := range audits {
		rows.AddRow(a.ID, nullableID(a.ReportID), nullableID(a.AssetID), a.Subject,
			a.Description, a.Status, a.ExpiresAt, nil, `[]`, a.CreatedAt, a.UpdatedAt)
	}
	return rows
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func TestAuditRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	reportID := int64(7)
	assetID := int64(100)
	expires := time.Now().AddDate(0, 0, 7)

	mock.ExpectExec("INSERT INTO audits").
		WithArgs(reportID, assetID, "Inspect leaking AC", "check condenser",
			entity.AuditStatusPending, expires, `[]`).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO audit_staffs").
		WithArgs(int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audit_staffs").
		WithArgs(int64(3), int64(2)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	repo := NewAuditRepository(db, zap.NewNop())
	audit := &entity.Audit{
		ReportID:    &reportID,
		AssetID:     &assetID,
		Subject:     "Inspect leaking AC",
		Description: "check condenser",
		Status:      entity.AuditStatusPending,
		ExpiresAt:   expires,
		StaffIDs:    []int64{1, 2},
	}

	if err := repo.Create(context.Background(), audit); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if audit.ID != 3 {
		t.Errorf("audit.ID = %d, want 3", audit.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	reportID := int64(7)
	assetID := int64(100)
	mock.ExpectQuery("SELECT (.+) FROM audits WHERE id = ?").
		WithArgs(int64(3)).
		WillReturnRows(auditRows(&entity.Audit{
			ID:        3,
			ReportID:  &reportID,
			AssetID:   &assetID,
			Subject:   "Inspect leaking AC",
			Status:    entity.AuditStatusPending,
			ExpiresAt: now.AddDate(0, 0, 7),
			CreatedAt: now,
			UpdatedAt: now,
		}))
	mock.ExpectQuery("SELECT staff_id FROM audit_staffs").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id"}).AddRow(int64(1)).AddRow(int64(2)))

	repo := NewAuditRepository(db, zap.NewNop())
	audit, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if audit == nil {
		t.Fatal("GetByID returned nil")
	}
	if audit.ReportID == nil || *audit.ReportID != 7 {
		t.Errorf("report id = %v, want 7", audit.ReportID)
	}
	if len(audit.StaffIDs) != 2 || audit.StaffIDs[0] != 1 || audit.StaffIDs[1] != 2 {
		t.Errorf("staff ids = %v, want [1 2]", audit.StaffIDs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM audits WHERE id = ?").
		WithArgs(int64(99)).
		WillReturnRows(auditRows())

	repo := NewAuditRepository(db, zap.NewNop())
	audit, err := repo.GetByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if audit != nil {
		t.Errorf("expected nil for missing audit, got %+v", audit)
	}
}

func TestAuditRepository_ListExpiredBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	cutoff := now.Add(time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM audits").
		WithArgs(entity.AuditStatusCompleted, entity.AuditStatusCancelled, cutoff).
		WillReturnRows(auditRows(&entity.Audit{
			ID:        4,
			Subject:   "Inspect projector",
			Status:    entity.AuditStatusInProgress,
			ExpiresAt: now.Add(-time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}))
	mock.ExpectQuery("SELECT staff_id FROM audit_staffs").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"staff_id"}).AddRow(int64(5)))

	repo := NewAuditRepository(db, zap.NewNop())
	audits, err := repo.ListExpiredBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("ListExpiredBefore: %v", err)
	}
	if len(audits) != 1 {
		t.Fatalf("got %d audits, want 1", len(audits))
	}
	if audits[0].Status != entity.AuditStatusInProgress {
		t.Errorf("status = %s", audits[0].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_UpdateStatusFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE audits SET status .+ WHERE id = \\? AND status = \\?").
		WithArgs(entity.AuditStatusCancelled, int64(3), entity.AuditStatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewAuditRepository(db, zap.NewNop())
	moved, err := repo.UpdateStatusFrom(context.Background(), 3, entity.AuditStatusInProgress, entity.AuditStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatusFrom: %v", err)
	}
	if !moved {
		t.Fatal("expected the row to be updated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_UpdateStatusFromStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The audit completed first; cancelling the snapshot must not overwrite it
	mock.ExpectExec("UPDATE audits SET status").
		WithArgs(entity.AuditStatusCancelled, int64(3), entity.AuditStatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewAuditRepository(db, zap.NewNop())
	moved, err := repo.UpdateStatusFrom(context.Background(), 3, entity.AuditStatusInProgress, entity.AuditStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateStatusFrom: %v", err)
	}
	if moved {
		t.Fatal("stale update must not report success")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

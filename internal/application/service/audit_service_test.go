package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/workflow"
)

type auditFixture struct {
	svc       AuditService
	auditRepo *mockAuditRepo
	history   *mockHistoryRepo
	notifier  *mockNotifier
	exporter  *mockExporter
}

func newAuditFixture(audits ...*entity.Audit) *auditFixture {
	auditRepo := newMockAuditRepo(audits...)
	history := &mockHistoryRepo{}
	notifier := &mockNotifier{}
	exporter := &mockExporter{}
	assetRepo := &mockAssetRepo{assets: map[int64]*entity.Asset{
		100: {ID: 100, Name: "Projector", ZoneID: int64Ptr(10)},
	}}
	staffRepo := &mockStaffRepo{staffs: map[int64]*entity.Staff{
		1: {ID: 1, Name: "S1", Email: "s1@iuh.edu.vn", Active: true},
		2: {ID: 2, Name: "S2", Email: "s2@iuh.edu.vn", Active: true},
	}}
	tx := &mockTxManager{auditRepo: auditRepo}

	svc := NewAuditService(auditRepo, history, assetRepo, staffRepo, tx, notifier, exporter, noopLogger{})
	return &auditFixture{svc: svc, auditRepo: auditRepo, history: history, notifier: notifier, exporter: exporter}
}

func pendingAudit(id int64) *entity.Audit {
	return &entity.Audit{
		ID:        id,
		AssetID:   int64Ptr(100),
		Subject:   "Check projector",
		Status:    entity.AuditStatusPending,
		StaffIDs:  []int64{1},
		ExpiresAt: time.Now().AddDate(0, 0, 7),
		CreatedAt: time.Now(),
	}
}

func TestAuditService_CreateDirect(t *testing.T) {
	f := newAuditFixture()

	audit, err := f.svc.CreateDirect(context.Background(), CreateDirectInput{
		AssetID:        100,
		Subject:        "Replace projector bulb",
		StaffIDs:       []int64{1, 2},
		ExpirationDays: 3,
		Actor:          "admin",
	})
	require.NoError(t, err)

	assert.Nil(t, audit.ReportID, "direct audit has no report reference")
	require.NotNil(t, audit.AssetID)
	assert.Equal(t, int64(100), *audit.AssetID)
	assert.Equal(t, entity.AuditStatusPending, audit.Status)
	assert.Equal(t, 1, f.notifier.assigned)
	assert.Len(t, f.history.entries, 1)
}

func TestAuditService_CreateDirectValidation(t *testing.T) {
	f := newAuditFixture()

	tests := []struct {
		name    string
		input   CreateDirectInput
		wantErr error
	}{
		{"missing asset", CreateDirectInput{AssetID: 999, Subject: "Fix the pump", StaffIDs: []int64{1}, ExpirationDays: 3}, ErrNotFound},
		{"short subject", CreateDirectInput{AssetID: 100, Subject: "Fix", StaffIDs: []int64{1}, ExpirationDays: 3}, ErrValidation},
		{"no staff", CreateDirectInput{AssetID: 100, Subject: "Fix the pump", ExpirationDays: 3}, ErrValidation},
		{"bad days", CreateDirectInput{AssetID: 100, Subject: "Fix the pump", StaffIDs: []int64{1}, ExpirationDays: -1}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateDirect(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.auditRepo.audits)
}

func TestAuditService_UpdateStatus(t *testing.T) {
	f := newAuditFixture(pendingAudit(1))

	audit, err := f.svc.UpdateStatus(context.Background(), 1, entity.AuditStatusInProgress, "staff1")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusInProgress, audit.Status)

	audit, err = f.svc.UpdateStatus(context.Background(), 1, entity.AuditStatusCompleted, "staff1")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCompleted, audit.Status)

	require.Len(t, f.history.entries, 2)
	assert.Equal(t, entity.AuditStatusPending, f.history.entries[0].PreviousStatus)
	assert.Equal(t, entity.AuditStatusInProgress, f.history.entries[1].PreviousStatus)
}

func TestAuditService_UpdateStatusInvalidEdges(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		requested string
	}{
		{"skip in_progress", entity.AuditStatusPending, entity.AuditStatusCompleted},
		{"cancel via update", entity.AuditStatusPending, entity.AuditStatusCancelled},
		{"backwards", entity.AuditStatusInProgress, entity.AuditStatusPending},
		{"from completed", entity.AuditStatusCompleted, entity.AuditStatusInProgress},
		{"from cancelled", entity.AuditStatusCancelled, entity.AuditStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := pendingAudit(1)
			audit.Status = tt.current
			f := newAuditFixture(audit)

			_, err := f.svc.UpdateStatus(context.Background(), 1, tt.requested, "staff1")
			require.ErrorIs(t, err, workflow.ErrInvalidTransition)

			stored, _ := f.auditRepo.GetByID(context.Background(), 1)
			assert.Equal(t, tt.current, stored.Status, "status must be unchanged")
		})
	}
}

func TestAuditService_Cancel(t *testing.T) {
	for _, current := range []string{entity.AuditStatusPending, entity.AuditStatusInProgress} {
		t.Run(current, func(t *testing.T) {
			audit := pendingAudit(1)
			audit.Status = current
			f := newAuditFixture(audit)

			got, err := f.svc.Cancel(context.Background(), 1, "duplicate ticket", "admin")
			require.NoError(t, err)

			assert.Equal(t, entity.AuditStatusCancelled, got.Status)
			assert.Equal(t, "duplicate ticket", got.CancelReason)
			assert.Equal(t, 1, f.notifier.cancelled)
		})
	}
}

func TestAuditService_CancelReasonBounds(t *testing.T) {
	tests := []struct {
		name   string
		reason string
	}{
		{"too short", "dup"},
		{"whitespace padding only", "  dup "},
		{"too long", strings.Repeat("x", 501)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuditFixture(pendingAudit(1))

			_, err := f.svc.Cancel(context.Background(), 1, tt.reason, "admin")
			require.ErrorIs(t, err, ErrValidation)

			stored, _ := f.auditRepo.GetByID(context.Background(), 1)
			assert.Equal(t, entity.AuditStatusPending, stored.Status)
			assert.Empty(t, stored.CancelReason)
		})
	}
}

func TestAuditService_CancelReasonCountsCharacters(t *testing.T) {
	// "Tạm" is 5 bytes but only 3 characters; it must not satisfy the
	// 5-character minimum. A 5-character Vietnamese reason must.
	f := newAuditFixture(pendingAudit(1))

	_, err := f.svc.Cancel(context.Background(), 1, "Tạm", "admin")
	require.ErrorIs(t, err, ErrValidation)

	stored, _ := f.auditRepo.GetByID(context.Background(), 1)
	assert.Equal(t, entity.AuditStatusPending, stored.Status)

	got, err := f.svc.Cancel(context.Background(), 1, "Tạm dừng", "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCancelled, got.Status)
}

func TestAuditService_CancelLosesRaceToComplete(t *testing.T) {
	audit := pendingAudit(1)
	audit.Status = entity.AuditStatusInProgress
	f := newAuditFixture(audit)

	// The assignee completes the audit between our read and our write. The
	// guarded update must refuse to overwrite the terminal state.
	f.auditRepo.afterGet = func() {
		f.auditRepo.afterGet = nil
		f.auditRepo.audits[1].Status = entity.AuditStatusCompleted
	}

	_, err := f.svc.Cancel(context.Background(), 1, "duplicate ticket", "admin")
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	stored, _ := f.auditRepo.GetByID(context.Background(), 1)
	assert.Equal(t, entity.AuditStatusCompleted, stored.Status)
	assert.Zero(t, f.notifier.cancelled)
}

func TestAuditService_CreateDirectWithoutNotifier(t *testing.T) {
	auditRepo := newMockAuditRepo()
	assetRepo := &mockAssetRepo{assets: map[int64]*entity.Asset{
		100: {ID: 100, Name: "Projector", ZoneID: int64Ptr(10)},
	}}
	staffRepo := &mockStaffRepo{staffs: map[int64]*entity.Staff{
		1: {ID: 1, Name: "S1", Email: "s1@iuh.edu.vn", Active: true},
	}}
	tx := &mockTxManager{auditRepo: auditRepo}

	svc := NewAuditService(auditRepo, &mockHistoryRepo{}, assetRepo, staffRepo, tx, nil, &mockExporter{}, noopLogger{})

	audit, err := svc.CreateDirect(context.Background(), CreateDirectInput{
		AssetID: 100, Subject: "Replace projector bulb", StaffIDs: []int64{1}, ExpirationDays: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusPending, audit.Status)

	got, err := svc.Cancel(context.Background(), audit.ID, "ordered the wrong bulb", "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCancelled, got.Status)
}

func TestAuditService_CancelTerminal(t *testing.T) {
	for _, current := range []string{entity.AuditStatusCompleted, entity.AuditStatusCancelled} {
		t.Run(current, func(t *testing.T) {
			audit := pendingAudit(1)
			audit.Status = current
			f := newAuditFixture(audit)

			_, err := f.svc.Cancel(context.Background(), 1, "changed our mind", "admin")
			assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
		})
	}
}

func TestAuditService_IsOverdue(t *testing.T) {
	expired := pendingAudit(1)
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	done := pendingAudit(2)
	done.Status = entity.AuditStatusCompleted
	done.ExpiresAt = time.Now().Add(-time.Hour)

	f := newAuditFixture(expired, done)

	overdue, err := f.svc.IsOverdue(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, overdue)

	overdue, err = f.svc.IsOverdue(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, overdue, "completed audits are never overdue")

	list, err := f.svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
}

func TestAuditService_ExportSummary(t *testing.T) {
	expired := pendingAudit(1)
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	f := newAuditFixture(expired)

	path, err := f.svc.ExportSummary(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	require.Len(t, f.exporter.rows, 1)
	assert.True(t, f.exporter.rows[0].Overdue)
	assert.Equal(t, []string{"S1"}, f.exporter.rows[0].StaffNames)
}

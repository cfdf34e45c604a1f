package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

type noopLogger struct{}

func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockReportRepo keeps reports in memory keyed by id. afterGet, when set,
// runs after every GetByID so tests can interleave a concurrent writer
// between a service's read and its guarded update.
type mockReportRepo struct {
	reports    map[int64]*entity.Report
	nextID     int64
	createErr  error
	updateErr  error
	statusLog  []string
	reasonByID map[int64]string
	afterGet   func()
}

func newMockReportRepo(reports ...*entity.Report) *mockReportRepo {
	m := &mockReportRepo{
		reports:    make(map[int64]*entity.Report),
		nextID:     1,
		reasonByID: make(map[int64]string),
	}
	for _, r := range reports {
		m.reports[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *mockReportRepo) Create(ctx context.Context, report *entity.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	report.ID = m.nextID
	m.nextID++
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id int64) (*entity.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *mockReportRepo) GetByTrackingCode(ctx context.Context, code string) (*entity.Report, error) {
	for _, r := range m.reports {
		if r.TrackingCode == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockReportRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	r, ok := m.reports[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	m.statusLog = append(m.statusLog, to)
	return true, nil
}

func (m *mockReportRepo) SetRejectReason(ctx context.Context, id int64, reason string) error {
	m.reasonByID[id] = reason
	m.reports[id].RejectReason = reason
	return nil
}

func (m *mockReportRepo) List(ctx context.Context, limit, offset int) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, nil
}

// mockAuditRepo keeps audits in memory keyed by id
type mockAuditRepo struct {
	audits    map[int64]*entity.Audit
	nextID    int64
	createErr error
	afterGet  func()
}

func newMockAuditRepo(audits ...*entity.Audit) *mockAuditRepo {
	m := &mockAuditRepo{audits: make(map[int64]*entity.Audit), nextID: 1}
	for _, a := range audits {
		m.audits[a.ID] = a
		if a.ID >= m.nextID {
			m.nextID = a.ID + 1
		}
	}
	return m
}

func (m *mockAuditRepo) Create(ctx context.Context, audit *entity.Audit) error {
	if m.createErr != nil {
		return m.createErr
	}
	audit.ID = m.nextID
	m.nextID++
	cp := *audit
	m.audits[audit.ID] = &cp
	return nil
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id int64) (*entity.Audit, error) {
	a, ok := m.audits[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	if m.afterGet != nil {
		m.afterGet()
	}
	return &cp, nil
}

func (m *mockAuditRepo) GetByReportID(ctx context.Context, reportID int64) (*entity.Audit, error) {
	for _, a := range m.audits {
		if a.ReportID != nil && *a.ReportID == reportID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAuditRepo) UpdateStatusFrom(ctx context.Context, id int64, from, to string) (bool, error) {
	a, ok := m.audits[id]
	if !ok {
		return false, fmt.Errorf("audit %d not found", id)
	}
	if a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (m *mockAuditRepo) SetCancelReason(ctx context.Context, id int64, reason string) error {
	m.audits[id].CancelReason = reason
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	var out []*entity.Audit
	for _, a := range m.audits {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAuditRepo) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*entity.Audit, error) {
	var out []*entity.Audit
	for _, a := range m.audits {
		if !a.IsTerminal() && a.ExpiresAt.Before(cutoff) {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockHistoryRepo struct {
	entries   []*entity.AuditStatusHistory
	createErr error
}

func (m *mockHistoryRepo) Create(ctx context.Context, h *entity.AuditStatusHistory) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, h)
	return nil
}

func (m *mockHistoryRepo) GetByAuditID(ctx context.Context, auditID int64) ([]*entity.AuditStatusHistory, error) {
	var out []*entity.AuditStatusHistory
	for _, h := range m.entries {
		if h.AuditID == auditID {
			out = append(out, h)
		}
	}
	return out, nil
}

type mockAssetRepo struct {
	assets map[int64]*entity.Asset
}

func (m *mockAssetRepo) GetByID(ctx context.Context, id int64) (*entity.Asset, error) {
	return m.assets[id], nil
}

type mockStaffRepo struct {
	staffs      map[int64]*entity.Staff
	assignments []entity.StaffAssignment
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*entity.Staff, error) {
	return m.staffs[id], nil
}

func (m *mockStaffRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Staff, error) {
	var out []*entity.Staff
	for _, id := range ids {
		if st, ok := m.staffs[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) ListActive(ctx context.Context) ([]*entity.Staff, error) {
	var out []*entity.Staff
	for _, st := range m.staffs {
		if st.Active {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) ListAssignments(ctx context.Context) ([]entity.StaffAssignment, error) {
	return m.assignments, nil
}

type mockLocationRepo struct {
	zones     map[int64]*entity.Zone
	buildings map[int64]*entity.Building
	areas     map[int64]*entity.Area
	campuses  map[int64]*entity.Campus
}

func (m *mockLocationRepo) GetZone(ctx context.Context, id int64) (*entity.Zone, error) {
	return m.zones[id], nil
}

func (m *mockLocationRepo) GetBuilding(ctx context.Context, id int64) (*entity.Building, error) {
	return m.buildings[id], nil
}

func (m *mockLocationRepo) GetArea(ctx context.Context, id int64) (*entity.Area, error) {
	return m.areas[id], nil
}

func (m *mockLocationRepo) GetCampus(ctx context.Context, id int64) (*entity.Campus, error) {
	return m.campuses[id], nil
}

// mockTxManager executes the function directly. On failure it restores the
// report and audit stores it was given, imitating a rollback.
type mockTxManager struct {
	reportRepo *mockReportRepo
	auditRepo  *mockAuditRepo
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	var reportSnap map[int64]entity.Report
	var auditSnap map[int64]entity.Audit

	if m.reportRepo != nil {
		reportSnap = make(map[int64]entity.Report, len(m.reportRepo.reports))
		for id, r := range m.reportRepo.reports {
			reportSnap[id] = *r
		}
	}
	if m.auditRepo != nil {
		auditSnap = make(map[int64]entity.Audit, len(m.auditRepo.audits))
		for id, a := range m.auditRepo.audits {
			auditSnap[id] = *a
		}
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}

	if m.reportRepo != nil {
		m.reportRepo.reports = make(map[int64]*entity.Report, len(reportSnap))
		for id := range reportSnap {
			r := reportSnap[id]
			m.reportRepo.reports[id] = &r
		}
	}
	if m.auditRepo != nil {
		m.auditRepo.audits = make(map[int64]*entity.Audit, len(auditSnap))
		for id := range auditSnap {
			a := auditSnap[id]
			m.auditRepo.audits[id] = &a
		}
	}
	return err
}

type mockNotifier struct {
	assigned  int
	cancelled int
	rejected  int
	err       error
}

func (m *mockNotifier) NotifyAuditAssigned(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error {
	m.assigned++
	return m.err
}

func (m *mockNotifier) NotifyAuditCancelled(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error {
	m.cancelled++
	return m.err
}

func (m *mockNotifier) NotifyReportRejected(ctx context.Context, report *entity.Report) error {
	m.rejected++
	return m.err
}

type mockExporter struct {
	rows []port.ExportRow
	path string
}

func (m *mockExporter) Export(ctx context.Context, rows []port.ExportRow) (string, error) {
	m.rows = rows
	if m.path == "" {
		m.path = "exports/audit_summary.xlsx"
	}
	return m.path, nil
}

// Verify interface compliance
var (
	_ port.ReportRepository       = (*mockReportRepo)(nil)
	_ port.AuditRepository        = (*mockAuditRepo)(nil)
	_ port.AuditHistoryRepository = (*mockHistoryRepo)(nil)
	_ port.AssetRepository        = (*mockAssetRepo)(nil)
	_ port.StaffRepository        = (*mockStaffRepo)(nil)
	_ port.LocationRepository     = (*mockLocationRepo)(nil)
	_ port.TransactionManager     = (*mockTxManager)(nil)
	_ port.Notifier               = (*mockNotifier)(nil)
	_ port.AuditExporter          = (*mockExporter)(nil)
)

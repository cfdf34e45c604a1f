package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/expiration"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/workflow"
	"github.com/dinhchung2102/iuh-facility-management/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ReportService manages incident reports and the approval workflow
type ReportService interface {
	Create(ctx context.Context, input CreateReportInput) (*entity.Report, error)
	Get(ctx context.Context, id int64) (*entity.Report, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Report, error)
	Approve(ctx context.Context, input ApproveInput) (*entity.Audit, error)
	Reject(ctx context.Context, reportID int64, reason string) (*entity.Report, error)
	GetAdvice(ctx context.Context, reportID int64) (*port.ApprovalAdvice, error)
}

// CreateReportInput carries a report submission
type CreateReportInput struct {
	AssetID       int64
	Type          string
	Description   string
	Images        []string
	ReporterName  string
	ReporterEmail string
}

// ApproveInput carries the admin-confirmed approval form. Subject and
// ExpirationDays may have been pre-seeded by the AI advisory, but they arrive
// here as plain admin input and are validated as such.
type ApproveInput struct {
	ReportID       int64
	StaffIDs       []int64
	Subject        string
	Description    string
	ExpirationDays int
	Actor          string
}

type reportServiceImpl struct {
	reportRepo  port.ReportRepository
	auditRepo   port.AuditRepository
	historyRepo port.AuditHistoryRepository
	assetRepo   port.AssetRepository
	staffRepo   port.StaffRepository
	txManager   port.TransactionManager
	notifier    port.Notifier
	classifier  port.AdvisoryClassifier
	logger      Logger
}

// NewReportService creates a new ReportService. classifier may be nil when no
// AI advisory is configured.
func NewReportService(
	reportRepo port.ReportRepository,
	auditRepo port.AuditRepository,
	historyRepo port.AuditHistoryRepository,
	assetRepo port.AssetRepository,
	staffRepo port.StaffRepository,
	txManager port.TransactionManager,
	notifier port.Notifier,
	classifier port.AdvisoryClassifier,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo:  reportRepo,
		auditRepo:   auditRepo,
		historyRepo: historyRepo,
		assetRepo:   assetRepo,
		staffRepo:   staffRepo,
		txManager:   txManager,
		notifier:    notifier,
		classifier:  classifier,
		logger:      logger,
	}
}

// Create registers a new report in PENDING state
func (s *reportServiceImpl) Create(ctx context.Context, input CreateReportInput) (*entity.Report, error) {
	if !entity.ValidReportTypes[input.Type] {
		return nil, fmt.Errorf("%w: unknown report type %q", ErrValidation, input.Type)
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrValidation)
	}
	if input.ReporterEmail != "" {
		if err := utils.ValidateEmail(input.ReporterEmail); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	for _, img := range input.Images {
		if err := utils.ValidateImagePath(img); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	asset, err := s.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %d", ErrNotFound, input.AssetID)
	}

	now := time.Now()
	report := &entity.Report{
		TrackingCode:  uuid.NewString(),
		AssetID:       input.AssetID,
		Type:          input.Type,
		Status:        entity.ReportStatusPending,
		Description:   utils.SanitizeString(input.Description),
		Images:        input.Images,
		ReporterName:  input.ReporterName,
		ReporterEmail: input.ReporterEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.logger.Error("Failed to create report", "error", err, "asset_id", input.AssetID)
		return nil, err
	}

	s.logger.Info("Report created", "id", report.ID, "tracking_code", report.TrackingCode, "type", report.Type)
	return report, nil
}

// Get retrieves a report by ID
func (s *reportServiceImpl) Get(ctx context.Context, id int64) (*entity.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %d", ErrNotFound, id)
	}
	return report, nil
}

// List retrieves a paginated list of reports
func (s *reportServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Report, error) {
	return s.reportRepo.List(ctx, limit, offset)
}

// Approve transitions a PENDING report to APPROVED and atomically creates its
// audit. The report must never end up APPROVED without an audit or vice
// versa; a partial failure rolls back both writes.
func (s *reportServiceImpl) Approve(ctx context.Context, input ApproveInput) (*entity.Audit, error) {
	if err := validateSubject(input.Subject); err != nil {
		return nil, err
	}
	staffIDs := dedupeIDs(input.StaffIDs)
	if len(staffIDs) == 0 {
		return nil, fmt.Errorf("%w: staff set must not be empty", ErrValidation)
	}
	if input.ExpirationDays < 1 {
		return nil, fmt.Errorf("%w: expiration days must be at least 1", ErrValidation)
	}

	report, err := s.reportRepo.GetByID(ctx, input.ReportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %d", ErrNotFound, input.ReportID)
	}

	staffs, err := s.requireActiveStaff(ctx, staffIDs)
	if err != nil {
		return nil, err
	}

	// Validate the transition before touching anything
	machine := workflow.NewReportMachine(workflow.State(report.Status))
	if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt, err := expiration.ComputeExpiry(now, input.ExpirationDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	reportID := report.ID
	audit := &entity.Audit{
		ReportID:    &reportID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: input.Description,
		Status:      entity.AuditStatusPending,
		StaffIDs:    staffIDs,
		ExpiresAt:   expiresAt,
		Images:      report.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// The status guard is the serialization point: if a concurrent
		// approval or rejection won, the row is no longer PENDING and no
		// second audit may be created.
		moved, err := s.reportRepo.UpdateStatusFrom(txCtx, report.ID, entity.ReportStatusPending, entity.ReportStatusApproved)
		if err != nil {
			return fmt.Errorf("update report status: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: report %d is no longer pending", workflow.ErrInvalidTransition, report.ID)
		}

		if err := s.auditRepo.Create(txCtx, audit); err != nil {
			return fmt.Errorf("%w: create audit: %v", ErrConsistency, err)
		}

		history := &entity.AuditStatusHistory{
			AuditID:   audit.ID,
			NewStatus: entity.AuditStatusPending,
			Actor:     input.Actor,
			Note:      fmt.Sprintf("created from report %d", report.ID),
			Timestamp: now,
		}
		if err := s.historyRepo.Create(txCtx, history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to approve report", "error", err, "report_id", report.ID)
		return nil, err
	}

	s.logger.Info("Report approved",
		"report_id", report.ID,
		"audit_id", audit.ID,
		"staff_count", len(staffIDs),
		"expires_at", expiresAt,
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyAuditAssigned(ctx, audit, staffs); err != nil {
			// Delivery failure never blocks the approval
			s.logger.Error("Failed to notify assigned staff", "error", err, "audit_id", audit.ID)
		}
	}

	return audit, nil
}

// Reject transitions a PENDING report to REJECTED. No audit is created.
func (s *reportServiceImpl) Reject(ctx context.Context, reportID int64, reason string) (*entity.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || utf8.RuneCountInString(reason) > entity.RejectReasonMaxLen {
		return nil, fmt.Errorf("%w: reject reason must be 1-%d characters", ErrValidation, entity.RejectReasonMaxLen)
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %d", ErrNotFound, reportID)
	}

	machine := workflow.NewReportMachine(workflow.State(report.Status))
	if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		moved, err := s.reportRepo.UpdateStatusFrom(txCtx, report.ID, entity.ReportStatusPending, entity.ReportStatusRejected)
		if err != nil {
			return fmt.Errorf("update report status: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: report %d is no longer pending", workflow.ErrInvalidTransition, report.ID)
		}
		if err := s.reportRepo.SetRejectReason(txCtx, report.ID, reason); err != nil {
			return fmt.Errorf("set reject reason: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to reject report", "error", err, "report_id", report.ID)
		return nil, err
	}

	report.Status = entity.ReportStatusRejected
	report.RejectReason = reason

	s.logger.Info("Report rejected", "report_id", report.ID)

	if s.notifier != nil && report.ReporterEmail != "" {
		if err := s.notifier.NotifyReportRejected(ctx, report); err != nil {
			s.logger.Error("Failed to notify reporter", "error", err, "report_id", report.ID)
		}
	}

	return report, nil
}

// GetAdvice runs the AI classifier over a report and returns advisory
// pre-fill for the approval form. The result is never trusted: whatever the
// admin submits goes through full validation in Approve.
func (s *reportServiceImpl) GetAdvice(ctx context.Context, reportID int64) (*port.ApprovalAdvice, error) {
	if s.classifier == nil {
		return nil, ErrAdvisoryDisabled
	}

	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetByID(ctx, report.AssetID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}

	advice, err := s.classifier.Classify(ctx, report, asset)
	if err != nil {
		s.logger.Error("Advisory classification failed", "error", err, "report_id", reportID)
		return nil, err
	}

	s.logger.Info("Advisory classification completed",
		"report_id", reportID,
		"suggested_days", advice.SuggestedDays,
		"priority", advice.Priority,
	)
	return advice, nil
}

// requireActiveStaff resolves the ids and fails if any is missing or inactive
func (s *reportServiceImpl) requireActiveStaff(ctx context.Context, staffIDs []int64) ([]*entity.Staff, error) {
	staffs, err := s.staffRepo.GetByIDs(ctx, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}

	found := make(map[int64]*entity.Staff, len(staffs))
	for _, st := range staffs {
		found[st.ID] = st
	}

	resolved := make([]*entity.Staff, 0, len(staffIDs))
	for _, id := range staffIDs {
		st, ok := found[id]
		if !ok {
			return nil, fmt.Errorf("%w: staff %d", ErrNotFound, id)
		}
		if !st.Active {
			return nil, fmt.Errorf("%w: staff %d is not active", ErrValidation, id)
		}
		resolved = append(resolved, st)
	}
	return resolved, nil
}

func validateSubject(subject string) error {
	// Length limits count characters, not bytes. Vietnamese subjects carry
	// multibyte runes, so byte length would over-reject.
	n := utf8.RuneCountInString(strings.TrimSpace(subject))
	if n < entity.SubjectMinLen || n > entity.SubjectMaxLen {
		return fmt.Errorf("%w: subject must be %d-%d characters", ErrValidation, entity.SubjectMinLen, entity.SubjectMaxLen)
	}
	return nil
}

// dedupeIDs removes duplicates preserving first-seen order
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

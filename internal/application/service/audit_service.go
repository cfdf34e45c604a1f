package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/expiration"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/workflow"
)

// AuditService manages maintenance tasks and their lifecycle
type AuditService interface {
	CreateDirect(ctx context.Context, input CreateDirectInput) (*entity.Audit, error)
	Get(ctx context.Context, id int64) (*entity.Audit, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Audit, error)
	UpdateStatus(ctx context.Context, auditID int64, newStatus, actor string) (*entity.Audit, error)
	Cancel(ctx context.Context, auditID int64, reason, actor string) (*entity.Audit, error)
	IsOverdue(ctx context.Context, auditID int64) (bool, error)
	ListOverdue(ctx context.Context) ([]*entity.Audit, error)
	History(ctx context.Context, auditID int64) ([]*entity.AuditStatusHistory, error)
	ExportSummary(ctx context.Context) (string, error)
}

// CreateDirectInput carries a direct audit creation against an asset
type CreateDirectInput struct {
	AssetID        int64
	Subject        string
	Description    string
	StaffIDs       []int64
	ExpirationDays int
	Actor          string
}

type auditServiceImpl struct {
	auditRepo   port.AuditRepository
	historyRepo port.AuditHistoryRepository
	assetRepo   port.AssetRepository
	staffRepo   port.StaffRepository
	txManager   port.TransactionManager
	notifier    port.Notifier
	exporter    port.AuditExporter
	logger      Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(
	auditRepo port.AuditRepository,
	historyRepo port.AuditHistoryRepository,
	assetRepo port.AssetRepository,
	staffRepo port.StaffRepository,
	txManager port.TransactionManager,
	notifier port.Notifier,
	exporter port.AuditExporter,
	logger Logger,
) AuditService {
	return &auditServiceImpl{
		auditRepo:   auditRepo,
		historyRepo: historyRepo,
		assetRepo:   assetRepo,
		staffRepo:   staffRepo,
		txManager:   txManager,
		notifier:    notifier,
		exporter:    exporter,
		logger:      logger,
	}
}

// CreateDirect creates an audit against an asset without a source report
func (s *auditServiceImpl) CreateDirect(ctx context.Context, input CreateDirectInput) (*entity.Audit, error) {
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

	asset, err := s.assetRepo.GetByID(ctx, input.AssetID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %d", ErrNotFound, input.AssetID)
	}

	staffs, err := s.requireActiveStaff(ctx, staffIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt, err := expiration.ComputeExpiry(now, input.ExpirationDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	assetID := asset.ID
	audit := &entity.Audit{
		AssetID:     &assetID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: input.Description,
		Status:      entity.AuditStatusPending,
		StaffIDs:    staffIDs,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.auditRepo.Create(txCtx, audit); err != nil {
			return fmt.Errorf("create audit: %w", err)
		}

		history := &entity.AuditStatusHistory{
			AuditID:   audit.ID,
			NewStatus: entity.AuditStatusPending,
			Actor:     input.Actor,
			Note:      fmt.Sprintf("created against asset %d", asset.ID),
			Timestamp: now,
		}
		return s.historyRepo.Create(txCtx, history)
	})
	if err != nil {
		s.logger.Error("Failed to create audit", "error", err, "asset_id", input.AssetID)
		return nil, err
	}

	s.logger.Info("Audit created", "audit_id", audit.ID, "asset_id", asset.ID, "expires_at", expiresAt)

	if s.notifier != nil {
		if err := s.notifier.NotifyAuditAssigned(ctx, audit, staffs); err != nil {
			s.logger.Error("Failed to notify assigned staff", "error", err, "audit_id", audit.ID)
		}
	}

	return audit, nil
}

// Get retrieves an audit by ID
func (s *auditServiceImpl) Get(ctx context.Context, id int64) (*entity.Audit, error) {
	audit, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, fmt.Errorf("%w: audit %d", ErrNotFound, id)
	}
	return audit, nil
}

// List retrieves a paginated list of audits
func (s *auditServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	return s.auditRepo.List(ctx, limit, offset)
}

// UpdateStatus moves an audit along its normal path. The only edges this
// operation serves are PENDING->IN_PROGRESS and IN_PROGRESS->COMPLETED;
// cancellation goes through Cancel.
func (s *auditServiceImpl) UpdateStatus(ctx context.Context, auditID int64, newStatus, actor string) (*entity.Audit, error) {
	var trigger workflow.Trigger
	switch newStatus {
	case entity.AuditStatusInProgress:
		trigger = workflow.TriggerStart
	case entity.AuditStatusCompleted:
		trigger = workflow.TriggerComplete
	default:
		return nil, fmt.Errorf("%w: cannot request transition to %s", workflow.ErrInvalidTransition, newStatus)
	}

	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewAuditMachine(workflow.State(audit.Status))
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}

	previous := audit.Status
	now := time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Guard on the observed status so a concurrent writer cannot be
		// overwritten after our read.
		moved, err := s.auditRepo.UpdateStatusFrom(txCtx, audit.ID, previous, newStatus)
		if err != nil {
			return fmt.Errorf("update audit status: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: audit %d is no longer %s", workflow.ErrInvalidTransition, audit.ID, previous)
		}

		history := &entity.AuditStatusHistory{
			AuditID:        audit.ID,
			PreviousStatus: previous,
			NewStatus:      newStatus,
			Actor:          actor,
			Timestamp:      now,
		}
		return s.historyRepo.Create(txCtx, history)
	})
	if err != nil {
		s.logger.Error("Failed to update audit status", "error", err, "audit_id", audit.ID, "status", newStatus)
		return nil, err
	}

	audit.Status = newStatus
	audit.UpdatedAt = now

	s.logger.Info("Audit status updated", "audit_id", audit.ID, "from", previous, "to", newStatus)
	return audit, nil
}

// Cancel cancels a PENDING or IN_PROGRESS audit. The reason is validated
// before the state is even looked at.
func (s *auditServiceImpl) Cancel(ctx context.Context, auditID int64, reason, actor string) (*entity.Audit, error) {
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < entity.CancelReasonMinLen || n > entity.CancelReasonMaxLen {
		return nil, fmt.Errorf("%w: cancel reason must be %d-%d characters",
			ErrValidation, entity.CancelReasonMinLen, entity.CancelReasonMaxLen)
	}

	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewAuditMachine(workflow.State(audit.Status))
	if err := machine.Fire(ctx, workflow.TriggerCancel); err != nil {
		return nil, err
	}

	previous := audit.Status
	now := time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		moved, err := s.auditRepo.UpdateStatusFrom(txCtx, audit.ID, previous, entity.AuditStatusCancelled)
		if err != nil {
			return fmt.Errorf("update audit status: %w", err)
		}
		if !moved {
			return fmt.Errorf("%w: audit %d is no longer %s", workflow.ErrInvalidTransition, audit.ID, previous)
		}
		if err := s.auditRepo.SetCancelReason(txCtx, audit.ID, reason); err != nil {
			return fmt.Errorf("set cancel reason: %w", err)
		}

		history := &entity.AuditStatusHistory{
			AuditID:        audit.ID,
			PreviousStatus: previous,
			NewStatus:      entity.AuditStatusCancelled,
			Actor:          actor,
			Note:           reason,
			Timestamp:      now,
		}
		return s.historyRepo.Create(txCtx, history)
	})
	if err != nil {
		s.logger.Error("Failed to cancel audit", "error", err, "audit_id", audit.ID)
		return nil, err
	}

	audit.Status = entity.AuditStatusCancelled
	audit.CancelReason = reason
	audit.UpdatedAt = now

	s.logger.Info("Audit cancelled", "audit_id", audit.ID, "previous_status", previous)

	if s.notifier != nil {
		staffs, err := s.staffRepo.GetByIDs(ctx, audit.StaffIDs)
		if err != nil {
			s.logger.Error("Failed to resolve staff for cancellation notice", "error", err, "audit_id", audit.ID)
		} else if err := s.notifier.NotifyAuditCancelled(ctx, audit, staffs); err != nil {
			s.logger.Error("Failed to notify staff of cancellation", "error", err, "audit_id", audit.ID)
		}
	}

	return audit, nil
}

// IsOverdue reports whether the audit's deadline has passed
func (s *auditServiceImpl) IsOverdue(ctx context.Context, auditID int64) (bool, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return false, err
	}
	return expiration.IsOverdue(audit, time.Now()), nil
}

// ListOverdue returns non-terminal audits whose deadline has passed
func (s *auditServiceImpl) ListOverdue(ctx context.Context) ([]*entity.Audit, error) {
	return s.auditRepo.ListExpiredBefore(ctx, time.Now())
}

// History returns the status trail of an audit
func (s *auditServiceImpl) History(ctx context.Context, auditID int64) ([]*entity.AuditStatusHistory, error) {
	if _, err := s.Get(ctx, auditID); err != nil {
		return nil, err
	}
	return s.historyRepo.GetByAuditID(ctx, auditID)
}

// ExportSummary writes the audit summary workbook and returns its path
func (s *auditServiceImpl) ExportSummary(ctx context.Context) (string, error) {
	audits, err := s.auditRepo.List(ctx, 1000, 0)
	if err != nil {
		return "", fmt.Errorf("list audits: %w", err)
	}

	now := time.Now()
	rows := make([]port.ExportRow, 0, len(audits))
	for _, audit := range audits {
		staffs, err := s.staffRepo.GetByIDs(ctx, audit.StaffIDs)
		if err != nil {
			return "", fmt.Errorf("get staff: %w", err)
		}
		names := make([]string, 0, len(staffs))
		for _, st := range staffs {
			names = append(names, st.Name)
		}

		rows = append(rows, port.ExportRow{
			AuditID:    audit.ID,
			Subject:    audit.Subject,
			Status:     audit.Status,
			StaffNames: names,
			ExpiresAt:  audit.ExpiresAt.Format(time.RFC3339),
			Overdue:    expiration.IsOverdue(audit, now),
			CreatedAt:  audit.CreatedAt.Format(time.RFC3339),
		})
	}

	path, err := s.exporter.Export(ctx, rows)
	if err != nil {
		s.logger.Error("Failed to export audit summary", "error", err)
		return "", err
	}

	s.logger.Info("Audit summary exported", "path", path, "rows", len(rows))
	return path, nil
}

// requireActiveStaff resolves the ids and fails if any is missing or inactive
func (s *auditServiceImpl) requireActiveStaff(ctx context.Context, staffIDs []int64) ([]*entity.Staff, error) {
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

package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
)

// OverdueWorkerConfig holds configuration for the overdue scanner
type OverdueWorkerConfig struct {
	PollInterval time.Duration
	ScanTimeout  time.Duration
}

// DefaultOverdueWorkerConfig returns default configuration
func DefaultOverdueWorkerConfig() OverdueWorkerConfig {
	return OverdueWorkerConfig{
		PollInterval: 10 * time.Minute,
		ScanTimeout:  30 * time.Second,
	}
}

// OverdueWorker periodically scans for audits that passed their deadline and
// sends a one-time reminder to the assigned staff.
type OverdueWorker struct {
	config OverdueWorkerConfig

	auditRepo port.AuditRepository
	staffRepo port.StaffRepository
	notifier  port.Notifier
	logger    *zap.Logger

	mu           sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
	isRunning    bool
	notified     map[int64]bool
	remindedCount int
	lastError    error
}

// NewOverdueWorker creates a new overdue scanner. notifier may be nil, in
// which case overdue audits are only logged.
func NewOverdueWorker(
	config OverdueWorkerConfig,
	auditRepo port.AuditRepository,
	staffRepo port.StaffRepository,
	notifier port.Notifier,
	logger *zap.Logger,
) *OverdueWorker {
	return &OverdueWorker{
		config:    config,
		auditRepo: auditRepo,
		staffRepo: staffRepo,
		notifier:  notifier,
		logger:    logger,
		notified:  make(map[int64]bool),
	}
}

// Start begins the worker polling loop
func (w *OverdueWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("overdue worker already running")
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("OverdueWorker started",
		zap.Duration("poll_interval", w.config.PollInterval))

	go w.pollLoop()

	return nil
}

// Stop gracefully terminates the worker
func (w *OverdueWorker) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return nil
	}

	w.isRunning = false
	w.mu.Unlock()

	if w.cancel != nil {
		w.cancel()
	}

	w.logger.Info("OverdueWorker stopped",
		zap.Int("reminded_count", w.remindedCount))

	return nil
}

// Name returns the worker name for identification
func (w *OverdueWorker) Name() string {
	return "OverdueWorker"
}

func (w *OverdueWorker) pollLoop() {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Debug("Poll loop context cancelled")
			return

		case <-ticker.C:
			if err := w.scan(); err != nil {
				w.mu.Lock()
				w.lastError = err
				w.mu.Unlock()
				w.logger.Error("Overdue scan failed", zap.Error(err))
			}
		}
	}
}

func (w *OverdueWorker) scan() error {
	ctx, cancel := context.WithTimeout(w.ctx, w.config.ScanTimeout)
	defer cancel()

	audits, err := w.auditRepo.ListExpiredBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list overdue audits: %w", err)
	}

	for _, audit := range audits {
		w.mu.RLock()
		seen := w.notified[audit.ID]
		w.mu.RUnlock()
		if seen {
			continue
		}

		w.logger.Warn("Audit overdue",
			zap.Int64("audit_id", audit.ID),
			zap.String("subject", audit.Subject),
			zap.Time("expires_at", audit.ExpiresAt))

		if w.notifier != nil {
			staffs, err := w.staffRepo.GetByIDs(ctx, audit.StaffIDs)
			if err != nil {
				w.logger.Warn("Failed to load staff for reminder",
					zap.Int64("audit_id", audit.ID),
					zap.Error(err))
				continue
			}
			if err := w.notifier.NotifyAuditAssigned(ctx, audit, staffs); err != nil {
				w.logger.Warn("Failed to send overdue reminder",
					zap.Int64("audit_id", audit.ID),
					zap.Error(err))
				continue
			}
		}

		w.mu.Lock()
		w.notified[audit.ID] = true
		w.remindedCount++
		w.mu.Unlock()
	}

	return nil
}

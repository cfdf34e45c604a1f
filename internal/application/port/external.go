package port

import (
	"context"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// ApprovalAdvice is the AI-generated pre-fill for the approval form. Every
// field is advisory: the admin can override any of it, and the services
// re-validate whatever value is finally submitted.
type ApprovalAdvice struct {
	SuggestedSubject string `json:"suggested_subject"`
	SuggestedDays    int    `json:"suggested_days"`
	Priority         string `json:"priority"`
	Reasoning        string `json:"reasoning"`
}

// AdvisoryClassifier produces approval-form suggestions from a report
type AdvisoryClassifier interface {
	Classify(ctx context.Context, report *entity.Report, asset *entity.Asset) (*ApprovalAdvice, error)
}

// Notifier delivers workflow notifications to staff and reporters. Delivery
// failures must never block a state transition; callers log and move on.
type Notifier interface {
	NotifyAuditAssigned(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error
	NotifyAuditCancelled(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error
	NotifyReportRejected(ctx context.Context, report *entity.Report) error
}

// AuditExporter writes an audit summary workbook and returns its file path
type AuditExporter interface {
	Export(ctx context.Context, rows []ExportRow) (string, error)
}

// ExportRow is one line of the audit summary export
type ExportRow struct {
	AuditID    int64
	Subject    string
	Status     string
	StaffNames []string
	ExpiresAt  string
	Overdue    bool
	CreatedAt  string
}

package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// Notifier implements port.Notifier over SendGrid
type Notifier struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	logger    *zap.Logger
}

// NewNotifier creates a new SendGrid notifier
func NewNotifier(apiKey, fromName, fromEmail string, logger *zap.Logger) *Notifier {
	return &Notifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
	}
}

// NotifyAuditAssigned emails every assigned staff member. A failed recipient
// is logged and skipped so the remaining staff still get their mail.
func (n *Notifier) NotifyAuditAssigned(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error {
	subject := fmt.Sprintf("New audit assignment: %s", audit.Subject)
	body := fmt.Sprintf(`Hello,

You have been assigned to a facility audit.

Subject: %s
Deadline: %s
%s
Please complete the audit before the deadline.

Facility Management`,
		audit.Subject,
		audit.ExpiresAt.Format("2006-01-02 15:04"),
		descriptionLine(audit.Description),
	)

	return n.sendToStaffs(staffs, subject, body)
}

// NotifyAuditCancelled emails assigned staff that the audit is off
func (n *Notifier) NotifyAuditCancelled(ctx context.Context, audit *entity.Audit, staffs []*entity.Staff) error {
	subject := fmt.Sprintf("Audit cancelled: %s", audit.Subject)
	body := fmt.Sprintf(`Hello,

An audit you were assigned to has been cancelled.

Subject: %s
Reason: %s

No further action is needed.

Facility Management`,
		audit.Subject,
		audit.CancelReason,
	)

	return n.sendToStaffs(staffs, subject, body)
}

// NotifyReportRejected emails the reporter, when an address is on file
func (n *Notifier) NotifyReportRejected(ctx context.Context, report *entity.Report) error {
	if report.ReporterEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Report %s was rejected", report.TrackingCode)
	body := fmt.Sprintf(`Hello,

Your facility report %s has been reviewed and rejected.

Reason: %s

You can submit a new report if the issue persists.

Facility Management`,
		report.TrackingCode,
		report.RejectReason,
	)

	return n.send(report.ReporterName, report.ReporterEmail, subject, body)
}

func (n *Notifier) sendToStaffs(staffs []*entity.Staff, subject, body string) error {
	var failed []string
	for _, staff := range staffs {
		if staff == nil || staff.Email == "" {
			continue
		}
		if err := n.send(staff.Name, staff.Email, subject, body); err != nil {
			n.logger.Warn("Failed to send notification",
				zap.String("email", staff.Email),
				zap.Error(err))
			failed = append(failed, staff.Email)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("notify %s: delivery failed", strings.Join(failed, ", "))
	}
	return nil
}

func (n *Notifier) send(name, email, subject, body string) error {
	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(name, email)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(to)
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", body))

	response, err := n.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d", response.StatusCode)
	}

	n.logger.Debug("Email sent", zap.String("email", email), zap.Int("status", response.StatusCode))
	return nil
}

func descriptionLine(desc string) string {
	if desc == "" {
		return ""
	}
	return fmt.Sprintf("Details: %s\n", desc)
}

// Verify interface compliance
var _ port.Notifier = (*Notifier)(nil)

package entity

import "time"

// Audit represents a maintenance task assigned to staff, either derived from
// an approved report or created directly against an asset.
type Audit struct {
	ID           int64     `json:"id"`
	ReportID     *int64    `json:"report_id,omitempty"`
	AssetID      *int64    `json:"asset_id,omitempty"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"`
	StaffIDs     []int64   `json:"staff_ids"`
	ExpiresAt    time.Time `json:"expires_at"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	Images       []string  `json:"images,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTerminal reports whether the audit reached a state that permits no
// further transitions.
func (a *Audit) IsTerminal() bool {
	return a.Status == AuditStatusCompleted || a.Status == AuditStatusCancelled
}

// AuditStatusHistory records one status change of an audit.
type AuditStatusHistory struct {
	ID             int64     `json:"id"`
	AuditID        int64     `json:"audit_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Actor          string    `json:"actor,omitempty"`
	Note           string    `json:"note,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

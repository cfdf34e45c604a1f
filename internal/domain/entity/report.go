package entity

import "time"

// Report represents an incident or maintenance request submitted against an asset
type Report struct {
	ID            int64     `json:"id"`
	TrackingCode  string    `json:"tracking_code"`
	AssetID       int64     `json:"asset_id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	Images        []string  `json:"images,omitempty"`
	ReporterName  string    `json:"reporter_name,omitempty"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	RejectReason  string    `json:"reject_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsPending reports whether the report is still awaiting an admin decision
func (r *Report) IsPending() bool {
	return r.Status == ReportStatusPending
}

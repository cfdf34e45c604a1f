package entity

// Status constants for Report
const (
	ReportStatusPending  = "PENDING"
	ReportStatusApproved = "APPROVED"
	ReportStatusRejected = "REJECTED"
)

// Report type constants
const (
	ReportTypeDamaged     = "DAMAGED"
	ReportTypeMaintenance = "MAINTENANCE"
	ReportTypeLost        = "LOST"
	ReportTypeBuyNew      = "BUY_NEW"
	ReportTypeOther       = "OTHER"
)

// Status constants for Audit
const (
	AuditStatusPending    = "PENDING"
	AuditStatusInProgress = "IN_PROGRESS"
	AuditStatusCompleted  = "COMPLETED"
	AuditStatusCancelled  = "CANCELLED"
)

// Location node type constants for staff assignments
const (
	NodeTypeCampus   = "CAMPUS"
	NodeTypeBuilding = "BUILDING"
	NodeTypeZone     = "ZONE"
	NodeTypeArea     = "AREA"
)

// Suggestion tier labels, ordered from most to least specific
const (
	TierZone     = "zone"
	TierArea     = "area"
	TierBuilding = "buildingManaged"
	TierCampus   = "campusManaged"
)

// Validation bounds for admin-supplied text fields
const (
	SubjectMinLen      = 5
	SubjectMaxLen      = 200
	CancelReasonMinLen = 5
	CancelReasonMaxLen = 500
	RejectReasonMaxLen = 500
)

// ValidReportTypes lists the accepted report types
var ValidReportTypes = map[string]bool{
	ReportTypeDamaged:     true,
	ReportTypeMaintenance: true,
	ReportTypeLost:        true,
	ReportTypeBuyNew:      true,
	ReportTypeOther:       true,
}

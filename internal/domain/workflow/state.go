package workflow

// State represents a lifecycle state of a report or an audit
type State string

// Report lifecycle states
const (
	StateReportPending  State = "PENDING"
	StateReportApproved State = "APPROVED"
	StateReportRejected State = "REJECTED"
)

// Audit lifecycle states. PENDING is shared with the report lifecycle: both
// machines start there and the stored status strings match.
const (
	StateAuditPending    State = "PENDING"
	StateAuditInProgress State = "IN_PROGRESS"
	StateAuditCompleted  State = "COMPLETED"
	StateAuditCancelled  State = "CANCELLED"
)

var validStates = map[State]bool{
	StateReportPending:   true,
	StateReportApproved:  true,
	StateReportRejected:  true,
	StateAuditInProgress: true,
	StateAuditCompleted:  true,
	StateAuditCancelled:  true,
}

var terminalStates = map[State]bool{
	StateReportApproved: true,
	StateReportRejected: true,
	StateAuditCompleted: true,
	StateAuditCancelled: true,
}

// IsTerminal returns true if the state permits no further transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state belongs to one of the lifecycles
func (s State) IsValid() bool {
	return validStates[s]
}

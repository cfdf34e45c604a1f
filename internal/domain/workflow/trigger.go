package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	// Report triggers
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"

	// Audit triggers
	TriggerStart    Trigger = "START"
	TriggerComplete Trigger = "COMPLETE"
	TriggerCancel   Trigger = "CANCEL"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

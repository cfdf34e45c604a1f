package workflow

// NewReportMachine creates a state machine configured for the report
// lifecycle. PENDING is the only non-terminal state: an approved or rejected
// report never transitions again.
func NewReportMachine(initialState State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateReportPending).
		Permit(TriggerApprove, StateReportApproved).
		Permit(TriggerReject, StateReportRejected)

	// APPROVED and REJECTED are terminal - no outgoing transitions

	return builder.Build(initialState)
}

// NewAuditMachine creates a state machine configured for the audit
// (maintenance task) lifecycle. COMPLETED is reachable only through
// IN_PROGRESS; cancellation is allowed from PENDING and IN_PROGRESS.
func NewAuditMachine(initialState State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StateAuditPending).
		Permit(TriggerStart, StateAuditInProgress).
		Permit(TriggerCancel, StateAuditCancelled)

	builder.Configure(StateAuditInProgress).
		Permit(TriggerComplete, StateAuditCompleted).
		Permit(TriggerCancel, StateAuditCancelled)

	// COMPLETED and CANCELLED are terminal - no outgoing transitions

	return builder.Build(initialState)
}

package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateReportPending, false},
		{StateAuditInProgress, false},
		{StateReportApproved, true},
		{StateReportRejected, true},
		{StateAuditCompleted, true},
		{StateAuditCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StateReportPending, true},
		{"cancelled", StateAuditCancelled, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestStateMachine_FireInvalidTransition(t *testing.T) {
	machine := NewAuditMachine(StateAuditPending)

	err := machine.Fire(context.Background(), TriggerComplete)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}

	if machine.State() != StateAuditPending {
		t.Errorf("state changed after failed transition: %s", machine.State())
	}
}

func TestStateMachine_GuardBlocksTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateAuditPending).
		PermitIf(TriggerStart, StateAuditInProgress, func(ctx context.Context) bool { return false })

	machine := builder.Build(StateAuditPending)

	err := machine.Fire(context.Background(), TriggerStart)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want ErrGuardFailed", err)
	}
}

func TestReportMachine_Closure(t *testing.T) {
	// PENDING permits exactly APPROVE and REJECT; both results are terminal.
	tests := []struct {
		name    string
		trigger Trigger
		final   State
	}{
		{"approve", TriggerApprove, StateReportApproved},
		{"reject", TriggerReject, StateReportRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewReportMachine(StateReportPending)

			if err := machine.Fire(context.Background(), tt.trigger); err != nil {
				t.Fatalf("Fire(%s) error = %v", tt.trigger, err)
			}
			if machine.State() != tt.final {
				t.Fatalf("state = %s, want %s", machine.State(), tt.final)
			}

			// Terminal: every further trigger must fail.
			for _, trig := range []Trigger{TriggerApprove, TriggerReject, TriggerStart, TriggerComplete, TriggerCancel} {
				if err := machine.Fire(context.Background(), trig); !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire(%s) from %s error = %v, want ErrInvalidTransition", trig, tt.final, err)
				}
			}
		})
	}
}

func TestAuditMachine_ReachableSequences(t *testing.T) {
	tests := []struct {
		name     string
		triggers []Trigger
		final    State
		wantErr  bool
	}{
		{"start then complete", []Trigger{TriggerStart, TriggerComplete}, StateAuditCompleted, false},
		{"start then cancel", []Trigger{TriggerStart, TriggerCancel}, StateAuditCancelled, false},
		{"cancel from pending", []Trigger{TriggerCancel}, StateAuditCancelled, false},
		{"complete skipping in_progress", []Trigger{TriggerComplete}, StateAuditPending, true},
		{"start after cancel", []Trigger{TriggerCancel, TriggerStart}, StateAuditCancelled, true},
		{"cancel after complete", []Trigger{TriggerStart, TriggerComplete, TriggerCancel}, StateAuditCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewAuditMachine(StateAuditPending)

			var lastErr error
			for _, trig := range tt.triggers {
				lastErr = machine.Fire(context.Background(), trig)
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				if !errors.Is(lastErr, ErrInvalidTransition) {
					t.Errorf("error = %v, want ErrInvalidTransition", lastErr)
				}
			} else if lastErr != nil {
				t.Errorf("unexpected error: %v", lastErr)
			}

			if machine.State() != tt.final {
				t.Errorf("state = %s, want %s", machine.State(), tt.final)
			}
		})
	}
}

func TestAuditMachine_PermittedTriggers(t *testing.T) {
	machine := NewAuditMachine(StateAuditPending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Fatalf("PermittedTriggers() = %v, want 2 triggers", triggers)
	}

	if !machine.CanFire(TriggerStart) || !machine.CanFire(TriggerCancel) {
		t.Error("PENDING should permit START and CANCEL")
	}
	if machine.CanFire(TriggerComplete) {
		t.Error("PENDING should not permit COMPLETE")
	}
}

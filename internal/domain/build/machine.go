package build

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/conveyor-ci/conveyor/internal/domain/fault"
	"github.com/conveyor-ci/conveyor/internal/domain/identity"
)

// MachineContext is the context passed to the build state machine.
type MachineContext struct {
	Build   *Build
	AgentID identity.AgentID
}

// Event names for the build state machine.
const (
	EventStart   statekit.EventType = "START"
	EventSucceed statekit.EventType = "SUCCEED"
	EventFail    statekit.EventType = "FAIL"
	EventCancel  statekit.EventType = "CANCEL"
)

// Guard names for the build state machine.
const (
	GuardAgentAssigned statekit.GuardType = "agentAssigned"
)

// State IDs for the build state machine.
var (
	StateIDPending   = statekit.StateID(StatusPending)
	StateIDRunning   = statekit.StateID(StatusRunning)
	StateIDSuccess   = statekit.StateID(StatusSuccess)
	StateIDFailed    = statekit.StateID(StatusFailed)
	StateIDCancelled = statekit.StateID(StatusCancelled)
)

// Machine wraps the Statekit state machine for build lifecycles.
type Machine struct {
	interpreter *statekit.Interpreter[MachineContext]
}

// NewMachine creates a state machine mirroring the build transition table.
func NewMachine() (*Machine, error) {
	machine, err := statekit.NewMachine[MachineContext]("build").
		WithInitial(StateIDPending).
		WithGuard(GuardAgentAssigned, guardAgentAssigned).
		State(StateIDPending).
		On(EventStart).Target(StateIDRunning).Guard(GuardAgentAssigned).
		On(EventCancel).Target(StateIDCancelled).
		Done().
		State(StateIDRunning).
		On(EventSucceed).Target(StateIDSuccess).
		On(EventFail).Target(StateIDFailed).
		On(EventCancel).Target(StateIDCancelled).
		Done().
		State(StateIDSuccess).
		Final().
		Done().
		State(StateIDFailed).
		Final().
		Done().
		State(StateIDCancelled).
		Final().
		Done().
		Build()

	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	return &Machine{interpreter: statekit.NewInterpreter(machine)}, nil
}

func guardAgentAssigned(ctx MachineContext, _ statekit.Event) bool {
	return !ctx.AgentID.IsZero()
}

// Start starts the state machine interpreter.
func (m *Machine) Start() {
	m.interpreter.Start()
}

// Send sends an event to the interpreter.
func (m *Machine) Send(event statekit.EventType) error {
	if m.interpreter == nil {
		return fmt.Errorf("interpreter not started")
	}
	m.interpreter.Send(statekit.Event{Type: event})
	return nil
}

// CurrentState returns the current state.
func (m *Machine) CurrentState() statekit.StateID {
	if m.interpreter == nil {
		return ""
	}
	return m.interpreter.State().Value
}

// IsDone returns true if the machine is in a final state.
func (m *Machine) IsDone() bool {
	if m.interpreter == nil {
		return false
	}
	return m.interpreter.Done()
}

// ValidateTransition checks whether an event is legal for the build's
// current status without executing it.
func ValidateTransition(b *Build, event statekit.EventType) error {
	var target Status
	switch event {
	case EventStart:
		target = StatusRunning
	case EventSucceed:
		target = StatusSuccess
	case EventFail:
		target = StatusFailed
	case EventCancel:
		target = StatusCancelled
	default:
		return fault.Validationf("unknown event %q", event)
	}

	if !b.Status().CanTransitionTo(target) {
		return fault.InvalidStatef("cannot transition from %s to %s via %s", b.Status(), target, event)
	}
	return nil
}

// XStateJSON represents the XState JSON format for visualization.
type XStateJSON struct {
	ID      string                     `json:"id"`
	Initial string                     `json:"initial"`
	States  map[string]XStateStateJSON `json:"states"`
}

// XStateStateJSON represents a state in XState JSON format.
type XStateStateJSON struct {
	Type string                      `json:"type,omitempty"`
	On   map[string]XStateTransition `json:"on,omitempty"`
}

// XStateTransition represents a transition in XState JSON format.
type XStateTransition struct {
	Target string `json:"target"`
	Guard  string `json:"cond,omitempty"`
}

// ExportXStateJSON exports the build lifecycle as XState-compatible JSON.
func (m *Machine) ExportXStateJSON() ([]byte, error) {
	xstate := XStateJSON{
		ID:      "build",
		Initial: string(StatusPending),
		States: map[string]XStateStateJSON{
			string(StatusPending): {
				On: map[string]XStateTransition{
					string(EventStart):  {Target: string(StatusRunning), Guard: string(GuardAgentAssigned)},
					string(EventCancel): {Target: string(StatusCancelled)},
				},
			},
			string(StatusRunning): {
				On: map[string]XStateTransition{
					string(EventSucceed): {Target: string(StatusSuccess)},
					string(EventFail):    {Target: string(StatusFailed)},
					string(EventCancel):  {Target: string(StatusCancelled)},
				},
			},
			string(StatusSuccess):   {Type: "final"},
			string(StatusFailed):    {Type: "final"},
			string(StatusCancelled): {Type: "final"},
		},
	}

	return json.MarshalIndent(xstate, "", "  ")
}

package cell

import "time"

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateMonitoring   State = "monitoring"
	StateSimulating   State = "simulating"
	StateError        State = "error"
	StateEmergency    State = "emergency"
)

type Command string

const (
	CommandConnect    Command = "connect"
	CommandDisconnect Command = "disconnect"
	CommandReset      Command = "reset"
)

type CellStatus struct {
	State            State     `json:"state"`
	ActiveSimulation string    `json:"active_simulation,omitempty"`
	ControllerOnline bool      `json:"controller_online"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CompletedRuns    int       `json:"completed_runs"`
	LastStateChange  time.Time `json:"last_state_change"`
}

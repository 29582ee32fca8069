package system

import "fmt"

type SystemState int

const (
	StateInitializing SystemState = iota
	StateRunning
	StateReloading
	StateStopping
	StateStopped
	StateError
)

func (s SystemState) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateRunning:
		return "RUNNING"
	case StateReloading:
		return "RELOADING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type ReloadProgress struct {
	Phase     string `json:"phase"`
	Progress  int    `json:"progress"` // 0-100
	Message   string `json:"message"`
	StartedAt int64  `json:"started_at"`
}

type SystemStatus struct {
	State          SystemState    `json:"state"`
	ReloadProgress ReloadProgress `json:"reload_progress,omitempty"`
	Timestamp      int64          `json:"timestamp"`
	Error          string         `json:"error,omitempty"`
}

type StateTransition struct {
	From    SystemState
	To      SystemState
	Allowed bool
	Reason  string
}

func ValidateTransition(from, to SystemState) error {
	validTransitions := map[SystemState][]SystemState{
		StateInitializing: {StateRunning, StateError},
		StateRunning:      {StateReloading, StateStopping, StateError},
		StateReloading:    {StateRunning, StateError},
		StateStopping:     {StateStopped, StateError},
		StateStopped:      {StateInitializing},
		StateError:        {StateInitializing, StateStopped},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("invalid current state: %s", from)
	}

	for _, validTo := range allowed {
		if validTo == to {
			return nil
		}
	}

	return fmt.Errorf("invalid state transition: %s -> %s", from, to)
}

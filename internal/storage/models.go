package storage

import (
	"time"

	"github.com/google/uuid"
)

type RobotRecord struct {
	ID         uuid.UUID `json:"id"`
	RobotName  string    `json:"robot_name"`
	PresetPath string    `json:"preset_path"`
	Definition []byte    `json:"definition"` // JSONB
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ProgramRecord struct {
	ID          uuid.UUID  `json:"id"`
	ProgramName string     `json:"program_name"`
	RobotID     *uuid.UUID `json:"robot_id"`
	Definition  []byte     `json:"definition"` // JSONB
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Simulation is one run of a program through the kinematics engine.
type Simulation struct {
	ID          uuid.UUID  `json:"id"`
	ProgramID   uuid.UUID  `json:"program_id"`
	Status      Status     `json:"status"`
	CurrentStep int        `json:"current_step"`
	Input       []byte     `json:"input"`  // JSONB
	Output      []byte     `json:"output"` // JSONB
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type SimulationStep struct {
	ID           uuid.UUID  `json:"id"`
	SimulationID uuid.UUID  `json:"simulation_id"`
	StepIndex    int        `json:"step_index"`
	ActionKind   string     `json:"action_kind"`
	Status       Status     `json:"status"`
	Input        []byte     `json:"input"`  // JSONB
	Output       []byte     `json:"output"` // JSONB
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type SimulationEvent struct {
	ID           uuid.UUID `json:"id"`
	SimulationID uuid.UUID `json:"simulation_id"`
	EventType    string    `json:"event_type"`
	Payload      []byte    `json:"payload"` // JSONB
	Timestamp    time.Time `json:"timestamp"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

package websocket

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Controller-related messages
	MessageTypeJointSnapshot       MessageType = "joint_snapshot"
	MessageTypeControllerConnected MessageType = "controller_connected"
	MessageTypeControllerError     MessageType = "controller_error"

	// Cell state messages
	MessageTypeCellState MessageType = "cell_state"

	// Simulation messages
	MessageTypeSimulationStarted   MessageType = "simulation_started"
	MessageTypeSimulationFrame     MessageType = "simulation_frame"
	MessageTypeSimulationStep      MessageType = "simulation_step"
	MessageTypeSimulationCompleted MessageType = "simulation_completed"
	MessageTypeSimulationFailed    MessageType = "simulation_failed"
	MessageTypeSimulationCancelled MessageType = "simulation_cancelled"

	// System messages
	MessageTypeSystemStatus MessageType = "system_status"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// JointSnapshotData carries a polled controller joint snapshot
type JointSnapshotData struct {
	Joints   []float64 `json:"joints"`
	External []float64 `json:"external,omitempty"`
	Unit     uint8     `json:"unit"`
}

// CellStateData represents cell state change data
type CellStateData struct {
	State    string `json:"state"`
	Previous string `json:"previous_state"`
}

// SimulationEventData represents simulation run event data
type SimulationEventData struct {
	SimulationID string                 `json:"simulation_id"`
	ProgramID    string                 `json:"program_id,omitempty"`
	StepIndex    int                    `json:"step_index,omitempty"`
	EventType    string                 `json:"event_type"`
	Message      string                 `json:"message,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Helper functions for creating specific message types

func NewJointSnapshotMessage(unit uint8, joints, external []float64) Message {
	return NewMessage(MessageTypeJointSnapshot, JointSnapshotData{
		Joints:   joints,
		External: external,
		Unit:     unit,
	})
}

func NewCellStateMessage(newState, previousState string) Message {
	return NewMessage(MessageTypeCellState, CellStateData{
		State:    newState,
		Previous: previousState,
	})
}

func NewSimulationMessage(msgType MessageType, simulationID, programID, eventType, message string) Message {
	return NewMessage(msgType, SimulationEventData{
		SimulationID: simulationID,
		ProgramID:    programID,
		EventType:    eventType,
		Message:      message,
	})
}

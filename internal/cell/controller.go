// Package cell supervises the work cell: the link to the physical robot
// controller and the simulation runs driven against the cell's robot.
package cell

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/api/websocket"
	"github.com/openrobotcore/OpenRobotCore/internal/controller"
	"github.com/openrobotcore/OpenRobotCore/internal/program/simulator"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

type Supervisor struct {
	logger    *zap.Logger
	simulator *simulator.Simulator
	client    *controller.Client
	poller    *controller.Poller
	wsHub     *websocket.Hub
	unitID    uint8

	mu            sync.RWMutex
	currentState  State
	currentSimID  uuid.UUID
	completedRuns int
	errorMessage  string
	lastChange    time.Time
}

func NewSupervisor(
	logger *zap.Logger,
	sim *simulator.Simulator,
	client *controller.Client,
	wsHub *websocket.Hub,
	unitID uint8,
	pollInterval time.Duration,
) *Supervisor {
	s := &Supervisor{
		logger:       logger,
		simulator:    sim,
		client:       client,
		wsHub:        wsHub,
		unitID:       unitID,
		currentState: StateDisconnected,
		lastChange:   time.Now(),
	}
	s.poller = controller.NewPoller(client, unitID, pollInterval, s.broadcastSnapshot, logger)
	return s
}

// ExecuteCommand handles cell commands
func (s *Supervisor) ExecuteCommand(ctx context.Context, cmd Command) error {
	s.mu.RLock()
	currentState := s.currentState
	s.mu.RUnlock()

	s.logger.Info("Cell command received",
		zap.String("command", string(cmd)),
		zap.String("current_state", string(currentState)))

	switch cmd {
	case CommandConnect:
		return s.executeConnect(ctx)
	case CommandDisconnect:
		return s.executeDisconnect(ctx)
	case CommandReset:
		return s.executeReset(ctx)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (s *Supervisor) executeConnect(ctx context.Context) error {
	s.mu.Lock()
	if s.currentState != StateDisconnected {
		s.mu.Unlock()
		return fmt.Errorf("cannot connect: cell must be disconnected (current: %s)", s.currentState)
	}
	s.currentState = StateConnecting
	s.mu.Unlock()

	if err := s.client.Connect(); err != nil {
		s.setState(StateError, err.Error())
		return err
	}

	if err := s.poller.Start(); err != nil {
		s.client.Close()
		s.setState(StateError, err.Error())
		return err
	}

	s.setState(StateMonitoring, "")
	if s.wsHub != nil {
		s.wsHub.Broadcast(websocket.NewMessage(websocket.MessageTypeControllerConnected, nil))
	}
	return nil
}

func (s *Supervisor) executeDisconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.currentState != StateMonitoring {
		s.mu.Unlock()
		return fmt.Errorf("cannot disconnect: cell not monitoring (current: %s)", s.currentState)
	}
	s.mu.Unlock()

	s.poller.Stop()
	if err := s.client.Close(); err != nil {
		s.setState(StateError, err.Error())
		return err
	}

	s.setState(StateDisconnected, "")
	return nil
}

func (s *Supervisor) executeReset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentState != StateError && s.currentState != StateEmergency {
		return fmt.Errorf("cannot reset: no error state (current: %s)", s.currentState)
	}

	if s.poller.IsRunning() {
		go s.poller.Stop()
	}
	if s.client.IsConnected() {
		s.client.Close()
	}

	s.currentState = StateDisconnected
	s.errorMessage = ""
	s.currentSimID = uuid.Nil
	s.lastChange = time.Now()

	s.logger.Info("Cell reset to disconnected state")
	return nil
}

// StartSimulation kicks off a program run and tracks it as the cell's
// active simulation. Only one run is supervised at a time.
func (s *Supervisor) StartSimulation(ctx context.Context, programID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	if s.currentState == StateSimulating {
		s.mu.Unlock()
		return uuid.Nil, fmt.Errorf("simulation already running: %s", s.currentSimID)
	}
	if s.currentState == StateError || s.currentState == StateEmergency {
		s.mu.Unlock()
		return uuid.Nil, fmt.Errorf("cannot simulate in state %s", s.currentState)
	}
	resumeState := s.currentState
	s.mu.Unlock()

	simID, err := s.simulator.RunProgram(ctx, programID)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.currentSimID = simID
	s.mu.Unlock()
	s.setState(StateSimulating, "")

	go s.monitorSimulation(simID, resumeState)

	return simID, nil
}

// StopSimulation cancels the active run.
func (s *Supervisor) StopSimulation(ctx context.Context) error {
	s.mu.RLock()
	simID := s.currentSimID
	state := s.currentState
	s.mu.RUnlock()

	if state != StateSimulating {
		return fmt.Errorf("cannot stop: no simulation running (current: %s)", state)
	}

	return s.simulator.Cancel(ctx, simID)
}

func (s *Supervisor) monitorSimulation(simID uuid.UUID, resumeState State) {
	ctx := context.Background()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		sim, _, err := s.simulator.GetStatus(ctx, simID)
		if err != nil {
			s.logger.Error("Failed to get simulation status", zap.Error(err))
			continue
		}

		switch sim.Status {
		case storage.StatusSuccess:
			s.mu.Lock()
			s.completedRuns++
			s.currentSimID = uuid.Nil
			s.mu.Unlock()
			s.setState(resumeState, "")
			s.logger.Info("Simulation completed",
				zap.String("simulation_id", simID.String()),
				zap.String("new_state", string(resumeState)))
			return

		case storage.StatusFailed:
			s.setState(StateError, sim.Error)
			s.logger.Error("Simulation failed",
				zap.String("simulation_id", simID.String()),
				zap.String("error", sim.Error))
			return

		case storage.StatusCancelled:
			s.mu.Lock()
			s.currentSimID = uuid.Nil
			s.mu.Unlock()
			s.setState(resumeState, "")
			return
		}
	}
}

func (s *Supervisor) broadcastSnapshot(snap *controller.Snapshot) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Broadcast(websocket.NewJointSnapshotMessage(s.unitID, snap.Joints[:], snap.External))
}

func (s *Supervisor) setState(state State, errorMsg string) {
	s.mu.Lock()

	previousState := s.currentState
	s.currentState = state
	s.errorMessage = errorMsg
	s.lastChange = time.Now()
	s.mu.Unlock()

	s.logger.Info("Cell state changed",
		zap.String("state", string(state)),
		zap.String("error", errorMsg))

	// Broadcast state change via WebSocket
	if s.wsHub != nil {
		s.wsHub.Broadcast(websocket.NewCellStateMessage(
			string(state),
			string(previousState),
		))
	}
}

// Close tears down the controller link during system shutdown.
func (s *Supervisor) Close() error {
	if s.poller.IsRunning() {
		s.poller.Stop()
	}
	if s.client.IsConnected() {
		return s.client.Close()
	}
	return nil
}

func (s *Supervisor) GetStatus() CellStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := CellStatus{
		State:            s.currentState,
		ControllerOnline: s.client.IsConnected(),
		ErrorMessage:     s.errorMessage,
		CompletedRuns:    s.completedRuns,
		LastStateChange:  s.lastChange,
	}
	if s.currentSimID != uuid.Nil {
		status.ActiveSimulation = s.currentSimID.String()
	}
	return status
}

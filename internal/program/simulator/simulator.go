// Package simulator steps a stored program through the kinematics engine:
// per-action step records, pose frames for every joint movement and a
// cancellable run lifecycle.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/kinematics"
	"github.com/openrobotcore/OpenRobotCore/internal/library"
	"github.com/openrobotcore/OpenRobotCore/internal/program/definition"
	"github.com/openrobotcore/OpenRobotCore/internal/program/streaming"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

// Store is the persistence surface the simulator writes through.
// *storage.PostgresClient implements it.
type Store interface {
	LoadProgram(ctx context.Context, programID uuid.UUID) (*storage.ProgramRecord, error)
	LoadRobot(ctx context.Context, robotID uuid.UUID) (*storage.RobotRecord, error)
	CreateSimulation(ctx context.Context, sim *storage.Simulation) error
	UpdateSimulation(ctx context.Context, sim *storage.Simulation) error
	CreateSimulationStep(ctx context.Context, step *storage.SimulationStep) error
	UpdateSimulationStep(ctx context.Context, step *storage.SimulationStep) error
	CreateSimulationEvent(ctx context.Context, event *storage.SimulationEvent) error
	GetSimulation(ctx context.Context, simulationID uuid.UUID) (*storage.Simulation, error)
	GetSimulationSteps(ctx context.Context, simulationID uuid.UUID) ([]storage.SimulationStep, error)
}

type Simulator struct {
	storage       Store
	builder       *library.Builder
	streamer      *streaming.EventStreamer
	frameInterval time.Duration
	stepTimeout   time.Duration
	logger        *zap.Logger

	runningMu       sync.RWMutex
	runningContexts map[uuid.UUID]context.CancelFunc
}

// NewSimulator creates a simulator. frameInterval paces the published pose
// frames (zero means run as fast as storage allows); stepTimeout bounds the
// storage round trips of a single step.
func NewSimulator(store Store, streamer *streaming.EventStreamer, frameInterval, stepTimeout time.Duration, logger *zap.Logger) *Simulator {
	return &Simulator{
		storage:         store,
		builder:         library.NewBuilder(logger),
		streamer:        streamer,
		frameInterval:   frameInterval,
		stepTimeout:     stepTimeout,
		runningContexts: make(map[uuid.UUID]context.CancelFunc),
		logger:          logger,
	}
}

// Frame is the per-movement pose sample published while a run progresses.
type Frame struct {
	StepIndex int                         `json:"step_index"`
	TCPPlane  geometry.Plane              `json:"tcp_plane"`
	Joints    robot.JointPosition         `json:"joints,omitempty"`
	External  robot.ExternalJointPosition `json:"external,omitempty"`
	InLimits  []bool                      `json:"in_limits,omitempty"`
	Warnings  []string                    `json:"warnings,omitempty"`
}

// RunProgram loads a stored program and simulates it asynchronously. The
// returned ID identifies the run for status queries and event streaming.
func (s *Simulator) RunProgram(ctx context.Context, programID uuid.UUID) (uuid.UUID, error) {
	record, err := s.storage.LoadProgram(ctx, programID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load program: %w", err)
	}

	def, err := definition.ParseProgram(record.Definition)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse program definition: %w", err)
	}

	program, err := def.DecodeActions()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode actions: %w", err)
	}

	if record.RobotID == nil {
		return uuid.Nil, fmt.Errorf("program %s has no robot assigned", programID)
	}
	r, err := s.loadRobot(ctx, *record.RobotID)
	if err != nil {
		return uuid.Nil, err
	}

	simulationID := uuid.New()
	sim := &storage.Simulation{
		ID:        simulationID,
		ProgramID: programID,
		Status:    storage.StatusPending,
		StartedAt: time.Now(),
	}

	if err := s.storage.CreateSimulation(ctx, sim); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	s.runningMu.Lock()
	s.runningContexts[simulationID] = cancel
	s.runningMu.Unlock()

	go func() {
		defer func() {
			s.runningMu.Lock()
			delete(s.runningContexts, simulationID)
			s.runningMu.Unlock()
		}()
		s.run(runCtx, sim, program, r)
	}()

	return simulationID, nil
}

// Cancel stops a running simulation.
func (s *Simulator) Cancel(ctx context.Context, simulationID uuid.UUID) error {
	s.runningMu.RLock()
	cancel, exists := s.runningContexts[simulationID]
	s.runningMu.RUnlock()

	if !exists {
		return fmt.Errorf("simulation not found or not running: %s", simulationID)
	}

	cancel()
	return nil
}

func (s *Simulator) loadRobot(ctx context.Context, robotID uuid.UUID) (*robot.Robot, error) {
	record, err := s.storage.LoadRobot(ctx, robotID)
	if err != nil {
		return nil, err
	}
	preset, err := record.PresetDefinition()
	if err != nil {
		return nil, err
	}
	return s.builder.BuildRobot(preset)
}

func (s *Simulator) run(ctx context.Context, sim *storage.Simulation, program []actions.Action, r *robot.Robot) {
	sim.Status = storage.StatusRunning
	s.persistRun(ctx, sim)
	s.publishEvent(ctx, sim.ID, "simulation.started", nil)

	// The run works on its own copy; tool overrides must not leak into the
	// shared model.
	r = r.Duplicate()
	fk := kinematics.New(r, true)
	steps := flatten(program)

	for i, a := range steps {
		select {
		case <-ctx.Done():
			s.cancelRun(sim)
			return
		default:
		}

		if i > 0 && s.frameInterval > 0 {
			select {
			case <-ctx.Done():
				s.cancelRun(sim)
				return
			case <-time.After(s.frameInterval):
			}
		}

		sim.CurrentStep = i
		s.persistRun(ctx, sim)

		if err := s.runStep(ctx, sim.ID, i, a, r, fk); err != nil {
			s.failRun(ctx, sim, err)
			return
		}
	}

	now := time.Now()
	sim.Status = storage.StatusSuccess
	sim.CompletedAt = &now
	s.persistRun(ctx, sim)
	s.publishEvent(ctx, sim.ID, "simulation.completed", map[string]any{"steps": len(steps)})
}

// runStep bounds one step's storage round trips with the configured timeout.
func (s *Simulator) runStep(ctx context.Context, simulationID uuid.UUID, index int, a actions.Action, r *robot.Robot, fk *kinematics.ForwardKinematics) error {
	if s.stepTimeout > 0 {
		stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
		defer cancel()
		return s.executeStep(stepCtx, simulationID, index, a, r, fk)
	}
	return s.executeStep(ctx, simulationID, index, a, r, fk)
}

func (s *Simulator) executeStep(ctx context.Context, simulationID uuid.UUID, index int, a actions.Action, r *robot.Robot, fk *kinematics.ForwardKinematics) error {
	kind, _ := actions.KindOf(a)
	input, _ := actions.Encode(a)

	step := &storage.SimulationStep{
		ID:           uuid.New(),
		SimulationID: simulationID,
		StepIndex:    index,
		ActionKind:   string(kind),
		Status:       storage.StatusRunning,
		Input:        input,
		StartedAt:    time.Now(),
	}

	if err := s.storage.CreateSimulationStep(ctx, step); err != nil {
		s.logger.Error("Failed to persist simulation step",
			zap.String("simulation_id", simulationID.String()),
			zap.Int("step_index", index),
			zap.Error(err))
	}
	s.publishEvent(ctx, simulationID, "step.started", map[string]any{
		"step_index":  index,
		"action_kind": kind,
	})

	output, err := s.simulateAction(ctx, simulationID, index, a, r, fk)

	now := time.Now()
	step.CompletedAt = &now

	if err != nil {
		step.Status = storage.StatusFailed
		step.Error = err.Error()
		s.persistStep(ctx, step)
		s.publishEvent(ctx, simulationID, "step.failed", map[string]any{
			"step_index": index,
			"error":      err.Error(),
		})
		return err
	}

	step.Status = storage.StatusSuccess
	if output != nil {
		step.Output, _ = json.Marshal(output)
	}
	s.persistStep(ctx, step)
	s.publishEvent(ctx, simulationID, "step.completed", map[string]any{
		"step_index":  index,
		"action_kind": kind,
	})

	return nil
}

func (s *Simulator) simulateAction(ctx context.Context, simulationID uuid.UUID, index int, a actions.Action, r *robot.Robot, fk *kinematics.ForwardKinematics) (any, error) {
	switch act := a.(type) {
	case *actions.AbsoluteJointMovement:
		ejp := padExternal(act.ExternalJoints, len(r.ExternalAxes()))
		if err := fk.Calculate(act.Joints, ejp); err != nil {
			return nil, err
		}
		frame := &Frame{
			StepIndex: index,
			TCPPlane:  fk.TCPPlane,
			Joints:    act.Joints.Resolved(),
			External:  ejp,
			InLimits:  fk.InLimits,
			Warnings:  fk.Warnings,
		}
		s.publishFrame(ctx, simulationID, frame)
		return frame, nil

	case *actions.Movement:
		// Cartesian targets carry their own pose; joint values stay unknown
		// without an inverse solver.
		frame := &Frame{StepIndex: index, TCPPlane: act.TargetPlane}
		s.publishFrame(ctx, simulationID, frame)
		return frame, nil

	case *actions.OverrideRobotTool:
		r.SetTool(act.Tool.Duplicate())
		return map[string]any{"tool": act.Tool.Name}, nil

	case *actions.WaitTime:
		// Recorded, not slept: simulation time is not wall time.
		return map[string]any{"seconds": act.Seconds}, nil

	case *actions.DigitalOutput:
		return map[string]any{"signal": act.Signal, "value": act.Value}, nil

	case *actions.WaitDigitalInput:
		return map[string]any{"signal": act.Signal, "value": act.Value}, nil

	default:
		return nil, nil
	}
}

func (s *Simulator) publishFrame(ctx context.Context, simulationID uuid.UUID, frame *Frame) {
	payload, _ := json.Marshal(frame)
	event := &storage.SimulationEvent{
		ID:           uuid.New(),
		SimulationID: simulationID,
		EventType:    "frame",
		Payload:      payload,
		Timestamp:    time.Now(),
	}
	s.persistEvent(ctx, event)
	s.streamer.Broadcast(simulationID, event)
}

func (s *Simulator) publishEvent(ctx context.Context, simulationID uuid.UUID, eventType string, payload map[string]any) {
	payloadJSON, _ := json.Marshal(payload)
	event := &storage.SimulationEvent{
		ID:           uuid.New(),
		SimulationID: simulationID,
		EventType:    eventType,
		Payload:      payloadJSON,
		Timestamp:    time.Now(),
	}
	s.persistEvent(ctx, event)
	s.streamer.Broadcast(simulationID, event)
}

// Persistence failures never abort a run, but a row stuck in "running"
// without a log line is undebuggable.

func (s *Simulator) persistRun(ctx context.Context, sim *storage.Simulation) {
	if err := s.storage.UpdateSimulation(ctx, sim); err != nil {
		s.logger.Error("Failed to persist simulation record",
			zap.String("simulation_id", sim.ID.String()),
			zap.String("status", string(sim.Status)),
			zap.Error(err))
	}
}

func (s *Simulator) persistStep(ctx context.Context, step *storage.SimulationStep) {
	if err := s.storage.UpdateSimulationStep(ctx, step); err != nil {
		s.logger.Error("Failed to persist simulation step",
			zap.String("simulation_id", step.SimulationID.String()),
			zap.Int("step_index", step.StepIndex),
			zap.Error(err))
	}
}

func (s *Simulator) persistEvent(ctx context.Context, event *storage.SimulationEvent) {
	if err := s.storage.CreateSimulationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to persist simulation event",
			zap.String("simulation_id", event.SimulationID.String()),
			zap.String("event_type", event.EventType),
			zap.Error(err))
	}
}

func (s *Simulator) cancelRun(sim *storage.Simulation) {
	ctx := context.Background()
	now := time.Now()
	sim.Status = storage.StatusCancelled
	sim.CompletedAt = &now
	s.persistRun(ctx, sim)
	s.publishEvent(ctx, sim.ID, "simulation.cancelled", nil)
}

func (s *Simulator) failRun(ctx context.Context, sim *storage.Simulation, err error) {
	now := time.Now()
	sim.Status = storage.StatusFailed
	sim.CompletedAt = &now
	sim.Error = err.Error()
	s.persistRun(ctx, sim)
	s.publishEvent(ctx, sim.ID, "simulation.failed", map[string]any{"error": err.Error()})
}

// GetStatus returns the run record and its step records.
func (s *Simulator) GetStatus(ctx context.Context, simulationID uuid.UUID) (*storage.Simulation, []storage.SimulationStep, error) {
	sim, err := s.storage.GetSimulation(ctx, simulationID)
	if err != nil {
		return nil, nil, err
	}

	steps, err := s.storage.GetSimulationSteps(ctx, simulationID)
	if err != nil {
		return nil, nil, err
	}

	return sim, steps, nil
}

// flatten expands groups depth-first into a linear step list.
func flatten(program []actions.Action) []actions.Action {
	var out []actions.Action
	for _, a := range program {
		if g, ok := a.(*actions.ActionGroup); ok {
			out = append(out, flatten(g.Actions)...)
			continue
		}
		out = append(out, a)
	}
	return out
}

// padExternal sizes the external joint vector to the robot's attached axis
// count, filling missing slots with the unset sentinel.
func padExternal(ejp robot.ExternalJointPosition, count int) robot.ExternalJointPosition {
	out := make(robot.ExternalJointPosition, count)
	for i := range out {
		if i < len(ejp) {
			out[i] = ejp[i]
		} else {
			out[i] = robot.UnsetJointValue
		}
	}
	return out
}

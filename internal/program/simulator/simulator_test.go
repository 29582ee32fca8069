package simulator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/program/streaming"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

// stubStore records every write and returns the configured errors.
type stubStore struct {
	mu        sync.Mutex
	updateErr error
	stepErr   error
	eventErr  error

	sims   []storage.Simulation
	steps  []storage.SimulationStep
	events []storage.SimulationEvent
}

func (s *stubStore) LoadProgram(ctx context.Context, programID uuid.UUID) (*storage.ProgramRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStore) LoadRobot(ctx context.Context, robotID uuid.UUID) (*storage.RobotRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStore) CreateSimulation(ctx context.Context, sim *storage.Simulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sims = append(s.sims, *sim)
	return nil
}

func (s *stubStore) UpdateSimulation(ctx context.Context, sim *storage.Simulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sims = append(s.sims, *sim)
	return s.updateErr
}

func (s *stubStore) CreateSimulationStep(ctx context.Context, step *storage.SimulationStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, *step)
	return s.stepErr
}

func (s *stubStore) UpdateSimulationStep(ctx context.Context, step *storage.SimulationStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, *step)
	return s.stepErr
}

func (s *stubStore) CreateSimulationEvent(ctx context.Context, event *storage.SimulationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return s.eventErr
}

func (s *stubStore) GetSimulation(ctx context.Context, simulationID uuid.UUID) (*storage.Simulation, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStore) GetSimulationSteps(ctx context.Context, simulationID uuid.UUID) ([]storage.SimulationStep, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStore) eventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.EventType
	}
	return out
}

func testRobot(t *testing.T) *robot.Robot {
	t.Helper()
	planes := make([]geometry.Plane, robot.InternalAxisCount)
	limits := make([]robot.Limit, robot.InternalAxisCount)
	for i := range planes {
		planes[i] = geometry.NewPlane(
			r3.Vector{Z: float64(i) * 200},
			r3.Vector{X: 1}, r3.Vector{Y: 1})
		limits[i] = robot.Limit{Min: -180, Max: 180}
	}
	r, err := robot.New("test-arm", geometry.WorldXY(), planes, limits,
		nil, nil, robot.DefaultTool())
	require.NoError(t, err)
	return r
}

func testProgram() []actions.Action {
	return []actions.Action{
		&actions.WaitTime{Seconds: 0.5},
		&actions.DigitalOutput{Signal: "do_clamp", Value: true},
	}
}

func TestRunPersistsStepOutcomes(t *testing.T) {
	st := &stubStore{}
	s := NewSimulator(st, streaming.NewEventStreamer(), 0, 0, zap.NewNop())

	sim := &storage.Simulation{
		ID:        uuid.New(),
		ProgramID: uuid.New(),
		Status:    storage.StatusPending,
		StartedAt: time.Now(),
	}
	s.run(context.Background(), sim, testProgram(), testRobot(t))

	require.NotEmpty(t, st.sims)
	last := st.sims[len(st.sims)-1]
	assert.Equal(t, storage.StatusSuccess, last.Status)
	require.NotNil(t, last.CompletedAt)

	// Two steps, each created running and updated to success.
	require.Len(t, st.steps, 4)
	assert.Equal(t, storage.StatusRunning, st.steps[0].Status)
	assert.Equal(t, storage.StatusSuccess, st.steps[1].Status)
	assert.Equal(t, "wait_time", st.steps[0].ActionKind)

	types := st.eventTypes()
	assert.Contains(t, types, "simulation.started")
	assert.Contains(t, types, "step.started")
	assert.Contains(t, types, "step.completed")
	assert.Contains(t, types, "simulation.completed")
}

func TestRunLogsPersistenceFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	st := &stubStore{
		updateErr: errors.New("pool closed"),
		stepErr:   errors.New("pool closed"),
		eventErr:  errors.New("pool closed"),
	}
	s := NewSimulator(st, streaming.NewEventStreamer(), 0, 0, zap.New(core))

	sim := &storage.Simulation{
		ID:        uuid.New(),
		ProgramID: uuid.New(),
		Status:    storage.StatusPending,
		StartedAt: time.Now(),
	}
	s.run(context.Background(), sim, testProgram(), testRobot(t))

	// The run still completes; every failed write left a log line.
	last := st.sims[len(st.sims)-1]
	assert.Equal(t, storage.StatusSuccess, last.Status)

	messages := make(map[string]int)
	for _, entry := range logs.All() {
		messages[entry.Message]++
	}
	assert.NotZero(t, messages["Failed to persist simulation record"])
	assert.NotZero(t, messages["Failed to persist simulation step"])
	assert.NotZero(t, messages["Failed to persist simulation event"])
}

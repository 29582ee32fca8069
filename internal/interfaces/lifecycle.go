package interfaces

import (
	"context"

	"github.com/openrobotcore/OpenRobotCore/internal/cell"
	"github.com/openrobotcore/OpenRobotCore/internal/config"
	"github.com/openrobotcore/OpenRobotCore/internal/library"
	"github.com/openrobotcore/OpenRobotCore/internal/program"
	"github.com/openrobotcore/OpenRobotCore/internal/program/simulator"
	"github.com/openrobotcore/OpenRobotCore/internal/program/streaming"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State          string `json:"state"`
	CellState      string `json:"cell_state"`
	RobotInstances int    `json:"robot_instances"`
}

type LifecycleManager interface {
	Config() *config.Config
	Storage() *storage.PostgresClient
	RobotManager() *library.Manager
	Simulator() *simulator.Simulator
	EventStreamer() *streaming.EventStreamer
	Validator() *program.Validator
	CellSupervisor() *cell.Supervisor
	GetCurrentStatus() SystemStatus
	TriggerLibraryReload() error
	Shutdown(ctx context.Context) error
}

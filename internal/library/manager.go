package library

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/robot"
	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// Instance is one robot model built from a preset and registered in a cell.
type Instance struct {
	ID     uuid.UUID
	Preset string
	Robot  *robot.Robot
}

// Manager owns the preset loader and the live robot instances built from
// presets.
type Manager struct {
	loader    *PresetLoader
	builder   *Builder
	instances map[uuid.UUID]*Instance
	mu        sync.RWMutex
	logger    *zap.Logger
}

func NewManager(searchPaths []string, logger *zap.Logger) (*Manager, error) {
	loader, err := NewPresetLoader(searchPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset loader: %w", err)
	}

	return &Manager{
		loader:    loader,
		builder:   NewBuilder(logger),
		instances: make(map[uuid.UUID]*Instance),
		logger:    logger,
	}, nil
}

// LoadPreset loads and validates a preset definition without building it.
func (m *Manager) LoadPreset(presetPath string) (*types.RobotPresetDefinition, error) {
	return m.loader.Load(presetPath)
}

// CreateInstance builds a robot from a preset and registers it.
func (m *Manager) CreateInstance(presetPath string) (*Instance, error) {
	preset, err := m.loader.Load(presetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset %s: %w", presetPath, err)
	}

	r, err := m.builder.BuildRobot(preset)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		ID:     uuid.New(),
		Preset: presetPath,
		Robot:  r,
	}

	m.mu.Lock()
	m.instances[inst.ID] = inst
	m.mu.Unlock()

	m.logger.Info("Robot instance created",
		zap.String("instance_id", inst.ID.String()),
		zap.String("preset", presetPath))

	return inst, nil
}

// GetInstance returns an instance by ID.
func (m *Manager) GetInstance(id uuid.UUID) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, exists := m.instances[id]
	return inst, exists
}

// RemoveInstance drops an instance from the registry.
func (m *Manager) RemoveInstance(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.instances[id]; !exists {
		return false
	}
	delete(m.instances, id)
	return true
}

// ListInstances returns all registered instances.
func (m *Manager) ListInstances() []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	instances := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		instances = append(instances, inst)
	}

	return instances
}

// ClearCache drops all cached preset definitions so edited files are
// re-read on the next load.
func (m *Manager) ClearCache() {
	m.loader.ClearCache()
}

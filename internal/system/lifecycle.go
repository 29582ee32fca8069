package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/api/rest"
	"github.com/openrobotcore/OpenRobotCore/internal/api/websocket"
	"github.com/openrobotcore/OpenRobotCore/internal/auth"
	"github.com/openrobotcore/OpenRobotCore/internal/cell"
	"github.com/openrobotcore/OpenRobotCore/internal/config"
	"github.com/openrobotcore/OpenRobotCore/internal/controller"
	"github.com/openrobotcore/OpenRobotCore/internal/interfaces"
	"github.com/openrobotcore/OpenRobotCore/internal/library"
	"github.com/openrobotcore/OpenRobotCore/internal/program"
	"github.com/openrobotcore/OpenRobotCore/internal/program/simulator"
	"github.com/openrobotcore/OpenRobotCore/internal/program/streaming"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

type LifecycleManager struct {
	config         *config.Config
	storage        *storage.PostgresClient
	robotManager   *library.Manager
	simulator      *simulator.Simulator
	eventStreamer  *streaming.EventStreamer
	validator      *program.Validator
	cellSupervisor *cell.Supervisor
	authService    *auth.AuthService
	wsHub          *websocket.Hub
	logger         *zap.Logger

	restServer *rest.Server

	stateMu        sync.RWMutex
	currentState   SystemState
	lastError      error
	reloadProgress ReloadProgress

	listenersMu     sync.RWMutex
	statusListeners []chan SystemStatus

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

func NewLifecycleManager(
	store *storage.PostgresClient,
	cfg *config.Config,
	logger *zap.Logger,
) *LifecycleManager {
	robotManager, err := library.NewManager(cfg.Library.SearchPaths, logger)
	if err != nil {
		logger.Fatal("Failed to create robot preset manager", zap.Error(err))
	}

	eventStreamer := streaming.NewEventStreamer()
	sim := simulator.NewSimulator(store, eventStreamer,
		cfg.Simulation.FrameInterval, cfg.Simulation.StepTimeout, logger)
	validator := program.NewValidator(store)

	authService := auth.NewAuthService(store, cfg.Auth)
	wsHub := websocket.NewHub(logger, authService)

	// Cell supervisor owns the controller link
	client := controller.NewClient(cfg.Controller.Address, cfg.Controller.DefaultTimeout)
	supervisor := cell.NewSupervisor(logger, sim, client, wsHub,
		cfg.Controller.UnitID, cfg.Controller.DefaultPollInterval)
	wsHub.SetCellStatusProvider(cellStatusProvider{supervisor})

	return &LifecycleManager{
		config:          cfg,
		storage:         store,
		robotManager:    robotManager,
		simulator:       sim,
		eventStreamer:   eventStreamer,
		validator:       validator,
		cellSupervisor:  supervisor,
		authService:     authService,
		wsHub:           wsHub,
		logger:          logger,
		currentState:    StateInitializing,
		shutdownChan:    make(chan struct{}),
		statusListeners: make([]chan SystemStatus, 0),
	}
}

// cellStatusProvider adapts the supervisor to the hub's provider interface.
type cellStatusProvider struct {
	s *cell.Supervisor
}

func (p cellStatusProvider) GetStatus() any {
	return p.s.GetStatus()
}

// CellSupervisor returns the work cell supervisor
func (lm *LifecycleManager) CellSupervisor() *cell.Supervisor {
	return lm.cellSupervisor
}

// Start starts the entire system
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting OpenRobotCore")

	// State: Initializing
	lm.setState(StateInitializing)
	lm.broadcastStatus()

	// Load robot instances from database records
	if err := lm.loadRobotsFromDB(); err != nil {
		lm.logger.Warn("Failed to load robots from database", zap.Error(err))
		// Continue anyway, not critical
	}

	// Start WebSocket hub
	go lm.wsHub.Run()

	// Start REST API Server
	if err := lm.startRESTServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start REST API: %w", err))
		return err
	}

	// State: Running
	lm.setState(StateRunning)
	lm.broadcastStatus()

	lm.logger.Info("System started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Strings("preset_search_paths", lm.config.Library.SearchPaths))

	return nil
}

func (lm *LifecycleManager) loadRobotsFromDB() error {
	ctx := context.Background()

	records, err := lm.storage.ListRobots(ctx)
	if err != nil {
		return fmt.Errorf("failed to list robots: %w", err)
	}

	lm.logger.Info("Loading robots from database", zap.Int("count", len(records)))

	for _, record := range records {
		inst, err := lm.robotManager.CreateInstance(record.PresetPath)
		if err != nil {
			lm.logger.Error("Failed to build robot instance",
				zap.String("robot_name", record.RobotName),
				zap.String("preset", record.PresetPath),
				zap.Error(err))
			continue
		}

		lm.logger.Info("Robot instance created",
			zap.String("robot_name", record.RobotName),
			zap.String("instance_id", inst.ID.String()))
	}

	return nil
}

// Shutdown gracefully shuts down the system
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")

		lm.setState(StateStopping)
		lm.broadcastStatus()

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)
		lm.broadcastStatus()

		close(lm.shutdownChan)
	})

	return shutdownErr
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// 1. Stop cell supervisor (poller & controller link)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := lm.cellSupervisor.Close(); err != nil {
			errChan <- fmt.Errorf("cell supervisor stop failed: %w", err)
		}
	}()

	// 2. REST API Server graceful shutdown
	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := lm.restServer.Shutdown(shutdownCtx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	// Wait for all shutdowns
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		lm.logger.Info("Graceful shutdown completed")
		return nil
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		return fmt.Errorf("shutdown timeout exceeded")
	case err := <-errChan:
		return err
	}
}

func (lm *LifecycleManager) startRESTServer() error {
	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub, lm.authService)
	return lm.restServer.Start()
}

// TriggerLibraryReload drops all cached preset definitions and rebuilds the
// registered robot instances from the database records.
func (lm *LifecycleManager) TriggerLibraryReload() error {
	lm.stateMu.Lock()
	if lm.currentState != StateRunning {
		lm.stateMu.Unlock()
		return fmt.Errorf("cannot reload: system not in running state")
	}
	lm.currentState = StateReloading
	lm.stateMu.Unlock()

	lm.broadcastStatus()

	go lm.executeLibraryReload()
	return nil
}

func (lm *LifecycleManager) executeLibraryReload() {
	// Phase 1: Drop cached presets
	lm.setReloadProgress("Clearing cache", 10, "Dropping cached preset definitions")
	lm.robotManager.ClearCache()

	// Phase 2: Drop live instances
	lm.setReloadProgress("Dropping instances", 40, "Removing registered robot instances")
	for _, inst := range lm.robotManager.ListInstances() {
		lm.robotManager.RemoveInstance(inst.ID)
	}

	// Phase 3: Rebuild from database records
	lm.setReloadProgress("Rebuilding robots", 70, "Rebuilding robot instances from records")
	if err := lm.loadRobotsFromDB(); err != nil {
		lm.handleReloadError(err)
		return
	}

	// Phase 4: Complete
	lm.setReloadProgress("Complete", 100, "Preset library reloaded")

	lm.setState(StateRunning)
	lm.broadcastStatus()

	lm.logger.Info("Preset library reload completed")
}

func (lm *LifecycleManager) handleReloadError(err error) {
	lm.logger.Error("Library reload failed", zap.Error(err))
	lm.setError(err)
	lm.broadcastStatus()
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()
	lm.currentState = state
	if state != StateError {
		lm.lastError = nil
	}
}

func (lm *LifecycleManager) setError(err error) {
	lm.stateMu.Lock()
	defer lm.stateMu.Unlock()
	lm.currentState = StateError
	lm.lastError = err
	lm.logger.Error("System entered error state", zap.Error(err))
}

// LastError returns the error behind the current error state, or nil.
func (lm *LifecycleManager) LastError() error {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.lastError
}

func (lm *LifecycleManager) setReloadProgress(phase string, progress int, message string) {
	lm.stateMu.Lock()
	lm.reloadProgress = ReloadProgress{
		Phase:     phase,
		Progress:  progress,
		Message:   message,
		StartedAt: time.Now().Unix(),
	}
	lm.stateMu.Unlock()

	lm.broadcastStatus()
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	cellStatus := lm.cellSupervisor.GetStatus()

	return interfaces.SystemStatus{
		State:          lm.currentState.String(),
		CellState:      string(cellStatus.State),
		RobotInstances: len(lm.robotManager.ListInstances()),
	}
}

// GetCurrentStatusDetailed returns detailed status with reload progress
func (lm *LifecycleManager) GetCurrentStatusDetailed() interface{} {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	status := map[string]interface{}{
		"state": lm.currentState.String(),
		"reload_progress": map[string]interface{}{
			"phase":      lm.reloadProgress.Phase,
			"progress":   lm.reloadProgress.Progress,
			"message":    lm.reloadProgress.Message,
			"started_at": lm.reloadProgress.StartedAt,
		},
		"timestamp": time.Now().Unix(),
	}
	if lm.lastError != nil {
		status["last_error"] = lm.lastError.Error()
	}
	return status
}

// getStatusInternal returns typed status (for internal use)
func (lm *LifecycleManager) getStatusInternal() SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	return SystemStatus{
		State:          lm.currentState,
		ReloadProgress: lm.reloadProgress,
		Timestamp:      time.Now().Unix(),
	}
}

func (lm *LifecycleManager) broadcastStatus() {
	status := lm.getStatusInternal()

	lm.listenersMu.RLock()
	defer lm.listenersMu.RUnlock()

	for _, listener := range lm.statusListeners {
		select {
		case listener <- status:
		default:
			// Channel full, skip
		}
	}
}

// SubscribeStatus subscribes to status updates
func (lm *LifecycleManager) SubscribeStatus() chan SystemStatus {
	ch := make(chan SystemStatus, 10)

	lm.listenersMu.Lock()
	lm.statusListeners = append(lm.statusListeners, ch)
	lm.listenersMu.Unlock()

	return ch
}

// UnsubscribeStatus unsubscribes from status updates
func (lm *LifecycleManager) UnsubscribeStatus(ch chan SystemStatus) {
	lm.listenersMu.Lock()
	defer lm.listenersMu.Unlock()

	for i, listener := range lm.statusListeners {
		if listener == ch {
			lm.statusListeners = append(lm.statusListeners[:i], lm.statusListeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// RobotManager returns the robot preset manager
func (lm *LifecycleManager) RobotManager() *library.Manager {
	return lm.robotManager
}

// Storage returns the storage client
func (lm *LifecycleManager) Storage() *storage.PostgresClient {
	return lm.storage
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

// Simulator returns the program simulator
func (lm *LifecycleManager) Simulator() *simulator.Simulator {
	return lm.simulator
}

// EventStreamer returns the simulation event streamer
func (lm *LifecycleManager) EventStreamer() *streaming.EventStreamer {
	return lm.eventStreamer
}

// Validator returns the program validator
func (lm *LifecycleManager) Validator() *program.Validator {
	return lm.validator
}

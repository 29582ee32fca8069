package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/api/websocket"
	"github.com/openrobotcore/OpenRobotCore/internal/auth"
	"github.com/openrobotcore/OpenRobotCore/internal/config"
	"github.com/openrobotcore/OpenRobotCore/internal/interfaces"
)

type Server struct {
	router      *gin.Engine
	lm          interfaces.LifecycleManager
	logger      *zap.Logger
	server      *http.Server
	wsHub       *websocket.Hub
	authService *auth.AuthService
}

func NewServer(cfg *config.Config, lm interfaces.LifecycleManager, logger *zap.Logger, wsHub *websocket.Hub, authService *auth.AuthService) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:      gin.Default(),
		lm:          lm,
		logger:      logger,
		wsHub:       wsHub,
		authService: authService,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware())

	// Inject AuthService into Gin context
	s.router.Use(func(c *gin.Context) {
		c.Set("authService", s.authService)
		c.Next()
	})

	// Public routes (no auth required)
	s.router.GET("/health", s.healthCheck)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// ==================== AUTH ENDPOINTS (PUBLIC) ====================
		authPublic := v1.Group("/auth")
		{
			authPublic.POST("/login", s.login)
			authPublic.POST("/refresh", s.refreshToken)
		}

		// ==================== AUTH ENDPOINTS (AUTHENTICATED) ====================
		authProtected := v1.Group("/auth")
		authProtected.Use(s.authService.AuthMiddleware())
		{
			authProtected.POST("/logout", s.logout)
			authProtected.GET("/me", s.getCurrentUser)
		}

		// ==================== USER MANAGEMENT (ADMIN ONLY) ====================
		users := v1.Group("/users")
		users.Use(s.authService.AuthMiddleware())
		users.Use(auth.RequirePermission(auth.PermAdmin))
		{
			users.POST("", s.createUser)
			users.GET("", s.listUsers)
			users.PATCH("/:id", s.updateUser)
			users.DELETE("/:id", s.deleteUser)
		}

		// ==================== SYSTEM (OPERATOR+) ====================
		system := v1.Group("/system")
		system.Use(s.authService.AuthMiddleware())
		system.Use(auth.RequirePermission(auth.PermOperator))
		{
			system.GET("/status", s.getSystemStatus)
			system.POST("/reload", auth.RequirePermission(auth.PermAdmin), s.triggerLibraryReload)
			system.POST("/shutdown", auth.RequirePermission(auth.PermAdmin), s.shutdown)
		}

		// ==================== ROBOTS ====================
		robots := v1.Group("/robots")
		robots.Use(s.authService.AuthMiddleware())
		{
			// Read operations: Operator+
			robots.GET("", auth.RequirePermission(auth.PermOperator), s.listRobots)
			robots.GET("/:id", auth.RequirePermission(auth.PermOperator), s.getRobot)
			robots.POST("/:id/pose", auth.RequirePermission(auth.PermOperator), s.computePose)

			// Write operations: Admin
			robots.POST("", auth.RequirePermission(auth.PermAdmin), s.createRobot)
			robots.DELETE("/:name", auth.RequirePermission(auth.PermAdmin), s.deleteRobot)
		}

		// ==================== ROBOT INSTANCES ====================
		instances := v1.Group("/instances")
		instances.Use(s.authService.AuthMiddleware())
		{
			instances.GET("", auth.RequirePermission(auth.PermOperator), s.listInstances)
			instances.POST("", auth.RequirePermission(auth.PermTechnician), s.createInstance)
			instances.DELETE("/:id", auth.RequirePermission(auth.PermTechnician), s.removeInstance)
		}

		// ==================== PRESET LIBRARY (OPERATOR+) ====================
		libraryGroup := v1.Group("/library")
		libraryGroup.Use(s.authService.AuthMiddleware())
		libraryGroup.Use(auth.RequirePermission(auth.PermOperator))
		{
			libraryGroup.GET("", s.listVendors)
			libraryGroup.GET("/:vendor", s.getVendorPresets)
			libraryGroup.GET("/:vendor/:model", s.getPreset)
		}

		// ==================== PROGRAMS ====================
		programs := v1.Group("/programs")
		programs.Use(s.authService.AuthMiddleware())
		{
			// Read, validate, compile & simulate: Operator+
			programs.GET("", auth.RequirePermission(auth.PermOperator), s.listPrograms)
			programs.GET("/:id", auth.RequirePermission(auth.PermOperator), s.getProgram)
			programs.POST("/:id/validate", auth.RequirePermission(auth.PermOperator), s.validateProgram)
			programs.POST("/:id/compile", auth.RequirePermission(auth.PermOperator), s.compileProgram)
			programs.POST("/:id/simulate", auth.RequirePermission(auth.PermOperator), s.simulateProgram)

			// Modify: Technician+
			programs.POST("", auth.RequirePermission(auth.PermTechnician), s.createProgram)
			programs.PUT("/:id", auth.RequirePermission(auth.PermTechnician), s.updateProgram)
			programs.DELETE("/:id", auth.RequirePermission(auth.PermTechnician), s.deleteProgram)
			programs.POST("/:id/activate", auth.RequirePermission(auth.PermTechnician), s.activateProgram)
		}

		// ==================== SIMULATIONS (OPERATOR+) ====================
		simulations := v1.Group("/simulations")
		simulations.Use(s.authService.AuthMiddleware())
		simulations.Use(auth.RequirePermission(auth.PermOperator))
		{
			simulations.GET("/:id", s.getSimulationStatus)
			simulations.GET("/:id/steps", s.getSimulationSteps)
			simulations.GET("/:id/events", s.streamSimulationEvents)
			simulations.POST("/:id/cancel", s.cancelSimulation)
		}

		// ==================== CELL CONTROL (OPERATOR+) ====================
		cellGroup := v1.Group("/cell")
		cellGroup.Use(s.authService.AuthMiddleware())
		cellGroup.Use(auth.RequirePermission(auth.PermOperator))
		{
			cellGroup.GET("/status", s.getCellStatus)
			cellGroup.POST("/command", s.executeCellCommand)
			cellGroup.POST("/stop-simulation", s.stopCellSimulation)
		}

		// ==================== WEBSOCKET (PUBLIC - Auth via first message) ====================
		ws := v1.Group("/ws")
		{
			ws.GET("/live", s.wsLiveConnection)
			ws.GET("/status", s.authService.AuthMiddleware(), auth.RequirePermission(auth.PermOperator), s.wsStatus)
		}
	}
}

// WebSocket handlers
func (s *Server) wsLiveConnection(c *gin.Context) {
	websocket.ServeWs(s.wsHub, c.Writer, c.Request)
}

func (s *Server) wsStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": s.wsHub.GetClientCount(),
	})
}

// Health check (public)
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

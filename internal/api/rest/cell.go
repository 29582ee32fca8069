package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/cell"
	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// GET /api/v1/cell/status
func (s *Server) getCellStatus(c *gin.Context) {
	status := s.lm.CellSupervisor().GetStatus()
	c.JSON(http.StatusOK, status)
}

// POST /api/v1/cell/command
func (s *Server) executeCellCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CELL_400", "Invalid request body", err.Error()))
		return
	}

	cmd := cell.Command(req.Command)

	if err := s.lm.CellSupervisor().ExecuteCommand(c.Request.Context(), cmd); err != nil {
		s.logger.Error("Cell command failed",
			zap.String("command", req.Command),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CELL_400", "Command execution failed", err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Command accepted",
		"command": req.Command,
	})
}

// POST /api/v1/cell/stop-simulation
func (s *Server) stopCellSimulation(c *gin.Context) {
	if err := s.lm.CellSupervisor().StopSimulation(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("CELL_400", "Failed to stop simulation", err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Simulation stop requested",
	})
}

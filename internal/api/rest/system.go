package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// GET /api/v1/system/status
func (s *Server) getSystemStatus(c *gin.Context) {
	status := s.lm.GetCurrentStatus()
	c.JSON(http.StatusOK, status)
}

// POST /api/v1/system/reload
func (s *Server) triggerLibraryReload(c *gin.Context) {
	if err := s.lm.TriggerLibraryReload(); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("SYSTEM_500", "Failed to trigger library reload", err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Library reload initiated",
		"status":  "reloading",
	})
}

// POST /api/v1/system/shutdown
func (s *Server) shutdown(c *gin.Context) {
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Shutdown initiated",
	})

	// The request context dies with the response; shutdown gets its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.lm.Shutdown(ctx)
	}()
}

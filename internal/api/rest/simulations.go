package rest

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// GET /api/v1/simulations/:id
func (s *Server) getSimulationStatus(c *gin.Context) {
	simulationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation ID"})
		return
	}

	sim, steps, err := s.lm.Simulator().GetStatus(c.Request.Context(), simulationID)
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("SIMULATION_404", "Simulation not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"simulation": sim,
		"steps":      len(steps),
	})
}

// GET /api/v1/simulations/:id/steps
func (s *Server) getSimulationSteps(c *gin.Context) {
	simulationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation ID"})
		return
	}

	steps, err := s.lm.Storage().GetSimulationSteps(c.Request.Context(), simulationID)
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("SIMULATION_404", "Simulation not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"steps": steps,
		"count": len(steps),
	})
}

// GET /api/v1/simulations/:id/events
// Streams run events as server-sent events until the client disconnects.
func (s *Server) streamSimulationEvents(c *gin.Context) {
	simulationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation ID"})
		return
	}

	streamer := s.lm.EventStreamer()
	events := streamer.Subscribe(simulationID)
	defer streamer.Unsubscribe(simulationID, events)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload, _ := json.Marshal(event)
			c.SSEvent(event.EventType, string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// POST /api/v1/simulations/:id/cancel
func (s *Server) cancelSimulation(c *gin.Context) {
	simulationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid simulation id"})
		return
	}

	if err := s.lm.Simulator().Cancel(c.Request.Context(), simulationID); err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("SIMULATION_404", "Simulation not found or not running", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "simulation cancelled"})
}

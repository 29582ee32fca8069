package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/program/definition"
	"github.com/openrobotcore/OpenRobotCore/internal/rapid"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

type ProgramRequest struct {
	ProgramName string          `json:"program_name" binding:"required"`
	RobotID     *uuid.UUID      `json:"robot_id"`
	Definition  json.RawMessage `json:"definition" binding:"required"`
	Active      bool            `json:"active"`
}

// GET /api/v1/programs
func (s *Server) listPrograms(c *gin.Context) {
	records, err := s.lm.Storage().ListPrograms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("PROGRAM_500", "Failed to list programs", err.Error()))
		return
	}

	response := make([]gin.H, 0, len(records))
	for _, record := range records {
		response = append(response, gin.H{
			"id":           record.ID,
			"program_name": record.ProgramName,
			"robot_id":     record.RobotID,
			"active":       record.Active,
			"created_at":   record.CreatedAt,
			"updated_at":   record.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"programs": response,
		"count":    len(response),
	})
}

// GET /api/v1/programs/:id
func (s *Server) getProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	record, err := s.lm.Storage().LoadProgram(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           record.ID,
		"program_name": record.ProgramName,
		"robot_id":     record.RobotID,
		"definition":   json.RawMessage(record.Definition),
		"active":       record.Active,
		"created_at":   record.CreatedAt,
		"updated_at":   record.UpdatedAt,
	})
}

// POST /api/v1/programs
func (s *Server) createProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("PROGRAM_400", "Invalid request body", err.Error()))
		return
	}

	// Reject definitions that don't even parse
	if _, err := definition.ParseProgram(req.Definition); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("PROGRAM_400", "Invalid program definition", err.Error()))
		return
	}

	record := &storage.ProgramRecord{
		ProgramName: req.ProgramName,
		RobotID:     req.RobotID,
		Definition:  req.Definition,
		Active:      req.Active,
	}

	if err := s.lm.Storage().SaveProgram(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("PROGRAM_500", "Failed to save program", err.Error()))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           record.ID,
		"program_name": record.ProgramName,
		"message":      "Program created successfully",
	})
}

// PUT /api/v1/programs/:id
func (s *Server) updateProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("PROGRAM_400", "Invalid request body", err.Error()))
		return
	}

	if _, err := definition.ParseProgram(req.Definition); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("PROGRAM_400", "Invalid program definition", err.Error()))
		return
	}

	record := &storage.ProgramRecord{
		ID:          programID,
		ProgramName: req.ProgramName,
		RobotID:     req.RobotID,
		Definition:  req.Definition,
		Active:      req.Active,
	}

	if err := s.lm.Storage().UpdateProgram(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("PROGRAM_404", "Program not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program updated successfully"})
}

// DELETE /api/v1/programs/:id
func (s *Server) deleteProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	if err := s.lm.Storage().DeleteProgram(c.Request.Context(), programID); err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("PROGRAM_404", "Program not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program deleted successfully"})
}

// POST /api/v1/programs/:id/activate
func (s *Server) activateProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	record, err := s.lm.Storage().LoadProgram(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return
	}

	record.Active = true
	if err := s.lm.Storage().UpdateProgram(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("PROGRAM_500", "Failed to activate program", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program activated"})
}

// POST /api/v1/programs/:id/validate
func (s *Server) validateProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	report, err := s.lm.Validator().ValidateByID(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse("PROGRAM_404", "Program not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, report)
}

// POST /api/v1/programs/:id/compile
func (s *Server) compileProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	record, err := s.lm.Storage().LoadProgram(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
		return
	}

	def, err := definition.ParseProgram(record.Definition)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse("PROGRAM_422", "Program definition invalid", err.Error()))
		return
	}

	program, err := def.DecodeActions()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse("PROGRAM_422", "Program actions invalid", err.Error()))
		return
	}

	gen := rapid.NewGenerator(def.ModuleName)
	result := gen.Generate(program)

	s.logger.Info("Program compiled",
		zap.String("program_id", programID.String()),
		zap.Int("declarations", len(result.Declarations)),
		zap.Int("instructions", len(result.Instructions)),
		zap.Int("warnings", len(result.Warnings)))

	c.JSON(http.StatusOK, gin.H{
		"module":       gen.Module(result),
		"declarations": result.Declarations,
		"instructions": result.Instructions,
		"warnings":     result.Warnings,
	})
}

// POST /api/v1/programs/:id/simulate
func (s *Server) simulateProgram(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program ID"})
		return
	}

	simulationID, err := s.lm.CellSupervisor().StartSimulation(c.Request.Context(), programID)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("SIMULATION_400", "Failed to start simulation", err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"simulation_id": simulationID,
		"message":       "Simulation started",
	})
}

package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/kinematics"
	"github.com/openrobotcore/OpenRobotCore/internal/library"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// GET /api/v1/robots
func (s *Server) listRobots(c *gin.Context) {
	records, err := s.lm.Storage().ListRobots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("ROBOT_500", "Failed to list robots", err.Error()))
		return
	}

	response := make([]gin.H, 0, len(records))
	for _, record := range records {
		response = append(response, gin.H{
			"id":          record.ID,
			"robot_name":  record.RobotName,
			"preset_path": record.PresetPath,
			"enabled":     record.Enabled,
			"created_at":  record.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"robots": response,
		"count":  len(response),
	})
}

// GET /api/v1/robots/:id
func (s *Server) getRobot(c *gin.Context) {
	robotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid robot ID"})
		return
	}

	record, err := s.lm.Storage().LoadRobot(c.Request.Context(), robotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "robot not found"})
		return
	}

	preset, err := record.PresetDefinition()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("ROBOT_500", "Stored preset definition invalid", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          record.ID,
		"robot_name":  record.RobotName,
		"preset_path": record.PresetPath,
		"enabled":     record.Enabled,
		"definition":  preset,
	})
}

// POST /api/v1/robots
func (s *Server) createRobot(c *gin.Context) {
	var req struct {
		RobotName  string `json:"robot_name" binding:"required"`
		PresetPath string `json:"preset_path" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Load and schema-validate the preset first
	preset, err := s.lm.RobotManager().LoadPreset(req.PresetPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to load preset: %v", err)})
		return
	}

	// Save to database (upsert by name) with a definition snapshot
	robotID, err := s.lm.Storage().SaveOrUpdateRobot(c.Request.Context(), req.RobotName, req.PresetPath, preset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to save robot: %v", err)})
		return
	}

	// Build a live instance
	inst, err := s.lm.RobotManager().CreateInstance(req.PresetPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          robotID,
		"instance_id": inst.ID,
		"robot_name":  req.RobotName,
		"message":     "Robot created and persisted successfully",
	})
}

// DELETE /api/v1/robots/:name
func (s *Server) deleteRobot(c *gin.Context) {
	name := c.Param("name")

	if err := s.lm.Storage().DeleteRobot(c.Request.Context(), name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("failed to delete robot: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Robot deleted successfully",
	})
}

// POST /api/v1/robots/:id/pose
func (s *Server) computePose(c *gin.Context) {
	robotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid robot ID"})
		return
	}

	var req struct {
		Joints   []float64 `json:"joints" binding:"required"`
		External []float64 `json:"external"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.lm.Storage().LoadRobot(c.Request.Context(), robotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "robot not found"})
		return
	}

	preset, err := record.PresetDefinition()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("ROBOT_500", "Stored preset definition invalid", err.Error()))
		return
	}

	r, err := library.NewBuilder(s.logger).BuildRobot(preset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("ROBOT_500", "Failed to build robot", err.Error()))
		return
	}

	jp := robot.NewJointPosition(req.Joints...)
	ejp := make(robot.ExternalJointPosition, len(r.ExternalAxes()))
	for i := range ejp {
		if i < len(req.External) {
			ejp[i] = req.External[i]
		} else {
			ejp[i] = robot.UnsetJointValue
		}
	}

	fk := kinematics.New(r, true)
	if err := fk.Calculate(jp, ejp); err != nil {
		s.logger.Error("Pose computation failed",
			zap.String("robot_id", robotID.String()),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tcp_plane":            fk.TCPPlane,
		"axis_planes":          fk.AxisPlanes,
		"external_axis_planes": fk.ExternalAxisPlanes,
		"in_limits":            fk.InLimits,
		"warnings":             fk.Warnings,
	})
}

// GET /api/v1/instances
func (s *Server) listInstances(c *gin.Context) {
	instances := s.lm.RobotManager().ListInstances()

	response := make([]gin.H, 0, len(instances))
	for _, inst := range instances {
		response = append(response, gin.H{
			"id":            inst.ID,
			"preset":        inst.Preset,
			"robot_name":    inst.Robot.Name(),
			"external_axes": len(inst.Robot.ExternalAxes()),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"instances": response,
		"count":     len(response),
	})
}

// POST /api/v1/instances
func (s *Server) createInstance(c *gin.Context) {
	var req struct {
		PresetPath string `json:"preset_path" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := s.lm.RobotManager().CreateInstance(req.PresetPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         inst.ID,
		"preset":     inst.Preset,
		"robot_name": inst.Robot.Name(),
	})
}

// DELETE /api/v1/instances/:id
func (s *Server) removeInstance(c *gin.Context) {
	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance ID"})
		return
	}

	if !s.lm.RobotManager().RemoveInstance(instanceID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "instance not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "instance removed"})
}

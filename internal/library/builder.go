package library

import (
	"fmt"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// Builder assembles robot models from preset definitions.
type Builder struct {
	logger *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// BuildRobot converts a validated preset definition into a robot model,
// external axes included.
func (b *Builder) BuildRobot(preset *types.RobotPresetDefinition) (*robot.Robot, error) {
	b.logger.Info("Building robot from preset",
		zap.String("id", preset.Robot.ID),
		zap.String("model", preset.Robot.Model))

	if len(preset.Axes) != robot.InternalAxisCount {
		return nil, fmt.Errorf("preset %s: need %d axes, got %d",
			preset.Robot.ID, robot.InternalAxisCount, len(preset.Axes))
	}

	axisPlanes := make([]geometry.Plane, robot.InternalAxisCount)
	limits := make([]robot.Limit, robot.InternalAxisCount)
	linkMeshes := make([]*geometry.Mesh, robot.InternalAxisCount)
	for i, axis := range preset.Axes {
		axisPlanes[i] = toPlane(axis.Plane)
		limits[i] = robot.Limit{Min: axis.Limit.Min, Max: axis.Limit.Max}
		linkMeshes[i] = toMesh(axis.LinkBox)
	}

	tool := robot.DefaultTool()
	if preset.Tool != nil {
		tool = robot.Tool{
			Name:            preset.Tool.Name,
			AttachmentPlane: toPlane(preset.Tool.AttachmentPlane),
			ToolPlane:       toPlane(preset.Tool.ToolPlane),
			Mesh:            toMesh(preset.Tool.Box),
		}
	}

	r, err := robot.New(preset.Robot.ID, toPlane(preset.BasePlane),
		axisPlanes, limits, toMesh(preset.BaseBox), linkMeshes, tool)
	if err != nil {
		return nil, fmt.Errorf("failed to build robot %s: %w", preset.Robot.ID, err)
	}

	for _, def := range preset.ExternalAxes {
		axis, err := b.buildExternalAxis(def)
		if err != nil {
			return nil, err
		}
		if err := r.AttachExternalAxis(axis); err != nil {
			return nil, fmt.Errorf("preset %s: %w", preset.Robot.ID, err)
		}
	}

	b.logger.Info("Robot built",
		zap.String("id", preset.Robot.ID),
		zap.Int("external_axes", len(preset.ExternalAxes)))

	return r, nil
}

func (b *Builder) buildExternalAxis(def types.ExternalAxisDefinition) (robot.ExternalAxis, error) {
	limit := robot.Limit{Min: def.Limit.Min, Max: def.Limit.Max}
	axisPlane := toPlane(def.AxisPlane)
	base := toMesh(def.BaseBox)
	link := toMesh(def.LinkBox)

	var axis robot.ExternalAxis
	switch def.Kind {
	case "linear":
		axis = robot.NewLinearAxis(def.Name, axisPlane, axisPlane, limit, def.MovesRobot, base, link)
	case "rotational":
		axis = robot.NewRotationalAxis(def.Name, axisPlane, limit, def.MovesRobot, base, link)
	default:
		return nil, fmt.Errorf("external axis %q: unknown kind %q", def.Name, def.Kind)
	}

	if def.AxisNumber >= 0 {
		axis.SetAxisNumber(def.AxisNumber)
	}
	return axis, nil
}

func toVector(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func toPlane(p types.PlaneDefinition) geometry.Plane {
	return geometry.NewPlane(toVector(p.Origin), toVector(p.XAxis), toVector(p.YAxis))
}

func toMesh(box *types.BoxDefinition) *geometry.Mesh {
	if box == nil {
		return nil
	}
	return geometry.NewBoxMesh(toVector(box.Center), box.Size[0], box.Size[1], box.Size[2])
}

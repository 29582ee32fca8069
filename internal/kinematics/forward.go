// Package kinematics computes forward kinematics for a robot with external
// axes: the serial transform chain, joint-limit checks and posed display
// meshes.
package kinematics

import (
	"errors"
	"fmt"
	"math"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

// ErrExternalAxisCount is returned when the external joint vector does not
// match the robot's attached external axis count. This is a caller contract
// violation, not a domain condition.
var ErrExternalAxisCount = errors.New("external joint count does not match attached external axes")

const degToRad = math.Pi / 180

// ForwardKinematics is a single-use computation object. Calculate resets
// all output fields; only the most recent result is retained, for redraw.
type ForwardKinematics struct {
	robot    *robot.Robot
	hideMesh bool

	// Outputs of the last Calculate call.
	TCPPlane            geometry.Plane
	AxisPlanes          []geometry.Plane
	ExternalAxisPlanes  []geometry.Plane
	PosedInternalMeshes []*geometry.Mesh
	PosedExternalMeshes [][]*geometry.Mesh
	InLimits            []bool
	Warnings            []string
}

// New creates an engine bound to one robot. hideMesh skips all mesh posing
// for the cheap TCP-only mode.
func New(r *robot.Robot, hideMesh bool) *ForwardKinematics {
	return &ForwardKinematics{robot: r, hideMesh: hideMesh}
}

// Calculate runs the transform chain for the given joint values. Internal
// values are degrees; external values use each axis's native unit. Limit
// violations are reported through Warnings and InLimits, never as an error:
// the chain is always computed with the raw values. The only error is the
// external vector length contract.
func (fk *ForwardKinematics) Calculate(jp robot.JointPosition, ejp robot.ExternalJointPosition) error {
	axes := fk.robot.ExternalAxes()
	if len(ejp) != len(axes) {
		return fmt.Errorf("%w: got %d values for %d axes", ErrExternalAxisCount, len(ejp), len(axes))
	}

	fk.reset(len(axes))
	jp = jp.Resolved()

	// External axes first: base-carrying axes feed the internal chain,
	// positioners stand alone.
	baseTransform := geometry.Identity()
	for i, ax := range axes {
		t, inLimits := ax.CalculateTransform(ejp[i])
		fk.InLimits[robot.InternalAxisCount+i] = inLimits
		if !inLimits {
			fk.Warnings = append(fk.Warnings, fmt.Sprintf(
				"external axis %q value %.2f is outside the range [%.2f, %.2f]",
				ax.Name(), ejp[i], ax.Limits().Min, ax.Limits().Max))
		}
		if ax.MovesRobot() {
			baseTransform = t.Mul(baseTransform)
		}
		fk.ExternalAxisPlanes[i] = ax.AttachmentPlane().Transformed(t)
		if !fk.hideMesh {
			fk.PosedExternalMeshes[i] = ax.PoseMeshes(ejp[i])
		}
	}

	// Serial internal chain: each axis rotates about its already-posed
	// frame's Z, accumulated onto the running transform.
	acc := baseTransform
	for i := 0; i < robot.InternalAxisCount; i++ {
		posed := fk.robot.AxisPlane(i).Transformed(acc)
		rot := geometry.NewRotationAboutAxis(jp[i]*degToRad, posed.ZAxis, posed.Origin)
		acc = rot.Mul(acc)

		limit := fk.robot.AxisLimit(i)
		if limit.Contains(jp[i]) {
			fk.InLimits[i] = true
		} else {
			fk.Warnings = append(fk.Warnings, fmt.Sprintf(
				"axis %d value %.2f is outside the range [%.2f, %.2f]",
				i+1, jp[i], limit.Min, limit.Max))
		}

		fk.AxisPlanes[i] = fk.robot.AxisPlane(i).Transformed(acc)
		if !fk.hideMesh {
			if m := fk.robot.LinkMesh(i); m != nil {
				fk.PosedInternalMeshes = append(fk.PosedInternalMeshes, m.Transformed(acc))
			}
		}
	}

	fk.TCPPlane = fk.robot.Tool().ToolPlane.Transformed(acc)
	return nil
}

func (fk *ForwardKinematics) reset(externalCount int) {
	fk.TCPPlane = geometry.Plane{}
	fk.AxisPlanes = make([]geometry.Plane, robot.InternalAxisCount)
	fk.ExternalAxisPlanes = make([]geometry.Plane, externalCount)
	fk.PosedInternalMeshes = nil
	fk.PosedExternalMeshes = make([][]*geometry.Mesh, externalCount)
	fk.InLimits = make([]bool, robot.InternalAxisCount+externalCount)
	fk.Warnings = nil

	// External in-limit flags start true and are cleared on violation;
	// internal flags are set per axis during the chain walk.
	for i := robot.InternalAxisCount; i < len(fk.InLimits); i++ {
		fk.InLimits[i] = true
	}
}

package actions

import (
	"fmt"
	"strings"

	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

// AbsoluteJointMovement moves to an explicit axis configuration. It
// declares the jointtarget and renders MoveAbsJ.
type AbsoluteJointMovement struct {
	Name           string                      `json:"name"`
	Joints         robot.JointPosition         `json:"joints"`
	ExternalJoints robot.ExternalJointPosition `json:"external_joints,omitempty"`
	Speed          SpeedData                   `json:"speed"`
	Zone           int                         `json:"zone"`
}

func (a *AbsoluteJointMovement) RenderDeclaration(ctx *RenderContext) string {
	if !a.IsValid() {
		return ""
	}

	internal := make([]string, robot.InternalAxisCount)
	for i, v := range a.Joints {
		internal[i] = jointValueText(v)
	}

	external := make([]string, robot.MaxExternalAxes)
	for i := range external {
		if i < len(a.ExternalJoints) {
			external[i] = jointValueText(a.ExternalJoints[i])
		} else {
			external[i] = "9E9"
		}
	}

	decl := fmt.Sprintf("%sCONST jointtarget %s := [[%s], [%s]];",
		DeclarationIndent, a.Name,
		strings.Join(internal, ", "), strings.Join(external, ", "))

	if speedDecl := a.Speed.Declaration(); speedDecl != "" {
		decl += "\n" + speedDecl
	}
	return decl
}

func (a *AbsoluteJointMovement) RenderInstruction(ctx *RenderContext) string {
	if !a.IsValid() {
		return ""
	}
	if !IsValidZone(a.Zone) {
		ctx.Warn(fmt.Sprintf("jointtarget %q: zone value %d is not a predefined zonedata", a.Name, a.Zone))
	}
	return fmt.Sprintf("%sMoveAbsJ %s, %s, %s, %s;",
		InstructionIndent, a.Name, a.Speed.Text(ctx), ZoneText(a.Zone), ctx.ToolName)
}

func (a *AbsoluteJointMovement) Duplicate() Action {
	out := *a
	out.ExternalJoints = a.ExternalJoints.Duplicate()
	return &out
}

func (a *AbsoluteJointMovement) IsValid() bool {
	return a.Name != "" && a.Speed.IsValid()
}

func jointValueText(v float64) string {
	if robot.IsUnset(v) {
		return "9E9"
	}
	return formatNum(v)
}

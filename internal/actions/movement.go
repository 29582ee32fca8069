package actions

import (
	"fmt"
	"math"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
)

// round6 keeps RAPID literals readable; sub-micrometer noise from the
// quaternion conversion is meaningless on the controller.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Movement moves the TCP to a cartesian target. It declares the robtarget
// (and a custom speeddata when used) and renders the MoveL/MoveJ
// instruction.
type Movement struct {
	Target      string         `json:"target"`
	TargetPlane geometry.Plane `json:"target_plane"`
	Type        MovementType   `json:"type"`
	Speed       SpeedData      `json:"speed"`
	Zone        int            `json:"zone"`

	// Config is the cfx slot of the robtarget's confdata (0..7).
	Config int `json:"config"`
}

func (m *Movement) RenderDeclaration(ctx *RenderContext) string {
	if !m.IsValid() {
		return ""
	}
	if m.Config < 0 || m.Config > 7 {
		ctx.Warn(fmt.Sprintf("target %q: axis configuration %d is not between 0 and 7", m.Target, m.Config))
	}

	q := m.TargetPlane.Quaternion()
	decl := fmt.Sprintf(
		"%sCONST robtarget %s := [[%s, %s, %s], [%s, %s, %s, %s], [0, 0, 0, %d], [9E9, 9E9, 9E9, 9E9, 9E9, 9E9]];",
		DeclarationIndent, m.Target,
		formatNum(round6(m.TargetPlane.Origin.X)),
		formatNum(round6(m.TargetPlane.Origin.Y)),
		formatNum(round6(m.TargetPlane.Origin.Z)),
		formatNum(round6(q.Real)), formatNum(round6(q.Imag)),
		formatNum(round6(q.Jmag)), formatNum(round6(q.Kmag)),
		m.Config)

	if speedDecl := m.Speed.Declaration(); speedDecl != "" {
		decl += "\n" + speedDecl
	}
	return decl
}

func (m *Movement) RenderInstruction(ctx *RenderContext) string {
	if !m.IsValid() {
		return ""
	}
	if !IsValidZone(m.Zone) {
		ctx.Warn(fmt.Sprintf("target %q: zone value %d is not a predefined zonedata", m.Target, m.Zone))
	}
	return fmt.Sprintf("%s%s %s, %s, %s, %s;",
		InstructionIndent, m.Type, m.Target, m.Speed.Text(ctx), ZoneText(m.Zone), ctx.ToolName)
}

func (m *Movement) Duplicate() Action {
	out := *m
	return &out
}

func (m *Movement) IsValid() bool {
	return m.Target != "" && m.Speed.IsValid()
}

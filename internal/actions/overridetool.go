package actions

import (
	"fmt"

	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

// OverrideRobotTool declares a tooldata and switches the active tool for
// all following movements in the program.
type OverrideRobotTool struct {
	Tool robot.Tool `json:"tool"`
}

func (o *OverrideRobotTool) RenderDeclaration(ctx *RenderContext) string {
	if !o.IsValid() {
		return ""
	}
	p := o.Tool.ToolPlane
	q := p.Quaternion()
	return fmt.Sprintf(
		"%sPERS tooldata %s := [TRUE, [[%s, %s, %s], [%s, %s, %s, %s]], [1, [0, 0, 0], [1, 0, 0, 0], 0, 0, 0]];",
		DeclarationIndent, o.Tool.Name,
		formatNum(round6(p.Origin.X)), formatNum(round6(p.Origin.Y)), formatNum(round6(p.Origin.Z)),
		formatNum(round6(q.Real)), formatNum(round6(q.Imag)), formatNum(round6(q.Jmag)), formatNum(round6(q.Kmag)))
}

func (o *OverrideRobotTool) RenderInstruction(ctx *RenderContext) string {
	if !o.IsValid() {
		return ""
	}
	ctx.ToolName = o.Tool.Name
	return fmt.Sprintf("%s! Tool set to %s", InstructionIndent, o.Tool.Name)
}

func (o *OverrideRobotTool) Duplicate() Action {
	out := &OverrideRobotTool{Tool: o.Tool.Duplicate()}
	return out
}

func (o *OverrideRobotTool) IsValid() bool {
	return o.Tool.IsValid()
}

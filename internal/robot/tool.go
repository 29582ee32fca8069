package robot

import "github.com/openrobotcore/OpenRobotCore/internal/geometry"

// Tool is the end effector mounted on axis 6. AttachmentPlane sits on the
// mounting flange, ToolPlane is the TCP expressed in the same design-time
// world coordinates.
type Tool struct {
	Name            string         `json:"name"`
	AttachmentPlane geometry.Plane `json:"attachment_plane"`
	ToolPlane       geometry.Plane `json:"tool_plane"`
	Mesh            *geometry.Mesh `json:"mesh,omitempty"`
}

// DefaultTool returns the controller's built-in tool0: TCP on the flange.
func DefaultTool() Tool {
	return Tool{
		Name:            "tool0",
		AttachmentPlane: geometry.WorldXY(),
		ToolPlane:       geometry.WorldXY(),
	}
}

// Duplicate returns a deep copy.
func (t Tool) Duplicate() Tool {
	out := t
	out.Mesh = t.Mesh.Duplicate()
	return out
}

// Transform relocates the tool in the scene.
func (t *Tool) Transform(tr geometry.Transform) {
	t.AttachmentPlane = t.AttachmentPlane.Transformed(tr)
	t.ToolPlane = t.ToolPlane.Transformed(tr)
	t.Mesh.ApplyTransform(tr)
}

// IsValid reports structural completeness.
func (t Tool) IsValid() bool {
	return t.Name != ""
}

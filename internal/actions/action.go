// Package actions defines the instruction set robot programs are composed
// of. Each action renders its own RAPID declaration and instruction text;
// the generator in the rapid package sequences them.
package actions

// Indentation conventions for the emitted RAPID module: declarations sit
// one tab inside MODULE, instructions two tabs inside PROC main().
const (
	DeclarationIndent = "\t"
	InstructionIndent = "\t\t"
)

// Action is one program instruction. Rendering an action that is not
// structurally valid yields the empty string; the generator skips it.
type Action interface {
	// RenderDeclaration returns the data declarations this action needs
	// (targets, speeddata, tooldata), or "".
	RenderDeclaration(ctx *RenderContext) string

	// RenderInstruction returns the executable RAPID statement(s), or "".
	RenderInstruction(ctx *RenderContext) string

	// Duplicate returns a deep, independent copy.
	Duplicate() Action

	// IsValid reports structural completeness. It says nothing about
	// kinematic reachability.
	IsValid() bool
}

// RenderContext carries per-generation-run rendering state: the currently
// active tool and a warning sink. One context lives exactly as long as one
// render pass.
type RenderContext struct {
	// ToolName is the tool used by movement instructions. Tool overrides
	// update it as the instruction pass walks the program.
	ToolName string

	warn func(string)
}

// NewRenderContext returns a context starting at the controller default
// tool0.
func NewRenderContext(warn func(string)) *RenderContext {
	return &RenderContext{ToolName: "tool0", warn: warn}
}

// Warn reports a non-fatal rendering finding.
func (c *RenderContext) Warn(msg string) {
	if c.warn != nil {
		c.warn(msg)
	}
}

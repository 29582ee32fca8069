package actions

import "strings"

// ActionGroup owns an ordered list of child actions. Declarations recurse
// transparently; instructions are bracketed with comment markers when the
// group carries a name. Anonymous groups emit only their children.
type ActionGroup struct {
	Name    string   `json:"name,omitempty"`
	Actions []Action `json:"-"`
}

// NewActionGroup builds a group over the given children.
func NewActionGroup(name string, children ...Action) *ActionGroup {
	return &ActionGroup{Name: name, Actions: children}
}

// Add appends a child action.
func (g *ActionGroup) Add(a Action) {
	g.Actions = append(g.Actions, a)
}

func (g *ActionGroup) RenderDeclaration(ctx *RenderContext) string {
	var parts []string
	for _, child := range g.Actions {
		if text := child.RenderDeclaration(ctx); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

func (g *ActionGroup) RenderInstruction(ctx *RenderContext) string {
	var parts []string
	if g.Name != "" {
		parts = append(parts, InstructionIndent+"! Start of group: "+g.Name)
	}
	for _, child := range g.Actions {
		if text := child.RenderInstruction(ctx); text != "" {
			parts = append(parts, text)
		}
	}
	if g.Name != "" {
		parts = append(parts, InstructionIndent+"! End of group: "+g.Name)
	}
	return strings.Join(parts, "\n")
}

func (g *ActionGroup) Duplicate() Action {
	out := &ActionGroup{Name: g.Name}
	out.Actions = make([]Action, len(g.Actions))
	for i, child := range g.Actions {
		out.Actions[i] = child.Duplicate()
	}
	return out
}

func (g *ActionGroup) IsValid() bool {
	return true
}

package rapid

import (
	"fmt"
	"strings"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
)

// Result is the output of one generation run: the two text blocks as flat
// line lists, plus every warning collected along the way. Warnings never
// abort a run; the controller's compiler is the final authority.
type Result struct {
	Declarations []string `json:"declarations"`
	Instructions []string `json:"instructions"`
	Warnings     []string `json:"warnings"`
}

// Generator assembles a RAPID program module from an ordered action
// sequence. One Generator serves one run; the embedded name registry is
// not reused.
type Generator struct {
	moduleName string
	registry   *NameRegistry
	warnings   []string
}

// NewGenerator creates a generator for one run. moduleName defaults to
// MainModule when empty.
func NewGenerator(moduleName string) *Generator {
	if moduleName == "" {
		moduleName = "MainModule"
	}
	return &Generator{
		moduleName: moduleName,
		registry:   NewNameRegistry(),
	}
}

// Generate walks the program twice: declarations first, then instructions,
// each depth-first in sequence order. Name collisions and identifier
// violations are scanned up front and reported as warnings; generation
// proceeds with the offending names verbatim.
func (g *Generator) Generate(program []actions.Action) *Result {
	g.collectNames(program)

	declCtx := actions.NewRenderContext(g.warn)
	var declarations []string
	for _, a := range program {
		appendLines(&declarations, a.RenderDeclaration(declCtx))
	}

	instrCtx := actions.NewRenderContext(g.warn)
	var instructions []string
	for _, a := range program {
		appendLines(&instructions, a.RenderInstruction(instrCtx))
	}

	return &Result{
		Declarations: declarations,
		Instructions: instructions,
		Warnings:     g.warnings,
	}
}

// collectNames claims every declared target identifier before any code is
// emitted, so that duplicates across the whole program are caught even
// when the declarations are far apart.
func (g *Generator) collectNames(program []actions.Action) {
	for _, a := range program {
		switch v := a.(type) {
		case *actions.Movement:
			g.claimName(v.Target)
		case *actions.AbsoluteJointMovement:
			g.claimName(v.Name)
		case *actions.ActionGroup:
			g.collectNames(v.Actions)
		}
	}
}

func (g *Generator) claimName(name string) {
	if name == "" {
		return
	}
	g.warnings = append(g.warnings, CheckIdentifier(name)...)
	if !g.registry.Claim(name) {
		g.warn(fmt.Sprintf("duplicate target name %q: the RAPID compiler will reject the redeclaration", name))
	}
}

func (g *Generator) warn(msg string) {
	g.warnings = append(g.warnings, msg)
}

func appendLines(dst *[]string, text string) {
	if text == "" {
		return
	}
	*dst = append(*dst, strings.Split(text, "\n")...)
}

// Module assembles the final program module text from a result.
func (g *Generator) Module(res *Result) string {
	var b strings.Builder
	b.WriteString("MODULE " + g.moduleName + "\n")
	for _, line := range res.Declarations {
		b.WriteString(line + "\n")
	}
	b.WriteString(actions.DeclarationIndent + "PROC main()\n")
	for _, line := range res.Instructions {
		b.WriteString(line + "\n")
	}
	b.WriteString(actions.DeclarationIndent + "ENDPROC\n")
	b.WriteString("ENDMODULE\n")
	return b.String()
}

package actions

// Comment renders a RAPID comment line.
type Comment struct {
	Text string `json:"text"`
}

func (c *Comment) RenderDeclaration(ctx *RenderContext) string { return "" }

func (c *Comment) RenderInstruction(ctx *RenderContext) string {
	if !c.IsValid() {
		return ""
	}
	return InstructionIndent + "! " + c.Text
}

func (c *Comment) Duplicate() Action {
	out := *c
	return &out
}

func (c *Comment) IsValid() bool {
	return c.Text != ""
}

// CodeLine injects a verbatim RAPID statement into the instruction block.
// No validation is done on the content; the controller's compiler is the
// authority.
type CodeLine struct {
	Code string `json:"code"`
}

func (c *CodeLine) RenderDeclaration(ctx *RenderContext) string { return "" }

func (c *CodeLine) RenderInstruction(ctx *RenderContext) string {
	if !c.IsValid() {
		return ""
	}
	return InstructionIndent + c.Code
}

func (c *CodeLine) Duplicate() Action {
	out := *c
	return &out
}

func (c *CodeLine) IsValid() bool {
	return c.Code != ""
}

package actions

import "fmt"

// DigitalOutput sets a digital output signal on the controller.
type DigitalOutput struct {
	Signal string `json:"signal"`
	Value  bool   `json:"value"`
}

func (d *DigitalOutput) RenderDeclaration(ctx *RenderContext) string { return "" }

func (d *DigitalOutput) RenderInstruction(ctx *RenderContext) string {
	if !d.IsValid() {
		return ""
	}
	return fmt.Sprintf("%sSetDO %s, %s;", InstructionIndent, d.Signal, signalValueText(d.Value))
}

func (d *DigitalOutput) Duplicate() Action {
	out := *d
	return &out
}

func (d *DigitalOutput) IsValid() bool {
	return d.Signal != ""
}

// WaitDigitalInput blocks the program until a digital input reaches the
// wanted value.
type WaitDigitalInput struct {
	Signal string `json:"signal"`
	Value  bool   `json:"value"`
}

func (w *WaitDigitalInput) RenderDeclaration(ctx *RenderContext) string { return "" }

func (w *WaitDigitalInput) RenderInstruction(ctx *RenderContext) string {
	if !w.IsValid() {
		return ""
	}
	return fmt.Sprintf("%sWaitDI %s, %s;", InstructionIndent, w.Signal, signalValueText(w.Value))
}

func (w *WaitDigitalInput) Duplicate() Action {
	out := *w
	return &out
}

func (w *WaitDigitalInput) IsValid() bool {
	return w.Signal != ""
}

// WaitTime pauses the program for a fixed duration in seconds.
type WaitTime struct {
	Seconds float64 `json:"seconds"`
}

func (w *WaitTime) RenderDeclaration(ctx *RenderContext) string { return "" }

func (w *WaitTime) RenderInstruction(ctx *RenderContext) string {
	if !w.IsValid() {
		return ""
	}
	return fmt.Sprintf("%sWaitTime %s;", InstructionIndent, formatNum(w.Seconds))
}

func (w *WaitTime) Duplicate() Action {
	out := *w
	return &out
}

func (w *WaitTime) IsValid() bool {
	return w.Seconds >= 0
}

func signalValueText(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

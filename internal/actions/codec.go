package actions

import (
	"encoding/json"
	"fmt"
)

// CodecVersion is written into every persisted action envelope. Bump it
// when a kind's wire shape changes.
const CodecVersion = 1

// Kind tags the action variant in the persisted form.
type Kind string

const (
	KindMovement          Kind = "movement"
	KindAbsoluteJoint     Kind = "absolute_joint_movement"
	KindDigitalOutput     Kind = "digital_output"
	KindWaitTime          Kind = "wait_time"
	KindWaitDigitalInput  Kind = "wait_digital_input"
	KindComment           Kind = "comment"
	KindCodeLine          Kind = "code_line"
	KindOverrideRobotTool Kind = "override_robot_tool"
	KindGroup             Kind = "group"
)

// Envelope is the versioned persisted form of one action.
type Envelope struct {
	Version int             `json:"version"`
	Kind    Kind            `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

var decoders = map[Kind]func() Action{
	KindMovement:          func() Action { return &Movement{} },
	KindAbsoluteJoint:     func() Action { return &AbsoluteJointMovement{} },
	KindDigitalOutput:     func() Action { return &DigitalOutput{} },
	KindWaitTime:          func() Action { return &WaitTime{} },
	KindWaitDigitalInput:  func() Action { return &WaitDigitalInput{} },
	KindComment:           func() Action { return &Comment{} },
	KindCodeLine:          func() Action { return &CodeLine{} },
	KindOverrideRobotTool: func() Action { return &OverrideRobotTool{} },
	KindGroup:             func() Action { return &ActionGroup{} },
}

// KindOf returns the persisted kind tag for an action.
func KindOf(a Action) (Kind, error) {
	switch a.(type) {
	case *Movement:
		return KindMovement, nil
	case *AbsoluteJointMovement:
		return KindAbsoluteJoint, nil
	case *DigitalOutput:
		return KindDigitalOutput, nil
	case *WaitTime:
		return KindWaitTime, nil
	case *WaitDigitalInput:
		return KindWaitDigitalInput, nil
	case *Comment:
		return KindComment, nil
	case *CodeLine:
		return KindCodeLine, nil
	case *OverrideRobotTool:
		return KindOverrideRobotTool, nil
	case *ActionGroup:
		return KindGroup, nil
	default:
		return "", fmt.Errorf("unknown action type %T", a)
	}
}

// Encode serializes an action into its versioned envelope.
func Encode(a Action) ([]byte, error) {
	kind, err := KindOf(a)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s action: %w", kind, err)
	}
	return json.Marshal(Envelope{Version: CodecVersion, Kind: kind, Data: data})
}

// Decode reconstructs an action from its envelope.
func Decode(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid action envelope: %w", err)
	}
	if env.Version < 1 || env.Version > CodecVersion {
		return nil, fmt.Errorf("unsupported action envelope version %d", env.Version)
	}
	factory, ok := decoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown action kind %q", env.Kind)
	}
	a := factory()
	if err := json.Unmarshal(env.Data, a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s action: %w", env.Kind, err)
	}
	return a, nil
}

// groupJSON is the wire shape of ActionGroup: children are nested
// envelopes so decoding can dispatch per kind.
type groupJSON struct {
	Name    string            `json:"name,omitempty"`
	Actions []json.RawMessage `json:"actions"`
}

// MarshalJSON encodes each child as its own versioned envelope.
func (g *ActionGroup) MarshalJSON() ([]byte, error) {
	wire := groupJSON{Name: g.Name, Actions: make([]json.RawMessage, 0, len(g.Actions))}
	for _, child := range g.Actions {
		enc, err := Encode(child)
		if err != nil {
			return nil, err
		}
		wire.Actions = append(wire.Actions, enc)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes nested envelopes back into typed actions.
func (g *ActionGroup) UnmarshalJSON(data []byte) error {
	var wire groupJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.Name = wire.Name
	g.Actions = make([]Action, 0, len(wire.Actions))
	for _, raw := range wire.Actions {
		child, err := Decode(raw)
		if err != nil {
			return err
		}
		g.Actions = append(g.Actions, child)
	}
	return nil
}

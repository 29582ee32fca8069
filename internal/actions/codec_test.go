package actions

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

func TestEncodeDecodeMovement(t *testing.T) {
	m := &Movement{
		Target:      "pick",
		TargetPlane: geometry.NewPlane(r3.Vector{X: 100, Y: 200, Z: 300}, r3.Vector{X: 1}, r3.Vector{Y: 1}),
		Type:        MoveJ,
		Speed:       PredefinedSpeed(500),
		Zone:        10,
		Config:      3,
	}

	data, err := Encode(m)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, CodecVersion, env.Version)
	assert.Equal(t, KindMovement, env.Kind)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestEncodeDecodeNestedGroups(t *testing.T) {
	program := NewActionGroup("cycle",
		&Comment{Text: "approach"},
		NewActionGroup("grip",
			&DigitalOutput{Signal: "do_grip", Value: true},
			&WaitTime{Seconds: 0.5}),
		&AbsoluteJointMovement{
			Name:           "home",
			Joints:         robot.NewJointPosition(0, -30, 45),
			ExternalJoints: robot.ExternalJointPosition{500},
			Speed:          PredefinedSpeed(200),
			Zone:           -1,
		})

	data, err := Encode(program)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	group, ok := decoded.(*ActionGroup)
	require.True(t, ok)
	assert.Equal(t, "cycle", group.Name)
	require.Len(t, group.Actions, 3)

	inner, ok := group.Actions[1].(*ActionGroup)
	require.True(t, ok)
	assert.Equal(t, "grip", inner.Name)
	require.Len(t, inner.Actions, 2)
	assert.Equal(t, program, decoded)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"version":1,"kind":"teleport","data":{}}`))
	assert.ErrorContains(t, err, "unknown action kind")
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":99,"kind":"comment","data":{"text":"x"}}`))
	assert.ErrorContains(t, err, "version 99")

	_, err = Decode([]byte(`{"version":0,"kind":"comment","data":{"text":"x"}}`))
	assert.Error(t, err)
}

func TestDecodeRejectsMalformedEnvelope(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestKindOfCoversEveryAction(t *testing.T) {
	cases := map[Kind]Action{
		KindMovement:          &Movement{},
		KindAbsoluteJoint:     &AbsoluteJointMovement{},
		KindDigitalOutput:     &DigitalOutput{},
		KindWaitTime:          &WaitTime{},
		KindWaitDigitalInput:  &WaitDigitalInput{},
		KindComment:           &Comment{},
		KindCodeLine:          &CodeLine{},
		KindOverrideRobotTool: &OverrideRobotTool{},
		KindGroup:             &ActionGroup{},
	}
	for want, a := range cases {
		got, err := KindOf(a)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestToolRoundTrip(t *testing.T) {
	o := &OverrideRobotTool{Tool: robot.Tool{
		Name:            "gripper",
		AttachmentPlane: geometry.WorldXY(),
		ToolPlane:       geometry.NewPlane(r3.Vector{Z: 150}, r3.Vector{X: 1}, r3.Vector{Y: 1}),
		Mesh:            geometry.NewBoxMesh(r3.Vector{Z: 75}, 50, 50, 150),
	}}

	data, err := Encode(o)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, o, decoded)
}

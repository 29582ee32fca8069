package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	req := WriteIOSignalRequest(42, 3, 0x0010, true)
	wire := req.Encode()

	decoded, err := DecodeFrame(wire)
	require.NoError(t, err)

	assert.Equal(t, uint16(42), decoded.TransactionID)
	assert.Equal(t, uint16(0x0000), decoded.ProtocolID)
	assert.Equal(t, uint8(3), decoded.UnitID)
	assert.Equal(t, uint8(FuncWriteIOSignal), decoded.FunctionCode)
	// Length counts unit ID, function code and data.
	assert.Equal(t, uint16(6), decoded.Length)
	assert.Equal(t, []byte{0x00, 0x10, 0x00, 0x01}, decoded.Data)
}

func TestDecodeFrameTooShort(t *testing.T) {
	_, err := DecodeFrame([]byte{0x00, 0x01, 0x00, 0x00})
	assert.ErrorContains(t, err, "frame too short")
}

func TestDecodeFrameBadProtocolID(t *testing.T) {
	f := ReadJointSnapshotRequest(1, 0)
	wire := f.Encode()
	wire[2] = 0xFF

	_, err := DecodeFrame(wire)
	assert.ErrorContains(t, err, "invalid protocol ID")
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := &Snapshot{
		Joints:   robot.NewJointPosition(10, -45.5, 90, 0, 30, -180),
		External: robot.ExternalJointPosition{1250},
	}

	frame := &Frame{
		ProtocolID:   0x0000,
		FunctionCode: FuncReadJointSnapshot,
		Data:         EncodeSnapshot(in),
	}

	out, err := frame.ParseSnapshotResponse()
	require.NoError(t, err)

	assert.Equal(t, in.Joints, out.Joints)
	// Unset external slots are dropped on parse.
	require.Len(t, out.External, 1)
	assert.Equal(t, 1250.0, out.External[0])
	assert.False(t, out.Timestamp.IsZero())
}

func TestSnapshotNoExternalAxes(t *testing.T) {
	in := &Snapshot{Joints: robot.NewJointPosition(0, 0, 0, 0, 0, 0)}

	frame := &Frame{Data: EncodeSnapshot(in)}
	out, err := frame.ParseSnapshotResponse()
	require.NoError(t, err)

	assert.Empty(t, out.External)
}

func TestParseSnapshotResponseIncomplete(t *testing.T) {
	frame := &Frame{Data: make([]byte, 16)}
	_, err := frame.ParseSnapshotResponse()
	assert.ErrorContains(t, err, "incomplete snapshot")
}

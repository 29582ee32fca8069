// Package controller implements the framed TCP link to a physical robot
// controller: joint snapshots for live visualization and IO signal access.
package controller

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

// Frame header (7 bytes) + function code + data.
type Frame struct {
	TransactionID uint16 // request/response correlation
	ProtocolID    uint16 // always 0x0000
	Length        uint16 // byte count following the length field
	UnitID        uint8  // mechanical unit address
	FunctionCode  uint8
	Data          []byte
}

// Function codes of the link protocol.
const (
	FuncReadJointSnapshot = 0x01
	FuncReadIOSignal      = 0x02
	FuncWriteIOSignal     = 0x03
	FuncReadStatus        = 0x04
)

const (
	jointSlotCount = robot.InternalAxisCount + robot.MaxExternalAxes
	snapshotBytes  = jointSlotCount * 8
)

// Snapshot is one joint state sample from the controller. Unused external
// slots carry the unset sentinel.
type Snapshot struct {
	Joints    robot.JointPosition         `json:"joints"`
	External  robot.ExternalJointPosition `json:"external"`
	Timestamp time.Time                   `json:"timestamp"`
}

// Encode builds the complete TCP frame.
func (f *Frame) Encode() []byte {
	// Length = UnitID (1) + FunctionCode (1) + Data
	f.Length = uint16(len(f.Data) + 2)

	frame := make([]byte, 7+len(f.Data)+1)

	binary.BigEndian.PutUint16(frame[0:2], f.TransactionID)
	binary.BigEndian.PutUint16(frame[2:4], f.ProtocolID)
	binary.BigEndian.PutUint16(frame[4:6], f.Length)
	frame[6] = f.UnitID

	frame[7] = f.FunctionCode
	copy(frame[8:], f.Data)

	return frame
}

// DecodeFrame parses a received frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("frame too short: %d bytes", len(data))
	}

	frame := &Frame{
		TransactionID: binary.BigEndian.Uint16(data[0:2]),
		ProtocolID:    binary.BigEndian.Uint16(data[2:4]),
		Length:        binary.BigEndian.Uint16(data[4:6]),
		UnitID:        data[6],
		FunctionCode:  data[7],
	}

	if frame.ProtocolID != 0x0000 {
		return nil, fmt.Errorf("invalid protocol ID: 0x%04X", frame.ProtocolID)
	}

	if len(data) > 8 {
		frame.Data = data[8:]
	}

	return frame, nil
}

// ReadJointSnapshotRequest builds a request for function code 0x01.
func ReadJointSnapshotRequest(transactionID uint16, unitID uint8) *Frame {
	return &Frame{
		TransactionID: transactionID,
		ProtocolID:    0x0000,
		UnitID:        unitID,
		FunctionCode:  FuncReadJointSnapshot,
	}
}

// WriteIOSignalRequest builds a request for function code 0x03.
func WriteIOSignalRequest(transactionID uint16, unitID uint8, signal uint16, value bool) *Frame {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], signal)
	if value {
		binary.BigEndian.PutUint16(data[2:4], 1)
	}

	return &Frame{
		TransactionID: transactionID,
		ProtocolID:    0x0000,
		UnitID:        unitID,
		FunctionCode:  FuncWriteIOSignal,
		Data:          data,
	}
}

// ParseSnapshotResponse parses a joint snapshot response: twelve float64
// values big-endian, six internal then six external slots.
func (f *Frame) ParseSnapshotResponse() (*Snapshot, error) {
	if len(f.Data) < snapshotBytes {
		return nil, fmt.Errorf("incomplete snapshot: %d bytes", len(f.Data))
	}

	snap := &Snapshot{Timestamp: time.Now()}
	for i := 0; i < robot.InternalAxisCount; i++ {
		bits := binary.BigEndian.Uint64(f.Data[i*8 : i*8+8])
		snap.Joints[i] = math.Float64frombits(bits)
	}

	snap.External = make(robot.ExternalJointPosition, 0, robot.MaxExternalAxes)
	for i := robot.InternalAxisCount; i < jointSlotCount; i++ {
		bits := binary.BigEndian.Uint64(f.Data[i*8 : i*8+8])
		v := math.Float64frombits(bits)
		if robot.IsUnset(v) {
			continue
		}
		snap.External = append(snap.External, v)
	}

	return snap, nil
}

// EncodeSnapshot renders a snapshot into the wire layout. Used by tests and
// the loopback simulator.
func EncodeSnapshot(snap *Snapshot) []byte {
	data := make([]byte, snapshotBytes)
	for i := 0; i < robot.InternalAxisCount; i++ {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(snap.Joints[i]))
	}
	for i := 0; i < robot.MaxExternalAxes; i++ {
		v := robot.UnsetJointValue
		if i < len(snap.External) {
			v = snap.External[i]
		}
		binary.BigEndian.PutUint64(data[(robot.InternalAxisCount+i)*8:], math.Float64bits(v))
	}
	return data
}

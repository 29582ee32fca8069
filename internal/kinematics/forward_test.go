package kinematics

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

const eps = 1e-9

// testArm builds a vertical stack of six axes, all rotating about world Z,
// with the TCP 1500 above the base. Contrived but every transform is easy
// to verify by hand.
func testArm(t *testing.T) *robot.Robot {
	t.Helper()
	planes := make([]geometry.Plane, robot.InternalAxisCount)
	limits := make([]robot.Limit, robot.InternalAxisCount)
	meshes := make([]*geometry.Mesh, robot.InternalAxisCount)
	for i := range planes {
		planes[i] = geometry.NewPlane(
			r3.Vector{Z: float64(i) * 200},
			r3.Vector{X: 1}, r3.Vector{Y: 1})
		limits[i] = robot.Limit{Min: -170, Max: 170}
		meshes[i] = geometry.NewBoxMesh(r3.Vector{Z: float64(i) * 200}, 100, 100, 100)
	}
	tool := robot.Tool{
		Name:            "tool0",
		AttachmentPlane: geometry.NewPlane(r3.Vector{Z: 1500}, r3.Vector{X: 1}, r3.Vector{Y: 1}),
		ToolPlane:       geometry.NewPlane(r3.Vector{X: 100, Z: 1500}, r3.Vector{X: 1}, r3.Vector{Y: 1}),
	}
	r, err := robot.New("test-arm", geometry.WorldXY(), planes, limits,
		geometry.NewBoxMesh(r3.Vector{}, 200, 200, 100), meshes, tool)
	require.NoError(t, err)
	return r
}

func testTrack() robot.ExternalAxis {
	// Track along world X, carrying the robot.
	return robot.NewLinearAxis("track1",
		geometry.WorldXY(),
		geometry.NewPlane(r3.Vector{}, r3.Vector{Y: 1}, r3.Vector{Z: 1}),
		robot.Limit{Min: 0, Max: 2000},
		true,
		geometry.NewBoxMesh(r3.Vector{}, 100, 100, 100),
		geometry.NewBoxMesh(r3.Vector{}, 50, 50, 50))
}

func testPositioner() robot.ExternalAxis {
	return robot.NewRotationalAxis("positioner1",
		geometry.NewPlane(r3.Vector{X: 1000}, r3.Vector{X: 1}, r3.Vector{Y: 1}),
		robot.Limit{Min: -180, Max: 180},
		false,
		geometry.NewBoxMesh(r3.Vector{X: 1000}, 100, 100, 100),
		geometry.NewBoxMesh(r3.Vector{X: 1000}, 50, 50, 50))
}

func TestZeroPoseMatchesDesignPose(t *testing.T) {
	arm := testArm(t)
	fk := New(arm, false)

	require.NoError(t, fk.Calculate(robot.JointPosition{}, nil))

	assert.True(t, fk.TCPPlane.AlmostEqual(arm.Tool().ToolPlane, eps))
	for i := 0; i < robot.InternalAxisCount; i++ {
		assert.True(t, fk.AxisPlanes[i].AlmostEqual(arm.AxisPlane(i), eps))
		assert.True(t, fk.InLimits[i])
	}
	assert.Empty(t, fk.Warnings)
	assert.Len(t, fk.PosedInternalMeshes, robot.InternalAxisCount)
}

func TestAxisOneRotatesTCP(t *testing.T) {
	arm := testArm(t)
	fk := New(arm, true)

	require.NoError(t, fk.Calculate(robot.NewJointPosition(90), nil))

	// All axes share the world Z direction, so a 90 degree base rotation
	// swings the TCP's X offset onto Y.
	assert.True(t, geometry.VectorsAlmostEqual(
		r3.Vector{Y: 100, Z: 1500}, fk.TCPPlane.Origin, 1e-7))
}

func TestLimitViolationsWarnButNeverError(t *testing.T) {
	arm := testArm(t)
	fk := New(arm, true)

	err := fk.Calculate(robot.NewJointPosition(200, 0, -171, 0, 0, 400), nil)
	require.NoError(t, err)

	assert.Len(t, fk.Warnings, 3)
	assert.False(t, fk.InLimits[0])
	assert.True(t, fk.InLimits[1])
	assert.False(t, fk.InLimits[2])
	assert.False(t, fk.InLimits[5])
	assert.Contains(t, fk.Warnings[0], "axis 1")
	assert.Contains(t, fk.Warnings[0], "200.00")
}

func TestUnsetJointsTreatedAsZero(t *testing.T) {
	arm := testArm(t)
	fk := New(arm, true)

	jp := robot.NewJointPosition(robot.UnsetJointValue, robot.UnsetJointValue)
	require.NoError(t, fk.Calculate(jp, nil))

	assert.True(t, fk.TCPPlane.AlmostEqual(arm.Tool().ToolPlane, eps))
	assert.Empty(t, fk.Warnings)
}

func TestExternalAxisCountMismatch(t *testing.T) {
	arm := testArm(t)
	require.NoError(t, arm.AttachExternalAxis(testTrack()))
	fk := New(arm, true)

	err := fk.Calculate(robot.JointPosition{}, nil)
	assert.ErrorIs(t, err, ErrExternalAxisCount)

	err = fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{0, 0})
	assert.ErrorIs(t, err, ErrExternalAxisCount)
}

func TestBaseCarryingTrackShiftsTCP(t *testing.T) {
	arm := testArm(t)
	require.NoError(t, arm.AttachExternalAxis(testTrack()))
	fk := New(arm, true)

	require.NoError(t, fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{500}))

	want := arm.Tool().ToolPlane.Origin.Add(r3.Vector{X: 500})
	assert.True(t, geometry.VectorsAlmostEqual(want, fk.TCPPlane.Origin, eps))
	assert.True(t, fk.InLimits[robot.InternalAxisCount])
}

func TestPositionerDoesNotMoveTCP(t *testing.T) {
	arm := testArm(t)
	require.NoError(t, arm.AttachExternalAxis(testPositioner()))
	fk := New(arm, true)

	require.NoError(t, fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{90}))

	assert.True(t, fk.TCPPlane.AlmostEqual(arm.Tool().ToolPlane, eps))
	// The positioner's own frame did rotate.
	assert.True(t, geometry.VectorsAlmostEqual(
		r3.Vector{Y: 1}, fk.ExternalAxisPlanes[0].XAxis, eps))
}

func TestExternalLimitViolationWarns(t *testing.T) {
	arm := testArm(t)
	require.NoError(t, arm.AttachExternalAxis(testTrack()))
	fk := New(arm, true)

	require.NoError(t, fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{2500}))

	require.Len(t, fk.Warnings, 1)
	assert.Contains(t, fk.Warnings[0], `external axis "track1"`)
	assert.False(t, fk.InLimits[robot.InternalAxisCount])
	// The chain is still computed from the raw value.
	want := arm.Tool().ToolPlane.Origin.Add(r3.Vector{X: 2500})
	assert.True(t, geometry.VectorsAlmostEqual(want, fk.TCPPlane.Origin, eps))
}

func TestHideMeshSkipsPosing(t *testing.T) {
	arm := testArm(t)
	require.NoError(t, arm.AttachExternalAxis(testTrack()))

	fk := New(arm, true)
	require.NoError(t, fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{0}))
	assert.Empty(t, fk.PosedInternalMeshes)
	assert.Nil(t, fk.PosedExternalMeshes[0])

	fk = New(arm, false)
	require.NoError(t, fk.Calculate(robot.JointPosition{}, robot.ExternalJointPosition{0}))
	assert.Len(t, fk.PosedInternalMeshes, robot.InternalAxisCount)
	assert.Len(t, fk.PosedExternalMeshes[0], 2)
}

func TestCalculateResetsBetweenRuns(t *testing.T) {
	arm := testArm(t)
	fk := New(arm, true)

	require.NoError(t, fk.Calculate(robot.NewJointPosition(200), nil))
	require.NotEmpty(t, fk.Warnings)

	require.NoError(t, fk.Calculate(robot.JointPosition{}, nil))
	assert.Empty(t, fk.Warnings)
	assert.True(t, fk.InLimits[0])
}

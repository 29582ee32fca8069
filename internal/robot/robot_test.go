package robot

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
)

func testRobot(t *testing.T) *Robot {
	t.Helper()
	planes := make([]geometry.Plane, InternalAxisCount)
	limits := make([]Limit, InternalAxisCount)
	meshes := make([]*geometry.Mesh, InternalAxisCount)
	for i := range planes {
		planes[i] = geometry.NewPlane(
			r3.Vector{Z: float64(i) * 200},
			r3.Vector{X: 1}, r3.Vector{Y: 1})
		limits[i] = Limit{Min: -180, Max: 180}
		meshes[i] = geometry.NewBoxMesh(r3.Vector{Z: float64(i) * 200}, 100, 100, 100)
	}
	r, err := New("IRB-2600", geometry.WorldXY(), planes, limits,
		geometry.NewBoxMesh(r3.Vector{}, 200, 200, 100), meshes, DefaultTool())
	require.NoError(t, err)
	return r
}

func TestNewValidatesCounts(t *testing.T) {
	_, err := New("bad", geometry.WorldXY(),
		make([]geometry.Plane, 5), make([]Limit, InternalAxisCount),
		nil, nil, DefaultTool())
	assert.Error(t, err)

	_, err = New("bad", geometry.WorldXY(),
		make([]geometry.Plane, InternalAxisCount), make([]Limit, 2),
		nil, nil, DefaultTool())
	assert.Error(t, err)
}

func TestNewRejectsInvalidLimit(t *testing.T) {
	limits := make([]Limit, InternalAxisCount)
	limits[3] = Limit{Min: 10, Max: -10}
	_, err := New("bad", geometry.WorldXY(),
		make([]geometry.Plane, InternalAxisCount), limits,
		nil, nil, DefaultTool())
	assert.ErrorContains(t, err, "axis 4")
}

func TestAttachExternalAxisUniqueNumbers(t *testing.T) {
	r := testRobot(t)

	first := testLinearAxis()
	first.SetAxisNumber(0)
	require.NoError(t, r.AttachExternalAxis(first))

	second := testRotationalAxis()
	second.SetAxisNumber(0)
	assert.Error(t, r.AttachExternalAxis(second))

	second.SetAxisNumber(1)
	assert.NoError(t, r.AttachExternalAxis(second))
	assert.Len(t, r.ExternalAxes(), 2)
}

func TestAttachExternalAxisCap(t *testing.T) {
	r := testRobot(t)
	for i := 0; i < MaxExternalAxes; i++ {
		ax := testLinearAxis()
		ax.SetAxisNumber(i)
		require.NoError(t, r.AttachExternalAxis(ax))
	}
	extra := testLinearAxis()
	extra.SetAxisNumber(-1)
	assert.Error(t, r.AttachExternalAxis(extra))
}

func TestRobotDuplicateIsIndependent(t *testing.T) {
	r := testRobot(t)
	require.NoError(t, r.AttachExternalAxis(testLinearAxis()))

	dup := r.Duplicate()
	dup.Transform(geometry.NewTranslation(r3.Vector{X: 5000}))
	dup.SetTool(Tool{Name: "welder", AttachmentPlane: geometry.WorldXY(), ToolPlane: geometry.WorldXY()})
	dup.ExternalAxes()[0].SetLimits(Limit{Min: 0, Max: 1})

	assert.Equal(t, "tool0", r.Tool().Name)
	assert.InDelta(t, 0, r.BasePlane().Origin.X, eps)
	assert.Equal(t, Limit{Min: 0, Max: 2000}, r.ExternalAxes()[0].Limits())
	assert.NotEqual(t, r.BaseMesh().Vertices[0], dup.BaseMesh().Vertices[0])
}

func TestRobotTransformMovesEverything(t *testing.T) {
	r := testRobot(t)
	require.NoError(t, r.AttachExternalAxis(testRotationalAxis()))

	shift := geometry.NewTranslation(r3.Vector{Y: 300})
	r.Transform(shift)

	assert.InDelta(t, 300, r.BasePlane().Origin.Y, eps)
	assert.InDelta(t, 300, r.AxisPlane(2).Origin.Y, eps)
	assert.InDelta(t, 300, r.Tool().ToolPlane.Origin.Y, eps)
	assert.InDelta(t, 300, r.ExternalAxes()[0].AxisPlane().Origin.Y, eps)
}

func TestDefaultTool(t *testing.T) {
	tool := DefaultTool()
	assert.Equal(t, "tool0", tool.Name)
	assert.True(t, tool.IsValid())
	assert.False(t, Tool{}.IsValid())
}

func TestToolDuplicateIsIndependent(t *testing.T) {
	tool := Tool{
		Name:            "gripper",
		AttachmentPlane: geometry.WorldXY(),
		ToolPlane:       geometry.WorldXY(),
		Mesh:            geometry.NewBoxMesh(r3.Vector{}, 10, 10, 10),
	}
	dup := tool.Duplicate()
	dup.Mesh.ApplyTransform(geometry.NewTranslation(r3.Vector{X: 99}))
	assert.NotEqual(t, tool.Mesh.Vertices[0], dup.Mesh.Vertices[0])
}

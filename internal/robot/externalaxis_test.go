package robot

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
)

const eps = 1e-9

func testLinearAxis() *LinearAxis {
	return NewLinearAxis("track1",
		geometry.WorldXY(),
		// Axis Z pointing along world X: the track direction.
		geometry.NewPlane(r3.Vector{}, r3.Vector{Y: 1}, r3.Vector{Z: 1}),
		Limit{Min: 0, Max: 2000},
		true,
		geometry.NewBoxMesh(r3.Vector{}, 100, 100, 100),
		geometry.NewBoxMesh(r3.Vector{Z: 100}, 50, 50, 50))
}

func testRotationalAxis() *RotationalAxis {
	return NewRotationalAxis("positioner1",
		geometry.WorldXY(),
		Limit{Min: -180, Max: 180},
		false,
		geometry.NewBoxMesh(r3.Vector{}, 100, 100, 100),
		geometry.NewBoxMesh(r3.Vector{Z: 100}, 50, 50, 50))
}

func TestLinearAxisTransformInsideLimits(t *testing.T) {
	ax := testLinearAxis()
	tr, ok := ax.CalculateTransform(500)
	assert.True(t, ok)
	got := tr.Apply(r3.Vector{})
	// Axis plane Z is world X here.
	assert.True(t, geometry.VectorsAlmostEqual(r3.Vector{X: 500}, got, eps))
}

func TestLinearAxisTransformOutsideLimits(t *testing.T) {
	ax := testLinearAxis()
	tr, ok := ax.CalculateTransform(3000)
	// Out of limits is reported but the raw transform is still computed.
	assert.False(t, ok)
	got := tr.Apply(r3.Vector{})
	assert.True(t, geometry.VectorsAlmostEqual(r3.Vector{X: 3000}, got, eps))
}

func TestCalculateTransformSaveClamps(t *testing.T) {
	ax := testLinearAxis()
	clamped := ax.CalculateTransformSave(3000)
	limit, _ := ax.CalculateTransform(2000)
	assert.True(t, geometry.VectorsAlmostEqual(limit.Apply(r3.Vector{}), clamped.Apply(r3.Vector{}), eps))

	// Inside the limits both variants agree.
	a, ok := ax.CalculateTransform(700)
	require.True(t, ok)
	b := ax.CalculateTransformSave(700)
	assert.True(t, geometry.VectorsAlmostEqual(a.Apply(r3.Vector{X: 1, Y: 2}), b.Apply(r3.Vector{X: 1, Y: 2}), eps))
}

func TestUnsetValueResolvesToClampedZero(t *testing.T) {
	ax := testLinearAxis()
	ax.SetLimits(Limit{Min: 100, Max: 2000})
	tr, ok := ax.CalculateTransform(UnsetJointValue)
	// Zero is below Min, so the sentinel resolves to Min.
	assert.True(t, ok)
	got := tr.Apply(r3.Vector{})
	assert.True(t, geometry.VectorsAlmostEqual(r3.Vector{X: 100}, got, eps))
}

func TestRotationalAxisTransform(t *testing.T) {
	ax := testRotationalAxis()
	tr, ok := ax.CalculateTransform(90)
	assert.True(t, ok)
	got := tr.Apply(r3.Vector{X: 1})
	assert.True(t, geometry.VectorsAlmostEqual(r3.Vector{Y: 1}, got, eps))

	_, ok = ax.CalculateTransform(181)
	assert.False(t, ok)
}

func TestRotationalAxisPlaneCoupling(t *testing.T) {
	ax := testRotationalAxis()
	p := geometry.NewPlane(r3.Vector{X: 7}, r3.Vector{Y: 1}, r3.Vector{Z: 1})

	ax.SetAxisPlane(p)
	assert.True(t, ax.AttachmentPlane().AlmostEqual(p, eps))

	q := geometry.NewPlane(r3.Vector{Z: 3}, r3.Vector{X: 1}, r3.Vector{Y: 1})
	ax.SetAttachmentPlane(q)
	assert.True(t, ax.AxisPlane().AlmostEqual(q, eps))
}

func TestPoseMeshesMovesLinkOnly(t *testing.T) {
	ax := testLinearAxis()
	baseBefore := ax.BaseMesh().Vertices[0]
	linkBefore := ax.LinkMesh().Vertices[0]

	posed := ax.PoseMeshes(500)
	require.Len(t, posed, 2)

	// Base copy untouched, link copy shifted along the track.
	assert.Equal(t, baseBefore, posed[0].Vertices[0])
	assert.InDelta(t, linkBefore.X+500, posed[1].Vertices[0].X, eps)

	// The stored meshes never move.
	assert.Equal(t, baseBefore, ax.BaseMesh().Vertices[0])
	assert.Equal(t, linkBefore, ax.LinkMesh().Vertices[0])
}

func TestAxisRelocation(t *testing.T) {
	ax := testRotationalAxis()
	shift := geometry.NewTranslation(r3.Vector{X: 10, Y: 20})
	originBefore := ax.AxisPlane().Origin

	ax.Transform(shift)
	assert.True(t, geometry.VectorsAlmostEqual(
		originBefore.Add(r3.Vector{X: 10, Y: 20}), ax.AxisPlane().Origin, eps))

	// Identity relocation changes nothing.
	before := ax.AxisPlane()
	ax.Transform(geometry.Identity())
	assert.True(t, before.AlmostEqual(ax.AxisPlane(), eps))
}

func TestAxisDuplicateIsIndependent(t *testing.T) {
	ax := testLinearAxis()
	dup := ax.Duplicate()
	dup.Transform(geometry.NewTranslation(r3.Vector{X: 1000}))
	dup.SetLimits(Limit{Min: -1, Max: 1})

	assert.Equal(t, Limit{Min: 0, Max: 2000}, ax.Limits())
	assert.NotEqual(t, ax.BaseMesh().Vertices[0], dup.BaseMesh().Vertices[0])
}

func TestRotationalAxisValueInDegrees(t *testing.T) {
	ax := testRotationalAxis()
	tr, _ := ax.CalculateTransform(180)
	got := tr.Apply(r3.Vector{X: 1})
	assert.InDelta(t, -1, got.X, eps)
	assert.InDelta(t, 0, math.Abs(got.Y), eps)
}

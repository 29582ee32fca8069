package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestIdentityLeavesVectorsAlone(t *testing.T) {
	id := Identity()
	v := r3.Vector{X: 1.5, Y: -2, Z: 3}
	assert.True(t, VectorsAlmostEqual(v, id.Apply(v), eps))
}

func TestTranslation(t *testing.T) {
	tr := NewTranslation(r3.Vector{X: 10, Y: 0, Z: -5})
	got := tr.Apply(r3.Vector{X: 1, Y: 2, Z: 3})
	assert.True(t, VectorsAlmostEqual(r3.Vector{X: 11, Y: 2, Z: -2}, got, eps))
}

func TestRotationAboutAxisThroughOrigin(t *testing.T) {
	// 90 degrees about world Z maps X onto Y.
	rot := NewRotationAboutAxis(math.Pi/2, r3.Vector{Z: 1}, r3.Vector{})
	got := rot.Apply(r3.Vector{X: 1})
	assert.True(t, VectorsAlmostEqual(r3.Vector{Y: 1}, got, eps))
}

func TestRotationAboutOffsetAxis(t *testing.T) {
	// Rotating the pivot point itself must leave it fixed.
	pivot := r3.Vector{X: 5, Y: 3, Z: -1}
	rot := NewRotationAboutAxis(1.23, r3.Vector{Z: 1}, pivot)
	assert.True(t, VectorsAlmostEqual(pivot, rot.Apply(pivot), eps))

	// A point one unit in +X from the pivot sweeps a unit circle around it.
	rot90 := NewRotationAboutAxis(math.Pi/2, r3.Vector{Z: 1}, pivot)
	got := rot90.Apply(pivot.Add(r3.Vector{X: 1}))
	assert.True(t, VectorsAlmostEqual(pivot.Add(r3.Vector{Y: 1}), got, eps))
}

func TestMulComposesRightToLeft(t *testing.T) {
	rot := NewRotationAboutAxis(math.Pi/2, r3.Vector{Z: 1}, r3.Vector{})
	tr := NewTranslation(r3.Vector{X: 1})

	// tr.Mul(rot): rotate first, then translate.
	got := tr.Mul(rot).Apply(r3.Vector{X: 1})
	assert.True(t, VectorsAlmostEqual(r3.Vector{X: 1, Y: 1}, got, eps))

	// rot.Mul(tr): translate first, then rotate.
	got = rot.Mul(tr).Apply(r3.Vector{X: 1})
	assert.True(t, VectorsAlmostEqual(r3.Vector{Y: 2}, got, eps))
}

func TestApplyToPlaneKeepsOrthonormality(t *testing.T) {
	p := NewPlane(r3.Vector{X: 1}, r3.Vector{X: 1, Y: 1}, r3.Vector{Y: 1})
	rot := NewRotationAboutAxis(0.7, r3.Vector{X: 1, Z: 1}.Normalize(), r3.Vector{Y: 2})
	posed := p.Transformed(rot)

	assert.InDelta(t, 1, posed.XAxis.Norm(), eps)
	assert.InDelta(t, 1, posed.YAxis.Norm(), eps)
	assert.InDelta(t, 0, posed.XAxis.Dot(posed.YAxis), eps)
	assert.True(t, VectorsAlmostEqual(posed.XAxis.Cross(posed.YAxis), posed.ZAxis, eps))
}

func TestPlaneQuaternionRoundTrip(t *testing.T) {
	// The quaternion of a rotated world frame must rotate world axes onto
	// the plane axes.
	rot := NewRotationAboutAxis(2.1, r3.Vector{X: 1, Y: -2, Z: 0.5}.Normalize(), r3.Vector{})
	p := WorldXY().Transformed(rot)

	q := Transform{R: p.Quaternion()}
	assert.True(t, VectorsAlmostEqual(p.XAxis, q.RotateVector(r3.Vector{X: 1}), 1e-7))
	assert.True(t, VectorsAlmostEqual(p.YAxis, q.RotateVector(r3.Vector{Y: 1}), 1e-7))
	assert.True(t, VectorsAlmostEqual(p.ZAxis, q.RotateVector(r3.Vector{Z: 1}), 1e-7))
}

func TestWorldXYQuaternionIsIdentity(t *testing.T) {
	q := WorldXY().Quaternion()
	assert.InDelta(t, 1, q.Real, eps)
	assert.InDelta(t, 0, q.Imag, eps)
	assert.InDelta(t, 0, q.Jmag, eps)
	assert.InDelta(t, 0, q.Kmag, eps)
}

func TestMeshDuplicateIsIndependent(t *testing.T) {
	m := NewBoxMesh(r3.Vector{}, 2, 2, 2)
	dup := m.Duplicate()
	dup.ApplyTransform(NewTranslation(r3.Vector{X: 100}))

	assert.NotEqual(t, m.Vertices[0], dup.Vertices[0])
	assert.Equal(t, m.Faces, dup.Faces)
}

func TestMeshTransformedLeavesOriginal(t *testing.T) {
	m := NewBoxMesh(r3.Vector{}, 2, 2, 2)
	before := m.Vertices[0]
	posed := m.Transformed(NewTranslation(r3.Vector{Z: 7}))

	assert.Equal(t, before, m.Vertices[0])
	assert.InDelta(t, before.Z+7, posed.Vertices[0].Z, eps)
}

func TestNilMeshIsSafe(t *testing.T) {
	var m *Mesh
	assert.Nil(t, m.Duplicate())
	assert.Nil(t, m.Transformed(Identity()))
	m.ApplyTransform(Identity())
}

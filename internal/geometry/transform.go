// Package geometry provides the rigid-body math consumed by the kinematics
// engine: rigid transforms, orthonormal frames and triangle meshes.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid transform: rotate by the unit quaternion R, then
// translate by T.
type Transform struct {
	R quat.Number
	T r3.Vector
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{R: quat.Number{Real: 1}}
}

// NewTranslation returns a pure translation by v.
func NewTranslation(v r3.Vector) Transform {
	return Transform{R: quat.Number{Real: 1}, T: v}
}

// NewRotationAboutAxis returns a rotation of angle radians about the given
// axis direction passing through point.
func NewRotationAboutAxis(angle float64, axis, point r3.Vector) Transform {
	q := quatFromAxisAngle(axis, angle)
	rot := Transform{R: q}
	return Transform{
		R: q,
		T: point.Sub(rot.RotateVector(point)),
	}
}

// Mul returns the composition t ∘ u: u is applied first, then t.
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		R: quat.Mul(t.R, u.R),
		T: t.RotateVector(u.T).Add(t.T),
	}
}

// RotateVector applies only the rotation part of t to a direction vector.
func (t Transform) RotateVector(v r3.Vector) r3.Vector {
	qv := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(t.R, qv), quat.Conj(t.R))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Apply transforms a point.
func (t Transform) Apply(p r3.Vector) r3.Vector {
	return t.RotateVector(p).Add(t.T)
}

// ApplyToPlane returns the plane posed by t.
func (t Transform) ApplyToPlane(p Plane) Plane {
	return Plane{
		Origin: t.Apply(p.Origin),
		XAxis:  t.RotateVector(p.XAxis),
		YAxis:  t.RotateVector(p.YAxis),
		ZAxis:  t.RotateVector(p.ZAxis),
	}
}

func quatFromAxisAngle(axis r3.Vector, angle float64) quat.Number {
	n := axis.Norm()
	if n == 0 {
		return quat.Number{Real: 1}
	}
	axis = axis.Mul(1 / n)
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// VectorsAlmostEqual reports whether two vectors agree within epsilon per
// component.
func VectorsAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) <= epsilon &&
		math.Abs(a.Y-b.Y) <= epsilon &&
		math.Abs(a.Z-b.Z) <= epsilon
}

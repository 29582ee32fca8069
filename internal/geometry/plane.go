package geometry

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Plane is a right-handed orthonormal frame in world coordinates.
type Plane struct {
	Origin r3.Vector `json:"origin"`
	XAxis  r3.Vector `json:"x_axis"`
	YAxis  r3.Vector `json:"y_axis"`
	ZAxis  r3.Vector `json:"z_axis"`
}

// NewPlane builds a frame from an origin and two in-plane directions.
// xAxis is normalized, yAxis is re-orthogonalized against it.
func NewPlane(origin, xAxis, yAxis r3.Vector) Plane {
	x := xAxis.Normalize()
	z := x.Cross(yAxis).Normalize()
	y := z.Cross(x)
	return Plane{Origin: origin, XAxis: x, YAxis: y, ZAxis: z}
}

// WorldXY returns the world frame at the origin.
func WorldXY() Plane {
	return Plane{
		XAxis: r3.Vector{X: 1},
		YAxis: r3.Vector{Y: 1},
		ZAxis: r3.Vector{Z: 1},
	}
}

// Transformed returns a copy of the plane posed by t.
func (p Plane) Transformed(t Transform) Plane {
	return t.ApplyToPlane(p)
}

// Quaternion returns the rotation from the world frame onto the plane's
// axes. Standard rotation-matrix-to-quaternion conversion; the matrix
// columns are the plane axes.
func (p Plane) Quaternion() quat.Number {
	m00, m01, m02 := p.XAxis.X, p.YAxis.X, p.ZAxis.X
	m10, m11, m12 := p.XAxis.Y, p.YAxis.Y, p.ZAxis.Y
	m20, m21, m22 := p.XAxis.Z, p.YAxis.Z, p.ZAxis.Z

	tr := m00 + m11 + m22
	var w, x, y, z float64
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		w = s / 4
		x = (m21 - m12) / s
		y = (m02 - m20) / s
		z = (m10 - m01) / s
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		w = (m21 - m12) / s
		x = s / 4
		y = (m01 + m10) / s
		z = (m02 + m20) / s
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		w = (m02 - m20) / s
		x = (m01 + m10) / s
		y = s / 4
		z = (m12 + m21) / s
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		w = (m10 - m01) / s
		x = (m02 + m20) / s
		y = (m12 + m21) / s
		z = s / 4
	}
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// AlmostEqual reports whether two planes agree within epsilon.
func (p Plane) AlmostEqual(other Plane, epsilon float64) bool {
	return VectorsAlmostEqual(p.Origin, other.Origin, epsilon) &&
		VectorsAlmostEqual(p.XAxis, other.XAxis, epsilon) &&
		VectorsAlmostEqual(p.YAxis, other.YAxis, epsilon) &&
		VectorsAlmostEqual(p.ZAxis, other.ZAxis, epsilon)
}

package geometry

import "github.com/golang/geo/r3"

// Mesh is a triangle soup. Faces index into Vertices.
type Mesh struct {
	Vertices []r3.Vector `json:"vertices"`
	Faces    [][3]int    `json:"faces"`
}

// NewBoxMesh returns an axis-aligned box centered at center. Link geometry
// in presets is approximated with boxes; detailed meshes come from CAD
// exports and use the same structure.
func NewBoxMesh(center r3.Vector, dx, dy, dz float64) *Mesh {
	hx, hy, hz := dx/2, dy/2, dz/2
	v := []r3.Vector{
		{X: center.X - hx, Y: center.Y - hy, Z: center.Z - hz},
		{X: center.X + hx, Y: center.Y - hy, Z: center.Z - hz},
		{X: center.X + hx, Y: center.Y + hy, Z: center.Z - hz},
		{X: center.X - hx, Y: center.Y + hy, Z: center.Z - hz},
		{X: center.X - hx, Y: center.Y - hy, Z: center.Z + hz},
		{X: center.X + hx, Y: center.Y - hy, Z: center.Z + hz},
		{X: center.X + hx, Y: center.Y + hy, Z: center.Z + hz},
		{X: center.X - hx, Y: center.Y + hy, Z: center.Z + hz},
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}
	return &Mesh{Vertices: v, Faces: f}
}

// Duplicate returns a deep copy.
func (m *Mesh) Duplicate() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Vertices: make([]r3.Vector, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Faces, m.Faces)
	return out
}

// ApplyTransform poses the mesh in place.
func (m *Mesh) ApplyTransform(t Transform) {
	if m == nil {
		return
	}
	for i := range m.Vertices {
		m.Vertices[i] = t.Apply(m.Vertices[i])
	}
}

// Transformed returns a posed deep copy, leaving the receiver untouched.
func (m *Mesh) Transformed(t Transform) *Mesh {
	out := m.Duplicate()
	out.ApplyTransform(t)
	return out
}

package robot

import (
	"fmt"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
)

// InternalAxisCount is fixed for the supported arm family.
const InternalAxisCount = 6

// MaxExternalAxes is the number of external axis slots the controller
// exposes.
const MaxExternalAxes = 6

// Robot is the static description of a 6-axis arm: base frame, per-axis
// rotation frames, limits, link meshes, the mounted tool and any attached
// external axes. All planes and meshes are in design-time world
// coordinates, i.e. the pose at all joint values 0.
type Robot struct {
	name         string
	basePlane    geometry.Plane
	axisPlanes   [InternalAxisCount]geometry.Plane
	limits       [InternalAxisCount]Limit
	baseMesh     *geometry.Mesh
	linkMeshes   [InternalAxisCount]*geometry.Mesh
	tool         Tool
	externalAxes []ExternalAxis
}

// New constructs a robot model. linkMeshes may contain nil entries when no
// display geometry is available.
func New(name string, basePlane geometry.Plane, axisPlanes []geometry.Plane, limits []Limit, baseMesh *geometry.Mesh, linkMeshes []*geometry.Mesh, tool Tool) (*Robot, error) {
	if len(axisPlanes) != InternalAxisCount {
		return nil, fmt.Errorf("robot %q: need %d axis planes, got %d", name, InternalAxisCount, len(axisPlanes))
	}
	if len(limits) != InternalAxisCount {
		return nil, fmt.Errorf("robot %q: need %d axis limits, got %d", name, InternalAxisCount, len(limits))
	}
	if len(linkMeshes) != 0 && len(linkMeshes) != InternalAxisCount {
		return nil, fmt.Errorf("robot %q: need %d link meshes or none, got %d", name, InternalAxisCount, len(linkMeshes))
	}
	for i, l := range limits {
		if !l.Valid() {
			return nil, fmt.Errorf("robot %q: axis %d limit min %.2f > max %.2f", name, i+1, l.Min, l.Max)
		}
	}

	r := &Robot{
		name:      name,
		basePlane: basePlane,
		baseMesh:  baseMesh,
		tool:      tool,
	}
	copy(r.axisPlanes[:], axisPlanes)
	copy(r.limits[:], limits)
	copy(r.linkMeshes[:], linkMeshes)
	return r, nil
}

func (r *Robot) Name() string              { return r.name }
func (r *Robot) BasePlane() geometry.Plane { return r.basePlane }
func (r *Robot) BaseMesh() *geometry.Mesh  { return r.baseMesh }
func (r *Robot) Tool() Tool                { return r.tool }

// SetTool swaps the mounted tool.
func (r *Robot) SetTool(t Tool) {
	r.tool = t
}

// AxisPlane returns the rotation frame of internal axis i (0-based).
func (r *Robot) AxisPlane(i int) geometry.Plane { return r.axisPlanes[i] }

// AxisLimit returns the limit of internal axis i (0-based).
func (r *Robot) AxisLimit(i int) Limit { return r.limits[i] }

// LinkMesh returns the link mesh posed by axis i, or nil.
func (r *Robot) LinkMesh(i int) *geometry.Mesh { return r.linkMeshes[i] }

// AttachExternalAxis adds an auxiliary axis. Assigned axis numbers must be
// unique across the attached set.
func (r *Robot) AttachExternalAxis(axis ExternalAxis) error {
	if len(r.externalAxes) >= MaxExternalAxes {
		return fmt.Errorf("robot %q: at most %d external axes", r.name, MaxExternalAxes)
	}
	if n := axis.AxisNumber(); n >= 0 {
		for _, other := range r.externalAxes {
			if other.AxisNumber() == n {
				return fmt.Errorf("robot %q: external axis number %d already taken by %q", r.name, n, other.Name())
			}
		}
	}
	r.externalAxes = append(r.externalAxes, axis)
	return nil
}

// ExternalAxes returns the attached axes in assignment order.
func (r *Robot) ExternalAxes() []ExternalAxis {
	return r.externalAxes
}

// Transform relocates the whole robot assembly, external axes included.
func (r *Robot) Transform(t geometry.Transform) {
	r.basePlane = r.basePlane.Transformed(t)
	for i := range r.axisPlanes {
		r.axisPlanes[i] = r.axisPlanes[i].Transformed(t)
	}
	r.baseMesh.ApplyTransform(t)
	for _, m := range r.linkMeshes {
		m.ApplyTransform(t)
	}
	r.tool.Transform(t)
	for _, ax := range r.externalAxes {
		ax.Transform(t)
	}
}

// Duplicate returns a deep, independent copy.
func (r *Robot) Duplicate() *Robot {
	out := &Robot{
		name:      r.name,
		basePlane: r.basePlane,
		baseMesh:  r.baseMesh.Duplicate(),
		tool:      r.tool.Duplicate(),
	}
	out.axisPlanes = r.axisPlanes
	out.limits = r.limits
	for i, m := range r.linkMeshes {
		out.linkMeshes[i] = m.Duplicate()
	}
	out.externalAxes = make([]ExternalAxis, len(r.externalAxes))
	for i, ax := range r.externalAxes {
		out.externalAxes[i] = ax.Duplicate()
	}
	return out
}

// IsValid reports structural completeness.
func (r *Robot) IsValid() bool {
	if r.name == "" || !r.tool.IsValid() {
		return false
	}
	for _, l := range r.limits {
		if !l.Valid() {
			return false
		}
	}
	return true
}

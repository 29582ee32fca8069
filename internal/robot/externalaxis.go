package robot

import (
	"math"

	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
)

// AxisKind distinguishes the two external axis variants.
type AxisKind string

const (
	AxisKindLinear     AxisKind = "linear"
	AxisKindRotational AxisKind = "rotational"
)

// ExternalAxis is one auxiliary axis: a track carrying the robot or a part
// positioner. Implementations compute their own pose transform from a joint
// value.
type ExternalAxis interface {
	Kind() AxisKind
	Name() string

	// AxisNumber is the controller slot -1..5; -1 means unassigned.
	AxisNumber() int
	SetAxisNumber(n int)

	AttachmentPlane() geometry.Plane
	SetAttachmentPlane(p geometry.Plane)
	AxisPlane() geometry.Plane
	SetAxisPlane(p geometry.Plane)

	Limits() Limit
	SetLimits(l Limit)

	// MovesRobot distinguishes a track that carries the robot base from a
	// positioner that only moves the workpiece.
	MovesRobot() bool

	BaseMesh() *geometry.Mesh
	LinkMesh() *geometry.Mesh
	SetMeshes(base, link *geometry.Mesh)

	// CalculateTransform computes the pose transform for the raw joint
	// value. The bool is false when the value is outside the limits; the
	// transform is still computed from the raw value so that callers can
	// visualize the violation.
	CalculateTransform(value float64) (geometry.Transform, bool)

	// CalculateTransformSave clamps the value into the limits first and
	// therefore always succeeds.
	CalculateTransformSave(value float64) geometry.Transform

	// PoseMeshes returns duplicates of the base and link meshes with the
	// raw-value transform applied to the link copy only.
	PoseMeshes(value float64) []*geometry.Mesh

	// Transform relocates the whole axis (frames and meshes) in the scene.
	Transform(t geometry.Transform)

	Duplicate() ExternalAxis
	IsValid() bool
}

// resolveAxisValue substitutes the unset sentinel with the in-limit value
// closest to zero.
func resolveAxisValue(v float64, l Limit) float64 {
	if IsUnset(v) {
		return l.Clamp(0)
	}
	return v
}

// LinearAxis translates along its axis plane's Z direction.
type LinearAxis struct {
	name            string
	axisNumber      int
	attachmentPlane geometry.Plane
	axisPlane       geometry.Plane
	limits          Limit
	movesRobot      bool
	baseMesh        *geometry.Mesh
	linkMesh        *geometry.Mesh

	posedMeshes []*geometry.Mesh // invalidated on mesh/limit change
}

// NewLinearAxis constructs a linear external axis. The link mesh is posed
// for joint value 0.
func NewLinearAxis(name string, attachment, axis geometry.Plane, limits Limit, movesRobot bool, base, link *geometry.Mesh) *LinearAxis {
	return &LinearAxis{
		name:            name,
		axisNumber:      -1,
		attachmentPlane: attachment,
		axisPlane:       axis,
		limits:          limits,
		movesRobot:      movesRobot,
		baseMesh:        base,
		linkMesh:        link,
	}
}

func (a *LinearAxis) Kind() AxisKind    { return AxisKindLinear }
func (a *LinearAxis) Name() string      { return a.name }
func (a *LinearAxis) AxisNumber() int   { return a.axisNumber }
func (a *LinearAxis) SetAxisNumber(n int) {
	a.axisNumber = n
}

func (a *LinearAxis) AttachmentPlane() geometry.Plane { return a.attachmentPlane }
func (a *LinearAxis) SetAttachmentPlane(p geometry.Plane) {
	a.attachmentPlane = p
}

func (a *LinearAxis) AxisPlane() geometry.Plane { return a.axisPlane }
func (a *LinearAxis) SetAxisPlane(p geometry.Plane) {
	a.axisPlane = p
}

func (a *LinearAxis) Limits() Limit { return a.limits }
func (a *LinearAxis) SetLimits(l Limit) {
	a.limits = l
	a.posedMeshes = nil
}

func (a *LinearAxis) MovesRobot() bool          { return a.movesRobot }
func (a *LinearAxis) BaseMesh() *geometry.Mesh  { return a.baseMesh }
func (a *LinearAxis) LinkMesh() *geometry.Mesh  { return a.linkMesh }
func (a *LinearAxis) SetMeshes(base, link *geometry.Mesh) {
	a.baseMesh = base
	a.linkMesh = link
	a.posedMeshes = nil
}

func (a *LinearAxis) CalculateTransform(value float64) (geometry.Transform, bool) {
	value = resolveAxisValue(value, a.limits)
	t := geometry.NewTranslation(a.axisPlane.ZAxis.Mul(value))
	return t, a.limits.Contains(value)
}

func (a *LinearAxis) CalculateTransformSave(value float64) geometry.Transform {
	value = a.limits.Clamp(resolveAxisValue(value, a.limits))
	return geometry.NewTranslation(a.axisPlane.ZAxis.Mul(value))
}

func (a *LinearAxis) PoseMeshes(value float64) []*geometry.Mesh {
	t, _ := a.CalculateTransform(value)
	a.posedMeshes = []*geometry.Mesh{
		a.baseMesh.Duplicate(),
		a.linkMesh.Transformed(t),
	}
	return a.posedMeshes
}

func (a *LinearAxis) Transform(t geometry.Transform) {
	a.attachmentPlane = a.attachmentPlane.Transformed(t)
	a.axisPlane = a.axisPlane.Transformed(t)
	a.baseMesh.ApplyTransform(t)
	a.linkMesh.ApplyTransform(t)
	a.posedMeshes = nil
}

func (a *LinearAxis) Duplicate() ExternalAxis {
	out := *a
	out.baseMesh = a.baseMesh.Duplicate()
	out.linkMesh = a.linkMesh.Duplicate()
	out.posedMeshes = nil
	return &out
}

func (a *LinearAxis) IsValid() bool {
	return a.name != "" && a.limits.Valid()
}

// RotationalAxis rotates about its axis plane's Z direction through the
// axis plane origin. The attachment plane is kept equal to the axis plane
// on every setter call; the two are not modeled independently for the
// rotational variant.
type RotationalAxis struct {
	name            string
	axisNumber      int
	attachmentPlane geometry.Plane
	axisPlane       geometry.Plane
	limits          Limit
	movesRobot      bool
	baseMesh        *geometry.Mesh
	linkMesh        *geometry.Mesh

	posedMeshes []*geometry.Mesh
}

// NewRotationalAxis constructs a rotational external axis (positioner).
// The attachment plane is forced onto the axis plane.
func NewRotationalAxis(name string, axis geometry.Plane, limits Limit, movesRobot bool, base, link *geometry.Mesh) *RotationalAxis {
	return &RotationalAxis{
		name:            name,
		axisNumber:      -1,
		attachmentPlane: axis,
		axisPlane:       axis,
		limits:          limits,
		movesRobot:      movesRobot,
		baseMesh:        base,
		linkMesh:        link,
	}
}

func (a *RotationalAxis) Kind() AxisKind    { return AxisKindRotational }
func (a *RotationalAxis) Name() string      { return a.name }
func (a *RotationalAxis) AxisNumber() int   { return a.axisNumber }
func (a *RotationalAxis) SetAxisNumber(n int) {
	a.axisNumber = n
}

func (a *RotationalAxis) AttachmentPlane() geometry.Plane { return a.attachmentPlane }
func (a *RotationalAxis) SetAttachmentPlane(p geometry.Plane) {
	a.attachmentPlane = p
	a.axisPlane = p
}

func (a *RotationalAxis) AxisPlane() geometry.Plane { return a.axisPlane }
func (a *RotationalAxis) SetAxisPlane(p geometry.Plane) {
	a.axisPlane = p
	a.attachmentPlane = p
}

func (a *RotationalAxis) Limits() Limit { return a.limits }
func (a *RotationalAxis) SetLimits(l Limit) {
	a.limits = l
	a.posedMeshes = nil
}

func (a *RotationalAxis) MovesRobot() bool         { return a.movesRobot }
func (a *RotationalAxis) BaseMesh() *geometry.Mesh { return a.baseMesh }
func (a *RotationalAxis) LinkMesh() *geometry.Mesh { return a.linkMesh }
func (a *RotationalAxis) SetMeshes(base, link *geometry.Mesh) {
	a.baseMesh = base
	a.linkMesh = link
	a.posedMeshes = nil
}

func (a *RotationalAxis) CalculateTransform(value float64) (geometry.Transform, bool) {
	value = resolveAxisValue(value, a.limits)
	t := geometry.NewRotationAboutAxis(value*math.Pi/180, a.axisPlane.ZAxis, a.axisPlane.Origin)
	return t, a.limits.Contains(value)
}

func (a *RotationalAxis) CalculateTransformSave(value float64) geometry.Transform {
	value = a.limits.Clamp(resolveAxisValue(value, a.limits))
	return geometry.NewRotationAboutAxis(value*math.Pi/180, a.axisPlane.ZAxis, a.axisPlane.Origin)
}

func (a *RotationalAxis) PoseMeshes(value float64) []*geometry.Mesh {
	t, _ := a.CalculateTransform(value)
	a.posedMeshes = []*geometry.Mesh{
		a.baseMesh.Duplicate(),
		a.linkMesh.Transformed(t),
	}
	return a.posedMeshes
}

func (a *RotationalAxis) Transform(t geometry.Transform) {
	a.attachmentPlane = a.attachmentPlane.Transformed(t)
	a.axisPlane = a.axisPlane.Transformed(t)
	a.baseMesh.ApplyTransform(t)
	a.linkMesh.ApplyTransform(t)
	a.posedMeshes = nil
}

func (a *RotationalAxis) Duplicate() ExternalAxis {
	out := *a
	out.baseMesh = a.baseMesh.Duplicate()
	out.linkMesh = a.linkMesh.Duplicate()
	out.posedMeshes = nil
	return &out
}

func (a *RotationalAxis) IsValid() bool {
	return a.name != "" && a.limits.Valid()
}

// Package tracer traces rays sequentially through an ordered chain of
// refractive lenses and reflective mirrors.
//
// The tracer never computes surface geometry itself: every surface is probed
// through an Intersector, and the tracer only selects among the returned hits,
// applies Snell's law or the law of reflection, and records the polyline.
package tracer

import "seqtrace/internal/mathutil"

// Vec3 is the vector type used throughout the trace.
type Vec3 = mathutil.Vec3

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a ray with the direction normalized.
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// SurfaceHandle is an opaque reference to a surface that only the
// Intersector knows how to interpret.
type SurfaceHandle any

// Hit is one intersection reported by an Intersector.
//
// Point is in world coordinates. Normal is in the mesh-local convention (see
// MeshToWorldNormal) and faces against the probing ray. Distance is >= 0
// along the probing ray. NoPoint and NoNormal mark records the intersector
// could not fill in.
type Hit struct {
	Point    Vec3
	Normal   Vec3
	Distance float64
	NoPoint  bool
	NoNormal bool
}

// Intersector probes a surface with a ray. The returned hits are in no
// particular order. Implementations used from several goroutines must be safe
// for concurrent use; wrap them with Serialize otherwise.
type Intersector interface {
	Intersect(r Ray, s SurfaceHandle) []Hit
}

// IntersectorFunc adapts a plain function to the Intersector interface.
type IntersectorFunc func(r Ray, s SurfaceHandle) []Hit

func (f IntersectorFunc) Intersect(r Ray, s SurfaceHandle) []Hit { return f(r, s) }

// Element is one optical element of a chain: a Lens or a Mirror.
type Element interface {
	Label() string
	isElement()
}

// Lens is one physical object presenting an entry and an exit boundary.
type Lens struct {
	Name    string
	Index   float64 // refractive index of the glass
	Surface SurfaceHandle
}

// Mirror is a single reflective boundary.
//
// With a nil Orientation the mirror normal is taken from the selected hit.
type Mirror struct {
	Name        string
	Surface     SurfaceHandle
	Orientation *Orientation
}

// Orientation gives a mirror normal as the Up vector rotated by Rotation
// (Euler XYZ angles in radians).
type Orientation struct {
	Up       Vec3
	Rotation Vec3
}

// Normal returns the rotated, normalized Up vector.
func (o Orientation) Normal() Vec3 {
	return mathutil.EulerXYZ(o.Rotation).MulVec3(o.Up).Normalize()
}

func (l Lens) Label() string   { return l.Name }
func (m Mirror) Label() string { return m.Name }

func (Lens) isElement()   {}
func (Mirror) isElement() {}

// MeshToWorldNormal converts a normal from the mesh-local convention, where
// the mesh up axis (y) is the optical axis, to world coordinates:
// (x, y, z) -> (x, -z, y). Every normal coming out of an Intersector goes
// through here exactly once.
func MeshToWorldNormal(n Vec3) Vec3 {
	return Vec3{n[0], -n[2], n[1]}
}

// WorldToMeshNormal is the inverse of MeshToWorldNormal, for Intersector
// implementations that compute normals in world coordinates.
func WorldToMeshNormal(n Vec3) Vec3 {
	return Vec3{n[0], n[2], -n[1]}
}

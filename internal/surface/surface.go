// Package surface provides analytic optical surfaces and an Intersector for
// them, standing in for a scene raycaster.
package surface

import (
	"math"

	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

// hitEpsilon tolerates probes starting exactly on a boundary.
const hitEpsilon = 1e-9

// Pose places a shape in the world: local points are rotated by Rotation
// (Euler XYZ, radians) and then translated by Position.
type Pose struct {
	Position mathutil.Vec3
	Rotation mathutil.Vec3
}

func (p Pose) matrix() mathutil.Mat3 { return mathutil.EulerXYZ(p.Rotation) }

// Shape is a surface usable as a tracer.SurfaceHandle with Intersector.
type Shape interface {
	placement() Pose
	// localHits returns ray parameters and outward normals in the local frame.
	localHits(o, d mathutil.Vec3) []localHit
}

type localHit struct {
	t float64
	n mathutil.Vec3
}

// Intersector intersects rays with Shape handles. It keeps no state and is
// safe for concurrent use.
type Intersector struct{}

var _ tracer.Intersector = Intersector{}

// Intersect reports every boundary of s ahead of r, in no particular order.
// Normals face against r and use the mesh-local convention.
func (Intersector) Intersect(r tracer.Ray, s tracer.SurfaceHandle) []tracer.Hit {
	shape, ok := s.(Shape)
	if !ok || shape == nil {
		return nil
	}
	pose := shape.placement()
	R := pose.matrix()
	Rt := R.Transpose()
	o := Rt.MulVec3(r.Origin.Sub(pose.Position))
	d := Rt.MulVec3(r.Direction)

	var hits []tracer.Hit
	for _, lh := range shape.localHits(o, d) {
		if lh.t < -hitEpsilon || math.IsNaN(lh.t) {
			continue
		}
		t := math.Max(lh.t, 0)
		n := R.MulVec3(lh.n).Normalize()
		if n.Dot(r.Direction) > 0 {
			n = n.Scale(-1)
		}
		hits = append(hits, tracer.Hit{
			Point:    r.At(t),
			Normal:   tracer.WorldToMeshNormal(n),
			Distance: t,
		})
	}
	return hits
}

// Sag returns the axial depth of a sphere of radius R at height r from the
// axis. R == 0 is a plane.
func Sag(R, r float64) float64 {
	if R == 0 {
		return 0
	}
	q := R*R - r*r
	if q < 0 {
		q = 0
	}
	return r * r / (R + math.Copysign(math.Sqrt(q), R))
}

package mathutil

import "math"

// IntersectRayPlane intersects the ray (origin, dir) with the plane through
// planePoint with normal planeNormal (any non-zero length).
//
// The second result is the straight-line distance from origin to the hit,
// not the ray parameter. ok is false when the ray is parallel to the plane
// (and not lying in it) or the plane is behind the ray origin.
func IntersectRayPlane(origin, dir, planePoint, planeNormal Vec3) (hit Vec3, dist float64, ok bool) {
	denom := planeNormal.Dot(dir)
	signed := planeNormal.Dot(origin.Sub(planePoint))
	var t float64
	if denom == 0 {
		if signed != 0 {
			return Vec3{}, 0, false
		}
		t = 0
	} else {
		t = -signed / denom
	}
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return Vec3{}, 0, false
	}
	hit = origin.Add(dir.Scale(t))
	return hit, origin.DistanceTo(hit), true
}

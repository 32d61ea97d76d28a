package tracer

import "seqtrace/internal/mathutil"

func intersectPlane(r Ray, p Plane) (Vec3, float64, bool) {
	return mathutil.IntersectRayPlane(r.Origin, r.Direction, p.Origin, p.Normal)
}

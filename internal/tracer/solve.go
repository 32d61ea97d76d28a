package tracer

import "math"

// Refract returns the direction of a ray crossing from a medium of index
// nFrom into one of index nTo, using the vector form of Snell's law.
//
// normal must face against incident (incident·normal <= 0). Past the
// critical angle the reflected direction is returned instead. The result is
// always unit length, or zero if incident is zero.
func Refract(incident, normal Vec3, nFrom, nTo float64) Vec3 {
	if incident.IsZero() {
		return Vec3{}
	}
	cosI := incident.Dot(normal)
	sinI := math.Sqrt(math.Max(0, 1-cosI*cosI))
	eta := nFrom / nTo
	sinT := eta * sinI
	if sinT > 1 {
		return Reflect(incident, normal).Normalize()
	}
	cosT := math.Sqrt(math.Max(0, 1-sinT*sinT))
	return incident.Sub(normal.Scale(cosI)).Scale(eta).Sub(normal.Scale(cosT)).Normalize()
}

// TotalInternalReflection reports whether Refract would reflect.
func TotalInternalReflection(incident, normal Vec3, nFrom, nTo float64) bool {
	cosI := incident.Dot(normal)
	sinI := math.Sqrt(math.Max(0, 1-cosI*cosI))
	return nFrom/nTo*sinI > 1
}

// Reflect mirrors incident about the unit normal.
func Reflect(incident, normal Vec3) Vec3 {
	return incident.Reflect(normal)
}

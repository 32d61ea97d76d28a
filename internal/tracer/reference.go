package tracer

// Reference is the target the final ray is projected onto after the last
// element: an Offset, a Point or a Plane. A nil Reference or Offset(0) means
// no projection.
type Reference interface {
	isReference()
}

// Offset extends the last ray by a fixed distance along its direction.
type Offset float64

// Point appends a fixed world point, carrying the last direction forward.
type Point Vec3

// Plane projects the last ray onto the plane through Origin with Normal.
type Plane struct {
	Origin Vec3
	Normal Vec3
}

func (Offset) isReference() {}
func (Point) isReference()  {}
func (Plane) isReference()  {}

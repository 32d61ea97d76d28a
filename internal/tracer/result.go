package tracer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIntersection means a surface reported no hit for the probing ray.
	ErrNoIntersection = errors.New("no intersection")
	// ErrMalformedHit means a hit record was missing its point or normal.
	ErrMalformedHit = errors.New("malformed hit")
	// ErrDegenerateProjection means the final ray never meets the reference plane.
	ErrDegenerateProjection = errors.New("degenerate projection")
)

// Status tells whether the whole chain was traversed.
type Status int

const (
	Complete Status = iota
	Truncated
)

func (s Status) String() string {
	switch s {
	case Complete:
		return "complete"
	case Truncated:
		return "truncated"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Side identifies which boundary of an element a diagnostic refers to.
type Side int

const (
	Entry Side = iota
	Exit
	Terminal // the final projection, not an element boundary
)

func (s Side) String() string {
	switch s {
	case Entry:
		return "entry"
	case Exit:
		return "exit"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic records a recovered or truncating condition during a trace.
// Element is -1 for the terminal projection.
type Diagnostic struct {
	Err     error
	Element int
	Side    Side
	Label   string
}

func (d Diagnostic) Error() string {
	if d.Side == Terminal {
		return fmt.Sprintf("terminal projection: %v", d.Err)
	}
	if d.Label != "" {
		return fmt.Sprintf("element %d (%s) %s: %v", d.Element, d.Label, d.Side, d.Err)
	}
	return fmt.Sprintf("element %d %s: %v", d.Element, d.Side, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Result is the trace of one ray.
//
// Points[0] and Directions[0] are the launch state; every later pair is one
// surface crossing in traversal order, followed by the projected point when
// Projected is set. Normals[i] is the world normal used at Points[i+1]; the
// projected point has no normal.
type Result struct {
	Points      []Vec3
	Directions  []Vec3
	Normals     []Vec3
	Status      Status
	Elements    int // number of elements fully traversed
	Projected   bool
	Diagnostics []Diagnostic
}

// Last returns the last recorded ray.
func (r *Result) Last() Ray {
	n := len(r.Points) - 1
	return Ray{Origin: r.Points[n], Direction: r.Directions[n]}
}

// Final returns the last recorded point.
func (r *Result) Final() Vec3 {
	return r.Points[len(r.Points)-1]
}

// Crossings returns the number of surface crossings recorded.
func (r *Result) Crossings() int {
	return len(r.Normals)
}

// Has reports whether any diagnostic matches target.
func (r *Result) Has(target error) bool {
	for _, d := range r.Diagnostics {
		if errors.Is(d.Err, target) {
			return true
		}
	}
	return false
}

// builder accumulates the three parallel sequences of a Result.
type builder struct {
	res Result
}

func newBuilder(start Ray, capacity int) *builder {
	b := &builder{res: Result{
		Points:     make([]Vec3, 0, capacity+1),
		Directions: make([]Vec3, 0, capacity+1),
		Normals:    make([]Vec3, 0, capacity),
	}}
	b.res.Points = append(b.res.Points, start.Origin)
	b.res.Directions = append(b.res.Directions, start.Direction)
	return b
}

func (b *builder) last() Ray { return b.res.Last() }

func (b *builder) cross(point, normal, dir Vec3) {
	b.res.Points = append(b.res.Points, point)
	b.res.Normals = append(b.res.Normals, normal)
	b.res.Directions = append(b.res.Directions, dir)
}

func (b *builder) project(point Vec3) {
	dir := b.res.Directions[len(b.res.Directions)-1]
	b.res.Points = append(b.res.Points, point)
	b.res.Directions = append(b.res.Directions, dir)
	b.res.Projected = true
}

func (b *builder) note(d Diagnostic) {
	b.res.Diagnostics = append(b.res.Diagnostics, d)
}

func (b *builder) truncate(d Diagnostic) Result {
	b.note(d)
	b.res.Status = Truncated
	return b.res
}

func (b *builder) done() Result {
	return b.res
}

package bundle

import (
	"fmt"
	"math"

	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

// Aperture is a normalized launch coordinate; the unit disc spans the pupil.
type Aperture struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Launch describes where aperture coordinates start their rays.
type Launch struct {
	Radius    float64
	StartZ    float64
	Direction mathutil.Vec3
}

// Ray returns the launch ray for a: origin (x·radius, y·radius, startZ).
func (l Launch) Ray(a Aperture) tracer.Ray {
	return tracer.NewRay(mathutil.Vec3{a.X * l.Radius, a.Y * l.Radius, l.StartZ}, l.Direction)
}

// Pattern names accepted by Pattern.
const (
	Fan   = "fan"
	Cross = "cross"
	Grid  = "grid"
	Ring  = "ring"
)

// Pattern generates n-point aperture samples. The result is deterministic.
//
//	fan    n points along y in [-1, 1]
//	cross  a fan along x and one along y, sharing the centre
//	grid   an n×n lattice over [-1, 1]² clipped to the unit disc
//	ring   n points evenly spaced on the rim
func Pattern(kind string, n int) ([]Aperture, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bundle: pattern %q needs a positive count, got %d", kind, n)
	}
	switch kind {
	case Fan:
		pts := make([]Aperture, n)
		for i := range pts {
			pts[i] = Aperture{Y: span(i, n)}
		}
		return pts, nil
	case Cross:
		var pts []Aperture
		for i := 0; i < n; i++ {
			pts = append(pts, Aperture{X: span(i, n)})
		}
		for i := 0; i < n; i++ {
			y := span(i, n)
			if y == 0 {
				continue
			}
			pts = append(pts, Aperture{Y: y})
		}
		return pts, nil
	case Grid:
		var pts []Aperture
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				a := Aperture{X: span(i, n), Y: span(j, n)}
				if a.X*a.X+a.Y*a.Y <= 1+1e-9 {
					pts = append(pts, a)
				}
			}
		}
		return pts, nil
	case Ring:
		pts := make([]Aperture, n)
		for i := range pts {
			s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
			pts[i] = Aperture{X: c, Y: s}
		}
		return pts, nil
	}
	return nil, fmt.Errorf("bundle: unknown aperture pattern %q", kind)
}

// span maps i in [0, n) onto [-1, 1]; a single sample sits on the axis.
func span(i, n int) float64 {
	if n == 1 {
		return 0
	}
	return -1 + 2*float64(i)/float64(n-1)
}

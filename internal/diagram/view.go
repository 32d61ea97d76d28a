// Package diagram draws orthographic ray diagrams of traced bundles.
package diagram

import (
	"fmt"
	"math"

	"seqtrace/internal/mathutil"
)

// View selects which world axes become the image axes.
type View int

const (
	SideView View = iota // yz: z across, y up
	TopView              // xz: z across, x up
	BeamView             // xy: looking down the beam
)

// ParseView accepts "yz", "xz" or "xy".
func ParseView(s string) (View, error) {
	switch s {
	case "yz", "side":
		return SideView, nil
	case "xz", "top":
		return TopView, nil
	case "xy", "beam":
		return BeamView, nil
	}
	return 0, fmt.Errorf("diagram: unknown view %q", s)
}

func (v View) String() string {
	switch v {
	case SideView:
		return "yz"
	case TopView:
		return "xz"
	case BeamView:
		return "xy"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Matrix maps a world point to (horizontal, vertical, depth).
func (v View) Matrix() mathutil.Mat3 {
	switch v {
	case TopView:
		return mathutil.Mat3{
			0, 0, 1,
			1, 0, 0,
			0, 1, 0,
		}
	case BeamView:
		return mathutil.Mat3Identity()
	}
	return mathutil.Mat3{
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
	}
}

// Projection maps world points to pixel coordinates of a square canvas.
type Projection struct {
	R      mathutil.Mat3
	Center [2]float64
	Scale  float64
	Half   float64
}

// Fit builds a projection that frames every point with margin pixels to spare.
func Fit(points []mathutil.Vec3, R mathutil.Mat3, size, margin int) Projection {
	lo := [2]float64{math.Inf(1), math.Inf(1)}
	hi := [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		t := R.MulVec3(p)
		for k := 0; k < 2; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}
	if len(points) == 0 {
		lo, hi = [2]float64{}, [2]float64{}
	}

	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}
	usable := float64(size - 2*margin)
	if usable < 1 {
		usable = 1
	}
	return Projection{
		R:      R,
		Center: [2]float64{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2},
		Scale:  usable / span,
		Half:   float64(size) / 2,
	}
}

// Project returns the pixel position of p. Image y grows downward.
func (pr Projection) Project(p mathutil.Vec3) (x, y float64) {
	t := pr.R.MulVec3(p)
	return (t[0]-pr.Center[0])*pr.Scale + pr.Half, -(t[1]-pr.Center[1])*pr.Scale + pr.Half
}

package diagram

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

// Options controls a diagram render.
type Options struct {
	View        View
	Size        int // output edge in pixels
	Supersample int
}

type rgb struct{ r, g, b float64 }

var (
	background    = rgb{1, 1, 1}
	axisColor     = rgb{0.8, 0.8, 0.8}
	completeColor = rgb{0.85, 0.1, 0.1}
	// Truncated rays stop where a surface was missed.
	truncatedColor = rgb{0.15, 0.35, 0.9}
	hitColor       = rgb{0.1, 0.1, 0.1}
)

// Render draws every trace as a polyline through its points, with surface
// crossings dotted. The canvas is fitted to the traces.
func Render(traces []bundle.Trace, opts Options) *image.NRGBA {
	size := opts.Size
	if size <= 0 {
		size = 800
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	rs := size * ss

	var all []mathutil.Vec3
	for _, t := range traces {
		all = append(all, t.Result.Points...)
	}
	pr := Fit(all, opts.View.Matrix(), rs, 16*ss)

	dc := gg.NewContext(rs, rs)
	dc.SetRGB(background.r, background.g, background.b)
	dc.Clear()

	// Optical axis crosshair through the world origin.
	ox, oy := pr.Project(mathutil.Vec3{})
	dc.SetRGB(axisColor.r, axisColor.g, axisColor.b)
	dc.SetLineWidth(float64(ss))
	dc.DrawLine(0, oy, float64(rs), oy)
	dc.DrawLine(ox, 0, ox, float64(rs))
	dc.Stroke()

	for _, t := range traces {
		drawTrace(dc, pr, t.Result, float64(ss))
	}

	img := toNRGBA(dc.Image())
	return Downsample(img, ss)
}

func drawTrace(dc *gg.Context, pr Projection, r tracer.Result, ss float64) {
	if len(r.Points) == 0 {
		return
	}
	c := completeColor
	if r.Status == tracer.Truncated {
		c = truncatedColor
	}
	dc.SetRGB(c.r, c.g, c.b)
	dc.SetLineWidth(1.5 * ss)
	for i, p := range r.Points {
		x, y := pr.Project(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	// Points between the launch point and the optional projected point
	// are surface crossings.
	crossings := r.Points[1:]
	if r.Projected {
		crossings = crossings[:len(crossings)-1]
	}
	dc.SetRGB(hitColor.r, hitColor.g, hitColor.b)
	for _, p := range crossings {
		x, y := pr.Project(p)
		dc.DrawCircle(x, y, 2*ss)
		dc.Fill()
	}
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

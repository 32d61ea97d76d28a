package tracer

import (
	"fmt"
	"io"
	"log/slog"
)

// DefaultAmbientIndex is the refractive index of air.
const DefaultAmbientIndex = 1.0

// Tracer walks an element chain with one ray at a time. A Tracer holds no
// per-trace state and may be shared by concurrent Trace calls as long as its
// Intersector is safe for concurrent use.
type Tracer struct {
	ix      Intersector
	ambient float64
	log     *slog.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithLogger sets the diagnostics sink. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracer) {
		if l != nil {
			t.log = l
		}
	}
}

// WithAmbientIndex sets the refractive index surrounding the elements.
func WithAmbientIndex(n float64) Option {
	return func(t *Tracer) {
		if n > 0 {
			t.ambient = n
		}
	}
}

// New returns a Tracer probing surfaces through ix.
func New(ix Intersector, opts ...Option) *Tracer {
	t := &Tracer{
		ix:      ix,
		ambient: DefaultAmbientIndex,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// AmbientIndex returns the configured ambient refractive index.
func (t *Tracer) AmbientIndex() float64 { return t.ambient }

// Trace propagates start through elements in order and optionally projects
// the final ray onto ref. It never fails: a surface that is missed ends the
// trace early with Status Truncated and everything recorded so far.
func (t *Tracer) Trace(elements []Element, start Ray, ref Reference) Result {
	start = NewRay(start.Origin, start.Direction)
	b := newBuilder(start, 2*len(elements)+1)

	for i, el := range elements {
		var ok bool
		switch e := el.(type) {
		case Lens:
			ok = t.lens(b, i, e)
		case *Lens:
			if e == nil {
				ok = t.skip(i, el)
				break
			}
			ok = t.lens(b, i, *e)
		case Mirror:
			ok = t.mirror(b, i, e)
		case *Mirror:
			if e == nil {
				ok = t.skip(i, el)
				break
			}
			ok = t.mirror(b, i, *e)
		default:
			ok = t.skip(i, el)
		}
		if !ok {
			res := b.done()
			t.log.Warn("trace truncated",
				"element", i, "label", el.Label(),
				"crossings", res.Crossings(), "last", res.Final())
			return res
		}
		b.res.Elements++
	}

	t.project(b, ref)
	return b.done()
}

// skip passes over elements the tracer cannot probe, including nil pointers.
func (t *Tracer) skip(i int, el Element) bool {
	t.log.Warn("unusable element, skipping", "element", i, "type", fmt.Sprintf("%T", el))
	return true
}

func (t *Tracer) lens(b *builder, i int, l Lens) bool {
	in := b.last()
	hits := t.ix.Intersect(in, l.Surface)
	t.log.Debug("lens entry probe", "element", i, "label", l.Name, "hits", len(hits))
	if len(hits) == 0 {
		b.truncate(Diagnostic{Err: ErrNoIntersection, Element: i, Side: Entry, Label: l.Name})
		return false
	}
	p, n := t.resolve(b, i, Entry, l.Name, hits[nearest(hits)])
	d := Refract(in.Direction, n, t.ambient, l.Index)
	b.cross(p, n, d)

	// The exit probe starts on the entry boundary and can strike it again;
	// the farthest hit along the probe is the exit boundary.
	hits = t.ix.Intersect(Ray{Origin: p, Direction: d}, l.Surface)
	t.log.Debug("lens exit probe", "element", i, "label", l.Name, "hits", len(hits))
	if len(hits) == 0 {
		b.truncate(Diagnostic{Err: ErrNoIntersection, Element: i, Side: Exit, Label: l.Name})
		return false
	}
	p2, n2 := t.resolve(b, i, Exit, l.Name, hits[farthest(hits)])
	b.cross(p2, n2, Refract(d, n2, l.Index, t.ambient))
	return true
}

func (t *Tracer) mirror(b *builder, i int, m Mirror) bool {
	in := b.last()
	hits := t.ix.Intersect(in, m.Surface)
	t.log.Debug("mirror probe", "element", i, "label", m.Name, "hits", len(hits))
	if len(hits) == 0 {
		b.truncate(Diagnostic{Err: ErrNoIntersection, Element: i, Side: Entry, Label: m.Name})
		return false
	}
	p, n := t.resolve(b, i, Entry, m.Name, hits[nearest(hits)])
	if m.Orientation != nil {
		n = m.Orientation.Normal()
	}
	b.cross(p, n, Reflect(in.Direction, n))
	return true
}

// resolve returns the world point and normal of h, substituting zero vectors
// for missing fields and recording that as a diagnostic.
func (t *Tracer) resolve(b *builder, i int, side Side, label string, h Hit) (Vec3, Vec3) {
	p, n := h.Point, MeshToWorldNormal(h.Normal)
	if h.NoPoint || h.NoNormal {
		if h.NoPoint {
			p = Vec3{}
		}
		if h.NoNormal {
			n = Vec3{}
		}
		b.note(Diagnostic{Err: ErrMalformedHit, Element: i, Side: side, Label: label})
		t.log.Warn("malformed hit, substituting zero vector",
			"element", i, "side", side, "noPoint", h.NoPoint, "noNormal", h.NoNormal)
	}
	return p, n
}

func (t *Tracer) project(b *builder, ref Reference) {
	last := b.last()
	switch r := ref.(type) {
	case nil:
	case Offset:
		if r == 0 {
			return
		}
		b.project(last.At(float64(r)))
	case Point:
		b.project(Vec3(r))
	case Plane:
		hit, dist, ok := intersectPlane(last, r)
		if !ok {
			b.note(Diagnostic{Err: ErrDegenerateProjection, Element: -1, Side: Terminal})
			t.log.Warn("final ray does not meet reference plane",
				"origin", last.Origin, "direction", last.Direction)
			return
		}
		t.log.Debug("projected onto reference plane", "point", hit, "distance", dist)
		b.project(hit)
	}
}

// nearest returns the index of the hit with the smallest distance.
func nearest(hits []Hit) int {
	best := 0
	for i, h := range hits {
		if h.Distance < hits[best].Distance {
			best = i
		}
	}
	return best
}

// farthest returns the index of the hit with the largest distance. Ties keep
// the first reported hit.
func farthest(hits []Hit) int {
	best := 0
	for i, h := range hits {
		if h.Distance > hits[best].Distance {
			best = i
		}
	}
	return best
}

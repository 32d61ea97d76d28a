package surface

import (
	"fmt"
	"math"

	"seqtrace/internal/mathutil"
)

// LensSolid is a closed lens body around the local +z axis: a front cap
// with its vertex at z = 0, a back cap with its vertex at z = Thickness and
// a cylindrical edge of radius SemiAperture.
//
// A radius of 0 is a plano cap. A positive radius has its centre of
// curvature further along +z than the vertex.
type LensSolid struct {
	Mount        Pose
	R1, R2       float64
	Thickness    float64
	SemiAperture float64
}

// NewLensSolid validates the lens geometry.
func NewLensSolid(mount Pose, r1, r2, thickness, semiAperture float64) (*LensSolid, error) {
	if thickness <= 0 {
		return nil, fmt.Errorf("surface: lens thickness must be > 0, got %v", thickness)
	}
	if semiAperture <= 0 {
		return nil, fmt.Errorf("surface: lens semi-aperture must be > 0, got %v", semiAperture)
	}
	for _, r := range []float64{r1, r2} {
		if r != 0 && math.Abs(r) < semiAperture {
			return nil, fmt.Errorf("surface: |radius| %v smaller than semi-aperture %v", r, semiAperture)
		}
	}
	l := &LensSolid{Mount: mount, R1: r1, R2: r2, Thickness: thickness, SemiAperture: semiAperture}
	if e := l.EdgeThickness(); e < 0 {
		return nil, fmt.Errorf("surface: caps cross inside the aperture (edge thickness %.4g)", e)
	}
	return l, nil
}

// EdgeThickness is the axial length of the cylindrical edge.
func (l LensSolid) EdgeThickness() float64 {
	a := l.SemiAperture
	return l.Thickness + Sag(l.R2, a) - Sag(l.R1, a)
}

func (l LensSolid) placement() Pose { return l.Mount }

func (l LensSolid) localHits(o, d mathutil.Vec3) []localHit {
	var hits []localHit
	hits = l.cap(hits, o, d, 0, l.R1)
	hits = l.cap(hits, o, d, l.Thickness, l.R2)
	return l.edge(hits, o, d)
}

func (l LensSolid) inAperture(p mathutil.Vec3) bool {
	a := l.SemiAperture
	return p[0]*p[0]+p[1]*p[1] <= a*a*(1+1e-12)
}

// cap appends the hits on the cap whose vertex is at axial position zv.
func (l LensSolid) cap(hits []localHit, o, d mathutil.Vec3, zv, R float64) []localHit {
	if R == 0 {
		if d[2] == 0 {
			return hits
		}
		t := (zv - o[2]) / d[2]
		if p := o.Add(d.Scale(t)); l.inAperture(p) {
			hits = append(hits, localHit{t: t, n: mathutil.Vec3{0, 0, 1}})
		}
		return hits
	}

	c := mathutil.Vec3{0, 0, zv + R}
	oc := o.Sub(c)
	b := oc.Dot(d)
	disc := b*b - (oc.Dot(oc) - R*R)
	if disc < 0 {
		return hits
	}
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{-b - sq, -b + sq} {
		p := o.Add(d.Scale(t))
		// Only the half of the sphere facing the vertex belongs to the cap.
		if (p[2]-c[2])*R >= 0 || !l.inAperture(p) {
			continue
		}
		hits = append(hits, localHit{t: t, n: p.Sub(c).Scale(1 / R)})
	}
	return hits
}

func (l LensSolid) edge(hits []localHit, o, d mathutil.Vec3) []localHit {
	a := l.SemiAperture
	A := d[0]*d[0] + d[1]*d[1]
	if A < 1e-18 {
		return hits
	}
	B := o[0]*d[0] + o[1]*d[1]
	C := o[0]*o[0] + o[1]*o[1] - a*a
	disc := B*B - A*C
	if disc < 0 {
		return hits
	}
	zFront := Sag(l.R1, a)
	zBack := l.Thickness + Sag(l.R2, a)
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{(-B - sq) / A, (-B + sq) / A} {
		p := o.Add(d.Scale(t))
		if p[2] < zFront || p[2] > zBack {
			continue
		}
		hits = append(hits, localHit{t: t, n: mathutil.Vec3{p[0] / a, p[1] / a, 0}})
	}
	return hits
}

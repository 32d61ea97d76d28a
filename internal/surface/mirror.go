package surface

import (
	"fmt"

	"seqtrace/internal/mathutil"
)

// Up is the local normal of a MirrorDisc before its pose is applied.
var Up = mathutil.Vec3{0, 1, 0}

// MirrorDisc is a flat circular reflector lying in the local y = 0 plane.
type MirrorDisc struct {
	Mount  Pose
	Radius float64
}

func NewMirrorDisc(mount Pose, radius float64) (*MirrorDisc, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("surface: mirror radius must be > 0, got %v", radius)
	}
	return &MirrorDisc{Mount: mount, Radius: radius}, nil
}

// Normal is the world normal of the reflecting face.
func (m MirrorDisc) Normal() mathutil.Vec3 {
	return m.Mount.matrix().MulVec3(Up)
}

func (m MirrorDisc) placement() Pose { return m.Mount }

func (m MirrorDisc) localHits(o, d mathutil.Vec3) []localHit {
	if d[1] == 0 {
		return nil
	}
	t := -o[1] / d[1]
	p := o.Add(d.Scale(t))
	if p[0]*p[0]+p[2]*p[2] > m.Radius*m.Radius {
		return nil
	}
	return []localHit{{t: t, n: Up}}
}

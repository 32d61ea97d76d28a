package prescription

import (
	"fmt"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
	"seqtrace/internal/surface"
	"seqtrace/internal/tracer"
)

// System is a validated prescription ready to trace.
type System struct {
	Name         string
	AmbientIndex float64
	Elements     []tracer.Element
	Intersector  tracer.Intersector
	Reference    tracer.Reference
	Launch       bundle.Launch
	Apertures    []bundle.Aperture
}

// Tracer returns a tracer for the system with extra options applied last.
func (s *System) Tracer(opts ...tracer.Option) *tracer.Tracer {
	opts = append([]tracer.Option{tracer.WithAmbientIndex(s.AmbientIndex)}, opts...)
	return tracer.New(s.Intersector, opts...)
}

// Build validates a resolved prescription and constructs its system.
func (p *Prescription) Build() (*System, error) {
	if p.Launch.Direction.Normalize().IsZero() {
		return nil, fmt.Errorf("prescription: launch direction is zero")
	}
	startZ := DefaultStartZ
	if p.Launch.StartZ != nil {
		startZ = *p.Launch.StartZ
	}

	s := &System{
		Name:         p.Name,
		AmbientIndex: p.AmbientIndex,
		Intersector:  surface.Intersector{},
		Launch: bundle.Launch{
			Radius:    p.Launch.Radius,
			StartZ:    startZ,
			Direction: p.Launch.Direction,
		},
	}

	for i, es := range p.Elements {
		el, err := buildElement(es)
		if err != nil {
			return nil, fmt.Errorf("prescription: element %d (%s): %w", i, es.Name, err)
		}
		s.Elements = append(s.Elements, el)
	}

	ref, err := buildReference(p.Reference)
	if err != nil {
		return nil, fmt.Errorf("prescription: reference: %w", err)
	}
	s.Reference = ref

	if len(p.Aperture.Points) > 0 {
		s.Apertures = p.Aperture.Points
	} else {
		s.Apertures, err = bundle.Pattern(p.Aperture.Pattern, p.Aperture.Count)
		if err != nil {
			return nil, fmt.Errorf("prescription: aperture: %w", err)
		}
	}
	return s, nil
}

func buildElement(es ElementSpec) (tracer.Element, error) {
	pose := surface.Pose{Position: es.Position, Rotation: mathutil.Deg2RadVec(es.Rotation)}
	switch es.Type {
	case TypeLens:
		if es.Index <= 0 {
			return nil, fmt.Errorf("refractive index must be > 0, got %v", es.Index)
		}
		solid, err := surface.NewLensSolid(pose, es.R1, es.R2, es.Thickness, es.SemiAperture)
		if err != nil {
			return nil, err
		}
		return tracer.Lens{Name: es.Name, Index: es.Index, Surface: solid}, nil
	case TypeMirror:
		disc, err := surface.NewMirrorDisc(pose, es.Radius)
		if err != nil {
			return nil, err
		}
		m := tracer.Mirror{Name: es.Name, Surface: disc}
		if es.Orient {
			m.Orientation = &tracer.Orientation{Up: surface.Up, Rotation: pose.Rotation}
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown element type %q", es.Type)
}

func buildReference(rs *ReferenceSpec) (tracer.Reference, error) {
	if rs == nil {
		return nil, nil
	}
	switch rs.Type {
	case RefOffset:
		return tracer.Offset(rs.Distance), nil
	case RefPoint:
		return tracer.Point(rs.Point), nil
	case RefPlane:
		if rs.Normal.Normalize().IsZero() {
			return nil, fmt.Errorf("plane normal is zero")
		}
		return tracer.Plane{Origin: rs.Point, Normal: rs.Normal.Normalize()}, nil
	}
	return nil, fmt.Errorf("unknown reference type %q", rs.Type)
}

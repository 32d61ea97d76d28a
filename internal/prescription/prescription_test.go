package prescription

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

const singletJSON = `{
  "name": "singlet",
  "launch": {"radius": 4, "start_z": -20, "direction": [0, 0, 1]},
  "aperture": {"pattern": "fan", "count": 5},
  "elements": [
    {"name": "L1", "type": "lens", "index": 1.5, "position": [0, 0, 0],
     "r1": 50, "r2": -50, "thickness": 5, "semi_aperture": 10}
  ],
  "reference": {"type": "plane", "point": [0, 0, 60], "normal": [0, 0, 1]},
  "workers": 3
}`

const singletYAML = `name: singlet
launch:
  radius: 4
  start_z: -20
  direction: [0, 0, 1]
aperture:
  pattern: fan
  count: 5
elements:
  - name: L1
    type: lens
    index: 1.5
    position: [0, 0, 0]
    r1: 50
    r2: -50
    thickness: 5
    semi_aperture: 10
reference:
  type: plane
  point: [0, 0, 60]
  normal: [0, 0, 1]
workers: 3
`

const singletTOML = `name = "singlet"
workers = 3

[launch]
radius = 4.0
start_z = -20.0
direction = [0.0, 0.0, 1.0]

[aperture]
pattern = "fan"
count = 5

[[elements]]
name = "L1"
type = "lens"
index = 1.5
position = [0.0, 0.0, 0.0]
r1 = 50.0
r2 = -50.0
thickness = 5.0
semi_aperture = 10.0

[reference]
type = "plane"
point = [0.0, 0.0, 60.0]
normal = [0.0, 0.0, 1.0]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	want, err := Load(writeFile(t, "singlet.json", singletJSON))
	require.NoError(t, err)
	require.Len(t, want.Elements, 1)
	require.NotNil(t, want.Launch.StartZ)
	assert.Equal(t, -20.0, *want.Launch.StartZ)

	for name, body := range map[string]string{
		"singlet.yaml": singletYAML,
		"singlet.yml":  singletYAML,
		"singlet.toml": singletTOML,
	} {
		got, err := Load(writeFile(t, name, body))
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "system.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, "broken.json", "{"))
	assert.ErrorContains(t, err, "parse")
}

func TestLoadNameFromFile(t *testing.T) {
	p, err := Load(writeFile(t, "relay.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "relay", p.Name)
}

func TestResolveDefaults(t *testing.T) {
	var p Prescription
	p.Resolve(Flags{})

	assert.Equal(t, 1.0, p.AmbientIndex)
	assert.Equal(t, DefaultLaunchRadius, p.Launch.Radius)
	require.NotNil(t, p.Launch.StartZ)
	assert.Equal(t, DefaultStartZ, *p.Launch.StartZ)
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, p.Launch.Direction)
	assert.Equal(t, bundle.Fan, p.Aperture.Pattern)
	assert.Equal(t, DefaultFanCount, p.Aperture.Count)
	assert.Equal(t, runtime.NumCPU(), p.Workers)
	assert.Equal(t, DefaultView, p.Output.View)
	assert.Equal(t, DefaultDiagramSize, p.Output.Size)
	assert.Equal(t, DefaultSupersample, p.Output.Supersample)
}

func TestResolveFlagsOverride(t *testing.T) {
	p := Prescription{
		Workers:  2,
		Aperture: ApertureSpec{Points: []bundle.Aperture{{X: 0.1}}},
		Output:   OutputSpec{Diagram: "a.png", Size: 300},
	}
	p.Resolve(Flags{Workers: 7, Pattern: bundle.Ring, Count: 6, Diagram: "b.webp"})

	assert.Equal(t, 7, p.Workers)
	assert.Equal(t, bundle.Ring, p.Aperture.Pattern)
	assert.Equal(t, 6, p.Aperture.Count)
	assert.Nil(t, p.Aperture.Points)
	assert.Equal(t, "b.webp", p.Output.Diagram)
	assert.Equal(t, 300, p.Output.Size)
}

func TestBuildSinglet(t *testing.T) {
	p, err := Load(writeFile(t, "singlet.json", singletJSON))
	require.NoError(t, err)
	p.Resolve(Flags{})

	sys, err := p.Build()
	require.NoError(t, err)
	assert.Equal(t, "singlet", sys.Name)
	require.Len(t, sys.Elements, 1)
	assert.Len(t, sys.Apertures, 5)
	assert.Equal(t, tracer.Plane{Origin: mathutil.Vec3{0, 0, 60}, Normal: mathutil.Vec3{0, 0, 1}}, sys.Reference)

	tr := sys.Tracer()
	res := tr.Trace(sys.Elements, sys.Launch.Ray(bundle.Aperture{Y: 1}), sys.Reference)
	require.Equal(t, tracer.Complete, res.Status)
	assert.True(t, res.Projected)
	assert.InDelta(t, 60.0, res.Final()[2], 1e-9)
	// A converging lens bends the marginal ray toward the axis.
	assert.Less(t, res.Final()[1], 4.0)
}

func TestBuildMirrorOrientation(t *testing.T) {
	p := Prescription{Elements: []ElementSpec{{
		Name: "fold", Type: TypeMirror, Radius: 5,
		Position: mathutil.Vec3{0, 0, 20}, Rotation: mathutil.Vec3{45, 0, 0}, Orient: true,
	}}}
	p.Resolve(Flags{})
	sys, err := p.Build()
	require.NoError(t, err)

	m, ok := sys.Elements[0].(tracer.Mirror)
	require.True(t, ok)
	require.NotNil(t, m.Orientation)
	assert.True(t, m.Orientation.Normal().ApproxEqual(mathutil.Vec3{0, 0.7071067811865476, 0.7071067811865476}, 1e-12))
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		mod  func(p *Prescription)
		want string
	}{
		{"unknown type", func(p *Prescription) {
			p.Elements = []ElementSpec{{Name: "X", Type: "prism"}}
		}, `element 0 (X): unknown element type "prism"`},
		{"bad index", func(p *Prescription) {
			p.Elements = []ElementSpec{{Name: "L", Type: TypeLens, Thickness: 1, SemiAperture: 1}}
		}, "refractive index"},
		{"bad lens geometry", func(p *Prescription) {
			p.Elements = []ElementSpec{{Name: "L", Type: TypeLens, Index: 1.5, SemiAperture: 1}}
		}, "thickness"},
		{"bad mirror", func(p *Prescription) {
			p.Elements = []ElementSpec{{Name: "M", Type: TypeMirror}}
		}, "mirror radius"},
		{"plane without normal", func(p *Prescription) {
			p.Reference = &ReferenceSpec{Type: RefPlane}
		}, "plane normal"},
		{"unknown reference", func(p *Prescription) {
			p.Reference = &ReferenceSpec{Type: "sphere"}
		}, "unknown reference"},
		{"unknown pattern", func(p *Prescription) {
			p.Aperture.Pattern = "spiral"
		}, "aperture"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Prescription
			p.Resolve(Flags{})
			tc.mod(&p)
			_, err := p.Build()
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestBuildReferences(t *testing.T) {
	cases := []struct {
		spec *ReferenceSpec
		want tracer.Reference
	}{
		{nil, nil},
		{&ReferenceSpec{Type: RefOffset, Distance: 12}, tracer.Offset(12)},
		{&ReferenceSpec{Type: RefPoint, Point: mathutil.Vec3{1, 2, 3}}, tracer.Point{1, 2, 3}},
		{&ReferenceSpec{Type: RefPlane, Point: mathutil.Vec3{0, 0, 9}, Normal: mathutil.Vec3{0, 0, 2}},
			tracer.Plane{Origin: mathutil.Vec3{0, 0, 9}, Normal: mathutil.Vec3{0, 0, 1}}},
	}
	for _, tc := range cases {
		got, err := buildReference(tc.spec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestSampleSystemsTrace(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "systems", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := Load(path)
			require.NoError(t, err)
			p.Resolve(Flags{Workers: 2})
			sys, err := p.Build()
			require.NoError(t, err)

			traces, err := bundle.Run(context.Background(), bundle.Config{
				Tracer:    sys.Tracer(),
				Elements:  sys.Elements,
				Reference: sys.Reference,
				Launch:    sys.Launch,
				Workers:   p.Workers,
			}, sys.Apertures)
			require.NoError(t, err)
			spot := bundle.SpotOf(traces)
			assert.Equal(t, len(traces), spot.Complete)
		})
	}
}

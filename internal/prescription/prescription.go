// Package prescription loads optical prescriptions and turns them into a
// traceable system.
package prescription

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
)

// Prescription is the on-disk description of an optical system and a run.
type Prescription struct {
	Name         string         `json:"name" yaml:"name" toml:"name"`
	AmbientIndex float64        `json:"ambient_index" yaml:"ambient_index" toml:"ambient_index"`
	Launch       LaunchSpec     `json:"launch" yaml:"launch" toml:"launch"`
	Aperture     ApertureSpec   `json:"aperture" yaml:"aperture" toml:"aperture"`
	Elements     []ElementSpec  `json:"elements" yaml:"elements" toml:"elements"`
	Reference    *ReferenceSpec `json:"reference,omitempty" yaml:"reference,omitempty" toml:"reference,omitempty"`
	Workers      int            `json:"workers" yaml:"workers" toml:"workers"`
	Output       OutputSpec     `json:"output" yaml:"output" toml:"output"`
}

// LaunchSpec places aperture coordinates in the world. StartZ is a pointer
// because 0 is a valid plane.
type LaunchSpec struct {
	Radius    float64       `json:"radius" yaml:"radius" toml:"radius"`
	StartZ    *float64      `json:"start_z,omitempty" yaml:"start_z,omitempty" toml:"start_z,omitempty"`
	Direction mathutil.Vec3 `json:"direction" yaml:"direction" toml:"direction"`
}

// ApertureSpec selects launch samples: explicit Points win over Pattern.
type ApertureSpec struct {
	Pattern string            `json:"pattern" yaml:"pattern" toml:"pattern"`
	Count   int               `json:"count" yaml:"count" toml:"count"`
	Points  []bundle.Aperture `json:"points,omitempty" yaml:"points,omitempty" toml:"points,omitempty"`
}

// Element types.
const (
	TypeLens   = "lens"
	TypeMirror = "mirror"
)

// ElementSpec is one lens or mirror. Rotation is Euler XYZ in degrees.
type ElementSpec struct {
	Name     string        `json:"name" yaml:"name" toml:"name"`
	Type     string        `json:"type" yaml:"type" toml:"type"`
	Position mathutil.Vec3 `json:"position" yaml:"position" toml:"position"`
	Rotation mathutil.Vec3 `json:"rotation" yaml:"rotation" toml:"rotation"`

	// Lens
	Index        float64 `json:"index,omitempty" yaml:"index,omitempty" toml:"index,omitempty"`
	R1           float64 `json:"r1,omitempty" yaml:"r1,omitempty" toml:"r1,omitempty"`
	R2           float64 `json:"r2,omitempty" yaml:"r2,omitempty" toml:"r2,omitempty"`
	Thickness    float64 `json:"thickness,omitempty" yaml:"thickness,omitempty" toml:"thickness,omitempty"`
	SemiAperture float64 `json:"semi_aperture,omitempty" yaml:"semi_aperture,omitempty" toml:"semi_aperture,omitempty"`

	// Mirror. Orient takes the normal from the pose instead of the hit.
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty" toml:"radius,omitempty"`
	Orient bool    `json:"orient,omitempty" yaml:"orient,omitempty" toml:"orient,omitempty"`
}

// Reference types.
const (
	RefOffset = "offset"
	RefPoint  = "point"
	RefPlane  = "plane"
)

// ReferenceSpec is the terminal projection target.
type ReferenceSpec struct {
	Type     string        `json:"type" yaml:"type" toml:"type"`
	Distance float64       `json:"distance,omitempty" yaml:"distance,omitempty" toml:"distance,omitempty"`
	Point    mathutil.Vec3 `json:"point,omitempty" yaml:"point,omitempty" toml:"point,omitempty"`
	Normal   mathutil.Vec3 `json:"normal,omitempty" yaml:"normal,omitempty" toml:"normal,omitempty"`
}

// OutputSpec names the run artifacts. Empty paths are not written.
type OutputSpec struct {
	Manifest    string `json:"manifest" yaml:"manifest" toml:"manifest"`
	Diagram     string `json:"diagram" yaml:"diagram" toml:"diagram"`
	View        string `json:"view" yaml:"view" toml:"view"`
	Size        int    `json:"size" yaml:"size" toml:"size"`
	Supersample int    `json:"supersample" yaml:"supersample" toml:"supersample"`
}

// Defaults applied by Resolve.
const (
	DefaultLaunchRadius = 8.0
	DefaultStartZ       = -10.0
	DefaultDiagramSize  = 800
	DefaultSupersample  = 2
	DefaultFanCount     = 11
	DefaultView         = "yz"
)

// Load reads a prescription; the format follows the file extension
// (.json, .yaml/.yml or .toml). Fields not set keep their zero values.
func Load(path string) (Prescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prescription{}, fmt.Errorf("prescription: read %s: %w", path, err)
	}

	var p Prescription
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &p)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &p)
	case ".toml":
		err = toml.Unmarshal(data, &p)
	default:
		return Prescription{}, fmt.Errorf("prescription: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Prescription{}, fmt.Errorf("prescription: parse %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Flags holds CLI flag values that override prescription settings.
type Flags struct {
	Workers     int
	Pattern     string
	Count       int
	Manifest    string
	Diagram     string
	View        string
	Size        int
	Supersample int
}

// Resolve applies flag overrides, then fills empty fields with defaults.
func (p *Prescription) Resolve(flags Flags) {
	if flags.Workers > 0 {
		p.Workers = flags.Workers
	}
	if flags.Pattern != "" {
		p.Aperture.Pattern = flags.Pattern
		p.Aperture.Points = nil
	}
	if flags.Count > 0 {
		p.Aperture.Count = flags.Count
	}
	if flags.Manifest != "" {
		p.Output.Manifest = flags.Manifest
	}
	if flags.Diagram != "" {
		p.Output.Diagram = flags.Diagram
	}
	if flags.View != "" {
		p.Output.View = flags.View
	}
	if flags.Size > 0 {
		p.Output.Size = flags.Size
	}
	if flags.Supersample > 0 {
		p.Output.Supersample = flags.Supersample
	}

	if p.AmbientIndex <= 0 {
		p.AmbientIndex = 1.0
	}
	if p.Launch.Radius <= 0 {
		p.Launch.Radius = DefaultLaunchRadius
	}
	if p.Launch.StartZ == nil {
		z := DefaultStartZ
		p.Launch.StartZ = &z
	}
	if p.Launch.Direction.IsZero() {
		p.Launch.Direction = mathutil.Vec3{0, 0, 1}
	}
	if len(p.Aperture.Points) == 0 {
		if p.Aperture.Pattern == "" {
			p.Aperture.Pattern = bundle.Fan
		}
		if p.Aperture.Count <= 0 {
			p.Aperture.Count = DefaultFanCount
		}
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	if p.Output.View == "" {
		p.Output.View = DefaultView
	}
	if p.Output.Size <= 0 {
		p.Output.Size = DefaultDiagramSize
	}
	if p.Output.Supersample <= 0 {
		p.Output.Supersample = DefaultSupersample
	}
}

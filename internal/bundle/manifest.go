package bundle

import (
	"encoding/json"
	"fmt"
	"os"

	"seqtrace/internal/mathutil"
	"seqtrace/internal/tracer"
)

// ManifestEntry is one trace in the output manifest.
type ManifestEntry struct {
	Aperture    Aperture        `json:"aperture"`
	Status      tracer.Status   `json:"status"`
	Elements    int             `json:"elements"`
	Projected   bool            `json:"projected"`
	Points      []mathutil.Vec3 `json:"points"`
	Directions  []mathutil.Vec3 `json:"directions"`
	Normals     []mathutil.Vec3 `json:"normals"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// Manifest is the JSON document written by WriteManifest.
type Manifest struct {
	Name   string          `json:"name"`
	Spot   Spot            `json:"spot"`
	Traces []ManifestEntry `json:"traces"`
}

// NewManifest collects traces into a manifest.
func NewManifest(name string, traces []Trace) Manifest {
	m := Manifest{Name: name, Spot: SpotOf(traces), Traces: make([]ManifestEntry, len(traces))}
	for i, t := range traces {
		r := t.Result
		e := ManifestEntry{
			Aperture:   t.Aperture,
			Status:     r.Status,
			Elements:   r.Elements,
			Projected:  r.Projected,
			Points:     r.Points,
			Directions: r.Directions,
			Normals:    r.Normals,
		}
		for _, d := range r.Diagnostics {
			e.Diagnostics = append(e.Diagnostics, d.Error())
		}
		m.Traces[i] = e
	}
	return m
}

// WriteManifest writes the manifest for traces to path.
func WriteManifest(path, name string, traces []Trace) error {
	data, err := json.MarshalIndent(NewManifest(name, traces), "", "  ")
	if err != nil {
		return fmt.Errorf("bundle: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("bundle: write manifest: %w", err)
	}
	return nil
}

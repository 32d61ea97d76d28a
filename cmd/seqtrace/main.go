package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"seqtrace/internal/bundle"
	"seqtrace/internal/diagram"
	"seqtrace/internal/prescription"
)

func main() {
	configFile := flag.String("config", "", "Path to prescription (.json, .yaml, .toml)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	pattern := flag.String("pattern", "", "Aperture pattern: fan, cross, grid, ring")
	count := flag.Int("count", 0, "Aperture samples per pattern axis")
	manifest := flag.String("manifest", "", "Write the trace manifest JSON here")
	diagramOut := flag.String("diagram", "", "Write a ray diagram here (.png, .webp, .tga, .bmp)")
	view := flag.String("view", "", "Diagram view: yz, xz, xy (default: yz)")
	size := flag.Int("size", 0, "Diagram size in pixels (default: 800)")
	supersample := flag.Int("supersample", 0, "Diagram supersampling factor (default: 2)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config is required.")
		os.Exit(2)
	}

	p, err := prescription.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prescription: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override the prescription
	p.Resolve(prescription.Flags{
		Workers:     *workers,
		Pattern:     *pattern,
		Count:       *count,
		Manifest:    *manifest,
		Diagram:     *diagramOut,
		View:        *view,
		Size:        *size,
		Supersample: *supersample,
	})

	sys, err := p.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	v, err := diagram.ParseView(p.Output.View)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sequential trace: %s\n", sys.Name)
	fmt.Printf("Elements: %d, Rays: %d, Workers: %d\n", len(sys.Elements), len(sys.Apertures), p.Workers)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	traces, err := bundle.Run(ctx, bundle.Config{
		Tracer:    sys.Tracer(tracerLogger(log)),
		Elements:  sys.Elements,
		Reference: sys.Reference,
		Launch:    sys.Launch,
		Workers:   p.Workers,
		Logger:    log,
		Progress:  2 * time.Second,
	}, sys.Apertures)
	if err != nil {
		log.Warn("run interrupted", "err", err)
	}

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.3fs\n", elapsed.Seconds())

	spot := bundle.SpotOf(traces)
	fmt.Printf("Complete: %d/%d, Truncated: %d\n", spot.Complete, len(traces), spot.Truncated)
	if spot.Complete > 0 {
		c := spot.Centroid
		fmt.Printf("Spot centroid: (%.3f, %.3f, %.3f), RMS radius: %.4f\n", c[0], c[1], c[2], spot.RMSRadius)
	}

	var truncated []bundle.Trace
	for _, t := range traces {
		if len(t.Result.Diagnostics) > 0 {
			truncated = append(truncated, t)
		}
	}
	if len(truncated) > 0 {
		fmt.Printf("\nDiagnostics (%d rays):\n", len(truncated))
		limit := min(20, len(truncated))
		for _, t := range truncated[:limit] {
			for _, d := range t.Result.Diagnostics {
				fmt.Printf("  aperture (%.3f, %.3f): %v\n", t.Aperture.X, t.Aperture.Y, d)
			}
		}
	}

	if path := p.Output.Manifest; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if err := bundle.WriteManifest(path, sys.Name, traces); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", path)
		}
	}

	if path := p.Output.Diagram; path != "" {
		img := diagram.Render(traces, diagram.Options{
			View:        v,
			Size:        p.Output.Size,
			Supersample: p.Output.Supersample,
		})
		if err := diagram.Save(path, img); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: diagram write failed: %v\n", err)
		} else {
			fmt.Printf("Diagram: %s (%s view)\n", path, v)
		}
	}

	if err != nil || spot.Complete == 0 {
		os.Exit(1)
	}
}

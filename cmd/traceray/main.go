package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"seqtrace/internal/bundle"
	"seqtrace/internal/mathutil"
	"seqtrace/internal/prescription"
	"seqtrace/internal/tracer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("traceray", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "Path to prescription (.json, .yaml, .toml)")
	ax := fs.Float64("x", 0, "Aperture x in [-1, 1]")
	ay := fs.Float64("y", 0, "Aperture y in [-1, 1]")
	verbose := fs.Bool("v", false, "Log every surface probe")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configFile == "" {
		fmt.Fprintln(stderr, "usage: traceray -config system.json [-x 0.5] [-y -1] [-v]")
		return 2
	}

	p, err := prescription.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	p.Resolve(prescription.Flags{})
	sys, err := p.Build()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a := bundle.Aperture{X: *ax, Y: *ay}
	start := sys.Launch.Ray(a)
	res := sys.Tracer(tracer.WithLogger(log)).Trace(sys.Elements, start, sys.Reference)

	fmt.Fprintf(stdout, "System: %s, elements: %d, ambient index: %.3f\n", sys.Name, len(sys.Elements), sys.AmbientIndex)
	fmt.Fprintf(stdout, "Aperture (%.3f, %.3f)\n", a.X, a.Y)
	fmt.Fprintf(stdout, "  launch    at %s dir %s\n", pv(res.Points[0]), pv(res.Directions[0]))
	for i := 1; i < len(res.Points); i++ {
		if i-1 < len(res.Normals) {
			fmt.Fprintf(stdout, "  crossing %d at %s dir %s normal %s\n",
				i, pv(res.Points[i]), pv(res.Directions[i]), pv(res.Normals[i-1]))
		} else {
			fmt.Fprintf(stdout, "  projected at %s dir %s\n", pv(res.Points[i]), pv(res.Directions[i]))
		}
	}
	fmt.Fprintf(stdout, "Status: %s, elements traversed: %d/%d\n", res.Status, res.Elements, len(sys.Elements))
	for _, d := range res.Diagnostics {
		fmt.Fprintf(stdout, "  %v\n", d)
	}

	if res.Status != tracer.Complete {
		return 1
	}
	return 0
}

// pv formats a vector with three decimals.
func pv(v mathutil.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
